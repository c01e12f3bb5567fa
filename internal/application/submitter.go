package application

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/whisprhq/whispr-cli/internal/domain"
	"github.com/whisprhq/whispr-cli/internal/ports"
)

// TransactionSubmitter builds, signs, submits and optionally confirms a
// value transfer. Different wallet origins expose incompatible signing
// interfaces; dispatch probes a fixed capability chain and stops at the
// first capability the active handle carries.
type TransactionSubmitter struct {
	session *WalletSessionService
	ledger  ports.LedgerClient

	// AwaitConfirmation bounds each submit with the ledger client's default
	// confirmation window. A timeout means "unknown", not "failed": the
	// transaction may still land.
	AwaitConfirmation bool
}

func NewTransactionSubmitter(session *WalletSessionService, ledger ports.LedgerClient) *TransactionSubmitter {
	return &TransactionSubmitter{session: session, ledger: ledger, AwaitConfirmation: true}
}

// Submit executes intent and returns the transaction signature. On
// domain.ErrConfirmationTimeout the signature is returned alongside the
// error so callers can keep tracking the ambiguous transfer.
func (s *TransactionSubmitter) Submit(ctx context.Context, intent domain.TransferIntent) (string, error) {
	handle, session := s.session.ActiveWallet(ctx)
	if handle == nil || !session.Connected || session.PublicKey == nil {
		return "", domain.ErrNotConnected
	}

	anchor, err := s.ledger.LatestAnchor(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: fetch anchor: %v", domain.ErrSubmissionFailure, err)
	}

	pending := &domain.PendingTransaction{Intent: intent, Anchor: anchor, State: domain.TxStateBuilding}

	tx, err := buildTransfer(*session.PublicKey, intent, anchor)
	if err != nil {
		pending.State = domain.TxStateFailed
		return "", fmt.Errorf("%w: build transfer: %v", domain.ErrSubmissionFailure, err)
	}

	pending.State = domain.TxStateSigning
	signature, err := s.dispatch(ctx, handle, tx)
	if err != nil {
		pending.State = domain.TxStateFailed
		return "", err
	}

	pending.State = domain.TxStateSubmitted
	pending.Signature = signature

	if s.AwaitConfirmation {
		if err := s.ledger.Confirm(ctx, signature, anchor); err != nil {
			return signature, fmt.Errorf("%w: %v", domain.ErrConfirmationTimeout, err)
		}
		pending.State = domain.TxStateConfirmed
	}

	return signature, nil
}

// SubmitSelf transfers a nominal amount back to the active wallet, anchoring
// a record on chain without moving value.
func (s *TransactionSubmitter) SubmitSelf(ctx context.Context) (string, error) {
	_, session := s.session.ActiveWallet(ctx)
	if session.Address == "" {
		return "", domain.ErrNotConnected
	}

	return s.Submit(ctx, domain.TransferIntent{
		Recipient: session.Address,
		Lamports:  domain.NominalTransferLamports,
	})
}

// dispatch probes the handle's capabilities in priority order: combined
// sign-and-send, send with ledger handle, then a lower-level provider probed
// for sign-and-send and sign-only with manual broadcast. The chain is the
// integration point for new wallet shapes; extend it rather than branching
// on concrete types elsewhere.
func (s *TransactionSubmitter) dispatch(ctx context.Context, handle ports.WalletHandle, tx *solana.Transaction) (string, error) {
	if signSender, ok := handle.(ports.TransactionSignSender); ok {
		signature, err := signSender.SignAndSendTransaction(ctx, tx)
		if err != nil {
			return "", fmt.Errorf("%w: sign and send: %v", domain.ErrSigningFailure, err)
		}
		return signature, nil
	}

	if sender, ok := handle.(ports.TransactionSender); ok {
		signature, err := sender.SendTransaction(ctx, tx, s.ledger)
		if err != nil {
			return "", fmt.Errorf("%w: send: %v", domain.ErrSigningFailure, err)
		}
		return signature, nil
	}

	if accessor, ok := handle.(ports.SigningProviderAccessor); ok {
		provider, err := accessor.SigningProvider(ctx)
		if err != nil {
			return "", fmt.Errorf("%w: acquire signing provider: %v", domain.ErrSigningFailure, err)
		}

		if signSender, ok := provider.(ports.TransactionSignSender); ok {
			signature, err := signSender.SignAndSendTransaction(ctx, tx)
			if err != nil {
				return "", fmt.Errorf("%w: provider sign and send: %v", domain.ErrSigningFailure, err)
			}
			return signature, nil
		}

		if signer, ok := provider.(ports.TransactionSigner); ok {
			signed, err := signer.SignTransaction(ctx, tx)
			if err != nil {
				return "", fmt.Errorf("%w: provider sign: %v", domain.ErrSigningFailure, err)
			}

			signature, err := s.ledger.Broadcast(ctx, signed)
			if err != nil {
				return "", fmt.Errorf("%w: broadcast signed transaction: %v", domain.ErrSubmissionFailure, err)
			}
			return signature, nil
		}
	}

	return "", fmt.Errorf("%w: wallet exposes no supported signing capability", domain.ErrSigningFailure)
}

func buildTransfer(from solana.PublicKey, intent domain.TransferIntent, anchor domain.Anchor) (*solana.Transaction, error) {
	to, err := solana.PublicKeyFromBase58(intent.Recipient)
	if err != nil {
		return nil, fmt.Errorf("parse recipient address: %w", err)
	}

	blockhash, err := solana.HashFromBase58(anchor.Blockhash)
	if err != nil {
		return nil, fmt.Errorf("parse anchor blockhash: %w", err)
	}

	return solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(intent.Lamports, from, to).Build(),
		},
		blockhash,
		solana.TransactionPayer(from),
	)
}
