package embedded

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/whisprhq/whispr-cli/internal/ports"
)

// Wallet is a keypair loaded from a solana-keygen file. It carries the
// combined sign-and-send capability and broadcasts through the ledger client
// it was wired with.
type Wallet struct {
	key    solana.PrivateKey
	ledger ports.LedgerClient
}

var (
	_ ports.WalletHandle          = (*Wallet)(nil)
	_ ports.TransactionSignSender = (*Wallet)(nil)
)

func Load(path string, ledger ports.LedgerClient) (*Wallet, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("load keypair file: %w", err)
	}

	return &Wallet{key: key, ledger: ledger}, nil
}

func (w *Wallet) Address() string {
	return w.key.PublicKey().String()
}

func (w *Wallet) Embedded() bool {
	return true
}

func (w *Wallet) SignAndSendTransaction(ctx context.Context, tx *solana.Transaction) (string, error) {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.key.PublicKey()) {
			return &w.key
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}

	signature, err := w.ledger.Broadcast(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("broadcast transaction: %w", err)
	}

	return signature, nil
}
