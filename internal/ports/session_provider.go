package ports

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// WalletHandle is one of a user's candidate signing identities as reported by
// the auth/session provider. Signing capabilities are optional and probed by
// interface assertion, never by concrete type.
type WalletHandle interface {
	Address() string
	// Embedded reports whether the handle is the provider's custodial wallet
	// as opposed to an externally connected one.
	Embedded() bool
}

// TransactionSignSender is the combined capability: the wallet signs and
// broadcasts in one step.
type TransactionSignSender interface {
	SignAndSendTransaction(ctx context.Context, tx *solana.Transaction) (string, error)
}

// TransactionSender accepts an unsigned transaction together with a ledger
// handle and performs its own signing internally.
type TransactionSender interface {
	SendTransaction(ctx context.Context, tx *solana.Transaction, ledger LedgerClient) (string, error)
}

// TransactionSigner signs without broadcasting; the caller broadcasts the
// returned transaction itself.
type TransactionSigner interface {
	SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error)
}

// SigningProviderAccessor exposes a lower-level provider object. The returned
// value is probed for TransactionSignSender first, then TransactionSigner.
type SigningProviderAccessor interface {
	SigningProvider(ctx context.Context) (any, error)
}

// SessionProvider is the auth provider the session layer consumes: readiness,
// authentication state, and the current wallet handle candidates.
type SessionProvider interface {
	Ready(ctx context.Context) bool
	Authenticated(ctx context.Context) bool
	Wallets(ctx context.Context) []WalletHandle
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
}
