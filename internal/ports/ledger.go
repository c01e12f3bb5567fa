package ports

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/whisprhq/whispr-cli/internal/domain"
)

// OwnedAsset is one collection-tagged asset returned by an ownership query.
type OwnedAsset struct {
	ID           string
	CollectionID string
}

// LedgerClient is the RPC surface of the chain this layer pays into.
type LedgerClient interface {
	// LatestAnchor fetches the ledger's latest accepted block marker.
	LatestAnchor(ctx context.Context) (domain.Anchor, error)
	// Balance returns the lamport balance for address.
	Balance(ctx context.Context, address string) (uint64, error)
	// Broadcast submits a fully signed transaction and returns its signature.
	Broadcast(ctx context.Context, tx *solana.Transaction) (string, error)
	// Confirm blocks until the signature reaches confirmed commitment or the
	// client's default confirmation window elapses.
	Confirm(ctx context.Context, signature string, anchor domain.Anchor) error
	// AssetsByOwner lists collection-tagged assets held by address.
	AssetsByOwner(ctx context.Context, address string) ([]OwnedAsset, error)
}
