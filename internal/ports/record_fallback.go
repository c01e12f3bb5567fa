package ports

import (
	"context"

	"github.com/whisprhq/whispr-cli/internal/domain"
)

// FallbackRecordRepository keeps local-only record lists keyed by wallet
// address for when the remote store is unreachable. Entries are never
// reconciled against the remote store.
type FallbackRecordRepository interface {
	AppendConfession(ctx context.Context, address string, confession domain.Confession) error
	AppendProfile(ctx context.Context, address string, profile domain.MatchProfile) error
	ListConfessions(ctx context.Context, address string) ([]domain.Confession, error)
}
