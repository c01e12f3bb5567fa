package ports

import "context"

// LocalCache is a small durable string key/value store, used as the offline
// fallback for feature state and as a short-circuit cache for eligibility
// verdicts. Missing keys surface domain.ErrRecordNotFound.
type LocalCache interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
