package ports

import "context"

// SnapshotRecord is one keyed entry of a full collection snapshot.
type SnapshotRecord struct {
	Key   string
	Value map[string]any
}

// SnapshotFunc receives the complete current state of the subscribed
// collection. The backing store delivers snapshots, not diffs.
type SnapshotFunc func(records []SnapshotRecord)

// Subscription is a standing snapshot feed. Unsubscribe stops delivery and is
// safe to call more than once.
type Subscription interface {
	Unsubscribe()
}

// RealtimeStore is the remote ordered store: subscription-capable reads plus
// push/update writes.
type RealtimeStore interface {
	// Subscribe delivers the most recent limit records at path ordered by
	// orderField, re-delivering the full set whenever the collection changes.
	Subscribe(ctx context.Context, path, orderField string, limit int, fn SnapshotFunc) (Subscription, error)
	// Push appends a record and returns the server-assigned key.
	Push(ctx context.Context, path string, value map[string]any) (string, error)
	// Update writes the given fields of the record at path.
	Update(ctx context.Context, path string, fields map[string]any) error
}
