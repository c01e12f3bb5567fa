package application

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/whisprhq/whispr-cli/internal/domain"
	"github.com/whisprhq/whispr-cli/internal/ports"
)

// FeedMirror keeps a locally cached, optimistically updated copy of one
// remote ordered collection. Every remote delivery is a full snapshot; the
// sorted list is re-derived from scratch each time, the backing store does
// not support deltas.
type FeedMirror struct {
	store ports.RealtimeStore

	mu        sync.Mutex
	path      string
	sub       ports.Subscription
	remote    []domain.Confession
	pending   []domain.Confession
	onChange  func([]domain.Confession)
	snapshots int
}

func NewFeedMirror(store ports.RealtimeStore) *FeedMirror {
	return &FeedMirror{store: store}
}

// SetOnChange registers a callback fired after every list change. Must be
// set before Subscribe.
func (m *FeedMirror) SetOnChange(fn func([]domain.Confession)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Subscribe opens the standing snapshot feed for path, keeping the most
// recent limit records ordered by creation time.
func (m *FeedMirror) Subscribe(ctx context.Context, path string, limit int) error {
	m.mu.Lock()
	m.path = path
	m.mu.Unlock()

	sub, err := m.store.Subscribe(ctx, path, "createdAt", limit, m.applySnapshot)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", path, err)
	}

	m.mu.Lock()
	m.sub = sub
	m.mu.Unlock()

	return nil
}

// Unsubscribe stops snapshot delivery. Safe to call more than once.
func (m *FeedMirror) Unsubscribe() {
	m.mu.Lock()
	sub := m.sub
	m.sub = nil
	m.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// Records returns the visible list: optimistic inserts first, then the
// remote snapshot, both newest-first.
func (m *FeedMirror) Records() []domain.Confession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visibleLocked()
}

// SnapshotCount reports how many remote snapshots have been applied.
func (m *FeedMirror) SnapshotCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshots
}

// OptimisticInsert prepends confession under a client-generated id before
// any network round trip. The record is dropped, not merged, once a server
// snapshot carries a record with the same transaction signature.
func (m *FeedMirror) OptimisticInsert(confession domain.Confession) string {
	if confession.ID == "" {
		confession.ID = uuid.NewString()
	}
	confession.Pending = true

	m.mu.Lock()
	m.pending = append([]domain.Confession{confession}, m.pending...)
	visible := m.visibleLocked()
	fn := m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(visible)
	}

	return confession.ID
}

// Increment reads the cached value of field on record id, adds delta, and
// writes the new absolute value back to the store. This is a client-side
// read-modify-write, not a server-side atomic increment: concurrent callers
// starting from the same cached value lose updates.
func (m *FeedMirror) Increment(ctx context.Context, id, field string, delta int64) error {
	m.mu.Lock()
	if m.path == "" {
		m.mu.Unlock()
		return domain.ErrNotSubscribed
	}
	path := m.path
	current, err := m.fieldLocked(id, field)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	next := current + delta
	if err := m.store.Update(ctx, path+"/"+id, map[string]any{field: next}); err != nil {
		return fmt.Errorf("%w: update %s: %v", domain.ErrStoreWrite, field, err)
	}

	m.mu.Lock()
	m.setFieldLocked(id, field, next)
	visible := m.visibleLocked()
	fn := m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(visible)
	}

	return nil
}

func (m *FeedMirror) applySnapshot(records []ports.SnapshotRecord) {
	decoded := make([]domain.Confession, 0, len(records))
	for _, record := range records {
		decoded = append(decoded, confessionFromSnapshot(record.Key, record.Value))
	}

	sort.SliceStable(decoded, func(i, j int) bool {
		if !decoded[i].CreatedAt.Equal(decoded[j].CreatedAt) {
			return decoded[i].CreatedAt.After(decoded[j].CreatedAt)
		}
		return decoded[i].ID > decoded[j].ID
	})

	confirmed := make(map[string]struct{}, len(decoded))
	for _, record := range decoded {
		if record.TxSignature != "" {
			confirmed[record.TxSignature] = struct{}{}
		}
	}

	m.mu.Lock()
	m.remote = decoded
	m.snapshots++

	kept := m.pending[:0]
	for _, pending := range m.pending {
		if pending.TxSignature != "" {
			if _, ok := confirmed[pending.TxSignature]; ok {
				continue
			}
		}
		kept = append(kept, pending)
	}
	m.pending = kept

	visible := m.visibleLocked()
	fn := m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(visible)
	}
}

func (m *FeedMirror) visibleLocked() []domain.Confession {
	visible := make([]domain.Confession, 0, len(m.pending)+len(m.remote))
	visible = append(visible, m.pending...)
	visible = append(visible, m.remote...)
	return visible
}

func (m *FeedMirror) fieldLocked(id, field string) (int64, error) {
	record, _, err := m.findLocked(id)
	if err != nil {
		return 0, err
	}

	switch field {
	case "likes":
		return record.Likes, nil
	default:
		return 0, fmt.Errorf("unsupported counter field %q", field)
	}
}

func (m *FeedMirror) setFieldLocked(id, field string, value int64) {
	record, pending, err := m.findLocked(id)
	if err != nil {
		return
	}

	if field == "likes" {
		record.Likes = value
	}

	if pending {
		for i := range m.pending {
			if m.pending[i].ID == id {
				m.pending[i] = *record
			}
		}
		return
	}
	for i := range m.remote {
		if m.remote[i].ID == id {
			m.remote[i] = *record
		}
	}
}

func (m *FeedMirror) findLocked(id string) (*domain.Confession, bool, error) {
	for i := range m.remote {
		if m.remote[i].ID == id {
			record := m.remote[i]
			return &record, false, nil
		}
	}
	for i := range m.pending {
		if m.pending[i].ID == id {
			record := m.pending[i]
			return &record, true, nil
		}
	}

	return nil, false, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
}
