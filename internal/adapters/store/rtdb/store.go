package rtdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"github.com/whisprhq/whispr-cli/internal/ports"
)

const defaultPollInterval = 3 * time.Second

// Store backs the realtime port with a Firebase Realtime Database. The admin
// SDK has no streaming listener, so Subscribe polls the ordered query and
// delivers the full snapshot whenever its content changes. That matches the
// port's contract: consumers re-derive state from complete snapshots anyway.
type Store struct {
	client *db.Client

	// PollInterval tunes the subscription poll; zero means the default.
	PollInterval time.Duration
}

var _ ports.RealtimeStore = (*Store)(nil)

func NewStore(ctx context.Context, databaseURL string, opts ...option.ClientOption) (*Store, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: databaseURL}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize database client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Subscribe(ctx context.Context, path, orderField string, limit int, fn ports.SnapshotFunc) (ports.Subscription, error) {
	records, err := s.fetch(ctx, path, orderField, limit)
	if err != nil {
		return nil, fmt.Errorf("initial snapshot %s: %w", path, err)
	}

	sub := &subscription{stop: make(chan struct{})}

	fn(records)
	last := fingerprint(records)

	interval := s.PollInterval
	if interval == 0 {
		interval = defaultPollInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-sub.stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			records, err := s.fetch(ctx, path, orderField, limit)
			if err != nil {
				// Transient poll failures keep the last delivered snapshot.
				continue
			}

			next := fingerprint(records)
			if next == last {
				continue
			}
			last = next
			fn(records)
		}
	}()

	return sub, nil
}

func (s *Store) Push(ctx context.Context, path string, value map[string]any) (string, error) {
	ref, err := s.client.NewRef(path).Push(ctx, value)
	if err != nil {
		return "", fmt.Errorf("push to %s: %w", path, err)
	}

	return ref.Key, nil
}

func (s *Store) Update(ctx context.Context, path string, fields map[string]any) error {
	if err := s.client.NewRef(path).Update(ctx, fields); err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}

	return nil
}

func (s *Store) fetch(ctx context.Context, path, orderField string, limit int) ([]ports.SnapshotRecord, error) {
	nodes, err := s.client.NewRef(path).OrderByChild(orderField).LimitToLast(limit).GetOrdered(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]ports.SnapshotRecord, 0, len(nodes))
	for _, node := range nodes {
		var value map[string]any
		if err := node.Unmarshal(&value); err != nil {
			continue
		}
		records = append(records, ports.SnapshotRecord{Key: node.Key(), Value: value})
	}

	return records, nil
}

func fingerprint(records []ports.SnapshotRecord) string {
	encoded, err := json.Marshal(records)
	if err != nil {
		return ""
	}

	return string(encoded)
}

type subscription struct {
	once sync.Once
	stop chan struct{}
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		close(s.stop)
	})
}
