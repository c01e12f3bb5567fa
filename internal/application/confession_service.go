package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/whisprhq/whispr-cli/internal/domain"
	"github.com/whisprhq/whispr-cli/internal/ports"
)

const ConfessionsPath = "confessions"

// ConfessionService posts confessions: validate, anchor on chain with a
// nominal self-transfer, persist to the remote store (or the local-only
// fallback when the store is unreachable), and insert optimistically into
// the mirror. Nothing here retries; the caller re-invokes on failure.
type ConfessionService struct {
	session   *WalletSessionService
	submitter *TransactionSubmitter
	mirror    *FeedMirror
	store     ports.RealtimeStore
	fallback  ports.FallbackRecordRepository
	cache     ports.LocalCache
	clock     ports.Clock
}

func NewConfessionService(
	session *WalletSessionService,
	submitter *TransactionSubmitter,
	mirror *FeedMirror,
	store ports.RealtimeStore,
	fallback ports.FallbackRecordRepository,
	cache ports.LocalCache,
	clock ports.Clock,
) *ConfessionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &ConfessionService{
		session:   session,
		submitter: submitter,
		mirror:    mirror,
		store:     store,
		fallback:  fallback,
		cache:     cache,
		clock:     clock,
	}
}

func (s *ConfessionService) Submit(ctx context.Context, content, category string, premium bool) (domain.Confession, error) {
	confession := domain.Confession{
		Content:   strings.TrimSpace(content),
		Category:  category,
		IsPremium: premium,
	}
	if err := confession.Validate(); err != nil {
		return domain.Confession{}, err
	}

	session := s.session.Resolve(ctx)

	signature, err := s.submitter.SubmitSelf(ctx)
	if err != nil && !errors.Is(err, domain.ErrConfirmationTimeout) {
		return domain.Confession{}, err
	}
	// On a confirmation timeout the transfer may still land; the record is
	// persisted with its signature and the outcome stays ambiguous.

	confession.TxSignature = signature
	confession.CreatedAt = s.clock.Now().UTC()

	if _, pushErr := s.store.Push(ctx, ConfessionsPath, confessionStoreValue(confession)); pushErr != nil {
		if fallbackErr := s.fallback.AppendConfession(ctx, session.Address, confession); fallbackErr != nil {
			return domain.Confession{}, fmt.Errorf("%w: push: %v; fallback append: %v", domain.ErrStoreWrite, pushErr, fallbackErr)
		}
	}

	localID := s.mirror.OptimisticInsert(confession)
	confession.ID = localID
	confession.Pending = true

	if s.cache != nil {
		_ = s.cache.Put(ctx, contentCacheKey(localID), confession.Content)
	}

	return confession, nil
}

// Like bumps the likes counter through the mirror's cached read-modify-write.
func (s *ConfessionService) Like(ctx context.Context, id string) error {
	return s.mirror.Increment(ctx, id, fieldLikes, 1)
}

// LocalConfessions lists the local-only fallback records for the active
// wallet. These never reconcile against the remote store.
func (s *ConfessionService) LocalConfessions(ctx context.Context) ([]domain.Confession, error) {
	session := s.session.Resolve(ctx)
	if session.Address == "" {
		return nil, domain.ErrNotConnected
	}

	return s.fallback.ListConfessions(ctx, session.Address)
}

func contentCacheKey(id string) string {
	return "confession_content_" + id
}
