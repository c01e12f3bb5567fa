package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/whisprhq/whispr-cli/internal/domain"
	"github.com/whisprhq/whispr-cli/internal/ports"
)

const ProfilesPath = "profiles"

// MatchingService registers matchmaking preferences. The confidential
// matching computation is external; this layer anchors the registration on
// chain and persists the preference record.
type MatchingService struct {
	session   *WalletSessionService
	submitter *TransactionSubmitter
	store     ports.RealtimeStore
	fallback  ports.FallbackRecordRepository
	cache     ports.LocalCache
	clock     ports.Clock
}

func NewMatchingService(
	session *WalletSessionService,
	submitter *TransactionSubmitter,
	store ports.RealtimeStore,
	fallback ports.FallbackRecordRepository,
	cache ports.LocalCache,
	clock ports.Clock,
) *MatchingService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &MatchingService{
		session:   session,
		submitter: submitter,
		store:     store,
		fallback:  fallback,
		cache:     cache,
		clock:     clock,
	}
}

func (s *MatchingService) Register(ctx context.Context, profile domain.MatchProfile) (domain.MatchProfile, error) {
	if err := profile.Validate(); err != nil {
		return domain.MatchProfile{}, err
	}

	session := s.session.Resolve(ctx)

	signature, err := s.submitter.SubmitSelf(ctx)
	if err != nil && !errors.Is(err, domain.ErrConfirmationTimeout) {
		return domain.MatchProfile{}, err
	}

	profile.Address = session.Address
	profile.TxSignature = signature
	profile.CreatedAt = s.clock.Now().UTC()

	if _, pushErr := s.store.Push(ctx, ProfilesPath, profileStoreValue(profile)); pushErr != nil {
		if fallbackErr := s.fallback.AppendProfile(ctx, session.Address, profile); fallbackErr != nil {
			return domain.MatchProfile{}, fmt.Errorf("%w: push: %v; fallback append: %v", domain.ErrStoreWrite, pushErr, fallbackErr)
		}
	}

	if s.cache != nil {
		if encoded, marshalErr := json.Marshal(profile); marshalErr == nil {
			_ = s.cache.Put(ctx, profileCacheKey(session.Address), string(encoded))
		}
	}

	return profile, nil
}

// CachedProfile returns the last registered profile for the active wallet,
// if one was cached locally.
func (s *MatchingService) CachedProfile(ctx context.Context) (domain.MatchProfile, error) {
	session := s.session.Resolve(ctx)
	if session.Address == "" {
		return domain.MatchProfile{}, domain.ErrNotConnected
	}

	raw, err := s.cache.Get(ctx, profileCacheKey(session.Address))
	if err != nil {
		return domain.MatchProfile{}, err
	}

	var profile domain.MatchProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return domain.MatchProfile{}, fmt.Errorf("decode cached profile: %w", err)
	}

	return profile, nil
}

func profileCacheKey(address string) string {
	return "profile_" + address
}
