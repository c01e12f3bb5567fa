package application

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/whisprhq/whispr-cli/internal/domain"
	"github.com/whisprhq/whispr-cli/internal/ports"
)

const PurchasesPath = "purchases"

// DefaultPremiumPriceLamports is 0.1 SOL.
const DefaultPremiumPriceLamports = domain.LamportsPerSOL / 10

// PremiumService sells the premium tier: a SOL transfer to the treasury,
// a trust-on-first-write local verdict, and an on-demand ownership check
// against the premium pass collection.
type PremiumService struct {
	session   *WalletSessionService
	submitter *TransactionSubmitter
	ledger    ports.LedgerClient
	store     ports.RealtimeStore
	cache     ports.LocalCache
	clock     ports.Clock

	treasury       string
	collectionMint string
	priceLamports  uint64
}

func NewPremiumService(
	session *WalletSessionService,
	submitter *TransactionSubmitter,
	ledger ports.LedgerClient,
	store ports.RealtimeStore,
	cache ports.LocalCache,
	clock ports.Clock,
	treasury string,
	collectionMint string,
) *PremiumService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &PremiumService{
		session:        session,
		submitter:      submitter,
		ledger:         ledger,
		store:          store,
		cache:          cache,
		clock:          clock,
		treasury:       treasury,
		collectionMint: collectionMint,
		priceLamports:  DefaultPremiumPriceLamports,
	}
}

func (s *PremiumService) PriceLamports() uint64 {
	return s.priceLamports
}

func (s *PremiumService) Purchase(ctx context.Context) (domain.PurchaseReceipt, error) {
	session := s.session.Resolve(ctx)

	signature, err := s.submitter.Submit(ctx, domain.TransferIntent{
		Recipient: s.treasury,
		Lamports:  s.priceLamports,
	})
	if err != nil && !errors.Is(err, domain.ErrConfirmationTimeout) {
		return domain.PurchaseReceipt{}, err
	}

	receipt := domain.PurchaseReceipt{
		Address:     session.Address,
		Lamports:    s.priceLamports,
		CreatedAt:   s.clock.Now().UTC(),
		TxSignature: signature,
	}

	// The payment signature itself is the first eligibility proof.
	s.cacheVerdict(ctx, domain.EligibilityVerdict{
		Address:   session.Address,
		Verified:  true,
		Source:    domain.VerdictSourceLocal,
		CheckedAt: s.clock.Now().UTC(),
	})

	// The receipt record is advisory; premium status survives without it.
	_, _ = s.store.Push(ctx, PurchasesPath, receiptStoreValue(receipt))

	return receipt, nil
}

// Eligible reports premium eligibility. A cached verdict short-circuits
// without a remote call unless refresh is set; a failed remote query
// degrades to "not eligible" rather than failing.
func (s *PremiumService) Eligible(ctx context.Context, refresh bool) (bool, error) {
	session := s.session.Resolve(ctx)
	if session.Address == "" {
		return false, domain.ErrNotConnected
	}

	if !refresh {
		if verdict, ok := s.cachedVerdict(ctx, session.Address); ok {
			return verdict.Verified, nil
		}
	}

	assets, err := s.ledger.AssetsByOwner(ctx, session.Address)
	if err != nil {
		return false, nil
	}

	verified := false
	for _, asset := range assets {
		if asset.CollectionID == s.collectionMint {
			verified = true
			break
		}
	}

	s.cacheVerdict(ctx, domain.EligibilityVerdict{
		Address:   session.Address,
		Verified:  verified,
		Source:    domain.VerdictSourceRemote,
		CheckedAt: s.clock.Now().UTC(),
	})

	return verified, nil
}

func (s *PremiumService) cachedVerdict(ctx context.Context, address string) (domain.EligibilityVerdict, bool) {
	raw, err := s.cache.Get(ctx, premiumCacheKey(address))
	if err != nil {
		return domain.EligibilityVerdict{}, false
	}

	var verdict domain.EligibilityVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return domain.EligibilityVerdict{}, false
	}

	return verdict, true
}

func (s *PremiumService) cacheVerdict(ctx context.Context, verdict domain.EligibilityVerdict) {
	encoded, err := json.Marshal(verdict)
	if err != nil {
		return
	}

	_ = s.cache.Put(ctx, premiumCacheKey(verdict.Address), string(encoded))
}

func premiumCacheKey(address string) string {
	return "premium_" + address
}
