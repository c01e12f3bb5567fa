package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/whisprhq/whispr-cli/internal/domain"
	"github.com/whisprhq/whispr-cli/internal/ports"
)

const (
	testTreasury   = "BycRJnXXAHuCMNUR9xY67rKkAvGqf4Z9KwPuRbYExKos"
	testCollection = "Ehk8MjWwiJRwK5fdVCtzgjG9Nh3iqZYdymFvs9x28Win"
	testAddress    = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
	testBlockhash  = "11111111111111111111111111111111"
)

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time {
	if c.now.IsZero() {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return c.now
}

type fakeProvider struct {
	ready         bool
	authenticated bool
	wallets       []ports.WalletHandle
	loginErr      error
}

func (p *fakeProvider) Ready(context.Context) bool                 { return p.ready }
func (p *fakeProvider) Authenticated(context.Context) bool         { return p.authenticated }
func (p *fakeProvider) Wallets(context.Context) []ports.WalletHandle { return p.wallets }
func (p *fakeProvider) Login(context.Context) error                { return p.loginErr }
func (p *fakeProvider) Logout(context.Context) error               { return nil }

type fakeHandle struct {
	address  string
	embedded bool
}

func (h fakeHandle) Address() string { return h.address }
func (h fakeHandle) Embedded() bool  { return h.embedded }

type signSendHandle struct {
	fakeHandle
	signature string
	err       error
	calls     int
}

func (h *signSendHandle) SignAndSendTransaction(_ context.Context, _ *solana.Transaction) (string, error) {
	h.calls++
	return h.signature, h.err
}

type sendHandle struct {
	fakeHandle
	signature string
	err       error
	calls     int
}

func (h *sendHandle) SendTransaction(_ context.Context, _ *solana.Transaction, _ ports.LedgerClient) (string, error) {
	h.calls++
	return h.signature, h.err
}

type providerHandle struct {
	fakeHandle
	provider any
	err      error
}

func (h *providerHandle) SigningProvider(context.Context) (any, error) {
	return h.provider, h.err
}

type providerSignSend struct {
	signature string
	err       error
	calls     int
}

func (p *providerSignSend) SignAndSendTransaction(_ context.Context, _ *solana.Transaction) (string, error) {
	p.calls++
	return p.signature, p.err
}

type providerSignOnly struct {
	err   error
	calls int
}

func (p *providerSignOnly) SignTransaction(_ context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return tx, nil
}

type fakeLedger struct {
	mu sync.Mutex

	anchor        domain.Anchor
	anchorErr     error
	anchorCalls   int
	balance       uint64
	balanceErr    error
	balanceCalls  int
	broadcastSig  string
	broadcastErr  error
	broadcasts    int
	confirmErr    error
	confirmCalls  int
	assets        []ports.OwnedAsset
	assetsErr     error
	assetsCalls   int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		anchor: domain.Anchor{Blockhash: testBlockhash, LastValidBlockHeight: 100},
	}
}

func (l *fakeLedger) LatestAnchor(context.Context) (domain.Anchor, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.anchorCalls++
	return l.anchor, l.anchorErr
}

func (l *fakeLedger) Balance(context.Context, string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balanceCalls++
	return l.balance, l.balanceErr
}

func (l *fakeLedger) Broadcast(context.Context, *solana.Transaction) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.broadcasts++
	return l.broadcastSig, l.broadcastErr
}

func (l *fakeLedger) Confirm(context.Context, string, domain.Anchor) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.confirmCalls++
	return l.confirmErr
}

func (l *fakeLedger) AssetsByOwner(context.Context, string) ([]ports.OwnedAsset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.assetsCalls++
	return l.assets, l.assetsErr
}

func (l *fakeLedger) networkCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.anchorCalls + l.broadcasts + l.confirmCalls + l.assetsCalls
}

type pushedRecord struct {
	path  string
	value map[string]any
}

type fakeStore struct {
	mu sync.Mutex

	pushes    []pushedRecord
	pushKey   string
	pushErr   error
	updates   []pushedRecord
	updateErr error
	// updateBarrier, when set, parks Update callers until all expected
	// concurrent callers have arrived. Used to pin the increment race.
	updateBarrier *sync.WaitGroup

	snapshotFn ports.SnapshotFunc
	subs       []*fakeSubscription
	subErr     error
}

func (s *fakeStore) Subscribe(_ context.Context, _, _ string, _ int, fn ports.SnapshotFunc) (ports.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subErr != nil {
		return nil, s.subErr
	}

	s.snapshotFn = fn
	sub := &fakeSubscription{store: s}
	s.subs = append(s.subs, sub)
	return sub, nil
}

func (s *fakeStore) Push(_ context.Context, path string, value map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pushErr != nil {
		return "", s.pushErr
	}

	s.pushes = append(s.pushes, pushedRecord{path: path, value: value})
	key := s.pushKey
	if key == "" {
		key = fmt.Sprintf("-push%d", len(s.pushes))
	}
	return key, nil
}

func (s *fakeStore) Update(_ context.Context, path string, fields map[string]any) error {
	s.mu.Lock()
	barrier := s.updateBarrier
	s.mu.Unlock()

	if barrier != nil {
		barrier.Done()
		barrier.Wait()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}

	s.updates = append(s.updates, pushedRecord{path: path, value: fields})
	return nil
}

func (s *fakeStore) deliver(records []ports.SnapshotRecord) {
	s.mu.Lock()
	fn := s.snapshotFn
	delivered := false
	for _, sub := range s.subs {
		if !sub.canceled {
			delivered = true
		}
	}
	s.mu.Unlock()

	if fn != nil && delivered {
		fn(records)
	}
}

type fakeSubscription struct {
	store    *fakeStore
	canceled bool
	cancels  int
}

func (s *fakeSubscription) Unsubscribe() {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.canceled = true
	s.cancels++
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	gets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	value, ok := c.values[key]
	if !ok {
		return "", domain.ErrRecordNotFound
	}
	return value, nil
}

func (c *fakeCache) Put(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

type fakeFallback struct {
	mu          sync.Mutex
	confessions map[string][]domain.Confession
	profiles    map[string][]domain.MatchProfile
	appendErr   error
}

func newFakeFallback() *fakeFallback {
	return &fakeFallback{
		confessions: map[string][]domain.Confession{},
		profiles:    map[string][]domain.MatchProfile{},
	}
}

func (f *fakeFallback) AppendConfession(_ context.Context, address string, confession domain.Confession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.confessions[address] = append(f.confessions[address], confession)
	return nil
}

func (f *fakeFallback) AppendProfile(_ context.Context, address string, profile domain.MatchProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.profiles[address] = append(f.profiles[address], profile)
	return nil
}

func (f *fakeFallback) ListConfessions(_ context.Context, address string) ([]domain.Confession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Confession(nil), f.confessions[address]...), nil
}

// connectedSession wires a session service with one embedded sign-and-send
// wallet, ready and authenticated.
func connectedSession(ledger ports.LedgerClient) (*WalletSessionService, *signSendHandle) {
	handle := &signSendHandle{
		fakeHandle: fakeHandle{address: testAddress, embedded: true},
		signature:  "sig123",
	}
	provider := &fakeProvider{ready: true, authenticated: true, wallets: []ports.WalletHandle{handle}}
	return NewWalletSessionService(provider, ledger), handle
}
