package application

import (
	"context"
	"strings"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/whisprhq/whispr-cli/internal/domain"
	"github.com/whisprhq/whispr-cli/internal/ports"
)

// WalletSession is the resolved state of the single active wallet. Balance is
// advisory display state and independent of Connected.
type WalletSession struct {
	Ready     bool
	Connected bool
	Address   string
	PublicKey *solana.PublicKey
	Balance   *uint64
}

// WalletSessionService owns the one live wallet session per authenticated
// user. It re-resolves whenever the provider's candidate set changes identity
// and keeps the previously active address as a tie-break hint.
type WalletSessionService struct {
	provider ports.SessionProvider
	ledger   ports.LedgerClient

	mu          sync.Mutex
	fingerprint string
	active      ports.WalletHandle
	session     WalletSession
	lastAddress string
}

func NewWalletSessionService(provider ports.SessionProvider, ledger ports.LedgerClient) *WalletSessionService {
	return &WalletSessionService{provider: provider, ledger: ledger}
}

// Resolve returns the current session, re-resolving the active wallet when
// the candidate set changed since the last call.
func (s *WalletSessionService) Resolve(ctx context.Context) WalletSession {
	session, _ := s.resolve(ctx)
	return session
}

// ActiveWallet returns the resolved handle together with the session state.
// The handle is nil when no candidate resolved.
func (s *WalletSessionService) ActiveWallet(ctx context.Context) (ports.WalletHandle, WalletSession) {
	session, handle := s.resolve(ctx)
	return handle, session
}

func (s *WalletSessionService) resolve(ctx context.Context) (WalletSession, ports.WalletHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.provider.Ready(ctx) {
		s.fingerprint = ""
		s.active = nil
		s.session = WalletSession{}
		return s.session, nil
	}

	candidates := s.provider.Wallets(ctx)
	fingerprint := candidateFingerprint(candidates)
	if fingerprint == s.fingerprint && s.session.Ready {
		return s.session, s.active
	}

	handle := selectHandle(candidates, s.lastAddress)

	session := WalletSession{Ready: true}
	if handle != nil {
		session.Address = handle.Address()
		// A malformed address degrades to a nil key, never an error.
		if key, err := solana.PublicKeyFromBase58(session.Address); err == nil {
			session.PublicKey = &key
		}
	}

	session.Connected = s.provider.Authenticated(ctx) && session.PublicKey != nil

	if session.PublicKey != nil {
		// Advisory only: a failed balance query must not flip Connected.
		if balance, err := s.ledger.Balance(ctx, session.Address); err == nil {
			session.Balance = &balance
		}
	}

	s.fingerprint = fingerprint
	s.active = handle
	s.session = session
	if session.Address != "" {
		s.lastAddress = session.Address
	}

	return session, handle
}

// Refresh forces re-resolution on the next call, picking up wallet links and
// unlinks as well as a fresh balance.
func (s *WalletSessionService) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fingerprint = ""
	s.session = WalletSession{}
	s.active = nil
}

func selectHandle(candidates []ports.WalletHandle, hint string) ports.WalletHandle {
	for _, candidate := range candidates {
		if candidate.Embedded() {
			return candidate
		}
	}

	var first ports.WalletHandle
	for _, candidate := range candidates {
		if !domain.IsLedgerAddress(candidate.Address()) {
			continue
		}
		if hint != "" && candidate.Address() == hint {
			return candidate
		}
		if first == nil {
			first = candidate
		}
	}

	return first
}

func candidateFingerprint(candidates []ports.WalletHandle) string {
	if len(candidates) == 0 {
		return ""
	}

	addresses := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		addresses = append(addresses, candidate.Address())
	}

	return strings.Join(addresses, "|")
}
