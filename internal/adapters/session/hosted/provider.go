package hosted

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/whisprhq/whispr-cli/internal/ports"
)

const sessionCacheKey = "session"

// Config points the provider at a hosted auth service.
type Config struct {
	Issuer     string
	ClientID   string
	ListenAddr string
	Timeout    time.Duration
}

// Provider implements the session port against a hosted wallet-auth service:
// browser PKCE login, a cached session token, and the linked wallet list the
// service reports. An optional local wallet is surfaced first so the embedded
// key wins wallet selection.
type Provider struct {
	config Config
	cache  ports.LocalCache
	http   *http.Client
	out    io.Writer

	localWallet ports.WalletHandle
}

var _ ports.SessionProvider = (*Provider)(nil)

func NewProvider(config Config, cache ports.LocalCache, httpClient *http.Client, out io.Writer) *Provider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Minute
	}

	return &Provider{config: config, cache: cache, http: httpClient, out: out}
}

// SetLocalWallet registers the embedded keypair wallet, listed ahead of the
// service's linked wallets.
func (p *Provider) SetLocalWallet(wallet ports.WalletHandle) {
	p.localWallet = wallet
}

func (p *Provider) Ready(_ context.Context) bool {
	return p.config.Issuer != "" && p.config.ClientID != ""
}

func (p *Provider) Authenticated(ctx context.Context) bool {
	session, err := p.loadSession(ctx)
	return err == nil && session.AccessToken != ""
}

func (p *Provider) Wallets(ctx context.Context) []ports.WalletHandle {
	handles := make([]ports.WalletHandle, 0, 4)
	if p.localWallet != nil {
		handles = append(handles, p.localWallet)
	}

	session, err := p.loadSession(ctx)
	if err != nil {
		return handles
	}

	for _, wallet := range session.Wallets {
		handles = append(handles, linkedWallet{address: wallet.Address})
	}

	return handles
}

func (p *Provider) Login(ctx context.Context) error {
	pkce, err := NewPKCEPair()
	if err != nil {
		return fmt.Errorf("generate pkce: %w", err)
	}
	state, err := NewState()
	if err != nil {
		return fmt.Errorf("generate oauth state: %w", err)
	}

	server, err := StartCallbackServer(p.config.ListenAddr, state)
	if err != nil {
		return fmt.Errorf("start callback server: %w", err)
	}

	authURL, err := BuildAuthorizationURL(AuthorizationRequest{
		AuthURL:       strings.TrimRight(p.config.Issuer, "/") + "/oauth/authorize",
		ClientID:      p.config.ClientID,
		RedirectURI:   server.RedirectURI(),
		Scopes:        []string{"openid", "wallet"},
		State:         state,
		CodeChallenge: pkce.Challenge,
	})
	if err != nil {
		_ = server.Close()
		return fmt.Errorf("build authorization url: %w", err)
	}

	if p.out != nil {
		_, _ = fmt.Fprintf(p.out, "Open this URL to sign in:\n%s\n", authURL)
	}

	code, err := server.WaitForCode(p.config.Timeout)
	if err != nil {
		return fmt.Errorf("wait for oauth callback: %w", err)
	}

	tokens, err := ExchangeCodeForTokens(p.http, TokenExchangeRequest{
		Issuer:       p.config.Issuer,
		ClientID:     p.config.ClientID,
		RedirectURI:  server.RedirectURI(),
		Code:         code,
		CodeVerifier: pkce.Verifier,
	})
	if err != nil {
		return fmt.Errorf("exchange code for tokens: %w", err)
	}

	wallets, err := p.fetchLinkedWallets(ctx, tokens.AccessToken)
	if err != nil {
		return fmt.Errorf("fetch linked wallets: %w", err)
	}

	return p.storeSession(ctx, sessionSchema{AccessToken: tokens.AccessToken, Wallets: wallets})
}

func (p *Provider) Logout(ctx context.Context) error {
	return p.cache.Delete(ctx, sessionCacheKey)
}

type sessionSchema struct {
	AccessToken string         `json:"access_token"`
	Wallets     []walletSchema `json:"wallets"`
}

type walletSchema struct {
	Address string `json:"address"`
}

func (p *Provider) loadSession(ctx context.Context) (sessionSchema, error) {
	raw, err := p.cache.Get(ctx, sessionCacheKey)
	if err != nil {
		return sessionSchema{}, err
	}

	var session sessionSchema
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return sessionSchema{}, fmt.Errorf("decode cached session: %w", err)
	}

	return session, nil
}

func (p *Provider) storeSession(ctx context.Context, session sessionSchema) error {
	encoded, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := p.cache.Put(ctx, sessionCacheKey, string(encoded)); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	return nil
}

func (p *Provider) fetchLinkedWallets(ctx context.Context, accessToken string) ([]walletSchema, error) {
	endpoint := strings.TrimRight(p.config.Issuer, "/") + "/api/v1/wallets"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create wallets request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request wallets: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wallets endpoint returned status %d", resp.StatusCode)
	}

	var decoded struct {
		Wallets []walletSchema `json:"wallets"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxTokenResponseBytes)).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode wallets response: %w", err)
	}

	return decoded.Wallets, nil
}

// linkedWallet is an externally linked address. It carries no signing
// capability; transfers require the embedded wallet.
type linkedWallet struct {
	address string
}

func (w linkedWallet) Address() string { return w.address }
func (w linkedWallet) Embedded() bool  { return false }
