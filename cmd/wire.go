package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	chaincache "github.com/whisprhq/whispr-cli/internal/adapters/cache/chain"
	solanaledger "github.com/whisprhq/whispr-cli/internal/adapters/ledger/solana"
	feedadapter "github.com/whisprhq/whispr-cli/internal/adapters/render/feed"
	tomlrepo "github.com/whisprhq/whispr-cli/internal/adapters/repo/toml"
	"github.com/whisprhq/whispr-cli/internal/adapters/session/hosted"
	"github.com/whisprhq/whispr-cli/internal/adapters/store/rtdb"
	"github.com/whisprhq/whispr-cli/internal/adapters/wallet/embedded"
	"github.com/whisprhq/whispr-cli/internal/application"
	"github.com/whisprhq/whispr-cli/internal/domain"
	"github.com/whisprhq/whispr-cli/internal/ports"
)

var errDatabaseNotConfigured = errors.New("database url is not configured (set WHISPR_DATABASE_URL)")

type app struct {
	provider    ports.SessionProvider
	ledger      ports.LedgerClient
	session     *application.WalletSessionService
	submitter   *application.TransactionSubmitter
	mirror      *application.FeedMirror
	confessions *application.ConfessionService
	matching    *application.MatchingService
	premium     *application.PremiumService

	feedRenderer func([]domain.Confession, feedadapter.RenderOptions) (string, error)
	now          func() time.Time
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cache := chaincache.NewMemoryFrontedFileCache(filepath.Join(homeDir, ".whispr", "cache"))

	ledger := solanaledger.NewClient(envOrDefault("WHISPR_RPC_ENDPOINT", "https://api.mainnet-beta.solana.com"))

	provider := hosted.NewProvider(hosted.Config{
		Issuer:     envOrDefault("WHISPR_AUTH_ISSUER", "https://auth.whispr.app"),
		ClientID:   envOrDefault("WHISPR_AUTH_CLIENT_ID", "whispr-cli"),
		ListenAddr: envOrDefault("WHISPR_AUTH_LISTEN", "127.0.0.1:1977"),
		Timeout:    5 * time.Minute,
	}, cache, http.DefaultClient, os.Stdout)

	if keypairPath := os.Getenv("WHISPR_KEYPAIR"); keypairPath != "" {
		wallet, loadErr := embedded.Load(keypairPath, ledger)
		if loadErr != nil {
			return nil, fmt.Errorf("load embedded wallet: %w", loadErr)
		}
		provider.SetLocalWallet(wallet)
	}

	var store ports.RealtimeStore
	if databaseURL := os.Getenv("WHISPR_DATABASE_URL"); databaseURL != "" {
		store, err = rtdb.NewStore(context.Background(), databaseURL)
		if err != nil {
			return nil, fmt.Errorf("wire realtime store: %w", err)
		}
	} else {
		// Without a database the CLI still posts: records land in the local
		// fallback file and the optimistic mirror.
		store = offlineStore{}
	}

	fallback, err := tomlrepo.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire record repository: %w", err)
	}

	session := application.NewWalletSessionService(provider, ledger)
	submitter := application.NewTransactionSubmitter(session, ledger)
	mirror := application.NewFeedMirror(store)
	clock := ports.SystemClock{}

	treasury := envOrDefault("WHISPR_TREASURY", "BycRJnXXAHuCMNUR9xY67rKkAvGqf4Z9KwPuRbYExKos")
	collectionMint := envOrDefault("WHISPR_COLLECTION_MINT", "Ehk8MjWwiJRwK5fdVCtzgjG9Nh3iqZYdymFvs9x28Win")

	return &app{
		provider:     provider,
		ledger:       ledger,
		session:      session,
		submitter:    submitter,
		mirror:       mirror,
		confessions:  application.NewConfessionService(session, submitter, mirror, store, fallback, cache, clock),
		matching:     application.NewMatchingService(session, submitter, store, fallback, cache, clock),
		premium:      application.NewPremiumService(session, submitter, ledger, store, cache, clock, treasury, collectionMint),
		feedRenderer: feedadapter.Render,
		now:          time.Now,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// offlineStore stands in when no database is configured; every operation
// fails so callers fall through to their local fallbacks.
type offlineStore struct{}

var _ ports.RealtimeStore = offlineStore{}

func (offlineStore) Subscribe(context.Context, string, string, int, ports.SnapshotFunc) (ports.Subscription, error) {
	return nil, errDatabaseNotConfigured
}

func (offlineStore) Push(context.Context, string, map[string]any) (string, error) {
	return "", errDatabaseNotConfigured
}

func (offlineStore) Update(context.Context, string, map[string]any) error {
	return errDatabaseNotConfigured
}
