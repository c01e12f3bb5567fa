package toml

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whisprhq/whispr-cli/internal/domain"
)

const repoTestAddress = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	recordsPath := filepath.Join(t.TempDir(), "records.toml")
	config := viper.New()
	config.Set("records.path", recordsPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := domain.Confession{
		Content:     "kept this to myself for years",
		Category:    "Secret",
		TxSignature: "sig1",
		CreatedAt:   now,
	}
	second := domain.Confession{
		Content:     "still laughing about it",
		Category:    "Funny",
		TxSignature: "sig2",
		CreatedAt:   now.Add(time.Minute),
	}

	require.NoError(t, repo.AppendConfession(context.Background(), repoTestAddress, first))
	require.NoError(t, repo.AppendConfession(context.Background(), repoTestAddress, second))

	confessions, err := repo.ListConfessions(context.Background(), repoTestAddress)
	require.NoError(t, err)
	assert.Equal(t, []domain.Confession{first, second}, confessions)
}

func TestRepositoryListFiltersByAddress(t *testing.T) {
	t.Parallel()

	repo, err := NewRepositoryAtPath(filepath.Join(t.TempDir(), "records.toml"))
	require.NoError(t, err)

	mine := domain.Confession{Content: "mine", Category: "Vent", CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	theirs := domain.Confession{Content: "theirs", Category: "Vent", CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	require.NoError(t, repo.AppendConfession(context.Background(), repoTestAddress, mine))
	require.NoError(t, repo.AppendConfession(context.Background(), "OtherAddress", theirs))

	confessions, err := repo.ListConfessions(context.Background(), repoTestAddress)
	require.NoError(t, err)
	require.Len(t, confessions, 1)
	assert.Equal(t, "mine", confessions[0].Content)
}

func TestRepositoryAppendProfile(t *testing.T) {
	t.Parallel()

	recordsPath := filepath.Join(t.TempDir(), "records.toml")
	repo, err := NewRepositoryAtPath(recordsPath)
	require.NoError(t, err)

	profile := domain.MatchProfile{
		Interests:  []int{1, 3},
		AgeMin:     21,
		AgeMax:     35,
		Age:        28,
		LookingFor: 2,
		CreatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.AppendProfile(context.Background(), repoTestAddress, profile))

	data, err := os.ReadFile(recordsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), repoTestAddress)
	assert.Contains(t, string(data), "age_min = 21")
}

func TestRepositoryFilePermissions(t *testing.T) {
	t.Parallel()

	recordsPath := filepath.Join(t.TempDir(), "records.toml")
	repo, err := NewRepositoryAtPath(recordsPath)
	require.NoError(t, err)

	require.NoError(t, repo.AppendConfession(context.Background(), repoTestAddress, domain.Confession{
		Content:  "perms",
		Category: "Secret",
	}))

	info, err := os.Stat(recordsPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(recordsFileMode), info.Mode().Perm())
}

func TestRepositoryRejectsNewerSchemaVersion(t *testing.T) {
	t.Parallel()

	recordsPath := filepath.Join(t.TempDir(), "records.toml")
	require.NoError(t, os.WriteFile(recordsPath, []byte("version = 99\n"), 0o600))

	repo, err := NewRepositoryAtPath(recordsPath)
	require.NoError(t, err)

	_, err = repo.ListConfessions(context.Background(), repoTestAddress)
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported records schema version")
}

func TestRepositoryEmptyFileListsNothing(t *testing.T) {
	t.Parallel()

	repo, err := NewRepositoryAtPath(filepath.Join(t.TempDir(), "records.toml"))
	require.NoError(t, err)

	confessions, err := repo.ListConfessions(context.Background(), repoTestAddress)
	require.NoError(t, err)
	assert.Empty(t, confessions)
}

func TestRepositoryConcurrentAppendsKeepEveryRecord(t *testing.T) {
	t.Parallel()

	repo, err := NewRepositoryAtPath(filepath.Join(t.TempDir(), "records.toml"))
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = repo.AppendConfession(context.Background(), repoTestAddress, domain.Confession{
				Content:  "entry " + strconv.Itoa(n),
				Category: "Vent",
			})
		}(i)
	}
	wg.Wait()

	confessions, err := repo.ListConfessions(context.Background(), repoTestAddress)
	require.NoError(t, err)
	assert.Len(t, confessions, writers)
}

func TestRepositoryCanceledContext(t *testing.T) {
	t.Parallel()

	repo, err := NewRepositoryAtPath(filepath.Join(t.TempDir(), "records.toml"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = repo.AppendConfession(ctx, repoTestAddress, domain.Confession{Content: "late", Category: "Vent"})
	require.ErrorIs(t, err, context.Canceled)
}
