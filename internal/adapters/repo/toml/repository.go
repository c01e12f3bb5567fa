package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/whisprhq/whispr-cli/internal/domain"
	"github.com/whisprhq/whispr-cli/internal/ports"
)

const (
	configName        = "config"
	configType        = "toml"
	recordsPathKey    = "records.path"
	recordsFileMode   = 0o600
	recordsDirMode    = 0o700
	recordsConfigDir  = ".whispr"
	recordsConfigFile = "records.toml"
	tempFilePattern   = ".records-*.toml.tmp"
)

// Repository persists local-only records to a single TOML file. The file is
// replaced atomically on every write; concurrent repositories for the same
// path share one lock.
type Repository struct {
	recordsPath string
	mu          *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.FallbackRecordRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, recordsConfigDir, recordsConfigFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, recordsConfigDir))
	cfg.SetDefault(recordsPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	recordsPath := cfg.GetString(recordsPathKey)
	if recordsPath == "" {
		return nil, errors.New("records path is empty")
	}
	recordsPath, err = normalizeRecordsPath(recordsPath)
	if err != nil {
		return nil, err
	}

	return &Repository{recordsPath: recordsPath, mu: lockForPath(recordsPath)}, nil
}

// NewRepositoryAtPath bypasses config resolution; used by tests and wiring
// that already resolved the path.
func NewRepositoryAtPath(path string) (*Repository, error) {
	normalized, err := normalizeRecordsPath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{recordsPath: normalized, mu: lockForPath(normalized)}, nil
}

func (r *Repository) AppendConfession(ctx context.Context, address string, confession domain.Confession) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	file.Confessions = append(file.Confessions, confessionToSchema(address, confession))

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) AppendProfile(ctx context.Context, address string, profile domain.MatchProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	file.Profiles = append(file.Profiles, profileToSchema(address, profile))

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) ListConfessions(ctx context.Context, address string) ([]domain.Confession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	confessions := make([]domain.Confession, 0, len(file.Confessions))
	for _, entry := range file.Confessions {
		if entry.Address != address {
			continue
		}
		confessions = append(confessions, confessionFromSchema(entry))
	}

	return confessions, nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.recordsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read records file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode records file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.recordsPath), recordsDirMode); err != nil {
		return fmt.Errorf("create records directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode records file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.recordsPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp records file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp records file: %w", err)
	}

	if err := tempFile.Chmod(recordsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp records file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp records file: %w", err)
	}

	if err := os.Rename(tempName, r.recordsPath); err != nil {
		return fmt.Errorf("replace records file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(r.recordsPath, recordsFileMode); err != nil {
		return fmt.Errorf("chmod records file: %w", err)
	}

	return nil
}

func normalizeRecordsPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve records path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func confessionToSchema(address string, confession domain.Confession) confessionSchema {
	return confessionSchema{
		Address:     address,
		Content:     confession.Content,
		Category:    confession.Category,
		Likes:       confession.Likes,
		IsPremium:   confession.IsPremium,
		TxSignature: confession.TxSignature,
		CreatedAt:   formatTime(confession.CreatedAt),
	}
}

func confessionFromSchema(entry confessionSchema) domain.Confession {
	return domain.Confession{
		Content:     entry.Content,
		Category:    entry.Category,
		Likes:       entry.Likes,
		IsPremium:   entry.IsPremium,
		TxSignature: entry.TxSignature,
		CreatedAt:   parseTime(entry.CreatedAt),
	}
}

func profileToSchema(address string, profile domain.MatchProfile) profileSchema {
	return profileSchema{
		Address:     address,
		Interests:   profile.Interests,
		AgeMin:      profile.AgeMin,
		AgeMax:      profile.AgeMax,
		Age:         profile.Age,
		LookingFor:  profile.LookingFor,
		TxSignature: profile.TxSignature,
		CreatedAt:   formatTime(profile.CreatedAt),
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339)
}
