package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version     int                `toml:"version"`
	Confessions []confessionSchema `toml:"confessions"`
	Profiles    []profileSchema    `toml:"profiles"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported records schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type confessionSchema struct {
	Address     string `toml:"address"`
	Content     string `toml:"content"`
	Category    string `toml:"category"`
	Likes       int64  `toml:"likes,omitempty"`
	IsPremium   bool   `toml:"is_premium,omitempty"`
	TxSignature string `toml:"tx_signature,omitempty"`
	CreatedAt   string `toml:"created_at"`
}

type profileSchema struct {
	Address     string `toml:"address"`
	Interests   []int  `toml:"interests"`
	AgeMin      int    `toml:"age_min"`
	AgeMax      int    `toml:"age_max"`
	Age         int    `toml:"age"`
	LookingFor  int    `toml:"looking_for"`
	TxSignature string `toml:"tx_signature,omitempty"`
	CreatedAt   string `toml:"created_at"`
}
