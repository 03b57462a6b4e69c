package missions

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/lingualink/gamify/missions/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig       `toml:"log"`
	DB     database.Config `toml:"db"`
	Engine EngineConfig    `toml:"engine"`
	Notify NotifyConfig    `toml:"notify"`
	Legacy LegacyConfig    `toml:"legacy"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type EngineConfig struct {
	// Seed fixes the sampling RNG for reproducible runs; 0 means seed from
	// the system source.
	Seed int64 `toml:"seed"`
}

type NotifyConfig struct {
	WebhookURL string `toml:"webhook_url"`
}

type LegacyConfig struct {
	URI       string `toml:"uri"`
	Database  string `toml:"database"`
	BatchSize int    `toml:"batch_size"`
}
