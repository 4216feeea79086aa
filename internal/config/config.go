// Package config assembles runtime configuration from the environment once at
// startup; the resulting value is injected into every constructor that needs
// it instead of being read ambiently.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	// DatabaseURL is the postgres DSN of the remote backend. Empty selects the
	// device-local backend.
	DatabaseURL string

	// DataDir holds the on-device cache database. Defaults to ~/.rl.
	DataDir string

	LLM LLMConfig

	// Mode switches log output to JSON when set to "production".
	Mode string
}

type LLMConfig struct {
	Provider string // "openai" or "anthropic"
	Model    string
	APIKey   string
}

// Load reads .env (if present) and the process environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()

	dataDir := os.Getenv("RL_DATA_DIR")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		dataDir = filepath.Join(homeDir, ".rl")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return Config{}, err
	}

	provider := os.Getenv("RL_LLM_PROVIDER")
	if provider == "" {
		provider = "openai"
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if provider == "anthropic" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	return Config{
		DatabaseURL: os.Getenv("RL_DATABASE_URL"),
		DataDir:     dataDir,
		LLM: LLMConfig{
			Provider: provider,
			Model:    os.Getenv("RL_LLM_MODEL"),
			APIKey:   apiKey,
		},
		Mode: os.Getenv("MODE"),
	}, nil
}

// Remote reports whether a remote backend is configured.
func (c Config) Remote() bool { return c.DatabaseURL != "" }

// CachePath is the on-device key/value cache database file.
func (c Config) CachePath() string {
	return filepath.Join(c.DataDir, "cache.db")
}
