package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	API          APIConfig `yaml:"api"`
	DatabasePath string    `yaml:"database_path"`
}

// APIConfig holds settings for the AutoTracker HTTP client.
type APIConfig struct {
	// BaseURL is the HTTP endpoint of the AutoTracker server, e.g. http://localhost:8000
	BaseURL string `yaml:"base_url"`
	// Timeout is the per-request timeout at the transport boundary
	Timeout time.Duration `yaml:"timeout"`
}

// LoadConfig builds the configuration from defaults, environment variables
// and an optional YAML file. A .env file next to the process is honored when
// present so local setups don't need exported variables.
func LoadConfig(path string) (*Config, error) {
	// best effort; absence of .env is the normal case
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("AUTOTRACK_API_URL", "http://localhost:8000"),
			Timeout: 15 * time.Second,
		},
		DatabasePath: getEnv("AUTOTRACK_DATABASE_PATH", defaultDatabasePath()),
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate rejects configurations the client cannot work with.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return fmt.Errorf("invalid api base url: %w", err)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}

	return nil
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "autotrack.db"
	}

	return filepath.Join(dir, "autotrack", "autotrack.db")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
