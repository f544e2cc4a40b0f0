package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/compass/pkg/database"
	"github.com/JaimeStill/compass/pkg/llm"
	"github.com/JaimeStill/compass/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvCompassEnv             = "COMPASS_ENV"
	EnvCompassShutdownTimeout = "COMPASS_SHUTDOWN_TIMEOUT"
	EnvCompassVersion         = "COMPASS_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "COMPASS_DB_HOST",
	Port:            "COMPASS_DB_PORT",
	Name:            "COMPASS_DB_NAME",
	User:            "COMPASS_DB_USER",
	Password:        "COMPASS_DB_PASSWORD",
	SSLMode:         "COMPASS_DB_SSL_MODE",
	MaxOpenConns:    "COMPASS_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "COMPASS_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "COMPASS_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "COMPASS_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "COMPASS_STORAGE_CONTAINER_NAME",
	ConnectionString: "COMPASS_STORAGE_CONNECTION_STRING",
	Prefix:           "COMPASS_STORAGE_PREFIX",
	MaxRetries:       "COMPASS_STORAGE_MAX_RETRIES",
}

var llmEnv = &llm.Env{
	Attempts:     "COMPASS_LLM_ATTEMPTS",
	RetryDelay:   "COMPASS_LLM_RETRY_DELAY",
	Timeout:      "COMPASS_LLM_TIMEOUT",
	OpenAIKey:    "COMPASS_OPENAI_API_KEY",
	AnthropicKey: "COMPASS_ANTHROPIC_API_KEY",
	GeminiKey:    "COMPASS_GEMINI_API_KEY",
}

// Config is the root configuration for the Compass service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	LLM             llm.Config      `toml:"llm"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the COMPASS_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCompassEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration bounds the whole drain and shutdown sequence.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. Variables from a .env file are exported first and
// never replace variables already set in the process environment.
func Load() (*Config, error) {
	cfg, overlay, err := read()
	if err != nil {
		return nil, err
	}
	if overlay != nil {
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// LoadDatabase resolves only the database section, for tools that do not
// need the rest of the service configuration.
func LoadDatabase() (*database.Config, error) {
	cfg, overlay, err := read()
	if err != nil {
		return nil, err
	}
	if overlay != nil {
		cfg.Database.Merge(&overlay.Database)
	}

	if err := cfg.Database.Finalize(databaseEnv); err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	return &cfg.Database, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	override(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	override(&c.Version, overlay.Version)
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.LLM.Merge(&overlay.LLM)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.LLM.Finalize(llmEnv); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	orDefault(&c.ShutdownTimeout, "30s")
	orDefault(&c.Version, "0.1.0")
}

func (c *Config) loadEnv() {
	fromEnv(&c.ShutdownTimeout, EnvCompassShutdownTimeout)
	fromEnv(&c.Version, EnvCompassVersion)
}

func (c *Config) validate() error {
	return durations([2]string{"shutdown_timeout", c.ShutdownTimeout})
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// read loads .env, the base file, and the overlay for COMPASS_ENV. Missing
// files are skipped; the returned overlay is nil when there is none.
func read() (*Config, *Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, nil, err
	}

	cfg := &Config{}
	if _, err := os.Stat(BaseConfigFile); err == nil {
		if cfg, err = load(BaseConfigFile); err != nil {
			return nil, nil, err
		}
	}

	path := overlayPath()
	if path == "" {
		return cfg, nil, nil
	}
	overlay, err := load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load overlay %s: %w", path, err)
	}
	return cfg, overlay, nil
}

func loadDotEnv() error {
	if _, err := os.Stat(DotEnvFile); err != nil {
		return nil
	}
	if err := godotenv.Load(DotEnvFile); err != nil {
		return fmt.Errorf("load %s: %w", DotEnvFile, err)
	}
	return nil
}

func overlayPath() string {
	if env := os.Getenv(EnvCompassEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
