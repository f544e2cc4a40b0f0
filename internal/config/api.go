package config

import (
	"fmt"
	"time"

	"github.com/JaimeStill/compass/pkg/formatting"
	"github.com/JaimeStill/compass/pkg/middleware"
	"github.com/JaimeStill/compass/pkg/pagination"
)

const (
	EnvAPIBasePath       = "COMPASS_API_BASE_PATH"
	EnvAPIMaxRequestSize = "COMPASS_API_MAX_REQUEST_SIZE"
	EnvAPIRecordTimeout  = "COMPASS_API_RECORD_TIMEOUT"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "COMPASS_CORS_ENABLED",
	Origins:          "COMPASS_CORS_ORIGINS",
	AllowedMethods:   "COMPASS_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "COMPASS_CORS_ALLOWED_HEADERS",
	AllowCredentials: "COMPASS_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "COMPASS_CORS_MAX_AGE",
}

var authEnv = &middleware.AuthEnv{
	Enabled:  "COMPASS_AUTH_ENABLED",
	Issuer:   "COMPASS_AUTH_ISSUER",
	ClientID: "COMPASS_AUTH_CLIENT_ID",
	JWKSURL:  "COMPASS_AUTH_JWKS_URL",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "COMPASS_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "COMPASS_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, request limits, CORS, auth, and pagination settings.
type APIConfig struct {
	BasePath       string                `toml:"base_path"`
	MaxRequestSize string                `toml:"max_request_size"`
	RecordTimeout  string                `toml:"record_timeout"`
	CORS           middleware.CORSConfig `toml:"cors"`
	Auth           middleware.AuthConfig `toml:"auth"`
	Pagination     pagination.Config     `toml:"pagination"`
}

// MaxRequestSizeBytes returns MaxRequestSize in bytes.
func (c *APIConfig) MaxRequestSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxRequestSize)
	if err != nil {
		return 1 << 20
	}
	return size
}

// RecordTimeoutDuration bounds the detached write of a completed session.
func (c *APIConfig) RecordTimeoutDuration() time.Duration {
	return duration(c.RecordTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	override(&c.BasePath, overlay.BasePath)
	override(&c.MaxRequestSize, overlay.MaxRequestSize)
	override(&c.RecordTimeout, overlay.RecordTimeout)

	c.CORS.Merge(&overlay.CORS)
	c.Auth.Merge(&overlay.Auth)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	orDefault(&c.BasePath, "/api")
	orDefault(&c.MaxRequestSize, "1MB")
	orDefault(&c.RecordTimeout, "30s")
}

func (c *APIConfig) loadEnv() {
	fromEnv(&c.BasePath, EnvAPIBasePath)
	fromEnv(&c.MaxRequestSize, EnvAPIMaxRequestSize)
	fromEnv(&c.RecordTimeout, EnvAPIRecordTimeout)
}

func (c *APIConfig) validate() error {
	if _, err := formatting.ParseBytes(c.MaxRequestSize); err != nil {
		return fmt.Errorf("invalid max_request_size: %w", err)
	}
	return durations([2]string{"record_timeout", c.RecordTimeout})
}
