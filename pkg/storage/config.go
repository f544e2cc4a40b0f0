package storage

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
)

var containerPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9]|-[a-z0-9]){2,62}$`)

// Config locates the blob container holding archived reports.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	Prefix           string `toml:"prefix"`
	MaxRetries       int    `toml:"max_retries"`
}

// Env names the environment variables that override Config fields.
type Env struct {
	ContainerName    string
	ConnectionString string
	Prefix           string
	MaxRetries       string
}

func (c *Config) Finalize(env *Env) error {
	if c.ContainerName == "" {
		c.ContainerName = "reports"
	}
	if c.Prefix == "" {
		c.Prefix = "sessions"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}

	if env != nil {
		lookup(&c.ContainerName, env.ContainerName)
		lookup(&c.ConnectionString, env.ConnectionString)
		lookup(&c.Prefix, env.Prefix)
		if v, ok := os.LookupEnv(env.MaxRetries); ok && env.MaxRetries != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxRetries = n
			}
		}
	}

	switch {
	case !containerPattern.MatchString(c.ContainerName):
		return fmt.Errorf("invalid container_name %q", c.ContainerName)
	case c.ConnectionString == "":
		return errors.New("connection_string required")
	case c.MaxRetries < 0:
		return fmt.Errorf("invalid max_retries: %d", c.MaxRetries)
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	for dst, src := range map[*string]string{
		&c.ContainerName:    overlay.ContainerName,
		&c.ConnectionString: overlay.ConnectionString,
		&c.Prefix:           overlay.Prefix,
	} {
		if src != "" {
			*dst = src
		}
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
}

func lookup(dst *string, key string) {
	if key == "" {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
