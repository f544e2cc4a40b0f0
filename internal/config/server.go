package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	EnvServerHost            = "COMPASS_SERVER_HOST"
	EnvServerPort            = "COMPASS_SERVER_PORT"
	EnvServerReadTimeout     = "COMPASS_SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout    = "COMPASS_SERVER_WRITE_TIMEOUT"
	EnvServerShutdownTimeout = "COMPASS_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig configures the HTTP listener. WriteTimeout must cover the
// slowest report generation, so it defaults well above ReadTimeout.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration     { return duration(c.ReadTimeout) }
func (c *ServerConfig) WriteTimeoutDuration() time.Duration    { return duration(c.WriteTimeout) }
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration { return duration(c.ShutdownTimeout) }

func (c *ServerConfig) Finalize() error {
	orDefault(&c.Host, "0.0.0.0")
	orDefault(&c.ReadTimeout, "1m")
	orDefault(&c.WriteTimeout, "5m")
	orDefault(&c.ShutdownTimeout, "30s")
	if c.Port == 0 {
		c.Port = 8080
	}

	fromEnv(&c.Host, EnvServerHost)
	intFromEnv(&c.Port, EnvServerPort)
	fromEnv(&c.ReadTimeout, EnvServerReadTimeout)
	fromEnv(&c.WriteTimeout, EnvServerWriteTimeout)
	fromEnv(&c.ShutdownTimeout, EnvServerShutdownTimeout)

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return durations(
		[2]string{"read_timeout", c.ReadTimeout},
		[2]string{"write_timeout", c.WriteTimeout},
		[2]string{"shutdown_timeout", c.ShutdownTimeout},
	)
}

func (c *ServerConfig) Merge(o *ServerConfig) {
	override(&c.Host, o.Host)
	override(&c.ReadTimeout, o.ReadTimeout)
	override(&c.WriteTimeout, o.WriteTimeout)
	override(&c.ShutdownTimeout, o.ShutdownTimeout)
	if o.Port != 0 {
		c.Port = o.Port
	}
}
