package config

import (
	"fmt"
	"strings"
	"time"
)

// minPollInterval is the floor for the session poll interval; faster
// polling just burns CPU re-reading an unchanged store.
const minPollInterval = 250 * time.Millisecond

// StoreBackend selects the credential store implementation.
type StoreBackend string

const (
	// StoreBackendFile persists credentials in a JSON file under the state
	// directory. The default; works everywhere with no extra services.
	StoreBackendFile StoreBackend = "file"
	// StoreBackendRedis persists credentials in Redis, sharing the session
	// across processes and hosts.
	StoreBackendRedis StoreBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (b *StoreBackend) UnmarshalText(text []byte) error {
	switch v := StoreBackend(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case StoreBackendFile, StoreBackendRedis:
		*b = v
		return nil
	default:
		return fmt.Errorf("unknown store backend %q (want %q or %q)", text, StoreBackendFile, StoreBackendRedis)
	}
}

// StoreConfig contains credential store configuration.
type StoreConfig struct {
	// Backend selects where credentials live.
	Backend StoreBackend `env:"STORE_BACKEND" envDefault:"file"`

	// Dir is the state directory for the file backend. Empty means a
	// "phegonbank" directory under the user config dir.
	Dir string `env:"STORE_DIR" envDefault:""`

	// PollInterval is how often the session manager re-reads the store.
	PollInterval time.Duration `env:"STORE_POLL_INTERVAL" envDefault:"1s"`
}

// Sanitize enforces the poll interval floor.
func (c *StoreConfig) Sanitize() {
	c.Dir = strings.TrimSpace(c.Dir)
	if c.PollInterval < minPollInterval {
		c.PollInterval = minPollInterval
	}
}

// RedisConfig contains Redis connection configuration for the redis store
// backend.
type RedisConfig struct {
	URI      string `env:"URI"       envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"  envDefault:""`
	DB       int    `env:"DB"        envDefault:"0"`
	// KeyPrefix namespaces the credential key, so multiple deployments can
	// share one Redis.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"phegonbank"`
}
