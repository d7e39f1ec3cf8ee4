package config

import (
	"strings"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8080/api"

	// minTimeout is the floor for the per-request timeout; anything lower
	// would time out legitimate transfers on slow links.
	minTimeout = time.Second
)

// ClientConfig contains API gateway configuration.
type ClientConfig struct {
	// BaseURL is the backend API root, including any path prefix.
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8080/api"`

	// Timeout is the fixed per-request timeout applied to every call.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
}

// Sanitize normalises the base URL and enforces the timeout floor.
func (c *ClientConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout < minTimeout {
		c.Timeout = minTimeout
	}
}
