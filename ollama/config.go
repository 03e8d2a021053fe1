package ollama

import (
	"fmt"
	"strings"
	"time"

	"github.com/randalmurphal/odkshell/gateway"
)

// Config holds ollama CLI configuration.
type Config struct {
	// Path is the ollama binary name or path.
	// Default: "ollama"
	Path string `json:"path" yaml:"path" toml:"path"`

	// HeaderPrefix identifies header lines in `ollama list` output.
	// Default: "NAME"
	HeaderPrefix string `json:"header_prefix" yaml:"header_prefix" toml:"header_prefix"`

	// StripSuffix is removed from the end of every model name.
	// Default: ":latest"
	StripSuffix string `json:"strip_suffix" yaml:"strip_suffix" toml:"strip_suffix"`

	// Timeout bounds a single CLI run. 0 waits until the CLI exits.
	Timeout time.Duration `json:"timeout" yaml:"timeout" toml:"timeout"`

	// Env provides additional environment variables, e.g. OLLAMA_HOST.
	Env map[string]string `json:"env" yaml:"env" toml:"env"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Path:         "ollama",
		HeaderPrefix: "NAME",
		StripSuffix:  ":latest",
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("path is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0")
	}
	return nil
}

// WithDefaults returns a copy of the config with defaults applied for unset fields.
func (c Config) WithDefaults() Config {
	defaults := DefaultConfig()
	if c.Path == "" {
		c.Path = defaults.Path
	}
	if c.HeaderPrefix == "" {
		c.HeaderPrefix = defaults.HeaderPrefix
	}
	if c.StripSuffix == "" {
		c.StripSuffix = defaults.StripSuffix
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithPath sets the ollama binary name or path.
func WithPath(path string) Option {
	return func(c *Client) { c.cfg.Path = path }
}

// WithTimeout bounds each CLI run.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.cfg.Timeout = d }
}

// WithEnv adds environment variables for the CLI.
func WithEnv(env map[string]string) Option {
	return func(c *Client) {
		if c.cfg.Env == nil {
			c.cfg.Env = make(map[string]string)
		}
		for k, v := range env {
			c.cfg.Env[k] = v
		}
	}
}

// WithHost sets OLLAMA_HOST for the CLI.
func WithHost(host string) Option {
	return WithEnv(map[string]string{"OLLAMA_HOST": host})
}

// WithInvoker replaces the process gateway, typically with a gateway.MockInvoker.
func WithInvoker(inv gateway.Invoker) Option {
	return func(c *Client) { c.invoker = inv }
}
