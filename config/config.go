package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/odkshell/ollama"
	"github.com/randalmurphal/odkshell/runner"
)

// ErrUnsupportedFormat indicates the file extension is not a known format.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config is the complete odkshell configuration.
type Config struct {
	// LogLevel is one of "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`

	Runner runner.Config `json:"runner" yaml:"runner" toml:"runner"`
	Ollama ollama.Config `json:"ollama" yaml:"ollama" toml:"ollama"`
}

// Default returns a Config with every default applied.
func Default() Config {
	return Config{
		LogLevel: "info",
		Runner:   runner.DefaultConfig(),
		Ollama:   ollama.DefaultConfig(),
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if err := c.Runner.Validate(); err != nil {
		return fmt.Errorf("runner: %w", err)
	}
	if err := c.Ollama.Validate(); err != nil {
		return fmt.Errorf("ollama: %w", err)
	}
	return nil
}

// WithDefaults returns a copy of the config with defaults applied for unset fields.
func (c Config) WithDefaults() Config {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.Runner = c.Runner.WithDefaults()
	c.Ollama = c.Ollama.WithDefaults()
	return c
}

// Load reads path, applies environment overrides and defaults, and validates
// the result. An empty path loads defaults and the environment only.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.LoadFromEnv()
	cfg = cfg.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// decodeFile decodes path onto cfg, choosing the format by extension.
func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

// LoadFromEnv populates config fields from environment variables.
// Environment variables use the ODKSHELL_ prefix and take precedence over
// existing values. Malformed values are ignored.
//
// Supported variables:
//   - ODKSHELL_LOG_LEVEL: Log level
//   - ODKSHELL_PYTHON: Comma-separated interpreter candidates
//   - ODKSHELL_SCRIPT_PATH: Runner script path
//   - ODKSHELL_WORK_DIR: Runner working directory
//   - ODKSHELL_RUNNER_TIMEOUT: Runner timeout (e.g., "10m")
//   - ODKSHELL_OLLAMA_PATH: ollama binary
//   - ODKSHELL_OLLAMA_TIMEOUT: ollama timeout
//   - OLLAMA_HOST: passed through to the ollama CLI
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("ODKSHELL_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("ODKSHELL_PYTHON"); v != "" {
		var names []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				names = append(names, p)
			}
		}
		if len(names) > 0 {
			c.Runner.PythonCandidates = names
		}
	}
	if v := os.Getenv("ODKSHELL_SCRIPT_PATH"); v != "" {
		c.Runner.ScriptPath = v
	}
	if v := os.Getenv("ODKSHELL_WORK_DIR"); v != "" {
		c.Runner.WorkDir = v
	}
	if v := os.Getenv("ODKSHELL_RUNNER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Runner.Timeout = d
		}
	}
	if v := os.Getenv("ODKSHELL_OLLAMA_PATH"); v != "" {
		c.Ollama.Path = v
	}
	if v := os.Getenv("ODKSHELL_OLLAMA_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Ollama.Timeout = d
		}
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		if c.Ollama.Env == nil {
			c.Ollama.Env = make(map[string]string)
		}
		c.Ollama.Env["OLLAMA_HOST"] = v
	}
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
