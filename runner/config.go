package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/randalmurphal/odkshell/gateway"
)

// Config holds runner configuration.
type Config struct {
	// PythonCandidates are interpreter names tried in order.
	// Default: ["python3", "python"]
	PythonCandidates []string `json:"python_candidates" yaml:"python_candidates" toml:"python_candidates"`

	// ScriptPath is the runner script, relative to WorkDir when not absolute.
	// Default: "../runner.py"
	ScriptPath string `json:"script_path" yaml:"script_path" toml:"script_path"`

	// WorkDir is the working directory of the interpreter.
	// Default: the host's current directory.
	WorkDir string `json:"work_dir" yaml:"work_dir" toml:"work_dir"`

	// Timeout bounds a single run. 0 waits until the script exits.
	Timeout time.Duration `json:"timeout" yaml:"timeout" toml:"timeout"`

	// Env provides additional environment variables for the script.
	// PYTHONIOENCODING is always forced to utf-8.
	Env map[string]string `json:"env" yaml:"env" toml:"env"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		PythonCandidates: []string{"python3", "python"},
		ScriptPath:       "../runner.py",
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.PythonCandidates) == 0 {
		return fmt.Errorf("python_candidates is required")
	}
	for _, p := range c.PythonCandidates {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("python_candidates must not contain empty names")
		}
	}
	if strings.TrimSpace(c.ScriptPath) == "" {
		return fmt.Errorf("script_path is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0")
	}
	return nil
}

// WithDefaults returns a copy of the config with defaults applied for unset fields.
func (c Config) WithDefaults() Config {
	defaults := DefaultConfig()
	if len(c.PythonCandidates) == 0 {
		c.PythonCandidates = defaults.PythonCandidates
	}
	if c.ScriptPath == "" {
		c.ScriptPath = defaults.ScriptPath
	}
	return c
}

// Option configures a Runner.
type Option func(*Runner)

// WithPythonCandidates sets the interpreter names tried in order.
func WithPythonCandidates(names ...string) Option {
	return func(r *Runner) { r.cfg.PythonCandidates = names }
}

// WithScriptPath sets the runner script path.
func WithScriptPath(path string) Option {
	return func(r *Runner) { r.cfg.ScriptPath = path }
}

// WithWorkDir sets the interpreter's working directory.
func WithWorkDir(dir string) Option {
	return func(r *Runner) { r.cfg.WorkDir = dir }
}

// WithTimeout bounds each run.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.cfg.Timeout = d }
}

// WithEnv adds environment variables for the script.
func WithEnv(env map[string]string) Option {
	return func(r *Runner) {
		if r.cfg.Env == nil {
			r.cfg.Env = make(map[string]string)
		}
		for k, v := range env {
			r.cfg.Env[k] = v
		}
	}
}

// WithInvoker replaces the process gateway, typically with a gateway.MockInvoker.
func WithInvoker(inv gateway.Invoker) Option {
	return func(r *Runner) { r.invoker = inv }
}
