package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/randalmurphal/odkshell/gateway"
)

// Errors returned before any process is started.
var (
	// ErrEmptyPrompt indicates the prompt is empty or only whitespace.
	ErrEmptyPrompt = errors.New("no prompt provided")

	// ErrNoModel indicates no model selector was given.
	ErrNoModel = errors.New("no AI model specified")
)

// EncodingEnvVar is set to "utf-8" for every run.
const EncodingEnvVar = "PYTHONIOENCODING"

// Runner runs the Python runner script.
type Runner struct {
	cfg     Config
	invoker gateway.Invoker
}

// New creates a Runner with default configuration.
func New(opts ...Option) *Runner {
	r := &Runner{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(r)
	}
	if r.invoker == nil {
		r.invoker = gateway.New()
	}
	return r
}

// NewWithConfig creates a Runner from a Config.
func NewWithConfig(cfg Config, opts ...Option) *Runner {
	r := &Runner{cfg: cfg.WithDefaults()}
	for _, opt := range opts {
		opt(r)
	}
	if r.invoker == nil {
		r.invoker = gateway.New()
	}
	return r
}

// Config returns the runner's configuration.
func (r *Runner) Config() Config {
	return r.cfg
}

// Run writes prompt to the script's stdin with model as its argument and
// returns the script's stdout unchanged.
func (r *Runner) Run(ctx context.Context, prompt, model string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	if strings.TrimSpace(model) == "" {
		return "", ErrNoModel
	}
	if err := r.cfg.Validate(); err != nil {
		return "", fmt.Errorf("invalid runner config: %w", err)
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	res, err := r.invoker.Invoke(ctx, r.buildSpec(prompt, model))
	if err != nil {
		return "", err
	}

	slog.Debug("runner script completed",
		slog.String("interpreter", res.Candidate),
		slog.String("model", model),
		slog.Duration("duration", res.Duration))
	return res.Output, nil
}

// buildSpec constructs the invocation for one run.
func (r *Runner) buildSpec(prompt, model string) gateway.CommandSpec {
	env := make(map[string]string, len(r.cfg.Env)+1)
	for k, v := range r.cfg.Env {
		env[k] = v
	}
	env[EncodingEnvVar] = "utf-8"

	candidates := make([]string, len(r.cfg.PythonCandidates))
	copy(candidates, r.cfg.PythonCandidates)

	return gateway.CommandSpec{
		Candidates: candidates,
		Args:       []string{r.cfg.ScriptPath, model},
		Env:        env,
		Input:      []byte(prompt),
		Dir:        r.cfg.WorkDir,
	}
}
