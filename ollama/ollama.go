package ollama

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/randalmurphal/odkshell/gateway"
	"github.com/randalmurphal/odkshell/tabular"
)

// Column names in `ollama list` output.
const (
	ColumnName     = "NAME"
	ColumnID       = "ID"
	ColumnSize     = "SIZE"
	ColumnModified = "MODIFIED"
)

// Model is one row of `ollama list`.
type Model struct {
	Name     string `json:"name" yaml:"name"`
	ID       string `json:"id" yaml:"id"`
	Size     string `json:"size" yaml:"size"`
	Modified string `json:"modified" yaml:"modified"`
}

// Client runs the ollama CLI.
type Client struct {
	cfg     Config
	invoker gateway.Invoker
}

// NewClient creates a Client.
// Assumes "ollama" is available in PATH unless overridden with WithPath.
func NewClient(opts ...Option) *Client {
	c := &Client{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(c)
	}
	if c.invoker == nil {
		c.invoker = gateway.New()
	}
	return c
}

// NewClientWithConfig creates a Client from a Config.
func NewClientWithConfig(cfg Config, opts ...Option) *Client {
	c := &Client{cfg: cfg.WithDefaults()}
	for _, opt := range opts {
		opt(c)
	}
	if c.invoker == nil {
		c.invoker = gateway.New()
	}
	return c
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// ListModels returns installed model names, sorted ascending, with the
// configured suffix stripped.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	out, err := c.list(ctx)
	if err != nil {
		return nil, err
	}
	return tabular.ParseNames(out, c.cfg.HeaderPrefix, c.cfg.StripSuffix), nil
}

// ListModelDetails returns every row of `ollama list`, sorted by name, with
// the configured suffix stripped from each name.
func (c *Client) ListModelDetails(ctx context.Context) ([]Model, error) {
	out, err := c.list(ctx)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(out) == "" {
		return []Model{}, nil
	}

	table, err := tabular.ParseTableWithHeader(out, c.cfg.HeaderPrefix)
	if err != nil {
		return nil, fmt.Errorf("parse ollama list: %w", err)
	}

	models := make([]Model, 0, len(table.Rows))
	for _, row := range table.Rows {
		name := strings.TrimSuffix(row.Get(ColumnName), c.cfg.StripSuffix)
		if name == "" {
			continue
		}
		models = append(models, Model{
			Name:     name,
			ID:       row.Get(ColumnID),
			Size:     row.Get(ColumnSize),
			Modified: row.Get(ColumnModified),
		})
	}

	sort.SliceStable(models, func(i, j int) bool {
		return models[i].Name < models[j].Name
	})
	return models, nil
}

// list runs `ollama list` and returns its decoded stdout.
func (c *Client) list(ctx context.Context) (string, error) {
	if err := c.cfg.Validate(); err != nil {
		return "", fmt.Errorf("invalid ollama config: %w", err)
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	res, err := c.invoker.Invoke(ctx, gateway.CommandSpec{
		Candidates: []string{c.cfg.Path},
		Args:       []string{"list"},
		Env:        c.cfg.Env,
	})
	if err != nil {
		return "", fmt.Errorf("ollama list: %w", err)
	}

	slog.Debug("ollama list completed",
		slog.String("path", res.Candidate),
		slog.Duration("duration", res.Duration))
	return res.Output, nil
}
