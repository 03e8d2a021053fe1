package ollama_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/odkshell/gateway"
	"github.com/randalmurphal/odkshell/ollama"
	"github.com/randalmurphal/odkshell/tabular"
)

const listOutput = "NAME                       ID              SIZE      MODIFIED\n" +
	"qwen2.5-coder:7b           2b0496514337    4.7 GB    3 days ago\n" +
	"llama3.2:latest            a80c4f17acd5    2.0 GB    2 weeks ago\n" +
	"deepseek-r1:latest         0a8c26691023    4.7 GB    5 weeks ago\n"

// writeMockOllama writes a fake ollama binary. OLLAMA_TEST_MODE selects its behavior.
func writeMockOllama(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ollama")

	script := `#!/bin/sh
if [ "$1" != "list" ]; then
  echo "unexpected args: $*" >&2
  exit 2
fi

case "${OLLAMA_TEST_MODE:-success}" in
  success)
    cat <<'TABLE'
NAME                       ID              SIZE      MODIFIED
qwen2.5-coder:7b           2b0496514337    4.7 GB    3 days ago
llama3.2:latest            a80c4f17acd5    2.0 GB    2 weeks ago
TABLE
    ;;
  not_running)
    echo "Error: could not connect to ollama app, is it running?" >&2
    exit 1
    ;;
  empty)
    echo "NAME    ID    SIZE    MODIFIED"
    ;;
esac
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := ollama.DefaultConfig()
	assert.Equal(t, "ollama", cfg.Path)
	assert.Equal(t, "NAME", cfg.HeaderPrefix)
	assert.Equal(t, ":latest", cfg.StripSuffix)
	assert.Zero(t, cfg.Timeout)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ollama.Config
		wantErr bool
	}{
		{name: "defaults", cfg: ollama.DefaultConfig()},
		{name: "missing path", cfg: ollama.Config{}, wantErr: true},
		{name: "negative timeout", cfg: ollama.Config{Path: "ollama", Timeout: -time.Second}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := ollama.Config{Path: "/opt/ollama"}.WithDefaults()
	assert.Equal(t, "/opt/ollama", cfg.Path)
	assert.Equal(t, "NAME", cfg.HeaderPrefix)
	assert.Equal(t, ":latest", cfg.StripSuffix)
}

func TestListModels_BuildsSpec(t *testing.T) {
	mock := gateway.NewMockInvoker(listOutput)
	client := ollama.NewClient(
		ollama.WithInvoker(mock),
		ollama.WithPath("/usr/local/bin/ollama"),
		ollama.WithHost("127.0.0.1:11434"),
	)

	names, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"deepseek-r1", "llama3.2", "qwen2.5-coder:7b"}, names)

	spec, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, []string{"/usr/local/bin/ollama"}, spec.Candidates)
	assert.Equal(t, []string{"list"}, spec.Args)
	assert.Equal(t, "127.0.0.1:11434", spec.Env["OLLAMA_HOST"])
	assert.False(t, spec.HasInput())
}

func TestListModels_PropagatesGatewayError(t *testing.T) {
	mock := gateway.NewMockInvoker("").WithError(&gateway.Error{
		Kind:      gateway.KindNonZeroExit,
		Candidate: "ollama",
		Stderr:    "server not responding",
		ExitCode:  1,
	})
	client := ollama.NewClient(ollama.WithInvoker(mock))

	names, err := client.ListModels(context.Background())
	assert.Nil(t, names)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gateway.ErrNonZeroExit))
	assert.Contains(t, err.Error(), "ollama list")
}

func TestListModels_InvalidConfig(t *testing.T) {
	mock := gateway.NewMockInvoker(listOutput)
	client := ollama.NewClient(ollama.WithInvoker(mock), ollama.WithTimeout(-time.Second))

	_, err := client.ListModels(context.Background())
	require.Error(t, err)
	assert.Empty(t, mock.Calls, "no process should be spawned for an invalid config")
}

func TestListModels_WithMockBinary(t *testing.T) {
	bin := writeMockOllama(t)

	t.Run("success", func(t *testing.T) {
		client := ollama.NewClient(ollama.WithPath(bin))
		names, err := client.ListModels(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"llama3.2", "qwen2.5-coder:7b"}, names)
	})

	t.Run("header only", func(t *testing.T) {
		client := ollama.NewClient(ollama.WithPath(bin), ollama.WithEnv(map[string]string{"OLLAMA_TEST_MODE": "empty"}))
		names, err := client.ListModels(context.Background())
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("server not running", func(t *testing.T) {
		client := ollama.NewClient(ollama.WithPath(bin), ollama.WithEnv(map[string]string{"OLLAMA_TEST_MODE": "not_running"}))
		_, err := client.ListModels(context.Background())

		var gerr *gateway.Error
		require.True(t, errors.As(err, &gerr))
		assert.Equal(t, gateway.KindNonZeroExit, gerr.Kind)
		assert.Equal(t, "Error: could not connect to ollama app, is it running?\n", gerr.Stderr)
	})

	t.Run("binary missing", func(t *testing.T) {
		client := ollama.NewClient(ollama.WithPath(filepath.Join(t.TempDir(), "ollama")))
		_, err := client.ListModels(context.Background())
		assert.True(t, gateway.IsSpawnError(err))
	})
}

func TestListModelDetails(t *testing.T) {
	mock := gateway.NewMockInvoker(listOutput)
	client := ollama.NewClient(ollama.WithInvoker(mock))

	models, err := client.ListModelDetails(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 3)

	assert.Equal(t, ollama.Model{Name: "deepseek-r1", ID: "0a8c26691023", Size: "4.7 GB", Modified: "5 weeks ago"}, models[0])
	assert.Equal(t, ollama.Model{Name: "llama3.2", ID: "a80c4f17acd5", Size: "2.0 GB", Modified: "2 weeks ago"}, models[1])
	assert.Equal(t, "qwen2.5-coder:7b", models[2].Name)
}

func TestListModelDetails_EmptyOutput(t *testing.T) {
	client := ollama.NewClient(ollama.WithInvoker(gateway.NewMockInvoker("")))
	models, err := client.ListModelDetails(context.Background())
	require.NoError(t, err)
	assert.Empty(t, models)
}

func TestListModelDetails_RequiresHeader(t *testing.T) {
	headerless := "llama3.2:latest            a80c4f17acd5    2.0 GB    2 weeks ago\n"
	client := ollama.NewClient(ollama.WithInvoker(gateway.NewMockInvoker(headerless)))

	_, err := client.ListModelDetails(context.Background())
	assert.ErrorIs(t, err, tabular.ErrNoHeader)
}

func TestListModelDetails_AgreesWithListModels(t *testing.T) {
	repeated := listOutput + "NAME                       ID              SIZE      MODIFIED\n" +
		"phi3:mini                  4f2222927938    2.2 GB    1 day ago\n"
	mock := gateway.NewMockInvoker(repeated)
	client := ollama.NewClient(ollama.WithInvoker(mock))

	names, err := client.ListModels(context.Background())
	require.NoError(t, err)
	models, err := client.ListModelDetails(context.Background())
	require.NoError(t, err)

	detailNames := make([]string, len(models))
	for i, m := range models {
		detailNames[i] = m.Name
	}
	assert.Equal(t, names, detailNames)
}

func TestNewClientWithConfig(t *testing.T) {
	client := ollama.NewClientWithConfig(ollama.Config{Path: "/bin/ollama"})
	cfg := client.Config()
	assert.Equal(t, "/bin/ollama", cfg.Path)
	assert.Equal(t, ":latest", cfg.StripSuffix)
}
