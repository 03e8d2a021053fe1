package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// clearEnv unsets every variable LoadFromEnv reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ODKSHELL_LOG_LEVEL", "ODKSHELL_PYTHON", "ODKSHELL_SCRIPT_PATH", "ODKSHELL_WORK_DIR",
		"ODKSHELL_RUNNER_TIMEOUT", "ODKSHELL_OLLAMA_PATH", "ODKSHELL_OLLAMA_TIMEOUT", "OLLAMA_HOST",
	} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"python3", "python"}, cfg.Runner.PythonCandidates)
	assert.Equal(t, "../runner.py", cfg.Runner.ScriptPath)
	assert.Equal(t, "ollama", cfg.Ollama.Path)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_TOML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "odkshell.toml", `
log_level = "debug"

[runner]
python_candidates = ["python3.12"]
script_path = "/opt/odkshell/runner.py"
timeout = "10m"

[runner.env]
OPENAI_API_KEY = "sk-test"

[ollama]
path = "/usr/local/bin/ollama"
timeout = "30s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"python3.12"}, cfg.Runner.PythonCandidates)
	assert.Equal(t, "/opt/odkshell/runner.py", cfg.Runner.ScriptPath)
	assert.Equal(t, 10*time.Minute, cfg.Runner.Timeout)
	assert.Equal(t, "sk-test", cfg.Runner.Env["OPENAI_API_KEY"])
	assert.Equal(t, "/usr/local/bin/ollama", cfg.Ollama.Path)
	assert.Equal(t, 30*time.Second, cfg.Ollama.Timeout)
	assert.Equal(t, ":latest", cfg.Ollama.StripSuffix, "unset fields keep defaults")
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "odkshell.yaml", `
runner:
  script_path: ./runner.py
  work_dir: /srv/app
  timeout: 2m
ollama:
  strip_suffix: ":stable"
  env:
    OLLAMA_HOST: 10.0.0.5:11434
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"python3", "python"}, cfg.Runner.PythonCandidates)
	assert.Equal(t, "./runner.py", cfg.Runner.ScriptPath)
	assert.Equal(t, "/srv/app", cfg.Runner.WorkDir)
	assert.Equal(t, 2*time.Minute, cfg.Runner.Timeout)
	assert.Equal(t, ":stable", cfg.Ollama.StripSuffix)
	assert.Equal(t, "10.0.0.5:11434", cfg.Ollama.Env["OLLAMA_HOST"])
}

func TestLoad_JSON(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "odkshell.json", `{"ollama": {"path": "/bin/ollama"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/bin/ollama", cfg.Ollama.Path)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeConfig(t, "odkshell.ini", "x=1"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "bad.yaml", "runner: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "level.toml", `log_level = "loud"`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "timeout.yaml", "runner:\n  timeout: -1s\n"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ODKSHELL_LOG_LEVEL", "warn")
	t.Setenv("ODKSHELL_PYTHON", "py3, py ,")
	t.Setenv("ODKSHELL_SCRIPT_PATH", "/env/runner.py")
	t.Setenv("ODKSHELL_RUNNER_TIMEOUT", "45s")
	t.Setenv("ODKSHELL_OLLAMA_PATH", "/env/ollama")
	t.Setenv("ODKSHELL_OLLAMA_TIMEOUT", "not-a-duration")
	t.Setenv("OLLAMA_HOST", "remote:11434")

	path := writeConfig(t, "odkshell.toml", `
[runner]
script_path = "/file/runner.py"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, []string{"py3", "py"}, cfg.Runner.PythonCandidates)
	assert.Equal(t, "/env/runner.py", cfg.Runner.ScriptPath, "env wins over file")
	assert.Equal(t, 45*time.Second, cfg.Runner.Timeout)
	assert.Equal(t, "/env/ollama", cfg.Ollama.Path)
	assert.Zero(t, cfg.Ollama.Timeout, "malformed values are ignored")
	assert.Equal(t, "remote:11434", cfg.Ollama.Env["OLLAMA_HOST"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "trace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "odkshell.yaml", "ollama:\n  path: /first/ollama\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Config, 8)
	require.NoError(t, Watch(ctx, path, func(cfg Config) { changes <- cfg }))

	require.NoError(t, os.WriteFile(path, []byte("ollama:\n  path: /second/ollama\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changes:
			if cfg.Ollama.Path == "/second/ollama" {
				return
			}
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}

func TestWatch_SkipsInvalidReload(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "odkshell.yaml", "ollama:\n  path: /first/ollama\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Config, 8)
	require.NoError(t, Watch(ctx, path, func(cfg Config) { changes <- cfg }))

	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("ollama:\n  path: /third/ollama\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changes:
			assert.NotEqual(t, "loud", cfg.LogLevel)
			if cfg.Ollama.Path == "/third/ollama" {
				return
			}
		case <-deadline:
			t.Fatal("valid config change was not observed")
		}
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "odkshell.toml"), func(Config) {})
	assert.Error(t, err)
}
