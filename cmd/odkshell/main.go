// Command odkshell drives the runner script and the ollama CLI from the
// command line, or serves bridge commands over stdio for a front-end.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/randalmurphal/odkshell/bridge"
	"github.com/randalmurphal/odkshell/config"
	"github.com/randalmurphal/odkshell/ollama"
	"github.com/randalmurphal/odkshell/runner"
)

const usage = `usage: odkshell [-config FILE] [-v] <command> [args]

commands:
  run -model MODEL [PROMPT...]   run a prompt through the runner script (stdin if no PROMPT)
  models [-details] [-json]      list installed ollama models
  schema COMMAND                 print the JSON Schema of a bridge command's arguments
  invoke COMMAND [JSON]          call a bridge command and print its reply
  serve [-watch]                 answer JSON-line requests on stdin
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app holds what every subcommand needs.
type app struct {
	cfgPath string
	cfg     config.Config
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("odkshell", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	var cfgPath string
	var verbose bool
	fs.StringVar(&cfgPath, "config", os.Getenv("ODKSHELL_CONFIG"), "config file (.toml, .yaml, .json)")
	fs.BoolVar(&verbose, "v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	setupLogging(stderr, cfg.LogLevel, verbose)

	a := &app{cfgPath: cfgPath, cfg: cfg, stdin: stdin, stdout: stdout, stderr: stderr}

	rest := fs.Args()[1:]
	switch fs.Arg(0) {
	case "run":
		return a.runCmd(ctx, rest)
	case "models":
		return a.modelsCmd(ctx, rest)
	case "schema":
		return a.schemaCmd(rest)
	case "invoke":
		return a.invokeCmd(ctx, rest)
	case "serve":
		return a.serveCmd(ctx, rest)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n\n%s", fs.Arg(0), usage)
		return 2
	}
}

func setupLogging(w io.Writer, level string, verbose bool) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
}

// newBridge wires the default commands from cfg.
func newBridge(cfg config.Config) *bridge.Bridge {
	return bridge.NewDefault(
		runner.NewWithConfig(cfg.Runner),
		ollama.NewClientWithConfig(cfg.Ollama),
	)
}

func (a *app) runCmd(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	model := fs.String("model", "", "model selector passed to the runner script")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	prompt := strings.Join(fs.Args(), " ")
	if prompt == "" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			fmt.Fprintln(a.stderr, "error: read prompt:", err)
			return 1
		}
		prompt = string(data)
	}

	raw, err := json.Marshal(bridge.RunCommandArgs{Prompt: prompt, AIModel: *model})
	if err != nil {
		fmt.Fprintln(a.stderr, "error:", err)
		return 1
	}

	reply := newBridge(a.cfg).Invoke(ctx, bridge.CommandRunCommand, raw)
	if !reply.OK {
		fmt.Fprintln(a.stderr, "error:", reply.Error)
		return 1
	}
	fmt.Fprint(a.stdout, reply.Data)
	return 0
}

func (a *app) modelsCmd(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("models", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	details := fs.Bool("details", false, "include ID, size and modification time")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *details {
		models, err := ollama.NewClientWithConfig(a.cfg.Ollama).ListModelDetails(ctx)
		if err != nil {
			fmt.Fprintln(a.stderr, "error:", bridge.GetOllamaModelsMessages.Render(err))
			return 1
		}
		if *asJSON {
			return a.printJSON(models)
		}
		tw := tabwriter.NewWriter(a.stdout, 0, 4, 4, ' ', 0)
		fmt.Fprintln(tw, "NAME\tID\tSIZE\tMODIFIED")
		for _, m := range models {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Name, m.ID, m.Size, m.Modified)
		}
		if err := tw.Flush(); err != nil {
			fmt.Fprintln(a.stderr, "error:", err)
			return 1
		}
		return 0
	}

	reply := newBridge(a.cfg).Invoke(ctx, bridge.CommandGetOllamaModels, nil)
	if !reply.OK {
		fmt.Fprintln(a.stderr, "error:", reply.Error)
		return 1
	}
	names, _ := reply.Data.([]string)
	if *asJSON {
		return a.printJSON(names)
	}
	for _, name := range names {
		fmt.Fprintln(a.stdout, name)
	}
	return 0
}

func (a *app) schemaCmd(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(a.stderr, "usage: odkshell schema COMMAND")
		return 2
	}
	schema, err := newBridge(a.cfg).Schema(args[0])
	if err != nil {
		fmt.Fprintln(a.stderr, "error:", err)
		return 1
	}
	return a.printJSON(schema)
}

func (a *app) invokeCmd(ctx context.Context, args []string) int {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(a.stderr, "usage: odkshell invoke COMMAND [JSON]")
		return 2
	}
	var raw json.RawMessage
	if len(args) == 2 {
		raw = json.RawMessage(args[1])
	}

	reply := newBridge(a.cfg).Invoke(ctx, args[0], raw)
	if code := a.printJSON(reply); code != 0 {
		return code
	}
	if !reply.OK {
		return 1
	}
	return 0
}

func (a *app) printJSON(v any) int {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(a.stderr, "error:", err)
		return 1
	}
	return 0
}
