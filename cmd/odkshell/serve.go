package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/randalmurphal/odkshell/bridge"
	"github.com/randalmurphal/odkshell/config"
)

// maxRequestBytes bounds a single request line.
const maxRequestBytes = 16 << 20

// request is one line of serve input.
type request struct {
	ID   json.RawMessage `json:"id,omitempty"`
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args,omitempty"`
}

// response is one line of serve output.
type response struct {
	ID json.RawMessage `json:"id,omitempty"`
	bridge.Reply
}

// serveCmd answers one JSON request per stdin line with one JSON reply per
// stdout line, in order, until stdin closes or ctx is done.
func (a *app) serveCmd(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	watch := fs.Bool("watch", false, "reload the config file when it changes")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Stops the config watcher when serving ends.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var current atomic.Pointer[bridge.Bridge]
	current.Store(newBridge(a.cfg))

	if *watch {
		if a.cfgPath == "" {
			fmt.Fprintln(a.stderr, "error: -watch requires -config")
			return 2
		}
		err := config.Watch(ctx, a.cfgPath, func(cfg config.Config) {
			current.Store(newBridge(cfg))
			slog.Info("bridge reconfigured", slog.String("config", a.cfgPath))
		})
		if err != nil {
			fmt.Fprintln(a.stderr, "error:", err)
			return 1
		}
	}

	scanner := bufio.NewScanner(a.stdin)
	scanner.Buffer(make([]byte, 0, 64<<10), maxRequestBytes)
	enc := json.NewEncoder(a.stdout)

	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		var resp response
		if err := json.Unmarshal(line, &req); err != nil {
			resp.Reply = bridge.Reply{Error: fmt.Sprintf("invalid request: %v", err)}
		} else {
			resp.ID = req.ID
			resp.Reply = current.Load().Invoke(ctx, req.Cmd, req.Args)
		}

		if err := enc.Encode(resp); err != nil {
			fmt.Fprintln(a.stderr, "error: write reply:", err)
			return 1
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintln(a.stderr, "error: read request:", err)
		return 1
	}
	return 0
}
