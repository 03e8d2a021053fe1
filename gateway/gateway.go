package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Invoker runs a CommandSpec to completion.
// *Gateway is the production implementation; MockInvoker is a test double.
type Invoker interface {
	Invoke(ctx context.Context, spec CommandSpec) (*Result, error)
}

// Result is the outcome of an invocation whose child exited with status zero.
type Result struct {
	// Candidate is the executable that was started.
	Candidate string

	// ExitCode is the child's exit status. Always 0 for a returned Result.
	ExitCode int

	// Output is Stdout decoded as UTF-8.
	Output string

	// Stdout and Stderr are the raw captured streams.
	Stdout []byte
	Stderr []byte

	// Duration is the time from the first spawn attempt to exit.
	Duration time.Duration
}

// DefaultWaitDelay is how long Invoke keeps reading output pipes after the
// child exits or is killed.
const DefaultWaitDelay = 5 * time.Second

// Gateway spawns external processes. The zero value is not usable; use New.
type Gateway struct {
	environ   func() []string
	waitDelay time.Duration
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithEnviron replaces os.Environ as the base environment of every child.
func WithEnviron(fn func() []string) Option {
	return func(g *Gateway) { g.environ = fn }
}

// WithWaitDelay bounds how long Invoke waits for the child's output pipes
// to close once the child has exited or been killed. A background process
// that inherited the pipes cannot hold Invoke longer than d.
// Zero waits until the pipes close. Default: DefaultWaitDelay.
func WithWaitDelay(d time.Duration) Option {
	return func(g *Gateway) { g.waitDelay = d }
}

// New creates a Gateway.
func New(opts ...Option) *Gateway {
	g := &Gateway{
		environ:   os.Environ,
		waitDelay: DefaultWaitDelay,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Invoke implements Invoker.
//
// Exactly one of the return values is non-nil. A child that was started is
// always waited on before Invoke returns.
func (g *Gateway) Invoke(ctx context.Context, spec CommandSpec) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, &Error{Kind: KindSpawnFailed, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &Error{Kind: KindCanceled, Candidate: spec.Candidates[0], Err: err}
	}

	start := time.Now()
	env := spec.buildEnv(g.environ())

	var (
		stdout, stderr bytes.Buffer
		cmd            *exec.Cmd
		stdin          io.WriteCloser
		candidate      string
		lastErr        error
	)
	for _, name := range spec.Candidates {
		candidate = name
		c, in, err := g.spawn(ctx, name, spec, env, &stdout, &stderr)
		if err == nil {
			cmd, stdin = c, in
			break
		}
		lastErr = err
		slog.Debug("candidate failed to spawn",
			slog.String("candidate", name),
			slog.Any("error", err))
	}
	if cmd == nil {
		return nil, &Error{Kind: KindSpawnFailed, Candidate: candidate, Err: lastErr}
	}

	if stdin != nil {
		if err := writeInput(stdin, spec.Input); err != nil {
			// Reap the child before reporting; its exit status is irrelevant here.
			_ = cmd.Wait()
			if ctx.Err() != nil {
				return nil, &Error{Kind: KindCanceled, Candidate: candidate, Err: ctx.Err()}
			}
			return nil, &Error{Kind: KindStdinWriteFailed, Candidate: candidate, Err: err}
		}
	}

	waitErr := cmd.Wait()
	duration := time.Since(start)

	if ctx.Err() != nil {
		return nil, &Error{Kind: KindCanceled, Candidate: candidate, Err: ctx.Err()}
	}

	// The child exited zero but something it started kept the pipes open.
	if errors.Is(waitErr, exec.ErrWaitDelay) {
		slog.Warn("output pipes still open after exit, output may be incomplete",
			slog.String("candidate", candidate),
			slog.Duration("wait_delay", g.waitDelay))
		waitErr = nil
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, &Error{Kind: KindWaitFailed, Candidate: candidate, Err: waitErr}
		}
		slog.Debug("process exited with failure",
			slog.String("candidate", candidate),
			slog.Int("exit_code", exitErr.ExitCode()),
			slog.Duration("duration", duration))
		return nil, &Error{
			Kind:      KindNonZeroExit,
			Candidate: candidate,
			Stderr:    DecodeLossy(stderr.Bytes()),
			ExitCode:  exitErr.ExitCode(),
		}
	}

	if err := validateUTF8(stdout.Bytes()); err != nil {
		return nil, &Error{Kind: KindNonUTF8Output, Candidate: candidate, Stream: StreamStdout, Err: err}
	}

	slog.Debug("process completed",
		slog.String("candidate", candidate),
		slog.Int("stdout_bytes", stdout.Len()),
		slog.Int("stderr_bytes", stderr.Len()),
		slog.Duration("duration", duration))

	return &Result{
		Candidate: candidate,
		ExitCode:  cmd.ProcessState.ExitCode(),
		Output:    stdout.String(),
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		Duration:  duration,
	}, nil
}

// spawn starts a single candidate. On failure exec.Cmd.Start releases every
// pipe it created, so nothing leaks between attempts.
func (g *Gateway) spawn(ctx context.Context, name string, spec CommandSpec, env []string, stdout, stderr io.Writer) (*exec.Cmd, io.WriteCloser, error) {
	cmd := exec.CommandContext(ctx, name, spec.Args...)
	cmd.Env = env
	cmd.Dir = spec.Dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = g.waitDelay
	setProcessGroup(cmd)

	var stdin io.WriteCloser
	if spec.HasInput() {
		in, err := cmd.StdinPipe()
		if err != nil {
			return nil, nil, fmt.Errorf("stdin pipe: %w", err)
		}
		stdin = in
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}
	return cmd, stdin, nil
}

// writeInput writes the whole payload and closes stdin so the child sees EOF.
func writeInput(stdin io.WriteCloser, input []byte) error {
	_, werr := stdin.Write(input)
	cerr := stdin.Close()
	if werr != nil {
		return werr
	}
	if cerr != nil {
		return fmt.Errorf("close stdin: %w", cerr)
	}
	return nil
}

// validateUTF8 returns an error naming the offset of the first invalid byte.
func validateUTF8(b []byte) error {
	if utf8.Valid(b) {
		return nil
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return fmt.Errorf("invalid UTF-8 sequence at byte %d", i)
		}
		i += size
	}
	return errors.New("invalid UTF-8 sequence")
}

// DecodeLossy decodes b as UTF-8, replacing invalid sequences with U+FFFD.
func DecodeLossy(b []byte) string {
	// The UTF-8 decoder substitutes U+FFFD and never reports an error.
	out, _ := unicode.UTF8.NewDecoder().Bytes(b)
	return string(out)
}
