// Package gateway runs external programs as subroutines with a typed result.
//
// A CommandSpec names an ordered list of candidate executables, the argument
// vector, environment overrides and an optional stdin payload. Invoke starts
// the first candidate that spawns, feeds it the payload, waits for it to exit
// and returns either a Result or an *Error whose Kind identifies the failure.
//
// # Usage
//
//	gw := gateway.New()
//	res, err := gw.Invoke(ctx, gateway.CommandSpec{
//	    Candidates: []string{"python3", "python"},
//	    Args:       []string{"runner.py", "ollama-llama3"},
//	    Env:        map[string]string{"PYTHONIOENCODING": "utf-8"},
//	    Input:      []byte("list the files in this directory"),
//	})
//	if errors.Is(err, gateway.ErrNonZeroExit) {
//	    var gerr *gateway.Error
//	    errors.As(err, &gerr)
//	    fmt.Println(gerr.Stderr)
//	}
//
// # Streams
//
// Standard input, output and error are always pipes owned by the gateway;
// the child never inherits the host's streams. Output is collected in full
// before Invoke returns. Standard output must be valid UTF-8 on success,
// standard error is decoded lossily so that diagnostics from misbehaving
// tools still reach the caller.
//
// # Fallback and cancellation
//
// Candidates are a static substitution list: the next one is tried only when
// the previous one fails to spawn. Nothing else is retried. On Unix each child
// runs in its own process group, and cancelling the context kills the whole
// group; the child is reaped before Invoke returns on every path. Output pipes
// held open by a process that escaped the group are closed after the wait
// delay (see WithWaitDelay). With context.Background and a child that never
// exits the wait is unbounded.
//
// Gateway holds no mutable state and is safe for concurrent use.
package gateway
