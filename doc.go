// Package odkshell runs local helper programs on behalf of a desktop front-end.
//
// Subpackages can be used independently:
//
//   - gateway: spawn a program from an ordered candidate list, feed stdin, capture output
//   - tabular: parse whitespace-aligned CLI tables such as `ollama list`
//   - ollama: list installed ollama models
//   - runner: run a prompt through the Python runner script
//   - bridge: named commands with JSON arguments and display-ready errors
//   - config: file and environment configuration with hot reload
//
// # Quick Start
//
// Listing models:
//
//	import "github.com/randalmurphal/odkshell/ollama"
//	client := ollama.NewClient()
//	names, err := client.ListModels(ctx)
//
// Running a prompt:
//
//	import "github.com/randalmurphal/odkshell/runner"
//	r := runner.New(runner.WithScriptPath("./runner.py"))
//	out, err := r.Run(ctx, "list the files here", "ollama-llama3.2")
//
// Serving the front-end:
//
//	import "github.com/randalmurphal/odkshell/bridge"
//	b := bridge.NewDefault(r, client)
//	reply := b.Invoke(ctx, bridge.CommandGetOllamaModels, nil)
//
// Failures from gateway carry a Kind, so callers can tell a missing
// interpreter from a script that exited non-zero:
//
//	if gateway.IsSpawnError(err) {
//		// install python
//	}
package odkshell
