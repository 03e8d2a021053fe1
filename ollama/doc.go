// Package ollama lists locally installed models by running the ollama CLI.
//
// The client runs `ollama list` through a gateway.Invoker and parses the
// tabular report. Failures are returned as *gateway.Error values so callers
// can tell a missing binary from a failing one.
//
// # Usage
//
//	client := ollama.NewClient()
//	names, err := client.ListModels(ctx)
//	// names: ["deepseek-r1", "llama3.2", "qwen2.5-coder:7b"]
//
// Details, including size and modification time, are available with
// ListModelDetails.
//
// The ":latest" tag is stripped from names because it is the tag ollama
// applies when none is given. Names are not deduplicated.
package ollama
