// Package runner sends a task prompt to the Python runner script and returns
// what the script prints.
//
// The script is started with the first available interpreter ("python3",
// then "python"), receives the model selector as its only argument and the
// prompt on stdin, and runs with PYTHONIOENCODING=utf-8 so that its output
// is UTF-8 regardless of the host locale.
//
//	r := runner.New(runner.WithScriptPath("/opt/odkshell/runner.py"))
//	out, err := r.Run(ctx, "list the largest files here", "ollama-llama3.2")
package runner
