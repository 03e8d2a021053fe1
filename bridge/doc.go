// Package bridge is the surface a front-end calls into.
//
// Each Command has a name, an argument type, a handler and the messages used
// to render its failures. Dispatch decodes JSON arguments and runs the
// handler; Invoke does the same and converts the outcome to a Reply, which
// is the only place errors become strings.
//
// NewDefault registers the two standard commands:
//
//   - run_command {"prompt": "...", "aiModel": "..."} returns the runner
//     script's output.
//   - get_ollama_models {} returns the sorted list of installed models.
//
// Schema returns the JSON Schema of a command's arguments so a front-end
// can validate a call before making it.
package bridge
