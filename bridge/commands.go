package bridge

import (
	"context"
	"encoding/json"
)

// Standard command names.
const (
	CommandRunCommand      = "run_command"
	CommandGetOllamaModels = "get_ollama_models"
)

// TaskRunner runs a prompt against a model. *runner.Runner implements it.
type TaskRunner interface {
	Run(ctx context.Context, prompt, model string) (string, error)
}

// ModelLister lists installed model names. *ollama.Client implements it.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// RunCommandArgs are the arguments of run_command.
type RunCommandArgs struct {
	Prompt  string `json:"prompt" jsonschema:"minLength=1,description=Task description written to the runner script's stdin"`
	AIModel string `json:"aiModel" jsonschema:"minLength=1,description=Model selector passed as the script's argument"`
}

// GetOllamaModelsArgs are the arguments of get_ollama_models. It takes none.
type GetOllamaModelsArgs struct{}

// RunCommandMessages render run_command failures.
var RunCommandMessages = Messages{
	Spawn:    "Failed to start Python process",
	Stdin:    "Failed to write to Python stdin",
	Wait:     "Failed to wait for Python process",
	Decode:   "Failed to parse Python output",
	Exit:     "Python script failed",
	Canceled: "Python process canceled",
}

// GetOllamaModelsMessages render get_ollama_models failures.
var GetOllamaModelsMessages = Messages{
	Spawn:    "Failed to run ollama command",
	Stdin:    "Failed to run ollama command",
	Wait:     "Failed to run ollama command",
	Decode:   "Failed to parse ollama output",
	Exit:     "Ollama command failed",
	Canceled: "Ollama command canceled",
}

// RunCommand returns the run_command command backed by r.
func RunCommand(r TaskRunner) Command {
	return Command{
		Name:     CommandRunCommand,
		Args:     RunCommandArgs{},
		Messages: RunCommandMessages,
		Handle: func(ctx context.Context, raw json.RawMessage) (any, error) {
			args, err := decodeArgs[RunCommandArgs](raw)
			if err != nil {
				return nil, err
			}
			return r.Run(ctx, args.Prompt, args.AIModel)
		},
	}
}

// GetOllamaModels returns the get_ollama_models command backed by l.
func GetOllamaModels(l ModelLister) Command {
	return Command{
		Name:     CommandGetOllamaModels,
		Args:     GetOllamaModelsArgs{},
		Messages: GetOllamaModelsMessages,
		Handle: func(ctx context.Context, raw json.RawMessage) (any, error) {
			if _, err := decodeArgs[GetOllamaModelsArgs](raw); err != nil {
				return nil, err
			}
			return l.ListModels(ctx)
		},
	}
}

// NewDefault creates a Bridge with run_command and get_ollama_models registered.
func NewDefault(r TaskRunner, l ModelLister) *Bridge {
	b := New()
	b.Register(RunCommand(r))
	b.Register(GetOllamaModels(l))
	return b
}
