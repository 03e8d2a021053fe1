package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/invopop/jsonschema"
)

// Sentinel errors for bridge operations.
var (
	// ErrUnknownCommand indicates no command is registered under the name.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidArgs indicates the JSON arguments could not be decoded.
	ErrInvalidArgs = errors.New("invalid arguments")
)

// Handler runs a command with its raw JSON arguments.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Command is a named operation exposed to the front-end.
type Command struct {
	// Name is the identifier the front-end invokes.
	Name string

	// Args is a zero value of the argument struct, used for Schema.
	Args any

	// Handle runs the command.
	Handle Handler

	// Messages render failures for display.
	Messages Messages
}

// Reply is the serialized outcome of Invoke.
type Reply struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Bridge holds the registered commands. It is safe for concurrent use.
type Bridge struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// New creates an empty Bridge.
func New() *Bridge {
	return &Bridge{commands: make(map[string]Command)}
}

// Register adds a command.
// Panics if the name is empty, the handler is nil, or the name is taken.
func (b *Bridge) Register(cmd Command) {
	if cmd.Name == "" {
		panic("bridge: command name is required")
	}
	if cmd.Handle == nil {
		panic(fmt.Sprintf("bridge: command %q has no handler", cmd.Name))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.commands[cmd.Name]; exists {
		panic(fmt.Sprintf("bridge: command %q already registered", cmd.Name))
	}
	b.commands[cmd.Name] = cmd
}

// Commands returns the registered command names, sorted alphabetically.
func (b *Bridge) Commands() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.commands))
	for name := range b.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the named command with args.
// The returned error keeps its type; use Message to render it.
func (b *Bridge) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	cmd, err := b.lookup(name)
	if err != nil {
		return nil, err
	}
	return cmd.Handle(ctx, args)
}

// Invoke runs the named command and renders the outcome as a Reply.
func (b *Bridge) Invoke(ctx context.Context, name string, args json.RawMessage) Reply {
	data, err := b.Dispatch(ctx, name, args)
	if err != nil {
		return Reply{Error: b.Message(name, err)}
	}
	return Reply{OK: true, Data: data}
}

// Message renders err, returned by the named command, for display.
func (b *Bridge) Message(name string, err error) string {
	if err == nil {
		return ""
	}
	cmd, lookupErr := b.lookup(name)
	if lookupErr != nil {
		return err.Error()
	}
	return cmd.Messages.Render(err)
}

// Schema returns the JSON Schema of the named command's arguments.
func (b *Bridge) Schema(name string) (*jsonschema.Schema, error) {
	cmd, err := b.lookup(name)
	if err != nil {
		return nil, err
	}

	args := cmd.Args
	if args == nil {
		args = struct{}{}
	}

	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := r.Reflect(args)
	schema.Title = cmd.Name
	return schema, nil
}

func (b *Bridge) lookup(name string) (Command, error) {
	b.mu.RLock()
	cmd, ok := b.commands[name]
	b.mu.RUnlock()

	if !ok {
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return cmd, nil
}

// decodeArgs decodes raw into T. Empty input and JSON null yield the zero value.
func decodeArgs[T any](raw json.RawMessage) (T, error) {
	var args T
	if len(raw) == 0 || string(raw) == "null" {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return args, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	return args, nil
}
