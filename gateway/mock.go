package gateway

import (
	"context"
	"sync"
)

// MockInvoker is a test double for Invoker.
// It supports a fixed output, sequential outputs, a fixed error, and a custom handler.
type MockInvoker struct {
	mu         sync.Mutex
	outputs    []string
	outputIdx  int
	err        error
	invokeFunc func(ctx context.Context, spec CommandSpec) (*Result, error)

	// Calls tracks all specs for assertions.
	Calls []CommandSpec
}

// NewMockInvoker creates a mock whose child always succeeds with output.
func NewMockInvoker(output string) *MockInvoker {
	return &MockInvoker{outputs: []string{output}}
}

// WithOutputs configures sequential outputs, cycling after the last one.
func (m *MockInvoker) WithOutputs(outputs ...string) *MockInvoker {
	m.outputs = outputs
	return m
}

// WithError configures the mock to always fail with err.
func (m *MockInvoker) WithError(err error) *MockInvoker {
	m.err = err
	return m
}

// WithInvokeFunc sets a custom handler. It takes precedence over outputs and errors.
func (m *MockInvoker) WithInvokeFunc(fn func(ctx context.Context, spec CommandSpec) (*Result, error)) *MockInvoker {
	m.invokeFunc = fn
	return m
}

// Invoke implements Invoker.
func (m *MockInvoker) Invoke(ctx context.Context, spec CommandSpec) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, spec)

	if m.invokeFunc != nil {
		return m.invokeFunc(ctx, spec)
	}
	if m.err != nil {
		return nil, m.err
	}

	var out string
	if len(m.outputs) > 0 {
		out = m.outputs[m.outputIdx%len(m.outputs)]
		m.outputIdx++
	}

	candidate := ""
	if len(spec.Candidates) > 0 {
		candidate = spec.Candidates[0]
	}
	return &Result{
		Candidate: candidate,
		Output:    out,
		Stdout:    []byte(out),
	}, nil
}

// LastCall returns the most recent spec, or false if Invoke was never called.
func (m *MockInvoker) LastCall() (CommandSpec, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Calls) == 0 {
		return CommandSpec{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}

// Reset clears recorded calls and rewinds sequential outputs.
func (m *MockInvoker) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = nil
	m.outputIdx = 0
}

var _ Invoker = (*Gateway)(nil)
var _ Invoker = (*MockInvoker)(nil)
