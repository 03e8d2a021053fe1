package gateway

import (
	"errors"
	"sort"
	"strings"
)

// Errors reported when a CommandSpec cannot be used.
var (
	// ErrNoCandidates indicates the spec lists no executable to try.
	ErrNoCandidates = errors.New("no candidate executables")

	// ErrEmptyCandidate indicates a candidate name is blank.
	ErrEmptyCandidate = errors.New("empty candidate executable name")
)

// CommandSpec describes a single external-process invocation.
// It is passed by value and never modified by Invoke.
type CommandSpec struct {
	// Candidates are executable names or paths, tried in order until one spawns.
	Candidates []string

	// Args is the argument vector passed after the executable name.
	Args []string

	// Env overrides variables of the base environment.
	// A key that already exists in the base environment is replaced.
	Env map[string]string

	// Input is written to the child's stdin, which is then closed.
	// A nil Input leaves stdin unconnected; an empty non-nil Input
	// opens stdin and closes it immediately.
	Input []byte

	// Dir is the working directory of the child. Empty means the
	// host's current directory.
	Dir string
}

// HasInput reports whether the spec carries a stdin payload.
func (s CommandSpec) HasInput() bool {
	return s.Input != nil
}

// Validate checks that the spec names at least one usable candidate.
func (s CommandSpec) Validate() error {
	if len(s.Candidates) == 0 {
		return ErrNoCandidates
	}
	for _, c := range s.Candidates {
		if strings.TrimSpace(c) == "" {
			return ErrEmptyCandidate
		}
	}
	return nil
}

// buildEnv merges the overrides onto base. Overrides are applied in key
// order so the result is deterministic.
func (s CommandSpec) buildEnv(base []string) []string {
	env := make([]string, len(base), len(base)+len(s.Env))
	copy(env, base)

	keys := make([]string, 0, len(s.Env))
	for k := range s.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		env = setEnvVar(env, k, s.Env[k])
	}
	return env
}

// setEnvVar sets or replaces an environment variable in the env slice.
func setEnvVar(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
