// Package vcmd implements the virtual command registry (spec.md C3)
// and the default built-in command set (C4): host-implemented
// handlers that participate in pipelines indistinguishably from
// external processes.
package vcmd

import (
	"context"
	"io"
)

// Chunk is a tagged byte slice produced by a streaming handler.
type Chunk struct {
	Type string // "stdout" or "stderr"
	Data []byte
}

const (
	ChunkStdout = "stdout"
	ChunkStderr = "stderr"
)

// Call carries everything a handler needs to run once.
type Call struct {
	Args  []string
	Stdin io.Reader
	Env   map[string]string
	Cwd   string
}

// Result is a built-in's synchronous outcome.
type Result struct {
	Stdout []byte
	Stderr []byte
	Code   int
	// NewCwd is set by `cd` to thread an updated logical working
	// directory into subsequent commands of the same Sequence
	// (spec.md §4.6 "cd"). Every other built-in leaves this nil.
	NewCwd *string
}

// Handler is a non-streaming virtual command: it runs to completion
// and returns one Result.
type Handler func(ctx context.Context, call *Call) (Result, error)

// StreamHandler is a streaming virtual command (e.g. `yes`): it emits
// chunks on the returned channel until the command's natural end or
// ctx is cancelled, at which point the channel is closed. Cancellation
// must be observed within spec.md's 200ms testable target.
type StreamHandler func(ctx context.Context, call *Call) <-chan Chunk

// Descriptor is what the registry stores per name.
type Descriptor struct {
	Invoke    Handler       // set when the command is non-streaming
	Streaming StreamHandler // set when the command streams
}

// IsStreaming reports whether this descriptor is a streaming handler.
func (d Descriptor) IsStreaming() bool { return d.Streaming != nil }
