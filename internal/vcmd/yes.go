package vcmd

import (
	"context"
	"strings"
)

// yesStreamHandler implements `yes [string]`: an unbounded stream of
// the argument (default "y") followed by a newline, repeated until
// ctx is cancelled. Selecting on ctx.Done() alongside every send keeps the
// cancel-to-stop latency well under spec.md's 200ms target.
func yesStreamHandler(ctx context.Context, call *Call) <-chan Chunk {
	word := "y"
	if len(call.Args) > 0 {
		word = strings.Join(call.Args, " ")
	}
	line := []byte(word + "\n")

	out := make(chan Chunk)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case out <- Chunk{Type: ChunkStdout, Data: line}:
			}
		}
	}()
	return out
}
