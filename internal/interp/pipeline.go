package interp

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/zshrun/zshrun/internal/settings"
	"github.com/zshrun/zshrun/pkg/shsyntax"
)

// execSequence evaluates a `;`/`&&`/`||`-joined chain of pipelines and
// subshells (spec.md §4.6 "Conditional"/"Sequence"). The overall code
// is the last part actually executed.
func execSequence(ctx context.Context, seq *shsyntax.Sequence, ic *Context, stdin io.Reader, stdout, stderr io.Writer) (int, string, error) {
	var code int
	var signal string
	ranFirst := false

	for _, part := range seq.Parts {
		if ranFirst {
			switch part.Op {
			case shsyntax.OpAnd:
				if code != 0 {
					continue
				}
			case shsyntax.OpOr:
				if code == 0 {
					continue
				}
			case shsyntax.OpSeq:
				// always runs
			}
		}
		ranFirst = true

		var err error
		code, signal, err = execSeqElement(ctx, part.Node, ic, stdin, stdout, stderr)
		if err != nil {
			return code, signal, err
		}
		if settings.Global.Errexit() && code != 0 {
			return code, signal, nil
		}
	}
	return code, signal, nil
}

func execSeqElement(ctx context.Context, node shsyntax.Node, ic *Context, stdin io.Reader, stdout, stderr io.Writer) (int, string, error) {
	switch n := node.(type) {
	case *shsyntax.Pipeline:
		return execPipeline(ctx, n, ic, stdin, stdout, stderr)
	case *shsyntax.Subshell:
		inner := ic.Clone()
		return execSequence(ctx, n.Body, inner, stdin, stdout, stderr)
	default:
		return 1, "", nil
	}
}

// execPipeline wires each stage's stdout to the next stage's stdin
// via io.Pipe and runs every stage concurrently (errgroup), matching
// real shell backpressure instead of buffering the whole pipeline.
// Completion code is the last stage's unless pipefail is set, in
// which case it is the first non-zero from left to right.
func execPipeline(ctx context.Context, pipe *shsyntax.Pipeline, ic *Context, stdin io.Reader, stdout, stderr io.Writer) (int, string, error) {
	n := len(pipe.Stages)
	if n == 1 {
		return execCommand(ctx, pipe.Stages[0], ic, stdin, stdout, stderr)
	}

	stageIn := make([]io.Reader, n)
	stageOut := make([]io.Writer, n)
	var pipeWriters []*io.PipeWriter

	stageIn[0] = stdin
	for i := 0; i < n-1; i++ {
		pr, pw := io.Pipe()
		stageOut[i] = pw
		stageIn[i+1] = pr
		pipeWriters = append(pipeWriters, pw)
	}
	stageOut[n-1] = stdout

	codes := make([]int, n)
	signals := make([]string, n)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		stage := pipe.Stages[i]
		g.Go(func() error {
			if i > 0 {
				defer func() {
					if rc, ok := stageIn[i].(io.Closer); ok {
						rc.Close()
					}
				}()
			}
			c, s, err := execCommand(gctx, stage, ic, stageIn[i], stageOut[i], stderr)
			codes[i] = c
			signals[i] = s
			if i < n-1 {
				pipeWriters[i].Close()
			}
			return err
		})
	}
	err := g.Wait()
	if err != nil {
		return 1, "", err
	}

	if settings.Global.Pipefail() {
		for i := 0; i < n; i++ {
			if codes[i] != 0 {
				return codes[i], signals[i], nil
			}
		}
		return 0, "", nil
	}
	return codes[n-1], signals[n-1], nil
}
