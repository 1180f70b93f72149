package interp

import (
	"context"
	"io"

	"github.com/zshrun/zshrun/internal/runner"
	"github.com/zshrun/zshrun/pkg/shsyntax"
)

// NewExecutor returns a runner.Executor that evaluates src as a full
// command string: parses it, falls back to the real shell for
// constructs outside the minimal grammar (spec.md §4.2), and
// otherwise walks the AST applying &&/||/; and pipeline semantics
// (spec.md §4.6). ic is captured by reference; its Cwd is mutated by
// top-level `cd`.
func NewExecutor(src string, ic *Context) runner.Executor {
	return func(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) (int, string, error) {
		class := shsyntax.Classify(src)
		if class.NeedsRealShell {
			return execRealShell(ctx, src, ic, stdin, stdout, stderr)
		}

		seq, err := shsyntax.Parse(src)
		if err != nil {
			return execRealShell(ctx, src, ic, stdin, stdout, stderr)
		}

		code, sig, err := execSequence(ctx, seq, ic, stdin, stdout, stderr)
		return code, sig, err
	}
}
