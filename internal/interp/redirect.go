package interp

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zshrun/zshrun/pkg/shsyntax"
)

// ioSet is the (stdin, stdout, stderr) triple a single command stage
// runs with, after redirections have been applied. close releases any
// files opened along the way.
type ioSet struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	closers []io.Closer
}

func (s *ioSet) close() {
	for _, c := range s.closers {
		c.Close()
	}
}

// applyRedirections layers cmd.Redirections over the base triple.
// Redirection only changes byte routing; it never affects the
// errexit/pipefail code-selection logic applied by the caller
// (spec.md §9 invariant).
func applyRedirections(cwd string, redirs []shsyntax.Redirection, stdin io.Reader, stdout, stderr io.Writer) (*ioSet, error) {
	s := &ioSet{stdin: stdin, stdout: stdout, stderr: stderr}

	mergeErrToOut := false
	for _, r := range redirs {
		switch r.Kind {
		case shsyntax.RedirOutTrunc:
			f, err := openTrunc(resolve(cwd, r.Target))
			if err != nil {
				s.close()
				return nil, err
			}
			s.closers = append(s.closers, f)
			s.stdout = f
		case shsyntax.RedirOutAppend:
			f, err := openAppend(resolve(cwd, r.Target))
			if err != nil {
				s.close()
				return nil, err
			}
			s.closers = append(s.closers, f)
			s.stdout = f
		case shsyntax.RedirIn:
			f, err := os.Open(resolve(cwd, r.Target))
			if err != nil {
				s.close()
				return nil, err
			}
			s.closers = append(s.closers, f)
			s.stdin = f
		case shsyntax.RedirErrTrunc:
			f, err := openTrunc(resolve(cwd, r.Target))
			if err != nil {
				s.close()
				return nil, err
			}
			s.closers = append(s.closers, f)
			s.stderr = f
		case shsyntax.RedirErrAppend:
			f, err := openAppend(resolve(cwd, r.Target))
			if err != nil {
				s.close()
				return nil, err
			}
			s.closers = append(s.closers, f)
			s.stderr = f
		case shsyntax.RedirErrToOut:
			mergeErrToOut = true
		case shsyntax.RedirBoth:
			f, err := openTrunc(resolve(cwd, r.Target))
			if err != nil {
				s.close()
				return nil, err
			}
			s.closers = append(s.closers, f)
			s.stdout = f
			s.stderr = f
		case shsyntax.RedirHeredoc:
			s.stdin = strings.NewReader(r.Body)
		default:
			return nil, fmt.Errorf("interp: unsupported redirection kind %v", r.Kind)
		}
	}
	// 2>&1 is applied last so it picks up any preceding `>`/`>>` target.
	if mergeErrToOut {
		s.stderr = s.stdout
	}
	return s, nil
}

func resolve(cwd, path string) string {
	if path == "" || path[0] == '/' {
		return path
	}
	return cwd + "/" + path
}

func openTrunc(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
