// Package shsyntax implements the minimal shell parser this library
// needs: just enough grammar to recognize pipes, conditional chains,
// sequencing, subshells and redirections at the command-string
// boundary. It deliberately does not attempt full POSIX/Bash grammar;
// command strings that need more are classified as needing a real
// shell (see Classify) and handed to /bin/sh -c by the caller.
package shsyntax

// Node is any element of the parsed command tree.
type Node interface{ node() }

// Command is a single program invocation: a name, its arguments, and
// any redirections attached directly to it.
type Command struct {
	Name         string
	Args         []string
	Redirections []Redirection
}

func (*Command) node() {}

// Pipeline is an ordered list of Commands whose stdout feeds the next
// stage's stdin.
type Pipeline struct {
	Stages []*Command
}

func (*Pipeline) node() {}

// SeqOp is the operator joining two elements of a Sequence.
type SeqOp int

const (
	// OpSeq is bash ';': always run the right side.
	OpSeq SeqOp = iota
	// OpAnd is bash '&&': run the right side only if the left succeeded.
	OpAnd
	// OpOr is bash '||': run the right side only if the left failed.
	OpOr
)

// SeqPart pairs a pipeline-or-subshell element with the operator that
// preceded it (ignored for the first element).
type SeqPart struct {
	Op   SeqOp
	Node Node // *Pipeline or *Subshell
}

// Sequence is an ordered list of elements joined by ';', '&&' or '||'.
type Sequence struct {
	Parts []SeqPart
}

func (*Sequence) node() {}

// Subshell is an isolated Sequence: cd/env mutations inside it never
// leak into the parent scope.
type Subshell struct {
	Body *Sequence
}

func (*Subshell) node() {}

// RedirKind identifies the direction/mode of a Redirection.
type RedirKind int

const (
	RedirOutTrunc  RedirKind = iota // > file
	RedirOutAppend                  // >> file
	RedirIn                         // < file
	RedirErrTrunc                   // 2> file
	RedirErrAppend                  // 2>> file
	RedirErrToOut                   // 2>&1
	RedirBoth                       // &> file
	RedirHeredoc                    // << TAG ... TAG
)

// Redirection describes one I/O redirection attached to a Command.
type Redirection struct {
	Kind       RedirKind
	Target     string // file path, empty for RedirErrToOut
	HeredocTag string
	HeredocRaw bool // tag was quoted: disable expansion inside body (no-op for us: we never expand)
	Body       string
}

// ParseError reports that the command string could not be parsed by
// the minimal grammar (unbalanced quotes, unterminated heredoc, ...).
// Per spec, this is not surfaced to the caller as a failure by itself:
// the interpreter falls back to a real shell, and only the real
// shell's own failure becomes user-visible.
type ParseError struct {
	Msg string
	Pos int
}

func (e *ParseError) Error() string { return e.Msg }
