package shsyntax

import (
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
	"mvdan.cc/sh/v3/syntax"
)

// Classification describes whether a command string needs the real
// shell, and why.
type Classification struct {
	NeedsRealShell bool
	Reason         string
}

var (
	classifyGroup singleflight.Group
	classifyCache sync.Map // string -> Classification
)

// Classify decides whether src contains syntax the minimal parser does
// not implement (compound statements, process substitution, brace
// expansion, array syntax, functions, heredocs, literal command
// substitution, variable expansion) per spec.md §4.2/§9. When it does,
// the interpreter hands the whole string to /bin/sh -c and virtual
// commands inside that span become unreachable — an accepted
// trade-off, not an error.
//
// Detection is delegated to mvdan.cc/sh/v3/syntax, which actually
// parses full Bash grammar; the minimal lexer/parser in this package
// only needs to recognize the subset spec.md's component table lists.
// Concurrent calls for the same src are coalesced via singleflight so
// classifying the same repeated command string under load only parses
// it once.
func Classify(src string) Classification {
	if v, ok := classifyCache.Load(src); ok {
		return v.(Classification)
	}
	v, _, _ := classifyGroup.Do(src, func() (any, error) {
		c := classify(src)
		classifyCache.Store(src, c)
		return c, nil
	})
	return v.(Classification)
}

func classify(src string) Classification {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(src), "")
	if err != nil {
		// The minimal parser handles the subset we support; if even the
		// full Bash grammar rejects it, there is nothing a real shell can
		// do either, but we still prefer to let /bin/sh report the error
		// verbatim (spec.md §7: parse-error -> real-shell fallback, and
		// only its own failure is surfaced).
		return Classification{true, "unparsable by full shell grammar: " + err.Error()}
	}

	// Walking the real grammar (rather than scanning bytes) means a
	// literal '$(...)' or '`...`' sitting inside single-quoted data —
	// exactly what the quoter in pkg/quote produces for an interpolated
	// value — is correctly seen as inert text, not as a node requiring
	// expansion. Only constructs the minimal parser truly cannot express
	// trip the fallback.
	needs := false
	reason := ""
	syntax.Walk(file, func(node syntax.Node) bool {
		if needs {
			return false
		}
		switch n := node.(type) {
		case *syntax.ForClause:
			needs, reason = true, "for loop"
		case *syntax.WhileClause:
			needs, reason = true, "while loop"
		case *syntax.IfClause:
			needs, reason = true, "if statement"
		case *syntax.CaseClause:
			needs, reason = true, "case statement"
		case *syntax.FuncDecl:
			needs, reason = true, "function declaration"
		case *syntax.ArithmCmd, *syntax.ArithmExp:
			needs, reason = true, "arithmetic expansion"
		case *syntax.ArrayExpr:
			needs, reason = true, "array syntax"
		case *syntax.ExtGlob:
			needs, reason = true, "extended glob"
		case *syntax.ProcSubst:
			needs, reason = true, "process substitution"
		case *syntax.CmdSubst:
			needs, reason = true, "command substitution"
		case *syntax.ParamExp:
			needs, reason = true, "parameter expansion"
		case *syntax.Redirect:
			if n.Hdoc != nil {
				needs, reason = true, "heredoc"
			}
		case *syntax.Word:
			if syntax.SplitBraces(n) {
				needs, reason = true, "brace expansion"
			}
		}
		return !needs
	})
	if needs {
		return Classification{true, reason}
	}
	return Classification{false, ""}
}
