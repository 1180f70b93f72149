// Package interp is the pipeline / operator interpreter (spec.md C6):
// given a parsed command string, it builds an execution graph of
// virtual and real stages, wires pipes/redirections/subshells, and
// enforces bash-like errexit/pipefail exit-code selection.
package interp

import (
	"maps"
	"os"

	"github.com/zshrun/zshrun/internal/vcmd"
)

// defaultShellPath is the needs-real-shell fallback binary, read once
// at package init from ZSHRUN_SHELL (SPEC_FULL.md §1), the same
// "environment-variable defaults read once" shape internal/settings
// and the root package use for ambient configuration.
var defaultShellPath = "/bin/sh"

func init() {
	if v := os.Getenv("ZSHRUN_SHELL"); v != "" {
		defaultShellPath = v
	}
}

// Context is the mutable evaluation environment threaded through one
// top-level command string's execution: its Cwd is updated in place
// by a top-level `cd` (spec.md §4.6) and copied for Subshell bodies.
type Context struct {
	Cwd      string
	Env      map[string]string
	Registry *vcmd.Registry

	// RealShellPath is invoked for needs-real-shell spans and parser
	// fallback (default: defaultShellPath, i.e. ZSHRUN_SHELL or "/bin/sh").
	RealShellPath string
}

// Clone returns a Context with an independently-mutable Cwd/Env,
// used at Subshell boundaries so inner `cd`/env changes never leak
// (spec.md §4.6 "Subshell").
func (c *Context) Clone() *Context {
	return &Context{
		Cwd:           c.Cwd,
		Env:           maps.Clone(c.Env),
		Registry:      c.Registry,
		RealShellPath: c.RealShellPath,
	}
}

func (c *Context) shellPath() string {
	if c.RealShellPath == "" {
		return defaultShellPath
	}
	return c.RealShellPath
}
