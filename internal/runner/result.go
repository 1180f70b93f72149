package runner

import "strings"

// Captured is a capture-gated byte slice: Present distinguishes "no
// output" from "capture was disabled", mirroring the spec's
// string|buffer|undefined field (spec.md §3 Result record).
type Captured struct {
	Bytes   []byte
	Present bool
}

func present(b []byte) Captured { return Captured{Bytes: b, Present: true} }

// String returns the captured bytes as a string, or "" when absent.
func (c Captured) String() string {
	if !c.Present {
		return ""
	}
	return string(c.Bytes)
}

// Result is a runner's terminal outcome (spec.md §3 Result record).
type Result struct {
	Code    int
	Stdout  Captured
	Stderr  Captured
	Stdin   Captured
	Signal  string
	Failed  bool
	Killed  bool
	Command string
	Child   any
}

// ExitCode is an alias of Code (spec.md: "exitCode===code").
func (r *Result) ExitCode() int { return r.Code }

// Text returns the captured stdout as a string, trimming a single
// trailing newline the way command substitution does.
func (r *Result) Text() string {
	return strings.TrimSuffix(r.Stdout.String(), "\n")
}

// signalCode maps a terminating signal name to the shell's
// 128+signal-number convention (spec.md §3, §5): SIGINT->130,
// SIGTERM->143, SIGKILL->137. Any other name yields 1; finish keeps
// the executor's own code in that case.
func signalCode(signal string) int {
	switch signal {
	case "SIGINT":
		return 130
	case "SIGTERM":
		return 143
	case "SIGKILL":
		return 137
	default:
		return 1
	}
}
