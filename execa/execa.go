// Package execa is a thin execa-compatibility adapter (spec.md §1
// Non-goals: "the execa-compatibility surface (it is a thin adapter
// over the core)"; §4.9: "An execa-compatible adapter re-exports the
// same semantics with a canonical result shape expected by callers
// coming from that ecosystem"). It is not part of the core engine.
package execa

import "github.com/zshrun/zshrun"

// Result mirrors the subset of execa's result shape this adapter
// supports: stdout/stderr as strings, the exit code, and the failure
// flags execa callers typically branch on.
type Result struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Failed   bool
	Killed   bool
	Signal   string
}

// Command runs file with args through zshrun.Exec, execa's
// `execa(file, args)` form. Each argument is quoted and the joined
// string is then parsed like any other command string, so an argument
// that is itself wrapped in quotes arrives re-quoted, not untouched.
func Command(file string, args []string, opts ...zshrun.Options) (*Result, error) {
	r := zshrun.Exec(file, args, opts...)
	res, err := r.Wait()
	if res == nil {
		return nil, err
	}
	return &Result{
		Command:  res.Command,
		ExitCode: res.Code,
		Stdout:   res.Stdout.String(),
		Stderr:   res.Stderr.String(),
		Failed:   res.Failed,
		Killed:   res.Killed,
		Signal:   res.Signal,
	}, err
}

// CommandSync is Command under execa's synchronous naming.
func CommandSync(file string, args []string, opts ...zshrun.Options) (*Result, error) {
	return Command(file, args, opts...)
}
