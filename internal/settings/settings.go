// Package settings holds the process-global shell flags spec.md §4.8
// describes: errexit, pipefail, nounset, verbose, xtrace. A single
// process-wide record matches bash semantics; it is created at import
// time and can be reset explicitly by tests via Reset.
package settings

import (
	"fmt"
	"sync/atomic"

	"github.com/zshrun/zshrun/internal/tracelog"
)

// Settings is the process-global set of bash-compatible toggles.
type Settings struct {
	errexit  atomic.Bool
	pipefail atomic.Bool
	nounset  atomic.Bool
	verbose  atomic.Bool
	xtrace   atomic.Bool
}

// Global is the single process-wide settings record.
var Global = &Settings{}

func (s *Settings) Errexit() bool  { return s.errexit.Load() }
func (s *Settings) Pipefail() bool { return s.pipefail.Load() }
func (s *Settings) Nounset() bool  { return s.nounset.Load() }
func (s *Settings) Verbose() bool  { return s.verbose.Load() }
func (s *Settings) Xtrace() bool   { return s.xtrace.Load() }

func (s *Settings) SetErrexit(v bool)  { s.errexit.Store(v) }
func (s *Settings) SetPipefail(v bool) { s.pipefail.Store(v) }
func (s *Settings) SetNounset(v bool)  { s.nounset.Store(v) }
func (s *Settings) SetVerbose(v bool)  { s.verbose.Store(v) }
func (s *Settings) SetXtrace(v bool)   { s.xtrace.Store(v) }

// Snapshot is a read-only copy of the current flag values.
type Snapshot struct {
	Errexit, Pipefail, Nounset, Verbose, Xtrace bool
}

// Snapshot reads every flag atomically relative to each other's
// individual stores (not a single atomic transaction, matching bash's
// own lack of cross-flag atomicity).
func (s *Settings) Snapshot() Snapshot {
	return Snapshot{
		Errexit:  s.Errexit(),
		Pipefail: s.Pipefail(),
		Nounset:  s.Nounset(),
		Verbose:  s.Verbose(),
		Xtrace:   s.Xtrace(),
	}
}

// Reset clears every flag to its default (false). Intended for test
// isolation between cases that mutate the global record.
func (s *Settings) Reset() {
	s.SetErrexit(false)
	s.SetPipefail(false)
	s.SetNounset(false)
	s.SetVerbose(false)
	s.SetXtrace(false)
}

// Set recognizes bash-style short/long option names:
// e|errexit, v|verbose, x|xtrace, pipefail, nounset|u.
func (s *Settings) Set(opt string) error {
	return s.apply(opt, true)
}

// Unset is the inverse of Set.
func (s *Settings) Unset(opt string) error {
	return s.apply(opt, false)
}

func (s *Settings) apply(opt string, v bool) error {
	switch opt {
	case "e", "errexit":
		s.SetErrexit(v)
	case "v", "verbose":
		s.SetVerbose(v)
	case "x", "xtrace":
		s.SetXtrace(v)
	case "pipefail":
		s.SetPipefail(v)
	case "u", "nounset":
		s.SetNounset(v)
	default:
		return fmt.Errorf("settings: unknown option %q", opt)
	}
	return nil
}

// Trace returns the line the pipeline interpreter writes to the host's
// stderr before executing a command when verbose or xtrace is enabled
// (xtrace prefixes "+ "), and records that line in the trace ring.
// With both off it returns emit=false and records nothing.
func (s *Settings) Trace(cmdline string) (line string, emit bool) {
	switch {
	case s.Xtrace():
		line = "+ " + cmdline
	case s.Verbose():
		line = cmdline
	default:
		return "", false
	}
	tracelog.Global.Append(line)
	return line, true
}
