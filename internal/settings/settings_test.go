package settings

import "testing"

func TestSetUnsetRecognizesShortAndLongNames(t *testing.T) {
	s := &Settings{}
	if err := s.Set("e"); err != nil {
		t.Fatal(err)
	}
	if !s.Errexit() {
		t.Error("expected errexit true after Set(e)")
	}
	if err := s.Unset("errexit"); err != nil {
		t.Fatal(err)
	}
	if s.Errexit() {
		t.Error("expected errexit false after Unset(errexit)")
	}
}

func TestSetUnknownOptionErrors(t *testing.T) {
	s := &Settings{}
	if err := s.Set("bogus"); err == nil {
		t.Error("expected error for unknown option")
	}
}

func TestResetClearsAllFlags(t *testing.T) {
	s := &Settings{}
	s.SetErrexit(true)
	s.SetXtrace(true)
	s.Reset()
	snap := s.Snapshot()
	if snap.Errexit || snap.Xtrace {
		t.Errorf("Reset left flags set: %+v", snap)
	}
}

func TestTraceReflectsXtraceOverVerbose(t *testing.T) {
	s := &Settings{}
	s.SetVerbose(true)
	s.SetXtrace(true)
	line, emit := s.Trace("echo hi")
	if !emit || line != "+ echo hi" {
		t.Errorf("Trace = %q, %v", line, emit)
	}
}

func TestTraceSilentWhenNeitherSet(t *testing.T) {
	s := &Settings{}
	_, emit := s.Trace("echo hi")
	if emit {
		t.Error("expected no trace line when verbose/xtrace both off")
	}
}
