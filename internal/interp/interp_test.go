package interp

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/zshrun/zshrun/internal/settings"
	"github.com/zshrun/zshrun/internal/vcmd"
	"github.com/zshrun/zshrun/pkg/shsyntax"
)

func newTestContext(cwd string) *Context {
	return &Context{Cwd: cwd, Env: map[string]string{"HOME": "/root"}, Registry: vcmd.Default()}
}

func run(t *testing.T, src string, ic *Context) (string, string, int) {
	t.Helper()
	seq, err := shsyntax.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	var stdout, stderr bytes.Buffer
	code, _, err := execSequence(context.Background(), seq, ic, strings.NewReader(""), &stdout, &stderr)
	if err != nil {
		t.Fatalf("exec %q: %v", src, err)
	}
	return stdout.String(), stderr.String(), code
}

func TestPipelineThreeStages(t *testing.T) {
	out, _, code := run(t, "echo hello world | grep hello | wc -l", newTestContext("/"))
	if code != 0 {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(out, "1") {
		t.Errorf("wc output = %q", out)
	}
}

func TestConditionalAndShortCircuits(t *testing.T) {
	out, _, code := run(t, "false && echo should-not-print", newTestContext("/"))
	if code == 0 {
		t.Errorf("expected non-zero code from false")
	}
	if strings.Contains(out, "should-not-print") {
		t.Error("&& did not short-circuit")
	}
}

func TestConditionalOrRunsOnFailure(t *testing.T) {
	out, _, code := run(t, "false || echo recovered", newTestContext("/"))
	if code != 0 {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(out, "recovered") {
		t.Errorf("expected || branch to run, got %q", out)
	}
}

func TestSequenceCdPropagatesWithinSequence(t *testing.T) {
	ic := newTestContext("/tmp")
	out, _, _ := run(t, "cd / && pwd", ic)
	if strings.TrimSpace(out) != "/" {
		t.Errorf("pwd after cd = %q", out)
	}
	if ic.Cwd != "/" {
		t.Errorf("context cwd not updated: %q", ic.Cwd)
	}
}

func TestSubshellCdDoesNotLeak(t *testing.T) {
	ic := newTestContext("/tmp")
	run(t, "(cd / && pwd)", ic)
	if ic.Cwd != "/tmp" {
		t.Errorf("subshell cd leaked into parent context: %q", ic.Cwd)
	}
}

func TestPipefailSelectsFirstNonZero(t *testing.T) {
	ic := newTestContext("/")
	settings.Global.SetPipefail(true)
	defer settings.Global.Reset()

	_, _, code := run(t, "false | true", ic)
	if code != 1 {
		t.Errorf("pipefail code = %d, want 1", code)
	}
}

func TestWithoutPipefailUsesLastStage(t *testing.T) {
	ic := newTestContext("/")
	_, _, code := run(t, "false | true", ic)
	if code != 0 {
		t.Errorf("non-pipefail code = %d, want 0", code)
	}
}
