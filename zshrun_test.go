package zshrun

import (
	"strings"
	"testing"
)

func TestInterpolateQuotesDangerousValue(t *testing.T) {
	got := interpolate("echo %s", []any{"hi; rm -rf /"})
	if !strings.Contains(got, "'hi; rm -rf /'") {
		t.Errorf("interpolate = %q, expected single-quoted dangerous value", got)
	}
}

func TestInterpolateRawInsertsVerbatim(t *testing.T) {
	got := interpolate("echo %s", []any{Raw("$(date)")})
	if got != "echo $(date)" {
		t.Errorf("interpolate with Raw = %q", got)
	}
}

func TestInterpolatePreservesCallerQuotes(t *testing.T) {
	got := interpolate(`echo "%s"`, []any{"hello world"})
	if strings.Count(got, `"`) != 2 {
		t.Errorf("interpolate double-wrapped: %q", got)
	}
}

func TestShRunsPipelineAndCaptures(t *testing.T) {
	r := Sh("echo hello | grep hello")
	res, err := r.Wait()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Stdout.String(), "hello") {
		t.Errorf("stdout = %q", res.Stdout.String())
	}
	if res.Code != 0 {
		t.Errorf("code = %d", res.Code)
	}
}

func TestCmdQuotesInterpolatedArgument(t *testing.T) {
	r := Cmd("echo %s", "two words")
	res, err := r.Wait()
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(res.Stdout.String()) != "two words" {
		t.Errorf("stdout = %q", res.Stdout.String())
	}
}

func TestQuoteExposesArgumentQuoter(t *testing.T) {
	if Quote("a b") != "'a b'" {
		t.Errorf("Quote(%q) = %q", "a b", Quote("a b"))
	}
}
