package quote

import "testing"

func TestOne_SafeValuesInsertedVerbatim(t *testing.T) {
	cases := []string{"file.txt", "/usr/bin/env", "a_b-c.d:e=f@g+h", "v1.2.3"}
	for _, s := range cases {
		if got := One(s, 0, 0); got != s {
			t.Errorf("One(%q) = %q, want verbatim", s, got)
		}
	}
}

func TestOne_DangerousValuesAreQuoted(t *testing.T) {
	cases := []string{"a b", "$(whoami)", "a;b", "a|b", "a&&b", "a`b`", "a<b>c", "a\nb"}
	for _, s := range cases {
		got := One(s, 0, 0)
		if got == s {
			t.Errorf("One(%q) returned value verbatim, want quoted", s)
		}
	}
}

func TestOne_SingleQuoteEscaping(t *testing.T) {
	got := One("it's", 0, 0)
	want := `'it'\''s'`
	if got != want {
		t.Errorf("One(%q) = %q, want %q", "it's", got, want)
	}
}

func TestOne_RawInsertedVerbatim(t *testing.T) {
	got := One(Raw("$(date)"), 0, 0)
	if got != "$(date)" {
		t.Errorf("Raw value was not inserted verbatim: %q", got)
	}
}

func TestOne_PreQuotedByCallerNotDoubleWrapped(t *testing.T) {
	got := One("a b", '"', '"')
	if got != "a b" {
		t.Errorf("pre-quoted value should be inserted verbatim, got %q", got)
	}
}

func TestOne_SequenceJoinedBySpace(t *testing.T) {
	got := One([]string{"a", "b c"}, 0, 0)
	want := "a 'b c'"
	if got != want {
		t.Errorf("One(seq) = %q, want %q", got, want)
	}
}

func TestOne_NilAndEmpty(t *testing.T) {
	if got := One(nil, 0, 0); got != "''" {
		t.Errorf("One(nil) = %q, want ''", got)
	}
	if got := One("", 0, 0); got != "''" {
		t.Errorf("One(\"\") = %q, want ''", got)
	}
}

func TestOne_JSONDocumentDoubleQuoted(t *testing.T) {
	got := One(`{"a":"b"}`, 0, 0)
	want := `"{\"a\":\"b\"}"`
	if got != want {
		t.Errorf("One(json) = %q, want %q", got, want)
	}
}

func TestOne_AlreadyWrappedRewrapsOppositeStyle(t *testing.T) {
	got := One(`'already quoted'`, 0, 0)
	want := `"already quoted"`
	if got != want {
		t.Errorf("One(wrapped) = %q, want %q", got, want)
	}
}

func TestOne_NumbersAndBooleans(t *testing.T) {
	if got := One(42, 0, 0); got != "42" {
		t.Errorf("One(42) = %q", got)
	}
	if got := One(true, 0, 0); got != "true" {
		t.Errorf("One(true) = %q", got)
	}
}
