// Package quote classifies interpolated values and renders them as
// shell-safe fragments.
//
// It is a pure, dependency-free layer: no execution, no I/O. Given a
// value and (optionally) the characters immediately flanking its
// placeholder in the surrounding template, it returns exactly one
// string fragment to splice into a command. The policy is fixed and
// total — every input has exactly one rendering, chosen by the rules
// below, checked in order.
package quote

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// safeRegex matches values that need no quoting at all.
var safeRegex = regexp.MustCompile(`^[A-Za-z0-9_./:=@%+-]+$`)

// Value is the sentinel wrapper produced by Raw. A Raw value is spliced
// into the command string verbatim, bypassing every other rule.
type Value struct {
	raw string
}

// Raw marks s so the quoter inserts it verbatim, with no escaping or
// wrapping of any kind. Callers are responsible for its safety.
func Raw(s string) Value { return Value{raw: s} }

// IsRaw reports whether v was produced by Raw.
func IsRaw(v any) (string, bool) {
	if rv, ok := v.(Value); ok {
		return rv.raw, true
	}
	return "", false
}

// One renders a single interpolated value, given the characters
// immediately before (pre) and after (post) its placeholder in the
// literal template text. Pass 0 for pre/post when there is no
// surrounding template (e.g. direct calls from Quote).
func One(v any, pre, post rune) string {
	if rv, ok := v.(Value); ok {
		return rv.raw
	}

	switch v.(type) {
	case nil:
		return "''"
	}

	// A user-supplied pair of matching quotes immediately flanking the
	// placeholder means the value is already wrapped; insert verbatim so
	// we never double-wrap.
	if (pre == '"' && post == '"') || (pre == '\'' && post == '\'') {
		return stringify(v)
	}

	if seq, ok := asSequence(v); ok {
		parts := make([]string, len(seq))
		for i, e := range seq {
			parts[i] = One(e, 0, 0)
		}
		return strings.Join(parts, " ")
	}

	s := stringify(v)

	if s == "" {
		return "''"
	}

	if safeRegex.MatchString(s) && !strings.ContainsAny(s, " \t\n") {
		return s
	}

	if wrapped, quoteCh, ok := fullyWrapped(s); ok {
		// Already fully quoted by the caller; re-wrap in the opposite
		// quote style so the result round-trips through a real shell.
		opposite := byte('"')
		if quoteCh == '"' {
			opposite = '\''
		}
		return rewrap(wrapped, quoteCh, opposite)
	}

	if looksLikeJSON(s) {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}

	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Quote renders v with no surrounding template context (form used by
// the public Quote(v) entry point).
func Quote(v any) string { return One(v, 0, 0) }

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// asSequence reports whether v is an ordered sequence of values, in
// which case each element is quoted independently and joined by a
// single space.
func asSequence(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	case []int:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// fullyWrapped reports whether s is wholly enclosed in a single matching
// pair of quote characters (and is at least two characters long).
func fullyWrapped(s string) (inner string, quoteCh byte, ok bool) {
	if len(s) < 2 {
		return "", 0, false
	}
	first, last := s[0], s[len(s)-1]
	if (first == '\'' || first == '"') && first == last {
		return s[1 : len(s)-1], first, true
	}
	return "", 0, false
}

// rewrap re-encodes inner (previously wrapped in fromQuote) using
// toQuote as the new delimiter, escaping any embedded toQuote chars.
func rewrap(inner string, fromQuote byte, toQuote byte) string {
	_ = fromQuote
	escaped := strings.ReplaceAll(inner, string(toQuote), `\`+string(toQuote))
	return string(toQuote) + escaped + string(toQuote)
}

// looksLikeJSON reports whether s parses as a complete JSON document
// whose outermost form is an object or array.
func looksLikeJSON(s string) bool {
	t := strings.TrimSpace(s)
	if len(t) == 0 {
		return false
	}
	if t[0] != '{' && t[0] != '[' {
		return false
	}
	var js json.RawMessage
	return json.Unmarshal([]byte(t), &js) == nil
}
