package vcmd

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

func readAllArgsOrStdin(call *Call) ([]byte, error) {
	if len(call.Args) == 0 {
		if call.Stdin == nil {
			return nil, nil
		}
		return io.ReadAll(call.Stdin)
	}
	var buf bytes.Buffer
	for _, name := range call.Args {
		f, err := os.Open(resolvePath(call.Cwd, name))
		if err != nil {
			return nil, fmt.Errorf("%s: No such file or directory", name)
		}
		if _, err := io.Copy(&buf, f); err != nil {
			f.Close()
			return nil, err
		}
		f.Close()
	}
	return buf.Bytes(), nil
}

func resolvePath(cwd, p string) string {
	if p == "" || p[0] == '/' {
		return p
	}
	return cwd + "/" + p
}

// echoHandler implements `echo [-n] [-e] args...`.
func echoHandler(_ context.Context, call *Call) (Result, error) {
	noNewline := false
	interpret := false
	args := call.Args
	for len(args) > 0 {
		switch args[0] {
		case "-n":
			noNewline = true
		case "-e":
			interpret = true
		case "-ne", "-en":
			noNewline = true
			interpret = true
		default:
			goto done
		}
		args = args[1:]
	}
done:
	text := strings.Join(args, " ")
	if interpret {
		text = interpretEscapes(text)
	}
	if !noNewline {
		text += "\n"
	}
	return Result{Stdout: []byte(text)}, nil
}

func interpretEscapes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// catHandler implements `cat file...` (or stdin with no args).
func catHandler(_ context.Context, call *Call) (Result, error) {
	data, err := readAllArgsOrStdin(call)
	if err != nil {
		return Result{Stderr: []byte("cat: " + err.Error() + "\n"), Code: 1}, nil
	}
	return Result{Stdout: data}, nil
}

// headHandler implements `head [-n N | -N] [file]`, default N=10.
func headHandler(_ context.Context, call *Call) (Result, error) {
	return headTail(call, true)
}

// tailHandler implements `tail [-n N | -N] [file]`, default N=10.
func tailHandler(_ context.Context, call *Call) (Result, error) {
	return headTail(call, false)
}

func headTail(call *Call, fromStart bool) (Result, error) {
	n := 10
	args := make([]string, 0, len(call.Args))
	for i := 0; i < len(call.Args); i++ {
		a := call.Args[i]
		switch {
		case a == "-n" && i+1 < len(call.Args):
			v, err := strconv.Atoi(call.Args[i+1])
			if err != nil {
				return Result{Stderr: []byte("head: invalid number of lines\n"), Code: 1}, nil
			}
			n = v
			i++
		case strings.HasPrefix(a, "-") && len(a) > 1 && isAllDigits(a[1:]):
			v, _ := strconv.Atoi(a[1:])
			n = v
		default:
			args = append(args, a)
		}
	}
	data, err := readAllArgsOrStdin(&Call{Args: args, Stdin: call.Stdin, Cwd: call.Cwd, Env: call.Env})
	if err != nil {
		name := "head"
		if !fromStart {
			name = "tail"
		}
		return Result{Stderr: []byte(name + ": " + err.Error() + "\n"), Code: 1}, nil
	}
	lines := splitKeepEmpty(string(data))
	if fromStart {
		if n < len(lines) {
			lines = lines[:n]
		}
	} else {
		if n < len(lines) {
			lines = lines[len(lines)-n:]
		}
	}
	return Result{Stdout: []byte(strings.Join(lines, "\n"))}, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func splitKeepEmpty(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// sortHandler implements `sort [-r] [-u] [file]`.
func sortHandler(_ context.Context, call *Call) (Result, error) {
	reverse, unique := false, false
	var files []string
	for _, a := range call.Args {
		switch a {
		case "-r":
			reverse = true
		case "-u":
			unique = true
		case "-ru", "-ur":
			reverse, unique = true, true
		default:
			files = append(files, a)
		}
	}
	data, err := readAllArgsOrStdin(&Call{Args: files, Stdin: call.Stdin, Cwd: call.Cwd})
	if err != nil {
		return Result{Stderr: []byte("sort: " + err.Error() + "\n"), Code: 1}, nil
	}
	lines := splitKeepEmpty(string(data))
	sort.Strings(lines)
	if reverse {
		for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
			lines[i], lines[j] = lines[j], lines[i]
		}
	}
	if unique {
		lines = dedupAdjacent(lines)
	}
	return Result{Stdout: []byte(strings.Join(lines, "\n") + trailingNewline(lines))}, nil
}

func trailingNewline(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return "\n"
}

func dedupAdjacent(lines []string) []string {
	out := lines[:0:0]
	for i, l := range lines {
		if i == 0 || l != lines[i-1] {
			out = append(out, l)
		}
	}
	return out
}

// uniqHandler implements `uniq [-c] [-d] [-u] [file]`, operating on
// already-adjacent duplicate runs like the real coreutils does.
func uniqHandler(_ context.Context, call *Call) (Result, error) {
	var showCount, dupOnly, uniqOnly bool
	var files []string
	for _, a := range call.Args {
		switch a {
		case "-c":
			showCount = true
		case "-d":
			dupOnly = true
		case "-u":
			uniqOnly = true
		default:
			files = append(files, a)
		}
	}
	data, err := readAllArgsOrStdin(&Call{Args: files, Stdin: call.Stdin, Cwd: call.Cwd})
	if err != nil {
		return Result{Stderr: []byte("uniq: " + err.Error() + "\n"), Code: 1}, nil
	}
	lines := splitKeepEmpty(string(data))

	var out []string
	i := 0
	for i < len(lines) {
		j := i + 1
		for j < len(lines) && lines[j] == lines[i] {
			j++
		}
		count := j - i
		if (dupOnly && count < 2) || (uniqOnly && count > 1) {
			i = j
			continue
		}
		if showCount {
			out = append(out, fmt.Sprintf("%4d %s", count, lines[i]))
		} else {
			out = append(out, lines[i])
		}
		i = j
	}
	return Result{Stdout: []byte(strings.Join(out, "\n") + trailingNewline(out))}, nil
}

// wcHandler implements `wc [-l] [-w] [-c] [file]`.
func wcHandler(_ context.Context, call *Call) (Result, error) {
	var lines, words, chars bool
	var files []string
	for _, a := range call.Args {
		switch a {
		case "-l":
			lines = true
		case "-w":
			words = true
		case "-c":
			chars = true
		default:
			files = append(files, a)
		}
	}
	if !lines && !words && !chars {
		lines, words, chars = true, true, true
	}
	data, err := readAllArgsOrStdin(&Call{Args: files, Stdin: call.Stdin, Cwd: call.Cwd})
	if err != nil {
		return Result{Stderr: []byte("wc: " + err.Error() + "\n"), Code: 1}, nil
	}
	nLines := strings.Count(string(data), "\n")
	nWords := len(strings.Fields(string(data)))
	nChars := len(data)

	var fields []string
	if lines {
		fields = append(fields, fmt.Sprintf("%7d", nLines))
	}
	if words {
		fields = append(fields, fmt.Sprintf("%7d", nWords))
	}
	if chars {
		fields = append(fields, fmt.Sprintf("%7d", nChars))
	}
	return Result{Stdout: []byte(strings.Join(fields, " ") + "\n")}, nil
}

// grepHandler implements `grep <pattern> [file]`, plain substring match.
func grepHandler(_ context.Context, call *Call) (Result, error) {
	if len(call.Args) == 0 {
		return Result{Stderr: []byte("grep: missing pattern\n"), Code: 2}, nil
	}
	pattern := call.Args[0]
	data, err := readAllArgsOrStdin(&Call{Args: call.Args[1:], Stdin: call.Stdin, Cwd: call.Cwd})
	if err != nil {
		return Result{Stderr: []byte("grep: " + err.Error() + "\n"), Code: 2}, nil
	}
	var matched []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, pattern) {
			matched = append(matched, line)
		}
	}
	if len(matched) == 0 {
		return Result{Code: 1}, nil
	}
	return Result{Stdout: []byte(strings.Join(matched, "\n") + "\n")}, nil
}

// printfHandler implements a subset of `printf fmt args...` using Go's
// own verbs. Every argument is passed as a string, so %s works while
// numeric verbs such as %d do not format the argument as a number.
func printfHandler(_ context.Context, call *Call) (Result, error) {
	if len(call.Args) == 0 {
		return Result{Code: 0}, nil
	}
	format := call.Args[0]
	rest := call.Args[1:]
	anys := make([]any, len(rest))
	for i, r := range rest {
		anys[i] = r
	}
	out := fmt.Sprintf(strings.ReplaceAll(format, "\\n", "\n"), anys...)
	return Result{Stdout: []byte(out)}, nil
}
