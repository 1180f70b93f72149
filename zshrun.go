// Package zshrun is the public entry point (spec.md C9): a
// template-literal-style invocation returning a ProcessRunner, plus
// create/sh/exec/raw/quote helpers. It wires the Argument Quoter
// (pkg/quote), the Pipeline Interpreter (internal/interp), the
// ProcessRunner (internal/runner) and the Signal & Cleanup
// Coordinator (internal/coordinator) the way the teacher's
// cmd/zmux-server/main.go wires processmgr into one package's worth
// of top-level API.
package zshrun

import (
	"os"
	"strings"
	"sync"

	"github.com/zshrun/zshrun/internal/coordinator"
	"github.com/zshrun/zshrun/internal/interp"
	"github.com/zshrun/zshrun/internal/runner"
	"github.com/zshrun/zshrun/internal/settings"
	"github.com/zshrun/zshrun/internal/tty"
	"github.com/zshrun/zshrun/internal/vcmd"
	"github.com/zshrun/zshrun/pkg/quote"
)

// Options is the public options record (spec.md §4.5).
type Options = runner.Options

// Runner is the public ProcessRunner handle (spec.md §4.4).
type Runner = runner.Runner

var (
	cwdMu      sync.Mutex
	processCwd string
	initCwd    string

	registry = vcmd.Default()
)

func init() {
	if wd, err := os.Getwd(); err == nil {
		processCwd = wd
		initCwd = wd
	}
	// spec.md §4.7/§5: the exit-time hook restores the cwd observed at
	// library init and releases any held terminal raw mode, whenever
	// the Coordinator forwards a signal or runs a forced cleanup.
	coordinator.Default.RegisterExitHook(func() {
		tty.RestoreAll()
		if initCwd != "" {
			os.Chdir(initCwd)
		}
	})
}

func currentCwd() string {
	cwdMu.Lock()
	defer cwdMu.Unlock()
	return processCwd
}

// commitCwd applies a completed top-level cd to both the logical cwd
// threaded into the next command and the real OS process cwd, so a
// host's own os.Getwd() reflects it too (spec.md §4.6 "The parent
// process cwd is updated for top-level, non-subshell cd").
func commitCwd(newCwd string) {
	cwdMu.Lock()
	defer cwdMu.Unlock()
	if newCwd == processCwd {
		return
	}
	if err := os.Chdir(newCwd); err != nil {
		return
	}
	processCwd = newCwd
}

func hostEnv() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

func mergeEnv(over map[string]string) map[string]string {
	env := hostEnv()
	for k, v := range over {
		env[k] = v
	}
	return env
}

func buildRunner(command string, opts Options) *Runner {
	ic := &interp.Context{
		Cwd:      currentCwd(),
		Env:      mergeEnv(opts.Env),
		Registry: registry,
	}
	exec := interp.NewExecutor(command, ic)
	r := runner.New(command, exec, opts)
	r.SetStartHook(func(rr *Runner) { coordinator.Default.Register(rr) })
	r.OnFinal(func(*runner.Result) { commitCwd(ic.Cwd) })
	return r
}

// interpolate renders a %s-placeholder format string the way a
// tagged template literal would: each interpolated value is quoted
// using the literal characters immediately flanking its placeholder
// (pkg/quote.One), never the value itself.
func interpolate(format string, args []any) string {
	var b strings.Builder
	argi := 0
	for i := 0; i < len(format); i++ {
		if format[i] == '%' && i+1 < len(format) && format[i+1] == 's' {
			var pre, post rune
			if b.Len() > 0 {
				rs := []rune(b.String())
				pre = rs[len(rs)-1]
			}
			if rest := []rune(format[i+2:]); len(rest) > 0 {
				post = rest[0]
			}
			var v any
			if argi < len(args) {
				v = args[argi]
				argi++
			}
			b.WriteString(quote.One(v, pre, post))
			i++
			continue
		}
		b.WriteByte(format[i])
	}
	return b.String()
}

// Cmd is the callable template-tag entry point: `zshrun.Cmd("ls %s", path)`
// stands in for `` $`ls ${path}` `` (spec.md §4.9). Each %s argument
// is quoted by C1 before being spliced into the command string.
func Cmd(format string, args ...any) *Runner {
	return buildRunner(interpolate(format, args), DefaultOptions())
}

// Tag is a configured template tag carrying persistent default
// options, returned by New/Create (spec.md §4.9 "create(defaults)").
type Tag struct {
	defaults Options
}

// New returns a Tag with defaults merged over DefaultOptions.
func New(defaults Options) *Tag {
	return &Tag{defaults: mergeOver(DefaultOptions(), defaults)}
}

// Create is an alias of New, matching the spec's documented name.
func Create(defaults Options) *Tag { return New(defaults) }

// Cmd invokes the tag with its persistent defaults.
func (t *Tag) Cmd(format string, args ...any) *Runner {
	return buildRunner(interpolate(format, args), t.defaults)
}

// Sh accepts an already-assembled command string (spec.md §4.9 "sh").
func Sh(command string, opts ...Options) *Runner {
	o := DefaultOptions()
	if len(opts) > 0 {
		o = mergeOver(o, opts[0])
	}
	return buildRunner(command, o)
}

// Exec runs a single command given as file plus args (spec.md §4.9
// "exec"). It does not bypass the parser: file and each arg are
// quoted with the Argument Quoter, joined with spaces, and the result
// goes through the same classifier, parser and interpreter as Sh, so
// a virtual command named file takes precedence over a real program.
func Exec(file string, args []string, opts ...Options) *Runner {
	o := DefaultOptions()
	if len(opts) > 0 {
		o = mergeOver(o, opts[0])
	}
	parts := append([]string{quote.Quote(file)}, quoteAll(args)...)
	return buildRunner(strings.Join(parts, " "), o)
}

func quoteAll(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = quote.Quote(a)
	}
	return out
}

// Raw returns a sentinel the quoter recognizes and inserts verbatim
// (spec.md §4.1 "a value created by raw(x)").
func Raw(s string) quote.Value { return quote.Raw(s) }

// Quote exposes the Argument Quoter for external use (spec.md §4.9).
func Quote(v any) string { return quote.Quote(v) }

// DefaultOptions returns the library's documented option defaults.
func DefaultOptions() Options { return runner.DefaultOptions() }

func mergeOver(base, override Options) Options {
	// a copy of internal/runner's unexported mergeOver, kept in this
	// package so Tag construction reads the same way call-site option
	// merging does.
	merged := base
	if override.Cwd != "" {
		merged.Cwd = override.Cwd
	}
	if override.Env != nil {
		merged.Env = override.Env
	}
	if override.Mode != "" {
		merged.Mode = override.Mode
	}
	if override.Stdin != nil {
		merged.Stdin = override.Stdin
	}
	if override.Timeout != 0 {
		merged.Timeout = override.Timeout
	}
	merged.Capture = override.Capture
	merged.Mirror = override.Mirror
	merged.Interactive = override.Interactive
	return merged
}

// Set and Unset expose the shell-settings scope (spec.md C8) for callers
// that want `set`/`unset`-style control without reaching into
// internal packages.
func Set(opt string) error   { return settings.Global.Set(opt) }
func Unset(opt string) error { return settings.Global.Unset(opt) }
