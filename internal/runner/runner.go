// Package runner implements the ProcessRunner (spec.md C5): a
// deferred, awaitable, observable, streamable handle over one command
// invocation, grounded on the lifecycle shape of the teacher's
// internal/infrastructure/processmgr.process (Start/supervise/Close
// with idempotent sync.Once gates and a done channel), generalized
// from "one supervised OS process" to "one Executor, real or
// virtual".
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zshrun/zshrun/internal/settings"
	"github.com/zshrun/zshrun/internal/tty"
)

// State is a ProcessRunner's lifecycle stage (spec.md §3 Lifetime).
type State int32

const (
	Pending State = iota
	Starting
	Running
	Finishing
	Finished
)

const (
	ChunkStdoutLabel = "stdout"
	ChunkStderrLabel = "stderr"
)

// Executor performs the work backing a Runner: a real exec.Cmd, a
// virtual command invocation, or an entire pipeline graph built by
// internal/interp. It must observe ctx cancellation and return
// promptly, reporting the terminating signal name if any.
type Executor func(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) (code int, signal string, err error)

type signalHolderKey struct{}

// SignalFromContext returns the signal name a real Executor's c.Cancel
// callback should actually send, reflecting whichever signal Kill was
// called with (spec.md §1: "forwards terminal signals (notably
// SIGINT)"). Defaults to SIGTERM when ctx carries no holder or Kill
// was never called (e.g. a pipeline-internal context cancellation).
func SignalFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(signalHolderKey{}).(*atomic.Value); ok {
		if s, ok := v.Load().(string); ok && s != "" {
			return s
		}
	}
	return "SIGTERM"
}

// Runner is the ProcessRunner handle (spec.md §4.4).
type Runner struct {
	id      uuid.UUID
	command string
	exec    Executor
	log     *zap.Logger

	mu        sync.Mutex
	opts      Options
	state     State
	startOnce sync.Once
	doneCh    chan struct{}
	result    *Result
	err       error
	childRef  any

	listeners  map[EventKind][]listener
	streamSubs []chan Chunk

	stdoutBuf bytes.Buffer
	stderrBuf bytes.Buffer

	ctx       context.Context
	cancel    context.CancelFunc
	sigHolder *atomic.Value
	killOnce  sync.Once
	killSig   string

	startHook func(*Runner)
}

// SetStartHook registers fn to run exactly once, the moment this
// runner transitions out of Pending. The Coordinator uses this to
// register/unregister runners at the boundary spec.md §4.6 describes
// ("registered with the Coordinator at start and unregistered at
// Finished") without runner needing to import coordinator.
func (r *Runner) SetStartHook(fn func(*Runner)) {
	r.mu.Lock()
	r.startHook = fn
	r.mu.Unlock()
}

// New constructs a Runner bound to command (for display/tracing only)
// and exec (the actual work). opts supplies construction-time
// defaults; the first Start/Run call may merge further overrides.
func New(command string, exec Executor, opts Options) *Runner {
	holder := &atomic.Value{}
	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), signalHolderKey{}, holder))
	return &Runner{
		id:        uuid.New(),
		command:   command,
		exec:      exec,
		log:       zap.L().Named("runner").With(zap.String("command", command)),
		opts:      opts,
		doneCh:    make(chan struct{}),
		listeners: make(map[EventKind][]listener),
		ctx:       ctx,
		cancel:    cancel,
		sigHolder: holder,
	}
}

// ID returns the runner's unique identifier, used by the Coordinator
// as a non-owning bookkeeping key (spec.md §4.7).
func (r *Runner) ID() uuid.UUID { return r.id }

// Command returns the display string this runner was constructed with.
func (r *Runner) Command() string { return r.command }

// Done returns a channel closed exactly once, when the runner reaches
// Finished (spec.md "exactly-once completion").
func (r *Runner) Done() <-chan struct{} { return r.doneCh }

func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// SetChild lets an Executor record its child reference (PID, virtual
// placeholder, etc.) for later retrieval via Child().
func (r *Runner) SetChild(v any) {
	r.mu.Lock()
	r.childRef = v
	r.mu.Unlock()
}

// Child returns the live child reference, or nil once Finished.
func (r *Runner) Child() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == Finished {
		return nil
	}
	return r.childRef
}

// Start begins execution if Pending; a no-op on subsequent calls
// except that it returns the same runner (spec.md §4.5 "Repeated
// .start({...}) calls are no-ops"). The first call's opts (if any)
// merge over construction-time options.
func (r *Runner) Start(opts ...Options) *Runner {
	r.startOnce.Do(func() {
		r.mu.Lock()
		if len(opts) > 0 {
			r.opts = mergeOver(r.opts, opts[0])
		}
		r.state = Starting
		hook := r.startHook
		r.mu.Unlock()
		if hook != nil {
			hook(r)
		}
		go r.run()
	})
	return r
}

// Run is an alias of Start (spec.md §4.4 ".start(opts?) / .run(opts?)").
func (r *Runner) Run(opts ...Options) *Runner { return r.Start(opts...) }

func (r *Runner) run() {
	r.setState(Running)

	var timeoutTimer *time.Timer
	r.mu.Lock()
	timeout := r.opts.Timeout
	r.mu.Unlock()
	if timeout > 0 {
		timeoutTimer = time.AfterFunc(timeout, func() { r.Kill("SIGTERM") })
	}

	stdin := r.resolveStdin()
	stdoutW := &chunkWriter{r: r, kind: EventStdout, label: ChunkStdoutLabel, mirrorTo: os.Stdout}
	stderrW := &chunkWriter{r: r, kind: EventStderr, label: ChunkStderrLabel, mirrorTo: os.Stderr}

	var releaseTTY func()
	if r.opts.Interactive && stdin == os.Stdin && tty.IsTTY() {
		releaseTTY = tty.Enter()
	}

	code, signal, err := r.exec(r.ctx, stdin, stdoutW, stderrW)

	if releaseTTY != nil {
		releaseTTY()
	}
	if timeoutTimer != nil {
		timeoutTimer.Stop()
	}
	r.finish(code, signal, err)
}

func (r *Runner) resolveStdin() io.Reader {
	r.mu.Lock()
	v := r.opts.Stdin
	r.mu.Unlock()

	switch s := v.(type) {
	case nil:
		return os.Stdin
	case string:
		switch s {
		case "inherit", "":
			return os.Stdin
		case "ignore":
			return bytes.NewReader(nil)
		default:
			return strings.NewReader(s)
		}
	case []byte:
		return bytes.NewReader(s)
	case io.Reader:
		return s
	default:
		return os.Stdin
	}
}

func (r *Runner) finish(code int, signal string, err error) {
	r.setState(Finishing)

	r.mu.Lock()
	if signal == "" {
		signal = r.killSig
	}
	killed := r.killSig != ""
	if signal != "" {
		// signalCode knows only SIGINT/SIGTERM/SIGKILL; for any other
		// signal keep the 128+n code the executor already reported.
		if sc := signalCode(signal); sc != 1 || code < 128 {
			code = sc
		}
	}
	res := &Result{
		Code:    code,
		Signal:  signal,
		Killed:  killed,
		Command: r.command,
		Child:   r.childRef,
	}
	res.Failed = res.Code != 0 || signal != ""
	if r.opts.Capture {
		res.Stdout = present(append([]byte(nil), r.stdoutBuf.Bytes()...))
		res.Stderr = present(append([]byte(nil), r.stderrBuf.Bytes()...))
	}
	switch s := r.opts.Stdin.(type) {
	case string:
		if s != "inherit" && s != "ignore" && s != "" {
			res.Stdin = present([]byte(s))
		}
	case []byte:
		res.Stdin = present(append([]byte(nil), s...))
	}
	r.result = res
	r.err = err
	r.childRef = nil
	r.state = Finished
	subs := r.streamSubs
	r.streamSubs = nil
	r.mu.Unlock()

	if err != nil {
		r.emit(EventError, err)
	}
	r.emit(EventExit, res.Code)
	r.emit(EventEnd, res)
	for _, s := range subs {
		close(s)
	}
	close(r.doneCh)
}

// Wait starts the runner if Pending and blocks until Finished,
// returning the stable result record (idempotent: repeated calls
// return the same record).
func (r *Runner) Wait() (*Result, error) {
	r.Start()
	<-r.doneCh
	r.mu.Lock()
	res, err := r.result, r.err
	r.mu.Unlock()

	if err == nil && settings.Global.Errexit() && res.Code != 0 {
		return res, fmt.Errorf("command failed: %s (exit %d)", r.command, res.Code)
	}
	return res, err
}

// Sync is the synchronous variant (spec.md §4.4 ".sync()"). Go has no
// separate blocking/non-blocking execution path for goroutines, so
// this is Wait under another name, kept for API parity.
func (r *Runner) Sync() (*Result, error) { return r.Wait() }

// Quiet is equivalent to Start({Mirror:false}) when still Pending.
func (r *Runner) Quiet() *Runner {
	r.mu.Lock()
	if r.state == Pending {
		r.opts.Mirror = false
	}
	r.mu.Unlock()
	return r.Start()
}

// Kill forwards signal to the running Executor via context
// cancellation. Multiple calls coalesce onto the first signal.
func (r *Runner) Kill(signal string) *Runner {
	if signal == "" {
		signal = "SIGTERM"
	}
	r.killOnce.Do(func() {
		r.mu.Lock()
		r.killSig = signal
		r.mu.Unlock()
		r.sigHolder.Store(signal)
		r.cancel()
	})
	return r
}

// Then schedules fn with the result once Finished, provided the
// runner did not end in an errexit rejection.
func (r *Runner) Then(fn func(*Result)) *Runner {
	r.Start()
	go func() {
		res, err := r.Wait()
		if err == nil {
			fn(res)
		}
	}()
	return r
}

// Catch schedules fn with the errexit-rejection error, if any.
func (r *Runner) Catch(fn func(error)) *Runner {
	r.Start()
	go func() {
		_, err := r.Wait()
		if err != nil {
			fn(err)
		}
	}()
	return r
}

// Finally schedules fn once Finished regardless of outcome.
func (r *Runner) Finally(fn func()) *Runner {
	r.Start()
	go func() {
		r.Wait()
		fn()
	}()
	return r
}

// Pipe returns a new Runner representing `this | other`: other's
// stdin is fed from this's stdout as bytes are observed (not
// buffered). Exit code follows bash's default rule (the last stage's
// code); internal/interp applies the pipefail override across an
// arbitrary number of stages using the same primitive.
func (r *Runner) Pipe(other *Runner) *Runner {
	pr, pw := io.Pipe()
	other.mu.Lock()
	if other.state == Pending {
		other.opts.Stdin = pr
	}
	other.mu.Unlock()

	combined := func(ctx context.Context, _ io.Reader, stdout, stderr io.Writer) (int, string, error) {
		r.On(EventStdout, func(v any) { pw.Write(v.([]byte)) })
		r.On(EventStderr, func(v any) { stderr.Write(v.([]byte)) })
		other.On(EventStdout, func(v any) { stdout.Write(v.([]byte)) })
		other.On(EventStderr, func(v any) { stderr.Write(v.([]byte)) })

		// r and other must run concurrently: r's stdout listener writes
		// into pw synchronously and blocks until other's Start'd
		// goroutine drains pr, so waiting on r before starting other
		// would deadlock the moment r produces any output.
		g, _ := errgroup.WithContext(ctx)
		g.Go(func() error {
			_, err := r.Wait()
			pw.Close()
			return err
		})
		g.Go(func() error {
			_, err := other.Wait()
			return err
		})
		if err := g.Wait(); err != nil {
			return 1, "", err
		}

		res2, _ := other.Wait()
		return res2.Code, res2.Signal, nil
	}

	r.mu.Lock()
	o := r.opts
	r.mu.Unlock()
	return New(r.command+" | "+other.command, combined, o)
}
