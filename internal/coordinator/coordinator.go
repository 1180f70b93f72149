// Package coordinator implements the Signal & Cleanup Coordinator
// (spec.md C7): a process-wide set of live ProcessRunners, a single
// shared SIGINT hook installed only while that set is non-empty, and
// best-effort cleanup on library exit. Grounded on the teacher's
// ProcessManager map+goroutine lifecycle
// (internal/infrastructure/processmgr/process_manager.go) and its
// process.Close SIGTERM->grace->SIGKILL escalation, generalized from
// one fixed service's processes to arbitrary caller-registered
// runners.
package coordinator

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zshrun/zshrun/internal/runner"
)

// Coordinator owns the process-wide live-runner set. The zero value
// is not usable; construct with New. A package-level Default instance
// backs the public entry (C9) so independently-created runners share
// one SIGINT hook.
type Coordinator struct {
	mu        sync.Mutex
	live      map[uuid.UUID]*runner.Runner
	sigCh     chan os.Signal
	stopped   chan struct{}
	exitHooks []func()
	log       *zap.Logger
}

// Default is the process-wide Coordinator used by the public entry.
var Default = New()

func New() *Coordinator {
	return &Coordinator{
		live: make(map[uuid.UUID]*runner.Runner),
		log:  zap.L().Named("coordinator"),
	}
}

// Register adds r to the live set, installing the shared SIGINT hook
// if this is the first entry, and arranges for automatic removal
// once r finishes.
func (c *Coordinator) Register(r *runner.Runner) {
	c.mu.Lock()
	c.live[r.ID()] = r
	first := len(c.live) == 1
	if first {
		c.installHookLocked()
	}
	c.mu.Unlock()

	go func() {
		<-r.Done()
		c.Unregister(r)
	}()
}

// Unregister removes r from the live set, uninstalling the SIGINT
// hook once the set becomes empty.
func (c *Coordinator) Unregister(r *runner.Runner) {
	c.mu.Lock()
	delete(c.live, r.ID())
	empty := len(c.live) == 0
	if empty {
		c.uninstallHookLocked()
	}
	c.mu.Unlock()
}

// installHookLocked must be called with c.mu held. On SIGINT it runs
// the exit hooks and forwards SIGINT to registered runners; it never
// calls os.Exit itself, so a
// user-installed handler that does exit (e.g. with code 42) is not
// overridden (spec.md §4.7).
func (c *Coordinator) installHookLocked() {
	c.sigCh = make(chan os.Signal, 1)
	c.stopped = make(chan struct{})
	signal.Notify(c.sigCh, syscall.SIGINT)

	stopped := c.stopped
	sigCh := c.sigCh
	go func() {
		for {
			select {
			case <-sigCh:
				c.forwardSIGINT()
			case <-stopped:
				return
			}
		}
	}()
}

func (c *Coordinator) uninstallHookLocked() {
	if c.sigCh != nil {
		signal.Stop(c.sigCh)
		close(c.stopped)
		c.sigCh = nil
		c.stopped = nil
	}
}

func (c *Coordinator) forwardSIGINT() {
	c.runExitHooks()

	c.mu.Lock()
	runners := make([]*runner.Runner, 0, len(c.live))
	for _, r := range c.live {
		runners = append(runners, r)
	}
	c.mu.Unlock()

	for _, r := range runners {
		r.Kill("SIGINT")
	}
}

// ForceCleanupAll kills every remaining live runner and uninstalls
// the hook, for use during abnormal or forced shutdown.
func (c *Coordinator) ForceCleanupAll() {
	c.runExitHooks()

	c.mu.Lock()
	runners := make([]*runner.Runner, 0, len(c.live))
	for _, r := range c.live {
		runners = append(runners, r)
	}
	c.mu.Unlock()

	for _, r := range runners {
		r.Kill("SIGTERM")
	}
}

// RegisterExitHook adds fn to the set run whenever the Coordinator
// observes a signal it forwards or a forced cleanup (spec.md §4.7's
// "exit-time hook restores any modified terminal state ... and
// restores working directory"). The public package registers cwd and
// tty restoration here once at init.
func (c *Coordinator) RegisterExitHook(fn func()) {
	c.mu.Lock()
	c.exitHooks = append(c.exitHooks, fn)
	c.mu.Unlock()
}

func (c *Coordinator) runExitHooks() {
	c.mu.Lock()
	hooks := append([]func(){}, c.exitHooks...)
	c.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// LiveCount reports the number of currently-registered runners,
// primarily for tests.
func (c *Coordinator) LiveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.live)
}
