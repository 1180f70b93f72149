package interp

import (
	"context"
	"io"
	"os/exec"
	"syscall"
	"time"

	"github.com/zshrun/zshrun/internal/runner"
)

// execRealShell hands src to an external `/bin/sh -c`, the fallback
// path for needs-real-shell syntax and for parser errors (spec.md
// §4.2 Failure mode: "the interpreter then runs a real shell with the
// original string ... and, if execution fails, surfaces the shell's
// stderr"). Virtual commands are not reachable inside this span.
func execRealShell(ctx context.Context, src string, ic *Context, stdin io.Reader, stdout, stderr io.Writer) (int, string, error) {
	c := exec.CommandContext(ctx, ic.shellPath(), "-c", src)
	c.Dir = ic.Cwd
	c.Env = envSlice(ic.Env)
	c.Stdin = stdin
	c.Stdout = stdout
	c.Stderr = stderr
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pdeathsig: syscall.SIGKILL}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, signalFromName(runner.SignalFromContext(ctx)))
	}
	c.WaitDelay = 500 * time.Millisecond

	err := c.Run()
	if err == nil {
		return 0, "", nil
	}

	var exitErr *exec.ExitError
	if asExitError(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			sig := ws.Signal()
			return 128 + int(sig), signalName(sig), nil
		}
		return exitErr.ExitCode(), "", nil
	}
	return 127, "", err
}
