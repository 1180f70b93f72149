package interp

import (
	"context"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/zshrun/zshrun/internal/runner"
	"github.com/zshrun/zshrun/internal/settings"
	"github.com/zshrun/zshrun/internal/vcmd"
	"github.com/zshrun/zshrun/pkg/shsyntax"
)

// execCommand runs one Command node: it consults the virtual registry
// first (spec.md §4.6 "Virtual/real resolution") and falls back to a
// real OS process otherwise. Returns the exit code and terminating
// signal name (empty if none).
func execCommand(ctx context.Context, cmd *shsyntax.Command, ic *Context, stdin io.Reader, stdout, stderr io.Writer) (int, string, error) {
	set, err := applyRedirections(ic.Cwd, cmd.Redirections, stdin, stdout, stderr)
	if err != nil {
		io.WriteString(stderr, cmd.Name+": "+err.Error()+"\n")
		return 1, "", nil
	}
	defer set.close()

	if line, emit := settings.Global.Trace(cmdline(cmd)); emit {
		io.WriteString(os.Stderr, line+"\n")
	}

	if desc, ok := ic.Registry.Lookup(cmd.Name); ok {
		return execVirtual(ctx, cmd, desc, ic, set)
	}
	return execReal(ctx, cmd, ic, set)
}

func cmdline(cmd *shsyntax.Command) string {
	s := cmd.Name
	for _, a := range cmd.Args {
		s += " " + a
	}
	return s
}

func execVirtual(ctx context.Context, cmd *shsyntax.Command, desc vcmd.Descriptor, ic *Context, set *ioSet) (int, string, error) {
	call := &vcmd.Call{
		Args:  cmd.Args,
		Stdin: set.stdin,
		Env:   ic.Env,
		Cwd:   ic.Cwd,
	}

	if desc.IsStreaming() {
		ch := desc.Streaming(ctx, call)
		for chunk := range ch {
			switch chunk.Type {
			case vcmd.ChunkStdout:
				set.stdout.Write(chunk.Data)
			case vcmd.ChunkStderr:
				set.stderr.Write(chunk.Data)
			}
		}
		// Leave code/signal to Runner.finish's killSig-based mapping
		// (runner.go), the way sleepHandler's cancellation does, so a
		// SIGINT-forwarded cancellation reports 130/SIGINT instead of
		// always reporting 143/SIGTERM.
		return 0, "", nil
	}

	res, err := desc.Invoke(ctx, call)
	if err != nil {
		return 1, "", err
	}
	set.stdout.Write(res.Stdout)
	set.stderr.Write(res.Stderr)
	if res.NewCwd != nil {
		ic.Cwd = *res.NewCwd
	}
	return res.Code, "", nil
}

func execReal(ctx context.Context, cmd *shsyntax.Command, ic *Context, set *ioSet) (int, string, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = ic.Cwd
	c.Env = envSlice(ic.Env)
	c.Stdin = set.stdin
	c.Stdout = set.stdout
	c.Stderr = set.stderr
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
	if ok := asExitError(err, &exitErr); ok {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			sig := ws.Signal()
			return 128 + int(sig), signalName(sig), nil
		}
		return exitErr.ExitCode(), "", nil
	}
	return 127, "", err
}

func asExitError(err error, target **exec.ExitError) bool {
	if ee, ok := err.(*exec.ExitError); ok {
		*target = ee
		return true
	}
	return false
}

func signalName(sig syscall.Signal) string {
	switch sig {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	case syscall.SIGKILL:
		return "SIGKILL"
	default:
		return sig.String()
	}
}

// signalFromName is signalName's inverse, used to send the actual
// signal Runner.Kill was called with (spec.md §1 "forwards terminal
// signals (notably SIGINT)") instead of always sending SIGTERM.
func signalFromName(name string) syscall.Signal {
	switch name {
	case "SIGINT":
		return syscall.SIGINT
	case "SIGKILL":
		return syscall.SIGKILL
	default:
		return syscall.SIGTERM
	}
}

func envSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}
