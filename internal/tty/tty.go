// Package tty owns the one piece of terminal state this library ever
// touches: stdin raw mode for an interactive runner (spec.md §4.7,
// §5: "The terminal's raw-mode state is owned while a runner with
// stdin-inherit + interactive flag is active and is restored on
// runner completion"). golang.org/x/term already rides into the
// module graph transitively via mvdan.cc/sh/v3's interactive-shell
// support, so this package promotes it to a direct dependency rather
// than hand-rolling termios syscalls.
package tty

import (
	"os"
	"sync"

	"golang.org/x/term"
)

var (
	mu   sync.Mutex
	prev *term.State
	held bool
)

// IsTTY reports whether stdout is attached to a terminal (spec.md
// §4.7: "Forward only when interactive=true AND stdout is a TTY").
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Enter puts stdin into raw mode if nothing else currently holds it
// and stdin is itself a terminal. The returned func releases that
// hold; it is always safe to call, including when raw mode was never
// actually entered.
func Enter() func() {
	mu.Lock()
	defer mu.Unlock()
	if held || !term.IsTerminal(int(os.Stdin.Fd())) {
		return func() {}
	}
	state, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return func() {}
	}
	held = true
	prev = state
	return release
}

func release() {
	mu.Lock()
	defer mu.Unlock()
	if !held || prev == nil {
		return
	}
	term.Restore(int(os.Stdin.Fd()), prev)
	held = false
	prev = nil
}

// RestoreAll force-restores any held raw-mode state. Used by the
// library's exit-time hook (spec.md §4.7) so a SIGINT or a forced
// cleanup never leaves the host terminal in raw mode.
func RestoreAll() {
	release()
}
