package tty

import "testing"

func TestEnterOnNonTTYIsNoop(t *testing.T) {
	// Test processes rarely have a TTY on stdin; Enter must degrade to
	// a harmless no-op release rather than erroring.
	release := Enter()
	release()
	RestoreAll()
}
