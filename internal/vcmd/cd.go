package vcmd

import (
	"context"
	"os"
	"path/filepath"
)

// cdHandler implements `cd <path>` per spec.md §4.3: mutates the
// caller's logical cwd (via Result.NewCwd), defaults to $HOME when
// given no argument, and fails with code 1 plus the fixed
// "cd: no such file or directory" stderr line when the target does
// not exist.
func cdHandler(_ context.Context, call *Call) (Result, error) {
	target := ""
	if len(call.Args) > 0 {
		target = call.Args[0]
	}
	if target == "" {
		target = call.Env["HOME"]
		if target == "" {
			target = os.Getenv("HOME")
		}
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(call.Cwd, target)
	}
	target = filepath.Clean(target)

	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		return Result{
			Stderr: []byte("cd: no such file or directory\n"),
			Code:   1,
		}, nil
	}

	return Result{NewCwd: &target}, nil
}
