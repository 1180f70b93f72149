package vcmd

import (
	"context"
	"os"
	"sort"
	"strings"
	"time"
)

// mkdirHandler implements `mkdir [-p] dir...`.
func mkdirHandler(_ context.Context, call *Call) (Result, error) {
	recursive := false
	var dirs []string
	for _, a := range call.Args {
		if a == "-p" {
			recursive = true
			continue
		}
		dirs = append(dirs, a)
	}
	for _, d := range dirs {
		path := resolvePath(call.Cwd, d)
		var err error
		if recursive {
			err = os.MkdirAll(path, 0o755)
		} else {
			err = os.Mkdir(path, 0o755)
		}
		if err != nil {
			return Result{Stderr: []byte("mkdir: cannot create directory '" + d + "': " + err.Error() + "\n"), Code: 1}, nil
		}
	}
	return Result{}, nil
}

// touchHandler implements `touch file...`.
func touchHandler(_ context.Context, call *Call) (Result, error) {
	for _, a := range call.Args {
		path := resolvePath(call.Cwd, a)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return Result{Stderr: []byte("touch: cannot touch '" + a + "': " + err.Error() + "\n"), Code: 1}, nil
		}
		now := time.Now()
		f.Close()
		os.Chtimes(path, now, now)
	}
	return Result{}, nil
}

// rmHandler implements `rm [-r] [-f] file...`.
func rmHandler(_ context.Context, call *Call) (Result, error) {
	recursive, force := false, false
	var targets []string
	for _, a := range call.Args {
		switch a {
		case "-r", "-R":
			recursive = true
		case "-f":
			force = true
		case "-rf", "-fr":
			recursive, force = true, true
		default:
			targets = append(targets, a)
		}
	}
	for _, t := range targets {
		path := resolvePath(call.Cwd, t)
		var err error
		if recursive {
			err = os.RemoveAll(path)
		} else {
			err = os.Remove(path)
		}
		if err != nil && !force {
			return Result{Stderr: []byte("rm: cannot remove '" + t + "': " + err.Error() + "\n"), Code: 1}, nil
		}
	}
	return Result{}, nil
}

// lsHandler implements `ls [-a] [-l] [dir]`.
func lsHandler(_ context.Context, call *Call) (Result, error) {
	all, long := false, false
	dir := call.Cwd
	explicit := false
	for _, a := range call.Args {
		switch {
		case a == "-a":
			all = true
		case a == "-l":
			long = true
		case a == "-la" || a == "-al":
			all, long = true, true
		default:
			dir = resolvePath(call.Cwd, a)
			explicit = true
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		name := dir
		if !explicit {
			name = "."
		}
		return Result{Stderr: []byte("ls: cannot access '" + name + "': " + err.Error() + "\n"), Code: 1}, nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !all && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if !long {
		return Result{Stdout: []byte(strings.Join(names, "\n") + trailingNewline(names))}, nil
	}

	var b strings.Builder
	for _, n := range names {
		info, err := os.Lstat(dir + "/" + n)
		if err != nil {
			continue
		}
		b.WriteString(info.Mode().String())
		b.WriteByte(' ')
		b.WriteString(n)
		b.WriteByte('\n')
	}
	return Result{Stdout: []byte(b.String())}, nil
}

// pwdHandler implements `pwd`, reporting the interpreter's logical cwd
// threaded through Result.NewCwd rather than calling os.Getwd directly:
// a subshell's cd only changes this logical value for its own Context,
// while the real process cwd (which os.Getwd would see) only moves for
// a completed top-level cd.
func pwdHandler(_ context.Context, call *Call) (Result, error) {
	return Result{Stdout: []byte(call.Cwd + "\n")}, nil
}
