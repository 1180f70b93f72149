package vcmd

import (
	"context"
	"os"
	"strconv"
	"time"
)

// trueHandler implements `true`.
func trueHandler(_ context.Context, _ *Call) (Result, error) {
	return Result{Code: 0}, nil
}

// falseHandler implements `false`.
func falseHandler(_ context.Context, _ *Call) (Result, error) {
	return Result{Code: 1}, nil
}

// exitHandler implements `exit [code]`, defaulting to 0.
func exitHandler(_ context.Context, call *Call) (Result, error) {
	code := 0
	if len(call.Args) > 0 {
		if v, err := strconv.Atoi(call.Args[0]); err == nil {
			code = v
		}
	}
	return Result{Code: code}, nil
}

// hostnameHandler implements `hostname`.
func hostnameHandler(_ context.Context, _ *Call) (Result, error) {
	h, err := os.Hostname()
	if err != nil {
		return Result{Stderr: []byte("hostname: " + err.Error() + "\n"), Code: 1}, nil
	}
	return Result{Stdout: []byte(h + "\n")}, nil
}

// whoamiHandler implements `whoami` from the environment, falling back
// to $USER since this package never shells out to id(1).
func whoamiHandler(_ context.Context, call *Call) (Result, error) {
	user := call.Env["USER"]
	if user == "" {
		user = os.Getenv("USER")
	}
	if user == "" {
		user = "unknown"
	}
	return Result{Stdout: []byte(user + "\n")}, nil
}

// dateHandler implements `date`, printing RFC1123 with a numeric zone
// (time.RFC1123Z), close enough to the coreutils default
// locale-independent form for scripting use.
func dateHandler(_ context.Context, _ *Call) (Result, error) {
	return Result{Stdout: []byte(time.Now().Format(time.RFC1123Z) + "\n")}, nil
}
