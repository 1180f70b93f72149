package vcmd

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestEchoHandler(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"hi", "there"}, "hi there\n"},
		{[]string{"-n", "hi"}, "hi"},
		{[]string{"-e", `a\nb`}, "a\nb\n"},
	}
	for _, c := range cases {
		res, err := echoHandler(context.Background(), &Call{Args: c.args})
		if err != nil {
			t.Fatalf("echo %v: %v", c.args, err)
		}
		if string(res.Stdout) != c.want {
			t.Errorf("echo %v = %q, want %q", c.args, res.Stdout, c.want)
		}
	}
}

func TestCatHandlerStdin(t *testing.T) {
	res, err := catHandler(context.Background(), &Call{Stdin: strings.NewReader("hello\n")})
	if err != nil {
		t.Fatal(err)
	}
	if string(res.Stdout) != "hello\n" {
		t.Errorf("cat = %q", res.Stdout)
	}
}

func TestHeadDefaultCount(t *testing.T) {
	var lines []string
	for i := 1; i <= 15; i++ {
		lines = append(lines, "line")
	}
	input := strings.Join(lines, "\n") + "\n"
	res, err := headHandler(context.Background(), &Call{Stdin: strings.NewReader(input)})
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Split(string(res.Stdout), "\n")
	if len(got) != 10 {
		t.Errorf("head default = %d lines, want 10", len(got))
	}
}

func TestTailWithDashN(t *testing.T) {
	input := "a\nb\nc\nd\ne\n"
	res, err := tailHandler(context.Background(), &Call{Args: []string{"-n", "2"}, Stdin: strings.NewReader(input)})
	if err != nil {
		t.Fatal(err)
	}
	if string(res.Stdout) != "d\ne" {
		t.Errorf("tail -n 2 = %q", res.Stdout)
	}
}

func TestSortReverseUnique(t *testing.T) {
	input := "b\na\nb\nc\na\n"
	res, err := sortHandler(context.Background(), &Call{Args: []string{"-ru"}, Stdin: strings.NewReader(input)})
	if err != nil {
		t.Fatal(err)
	}
	if string(res.Stdout) != "c\nb\na\n" {
		t.Errorf("sort -ru = %q", res.Stdout)
	}
}

func TestUniqCount(t *testing.T) {
	input := "a\na\nb\nc\nc\nc\n"
	res, err := uniqHandler(context.Background(), &Call{Args: []string{"-c"}, Stdin: strings.NewReader(input)})
	if err != nil {
		t.Fatal(err)
	}
	want := "   2 a\n   1 b\n   3 c\n"
	if string(res.Stdout) != want {
		t.Errorf("uniq -c = %q, want %q", res.Stdout, want)
	}
}

func TestWcDefaultCounts(t *testing.T) {
	res, err := wcHandler(context.Background(), &Call{Stdin: strings.NewReader("one two\nthree\n")})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(res.Stdout), "2") {
		t.Errorf("wc output missing line count: %q", res.Stdout)
	}
}

func TestGrepMatchesAndMisses(t *testing.T) {
	res, err := grepHandler(context.Background(), &Call{Args: []string{"foo"}, Stdin: strings.NewReader("foobar\nbaz\n")})
	if err != nil {
		t.Fatal(err)
	}
	if string(res.Stdout) != "foobar\n" {
		t.Errorf("grep match = %q", res.Stdout)
	}

	res, err = grepHandler(context.Background(), &Call{Args: []string{"nope"}, Stdin: strings.NewReader("foobar\n")})
	if err != nil {
		t.Fatal(err)
	}
	if res.Code != 1 {
		t.Errorf("grep no-match code = %d, want 1", res.Code)
	}
}

func TestCdHandlerSuccess(t *testing.T) {
	res, err := cdHandler(context.Background(), &Call{Args: []string{"/"}, Cwd: "/tmp"})
	if err != nil {
		t.Fatal(err)
	}
	if res.NewCwd == nil || *res.NewCwd != "/" {
		t.Errorf("cd / NewCwd = %v", res.NewCwd)
	}
}

func TestCdHandlerMissingDir(t *testing.T) {
	res, err := cdHandler(context.Background(), &Call{Args: []string{"/no/such/dir/xyz"}, Cwd: "/tmp"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Code != 1 || string(res.Stderr) != "cd: no such file or directory\n" {
		t.Errorf("cd missing dir result = %+v", res)
	}
}

func TestSleepHandlerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sleepHandler(ctx, &Call{Args: []string{"5"}})
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("sleep did not observe cancellation within 200ms")
	}
}

func TestYesStreamHandlerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := yesStreamHandler(ctx, &Call{})
	<-ch // consume at least one chunk
	cancel()

	deadline := time.After(200 * time.Millisecond)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("yes stream did not close within 200ms of cancellation")
		}
	}
}

func TestDefaultRegistryHasBuiltins(t *testing.T) {
	r := Default()
	for _, name := range []string{"cd", "echo", "cat", "sleep", "yes", "pwd"} {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("Default() registry missing %q", name)
		}
	}
}
