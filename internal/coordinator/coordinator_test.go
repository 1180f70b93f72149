package coordinator

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/zshrun/zshrun/internal/runner"
)

func blockingExecutor() runner.Executor {
	return func(ctx context.Context, _ io.Reader, _, _ io.Writer) (int, string, error) {
		<-ctx.Done()
		return 143, "SIGTERM", nil
	}
}

func TestRegisterUnregisterTracksLiveCount(t *testing.T) {
	c := New()
	r := runner.New("sleep 5", blockingExecutor(), runner.DefaultOptions())
	c.Register(r)
	if c.LiveCount() != 1 {
		t.Fatalf("live count = %d, want 1", c.LiveCount())
	}

	r.Start()
	r.Kill("SIGTERM")

	select {
	case <-r.Done():
	case <-time.After(200 * time.Millisecond):
		t.Fatal("runner did not finish")
	}

	deadline := time.After(200 * time.Millisecond)
	for c.LiveCount() != 0 {
		select {
		case <-deadline:
			t.Fatal("coordinator did not auto-unregister finished runner")
		default:
		}
	}
}

func TestForceCleanupAllRunsExitHooks(t *testing.T) {
	c := New()
	var ran bool
	c.RegisterExitHook(func() { ran = true })
	c.ForceCleanupAll()
	if !ran {
		t.Error("expected exit hook to run during ForceCleanupAll")
	}
}

func TestForceCleanupAllKillsEverything(t *testing.T) {
	c := New()
	r1 := runner.New("sleep 5", blockingExecutor(), runner.DefaultOptions())
	r2 := runner.New("sleep 5", blockingExecutor(), runner.DefaultOptions())
	c.Register(r1)
	c.Register(r2)
	r1.Start()
	r2.Start()

	c.ForceCleanupAll()

	for _, r := range []*runner.Runner{r1, r2} {
		select {
		case <-r.Done():
		case <-time.After(200 * time.Millisecond):
			t.Fatal("ForceCleanupAll did not stop a runner within 200ms")
		}
	}
}
