package ctxstop

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/NetPo4ki/go-stoptask/stop"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestContextCanceledByStop(t *testing.T) {
	t.Parallel()
	ctl := stop.NewController()
	ctx, cancel := Context(context.Background(), ctl.Observer())
	defer cancel()

	select {
	case <-ctx.Done():
		t.Fatal("context should be live before the stop request")
	default:
	}
	ctl.RequestStop()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context did not observe the stop request")
	}
	if !errors.Is(ctx.Err(), context.Canceled) {
		t.Fatalf("unexpected context error: %v", ctx.Err())
	}
}

func TestContextCancelReleasesWatcher(t *testing.T) {
	t.Parallel()
	ctl := stop.NewController()
	_, cancel := Context(context.Background(), ctl.Observer())
	cancel() // goleak verifies the watcher goroutine exits
}

func TestPropagateRequestsStop(t *testing.T) {
	t.Parallel()
	ctl := stop.NewController()
	ctx, cancel := context.WithCancel(context.Background())
	detach := Propagate(ctx, ctl)
	defer detach()

	cancel()
	obs := ctl.Observer()
	deadline := time.After(time.Second)
	for !obs.StopRequested() {
		select {
		case <-deadline:
			t.Fatal("stop was not requested after context cancellation")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestPropagateDetach(t *testing.T) {
	t.Parallel()
	ctl := stop.NewController()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	detach := Propagate(ctx, ctl)
	if !detach() {
		t.Fatal("detach should succeed before cancellation")
	}
	cancel()
	time.Sleep(10 * time.Millisecond)
	if ctl.StopRequested() {
		t.Fatal("detached watcher must not request a stop")
	}
}
