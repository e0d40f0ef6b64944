package prom

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/goleak"

	"github.com/NetPo4ki/go-stoptask/stop"
	"github.com/NetPo4ki/go-stoptask/task"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMetricsTrackTaskLifecycle(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := New(reg)

	tk, err := task.Spawn(func(obs stop.Observer) error {
		<-obs.Done()
		return nil
	}, task.WithMonitor(m))
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	tk.Stop()

	if got := testutil.ToFloat64(m.tasksSpawned); got != 1 {
		t.Fatalf("tasksSpawned = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.stopRequests); got != 1 {
		t.Fatalf("stopRequests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.tasksFinished); got != 1 {
		t.Fatalf("tasksFinished = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.activeTasks); got != 0 {
		t.Fatalf("activeTasks = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.tasksErrored); got != 0 {
		t.Fatalf("tasksErrored = %v, want 0", got)
	}
}

func TestMetricsTrackErrors(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := New(reg)

	tk, err := task.Spawn(func(_ stop.Observer) error {
		return errors.New("boom")
	}, task.WithMonitor(m))
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	if err := tk.Join(); err == nil {
		t.Fatal("expected worker error")
	}
	if got := testutil.ToFloat64(m.tasksErrored); got != 1 {
		t.Fatalf("tasksErrored = %v, want 1", got)
	}
}

func TestMetricsTrackPanics(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := New(reg)

	tk, err := task.Spawn(func(_ stop.Observer) error {
		panic("boom")
	}, task.WithMonitor(m))
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	if err := tk.Join(); err == nil {
		t.Fatal("expected converted panic error")
	}
	if got := testutil.ToFloat64(m.tasksPanicked); got != 1 {
		t.Fatalf("tasksPanicked = %v, want 1", got)
	}
}
