package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/NetPo4ki/go-stoptask/stop"
)

type Option func(*Options)

type Options struct {
	Name         string
	PanicAsError bool
	Monitor      Monitor
	MaxTasks     int
}

func defaultOptions() Options { return Options{PanicAsError: true} }

// WithName labels the task for Monitor hooks.
func WithName(name string) Option { return func(o *Options) { o.Name = name } }

func WithPanicAsError(v bool) Option { return func(o *Options) { o.PanicAsError = v } }

func WithMonitor(m Monitor) Option { return func(o *Options) { o.Monitor = m } }

// WithMaxTasks bounds concurrently running tasks. It only has an effect on
// a Group; a standalone Spawn ignores it.
func WithMaxTasks(n int) Option { return func(o *Options) { o.MaxTasks = n } }

// Monitor receives lifecycle hooks for tasks. Implementations must be safe
// for concurrent use.
type Monitor interface {
	TaskSpawned(name string)
	StopRequested(name string)
	TaskJoined(name string, wait time.Duration)
	TaskFinished(name string, dur time.Duration, err error, panicked bool)
}

// SpawnError reports that a task could not be started. The worker goroutine
// is never launched when Spawn returns a SpawnError.
type SpawnError struct {
	Cause error
}

func (e *SpawnError) Error() string { return fmt.Sprintf("spawn: %v", e.Cause) }

func (e *SpawnError) Unwrap() error { return e.Cause }

var errNilWork = errors.New("nil work function")

// Task owns one running worker goroutine and the stop controller for it.
// Handles are passed by pointer; copying the struct is not supported.
// RequestStop, Join and Stop are idempotent, so a duplicate handle left
// behind after handing the task off is harmless.
type Task struct {
	name string
	ctl  stop.Controller
	done chan struct{}

	mu     sync.Mutex
	err    error
	joined bool

	opts    Options
	mon     Monitor
	release func()
}

// Spawn starts work on a new goroutine and returns the owning handle. The
// work function receives a stop.Observer bound to the task's controller and
// is expected to poll it at bounded intervals, returning promptly once it
// reports true. Spawn fails with *SpawnError if work is nil.
func Spawn(work func(stop.Observer) error, optFns ...Option) (*Task, error) {
	return spawnWith(defaultOptions(), work, nil, optFns...)
}

func spawnWith(base Options, work func(stop.Observer) error, release func(), optFns ...Option) (*Task, error) {
	if work == nil {
		return nil, &SpawnError{Cause: errNilWork}
	}
	opts := base
	for _, fn := range optFns {
		fn(&opts)
	}
	t := &Task{
		name:    opts.Name,
		ctl:     stop.NewController(),
		done:    make(chan struct{}),
		opts:    opts,
		mon:     opts.Monitor,
		release: release,
	}
	if t.mon != nil {
		t.mon.TaskSpawned(t.name)
	}
	go t.run(work, t.ctl.Observer())
	return t, nil
}

func (t *Task) run(work func(stop.Observer) error, obs stop.Observer) {
	defer close(t.done)
	if t.release != nil {
		defer t.release()
	}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			if t.opts.PanicAsError {
				err := fmt.Errorf("panic: %v", r)
				t.setErr(err)
				if t.mon != nil {
					t.mon.TaskFinished(t.name, time.Since(start), err, true)
				}
			} else {
				if t.mon != nil {
					t.mon.TaskFinished(t.name, time.Since(start), nil, true)
				}
				panic(r)
			}
		}
	}()

	err := work(obs)
	t.setErr(err)
	if t.mon != nil {
		t.mon.TaskFinished(t.name, time.Since(start), err, false)
	}
}

func (t *Task) setErr(err error) {
	if err == nil {
		return
	}
	t.mu.Lock()
	if t.err == nil {
		t.err = err
	}
	t.mu.Unlock()
}

// Name returns the task's label, empty unless set via WithName.
func (t *Task) Name() string { return t.name }

// Observer mints an additional read-only view of the task's stop signal,
// e.g. for sharing with collaborators of the worker.
func (t *Task) Observer() stop.Observer { return t.ctl.Observer() }

// RequestStop asks the worker to stop. Idempotent, never blocks, callable
// from any goroutine. The worker keeps running until it observes the
// request and returns.
func (t *Task) RequestStop() {
	if t.ctl.RequestStop() && t.mon != nil {
		t.mon.StopRequested(t.name)
	}
}

// Join requests a stop if one has not been requested yet, waits for the
// worker to return, and returns the worker's error (or the converted
// panic). Repeated calls do not block again and return the same result.
//
// A worker that never checks its observer never returns, and Join will
// block forever; supplying cooperative work functions is the caller's
// contract.
func (t *Task) Join() error {
	t.RequestStop()
	start := time.Now()
	<-t.done
	return t.finishJoin(start)
}

// JoinContext is a bounded-wait Join. If ctx expires first it returns
// ctx.Err() and the task remains joinable; the stop request still stands.
func (t *Task) JoinContext(ctx context.Context) error {
	t.RequestStop()
	start := time.Now()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.done:
	}
	return t.finishJoin(start)
}

func (t *Task) finishJoin(start time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.joined {
		t.joined = true
		if t.mon != nil {
			t.mon.TaskJoined(t.name, time.Since(start))
		}
	}
	return t.err
}

// Stop requests a stop and waits for the worker to finish, discarding the
// worker's error. It is the defer-friendly form of Join.
func (t *Task) Stop() { _ = t.Join() }

// Finished reports whether the worker has returned.
func (t *Task) Finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Scoped spawns work, runs body with the owning handle, and guarantees the
// task is stopped and joined on every exit path out of body, including
// early returns and panics. Body's error takes precedence; otherwise the
// worker's error is returned.
func Scoped(work func(stop.Observer) error, body func(*Task) error, optFns ...Option) error {
	t, err := Spawn(work, optFns...)
	if err != nil {
		return err
	}
	defer t.Stop()
	if err := body(t); err != nil {
		return err
	}
	return t.Join()
}
