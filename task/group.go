package task

import (
	"errors"
	"sync"

	"github.com/NetPo4ki/go-stoptask/stop"
)

// ErrTooManyTasks is the cause of the SpawnError returned when a Group's
// WithMaxTasks limit is exhausted.
var ErrTooManyTasks = errors.New("too many running tasks")

// Group owns a set of individually spawned tasks and can stop and join them
// together. It is a lifecycle container, not a scheduler: each task still
// runs on its own goroutine with its own stop signal.
type Group struct {
	opts Options
	lim  Limiter

	mu    sync.Mutex
	tasks []*Task
}

// NewGroup creates a Group. Options set here become the defaults for every
// task spawned through the group.
func NewGroup(optFns ...Option) *Group {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	g := &Group{opts: opts}
	if opts.MaxTasks > 0 {
		g.lim = newSemaphoreLimiter(opts.MaxTasks)
	}
	return g
}

// Spawn starts work as a task owned by the group. Per-call options override
// the group's. When the WithMaxTasks limit is reached Spawn fails with a
// *SpawnError wrapping ErrTooManyTasks; a finished task frees its slot.
func (g *Group) Spawn(work func(stop.Observer) error, optFns ...Option) (*Task, error) {
	var release func()
	if g.lim != nil {
		if !g.lim.TryAcquire() {
			return nil, &SpawnError{Cause: ErrTooManyTasks}
		}
		release = g.lim.Release
	}
	t, err := spawnWith(g.opts, work, release, optFns...)
	if err != nil {
		if release != nil {
			release()
		}
		return nil, err
	}
	g.mu.Lock()
	g.tasks = append(g.tasks, t)
	g.mu.Unlock()
	return t, nil
}

// RequestStop asks every task in the group to stop. Never blocks.
func (g *Group) RequestStop() {
	for _, t := range g.snapshot() {
		t.RequestStop()
	}
}

// Join stops and joins every task in the group and returns the first worker
// error. Like Task.Join it may be called repeatedly; tasks spawned after
// Join starts are picked up by the next call.
func (g *Group) Join() error {
	g.RequestStop()
	var firstErr error
	for _, t := range g.snapshot() {
		if err := t.Join(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Stop stops and joins every task, discarding errors.
func (g *Group) Stop() { _ = g.Join() }

func (g *Group) snapshot() []*Task {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Task(nil), g.tasks...)
}
