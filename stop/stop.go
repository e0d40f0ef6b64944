package stop

import (
	"sync/atomic"
)

// signal is the shared stop flag. It is reachable only through Controller
// and Observer handles; the last handle to go away takes the signal with it.
type signal struct {
	requested atomic.Bool
	done      chan struct{}
}

func newSignal() *signal {
	return &signal{done: make(chan struct{})}
}

// set flips the flag to requested. It reports whether this call made the
// transition. The transition is one-directional and never resets.
func (s *signal) set() bool {
	if s.requested.CompareAndSwap(false, true) {
		close(s.done)
		return true
	}
	return false
}

func (s *signal) isSet() bool { return s.requested.Load() }

// never is handed out by zero-value observers so that Done never returns nil.
var never = make(chan struct{})

// Controller is the writer side of a stop token. It can request a stop and
// mint read-only Observer views of the same underlying signal. Controllers
// are value types; copies share the signal.
type Controller struct {
	s *signal
}

// NewController creates a controller with a fresh, unrequested signal.
func NewController() Controller {
	return Controller{s: newSignal()}
}

// RequestStop marks the signal as requested. It is idempotent and never
// blocks; it reports whether this call was the one that made the request.
// Safe to call from any goroutine.
func (c Controller) RequestStop() bool {
	if c.s == nil {
		return false
	}
	return c.s.set()
}

// StopRequested reports whether a stop has been requested on this
// controller's signal.
func (c Controller) StopRequested() bool {
	return c.s != nil && c.s.isSet()
}

// Observer mints a read-only view of the controller's signal. It may be
// called any number of times, including after RequestStop; observers minted
// after the request immediately report true.
func (c Controller) Observer() Observer {
	return Observer{s: c.s}
}

// Observer is a read-only view of a stop signal. Observers are freely
// copyable; all copies observe the same transitions. An Observer cannot
// request a stop.
//
// Workers receiving an Observer are expected to poll StopRequested (or
// select on Done) at bounded intervals and return promptly once it reports
// true.
type Observer struct {
	s *signal
}

// StopRequested reports whether a stop has been requested. It is a pure
// atomic read, safe to call concurrently with RequestStop from any number
// of goroutines.
func (o Observer) StopRequested() bool {
	return o.s != nil && o.s.isSet()
}

// Done returns a channel closed once a stop is requested, for use in select
// statements. A zero-value Observer returns a channel that is never closed.
func (o Observer) Done() <-chan struct{} {
	if o.s == nil {
		return never
	}
	return o.s.done
}
