// Package stop provides a cooperative cancellation token: a one-shot,
// thread-safe stop flag split into a writer handle (Controller) and
// cheap read-only views (Observer). Cancellation is strictly
// cooperative — a worker that never checks its observer never stops.
package stop
