// Package task provides owned, auto-joining handles for worker goroutines
// driven by cooperative stop tokens. A Task owns exactly one worker; the
// owner can request a stop at any time, and joining is guaranteed on every
// exit path via Scoped or a deferred Stop, so a forgotten worker can never
// outlive its owner unnoticed.
package task
