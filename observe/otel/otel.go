package otel

import (
	"time"
)

// Nop is a no-op implementation of the task.Monitor interface.
// It serves as a placeholder for an OpenTelemetry-backed monitor without adding dependencies.
type Nop struct{}

// NewNop returns a no-op monitor.
func NewNop() *Nop { return &Nop{} }

func (*Nop) TaskSpawned(string)                              {}
func (*Nop) StopRequested(string)                            {}
func (*Nop) TaskJoined(string, time.Duration)                {}
func (*Nop) TaskFinished(string, time.Duration, error, bool) {}
