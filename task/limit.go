package task

import "golang.org/x/sync/semaphore"

// Limiter bounds concurrently running tasks within a Group. Acquisition is
// non-blocking: a Group reports limit exhaustion as a SpawnError instead of
// queueing work.
type Limiter interface {
	TryAcquire() bool
	Release()
}

type semLimiter struct {
	sem *semaphore.Weighted
}

func newSemaphoreLimiter(n int) Limiter {
	if n <= 0 {
		return nil
	}
	return &semLimiter{sem: semaphore.NewWeighted(int64(n))}
}

func (l *semLimiter) TryAcquire() bool { return l.sem.TryAcquire(1) }

func (l *semLimiter) Release() { l.sem.Release(1) }
