// Package pool recycles timers used for poll-cycle pacing so a worker
// running at a fixed interval does not allocate a timer per cycle.
package pool

import (
	"sync"
	"time"
)

var timerPool sync.Pool

// GetTimer returns a timer armed for duration d, reusing a pooled timer
// when one is available. Return it with PutTimer.
func GetTimer(d time.Duration) *time.Timer {
	v := timerPool.Get()
	if v == nil {
		return time.NewTimer(d)
	}

	t := v.(*time.Timer)
	if t.Reset(d) {
		// The timer was still armed; drain a pending fire so the caller
		// never observes a stale tick.
		select {
		case <-t.C:
		default:
		}
	}

	return t
}

// PutTimer stops t and returns it to the pool. The caller must not touch
// t afterwards.
func PutTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}

	timerPool.Put(t)
}
