// Package acquire orchestrates the acquisition pipeline: it owns the
// channel set and the single polling worker, and fans measurements and
// alarms out to registered callbacks.
//
// # Scheduling model
//
// Exactly one worker goroutine executes the full poll cycle serially; the
// shared bus is single-master, so channels cannot be polled in parallel.
// Callbacks run synchronously on the worker: a slow callback delays the
// next cycle. Callback implementations must be fast or hand work off to
// their own goroutine.
//
// Start and Stop are idempotent. Stop cancels the worker, interrupting an
// in-progress inter-cycle wait, and blocks until the worker has exited:
// when Stop returns, no further callback will fire.
package acquire
