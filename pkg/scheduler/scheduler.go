// Package scheduler provides the cancellable one-shot callbacks every timer
// in the console is built from. Nothing here repeats on its own: periodic
// behaviour is a callback that schedules its successor.
package scheduler

import "time"

// Scheduler runs fn once after d unless the returned handle is cancelled first.
// Callbacks never run concurrently with each other or with the code that
// scheduled them.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) *Handle
	Cancel(h *Handle)
}

// Handle identifies one scheduled callback. It is owned by whoever scheduled
// it; once cancelled or fired it can never run again.
type Handle struct {
	id        uint64
	due       time.Duration
	fn        func()
	cancelled bool
	fired     bool
	timer     *time.Timer
	// release abandons a realtime firing still waiting for queue room.
	release   func()
}

// Active reports whether the callback is still waiting to run.
func (h *Handle) Active() bool {
	return h != nil && !h.cancelled && !h.fired
}

// run executes the callback unless it was revoked in the meantime.
func (h *Handle) run() bool {
	if !h.Active() {
		return false
	}
	h.fired = true
	h.fn()
	return true
}
