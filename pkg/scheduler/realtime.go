package scheduler

import (
	"context"
	"time"

	"github.com/cbodonnell/suitcase/pkg/log"
	"github.com/cbodonnell/suitcase/pkg/queue"
)

// Firing is delivered through the console queue when a realtime timer expires.
// The consumer calls Run on its own goroutine.
type Firing struct {
	handle *Handle
}

// Run executes the callback if it has not been cancelled since it expired.
func (f Firing) Run() bool {
	return f.handle.run()
}

// Realtime backs handles with Go timers but never runs callbacks on the timer
// goroutine: expirations are queued and executed by the queue's consumer.
// An expired timer waits for room in the queue rather than being dropped, and
// stops waiting once its handle is cancelled.
type Realtime struct {
	queue queue.Queue
}

var _ Scheduler = &Realtime{}

func NewRealtime(q queue.Queue) *Realtime {
	return &Realtime{queue: q}
}

func (s *Realtime) AfterFunc(d time.Duration, fn func()) *Handle {
	ctx, release := context.WithCancel(context.Background())
	h := &Handle{fn: fn, release: release}
	h.timer = time.AfterFunc(d, func() {
		defer release()
		if err := s.queue.EnqueueWait(ctx, Firing{handle: h}); err != nil && ctx.Err() == nil {
			log.Error("Failed to enqueue timer firing: %v", err)
		}
	})
	return h
}

// Cancel must be called from the queue consumer's goroutine.
func (s *Realtime) Cancel(h *Handle) {
	if !h.Active() {
		return
	}
	h.cancelled = true
	h.timer.Stop()
	h.release()
}
