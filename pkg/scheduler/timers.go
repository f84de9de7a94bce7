package scheduler

import (
	"sort"
	"time"
)

// Timers keeps at most one pending callback per name on top of a Scheduler.
type Timers struct {
	scheduler Scheduler
	handles   map[string]*Handle
}

func NewTimers(s Scheduler) *Timers {
	return &Timers{
		scheduler: s,
		handles:   make(map[string]*Handle),
	}
}

// Start schedules fn under name, revoking whatever was pending under it.
func (t *Timers) Start(name string, d time.Duration, fn func()) {
	t.Stop(name)
	var h *Handle
	h = t.scheduler.AfterFunc(d, func() {
		if t.handles[name] == h {
			delete(t.handles, name)
		}
		fn()
	})
	t.handles[name] = h
}

// Ensure schedules fn under name only if nothing is pending under it.
func (t *Timers) Ensure(name string, d time.Duration, fn func()) bool {
	if t.Pending(name) {
		return false
	}
	t.Start(name, d, fn)
	return true
}

func (t *Timers) Stop(name string) {
	h, ok := t.handles[name]
	if !ok {
		return
	}
	delete(t.handles, name)
	t.scheduler.Cancel(h)
}

func (t *Timers) StopAll() {
	for name := range t.handles {
		t.Stop(name)
	}
}

func (t *Timers) Pending(name string) bool {
	h, ok := t.handles[name]
	return ok && h.Active()
}

// Names returns the names with a pending callback, sorted.
func (t *Timers) Names() []string {
	names := make([]string, 0, len(t.handles))
	for name, h := range t.handles {
		if h.Active() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
