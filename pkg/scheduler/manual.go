package scheduler

import (
	"sort"
	"time"
)

// Manual is a virtual-clock scheduler. Time only moves when Advance is called,
// which makes every timer-driven transition reproducible in tests.
type Manual struct {
	now     time.Duration
	seq     uint64
	pending []*Handle
}

var _ Scheduler = &Manual{}

func NewManual() *Manual {
	return &Manual{}
}

// Now returns the virtual time elapsed since the scheduler was created.
func (m *Manual) Now() time.Duration {
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) *Handle {
	if d < 0 {
		d = 0
	}
	m.seq++
	h := &Handle{id: m.seq, due: m.now + d, fn: fn}
	i := sort.Search(len(m.pending), func(i int) bool {
		p := m.pending[i]
		return p.due > h.due || (p.due == h.due && p.id > h.id)
	})
	m.pending = append(m.pending, nil)
	copy(m.pending[i+1:], m.pending[i:])
	m.pending[i] = h
	return h
}

func (m *Manual) Cancel(h *Handle) {
	if !h.Active() {
		return
	}
	h.cancelled = true
	for i, p := range m.pending {
		if p == h {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}

// Pending returns the number of callbacks waiting to run.
func (m *Manual) Pending() int {
	return len(m.pending)
}

// Advance moves the clock forward by d, running every callback that falls due
// in order, including callbacks scheduled by earlier callbacks in the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for len(m.pending) > 0 && m.pending[0].due <= target {
		h := m.pending[0]
		m.pending = m.pending[1:]
		m.now = h.due
		h.run()
	}
	m.now = target
}

// RunNext jumps to the earliest pending callback and runs it.
// It returns false when nothing is pending.
func (m *Manual) RunNext() bool {
	if len(m.pending) == 0 {
		return false
	}
	m.Advance(m.pending[0].due - m.now)
	return true
}
