package input

import (
	"strings"
	"sync"
	"time"
)

// Raw key names of the console: the 4x4 keypad plus the two side buttons.
const (
	KeyHash   = "#"
	KeyStar   = "*"
	KeyEnter  = "enter"
	KeyDelete = "delete"
)

// NormalizeKey maps aliases used by keyboards and the bridge onto the console
// key names. It returns "" for keys the console does not have.
func NormalizeKey(raw string) string {
	k := strings.TrimSpace(raw)
	switch strings.ToLower(k) {
	case "enter", "return", "kpenter", "numpadenter":
		return KeyEnter
	case "delete", "backspace", "del":
		return KeyDelete
	case "#", "hash", "numbersign":
		return KeyHash
	case "*", "star", "asterisk", "kpmultiply", "numpadmultiply":
		return KeyStar
	}
	if len(k) != 1 {
		return ""
	}
	c := k[0]
	switch {
	case c >= '0' && c <= '9':
		return k
	case c >= 'a' && c <= 'd':
		return strings.ToUpper(k)
	case c >= 'A' && c <= 'D':
		return k
	}
	return ""
}

// Keymap translates key presses and releases into events. It remembers which
// keys are down so a repeated press of a held key is not mistaken for a new
// one. Safe for concurrent use.
type Keymap struct {
	lock sync.Mutex
	down map[string]bool
}

func NewKeymap() *Keymap {
	return &Keymap{down: make(map[string]bool)}
}

// Press returns the events for a key going down.
func (m *Keymap) Press(raw string) []Event {
	key := NormalizeKey(raw)
	if key == "" {
		return nil
	}
	m.lock.Lock()
	held := m.down[key]
	m.down[key] = true
	m.lock.Unlock()

	switch key {
	case KeyHash:
		if held {
			return []Event{HoldMenuKeepAlive()}
		}
		return []Event{HoldMenuStart()}
	case KeyStar:
		if held {
			return nil
		}
		return []Event{SignalPressed(), DevSkip()}
	case KeyEnter:
		return []Event{Confirm()}
	case KeyDelete:
		return []Event{Cancel()}
	}

	c := key[0]
	if c >= '0' && c <= '9' {
		return []Event{Digit(int(c - '0')), AlphabetChar(c)}
	}
	if c == 'A' {
		return []Event{AlphabetChar(c), SimulateScan()}
	}
	return []Event{AlphabetChar(c)}
}

// Release returns the events for a key going up.
func (m *Keymap) Release(raw string) []Event {
	key := NormalizeKey(raw)
	if key == "" {
		return nil
	}
	m.lock.Lock()
	held := m.down[key]
	delete(m.down, key)
	m.lock.Unlock()

	if !held {
		return nil
	}
	switch key {
	case KeyHash:
		return []Event{HoldMenuRelease()}
	case KeyStar:
		return []Event{SignalReleased()}
	}
	return nil
}

// ReleaseAll releases every key that is down, hold keys first.
func (m *Keymap) ReleaseAll() []Event {
	m.lock.Lock()
	keys := make([]string, 0, len(m.down))
	for key := range m.down {
		keys = append(keys, key)
	}
	m.lock.Unlock()

	var events []Event
	for _, key := range []string{KeyHash, KeyStar} {
		events = append(events, m.Release(key)...)
	}
	for _, key := range keys {
		events = append(events, m.Release(key)...)
	}
	return events
}

// Tap is a press immediately followed by a release.
func (m *Keymap) Tap(raw string) []Event {
	return append(m.Press(raw), m.Release(raw)...)
}

// DefaultHoldTimeout is longer than the initial auto-repeat delay of common
// terminals.
const DefaultHoldTimeout = 600 * time.Millisecond

// HoldTracker derives press and release edges for the hold keys from
// terminals that only report key presses (with auto-repeat while held).
// A hold key counts as released once no repeat arrived within the timeout.
// Every other key is treated as a tap.
type HoldTracker struct {
	keymap  *Keymap
	timeout time.Duration
	last    map[string]time.Time
}

func NewHoldTracker(keymap *Keymap, timeout time.Duration) *HoldTracker {
	if timeout <= 0 {
		timeout = DefaultHoldTimeout
	}
	return &HoldTracker{
		keymap:  keymap,
		timeout: timeout,
		last:    make(map[string]time.Time),
	}
}

func (h *HoldTracker) Press(raw string, now time.Time) []Event {
	key := NormalizeKey(raw)
	if key != KeyHash && key != KeyStar {
		return h.keymap.Tap(key)
	}
	h.last[key] = now
	return h.keymap.Press(key)
}

// Expire releases hold keys whose repeats stopped. Call it periodically.
func (h *HoldTracker) Expire(now time.Time) []Event {
	var events []Event
	for _, key := range []string{KeyHash, KeyStar} {
		at, ok := h.last[key]
		if !ok || now.Sub(at) < h.timeout {
			continue
		}
		delete(h.last, key)
		events = append(events, h.keymap.Release(key)...)
	}
	return events
}

// Holding reports whether key is currently considered held.
func (h *HoldTracker) Holding(raw string) bool {
	_, ok := h.last[NormalizeKey(raw)]
	return ok
}
