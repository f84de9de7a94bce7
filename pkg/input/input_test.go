package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"1":         "1",
		"b":         "B",
		"D":         "D",
		"E":         "",
		"Return":    KeyEnter,
		"BackSpace": KeyDelete,
		"hash":      KeyHash,
		"*":         KeyStar,
		"space":     "",
		"":          "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeKey(in), in)
	}
}

func TestKeymap_Press(t *testing.T) {
	tests := []struct {
		key  string
		want []Event
	}{
		{"2", []Event{Digit(2), AlphabetChar('2')}},
		{"A", []Event{AlphabetChar('A'), SimulateScan()}},
		{"c", []Event{AlphabetChar('C')}},
		{"enter", []Event{Confirm()}},
		{"delete", []Event{Cancel()}},
		{"#", []Event{HoldMenuStart()}},
		{"*", []Event{SignalPressed(), DevSkip()}},
		{"x", nil},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, NewKeymap().Press(tt.key))
		})
	}
}

func TestKeymap_HoldKeys(t *testing.T) {
	m := NewKeymap()
	assert.Equal(t, []Event{HoldMenuStart()}, m.Press("#"))
	assert.Equal(t, []Event{HoldMenuKeepAlive()}, m.Press("#"))
	assert.Equal(t, []Event{HoldMenuRelease()}, m.Release("#"))
	assert.Nil(t, m.Release("#"))

	assert.Equal(t, []Event{SignalPressed(), DevSkip()}, m.Press("*"))
	assert.Nil(t, m.Press("*"))
	assert.Equal(t, []Event{SignalReleased()}, m.Release("*"))

	assert.Equal(t, []Event{Confirm()}, m.Tap("enter"))
}

func TestHoldTracker(t *testing.T) {
	h := NewHoldTracker(NewKeymap(), 500*time.Millisecond)
	t0 := time.Unix(0, 0)

	assert.Equal(t, []Event{HoldMenuStart()}, h.Press("#", t0))
	assert.Equal(t, []Event{HoldMenuKeepAlive()}, h.Press("#", t0.Add(400*time.Millisecond)))
	assert.Empty(t, h.Expire(t0.Add(800*time.Millisecond)))
	assert.True(t, h.Holding("#"))

	assert.Equal(t, []Event{HoldMenuRelease()}, h.Expire(t0.Add(900*time.Millisecond)))
	assert.False(t, h.Holding("#"))

	// other keys are taps
	assert.Equal(t, []Event{Digit(1), AlphabetChar('1')}, h.Press("1", t0))
	assert.Empty(t, h.Expire(t0.Add(time.Hour)))
}

func TestKeymap_ReleaseAll(t *testing.T) {
	m := NewKeymap()
	m.Press("#")
	m.Press("*")
	m.Press("5")

	assert.Equal(t, []Event{HoldMenuRelease(), SignalReleased()}, m.ReleaseAll())
	assert.Empty(t, m.ReleaseAll())
}
