package input

import (
	"github.com/cbodonnell/suitcase/pkg/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// keyNames maps keyboard keys onto console keys. Escape stands in for the
// menu key and space for the signal button.
var keyNames = map[ebiten.Key]string{
	ebiten.KeyDigit0:         "0",
	ebiten.KeyDigit1:         "1",
	ebiten.KeyDigit2:         "2",
	ebiten.KeyDigit3:         "3",
	ebiten.KeyDigit4:         "4",
	ebiten.KeyDigit5:         "5",
	ebiten.KeyDigit6:         "6",
	ebiten.KeyDigit7:         "7",
	ebiten.KeyDigit8:         "8",
	ebiten.KeyDigit9:         "9",
	ebiten.KeyNumpad0:        "0",
	ebiten.KeyNumpad1:        "1",
	ebiten.KeyNumpad2:        "2",
	ebiten.KeyNumpad3:        "3",
	ebiten.KeyNumpad4:        "4",
	ebiten.KeyNumpad5:        "5",
	ebiten.KeyNumpad6:        "6",
	ebiten.KeyNumpad7:        "7",
	ebiten.KeyNumpad8:        "8",
	ebiten.KeyNumpad9:        "9",
	ebiten.KeyA:              "A",
	ebiten.KeyB:              "B",
	ebiten.KeyC:              "C",
	ebiten.KeyD:              "D",
	ebiten.KeyEnter:          input.KeyEnter,
	ebiten.KeyNumpadEnter:    input.KeyEnter,
	ebiten.KeyBackspace:      input.KeyDelete,
	ebiten.KeyDelete:         input.KeyDelete,
	ebiten.KeyEscape:         input.KeyHash,
	ebiten.KeyNumpadMultiply: input.KeyStar,
	ebiten.KeySpace:          input.KeyStar,
}

// KeyName returns the console key for k, or "" if it has none. Shift+3 and
// Shift+8 type # and * on common layouts.
func KeyName(k ebiten.Key, shift bool) string {
	if shift {
		switch k {
		case ebiten.KeyDigit3:
			return input.KeyHash
		case ebiten.KeyDigit8:
			return input.KeyStar
		}
	}
	return keyNames[k]
}

// KeyTracker reports console key presses and releases from the keyboard. A
// release is reported under the same name as its press even if shift changed
// in between.
type KeyTracker struct {
	down map[ebiten.Key]string
	keys []ebiten.Key
}

func NewKeyTracker() *KeyTracker {
	return &KeyTracker{down: make(map[ebiten.Key]string)}
}

// Update must be called once per tick. It returns the console keys that went
// down and up since the last call.
func (t *KeyTracker) Update() (pressed, released []string) {
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	t.keys = inpututil.AppendJustPressedKeys(t.keys[:0])
	for _, k := range t.keys {
		name := KeyName(k, shift)
		if name == "" {
			continue
		}
		t.down[k] = name
		pressed = append(pressed, name)
	}

	t.keys = inpututil.AppendJustReleasedKeys(t.keys[:0])
	for _, k := range t.keys {
		name, ok := t.down[k]
		if !ok {
			continue
		}
		delete(t.down, k)
		released = append(released, name)
	}
	return pressed, released
}
