package messages

import (
	"encoding/json"
	"fmt"

	"github.com/cbodonnell/suitcase/pkg/input"
)

const (
	// MessageBufferSize is the largest frame the keypad bridge accepts
	MessageBufferSize = 1024
)

type MessageType byte

// Message types
const (
	MessageTypeKeyEvent MessageType = iota + 1
	MessageTypePing
	MessageTypePong
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeKeyEvent:
		return "key"
	case MessageTypePing:
		return "ping"
	case MessageTypePong:
		return "pong"
	}
	return fmt.Sprintf("unknown(%d)", byte(t))
}

// Message is the keypad bridge envelope.
type Message struct {
	Type     MessageType
	Sequence uint32
	Payload  []byte
}

type KeyAction string

const (
	KeyActionDown KeyAction = "down"
	KeyActionUp   KeyAction = "up"
	// KeyActionTap is a press immediately followed by a release.
	KeyActionTap KeyAction = "tap"
)

// KeyEvent is a raw key transition reported by a keypad bridge.
type KeyEvent struct {
	Key    string    `json:"key"`
	Action KeyAction `json:"action"`
}

func NewKeyEventMessage(sequence uint32, ev KeyEvent) (*Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key event: %v", err)
	}
	return &Message{Type: MessageTypeKeyEvent, Sequence: sequence, Payload: payload}, nil
}

// KeyEvent decodes the payload of a key event message.
func (m *Message) KeyEvent() (KeyEvent, error) {
	if m.Type != MessageTypeKeyEvent {
		return KeyEvent{}, fmt.Errorf("message is %s, not a key event", m.Type)
	}
	ev := KeyEvent{}
	if err := json.Unmarshal(m.Payload, &ev); err != nil {
		return KeyEvent{}, fmt.Errorf("failed to unmarshal key event: %v", err)
	}
	switch ev.Action {
	case KeyActionDown, KeyActionUp, KeyActionTap:
	default:
		return KeyEvent{}, fmt.Errorf("unknown key action: %q", ev.Action)
	}
	return ev, nil
}

// Apply feeds the transition through keymap and returns the console events
// it produces.
func (ev KeyEvent) Apply(keymap *input.Keymap) []input.Event {
	switch ev.Action {
	case KeyActionDown:
		return keymap.Press(ev.Key)
	case KeyActionUp:
		return keymap.Release(ev.Key)
	case KeyActionTap:
		return keymap.Tap(ev.Key)
	}
	return nil
}
