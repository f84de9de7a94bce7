// Package input turns raw key names from the keypad, keyboard or bridge into
// the semantic events the console understands.
package input

import "fmt"

type Kind int

const (
	KindDigit Kind = iota
	KindAlphabetChar
	KindConfirm
	KindCancel
	KindHoldMenuStart
	KindHoldMenuKeepAlive
	KindHoldMenuRelease
	KindSignalPressed
	KindSignalReleased
	KindSimulateScan
	KindDevSkip
)

func (k Kind) String() string {
	switch k {
	case KindDigit:
		return "Digit"
	case KindAlphabetChar:
		return "AlphabetChar"
	case KindConfirm:
		return "Confirm"
	case KindCancel:
		return "Cancel"
	case KindHoldMenuStart:
		return "HoldMenuStart"
	case KindHoldMenuKeepAlive:
		return "HoldMenuKeepAlive"
	case KindHoldMenuRelease:
		return "HoldMenuRelease"
	case KindSignalPressed:
		return "SignalPressed"
	case KindSignalReleased:
		return "SignalReleased"
	case KindSimulateScan:
		return "SimulateScan"
	case KindDevSkip:
		return "DevSkip"
	}
	return "Unknown"
}

// Event is a normalized input event. Digit is set for KindDigit and Char for
// KindAlphabetChar.
type Event struct {
	Kind  Kind
	Digit int
	Char  byte
}

func (e Event) String() string {
	switch e.Kind {
	case KindDigit:
		return fmt.Sprintf("Digit(%d)", e.Digit)
	case KindAlphabetChar:
		return fmt.Sprintf("AlphabetChar(%c)", e.Char)
	}
	return e.Kind.String()
}

func Digit(n int) Event { return Event{Kind: KindDigit, Digit: n} }
func AlphabetChar(c byte) Event { return Event{Kind: KindAlphabetChar, Char: c} }
func Confirm() Event { return Event{Kind: KindConfirm} }
func Cancel() Event { return Event{Kind: KindCancel} }
func HoldMenuStart() Event { return Event{Kind: KindHoldMenuStart} }
func HoldMenuKeepAlive() Event { return Event{Kind: KindHoldMenuKeepAlive} }
func HoldMenuRelease() Event { return Event{Kind: KindHoldMenuRelease} }
func SignalPressed() Event { return Event{Kind: KindSignalPressed} }
func SignalReleased() Event { return Event{Kind: KindSignalReleased} }
func SimulateScan() Event { return Event{Kind: KindSimulateScan} }
func DevSkip() Event { return Event{Kind: KindDevSkip} }
