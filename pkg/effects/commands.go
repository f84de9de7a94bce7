// Package effects describes the presentation the console asks for. The game
// core only builds Command values; dispatchers decide whether they end up on
// GPIO pins, an LED stripe, a speaker, a screen or a log.
package effects

import "fmt"

// Channel is one of the two solid indicator lamps.
type Channel int

const (
	ChannelRed Channel = iota
	ChannelBlue
)

func (c Channel) String() string {
	switch c {
	case ChannelRed:
		return "red"
	case ChannelBlue:
		return "blue"
	}
	return "unknown"
}

// RGB is a stripe colour.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

var (
	Black = RGB{}
	Red   = RGB{R: 255}
	Green = RGB{G: 255}
	Blue  = RGB{B: 255}
)

func (c RGB) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}

type CommandKind int

const (
	KindStopAllBlinkers CommandKind = iota
	KindAllOutputsOff
	KindSetSolidOutput
	KindSetStripeColor
	KindStartBlinker
	KindStartStripePulse
	KindPlayTone
)

func (k CommandKind) String() string {
	switch k {
	case KindStopAllBlinkers:
		return "StopAllBlinkers"
	case KindAllOutputsOff:
		return "AllOutputsOff"
	case KindSetSolidOutput:
		return "SetSolidOutput"
	case KindSetStripeColor:
		return "SetStripeColor"
	case KindStartBlinker:
		return "StartBlinker"
	case KindStartStripePulse:
		return "StartStripePulse"
	case KindPlayTone:
		return "PlayTone"
	}
	return "Unknown"
}

// Command is a single presentation request. Only the fields relevant to Kind
// are set, which keeps commands comparable with ==.
type Command struct {
	Kind        CommandKind
	Channel     Channel
	Color       RGB
	Interval    float64 // seconds
	DurationMs  int
	FrequencyHz int
}

func StopAllBlinkers() Command {
	return Command{Kind: KindStopAllBlinkers}
}

func AllOutputsOff() Command {
	return Command{Kind: KindAllOutputsOff}
}

func SetSolidOutput(ch Channel) Command {
	return Command{Kind: KindSetSolidOutput, Channel: ch}
}

func SetStripeColor(c RGB) Command {
	return Command{Kind: KindSetStripeColor, Color: c}
}

func StartBlinker(ch Channel, intervalSeconds float64) Command {
	return Command{Kind: KindStartBlinker, Channel: ch, Interval: intervalSeconds}
}

func StartStripePulse(intervalSeconds float64) Command {
	return Command{Kind: KindStartStripePulse, Interval: intervalSeconds}
}

func PlayTone(durationMs, frequencyHz int) Command {
	return Command{Kind: KindPlayTone, DurationMs: durationMs, FrequencyHz: frequencyHz}
}

func (c Command) String() string {
	switch c.Kind {
	case KindSetSolidOutput:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Channel)
	case KindSetStripeColor:
		return fmt.Sprintf("%s%s", c.Kind, c.Color)
	case KindStartBlinker:
		return fmt.Sprintf("%s(%s, %.2fs)", c.Kind, c.Channel, c.Interval)
	case KindStartStripePulse:
		return fmt.Sprintf("%s(%.2fs)", c.Kind, c.Interval)
	case KindPlayTone:
		return fmt.Sprintf("%s(%dms, %dHz)", c.Kind, c.DurationMs, c.FrequencyHz)
	}
	return c.Kind.String()
}

// Tone is a PlayTone request without the command envelope.
type Tone struct {
	DurationMs  int `json:"durationMs"`
	FrequencyHz int `json:"frequencyHz"`
}

// Command returns the PlayTone command for the tone.
func (t Tone) Command() Command {
	return PlayTone(t.DurationMs, t.FrequencyHz)
}
