package effects

import (
	"sync"
	"time"
)

// PanelState is the simulated state of the console's lamps and stripe.
// A zero interval means the output is not blinking.
type PanelState struct {
	RedOn       bool    `json:"redOn"`
	BlueOn      bool    `json:"blueOn"`
	RedBlink    float64 `json:"redBlink"`
	BlueBlink   float64 `json:"blueBlink"`
	Stripe      RGB     `json:"stripe"`
	StripePulse float64 `json:"stripePulse"`
	LastTone    Tone    `json:"lastTone"`
	TonesPlayed int     `json:"tonesPlayed"`
}

// Lit reports whether ch is visibly on at the given time, taking blinking
// into account.
func (s PanelState) Lit(ch Channel, at time.Duration) bool {
	on, blink := s.RedOn, s.RedBlink
	if ch == ChannelBlue {
		on, blink = s.BlueOn, s.BlueBlink
	}
	if blink > 0 {
		return phaseOn(at, blink)
	}
	return on
}

// StripeAt returns the stripe colour visible at the given time.
func (s PanelState) StripeAt(at time.Duration) RGB {
	if s.StripePulse > 0 && !phaseOn(at, s.StripePulse) {
		return Black
	}
	return s.Stripe
}

func phaseOn(at time.Duration, intervalSeconds float64) bool {
	period := time.Duration(intervalSeconds * float64(time.Second))
	if period <= 0 {
		return true
	}
	return (at/period)%2 == 0
}

// Panel is a Dispatcher that tracks what the hardware would be showing.
// Renderers read it from their own goroutines.
type Panel struct {
	lock  sync.RWMutex
	state PanelState
}

func NewPanel() *Panel {
	return &Panel{}
}

func (p *Panel) Dispatch(cmds []Command) {
	p.lock.Lock()
	defer p.lock.Unlock()
	for _, c := range cmds {
		p.apply(c)
	}
}

func (p *Panel) apply(c Command) {
	s := &p.state
	switch c.Kind {
	case KindStopAllBlinkers:
		s.RedBlink = 0
		s.BlueBlink = 0
		s.StripePulse = 0
	case KindAllOutputsOff:
		s.RedOn = false
		s.BlueOn = false
		s.Stripe = Black
	case KindSetSolidOutput:
		if c.Channel == ChannelRed {
			s.RedOn = true
			s.RedBlink = 0
		} else {
			s.BlueOn = true
			s.BlueBlink = 0
		}
	case KindSetStripeColor:
		s.Stripe = c.Color
	case KindStartBlinker:
		if c.Channel == ChannelRed {
			s.RedBlink = c.Interval
		} else {
			s.BlueBlink = c.Interval
		}
	case KindStartStripePulse:
		s.StripePulse = c.Interval
	case KindPlayTone:
		s.LastTone = Tone{DurationMs: c.DurationMs, FrequencyHz: c.FrequencyHz}
		s.TonesPlayed++
	}
}

func (p *Panel) State() PanelState {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.state
}
