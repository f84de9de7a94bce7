package game

import (
	"time"

	"github.com/cbodonnell/suitcase/pkg/effects"
	"github.com/cbodonnell/suitcase/pkg/game/types"
)

// PaceProfile is the countdown presentation of one pace tier.
type PaceProfile struct {
	BlinkInterval float64 // blue blinker, seconds
	PulseInterval float64 // stripe pulse, seconds
	BeepInterval  time.Duration
}

var paceProfiles = map[types.Pace]PaceProfile{
	types.PaceSlow: {BlinkInterval: 0.85, PulseInterval: 0.16, BeepInterval: 650 * time.Millisecond},
	types.PaceMid:  {BlinkInterval: 0.45, PulseInterval: 0.10, BeepInterval: 340 * time.Millisecond},
	types.PaceFast: {BlinkInterval: 0.20, PulseInterval: 0.05, BeepInterval: 180 * time.Millisecond},
}

// PaceFor is the tier for the remaining countdown time.
func (r Rules) PaceFor(remaining int) types.Pace {
	switch {
	case remaining <= r.PaceFastSeconds:
		return types.PaceFast
	case remaining <= r.PaceMidSeconds:
		return types.PaceMid
	}
	return types.PaceSlow
}

func ProfileFor(p types.Pace) PaceProfile {
	if prof, ok := paceProfiles[p]; ok {
		return prof
	}
	return paceProfiles[types.PaceSlow]
}

// Audio cues.
var (
	ToneBeep     = effects.Tone{DurationMs: 60, FrequencyHz: 1000}
	ToneArmed    = effects.Tone{DurationMs: 700, FrequencyHz: 660}
	ToneBoom     = effects.Tone{DurationMs: 1500, FrequencyHz: 90}
	ToneDefuse   = effects.Tone{DurationMs: 900, FrequencyHz: 440}
	ToneCaptured = effects.Tone{DurationMs: 600, FrequencyHz: 880}
	ToneSignal   = effects.Tone{DurationMs: 100, FrequencyHz: 1400}
)
