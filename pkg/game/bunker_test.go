package game

import (
	"testing"
	"time"

	"github.com/cbodonnell/suitcase/pkg/effects"
	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/cbodonnell/suitcase/pkg/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startBunker(h *harness) {
	h.send(input.Digit(2), input.Confirm())
	require.Equal(h.t, types.PhaseBunker, h.session().Phase)
}

func TestBunker_Accumulates(t *testing.T) {
	h := newHarness(t, DefaultRules(), Features{})
	startBunker(h)

	h.seconds(5)
	b := h.session().Bunker
	assert.Equal(t, 0, b.BlueSeconds)
	assert.Equal(t, 0, b.RedSeconds)

	h.rec.Reset()
	h.send(input.Cancel())
	assert.Equal(t, []effects.Command{
		effects.StopAllBlinkers(),
		effects.AllOutputsOff(),
		effects.SetSolidOutput(effects.ChannelRed),
		effects.SetStripeColor(effects.Red),
		effects.StartStripePulse(0.28),
	}, h.rec.Commands())

	h.rec.Reset()
	h.send(input.Cancel())
	assert.Empty(t, h.rec.Commands(), "re-selecting the holder is idempotent")

	h.seconds(3)
	h.send(input.Confirm())
	h.seconds(2)

	b = h.session().Bunker
	assert.Equal(t, 3, b.RedSeconds)
	assert.Equal(t, 2, b.BlueSeconds)
	assert.Equal(t, types.TeamBlue, b.ActiveTeam)
	assert.Equal(t, types.TeamNone, b.Winner)
}

func TestBunker_WinAndSignal(t *testing.T) {
	h := newHarness(t, DefaultRules(), Features{})
	startBunker(h)
	h.send(input.Confirm())

	h.send(input.SignalPressed())
	assert.False(t, h.session().Bunker.SignalActive, "no signal before a winner")

	h.seconds(599)
	b := h.session().Bunker
	assert.Equal(t, 599, b.BlueSeconds)
	assert.Equal(t, types.TeamNone, b.Winner)

	h.seconds(1)
	b = h.session().Bunker
	assert.Equal(t, 600, b.BlueSeconds)
	assert.Equal(t, types.TeamBlue, b.Winner)
	assert.Equal(t, types.TeamBlue, b.ActiveTeam)
	assert.Empty(t, h.timers(), "the tick stops once a team won")
	assert.Equal(t, 1, h.tones(ToneCaptured))

	rec := h.nextRound()
	assert.Equal(t, types.OutcomeCaptured, rec.Outcome)
	assert.Equal(t, "blue", rec.Winner)
	assert.Equal(t, 600*time.Second, rec.Duration())

	h.send(input.Cancel())
	h.seconds(10)
	b = h.session().Bunker
	assert.Equal(t, types.TeamBlue, b.ActiveTeam, "team switches after the win are ignored")
	assert.Equal(t, 600, b.BlueSeconds)
	assert.Equal(t, 0, b.RedSeconds)

	h.send(input.SignalReleased())
	assert.Equal(t, types.PhaseBunker, h.session().Phase, "release without an active signal does nothing")

	h.rec.Reset()
	h.send(input.SignalPressed())
	assert.True(t, h.session().Bunker.SignalActive)
	assert.Equal(t, []string{TimerBunkerSignal}, h.timers())
	h.send(input.SignalPressed())

	h.advance(time.Second)
	assert.Equal(t, 4, h.tones(ToneSignal))

	h.send(input.SignalReleased())
	assert.Equal(t, freshMenu(), h.session())
	assert.Equal(t, 0, h.sched.Pending())
	assert.Empty(t, h.rounds, "the round was already recorded at the win")
}

func TestBunker_RedWins(t *testing.T) {
	rules := DefaultRules()
	rules.BunkerTargetSeconds = 10
	h := newHarness(t, rules, Features{})
	startBunker(h)

	h.send(input.Confirm())
	h.seconds(9)
	h.send(input.Cancel())
	h.seconds(10)

	b := h.session().Bunker
	assert.Equal(t, types.TeamRed, b.Winner)
	assert.Equal(t, 9, b.BlueSeconds)
	assert.Equal(t, 10, b.RedSeconds)
}

func TestFlag(t *testing.T) {
	h := newHarness(t, DefaultRules(), Features{})
	h.send(input.Digit(3), input.Confirm())
	require.Equal(t, types.PhaseFlag, h.session().Phase)
	assert.Equal(t, types.TeamNone, h.session().Flag.Team)

	h.rec.Reset()
	h.send(input.Cancel())
	assert.Equal(t, types.TeamRed, h.session().Flag.Team)
	assert.Equal(t, []effects.Command{
		effects.StopAllBlinkers(),
		effects.AllOutputsOff(),
		effects.SetSolidOutput(effects.ChannelRed),
		effects.SetStripeColor(effects.Red),
		effects.StartStripePulse(0.25),
	}, h.rec.Commands())

	h.send(input.Confirm())
	assert.Equal(t, types.TeamBlue, h.session().Flag.Team)
	assert.Empty(t, h.timers())

	h.send(input.HoldMenuStart())
	h.seconds(3)
	assert.Equal(t, freshMenu(), h.session())

	rec := h.nextRound()
	assert.Equal(t, "flag", rec.Mode)
	assert.Equal(t, types.OutcomeCaptured, rec.Outcome)
	assert.Equal(t, "blue", rec.Winner)
}
