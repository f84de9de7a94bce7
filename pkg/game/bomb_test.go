package game

import (
	"strings"
	"testing"
	"time"

	"github.com/cbodonnell/suitcase/pkg/effects"
	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/cbodonnell/suitcase/pkg/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBomb_StartByDifficulty(t *testing.T) {
	tests := []struct {
		difficulty types.Difficulty
		features   Features
		stage      types.Stage
		targets    int
	}{
		{types.DifficultyEasy, Features{}, types.StageAwaitCode, 0},
		{types.DifficultyMedium, Features{}, types.StageAwaitCode, 1},
		{types.DifficultyHard, Features{}, types.StageAwaitNfc, 2},
		{types.DifficultyHard, Features{NFCAutoUnlock: true}, types.StageAwaitCode, 2},
	}
	for _, tt := range tests {
		t.Run(tt.difficulty.String(), func(t *testing.T) {
			h := newHarness(t, DefaultRules(), tt.features)
			h.startBomb(tt.difficulty)

			b := h.bomb()
			assert.Equal(t, tt.stage, b.Stage)
			assert.Equal(t, 600, b.RemainingSeconds)
			assert.Len(t, b.ExpectedCode, 20)
			assert.Len(t, b.ReentryTargets, tt.targets)
			for i, target := range b.ReentryTargets {
				assert.GreaterOrEqual(t, target, 180)
				assert.LessOrEqual(t, target, 420)
				if i > 0 {
					assert.Greater(t, b.ReentryTargets[i-1], target)
				}
			}
			assert.Empty(t, b.DefuseCode)
			assert.Empty(t, h.timers())
		})
	}
}

func TestBomb_AwaitNfc(t *testing.T) {
	h := newHarness(t, DefaultRules(), Features{})
	h.startBomb(types.DifficultyHard)

	h.send(input.AlphabetChar('5'), input.Confirm(), input.DevSkip())
	b := h.bomb()
	assert.Equal(t, types.StageAwaitNfc, b.Stage)
	assert.Empty(t, b.Input)

	// the A key produces a char followed by a scan
	h.send(input.AlphabetChar('A'), input.SimulateScan())
	b = h.bomb()
	assert.Equal(t, types.StageAwaitCode, b.Stage)
	assert.Empty(t, b.Input)
	assert.Equal(t, 0, b.Attempt)

	h.send(input.AlphabetChar('A'), input.SimulateScan())
	assert.Equal(t, "A", h.bomb().Input)
}

func TestBomb_CodeEntry(t *testing.T) {
	h := newHarness(t, DefaultRules(), Features{})
	h.startBomb(types.DifficultyEasy)

	h.send(input.AlphabetChar('1'), input.AlphabetChar('E'), input.AlphabetChar('D'))
	assert.Equal(t, "1D", h.bomb().Input, "symbols outside the alphabet are ignored")

	h.send(input.Cancel())
	assert.Empty(t, h.bomb().Input)

	for i := 0; i < 25; i++ {
		h.send(input.AlphabetChar('7'))
	}
	assert.Equal(t, strings.Repeat("7", 20), h.bomb().Input, "input is capped at the code length")

	h.send(input.Cancel(), input.Confirm())
	assert.Equal(t, types.StageAwaitCode, h.bomb().Stage, "confirm with empty input is ignored")
	assert.Equal(t, 0, h.bomb().Attempt)
}

func TestBomb_ArmStartsCountdown(t *testing.T) {
	h := newHarness(t, DefaultRules(), Features{})
	h.startBomb(types.DifficultyEasy)
	h.rec.Reset()

	h.enter(h.bomb().ExpectedCode)

	b := h.bomb()
	assert.Equal(t, types.StageCountdown, b.Stage)
	assert.Empty(t, b.Input)
	assert.Equal(t, types.PaceSlow, b.Pace)
	assert.Equal(t, []string{TimerBombBeep, TimerBombTick}, h.timers())
	assert.Equal(t, []effects.Command{
		ToneArmed.Command(),
		effects.StopAllBlinkers(),
		effects.AllOutputsOff(),
		effects.StartBlinker(effects.ChannelBlue, 0.85),
		effects.SetStripeColor(effects.Green),
		effects.StartStripePulse(0.16),
	}, h.rec.Commands())

	h.send(input.AlphabetChar('3'), input.Cancel())
	h.seconds(10)
	b = h.bomb()
	assert.Equal(t, 590, b.RemainingSeconds, "cancel never pauses the countdown")
	assert.Empty(t, b.Input, "code keys are ignored while counting down")
}

func TestBomb_WrongCodePolicy(t *testing.T) {
	h := newHarness(t, DefaultRules(), Features{})
	h.startBomb(types.DifficultyEasy)

	var locks []int
	for attempt := 1; attempt <= 2; attempt++ {
		h.enter("0")
		b := h.bomb()
		require.Equal(t, types.StageLocked, b.Stage)
		assert.Equal(t, attempt, b.Attempt)
		assert.Equal(t, types.StageAwaitCode, b.ResumeStage)
		assert.Equal(t, []string{TimerBombLock}, h.timers())
		locks = append(locks, b.LockRemaining)

		// keys are dead while locked
		h.send(input.AlphabetChar('1'), input.Confirm())
		assert.Empty(t, h.bomb().Input)

		h.seconds(b.LockRemaining - 1)
		assert.Equal(t, types.StageLocked, h.bomb().Stage)
		assert.Equal(t, 1, h.bomb().LockRemaining)

		h.seconds(1)
		b = h.bomb()
		assert.Equal(t, types.StageAwaitCode, b.Stage)
		assert.Equal(t, types.StageNone, b.ResumeStage)
		assert.Empty(t, h.timers())
	}
	assert.Equal(t, []int{30, 60}, locks)

	h.enter("0")
	b := h.bomb()
	assert.Equal(t, types.StageEnded, b.Stage)
	assert.Equal(t, types.EndAttemptsExhausted, b.EndReason)
	assert.Equal(t, 3, b.Attempt)
	assert.Equal(t, []string{TimerGameEnd}, h.timers())
	assert.Equal(t, 1, h.tones(ToneDefuse))

	rec := h.nextRound()
	assert.Equal(t, types.OutcomeAttemptsExhausted, rec.Outcome)
	assert.Equal(t, "easy", rec.Difficulty)

	h.seconds(3)
	assert.Equal(t, freshMenu(), h.session())
	assert.Equal(t, 0, h.sched.Pending())
}

func TestBomb_LockFromReentryResumesReentry(t *testing.T) {
	h := newHarness(t, DefaultRules(), Features{})
	h.arm(types.DifficultyMedium)
	target := h.bomb().ReentryTargets[0]

	h.seconds(600 - target)
	require.Equal(t, types.StageAwaitReentry, h.bomb().Stage)

	h.enter("0")
	assert.Equal(t, types.StageAwaitReentry, h.bomb().ResumeStage)
	h.seconds(30)
	b := h.bomb()
	assert.Equal(t, types.StageAwaitReentry, b.Stage)
	assert.Equal(t, target, b.RemainingSeconds)
}

func TestBomb_MediumEndToEnd(t *testing.T) {
	h := newHarness(t, DefaultRules(), Features{})
	h.startBomb(types.DifficultyMedium)
	h.enter(h.bomb().ExpectedCode)

	b := h.bomb()
	require.Equal(t, types.StageCountdown, b.Stage)
	require.Len(t, b.ReentryTargets, 1)
	target := b.ReentryTargets[0]
	assert.GreaterOrEqual(t, target, 180)
	assert.LessOrEqual(t, target, 420)

	h.seconds(600 - target - 1)
	assert.Equal(t, types.StageCountdown, h.bomb().Stage)

	h.seconds(1)
	b = h.bomb()
	assert.Equal(t, types.StageAwaitReentry, b.Stage)
	assert.Equal(t, target, b.RemainingSeconds)
	assert.Empty(t, b.ReentryTargets)
	assert.Len(t, b.ExpectedCode, 20)
	assert.Equal(t, 0, b.Attempt)
	assert.Equal(t, 0, h.sched.Pending(), "tick and beep must be revoked while waiting for the code")

	// the clock stays frozen
	h.seconds(30)
	assert.Equal(t, target, h.bomb().RemainingSeconds)

	h.rec.Reset()
	h.enter(b.ExpectedCode)
	assert.Equal(t, types.StageCountdown, h.bomb().Stage)
	assert.Equal(t, 0, h.tones(ToneArmed), "resuming never replays the arm cue")

	h.seconds(target - 1)
	assert.Equal(t, types.StageCountdown, h.bomb().Stage)
	assert.Equal(t, 1, h.bomb().RemainingSeconds)

	h.seconds(1)
	b = h.bomb()
	assert.Equal(t, types.StageEnded, b.Stage)
	assert.Equal(t, types.EndTimeExpired, b.EndReason)
	assert.Equal(t, "Time expired. Placer team wins.", b.EndReason.Message())
	assert.Equal(t, 0, b.RemainingSeconds)
	assert.Equal(t, 1, h.tones(ToneBoom))

	rec := h.nextRound()
	assert.Equal(t, types.OutcomeTimeExpired, rec.Outcome)
	assert.Equal(t, "placer", rec.Winner)
	assert.Equal(t, "bomb", rec.Mode)
	assert.Equal(t, "medium", rec.Difficulty)

	h.advance(2999 * time.Millisecond)
	assert.Equal(t, types.PhaseBomb, h.session().Phase)
	h.advance(time.Millisecond)
	assert.Equal(t, freshMenu(), h.session())
	assert.Empty(t, h.timers())
}

func TestBomb_HardStopsTwice(t *testing.T) {
	h := newHarness(t, DefaultRules(), Features{})
	h.arm(types.DifficultyHard)
	targets := h.bomb().ReentryTargets
	require.Len(t, targets, 2)

	h.seconds(600 - targets[0])
	require.Equal(t, types.StageAwaitReentry, h.bomb().Stage)
	h.enter(h.bomb().ExpectedCode)

	h.seconds(targets[0] - targets[1])
	b := h.bomb()
	require.Equal(t, types.StageAwaitReentry, b.Stage)
	assert.Equal(t, targets[1], b.RemainingSeconds)
	assert.Empty(t, b.ReentryTargets)
}

func TestBomb_PaceChangesOncePerCrossing(t *testing.T) {
	h := newHarness(t, DefaultRules(), Features{})
	h.arm(types.DifficultyEasy)
	h.rec.Reset()

	h.advance(6500 * time.Millisecond)
	assert.Equal(t, 10, h.tones(ToneBeep), "slow cadence beeps every 650ms")
	assert.Empty(t, h.rec.OfKind(effects.KindStartBlinker))

	h.seconds(600 - 6 - 300)
	assert.Equal(t, 300, h.bomb().RemainingSeconds)
	assert.Equal(t, types.PaceMid, h.bomb().Pace)
	assert.Equal(t, []effects.Command{effects.StartBlinker(effects.ChannelBlue, 0.45)}, h.rec.OfKind(effects.KindStartBlinker))
	assert.Equal(t, []effects.Command{effects.StartStripePulse(0.1)}, h.rec.OfKind(effects.KindStartStripePulse))

	h.seconds(240)
	assert.Equal(t, 60, h.bomb().RemainingSeconds)
	assert.Equal(t, types.PaceFast, h.bomb().Pace)
	h.seconds(30)
	assert.Equal(t, []effects.Command{
		effects.StartBlinker(effects.ChannelBlue, 0.45),
		effects.StartBlinker(effects.ChannelBlue, 0.2),
	}, h.rec.OfKind(effects.KindStartBlinker))

	h.rec.Reset()
	h.advance(1800 * time.Millisecond)
	assert.Equal(t, 10, h.tones(ToneBeep), "fast cadence beeps every 180ms")
}

func TestBomb_Defuse(t *testing.T) {
	h := newHarness(t, DefaultRules(), Features{DefuseEnabled: true})
	h.arm(types.DifficultyEasy)
	b := h.bomb()
	require.Len(t, b.DefuseCode, 20)

	h.seconds(5)
	h.rec.Reset()
	h.enter(b.DefuseCode)

	b = h.bomb()
	assert.Equal(t, types.StageEnded, b.Stage)
	assert.Equal(t, types.EndDefused, b.EndReason)
	assert.Equal(t, 595, b.RemainingSeconds)
	assert.Equal(t, []effects.Command{
		effects.StopAllBlinkers(),
		effects.AllOutputsOff(),
		effects.SetSolidOutput(effects.ChannelBlue),
		effects.SetStripeColor(effects.Blue),
		ToneDefuse.Command(),
	}, h.rec.Commands())
	assert.Equal(t, types.OutcomeDefused, h.nextRound().Outcome)

	h.seconds(3)
	assert.Equal(t, freshMenu(), h.session())
}

func TestBomb_WrongDefuseFreezesCountdown(t *testing.T) {
	h := newHarness(t, DefaultRules(), Features{DefuseEnabled: true})
	h.arm(types.DifficultyEasy)
	h.seconds(10)

	h.enter("0")
	b := h.bomb()
	require.Equal(t, types.StageLocked, b.Stage)
	assert.Equal(t, types.StageCountdown, b.ResumeStage)
	assert.Equal(t, []string{TimerBombLock}, h.timers())

	h.seconds(30)
	b = h.bomb()
	assert.Equal(t, types.StageCountdown, b.Stage)
	assert.Equal(t, 590, b.RemainingSeconds)
	assert.Equal(t, []string{TimerBombBeep, TimerBombTick}, h.timers())

	h.seconds(1)
	assert.Equal(t, 589, h.bomb().RemainingSeconds)
}

func TestBomb_DevSkip(t *testing.T) {
	h := newHarness(t, DefaultRules(), Features{DevSkip: true})
	h.arm(types.DifficultyEasy)

	var got []int
	for i := 0; i < 5; i++ {
		h.send(input.DevSkip())
		got = append(got, h.bomb().RemainingSeconds)
	}
	assert.Equal(t, []int{430, 250, 70, 10, 10}, got)
	assert.Equal(t, types.PaceFast, h.bomb().Pace)

	h.seconds(10)
	assert.Equal(t, types.EndTimeExpired, h.bomb().EndReason)
}

func TestBomb_DevSkipDisabled(t *testing.T) {
	h := newHarness(t, DefaultRules(), Features{})
	h.arm(types.DifficultyEasy)
	h.send(input.DevSkip())
	assert.Equal(t, 600, h.bomb().RemainingSeconds)
}

func TestBomb_DevSkipPastCheckpoint(t *testing.T) {
	h := newHarness(t, DefaultRules(), Features{DevSkip: true})
	h.arm(types.DifficultyMedium)
	target := h.bomb().ReentryTargets[0]

	// 430 -> 250 crosses every checkpoint above 250
	h.send(input.DevSkip(), input.DevSkip())
	h.seconds(1)
	b := h.bomb()
	if target >= 249 {
		assert.Equal(t, types.StageAwaitReentry, b.Stage)
		assert.Equal(t, 249, b.RemainingSeconds)
	} else {
		assert.Equal(t, types.StageCountdown, b.Stage)
		h.seconds(249 - target)
		assert.Equal(t, types.StageAwaitReentry, h.bomb().Stage)
	}
}
