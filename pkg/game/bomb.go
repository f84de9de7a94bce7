package game

import (
	"strings"

	"github.com/cbodonnell/suitcase/pkg/effects"
	"github.com/cbodonnell/suitcase/pkg/game/constants"
	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/cbodonnell/suitcase/pkg/input"
)

func (m *Manager) startBomb(difficulty types.Difficulty) {
	b := &types.BombState{
		Difficulty:       difficulty,
		Stage:            types.StageAwaitCode,
		ExpectedCode:     m.newCode(),
		RemainingSeconds: m.rules.CountdownSeconds,
		ReentryTargets:   m.reentryTargets(difficulty),
	}
	if difficulty == types.DifficultyHard && !m.features.NFCAutoUnlock {
		b.Stage = types.StageAwaitNfc
	}
	if m.features.DefuseEnabled {
		b.DefuseCode = m.newCode()
	}
	m.session.Bomb = b
	m.bombIdleOutputs()
}

// reentryTargets drops checkpoints the countdown would already have passed
// when it starts.
func (m *Manager) reentryTargets(difficulty types.Difficulty) []int {
	targets := ReentryTargets(m.rng, difficulty, m.rules.ReentryMinSeconds, m.rules.ReentryMaxSeconds)
	kept := targets[:0]
	for _, t := range targets {
		if t < m.rules.CountdownSeconds {
			kept = append(kept, t)
		}
	}
	return kept
}

func (m *Manager) handleBomb(ev input.Event) {
	b := m.session.Bomb
	if b.Stage == types.StageEnded || b.Stage == types.StageLocked {
		return
	}

	switch ev.Kind {
	case input.KindCancel:
		b.Input = ""
	case input.KindConfirm:
		m.submitBombCode()
	case input.KindSimulateScan:
		if b.Stage != types.StageAwaitNfc {
			return
		}
		b.Input = ""
		b.Attempt = 0
		m.setBombStage(types.StageAwaitCode)
	case input.KindAlphabetChar:
		if !m.acceptsCode(b.Stage) {
			return
		}
		if len(b.Input) >= m.rules.CodeLength || !strings.ContainsRune(m.rules.Alphabet, rune(ev.Char)) {
			return
		}
		b.Input += string(ev.Char)
	case input.KindDevSkip:
		if b.Stage != types.StageCountdown || !m.features.DevSkip {
			return
		}
		if target, ok := NextDevSkip(b.RemainingSeconds, m.rules.DevSkipTargets); ok {
			m.logger.Debug("Dev skip %d -> %d", b.RemainingSeconds, target)
			b.RemainingSeconds = target
			m.updatePace()
		}
	}
}

func (m *Manager) acceptsCode(stage types.Stage) bool {
	return stage.AcceptsCode() || (stage == types.StageCountdown && m.features.DefuseEnabled)
}

func (m *Manager) submitBombCode() {
	b := m.session.Bomb
	if b.Input == "" {
		return
	}
	candidate := b.Input
	b.Input = ""

	switch b.Stage {
	case types.StageCountdown:
		if !m.features.DefuseEnabled {
			return
		}
		if candidate == b.DefuseCode {
			m.endBomb(types.EndDefused)
			return
		}
		m.wrongCode()
	case types.StageAwaitCode, types.StageAwaitReentry:
		if candidate != b.ExpectedCode {
			m.wrongCode()
			return
		}
		b.Attempt = 0
		m.startCountdown(b.Stage == types.StageAwaitCode)
	}
}

// wrongCode locks the keypad for the attempt's duration, or ends the round
// once the lock table is exhausted.
func (m *Manager) wrongCode() {
	b := m.session.Bomb
	b.Attempt++
	m.logger.Debug("Wrong code, attempt %d", b.Attempt)
	if b.Attempt <= len(m.rules.LockDurations) {
		m.startLock(m.rules.LockDurations[b.Attempt-1])
		return
	}
	m.endBomb(types.EndAttemptsExhausted)
}

func (m *Manager) startCountdown(armed bool) {
	b := m.session.Bomb
	m.setBombStage(types.StageCountdown)
	b.Input = ""
	if armed {
		m.emit(ToneArmed.Command())
	}

	b.Pace = m.rules.PaceFor(b.RemainingSeconds)
	prof := ProfileFor(b.Pace)
	m.emit(
		effects.StopAllBlinkers(),
		effects.AllOutputsOff(),
		effects.StartBlinker(effects.ChannelBlue, prof.BlinkInterval),
		effects.SetStripeColor(effects.Green),
		effects.StartStripePulse(prof.PulseInterval),
	)

	m.after(TimerBombTick, m.rules.TickInterval, m.bombTick)
	m.scheduleBeep()
}

func (m *Manager) bombTick() {
	b := m.session.Bomb
	b.RemainingSeconds--
	if b.RemainingSeconds <= 0 {
		b.RemainingSeconds = 0
		m.endBomb(types.EndTimeExpired)
		return
	}
	if len(b.ReentryTargets) > 0 && b.RemainingSeconds <= b.ReentryTargets[0] {
		b.ReentryTargets = b.ReentryTargets[1:]
		m.pauseForReentry()
		return
	}
	m.updatePace()
	m.after(TimerBombTick, m.rules.TickInterval, m.bombTick)
}

// updatePace emits the tier presentation only when the tier changed.
func (m *Manager) updatePace() {
	b := m.session.Bomb
	pace := m.rules.PaceFor(b.RemainingSeconds)
	if pace == b.Pace {
		return
	}
	m.logger.Debug("Pace %s -> %s at %ds", b.Pace, pace, b.RemainingSeconds)
	b.Pace = pace
	prof := ProfileFor(pace)
	m.emit(
		effects.StartBlinker(effects.ChannelBlue, prof.BlinkInterval),
		effects.StartStripePulse(prof.PulseInterval),
	)
}

func (m *Manager) scheduleBeep() {
	interval := ProfileFor(m.rules.PaceFor(m.session.Bomb.RemainingSeconds)).BeepInterval
	m.timers.Ensure(TimerBombBeep, interval, m.step(func() {
		m.emit(ToneBeep.Command())
		m.scheduleBeep()
	}))
}

func (m *Manager) pauseForReentry() {
	m.timers.Stop(TimerBombTick)
	m.timers.Stop(TimerBombBeep)

	b := m.session.Bomb
	m.setBombStage(types.StageAwaitReentry)
	b.ExpectedCode = m.newCode()
	b.Input = ""
	b.Attempt = 0
	m.bombIdleOutputs()
}

func (m *Manager) startLock(seconds int) {
	m.timers.Stop(TimerBombTick)
	m.timers.Stop(TimerBombBeep)

	b := m.session.Bomb
	b.ResumeStage = b.Stage
	m.setBombStage(types.StageLocked)
	b.LockRemaining = seconds
	b.Input = ""

	m.emit(
		effects.StopAllBlinkers(),
		effects.AllOutputsOff(),
		effects.SetStripeColor(effects.Black),
		effects.StartBlinker(effects.ChannelRed, constants.LockBlinkInterval),
	)
	m.after(TimerBombLock, m.rules.TickInterval, m.lockTick)
}

func (m *Manager) lockTick() {
	b := m.session.Bomb
	b.LockRemaining--
	if b.LockRemaining > 0 {
		m.after(TimerBombLock, m.rules.TickInterval, m.lockTick)
		return
	}

	b.LockRemaining = 0
	resume := b.ResumeStage
	if resume == types.StageNone {
		resume = types.StageAwaitCode
	}
	b.ResumeStage = types.StageNone
	if resume == types.StageCountdown {
		m.startCountdown(false)
		return
	}
	m.setBombStage(resume)
	m.bombIdleOutputs()
}

func (m *Manager) endBomb(reason types.EndReason) {
	m.timers.Stop(TimerBombTick)
	m.timers.Stop(TimerBombLock)
	m.timers.Stop(TimerBombBeep)

	b := m.session.Bomb
	m.setBombStage(types.StageEnded)
	b.EndReason = reason
	b.Input = ""

	channel, color, tone := effects.ChannelRed, effects.Red, ToneDefuse
	switch reason {
	case types.EndTimeExpired:
		tone = ToneBoom
	case types.EndDefused:
		channel, color = effects.ChannelBlue, effects.Blue
	}
	m.emit(
		effects.StopAllBlinkers(),
		effects.AllOutputsOff(),
		effects.SetSolidOutput(channel),
		effects.SetStripeColor(color),
		tone.Command(),
	)
	m.logger.Info("Bomb ended: %s", reason.Message())

	winner := "defenders"
	if reason == types.EndTimeExpired {
		winner = "placer"
	}
	m.finishRound(outcomeFor(reason), winner)
	m.after(TimerGameEnd, m.rules.GameEndDelay, m.resetToMenu)
}

func outcomeFor(reason types.EndReason) types.Outcome {
	switch reason {
	case types.EndTimeExpired:
		return types.OutcomeTimeExpired
	case types.EndAttemptsExhausted:
		return types.OutcomeAttemptsExhausted
	case types.EndDefused:
		return types.OutcomeDefused
	}
	return types.OutcomeAborted
}

func (m *Manager) bombIdleOutputs() {
	m.emit(
		effects.StopAllBlinkers(),
		effects.AllOutputsOff(),
		effects.SetStripeColor(effects.Black),
		effects.SetSolidOutput(effects.ChannelBlue),
	)
}

func (m *Manager) setBombStage(stage types.Stage) {
	b := m.session.Bomb
	if b.Stage != stage {
		m.logger.Debug("Bomb stage %s -> %s", b.Stage, stage)
	}
	b.Stage = stage
}
