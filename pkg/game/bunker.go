package game

import (
	"github.com/cbodonnell/suitcase/pkg/effects"
	"github.com/cbodonnell/suitcase/pkg/game/constants"
	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/cbodonnell/suitcase/pkg/input"
)

func (m *Manager) startBunker() {
	m.session.Bunker = &types.BunkerState{}
	m.emit(
		effects.StopAllBlinkers(),
		effects.AllOutputsOff(),
		effects.SetStripeColor(effects.Black),
	)
	m.after(TimerBunkerTick, m.rules.TickInterval, m.bunkerTick)
}

func (m *Manager) handleBunker(ev input.Event) {
	switch ev.Kind {
	case input.KindCancel:
		m.setBunkerTeam(types.TeamRed)
	case input.KindConfirm:
		m.setBunkerTeam(types.TeamBlue)
	case input.KindSignalPressed:
		m.startSignal()
	case input.KindSignalReleased:
		m.stopSignal()
	}
}

func (m *Manager) setBunkerTeam(team types.Team) {
	b := m.session.Bunker
	if b.Winner != types.TeamNone || b.ActiveTeam == team {
		return
	}
	m.logger.Debug("Bunker held by %s", team)
	b.ActiveTeam = team
	m.emit(effects.StopAllBlinkers(), effects.AllOutputsOff())
	m.emit(teamOutputs(team, constants.BunkerPulseInterval)...)
}

// bunkerTick accumulates the holder's time and stops rescheduling once a
// team reached the target.
func (m *Manager) bunkerTick() {
	b := m.session.Bunker
	if b.Winner == types.TeamNone {
		switch b.ActiveTeam {
		case types.TeamBlue:
			b.BlueSeconds++
		case types.TeamRed:
			b.RedSeconds++
		}
		if b.ActiveTeam != types.TeamNone && b.Seconds(b.ActiveTeam) >= m.rules.BunkerTargetSeconds {
			m.bunkerWon(b.ActiveTeam)
		}
	}
	if b.Winner == types.TeamNone {
		m.after(TimerBunkerTick, m.rules.TickInterval, m.bunkerTick)
	}
}

func (m *Manager) bunkerWon(team types.Team) {
	b := m.session.Bunker
	b.Winner = team
	b.ActiveTeam = team
	m.logger.Info("Bunker won by %s", team)

	channel, color := teamChannel(team)
	m.emit(
		effects.StopAllBlinkers(),
		effects.AllOutputsOff(),
		effects.SetSolidOutput(channel),
		effects.SetStripeColor(color),
		ToneCaptured.Command(),
	)
	m.finishRound(types.OutcomeCaptured, team.String())
}

func (m *Manager) startSignal() {
	b := m.session.Bunker
	if b.Winner == types.TeamNone || b.SignalActive {
		return
	}
	b.SignalActive = true
	m.emit(effects.StartStripePulse(constants.SignalPulseInterval))
	m.after(TimerBunkerSignal, m.rules.SignalInterval, m.signalTick)
}

func (m *Manager) signalTick() {
	m.emit(ToneSignal.Command())
	m.after(TimerBunkerSignal, m.rules.SignalInterval, m.signalTick)
}

func (m *Manager) stopSignal() {
	b := m.session.Bunker
	if !b.SignalActive {
		return
	}
	b.SignalActive = false
	m.timers.Stop(TimerBunkerSignal)
	m.logger.Info("Signal released, returning to menu")
	m.resetToMenu()
}

func teamChannel(team types.Team) (effects.Channel, effects.RGB) {
	if team == types.TeamRed {
		return effects.ChannelRed, effects.Red
	}
	return effects.ChannelBlue, effects.Blue
}

// teamOutputs shows team on its lamp and pulses the stripe in its colour.
func teamOutputs(team types.Team, pulse float64) []effects.Command {
	channel, color := teamChannel(team)
	return []effects.Command{
		effects.SetSolidOutput(channel),
		effects.SetStripeColor(color),
		effects.StartStripePulse(pulse),
	}
}
