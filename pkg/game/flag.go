package game

import (
	"github.com/cbodonnell/suitcase/pkg/effects"
	"github.com/cbodonnell/suitcase/pkg/game/constants"
	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/cbodonnell/suitcase/pkg/input"
)

func (m *Manager) startFlag() {
	m.session.Flag = &types.FlagState{}
	m.emit(
		effects.StopAllBlinkers(),
		effects.AllOutputsOff(),
		effects.SetStripeColor(effects.Black),
	)
}

func (m *Manager) handleFlag(ev input.Event) {
	switch ev.Kind {
	case input.KindCancel:
		m.setFlagTeam(types.TeamRed)
	case input.KindConfirm:
		m.setFlagTeam(types.TeamBlue)
	}
}

func (m *Manager) setFlagTeam(team types.Team) {
	m.session.Flag.Team = team
	m.emit(effects.StopAllBlinkers(), effects.AllOutputsOff())
	m.emit(teamOutputs(team, constants.FlagPulseInterval)...)
}
