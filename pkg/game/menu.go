package game

import (
	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/cbodonnell/suitcase/pkg/input"
)

func (m *Manager) handleMenu(ev input.Event) {
	menu := &m.session.Menu
	switch ev.Kind {
	case input.KindDigit:
		if ev.Digit < 1 || ev.Digit > 3 {
			return
		}
		menu.Highlight = ev.Digit
	case input.KindConfirm:
		if menu.Highlight == 0 {
			return
		}
		if menu.Level == types.MenuLevelGame {
			game, ok := phaseForIndex(menu.Highlight)
			if !ok {
				return
			}
			menu.Highlight = 0
			if game == types.PhaseBomb {
				menu.Level = types.MenuLevelDifficulty
				menu.Game = game
				return
			}
			m.startGame(game, types.DifficultyEasy)
			return
		}
		difficulty, ok := difficultyForIndex(menu.Highlight)
		if !ok {
			return
		}
		m.startGame(menu.Game, difficulty)
	case input.KindCancel:
		if menu.Level != types.MenuLevelDifficulty {
			return
		}
		*menu = types.MenuState{}
	}
}
