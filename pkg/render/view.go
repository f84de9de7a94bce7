// Package render turns a session into the text every frontend shows.
package render

import (
	"fmt"
	"strings"

	"github.com/cbodonnell/suitcase/pkg/game"
	"github.com/cbodonnell/suitcase/pkg/game/types"
)

const menuHint = "# 3s = menu"

// View is one screen of text. Status is the large line under the title.
type View struct {
	Title  string   `json:"title"`
	Status string   `json:"status"`
	Lines  []string `json:"lines"`
	Footer string   `json:"footer"`
	// Alert marks screens that should be drawn in the warning colour.
	Alert bool `json:"alert"`
}

// String renders the view as plain text lines.
func (v View) String() string {
	var b strings.Builder
	b.WriteString(v.Title)
	if v.Status != "" {
		b.WriteString("\n" + v.Status)
	}
	for _, l := range v.Lines {
		b.WriteString("\n" + l)
	}
	if v.Footer != "" {
		b.WriteString("\n" + v.Footer)
	}
	return b.String()
}

func Build(s types.Session, rules game.Rules) View {
	switch s.Phase {
	case types.PhaseBomb:
		if s.Bomb != nil {
			return bomb(s.Bomb, rules)
		}
	case types.PhaseBunker:
		if s.Bunker != nil {
			return bunker(s.Bunker, rules)
		}
	case types.PhaseFlag:
		if s.Flag != nil {
			return flag(s.Flag)
		}
	}
	return menu(s.Menu)
}

func menu(m types.MenuState) View {
	v := View{Title: "Select game:", Footer: "Red: back | Blue: confirm"}
	var options []string
	if m.Level == types.MenuLevelDifficulty {
		v.Title = "Bomb: difficulty"
		for _, d := range types.Difficulties {
			options = append(options, d.Title())
		}
	} else {
		for _, g := range types.Games {
			options = append(options, g.Title())
		}
	}
	for i, o := range options {
		prefix := "    "
		if m.Highlight == i+1 {
			prefix = "<-- "
		}
		v.Lines = append(v.Lines, fmt.Sprintf("%s%d: %s", prefix, i+1, o))
	}
	return v
}

func bomb(b *types.BombState, rules game.Rules) View {
	v := View{Title: "BOMB", Status: game.FormatClock(b.RemainingSeconds), Footer: menuHint}
	switch b.Stage {
	case types.StageAwaitNfc:
		v.Status = "HARD MODE"
		v.Lines = []string{"Scan NFC card", "No reader - press A"}
	case types.StageAwaitCode, types.StageAwaitReentry:
		prompt := "Enter code to arm"
		if b.Stage == types.StageAwaitReentry {
			prompt = "Re-enter code to resume"
		}
		v.Lines = []string{
			prompt,
			b.ExpectedCode,
			codeInput(b.Input, rules.CodeLength),
			fmt.Sprintf("Attempts left: %d", attemptsLeft(b, rules)),
		}
	case types.StageCountdown:
		if b.DefuseCode != "" {
			v.Lines = []string{"Defuse: " + b.DefuseCode, codeInput(b.Input, rules.CodeLength)}
		}
	case types.StageLocked:
		v.Status = "LOCKED"
		v.Lines = []string{fmt.Sprintf("Keypad locked for %ds", b.LockRemaining)}
		v.Alert = true
	case types.StageEnded:
		v.Lines = []string{b.EndReason.Message()}
		v.Footer = ""
		v.Alert = true
	}
	return v
}

func attemptsLeft(b *types.BombState, rules game.Rules) int {
	left := len(rules.LockDurations) + 1 - b.Attempt
	if left < 0 {
		return 0
	}
	return left
}

// codeInput pads the typed symbols with underscores up to the code length.
func codeInput(in string, length int) string {
	if pad := length - len(in); pad > 0 {
		return in + strings.Repeat("_", pad)
	}
	return in
}

func bunker(b *types.BunkerState, rules game.Rules) View {
	v := View{
		Title: "Bunker",
		Lines: []string{fmt.Sprintf("Blue: %s   Red: %s", game.FormatClock(b.BlueSeconds), game.FormatClock(b.RedSeconds))},
	}
	if b.ActiveTeam == types.TeamNone {
		v.Status = "Waiting for team..."
	} else {
		v.Status = fmt.Sprintf("%s %s", strings.ToUpper(b.ActiveTeam.String()), game.FormatClock(b.Seconds(b.ActiveTeam)))
	}

	switch {
	case b.Winner == types.TeamNone:
		v.Footer = fmt.Sprintf("Target: %ds | %s", rules.BunkerTargetSeconds, menuHint)
	case b.SignalActive:
		v.Footer = fmt.Sprintf("%s won - signal active", strings.ToUpper(b.Winner.String()))
		v.Alert = true
	default:
		v.Footer = fmt.Sprintf("%s at %ds - hold * to finish", strings.ToUpper(b.Winner.String()), rules.BunkerTargetSeconds)
		v.Alert = true
	}
	return v
}

func flag(f *types.FlagState) View {
	v := View{Title: "Flag", Status: "No team", Footer: "Red: red team | Blue: blue team"}
	if f.Team != types.TeamNone {
		v.Status = strings.ToUpper(f.Team.String())
	}
	v.Lines = []string{menuHint}
	return v
}
