package types

// Phase is the top level state of the console. The zero value is the menu.
type Phase int

const (
	PhaseMenu Phase = iota
	PhaseBomb
	PhaseBunker
	PhaseFlag
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseBomb:
		return "bomb"
	case PhaseBunker:
		return "bunker"
	case PhaseFlag:
		return "flag"
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Title is the name shown in the menu.
func (p Phase) Title() string {
	switch p {
	case PhaseBomb:
		return "Bomb"
	case PhaseBunker:
		return "Bunker"
	case PhaseFlag:
		return "Flag"
	}
	return ""
}

// Games lists the selectable games in menu order.
var Games = []Phase{PhaseBomb, PhaseBunker, PhaseFlag}

type Stage int

const (
	StageNone Stage = iota
	StageAwaitNfc
	StageAwaitCode
	StageCountdown
	StageAwaitReentry
	StageLocked
	StageEnded
)

func (s Stage) String() string {
	switch s {
	case StageNone:
		return "none"
	case StageAwaitNfc:
		return "await_nfc"
	case StageAwaitCode:
		return "await_code"
	case StageCountdown:
		return "countdown"
	case StageAwaitReentry:
		return "await_reentry"
	case StageLocked:
		return "locked"
	case StageEnded:
		return "ended"
	}
	return "unknown"
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// AcceptsCode reports whether code characters are collected in this stage.
func (s Stage) AcceptsCode() bool {
	return s == StageAwaitCode || s == StageAwaitReentry
}

type Team int

const (
	TeamNone Team = iota
	TeamRed
	TeamBlue
)

func (t Team) String() string {
	switch t {
	case TeamNone:
		return "none"
	case TeamRed:
		return "red"
	case TeamBlue:
		return "blue"
	}
	return "unknown"
}

func (t Team) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

// Difficulties lists the bomb difficulties in menu order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	}
	return "unknown"
}

func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d Difficulty) Title() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	}
	return ""
}

// Pace is the countdown cadence tier. PaceNone means no tier was applied yet.
type Pace int

const (
	PaceNone Pace = iota
	PaceSlow
	PaceMid
	PaceFast
)

func (p Pace) String() string {
	switch p {
	case PaceNone:
		return "none"
	case PaceSlow:
		return "slow"
	case PaceMid:
		return "mid"
	case PaceFast:
		return "fast"
	}
	return "unknown"
}

func (p Pace) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// EndReason is the narrative of an ended bomb round.
type EndReason int

const (
	EndNone EndReason = iota
	EndTimeExpired
	EndAttemptsExhausted
	EndDefused
)

func (r EndReason) String() string {
	switch r {
	case EndNone:
		return "none"
	case EndTimeExpired:
		return "time_expired"
	case EndAttemptsExhausted:
		return "attempts_exhausted"
	case EndDefused:
		return "defused"
	}
	return "unknown"
}

func (r EndReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Message is the text shown when the round ends.
func (r EndReason) Message() string {
	switch r {
	case EndTimeExpired:
		return "Time expired. Placer team wins."
	case EndAttemptsExhausted:
		return "Too many wrong attempts. Placer team loses."
	case EndDefused:
		return "Bomb defused! Placer team loses."
	}
	return ""
}
