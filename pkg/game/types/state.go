package types

// MenuLevel is the depth of the two level selection.
type MenuLevel int

const (
	MenuLevelGame MenuLevel = iota
	MenuLevelDifficulty
)

func (l MenuLevel) MarshalText() ([]byte, error) {
	if l == MenuLevelDifficulty {
		return []byte("difficulty"), nil
	}
	return []byte("game"), nil
}

type MenuState struct {
	Level MenuLevel `json:"level"`
	// Highlight is the highlighted option, 1..3, or 0 for none.
	Highlight int `json:"highlight"`
	// Game is the chosen game while picking a difficulty, PhaseMenu otherwise.
	Game Phase `json:"game"`
}

type BombState struct {
	Difficulty       Difficulty `json:"difficulty"`
	Stage            Stage      `json:"stage"`
	ExpectedCode     string     `json:"expectedCode"`
	DefuseCode       string     `json:"defuseCode,omitempty"`
	Input            string     `json:"input"`
	RemainingSeconds int        `json:"remainingSeconds"`
	ReentryTargets   []int      `json:"reentryTargets"`
	Attempt          int        `json:"attempt"`
	LockRemaining    int        `json:"lockRemaining"`
	ResumeStage      Stage      `json:"resumeStage"`
	// Pace is the tier whose presentation was last emitted.
	Pace      Pace      `json:"pace"`
	EndReason EndReason `json:"endReason"`
}

func (b *BombState) Clone() *BombState {
	if b == nil {
		return nil
	}
	c := *b
	c.ReentryTargets = append([]int(nil), b.ReentryTargets...)
	return &c
}

type BunkerState struct {
	BlueSeconds  int  `json:"blueSeconds"`
	RedSeconds   int  `json:"redSeconds"`
	ActiveTeam   Team `json:"activeTeam"`
	Winner       Team `json:"winner"`
	SignalActive bool `json:"signalActive"`
}

// Seconds returns the accumulated time of team.
func (b *BunkerState) Seconds(team Team) int {
	switch team {
	case TeamBlue:
		return b.BlueSeconds
	case TeamRed:
		return b.RedSeconds
	}
	return 0
}

type FlagState struct {
	Team Team `json:"team"`
}

// Session is the whole console state. Exactly one of Bomb, Bunker and Flag
// is set while a game runs, none in the menu.
type Session struct {
	Phase  Phase        `json:"phase"`
	InGame bool         `json:"inGame"`
	Menu   MenuState    `json:"menu"`
	Bomb   *BombState   `json:"bomb,omitempty"`
	Bunker *BunkerState `json:"bunker,omitempty"`
	Flag   *FlagState   `json:"flag,omitempty"`
}

// NewSession returns a session sitting in the top level menu.
func NewSession() *Session {
	return &Session{Phase: PhaseMenu}
}

// Clone returns a deep copy.
func (s *Session) Clone() Session {
	c := *s
	c.Bomb = s.Bomb.Clone()
	if s.Bunker != nil {
		b := *s.Bunker
		c.Bunker = &b
	}
	if s.Flag != nil {
		f := *s.Flag
		c.Flag = &f
	}
	return c
}

// Snapshot is an immutable view of the console published after every step.
type Snapshot struct {
	Session Session `json:"session"`
	// Timers are the names of the pending timers.
	Timers []string `json:"timers"`
	// Sequence increases with every published snapshot.
	Sequence uint64 `json:"sequence"`
}
