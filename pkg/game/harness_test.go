package game

import (
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/cbodonnell/suitcase/pkg/effects"
	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/cbodonnell/suitcase/pkg/input"
	"github.com/cbodonnell/suitcase/pkg/log"
	"github.com/cbodonnell/suitcase/pkg/scheduler"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// harness drives a Manager on a virtual clock.
type harness struct {
	t      *testing.T
	sched  *scheduler.Manual
	rec    *effects.Recorder
	m      *Manager
	rounds chan types.RoundRecord
}

func newHarness(t *testing.T, rules Rules, features Features) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		sched:  scheduler.NewManual(),
		rec:    effects.NewRecorder(),
		rounds: make(chan types.RoundRecord, 16),
	}
	m, err := NewManager(NewManagerOptions{
		Rules:        rules,
		Features:     features,
		Scheduler:    h.sched,
		Dispatcher:   h.rec,
		Rand:         rand.New(rand.NewSource(42)),
		Now:          func() time.Time { return epoch.Add(h.sched.Now()) },
		Logger:       log.New(io.Discard, "", 0, log.LogLevelError),
		RoundRecords: h.rounds,
	})
	require.NoError(t, err)
	h.m = m
	h.m.Reset()
	h.rec.Reset()
	return h
}

func (h *harness) send(evs ...input.Event) {
	for _, ev := range evs {
		h.m.HandleEvent(ev)
	}
}

func (h *harness) enter(code string) {
	for i := 0; i < len(code); i++ {
		h.send(input.AlphabetChar(code[i]))
	}
	h.send(input.Confirm())
}

func (h *harness) advance(d time.Duration) {
	h.sched.Advance(d)
}

func (h *harness) seconds(n int) {
	h.advance(time.Duration(n) * time.Second)
}

func (h *harness) session() types.Session {
	return h.m.Snapshot().Session
}

func (h *harness) bomb() *types.BombState {
	s := h.session()
	require.NotNil(h.t, s.Bomb)
	return s.Bomb
}

func (h *harness) timers() []string {
	return h.m.Snapshot().Timers
}

func (h *harness) startBomb(d types.Difficulty) {
	h.send(input.Digit(1), input.Confirm(), input.Digit(int(d)+1), input.Confirm())
	require.Equal(h.t, types.PhaseBomb, h.session().Phase)
}

// arm starts a bomb round and enters its code.
func (h *harness) arm(d types.Difficulty) {
	h.startBomb(d)
	if h.bomb().Stage == types.StageAwaitNfc {
		h.send(input.SimulateScan())
	}
	h.enter(h.bomb().ExpectedCode)
	require.Equal(h.t, types.StageCountdown, h.bomb().Stage)
}

func (h *harness) nextRound() types.RoundRecord {
	select {
	case rec := <-h.rounds:
		return rec
	default:
		h.t.Fatal("no round recorded")
	}
	return types.RoundRecord{}
}

func (h *harness) tones(tone effects.Tone) int {
	n := 0
	for _, c := range h.rec.OfKind(effects.KindPlayTone) {
		if c == tone.Command() {
			n++
		}
	}
	return n
}

func freshMenu() types.Session {
	return types.Session{Phase: types.PhaseMenu}
}
