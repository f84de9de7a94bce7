package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/cbodonnell/suitcase/pkg/effects"
	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/cbodonnell/suitcase/pkg/input"
	"github.com/cbodonnell/suitcase/pkg/log"
	"github.com/cbodonnell/suitcase/pkg/queue"
	"github.com/cbodonnell/suitcase/pkg/scheduler"
	"github.com/google/uuid"
)

// Timer names. Each holds at most one pending callback.
const (
	TimerBombTick     = "bomb-tick"
	TimerBombLock     = "bomb-lock"
	TimerBombBeep     = "bomb-beep"
	TimerBunkerTick   = "bunker-tick"
	TimerBunkerSignal = "bunker-signal"
	TimerHoldMenu     = "hold-menu"
	TimerGameEnd      = "game-end"
)

// Features toggles the optional device behaviours.
type Features struct {
	// NFCAutoUnlock skips the card scan on hard difficulty.
	NFCAutoUnlock bool `yaml:"nfc_auto_unlock" env:"NFC_AUTO_UNLOCK"`
	// DevSkip lets the star key jump the countdown forward.
	DevSkip bool `yaml:"dev_skip" env:"DEV_SKIP"`
	// DefuseEnabled shows a defuse code during the countdown.
	DefuseEnabled bool `yaml:"defuse" env:"DEFUSE"`
}

// Manager owns the session and runs every state transition. All methods except
// Submit and Snapshot must be called from a single goroutine, normally the one
// running Start.
type Manager struct {
	rules      Rules
	features   Features
	timers     *scheduler.Timers
	queue      queue.Queue
	dispatcher effects.Dispatcher
	rng        Rand
	now        func() time.Time
	logger     *log.Logger
	rounds     chan<- types.RoundRecord
	onChange   func(types.Snapshot)

	session     *types.Session
	holdKeyDown bool
	round       *types.RoundRecord
	pending     []effects.Command

	snapshotLock sync.RWMutex
	snapshot     types.Snapshot
}

// NewManagerOptions contains options for creating a new Manager.
type NewManagerOptions struct {
	Rules      Rules
	Features   Features
	Scheduler  scheduler.Scheduler
	Queue      queue.Queue
	Dispatcher effects.Dispatcher
	Rand       Rand
	Now        func() time.Time
	Logger     *log.Logger
	// RoundRecords receives a record whenever a round finishes. Sends never block.
	RoundRecords chan<- types.RoundRecord
	// OnChange is called on the manager goroutine after every step.
	OnChange func(types.Snapshot)
}

func NewManager(opts NewManagerOptions) (*Manager, error) {
	if err := opts.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %v", err)
	}
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("a scheduler is required")
	}
	m := &Manager{
		rules:      opts.Rules,
		features:   opts.Features,
		timers:     scheduler.NewTimers(opts.Scheduler),
		queue:      opts.Queue,
		dispatcher: opts.Dispatcher,
		rng:        opts.Rand,
		now:        opts.Now,
		logger:     opts.Logger,
		rounds:     opts.RoundRecords,
		onChange:   opts.OnChange,
		session:    types.NewSession(),
	}
	if m.dispatcher == nil {
		m.dispatcher = effects.Discard
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	m.logger = m.logger.WithComponent("console")
	m.publish()
	return m, nil
}

// Start resets the console and processes queued input events and timer
// firings one at a time until ctx is done.
func (m *Manager) Start(ctx context.Context) error {
	if m.queue == nil {
		return fmt.Errorf("manager has no queue")
	}
	defer m.timers.StopAll()

	m.Reset()
	m.logger.Info("Console ready")

	for {
		item, err := m.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to dequeue: %v", err)
		}
		switch it := item.(type) {
		case input.Event:
			m.HandleEvent(it)
		case scheduler.Firing:
			it.Run()
		default:
			m.logger.Warn("Ignoring unexpected queue item %T", item)
		}
	}
}

// Submit queues an event for the loop started by Start. Safe for concurrent use.
func (m *Manager) Submit(ev input.Event) error {
	if m.queue == nil {
		return fmt.Errorf("manager has no queue")
	}
	if err := m.queue.Enqueue(ev); err != nil {
		return fmt.Errorf("failed to enqueue %s: %v", ev, err)
	}
	return nil
}

// HandleEvent applies one input event and returns the commands it produced.
// The commands have already been dispatched.
func (m *Manager) HandleEvent(ev input.Event) []effects.Command {
	m.logger.Trace("Event %s", ev)
	m.handle(ev)
	return m.commit()
}

// Reset forces the session back to the menu.
func (m *Manager) Reset() []effects.Command {
	m.resetToMenu()
	return m.commit()
}

// Snapshot returns the state published after the last step. Safe for
// concurrent use.
func (m *Manager) Snapshot() types.Snapshot {
	m.snapshotLock.RLock()
	defer m.snapshotLock.RUnlock()
	snap := m.snapshot
	snap.Session = m.snapshot.Session.Clone()
	snap.Timers = append([]string(nil), m.snapshot.Timers...)
	return snap
}

func (m *Manager) Rules() Rules {
	return m.rules
}

func (m *Manager) handle(ev input.Event) {
	switch ev.Kind {
	case input.KindHoldMenuStart, input.KindHoldMenuKeepAlive:
		m.holdKeyDown = true
		if m.session.InGame {
			m.timers.Ensure(TimerHoldMenu, m.rules.HoldMenuDuration, m.step(m.finishHoldMenu))
		}
		return
	case input.KindHoldMenuRelease:
		m.holdKeyDown = false
		m.timers.Stop(TimerHoldMenu)
		return
	}

	if !m.session.InGame {
		m.handleMenu(ev)
		return
	}
	switch m.session.Phase {
	case types.PhaseBomb:
		m.handleBomb(ev)
	case types.PhaseBunker:
		m.handleBunker(ev)
	case types.PhaseFlag:
		m.handleFlag(ev)
	}
}

func (m *Manager) finishHoldMenu() {
	if !m.holdKeyDown || !m.session.InGame {
		return
	}
	m.logger.Info("Menu key held, leaving %s", m.session.Phase)
	m.resetToMenu()
}

// resetToMenu cancels every timer and discards all mode state.
func (m *Manager) resetToMenu() {
	m.timers.StopAll()
	if m.round != nil {
		m.finishRound(m.abortOutcome())
	}
	m.holdKeyDown = false
	*m.session = types.Session{Phase: types.PhaseMenu}

	m.emit(
		effects.StopAllBlinkers(),
		effects.AllOutputsOff(),
		effects.SetStripeColor(effects.Black),
		effects.SetSolidOutput(effects.ChannelRed),
		effects.SetSolidOutput(effects.ChannelBlue),
	)
	m.logger.Debug("Session reset to menu")
}

func (m *Manager) startGame(phase types.Phase, difficulty types.Difficulty) {
	m.timers.StopAll()
	m.session.Phase = phase
	m.session.InGame = true
	m.session.Menu = types.MenuState{}

	rec := &types.RoundRecord{
		ID:        uuid.New(),
		Mode:      phase.String(),
		StartedAt: m.now(),
	}
	if phase == types.PhaseBomb {
		rec.Difficulty = difficulty.String()
	}
	m.round = rec

	switch phase {
	case types.PhaseBomb:
		m.startBomb(difficulty)
	case types.PhaseBunker:
		m.startBunker()
	case types.PhaseFlag:
		m.startFlag()
	}
	m.logger.Info("Started %s", phase)
}

// finishRound closes the running round and hands it to the journal.
func (m *Manager) finishRound(outcome types.Outcome, winner string) {
	if m.round == nil {
		return
	}
	rec := *m.round
	m.round = nil
	rec.Outcome = outcome
	rec.Winner = winner
	rec.EndedAt = m.now()
	m.logger.Info("Round %s finished: %s", rec.ID, outcome)
	if m.rounds == nil {
		return
	}
	select {
	case m.rounds <- rec:
	default:
		m.logger.Warn("Round journal is full, dropping round %s", rec.ID)
	}
}

func (m *Manager) abortOutcome() (types.Outcome, string) {
	if m.session.Phase == types.PhaseFlag && m.session.Flag != nil && m.session.Flag.Team != types.TeamNone {
		return types.OutcomeCaptured, m.session.Flag.Team.String()
	}
	return types.OutcomeAborted, ""
}

func (m *Manager) emit(cmds ...effects.Command) {
	m.pending = append(m.pending, cmds...)
}

// after runs fn as one step when the named timer fires.
func (m *Manager) after(name string, d time.Duration, fn func()) {
	m.timers.Start(name, d, m.step(fn))
}

func (m *Manager) step(fn func()) func() {
	return func() {
		fn()
		m.commit()
	}
}

// commit dispatches the commands collected during the current step and
// publishes a new snapshot.
func (m *Manager) commit() []effects.Command {
	cmds := m.pending
	m.pending = nil
	if len(cmds) > 0 {
		m.dispatcher.Dispatch(cmds)
	}
	m.publish()
	return cmds
}

func (m *Manager) publish() {
	m.snapshotLock.Lock()
	snap := types.Snapshot{
		Session:  m.session.Clone(),
		Timers:   m.timers.Names(),
		Sequence: m.snapshot.Sequence + 1,
	}
	m.snapshot = snap
	m.snapshotLock.Unlock()

	if m.onChange != nil {
		m.onChange(snap)
	}
}

func (m *Manager) newCode() string {
	code, err := GenerateCode(m.rng, m.rules.Alphabet, m.rules.CodeLength)
	if err != nil {
		m.logger.Error("Failed to generate code: %v", err)
	}
	return code
}
