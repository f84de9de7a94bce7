package constants

import "time"

const (
	// KeypadAlphabet is the set of code symbols available on the keypad
	KeypadAlphabet = "0123456789ABCD"
	// CodeLength is the number of symbols in a bomb code
	CodeLength = 20

	// BombDurationSeconds is the initial countdown
	BombDurationSeconds = 600
	// BunkerTargetSeconds is the accumulated time a team needs to win the bunker
	BunkerTargetSeconds = 600

	// ReentryMinSeconds and ReentryMaxSeconds bound the remaining time of a reentry checkpoint
	ReentryMinSeconds = 180
	ReentryMaxSeconds = 420

	// PaceMidSeconds is the remaining time at or below which the countdown speeds up
	PaceMidSeconds = 300
	// PaceFastSeconds is the remaining time at or below which the countdown is fastest
	PaceFastSeconds = 60

	// TickInterval drives the countdown, the lock countdown and the bunker counters
	TickInterval = time.Second
	// HoldMenuDuration is how long the menu key must be held to leave a game
	HoldMenuDuration = 3 * time.Second
	// GameEndDelay is how long the end screen stays before the menu comes back
	GameEndDelay = 3 * time.Second
	// SignalInterval is the bunker signal cadence
	SignalInterval = 220 * time.Millisecond

	// LockBlinkInterval is the red blinker while the keypad is locked (seconds)
	LockBlinkInterval = 0.25
	// BunkerPulseInterval is the stripe pulse of the active bunker team (seconds)
	BunkerPulseInterval = 0.28
	// FlagPulseInterval is the stripe pulse of the flag holder (seconds)
	FlagPulseInterval = 0.25
	// SignalPulseInterval is the stripe pulse while the bunker signal is held (seconds)
	SignalPulseInterval = 0.11
)

var (
	// LockDurations are the lockouts after the first and second wrong code
	LockDurations = []int{30, 60}
	// DevSkipTargets are the remaining times the dev skip jumps to
	DevSkipTargets = []int{430, 250, 70, 10}
)
