package game

import (
	"fmt"
	"time"

	"github.com/cbodonnell/suitcase/pkg/game/constants"
)

// Rules are the tunables of every mode.
type Rules struct {
	Alphabet            string        `yaml:"alphabet" env:"ALPHABET"`
	CodeLength          int           `yaml:"code_length" env:"CODE_LENGTH"`
	CountdownSeconds    int           `yaml:"countdown_seconds" env:"COUNTDOWN_SECONDS"`
	BunkerTargetSeconds int           `yaml:"bunker_target_seconds" env:"BUNKER_TARGET_SECONDS"`
	LockDurations       []int         `yaml:"lock_durations" env:"LOCK_DURATIONS"`
	ReentryMinSeconds   int           `yaml:"reentry_min_seconds" env:"REENTRY_MIN_SECONDS"`
	ReentryMaxSeconds   int           `yaml:"reentry_max_seconds" env:"REENTRY_MAX_SECONDS"`
	PaceMidSeconds      int           `yaml:"pace_mid_seconds" env:"PACE_MID_SECONDS"`
	PaceFastSeconds     int           `yaml:"pace_fast_seconds" env:"PACE_FAST_SECONDS"`
	DevSkipTargets      []int         `yaml:"dev_skip_targets" env:"DEV_SKIP_TARGETS"`
	TickInterval        time.Duration `yaml:"tick_interval" env:"TICK_INTERVAL"`
	HoldMenuDuration    time.Duration `yaml:"hold_menu_duration" env:"HOLD_MENU_DURATION"`
	GameEndDelay        time.Duration `yaml:"game_end_delay" env:"GAME_END_DELAY"`
	SignalInterval      time.Duration `yaml:"signal_interval" env:"SIGNAL_INTERVAL"`
}

func DefaultRules() Rules {
	return Rules{
		Alphabet:            constants.KeypadAlphabet,
		CodeLength:          constants.CodeLength,
		CountdownSeconds:    constants.BombDurationSeconds,
		BunkerTargetSeconds: constants.BunkerTargetSeconds,
		LockDurations:       append([]int(nil), constants.LockDurations...),
		ReentryMinSeconds:   constants.ReentryMinSeconds,
		ReentryMaxSeconds:   constants.ReentryMaxSeconds,
		PaceMidSeconds:      constants.PaceMidSeconds,
		PaceFastSeconds:     constants.PaceFastSeconds,
		DevSkipTargets:      append([]int(nil), constants.DevSkipTargets...),
		TickInterval:        constants.TickInterval,
		HoldMenuDuration:    constants.HoldMenuDuration,
		GameEndDelay:        constants.GameEndDelay,
		SignalInterval:      constants.SignalInterval,
	}
}

// Validate rejects rule sets the modes cannot run with.
func (r Rules) Validate() error {
	if r.Alphabet == "" {
		return fmt.Errorf("alphabet must not be empty")
	}
	if r.CodeLength <= 0 {
		return fmt.Errorf("code length must be positive, got %d", r.CodeLength)
	}
	if r.CountdownSeconds <= 0 {
		return fmt.Errorf("countdown must be positive, got %d", r.CountdownSeconds)
	}
	if r.BunkerTargetSeconds <= 0 {
		return fmt.Errorf("bunker target must be positive, got %d", r.BunkerTargetSeconds)
	}
	for i, d := range r.LockDurations {
		if d <= 0 {
			return fmt.Errorf("lock duration %d must be positive, got %d", i, d)
		}
	}
	if r.ReentryMinSeconds <= 0 || r.ReentryMinSeconds > r.ReentryMaxSeconds {
		return fmt.Errorf("invalid reentry range [%d, %d]", r.ReentryMinSeconds, r.ReentryMaxSeconds)
	}
	if r.ReentryMaxSeconds-r.ReentryMinSeconds < 1 {
		return fmt.Errorf("reentry range [%d, %d] cannot supply two distinct checkpoints", r.ReentryMinSeconds, r.ReentryMaxSeconds)
	}
	if r.PaceFastSeconds < 0 || r.PaceFastSeconds > r.PaceMidSeconds {
		return fmt.Errorf("pace thresholds must satisfy 0 <= fast (%d) <= mid (%d)", r.PaceFastSeconds, r.PaceMidSeconds)
	}
	for name, d := range map[string]time.Duration{
		"tick interval":      r.TickInterval,
		"hold menu duration": r.HoldMenuDuration,
		"game end delay":     r.GameEndDelay,
		"signal interval":    r.SignalInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	return nil
}
