package types

import (
	"time"

	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeTimeExpired       Outcome = "time_expired"
	OutcomeAttemptsExhausted Outcome = "attempts_exhausted"
	OutcomeDefused           Outcome = "defused"
	OutcomeCaptured          Outcome = "captured"
	OutcomeAborted           Outcome = "aborted"
)

// RoundRecord is the journal entry written when a round finishes.
type RoundRecord struct {
	ID         uuid.UUID `json:"id"`
	Mode       string    `json:"mode"`
	Difficulty string    `json:"difficulty,omitempty"`
	Outcome    Outcome   `json:"outcome"`
	Winner     string    `json:"winner,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	EndedAt    time.Time `json:"endedAt"`
}

// Duration is how long the round lasted.
func (r RoundRecord) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}
