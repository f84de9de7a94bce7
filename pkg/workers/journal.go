package workers

import (
	"context"
	"time"

	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/cbodonnell/suitcase/pkg/log"
	"github.com/cbodonnell/suitcase/pkg/repositories"
)

// DefaultSaveTimeout bounds a single journal write.
const DefaultSaveTimeout = 5 * time.Second

type JournalWorker struct {
	repository  repositories.Repository
	roundChan   <-chan types.RoundRecord
	saveTimeout time.Duration
	logger      *log.Logger
}

type NewJournalWorkerOptions struct {
	Repository  repositories.Repository
	RoundChan   <-chan types.RoundRecord
	SaveTimeout time.Duration
	Logger      *log.Logger
}

// NewJournalWorker creates a new JournalWorker.
// The worker saves the rounds finished by the console to the repository.
func NewJournalWorker(opts NewJournalWorkerOptions) *JournalWorker {
	saveTimeout := opts.SaveTimeout
	if saveTimeout <= 0 {
		saveTimeout = DefaultSaveTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &JournalWorker{
		repository:  opts.Repository,
		roundChan:   opts.RoundChan,
		saveTimeout: saveTimeout,
		logger:      logger.WithComponent("journal"),
	}
}

// Start saves rounds until ctx is done or the channel is closed. Rounds
// already queued when ctx is done are still saved.
func (w *JournalWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case round, ok := <-w.roundChan:
			if !ok {
				return
			}
			w.saveRound(context.Background(), round)
		}
	}
}

func (w *JournalWorker) drain() {
	for {
		select {
		case round, ok := <-w.roundChan:
			if !ok {
				return
			}
			w.saveRound(context.Background(), round)
		default:
			return
		}
	}
}

func (w *JournalWorker) saveRound(ctx context.Context, round types.RoundRecord) {
	ctx, cancel := context.WithTimeout(ctx, w.saveTimeout)
	defer cancel()
	if err := w.repository.SaveRound(ctx, round); err != nil {
		w.logger.Error("Failed to save round %s: %v", round.ID, err)
		return
	}
	w.logger.Debug("Saved %s round %s (%s)", round.Mode, round.ID, round.Outcome)
}
