package workers

import (
	"context"

	"github.com/cbodonnell/suitcase/pkg/game/types"
)

// Broadcaster fans a snapshot out to connected viewers.
type Broadcaster interface {
	Broadcast(ctx context.Context, snapshot types.Snapshot)
}

// BroadcastSnapshotWorker moves snapshots off the console goroutine so a slow
// viewer never delays a game step.
type BroadcastSnapshotWorker struct {
	broadcaster  Broadcaster
	snapshotChan <-chan types.Snapshot
}

type NewBroadcastSnapshotWorkerOptions struct {
	Broadcaster  Broadcaster
	SnapshotChan <-chan types.Snapshot
}

func NewBroadcastSnapshotWorker(opts NewBroadcastSnapshotWorkerOptions) *BroadcastSnapshotWorker {
	return &BroadcastSnapshotWorker{
		broadcaster:  opts.Broadcaster,
		snapshotChan: opts.SnapshotChan,
	}
}

func (w *BroadcastSnapshotWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-w.snapshotChan:
			if !ok {
				return
			}
			w.broadcaster.Broadcast(ctx, snapshot)
		}
	}
}

// SnapshotSink returns an OnChange callback that never blocks. When ch is
// full the oldest pending snapshot is replaced, so viewers always converge
// on the latest state. ch must be buffered.
func SnapshotSink(ch chan types.Snapshot) func(types.Snapshot) {
	return func(snapshot types.Snapshot) {
		for {
			select {
			case ch <- snapshot:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}
}
