package preview

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/cbodonnell/suitcase/pkg/log"
)

// subscription carries encoded state frames to one viewer. Only the newest
// frame is kept.
type subscription struct {
	frames chan []byte
	done   chan struct{}
}

// Hub fans state frames out to websocket viewers.
type Hub struct {
	state  func(types.Snapshot) StateMessage
	logger *log.Logger

	lock   sync.Mutex
	subs   map[*subscription]struct{}
	closed bool
}

func newHub(state func(types.Snapshot) StateMessage, logger *log.Logger) *Hub {
	return &Hub{
		state:  state,
		logger: logger,
		subs:   make(map[*subscription]struct{}),
	}
}

// Broadcast sends snapshot to every viewer. It never blocks on a viewer.
func (h *Hub) Broadcast(ctx context.Context, snapshot types.Snapshot) {
	frame, err := json.Marshal(h.state(snapshot))
	if err != nil {
		h.logger.Error("Failed to marshal state: %v", err)
		return
	}

	h.lock.Lock()
	defer h.lock.Unlock()
	for sub := range h.subs {
		sub.push(frame)
	}
}

// Viewers returns the number of subscribed viewers.
func (h *Hub) Viewers() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.subs)
}

func (h *Hub) subscribe() (*subscription, bool) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.closed {
		return nil, false
	}
	sub := &subscription{
		frames: make(chan []byte, 1),
		done:   make(chan struct{}),
	}
	h.subs[sub] = struct{}{}
	return sub, true
}

func (h *Hub) unsubscribe(sub *subscription) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.done)
	}
}

// Close ends every subscription and refuses new ones.
func (h *Hub) Close() {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.closed = true
	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub.done)
	}
}

func (s *subscription) push(frame []byte) {
	for {
		select {
		case s.frames <- frame:
			return
		default:
		}
		select {
		case <-s.frames:
		default:
		}
	}
}
