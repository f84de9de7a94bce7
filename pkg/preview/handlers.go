package preview

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cbodonnell/suitcase/pkg/input"
	"github.com/cbodonnell/suitcase/pkg/messages"
	"github.com/cbodonnell/suitcase/pkg/repositories"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func (s *PreviewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		s.logger.Error("failed to read index page: %v", err)
		http.Error(w, "Failed to read index page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *PreviewServer) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.stateMessage(s.console.Snapshot()))
}

func (s *PreviewServer) handleKeys(w http.ResponseWriter, r *http.Request) {
	ev := messages.KeyEvent{}
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "Invalid key event", http.StatusBadRequest)
		return
	}
	switch ev.Action {
	case messages.KeyActionDown, messages.KeyActionUp, messages.KeyActionTap:
	default:
		http.Error(w, "Action must be down, up or tap", http.StatusBadRequest)
		return
	}
	if input.NormalizeKey(ev.Key) == "" {
		http.Error(w, "Unknown key", http.StatusBadRequest)
		return
	}

	s.submit(ev.Apply(s.keymap))
	w.WriteHeader(http.StatusAccepted)
}

func (s *PreviewServer) handleListRounds(w http.ResponseWriter, r *http.Request) {
	if s.repository == nil {
		http.Error(w, "Round journal is disabled", http.StatusServiceUnavailable)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "Limit must be a positive number", http.StatusBadRequest)
			return
		}
		limit = n
	}

	rounds, err := s.repository.ListRounds(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list rounds: %v", err)
		http.Error(w, "Failed to list rounds", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, rounds)
}

func (s *PreviewServer) handleGetRound(w http.ResponseWriter, r *http.Request) {
	if s.repository == nil {
		http.Error(w, "Round journal is disabled", http.StatusServiceUnavailable)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid round id", http.StatusBadRequest)
		return
	}

	round, err := s.repository.GetRound(r.Context(), id)
	if err != nil {
		if repositories.IsNotFound(err) {
			http.Error(w, "Round not found", http.StatusNotFound)
			return
		}
		s.logger.Error("failed to get round %s: %v", id, err)
		http.Error(w, "Failed to get round", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, round)
}

// handleWebSocket streams state frames to a viewer and accepts key events
// from it. Keys the viewer still holds are released when it disconnects.
func (s *PreviewServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.logger.Error("Failed to upgrade to WebSocket: %v", err)
		return
	}

	sub, ok := s.hub.subscribe()
	if !ok {
		conn.Close(websocket.StatusGoingAway, "server closing")
		return
	}
	defer s.hub.unsubscribe(sub)
	s.logger.Debug("Viewer %s connected", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	keymap := input.NewKeymap()
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		defer cancel()
		s.readKeys(ctx, conn, keymap)
	}()
	defer func() {
		conn.CloseNow()
		<-readDone
		s.submit(keymap.ReleaseAll())
		s.logger.Debug("Viewer %s disconnected", r.RemoteAddr)
	}()

	if err := wsjson.Write(ctx, conn, s.stateMessage(s.console.Snapshot())); err != nil {
		s.logger.Debug("Failed to send initial state: %v", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.done:
			conn.Close(websocket.StatusGoingAway, "server closing")
			return
		case frame := <-sub.frames:
			if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
				s.logger.Debug("Failed to send state: %v", err)
				return
			}
		}
	}
}

func (s *PreviewServer) readKeys(ctx context.Context, conn *websocket.Conn, keymap *input.Keymap) {
	for {
		ev := messages.KeyEvent{}
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				s.logger.Debug("Viewer read failed: %v", err)
			}
			return
		}
		events := ev.Apply(keymap)
		if events == nil && ev.Action != messages.KeyActionUp {
			s.logger.Warn("Ignoring key %q %q from viewer", ev.Key, ev.Action)
			continue
		}
		s.submit(events)
	}
}

func (s *PreviewServer) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response: %v", err)
	}
}
