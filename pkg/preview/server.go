// Package preview serves a browser view of the console: the current screen,
// the simulated lamps, a clickable keypad and the round journal.
package preview

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cbodonnell/suitcase/pkg/effects"
	"github.com/cbodonnell/suitcase/pkg/game"
	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/cbodonnell/suitcase/pkg/input"
	"github.com/cbodonnell/suitcase/pkg/log"
	"github.com/cbodonnell/suitcase/pkg/render"
	"github.com/cbodonnell/suitcase/pkg/repositories"
	"github.com/gorilla/mux"
)

//go:embed static
var staticFS embed.FS

const shutdownTimeout = 5 * time.Second

// Console is the part of the game manager the preview needs.
type Console interface {
	Snapshot() types.Snapshot
	Rules() game.Rules
	Submit(ev input.Event) error
}

// StateMessage is sent to viewers after every console step.
type StateMessage struct {
	Type     string              `json:"type"`
	Snapshot types.Snapshot      `json:"snapshot"`
	View     render.View         `json:"view"`
	Panel    *effects.PanelState `json:"panel,omitempty"`
}

type PreviewServer struct {
	server     *http.Server
	console    Console
	panel      *effects.Panel
	repository repositories.Repository
	hub        *Hub
	keymap     *input.Keymap
	logger     *log.Logger
}

type NewPreviewServerOptions struct {
	Addr    string
	Console Console
	// Panel is optional. When set its lamp state is included in every frame.
	Panel *effects.Panel
	// Repository is optional. Without it the journal routes answer 503.
	Repository repositories.Repository
	Logger     *log.Logger
}

// NewPreviewServer creates a new http.Server for the browser preview
func NewPreviewServer(opts NewPreviewServerOptions) *PreviewServer {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &PreviewServer{
		console:    opts.Console,
		panel:      opts.Panel,
		repository: opts.Repository,
		keymap:     input.NewKeymap(),
		logger:     logger.WithComponent("preview"),
	}
	s.hub = newHub(s.stateMessage, s.logger)
	s.server = &http.Server{
		Addr:    opts.Addr,
		Handler: s.Handler(),
	}
	return s
}

// Handler returns the preview routes.
func (s *PreviewServer) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(newLoggingMiddleware(s.logger), corsMiddleware)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/keys", s.handleKeys).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/rounds", s.handleListRounds).Methods(http.MethodGet)
	r.HandleFunc("/rounds/{id}", s.handleGetRound).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	return r
}

// Hub returns the viewer hub. Feed it snapshots with Broadcast.
func (s *PreviewServer) Hub() *Hub {
	return s.hub
}

// Start serves until ctx is done.
func (s *PreviewServer) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.server.ListenAndServe()
	}()
	s.logger.Info("Preview server listening on %s", s.server.Addr)

	select {
	case err := <-errc:
		return fmt.Errorf("preview server error: %v", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop preview server: %v", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("preview server error: %v", err)
	}
	s.logger.Info("Preview server closed")
	return nil
}

// Stop disconnects every viewer and shuts the server down.
func (s *PreviewServer) Stop(ctx context.Context) error {
	s.hub.Close()
	return s.server.Shutdown(ctx)
}

func (s *PreviewServer) stateMessage(snapshot types.Snapshot) StateMessage {
	msg := StateMessage{
		Type:     "state",
		Snapshot: snapshot,
		View:     render.Build(snapshot.Session, s.console.Rules()),
	}
	if s.panel != nil {
		panel := s.panel.State()
		msg.Panel = &panel
	}
	return msg
}

func (s *PreviewServer) submit(events []input.Event) {
	for _, ev := range events {
		if err := s.console.Submit(ev); err != nil {
			s.logger.Error("Failed to submit %s: %v", ev, err)
		}
	}
}
