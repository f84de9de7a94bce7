package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/cbodonnell/suitcase/pkg/input"
	"github.com/cbodonnell/suitcase/pkg/log"
	"github.com/cbodonnell/suitcase/pkg/messages"
)

// EventSubmitter accepts input events from any goroutine. *game.Manager
// implements it.
type EventSubmitter interface {
	Submit(ev input.Event) error
}

// KeypadServer accepts keypad bridges over TCP and forwards their key
// transitions to the console as input events.
type KeypadServer struct {
	addr      string
	submitter EventSubmitter
	logger    *log.Logger

	lock  sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

type NewKeypadServerOptions struct {
	Addr      string
	Submitter EventSubmitter
	Logger    *log.Logger
}

func NewKeypadServer(opts NewKeypadServerOptions) *KeypadServer {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &KeypadServer{
		addr:      opts.Addr,
		submitter: opts.Submitter,
		logger:    logger.WithComponent("keypad"),
		conns:     make(map[net.Conn]struct{}),
	}
}

// Start listens on the configured address and serves until ctx is done.
func (s *KeypadServer) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %v", s.addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts bridges on l until ctx is done. It closes l and every open
// connection before returning.
func (s *KeypadServer) Serve(ctx context.Context, l net.Listener) error {
	s.logger.Info("Keypad server listening on %s", l.Addr())

	stop := make(chan struct{})
	defer s.wg.Wait()
	defer s.closeConns()
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		l.Close()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.logger.Info("Keypad server closed")
				return nil
			}
			s.logger.Error("Failed to accept keypad connection: %v", err)
			continue
		}

		s.track(conn)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.HandleConn(conn)
		}()
	}
}

// Connections returns the number of connected bridges.
func (s *KeypadServer) Connections() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.conns)
}

// HandleConn serves one bridge until it disconnects. Keys still held by the
// bridge are released when it goes away so a dropped link cannot leave the
// menu key down.
func (s *KeypadServer) HandleConn(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	keymap := input.NewKeymap()
	s.logger.Debug("Keypad %s connected", remote)

	defer func() {
		s.submit(keymap.ReleaseAll())
		s.untrack(conn)
		conn.Close()
		s.logger.Debug("Keypad %s disconnected", remote)
	}()

	for {
		msg, err := ReadMessageFromTCP(conn)
		if err != nil {
			var closed *ErrConnectionClosed
			if !errors.As(err, &closed) {
				s.logger.Error("Dropping keypad %s: %v", remote, err)
			}
			return
		}

		switch msg.Type {
		case messages.MessageTypePing:
			pong := &messages.Message{Type: messages.MessageTypePong, Sequence: msg.Sequence}
			if err := WriteMessageToTCP(conn, pong); err != nil {
				s.logger.Error("Failed to send pong to keypad %s: %v", remote, err)
				return
			}
		case messages.MessageTypeKeyEvent:
			keyEvent, err := msg.KeyEvent()
			if err != nil {
				s.logger.Warn("Ignoring key event %d from %s: %v", msg.Sequence, remote, err)
				continue
			}
			s.logger.Trace("Key %s %s from %s", keyEvent.Key, keyEvent.Action, remote)
			s.submit(keyEvent.Apply(keymap))
		default:
			s.logger.Warn("Ignoring %s message from keypad %s", msg.Type, remote)
		}
	}
}

func (s *KeypadServer) submit(events []input.Event) {
	for _, ev := range events {
		if err := s.submitter.Submit(ev); err != nil {
			s.logger.Error("Failed to submit %s: %v", ev, err)
		}
	}
}

func (s *KeypadServer) track(conn net.Conn) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *KeypadServer) untrack(conn net.Conn) {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.conns, conn)
}

func (s *KeypadServer) closeConns() {
	s.lock.Lock()
	defer s.lock.Unlock()
	for conn := range s.conns {
		conn.Close()
	}
}
