package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/cbodonnell/suitcase/pkg/log"
	"github.com/cbodonnell/suitcase/pkg/messages"
)

// KeypadClient sends key transitions to a console's keypad server.
type KeypadClient struct {
	serverAddr string

	lock     sync.Mutex
	conn     net.Conn
	sequence uint32
}

func NewKeypadClient(serverAddr string) *KeypadClient {
	return &KeypadClient{serverAddr: serverAddr}
}

func (c *KeypadClient) Connect(ctx context.Context) error {
	log.Info("Connecting to keypad server at %s", c.serverAddr)
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", c.serverAddr)
	if err != nil {
		return fmt.Errorf("failed to connect to keypad server: %v", err)
	}
	c.lock.Lock()
	c.conn = conn
	c.lock.Unlock()
	return nil
}

// SendKey reports one key transition.
func (c *KeypadClient) SendKey(key string, action messages.KeyAction) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.conn == nil {
		return fmt.Errorf("keypad client is not connected")
	}

	c.sequence++
	msg, err := messages.NewKeyEventMessage(c.sequence, messages.KeyEvent{Key: key, Action: action})
	if err != nil {
		return err
	}
	if err := WriteMessageToTCP(c.conn, msg); err != nil {
		return fmt.Errorf("failed to send key %s: %v", key, err)
	}
	return nil
}

// Ping measures the round trip to the server.
func (c *KeypadClient) Ping(ctx context.Context) (time.Duration, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.conn == nil {
		return 0, fmt.Errorf("keypad client is not connected")
	}

	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetDeadline(deadline)
		defer c.conn.SetDeadline(time.Time{})
	}

	c.sequence++
	sent := time.Now()
	ping := &messages.Message{Type: messages.MessageTypePing, Sequence: c.sequence}
	if err := WriteMessageToTCP(c.conn, ping); err != nil {
		return 0, fmt.Errorf("failed to send ping: %v", err)
	}

	for {
		msg, err := ReadMessageFromTCP(c.conn)
		if err != nil {
			return 0, fmt.Errorf("failed to read pong: %v", err)
		}
		if msg.Type == messages.MessageTypePong && msg.Sequence == c.sequence {
			return time.Since(sent), nil
		}
	}
}

func (c *KeypadClient) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.conn == nil {
		log.Warn("Keypad connection is already closed")
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("failed to close keypad connection: %v", err)
	}
	return nil
}
