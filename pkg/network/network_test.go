package network

import (
	"bytes"
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/cbodonnell/suitcase/pkg/input"
	"github.com/cbodonnell/suitcase/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubmitter struct {
	lock   sync.Mutex
	events []input.Event
}

func (r *recordingSubmitter) Submit(ev input.Event) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingSubmitter) Events() []input.Event {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]input.Event(nil), r.events...)
}

func TestFrames_RoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	msg, err := messages.NewKeyEventMessage(3, messages.KeyEvent{Key: "B", Action: messages.KeyActionTap})
	require.NoError(t, err)

	require.NoError(t, WriteMessageToTCP(buf, msg))
	require.NoError(t, WriteMessageToTCP(buf, &messages.Message{Type: messages.MessageTypePing, Sequence: 4}))

	got, err := ReadMessageFromTCP(buf)
	require.NoError(t, err)
	assert.Equal(t, msg, got)

	got, err = ReadMessageFromTCP(buf)
	require.NoError(t, err)
	assert.Equal(t, messages.MessageTypePing, got.Type)
	assert.Equal(t, uint32(4), got.Sequence)

	_, err = ReadMessageFromTCP(buf)
	var closed *ErrConnectionClosed
	assert.True(t, errors.As(err, &closed))
}

func TestFrames_InvalidSize(t *testing.T) {
	_, err := ReadMessageFromTCP(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff}))
	require.Error(t, err)
	var closed *ErrConnectionClosed
	assert.False(t, errors.As(err, &closed))

	_, err = ReadMessageFromTCP(bytes.NewReader([]byte{0, 0, 0, 0}))
	assert.Error(t, err)
}

func TestFrames_TruncatedBody(t *testing.T) {
	_, err := ReadMessageFromTCP(bytes.NewReader([]byte{0, 0, 0, 10, 1, 2}))
	var closed *ErrConnectionClosed
	assert.True(t, errors.As(err, &closed))
}

func TestKeypadServer_HandleConn(t *testing.T) {
	sub := &recordingSubmitter{}
	server := NewKeypadServer(NewKeypadServerOptions{Submitter: sub})
	serverConn, clientConn := net.Pipe()

	done := make(chan struct{})
	go func() {
		server.HandleConn(serverConn)
		close(done)
	}()

	client := &KeypadClient{conn: clientConn}
	require.NoError(t, client.SendKey("1", messages.KeyActionTap))
	require.NoError(t, client.SendKey("#", messages.KeyActionDown))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := client.Ping(ctx)
	require.NoError(t, err)

	// closing with # held releases it
	require.NoError(t, client.Close())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("HandleConn did not return after the client closed")
	}

	assert.Equal(t, []input.Event{
		input.Digit(1),
		input.AlphabetChar('1'),
		input.HoldMenuStart(),
		input.HoldMenuRelease(),
	}, sub.Events())
}

func TestKeypadServer_IgnoresBadKeyEvents(t *testing.T) {
	sub := &recordingSubmitter{}
	server := NewKeypadServer(NewKeypadServerOptions{Submitter: sub})
	serverConn, clientConn := net.Pipe()

	done := make(chan struct{})
	go func() {
		server.HandleConn(serverConn)
		close(done)
	}()

	bad := &messages.Message{Type: messages.MessageTypeKeyEvent, Sequence: 1, Payload: []byte(`{"key":"1","action":"hold"}`)}
	require.NoError(t, WriteMessageToTCP(clientConn, bad))
	unknown := &messages.Message{Type: messages.MessageType(42), Sequence: 2}
	require.NoError(t, WriteMessageToTCP(clientConn, unknown))

	client := &KeypadClient{conn: clientConn, sequence: 2}
	require.NoError(t, client.SendKey("enter", messages.KeyActionTap))
	require.NoError(t, client.Close())
	<-done

	assert.Equal(t, []input.Event{input.Confirm()}, sub.Events())
}

func TestKeypadServer_Serve(t *testing.T) {
	sub := &recordingSubmitter{}
	server := NewKeypadServer(NewKeypadServerOptions{Submitter: sub})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ctx, listener)
	}()

	client := NewKeypadClient(listener.Addr().String())
	require.NoError(t, client.Connect(ctx))
	defer client.Close()

	require.NoError(t, client.SendKey("delete", messages.KeyActionTap))
	require.Eventually(t, func() bool {
		return len(sub.Events()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []input.Event{input.Cancel()}, sub.Events())
	assert.Equal(t, 1, server.Connections())

	cancel()
	select {
	case err := <-serveErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	assert.Equal(t, 0, server.Connections())
}

func TestKeypadClient_NotConnected(t *testing.T) {
	client := NewKeypadClient("127.0.0.1:1")
	assert.Error(t, client.SendKey("1", messages.KeyActionTap))
	_, err := client.Ping(context.Background())
	assert.Error(t, err)
	assert.NoError(t, client.Close())
}
