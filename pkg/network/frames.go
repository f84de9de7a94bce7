package network

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/cbodonnell/suitcase/pkg/messages"
)

// frameHeaderSize is the length prefix in front of every compressed message.
const frameHeaderSize = 4

// ErrConnectionClosed is returned when the peer closed the connection
type ErrConnectionClosed struct{}

func (e *ErrConnectionClosed) Error() string {
	return "connection closed"
}

// WriteMessageToTCP writes a length prefixed Message to a TCP connection
func WriteMessageToTCP(w io.Writer, msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}
	if len(b) > messages.MessageBufferSize {
		return fmt.Errorf("message of %d bytes exceeds the %d byte limit", len(b), messages.MessageBufferSize)
	}

	frame := make([]byte, frameHeaderSize+len(b))
	binary.BigEndian.PutUint32(frame, uint32(len(b)))
	copy(frame[frameHeaderSize:], b)
	if _, err := w.Write(frame); err != nil {
		if isClosed(err) {
			return &ErrConnectionClosed{}
		}
		return fmt.Errorf("failed to write message to TCP connection: %v", err)
	}

	return nil
}

// ReadMessageFromTCP reads one length prefixed Message from a TCP connection
func ReadMessageFromTCP(r io.Reader) (*messages.Message, error) {
	header := make([]byte, frameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if isClosed(err) {
			return nil, &ErrConnectionClosed{}
		}
		return nil, fmt.Errorf("failed to read frame header: %v", err)
	}

	size := binary.BigEndian.Uint32(header)
	if size == 0 || size > messages.MessageBufferSize {
		return nil, fmt.Errorf("invalid frame size: %d", size)
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		if isClosed(err) {
			return nil, &ErrConnectionClosed{}
		}
		return nil, fmt.Errorf("failed to read message from TCP connection: %v", err)
	}

	msg, err := messages.DeserializeMessage(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return msg, nil
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed)
}
