package messages

import (
	"fmt"

	messagefb "github.com/cbodonnell/suitcase/flatbuffers/message"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/zstd"
)

// maxDecodedSize bounds the memory a single frame may expand to.
const maxDecodedSize = 64 * MessageBufferSize

func SerializeMessage(m *Message) ([]byte, error) {
	b, err := SerializeMessageFlatbuffer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %v", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %v", err)
	}
	defer encoder.Close()

	return encoder.EncodeAll(b, nil), nil
}

func DeserializeMessage(data []byte) (*Message, error) {
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(maxDecodedSize))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	defer decoder.Close()

	b, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress message: %v", err)
	}

	message, err := DeserializeMessageFlatbuffer(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return message, nil
}

func SerializeMessageFlatbuffer(m *Message) ([]byte, error) {
	builder := flatbuffers.NewBuilder(len(m.Payload) + 32)

	payload := builder.CreateByteVector(m.Payload)

	messagefb.MessageStart(builder)
	messagefb.MessageAddType(builder, byte(m.Type))
	messagefb.MessageAddSequence(builder, m.Sequence)
	messagefb.MessageAddPayload(builder, payload)
	messageOffset := messagefb.MessageEnd(builder)
	builder.Finish(messageOffset)

	return builder.FinishedBytes(), nil
}

func DeserializeMessageFlatbuffer(b []byte) (m *Message, err error) {
	// the generated accessors panic on truncated buffers
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("malformed message buffer: %v", r)
		}
	}()
	if len(b) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("message buffer too short: %d bytes", len(b))
	}

	messageFlatbuffer := messagefb.GetRootAsMessage(b, 0)
	message := &Message{
		Type:     MessageType(messageFlatbuffer.Type()),
		Sequence: messageFlatbuffer.Sequence(),
	}
	if payload := messageFlatbuffer.PayloadBytes(); payload != nil {
		message.Payload = append([]byte(nil), payload...)
	}
	return message, nil
}
