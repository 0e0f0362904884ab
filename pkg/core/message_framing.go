package core

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

// LengthPrefixSize is the size of the 4-byte big-endian length prefix
const LengthPrefixSize = 4

// MessageFraming handles the 4-byte big-endian length prefix protocol used on
// both the main and the event stream. The body is compact JSON.
type MessageFraming struct {
	maxMessageSize int
}

// NewMessageFraming creates a new message framing handler.
// maxMessageSize <= 0 disables the size check.
func NewMessageFraming(maxMessageSize int) *MessageFraming {
	return &MessageFraming{
		maxMessageSize: maxMessageSize,
	}
}

// MaxMessageSize returns the configured limit, 0 when unlimited
func (mf *MessageFraming) MaxMessageSize() int {
	if mf.maxMessageSize < 0 {
		return 0
	}
	return mf.maxMessageSize
}

func (mf *MessageFraming) exceeds(n uint64) bool {
	return mf.maxMessageSize > 0 && n > uint64(mf.maxMessageSize)
}

// EncodeMessage marshals message and prepends its length
func (mf *MessageFraming) EncodeMessage(message interface{}) ([]byte, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return nil, models.WrapError(models.ProtocolError, "failed to marshal message", err)
	}
	if uint64(len(body)) > uint64(^uint32(0)) || mf.exceeds(uint64(len(body))) {
		return nil, models.NewGUIError(models.ProtocolError,
			fmt.Sprintf("message size %d exceeds maximum allowed size %d", len(body), mf.MaxMessageSize()))
	}

	frame := make([]byte, LengthPrefixSize+len(body))
	binary.BigEndian.PutUint32(frame[:LengthPrefixSize], uint32(len(body)))
	copy(frame[LengthPrefixSize:], body)
	return frame, nil
}

// DecodeMessage decodes one frame from the start of buffer and returns the
// remaining bytes. An incomplete frame yields a ProtocolError and the buffer unchanged.
func (mf *MessageFraming) DecodeMessage(buffer []byte) (json.RawMessage, []byte, error) {
	if len(buffer) < LengthPrefixSize {
		return nil, buffer, models.NewGUIError(models.ProtocolError,
			fmt.Sprintf("buffer too small for length prefix: %d < %d", len(buffer), LengthPrefixSize))
	}

	messageLen := binary.BigEndian.Uint32(buffer[:LengthPrefixSize])
	if mf.exceeds(uint64(messageLen)) {
		return nil, buffer, models.NewGUIError(models.ProtocolError,
			fmt.Sprintf("message size %d exceeds maximum allowed size %d", messageLen, mf.MaxMessageSize()))
	}

	total := LengthPrefixSize + int(messageLen)
	if len(buffer) < total {
		return nil, buffer, models.NewGUIError(models.ProtocolError,
			fmt.Sprintf("short frame: have %d of %d bytes", len(buffer)-LengthPrefixSize, messageLen))
	}

	body := buffer[LengthPrefixSize:total]
	if !json.Valid(body) {
		return nil, buffer, models.NewGUIError(models.ProtocolError, "frame body is not valid JSON")
	}

	message := make(json.RawMessage, len(body))
	copy(message, body)
	return message, buffer[total:], nil
}

// WriteMessage writes message as a single frame
func (mf *MessageFraming) WriteMessage(w io.Writer, message interface{}) error {
	frame, err := mf.EncodeMessage(message)
	if err != nil {
		return err
	}
	return mf.WriteFrame(w, frame)
}

// WriteFrame writes an already encoded frame.
// The whole frame is handed to w in one call so frames are never interleaved.
func (mf *MessageFraming) WriteFrame(w io.Writer, frame []byte) error {
	n, err := w.Write(frame)
	if err != nil {
		return models.WrapError(models.TransportError, "failed to write message", err)
	}
	if n != len(frame) {
		return models.WrapError(models.TransportError,
			fmt.Sprintf("short write: %d of %d bytes", n, len(frame)), io.ErrShortWrite)
	}

	if f, ok := w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return models.WrapError(models.TransportError, "failed to flush message", err)
		}
	}
	return nil
}

// ReadMessage reads exactly one frame from r.
//
// A clean EOF before any prefix byte means the peer closed the stream and is
// reported as a TransportError wrapping io.EOF. EOF anywhere inside a frame is a
// ProtocolError (short read); a truncated value is never returned.
func (mf *MessageFraming) ReadMessage(r io.Reader) (json.RawMessage, error) {
	var lengthBytes [LengthPrefixSize]byte
	if _, err := io.ReadFull(r, lengthBytes[:]); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return nil, models.WrapError(models.TransportError, "stream closed by peer", io.EOF)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return nil, models.WrapError(models.ProtocolError, "short read in length prefix", err)
		default:
			return nil, models.WrapError(models.TransportError, "failed to read message length", err)
		}
	}

	messageLen := binary.BigEndian.Uint32(lengthBytes[:])
	if mf.exceeds(uint64(messageLen)) {
		return nil, models.NewGUIError(models.ProtocolError,
			fmt.Sprintf("message size %d exceeds maximum allowed size %d", messageLen, mf.MaxMessageSize()))
	}

	body := make([]byte, messageLen)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, models.WrapError(models.ProtocolError,
				fmt.Sprintf("short read: expected %d body bytes", messageLen), io.ErrUnexpectedEOF)
		}
		return nil, models.WrapError(models.TransportError, "failed to read message payload", err)
	}

	if !json.Valid(body) {
		return nil, models.NewGUIError(models.ProtocolError, "frame body is not valid JSON")
	}
	return body, nil
}

// ReadInto reads one frame and unmarshals it into out
func (mf *MessageFraming) ReadInto(r io.Reader, out interface{}) error {
	raw, err := mf.ReadMessage(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return models.WrapError(models.ProtocolError, "failed to parse message", err)
	}
	return nil
}
