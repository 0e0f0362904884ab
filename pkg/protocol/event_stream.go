package protocol

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/core"
	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

// EventStream reads host notifications from the event stream.
// The stream is inbound only; nothing is ever written to it.
type EventStream struct {
	stream  Stream
	reader  *bufio.Reader
	framing *core.MessageFraming

	mu      sync.Mutex
	failure error
}

// NewEventStream creates a reader over stream
func NewEventStream(stream Stream, framing *core.MessageFraming) *EventStream {
	return &EventStream{
		stream:  stream,
		reader:  bufio.NewReader(stream),
		framing: framing,
	}
}

// Read blocks until the next event arrives, ctx is done or the stream fails.
//
// Cancelling ctx while no frame has started arriving returns a Timeout and
// leaves the stream usable. Cancelling in the middle of a frame, or any I/O
// failure, makes every later Read fail.
func (es *EventStream) Read(ctx context.Context) (models.Event, error) {
	es.mu.Lock()
	defer es.mu.Unlock()

	if es.failure != nil {
		return models.Event{}, models.WrapError(models.SessionClosed, "event stream is unusable", es.failure)
	}
	if err := ctx.Err(); err != nil {
		return models.Event{}, models.WrapError(models.Timeout, "context done before read", err)
	}

	disarm := armDeadline(ctx, es.stream, 0)
	defer disarm()

	// Peek leaves partially received bytes buffered, so an interrupted wait
	// does not lose the start of a frame.
	if _, err := es.reader.Peek(core.LengthPrefixSize); err != nil {
		if ctx.Err() != nil || errors.Is(err, os.ErrDeadlineExceeded) {
			return models.Event{}, classifyStreamError(ctx, err)
		}
		if errors.Is(err, io.EOF) && es.reader.Buffered() == 0 {
			return models.Event{}, es.fail(models.WrapError(models.TransportError, "event stream closed by peer", io.EOF))
		}
		if errors.Is(err, io.EOF) {
			return models.Event{}, es.fail(models.WrapError(models.ProtocolError, "short read in length prefix", io.ErrUnexpectedEOF))
		}
		return models.Event{}, es.fail(models.WrapError(models.TransportError, "failed to read event", err))
	}

	raw, err := es.framing.ReadMessage(es.reader)
	if err != nil {
		return models.Event{}, es.fail(classifyStreamError(ctx, err))
	}

	var event models.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		// The frame was consumed whole; the stream itself is still aligned.
		return models.Event{}, models.WrapError(models.ProtocolError, "event is not an object", err)
	}
	if event.Type == "" {
		return models.Event{}, models.NewGUIError(models.ProtocolError, "event has no type")
	}
	return event, nil
}

// Err returns the failure that made the stream unusable, if any
func (es *EventStream) Err() error {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.failure
}

func (es *EventStream) fail(err error) error {
	es.failure = err
	return err
}
