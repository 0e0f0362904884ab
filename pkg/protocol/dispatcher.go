package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/core"
	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

// Stream is a byte stream that supports deadlines, such as a net.Conn
type Stream interface {
	io.ReadWriter
	SetDeadline(t time.Time) error
}

// Dispatcher implements the request/response discipline of the main stream.
//
// The host answers strictly in order and never pipelines, so a request and its
// reply are exchanged under one lock hold. There are no request ids: the
// reply read right after a write belongs to that write.
type Dispatcher struct {
	stream    Stream
	framing   *core.MessageFraming
	validator *core.RequestValidator
	timeout   time.Duration

	mu sync.Mutex
	// failure is the first I/O error. After it the stream position is unknown
	// and every later call fails.
	failure error
}

// NewDispatcher creates a dispatcher over stream.
// timeout bounds each exchange; 0 leaves only the caller's context.
func NewDispatcher(stream Stream, framing *core.MessageFraming, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		stream:    stream,
		framing:   framing,
		validator: core.NewRequestValidator(),
		timeout:   timeout,
	}
}

// Call sends req without reading a reply.
// Used for methods the host does not answer.
func (d *Dispatcher) Call(ctx context.Context, req *models.Request) error {
	_, err := d.exchange(ctx, req, false)
	return err
}

// CallAndWait sends req and reads exactly one reply frame.
// The reply is returned raw; its shape is the caller's concern.
func (d *Dispatcher) CallAndWait(ctx context.Context, req *models.Request) (json.RawMessage, error) {
	return d.exchange(ctx, req, true)
}

// Err returns the failure that poisoned the stream, if any
func (d *Dispatcher) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.failure
}

func (d *Dispatcher) exchange(ctx context.Context, req *models.Request, wait bool) (json.RawMessage, error) {
	// Validation and encoding happen before the lock and before any byte is
	// written, so a rejected request leaves the stream usable.
	if err := d.validator.ValidateRequest(req); err != nil {
		return nil, err
	}
	frame, err := d.framing.EncodeMessage(req)
	if err != nil {
		return nil, asMethodError(err, req.Method)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failure != nil {
		return nil, models.WrapError(models.SessionClosed, "main stream is unusable", d.failure).WithMethod(req.Method)
	}
	if err := ctx.Err(); err != nil {
		return nil, models.WrapError(models.Timeout, "context done before send", err).WithMethod(req.Method)
	}

	disarm := armDeadline(ctx, d.stream, d.timeout)
	defer disarm()

	if err := d.framing.WriteFrame(d.stream, frame); err != nil {
		return nil, d.fail(ctx, err, req.Method)
	}
	if !wait {
		return nil, nil
	}

	reply, err := d.framing.ReadMessage(d.stream)
	if err != nil {
		return nil, d.fail(ctx, err, req.Method)
	}
	return reply, nil
}

// fail records an I/O error and converts deadline errors into Timeout
func (d *Dispatcher) fail(ctx context.Context, err error, method string) error {
	err = classifyStreamError(ctx, err)
	d.failure = err
	return asMethodError(err, method)
}

// armDeadline applies the tighter of timeout and the context deadline to
// stream, and interrupts blocked I/O when ctx is cancelled. The returned
// function clears the deadline again.
func armDeadline(ctx context.Context, stream Stream, timeout time.Duration) func() {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok && (deadline.IsZero() || ctxDeadline.Before(deadline)) {
		deadline = ctxDeadline
	}
	stream.SetDeadline(deadline)

	interrupted := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		stream.SetDeadline(time.Unix(1, 0))
		close(interrupted)
	})
	return func() {
		if !stop() {
			// The interrupt already started; let it finish so it cannot
			// land after the reset below.
			<-interrupted
		}
		stream.SetDeadline(time.Time{})
	}
}

// classifyStreamError maps deadline and cancellation failures to Timeout
func classifyStreamError(ctx context.Context, err error) error {
	if cause := core.ContextCause(ctx, err); cause != nil {
		return models.WrapError(models.Timeout, "exchange interrupted", cause)
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return models.WrapError(models.Timeout, "exchange deadline exceeded", err)
	}
	return err
}

func asMethodError(err error, method string) error {
	var guiErr *models.GUIError
	if errors.As(err, &guiErr) {
		return guiErr.WithMethod(method)
	}
	return models.WrapError(models.TransportError, "", err).WithMethod(method)
}
