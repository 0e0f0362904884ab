// Package hosttest provides an in-process stand-in for the Termux:GUI host.
//
// A Host accepts the client's two streams, answers the version handshake,
// serves requests from registered handlers and pushes events. It speaks the
// same framing as the real host so sessions can be exercised end to end.
package hosttest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/core"
	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

// Result is what a handler returns for one request
type Result struct {
	// Value is framed and written back unless NoReply is set
	Value interface{}
	// NoReply leaves the request unanswered, as the host does for mutators
	NoReply bool
	// Delay postpones the reply
	Delay time.Duration
}

// Handler serves one request
type Handler interface {
	Handle(req models.Request) Result
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(req models.Request) Result

// Handle calls f
func (f HandlerFunc) Handle(req models.Request) Result {
	return f(req)
}

// Config holds the behaviour of a Host
type Config struct {
	// HandshakeReply is the byte answered to the client's version byte
	HandshakeReply byte
	// SkipHandshake makes the host close the main stream instead of answering
	SkipHandshake bool
	// MaxMessageSize caps request frames, 0 disables the cap
	MaxMessageSize int
}

// DefaultConfig returns a host that accepts protocol version 1
func DefaultConfig() Config {
	return Config{
		HandshakeReply: 0,
	}
}

// Host is a fake GUI host
type Host struct {
	config  Config
	framing *core.MessageFraming

	mu         sync.Mutex
	handlers   map[string]Handler
	requests   []models.Request
	version    byte
	mainToken  string
	eventToken string
	mainConn   net.Conn
	eventConn  net.Conn
	serveErr   error

	incoming chan models.Request
	done     chan struct{}
	started  sync.Once
	closed   sync.Once
}

// New creates a host. Methods without a handler are left unanswered.
func New(config ...Config) *Host {
	cfg := DefaultConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	return &Host{
		config:   cfg,
		framing:  core.NewMessageFraming(cfg.MaxMessageSize),
		handlers: make(map[string]Handler),
		incoming: make(chan models.Request, 1024),
		done:     make(chan struct{}),
	}
}

// RegisterHandler serves method with handler
func (h *Host) RegisterHandler(method string, handler Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[method] = handler
}

// Reply answers every request for method with value
func (h *Host) Reply(method string, value interface{}) {
	h.RegisterHandler(method, HandlerFunc(func(models.Request) Result {
		return Result{Value: value}
	}))
}

// ReplySequence answers successive requests for method with values in order,
// repeating the last one once they run out
func (h *Host) ReplySequence(method string, values ...interface{}) {
	var mu sync.Mutex
	next := 0
	h.RegisterHandler(method, HandlerFunc(func(models.Request) Result {
		mu.Lock()
		defer mu.Unlock()
		if len(values) == 0 {
			return Result{NoReply: true}
		}
		value := values[min(next, len(values)-1)]
		next++
		return Result{Value: value}
	}))
}

// Activator returns an activator that makes the host dial the client's
// abstract sockets, the way the real host reacts to the broadcast
func (h *Host) Activator() core.Activator {
	return core.ActivatorFunc(func(ctx context.Context, mainToken, eventToken string) error {
		var dialer net.Dialer
		mainConn, err := dialer.DialContext(ctx, "unix", "@"+mainToken)
		if err != nil {
			return models.WrapError(models.ActivationFailed, "host could not reach main socket", err)
		}
		eventConn, err := dialer.DialContext(ctx, "unix", "@"+eventToken)
		if err != nil {
			mainConn.Close()
			return models.WrapError(models.ActivationFailed, "host could not reach event socket", err)
		}

		h.mu.Lock()
		h.mainToken, h.eventToken = mainToken, eventToken
		h.mu.Unlock()
		h.start(mainConn, eventConn)
		return nil
	})
}

// Attach connects the host over a pair of socketpairs and returns the client
// ends, ready for protocol.Establish
func (h *Host) Attach() (mainConn, eventConn net.Conn, err error) {
	clientMain, hostMain, err := SocketPair()
	if err != nil {
		return nil, nil, err
	}
	clientEvent, hostEvent, err := SocketPair()
	if err != nil {
		clientMain.Close()
		hostMain.Close()
		return nil, nil, err
	}
	h.start(hostMain, hostEvent)
	return clientMain, clientEvent, nil
}

func (h *Host) start(mainConn, eventConn net.Conn) {
	h.started.Do(func() {
		h.mu.Lock()
		h.mainConn, h.eventConn = mainConn, eventConn
		h.mu.Unlock()
		go h.serve()
	})
}

// Tokens returns the tokens received through Activator
func (h *Host) Tokens() (mainToken, eventToken string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mainToken, h.eventToken
}

// Version returns the version byte the client sent
func (h *Host) Version() byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.version
}

func (h *Host) serve() {
	err := h.run()
	h.mu.Lock()
	h.serveErr = err
	h.mu.Unlock()
	close(h.incoming)
}

func (h *Host) run() error {
	var version [1]byte
	if _, err := io.ReadFull(h.mainConn, version[:]); err != nil {
		return fmt.Errorf("read handshake: %w", err)
	}
	h.mu.Lock()
	h.version = version[0]
	h.mu.Unlock()

	if h.config.SkipHandshake {
		return h.mainConn.Close()
	}
	if _, err := h.mainConn.Write([]byte{h.config.HandshakeReply}); err != nil {
		return fmt.Errorf("write handshake: %w", err)
	}

	for {
		var req models.Request
		if err := h.framing.ReadInto(h.mainConn, &req); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		h.mu.Lock()
		h.requests = append(h.requests, req)
		handler := h.handlers[req.Method]
		h.mu.Unlock()

		select {
		case h.incoming <- req:
		default:
		}

		if handler == nil {
			continue
		}
		result := handler.Handle(req)
		if result.NoReply {
			continue
		}
		if result.Delay > 0 {
			select {
			case <-time.After(result.Delay):
			case <-h.done:
				return nil
			}
		}
		if err := h.framing.WriteMessage(h.mainConn, result.Value); err != nil {
			return err
		}
	}
}

// NextRequest waits for the next request the host received
func (h *Host) NextRequest(ctx context.Context) (models.Request, error) {
	select {
	case req, ok := <-h.incoming:
		if !ok {
			return models.Request{}, fmt.Errorf("host stopped: %v", h.Err())
		}
		return req, nil
	case <-ctx.Done():
		return models.Request{}, ctx.Err()
	}
}

// Requests returns every request received so far
func (h *Host) Requests() []models.Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.Request, len(h.requests))
	copy(out, h.requests)
	return out
}

// PushEvent writes an event on the event stream
func (h *Host) PushEvent(eventType string, value interface{}) error {
	event := struct {
		Type  string      `json:"type"`
		Value interface{} `json:"value"`
	}{Type: eventType, Value: value}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.eventConn == nil {
		return errors.New("host is not connected")
	}
	return h.framing.WriteMessage(h.eventConn, event)
}

// WriteEventBytes writes raw bytes on the event stream, for malformed frames
func (h *Host) WriteEventBytes(data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.eventConn == nil {
		return errors.New("host is not connected")
	}
	_, err := h.eventConn.Write(data)
	return err
}

// Destroy pushes a destroy event for activity aid
func (h *Host) Destroy(aid models.Handle, finishing bool) error {
	return h.PushEvent(models.EventDestroy, map[string]interface{}{
		"aid":       aid,
		"finishing": finishing,
	})
}

// CloseMain closes the host end of the main stream, as if the host crashed
func (h *Host) CloseMain() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.mainConn == nil {
		return nil
	}
	return h.mainConn.Close()
}

// CloseEvents closes the host end of the event stream
func (h *Host) CloseEvents() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.eventConn == nil {
		return nil
	}
	return h.eventConn.Close()
}

// Err returns the error that stopped the serve loop, if any
func (h *Host) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.serveErr
}

// Close disconnects both streams
func (h *Host) Close() error {
	h.closed.Do(func() { close(h.done) })
	return errors.Join(h.CloseMain(), h.CloseEvents())
}
