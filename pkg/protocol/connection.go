package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/config"
	"github.com/jowharshamshiri/GoTermuxGUI/pkg/core"
	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

// State is the lifecycle state of a Connection
type State int32

const (
	StateUninitialized State = iota
	StateAwaitingPeer
	StateAwaitingHandshake
	StateEstablished
	StateFailed
	StateClosed
	StateBroken
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAwaitingPeer:
		return "awaiting_peer"
	case StateAwaitingHandshake:
		return "awaiting_handshake"
	case StateEstablished:
		return "established"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	case StateBroken:
		return "broken"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Terminal reports whether no further transition is possible
func (s State) Terminal() bool {
	return s == StateFailed || s == StateClosed || s == StateBroken
}

// ConnectionConfig holds configuration and collaborators for a session
type ConnectionConfig struct {
	Settings config.Config
	// Logger receives structured session events. Nil discards them.
	Logger *slog.Logger
	// Activator notifies the host. Nil builds a BroadcastActivator from Settings.
	Activator core.Activator
}

// DefaultConnectionConfig returns the stock configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		Settings: config.Default(),
	}
}

func (cfg ConnectionConfig) logger() *slog.Logger {
	if cfg.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cfg.Logger
}

func (cfg ConnectionConfig) activator() core.Activator {
	if cfg.Activator != nil {
		return cfg.Activator
	}
	return core.NewBroadcastActivator(core.BroadcastActivatorConfig{
		Receiver:         cfg.Settings.Receiver,
		Commands:         cfg.Settings.BroadcastCommands,
		MainSocketExtra:  cfg.Settings.MainSocketExtra,
		EventSocketExtra: cfg.Settings.EventSocketExtra,
	}, nil)
}

// Connection is one established session with the GUI host: a main stream
// carrying commands and replies, and an event stream carrying notifications.
// It is created once per top-level window and is never reconnected.
type Connection struct {
	id         string
	mainToken  string
	eventToken string

	mainConn  net.Conn
	eventConn net.Conn

	dispatcher *Dispatcher
	events     *EventStream
	logger     *slog.Logger

	state    atomic.Int32
	teardown atomic.Bool

	closeOnce sync.Once
	closeErr  error
}

// Connect performs the whole rendezvous: bind two abstract listeners, ask the
// host to connect back, accept both streams and run the version handshake.
// On failure nothing is left open and no Connection is returned.
func Connect(ctx context.Context, cfg ...ConnectionConfig) (*Connection, error) {
	connCfg := DefaultConnectionConfig()
	if len(cfg) > 0 {
		connCfg = cfg[0]
	}
	if err := connCfg.Settings.Validate(); err != nil {
		return nil, models.WrapError(models.ConfigurationError, "invalid settings", err)
	}

	c := newConnection(connCfg)
	c.logger.Info("session.connect.start")

	mainToken, err := core.GenerateToken()
	if err != nil {
		return nil, c.setupFailed(models.WrapError(models.BindError, "failed to generate main token", err))
	}
	eventToken, err := core.GenerateToken()
	if err != nil {
		return nil, c.setupFailed(models.WrapError(models.BindError, "failed to generate event token", err))
	}
	c.mainToken, c.eventToken = mainToken, eventToken

	mainListener, err := core.BindAbstractListener(mainToken)
	if err != nil {
		return nil, c.setupFailed(err)
	}
	defer mainListener.Close()
	eventListener, err := core.BindAbstractListener(eventToken)
	if err != nil {
		return nil, c.setupFailed(err)
	}
	defer eventListener.Close()

	c.setState(StateAwaitingPeer)
	c.logger.Debug("session.listen.ok")

	if err := connCfg.activator().Activate(ctx, mainToken, eventToken); err != nil {
		return nil, c.setupFailed(err)
	}
	c.logger.Debug("session.activate.ok")

	mainConn, err := acceptWithin(ctx, mainListener, connCfg.Settings)
	if err != nil {
		return nil, c.setupFailed(err)
	}
	eventConn, err := acceptWithin(ctx, eventListener, connCfg.Settings)
	if err != nil {
		mainConn.Close()
		return nil, c.setupFailed(err)
	}
	c.logger.Debug("session.accept.ok")

	if err := c.establish(ctx, mainConn, eventConn, connCfg.Settings); err != nil {
		return nil, err
	}
	return c, nil
}

// Establish wraps two already connected streams, runs the handshake on the
// main one and returns an established Connection. Connect uses it after the
// rendezvous; it is exported for hosts reached by other means.
func Establish(ctx context.Context, mainConn, eventConn net.Conn, cfg ...ConnectionConfig) (*Connection, error) {
	connCfg := DefaultConnectionConfig()
	if len(cfg) > 0 {
		connCfg = cfg[0]
	}
	if err := connCfg.Settings.Validate(); err != nil {
		return nil, models.WrapError(models.ConfigurationError, "invalid settings", err)
	}

	c := newConnection(connCfg)
	if err := c.establish(ctx, mainConn, eventConn, connCfg.Settings); err != nil {
		return nil, err
	}
	return c, nil
}

func newConnection(cfg ConnectionConfig) *Connection {
	id := uuid.New().String()
	c := &Connection{
		id:     id,
		logger: cfg.logger().With("session", id),
	}
	c.state.Store(int32(StateUninitialized))
	return c
}

func (c *Connection) establish(ctx context.Context, mainConn, eventConn net.Conn, settings config.Config) error {
	c.setState(StateAwaitingHandshake)

	if err := Handshake(ctx, mainConn, settings.ProtocolVersion, settings.HandshakeTimeout); err != nil {
		mainConn.Close()
		eventConn.Close()
		return c.setupFailed(err)
	}
	c.logger.Debug("session.handshake.ok", "version", settings.ProtocolVersion)

	framing := core.NewMessageFraming(settings.MaxMessageSize)
	c.mainConn = mainConn
	c.eventConn = eventConn
	c.dispatcher = NewDispatcher(mainConn, framing, settings.ResponseTimeout)
	c.events = NewEventStream(eventConn, framing)
	c.setState(StateEstablished)
	c.logger.Info("session.established")
	return nil
}

func acceptWithin(ctx context.Context, listener *core.AbstractListener, settings config.Config) (net.Conn, error) {
	if settings.AcceptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.AcceptTimeout)
		defer cancel()
	}
	return listener.AcceptOne(ctx)
}

func (c *Connection) setupFailed(err error) error {
	c.setState(StateFailed)
	c.logger.Warn("session.connect.failed", "error", err)
	return err
}

func (c *Connection) setState(state State) {
	previous := State(c.state.Swap(int32(state)))
	if previous != state {
		c.logger.Debug("session.state", "from", previous.String(), "to", state.String())
	}
}

// ID returns the session id used to correlate log records
func (c *Connection) ID() string {
	return c.id
}

// State returns the current lifecycle state
func (c *Connection) State() State {
	return State(c.state.Load())
}

// Tokens returns the main and event rendezvous tokens.
// They are empty for connections built with Establish.
func (c *Connection) Tokens() (mainToken, eventToken string) {
	return c.mainToken, c.eventToken
}

// TeardownRequested reports whether the host sent a destroy event
func (c *Connection) TeardownRequested() bool {
	return c.teardown.Load()
}

// Send sends a request the host does not answer
func (c *Connection) Send(ctx context.Context, req *models.Request) error {
	if err := c.usable(); err != nil {
		return err
	}
	err := c.dispatcher.Call(ctx, req)
	c.checkBroken(err, c.dispatcher.Err())
	return err
}

// SendRead sends a request and returns the host's reply
func (c *Connection) SendRead(ctx context.Context, req *models.Request) (json.RawMessage, error) {
	if err := c.usable(); err != nil {
		return nil, err
	}
	reply, err := c.dispatcher.CallAndWait(ctx, req)
	c.checkBroken(err, c.dispatcher.Err())
	return reply, err
}

// ReadEvent blocks for the next event. A destroy event marks the session for teardown.
func (c *Connection) ReadEvent(ctx context.Context) (models.Event, error) {
	if err := c.usable(); err != nil {
		return models.Event{}, err
	}
	event, err := c.events.Read(ctx)
	if err != nil {
		c.checkBroken(err, c.events.Err())
		return models.Event{}, err
	}

	if event.IsDestroy() {
		c.teardown.Store(true)
		c.logger.Info("session.event.destroy", "finishing", event.Finishing())
	} else {
		c.logger.Debug("session.event", "type", event.Type)
	}
	return event, nil
}

// EventHandler is called for every event by RunEventLoop.
// Returning ErrStopEventLoop ends the loop without error.
type EventHandler func(event models.Event) error

// ErrStopEventLoop ends RunEventLoop cleanly when returned by a handler
var ErrStopEventLoop = errors.New("stop event loop")

// RunEventLoop reads events and hands them to handler until a finishing
// destroy event arrives, the handler stops the loop, or an error occurs.
func (c *Connection) RunEventLoop(ctx context.Context, handler EventHandler) error {
	for {
		event, err := c.ReadEvent(ctx)
		if err != nil {
			return err
		}
		if err := handler(event); err != nil {
			if errors.Is(err, ErrStopEventLoop) {
				return nil
			}
			return err
		}
		if event.IsDestroy() && event.Finishing() {
			return nil
		}
	}
}

func (c *Connection) usable() error {
	switch state := c.State(); state {
	case StateEstablished:
		return nil
	case StateBroken:
		return models.NewGUIError(models.SessionClosed, "session is broken")
	default:
		return models.NewGUIError(models.SessionClosed, "session is "+state.String())
	}
}

// checkBroken moves the session to Broken once a stream has been poisoned
func (c *Connection) checkBroken(err, streamErr error) {
	if err == nil || streamErr == nil {
		return
	}
	if c.state.CompareAndSwap(int32(StateEstablished), int32(StateBroken)) {
		c.logger.Warn("session.broken", "error", streamErr)
	}
}

// Close closes both streams. A broken session stays Broken; otherwise the
// state becomes Closed. Close is idempotent.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.state.CompareAndSwap(int32(StateEstablished), int32(StateClosed))
		var errs []error
		if c.mainConn != nil {
			errs = append(errs, c.mainConn.Close())
		}
		if c.eventConn != nil {
			errs = append(errs, c.eventConn.Close())
		}
		c.closeErr = errors.Join(errs...)
		c.logger.Info("session.closed", "state", c.State().String())
	})
	return c.closeErr
}
