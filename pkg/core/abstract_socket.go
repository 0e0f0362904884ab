package core

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"time"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

// AbstractListener is a single-shot listener bound in the Linux abstract
// socket namespace. It has no filesystem presence, so there is nothing to
// clean up and no permission race on a socket file.
type AbstractListener struct {
	name     string
	listener *net.UnixListener

	mu       sync.Mutex
	accepted bool
	closed   bool
}

// Name returns the token the listener is bound to (without the leading NUL)
func (l *AbstractListener) Name() string {
	return l.name
}

// Address returns the address in Go's "@name" notation, usable with net.Dial("unix", ...)
func (l *AbstractListener) Address() string {
	return "@" + l.name
}

// AcceptOne blocks until exactly one peer connects or ctx is done.
// The listener is closed before returning, so later connection attempts are
// refused instead of replacing the accepted stream.
func (l *AbstractListener) AcceptOne(ctx context.Context) (net.Conn, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil, models.NewGUIError(models.SessionClosed, "listener already closed")
	}
	if l.accepted {
		l.mu.Unlock()
		return nil, models.NewGUIError(models.ProtocolError, "listener already accepted its peer")
	}
	l.accepted = true
	l.mu.Unlock()
	defer l.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := l.listener.SetDeadline(deadline); err != nil {
			return nil, models.WrapError(models.TransportError, "failed to set accept deadline", err)
		}
	}
	stop := context.AfterFunc(ctx, func() {
		// Unblocks Accept; a deadline in the past fails it immediately.
		l.listener.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	conn, err := l.listener.Accept()
	if err != nil {
		if cause := ContextCause(ctx, err); cause != nil {
			return nil, models.WrapError(models.Timeout, "no peer connected to "+l.Address(), cause)
		}
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, models.WrapError(models.Timeout, "no peer connected to "+l.Address(), err)
		}
		if errors.Is(err, net.ErrClosed) {
			return nil, models.WrapError(models.SessionClosed, "listener closed while accepting", err)
		}
		return nil, models.WrapError(models.TransportError, "accept failed", err)
	}
	return conn, nil
}

// Close releases the listening socket. It is safe to call more than once.
func (l *AbstractListener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.listener.Close()
}
