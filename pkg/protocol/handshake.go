package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

// ProtocolVersion is the protocol version this client speaks
const ProtocolVersion byte = 1

// HandshakeAccepted is the byte the host answers with when it accepts the version
const HandshakeAccepted byte = 0

// Handshake performs the one-byte version exchange on the main stream: the
// client writes its version and the host answers with a single byte, 0 meaning
// accepted. It is not a negotiation; any other answer fails the session.
func Handshake(ctx context.Context, stream Stream, version byte, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return models.WrapError(models.Timeout, "context done before handshake", err)
	}

	disarm := armDeadline(ctx, stream, timeout)
	defer disarm()

	if _, err := stream.Write([]byte{version}); err != nil {
		return classifyStreamError(ctx, models.WrapError(models.TransportError, "failed to write protocol version", err))
	}

	var reply [1]byte
	if _, err := io.ReadFull(stream, reply[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return classifyStreamError(ctx, models.WrapError(models.ProtocolError, "host closed the stream during handshake", err))
		}
		return classifyStreamError(ctx, models.WrapError(models.TransportError, "failed to read handshake reply", err))
	}

	if reply[0] != HandshakeAccepted {
		return models.NewGUIError(models.ProtocolVersionMismatch,
			fmt.Sprintf("host answered %d to protocol version %d", reply[0], version))
	}
	return nil
}
