//go:build linux

package core

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

// listenBacklog is the listen(2) backlog; exactly one peer is ever expected.
const listenBacklog = 1

// BindAbstractListener creates a stream listener bound to "\0"+name.
//
// net.Listen would also accept an "@name" address, but it always uses the
// system backlog; the socket is built by hand so the backlog is 1.
func BindAbstractListener(name string) (*AbstractListener, error) {
	if name == "" {
		return nil, models.NewGUIError(models.BindError, "socket name cannot be empty")
	}
	// sun_path is 108 bytes, one of which is the leading NUL.
	if len(name) > 107 {
		return nil, models.NewGUIError(models.BindError,
			fmt.Sprintf("socket name length %d exceeds maximum 107", len(name)))
	}

	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, models.WrapError(models.BindError, "socket(AF_UNIX) failed", err)
	}

	// x/sys/unix maps a leading '@' to the abstract namespace NUL byte.
	if err := unix.Bind(fd, &unix.SockaddrUnix{Name: "@" + name}); err != nil {
		unix.Close(fd)
		return nil, models.WrapError(models.BindError, "bind failed for @"+name, err)
	}
	if err := unix.Listen(fd, listenBacklog); err != nil {
		unix.Close(fd)
		return nil, models.WrapError(models.BindError, "listen failed for @"+name, err)
	}

	file := os.NewFile(uintptr(fd), "@"+name)
	// FileListener dups the descriptor; the original is closed either way.
	fileListener, err := net.FileListener(file)
	file.Close()
	if err != nil {
		return nil, models.WrapError(models.BindError, "failed to wrap listener for @"+name, err)
	}

	unixListener, ok := fileListener.(*net.UnixListener)
	if !ok {
		fileListener.Close()
		return nil, models.NewGUIError(models.BindError,
			fmt.Sprintf("unexpected listener type %T", fileListener))
	}

	return &AbstractListener{
		name:     name,
		listener: unixListener,
	}, nil
}
