//go:build unix

package hosttest

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// SocketPair returns two connected stream sockets. Unlike net.Pipe they are
// buffered by the kernel, so a writer does not wait for the reader.
func SocketPair() (net.Conn, net.Conn, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("socketpair: %w", err)
	}

	first, err := fileConn(fds[0], "hosttest-client")
	if err != nil {
		unix.Close(fds[1])
		return nil, nil, err
	}
	second, err := fileConn(fds[1], "hosttest-host")
	if err != nil {
		first.Close()
		return nil, nil, err
	}
	return first, second, nil
}

func fileConn(fd int, name string) (net.Conn, error) {
	unix.CloseOnExec(fd)
	file := os.NewFile(uintptr(fd), name)
	defer file.Close()

	conn, err := net.FileConn(file)
	if err != nil {
		return nil, fmt.Errorf("wrap %s: %w", name, err)
	}
	return conn, nil
}
