//go:build !unix

package hosttest

import (
	"errors"
	"net"
)

// SocketPair is only available on unix platforms
func SocketPair() (net.Conn, net.Conn, error) {
	return nil, nil, errors.New("socketpair is not supported on this platform")
}
