package chatrelay

import (
	"fmt"
	"net"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

func setSocketOptions(fd int, bufferSize int) error {
	err := unix.SetNonblock(fd, true)
	if err != nil {
		return fmt.Errorf("set O_NONBLOCK: %w", err)
	}
	if bufferSize <= 0 {
		return nil
	}
	err = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, bufferSize)
	if err != nil {
		log.Error().Msgf("got error while setting socket options SO_RCVBUF: %+v", err)
	}
	err = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF, bufferSize)
	if err != nil {
		log.Error().Msgf("got error while setting socket options SO_SNDBUF: %+v", err)
	}
	return nil
}

// socketError fetches and clears the pending error of the socket.
func socketError(fd int) error {
	code, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return fmt.Errorf("getsockopt SO_ERROR: %w", err)
	}
	if code == 0 {
		return nil
	}
	return unix.Errno(code)
}

func sockaddrString(sa unix.Sockaddr) string {
	switch addr := sa.(type) {
	case *unix.SockaddrInet4:
		return net.JoinHostPort(net.IP(addr.Addr[:]).String(), strconv.Itoa(addr.Port))
	case *unix.SockaddrInet6:
		return net.JoinHostPort(net.IP(addr.Addr[:]).String(), strconv.Itoa(addr.Port))
	case *unix.SockaddrUnix:
		if addr.Name == "" {
			return "unix:@"
		}
		return "unix:" + addr.Name
	default:
		return "unknown"
	}
}
