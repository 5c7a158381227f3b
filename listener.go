package chatrelay

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// Listen opens a blocking IPv4 TCP socket bound to address:port and puts it
// in listening state. An empty address binds all interfaces.
func Listen(address string, port, backlog int) (int, error) {
	if port < 0 || port > 65535 {
		return -1, errInvalidPort
	}
	if address == "" {
		address = "0.0.0.0"
	}
	ip := net.ParseIP(address).To4()
	if ip == nil {
		return -1, fmt.Errorf("%w: %q", errInvalidAddress, address)
	}
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return -1, os.NewSyscallError("socket", err)
	}
	err = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	if err != nil {
		unix.Close(fd)
		return -1, os.NewSyscallError("setsockopt", err)
	}
	sockaddr := &unix.SockaddrInet4{Port: port}
	copy(sockaddr.Addr[:], ip)
	err = unix.Bind(fd, sockaddr)
	if err != nil {
		unix.Close(fd)
		return -1, os.NewSyscallError("bind", err)
	}
	err = unix.Listen(fd, backlog)
	if err != nil {
		unix.Close(fd)
		return -1, os.NewSyscallError("listen", err)
	}
	return fd, nil
}

// ListenAddr returns the local address of a bound socket as host:port.
func ListenAddr(fd int) (string, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return "", os.NewSyscallError("getsockname", err)
	}
	return sockaddrString(sa), nil
}
