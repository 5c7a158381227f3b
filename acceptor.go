package chatrelay

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

var rejectMessage = []byte("too many users\n")

func (r *Relay) acceptEvent() {
	connFd, sa, err := unix.Accept4(r.listenFd, unix.SOCK_CLOEXEC)
	if err != nil {
		if r.stopping.Load() {
			return
		}
		switch err {
		case unix.EAGAIN, unix.ECONNABORTED, unix.EINTR:
			if log.Debug().Enabled() {
				log.Debug().Msgf("accept returned: %v", err)
			}
		default:
			log.Error().Msgf("got error while accept connection: %+v", err)
		}
		return
	}
	address := sockaddrString(sa)
	if r.set.full() {
		log.Warn().Msgf("[%d] rejected connection from %s: too many users", connFd, address)
		r.reject(connFd)
		return
	}
	if !r.attach(connFd, address) {
		r.reject(connFd)
		return
	}
	r.counters.accepted.Inc()
	ConnectionsTotal.WithLabelValues("accepted").Inc()
	log.Info().Msgf("[%d] new client %s, active: %d/%d", connFd, address, r.set.count, r.set.capacity())
}

// attach registers fd in the connection table and the readiness set.
func (r *Relay) attach(fd int, address string) bool {
	err := r.table.register(fd, address)
	if err != nil {
		log.Error().Msgf("[%d] can't register connection from %s: %v", fd, address, err)
		return false
	}
	err = setSocketOptions(fd, r.socketBufferSize)
	if err != nil {
		log.Error().Msgf("[%d] can't configure socket: %v", fd, err)
		r.table.release(fd, false)
		return false
	}
	if !r.set.add(fd, clientEvents) {
		r.table.release(fd, false)
		return false
	}
	r.counters.active.Inc()
	ConnectedClients.Inc()
	return true
}

// reject is a best effort synchronous notice followed by close.
func (r *Relay) reject(fd int) {
	_, err := unix.Write(fd, rejectMessage)
	if err != nil && log.Debug().Enabled() {
		log.Debug().Msgf("[%d] can't deliver reject message: %v", fd, err)
	}
	err = unix.Close(fd)
	if err != nil {
		log.Error().Msgf("[%d] error occurs while closing rejected connection: %v", fd, err)
	}
	r.counters.rejected.Inc()
	ConnectionsTotal.WithLabelValues("rejected").Inc()
}
