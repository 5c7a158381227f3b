package chatrelay

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// dispatch walks the readiness set once in array order. When an entry is
// torn down the entry moved into its slot is evaluated in the same pass.
// Only a dead listener is returned as an error.
func (r *Relay) dispatch() error {
	for i := 0; i <= r.set.count; i++ {
		entry := &r.set.fds[i]
		events := entry.Revents
		if events == 0 {
			continue
		}
		entry.Revents = 0
		if i == 0 {
			if err := r.listenerEvent(events); err != nil {
				return err
			}
			continue
		}
		if r.connectionEvent(i, events) {
			i--
		}
	}
	return nil
}

func (r *Relay) listenerEvent(events int16) error {
	if events&unix.POLLERR != 0 {
		if err := socketError(r.listenFd); err != nil {
			log.Error().Msgf("[%d] listener error: %v", r.listenFd, err)
		}
	}
	if events&(unix.POLLHUP|unix.POLLNVAL) != 0 {
		if r.stopping.Load() {
			return nil
		}
		log.Error().Msgf("[%d] listener hung up, events: %#x", r.listenFd, events)
		return errListenerClosed
	}
	if events&unix.POLLIN != 0 {
		r.acceptEvent()
	}
	return nil
}

// connectionEvent handles one client slot and reports whether it was removed.
func (r *Relay) connectionEvent(i int, events int16) bool {
	switch {
	case events&unix.POLLERR != 0:
		// Reading SO_ERROR clears it; a real hangup shows up alone next cycle.
		fd := r.set.fd(i)
		if err := socketError(fd); err != nil {
			log.Warn().Msgf("[%d] socket error: %v", fd, err)
		}
		return false
	case events&hangupEvents != 0:
		r.teardown(i, teardownHangup)
		return true
	case events&unix.POLLIN != 0:
		return r.readEvent(i)
	case events&unix.POLLOUT != 0:
		return r.writeEvent(i)
	}
	return false
}

func (r *Relay) readEvent(i int) bool {
	fd := r.set.fd(i)
	conn := r.table.get(fd)
	buffer := conn.readBuffer
	// One byte is kept free so the chunk can be shown as a terminated string.
	read, err := unix.Read(fd, buffer[:len(buffer)-1])
	if err != nil {
		if err == unix.EAGAIN || err == unix.EINTR {
			return false
		}
		log.Error().Msgf("[%d] got error while reading data from %s: %v", fd, conn.address, err)
		r.teardown(i, teardownReadError)
		return true
	}
	if read == 0 {
		if log.Debug().Enabled() {
			log.Debug().Msgf("[%d] end of stream from %s", fd, conn.address)
		}
		return false
	}
	clear(buffer[read:])
	r.counters.receivedBytes.Add(uint64(read))
	BytesTotal.WithLabelValues("received").Add(float64(read))
	if log.Debug().Enabled() {
		log.Debug().Msgf("[%d] read %d bytes from %s: %q", fd, read, conn.address, buffer[:read])
	}
	r.broadcast(fd, buffer[:read])
	return false
}

func (r *Relay) writeEvent(i int) bool {
	fd := r.set.fd(i)
	conn := r.table.get(fd)
	if len(conn.pendingWrite) == 0 {
		r.set.resumeRead(i)
		return false
	}
	write, err := unix.Write(fd, conn.pendingWrite)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EINTR {
			return false
		}
		log.Error().Msgf("[%d] got error while writing data to %s: %v", fd, conn.address, err)
		r.teardown(i, teardownWriteError)
		return true
	}
	r.counters.sentBytes.Add(uint64(write))
	BytesTotal.WithLabelValues("sent").Add(float64(write))
	if write < len(conn.pendingWrite) {
		conn.pendingWrite = conn.pendingWrite[write:]
		return false
	}
	if log.Debug().Enabled() {
		log.Debug().Msgf("[%d] flushed %d bytes to %s", fd, write, conn.address)
	}
	conn.clearPending()
	r.set.resumeRead(i)
	return false
}

// teardown closes the connection in slot i and compacts the readiness set.
func (r *Relay) teardown(i int, reason string) {
	fd := r.set.fd(i)
	conn := r.table.get(fd)
	address := conn.address
	orphan := r.referenced(fd)
	err := unix.Close(fd)
	if err != nil {
		log.Error().Msgf("[%d] error occurs while closing connection: %v", fd, err)
	}
	r.table.release(fd, orphan)
	r.set.remove(i)
	r.counters.active.Dec()
	ConnectedClients.Dec()
	TeardownsTotal.WithLabelValues(reason).Inc()
	log.Info().Msgf("[%d] client %s left (%s), active: %d/%d", fd, address, reason, r.set.count, r.set.capacity())
}

// referenced reports whether any other connection still has a pending write
// pointing at the read buffer of sender.
func (r *Relay) referenced(sender int) bool {
	for j := 1; j <= r.set.count; j++ {
		fd := r.set.fd(j)
		if fd == sender {
			continue
		}
		conn := r.table.get(fd)
		if conn != nil && conn.pendingFrom == sender && len(conn.pendingWrite) > 0 {
			return true
		}
	}
	return false
}
