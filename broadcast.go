package chatrelay

import "github.com/rs/zerolog/log"

// broadcast points the pending write of every other active connection at
// payload, which is the read buffer of sender. Nothing is copied: a newer
// chunk from the same sender replaces a pending one that was not flushed yet.
func (r *Relay) broadcast(sender int, payload []byte) {
	recipients := 0
	for j := 1; j <= r.set.count; j++ {
		fd := r.set.fd(j)
		if fd == sender {
			continue
		}
		conn := r.table.get(fd)
		if conn == nil || !conn.active {
			continue
		}
		conn.setPending(sender, payload)
		r.set.suspendRead(j)
		recipients++
	}
	if log.Debug().Enabled() {
		log.Debug().Msgf("[%d] broadcast %d bytes to %d clients", sender, len(payload), recipients)
	}
}
