package chatrelay

import (
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

const blocked = -1

// Poller waits on the readiness set with poll(2).
type Poller struct {
	set     *readinessSet
	timeout int
}

func openPoller(set *readinessSet) *Poller {
	return &Poller{
		set:     set,
		timeout: blocked,
	}
}

// waitForEvents blocks until at least one socket is ready. The observed
// events are left in the Revents field of each slot.
func (p *Poller) waitForEvents() (int, error) {
	for {
		evCount, err := unix.Poll(p.set.active(), p.timeout)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			log.Error().Msgf("error occurs in poll: %v", err)
			return 0, os.NewSyscallError("poll", err)
		}
		if log.Debug().Enabled() {
			log.Debug().Msgf("poll returned %d ready sockets of %d", evCount, p.set.count+1)
		}
		return evCount, nil
	}
}
