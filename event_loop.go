package chatrelay

import (
	"os"
	"runtime"

	"github.com/rs/zerolog/log"
	"go.uber.org/atomic"
	"golang.org/x/sys/unix"
)

// Relay is a single-threaded poll(2) reactor that rebroadcasts every chunk
// received from one client to all other clients.
type Relay struct {
	listenFd         int
	lockOsThread     bool
	socketBufferSize int
	isRunning        *atomic.Bool
	stopping         *atomic.Bool
	closed           *atomic.Bool
	table            *connTable
	set              *readinessSet
	poller           *Poller
	counters         relayCounters
}

// NewRelay takes ownership of an already bound and listening socket.
func NewRelay(listenFd int, config RelayConfig) (*Relay, error) {
	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}
	if err := unix.SetNonblock(listenFd, true); err != nil {
		return nil, os.NewSyscallError("fcntl", err)
	}
	set := newReadinessSet(listenFd, config.Capacity)
	relay := &Relay{
		listenFd:         listenFd,
		lockOsThread:     config.LockOsThread,
		socketBufferSize: config.SocketBufferSize,
		isRunning:        atomic.NewBool(false),
		stopping:         atomic.NewBool(false),
		closed:           atomic.NewBool(false),
		table:            newConnTable(fdLimit(), config.BufferSize),
		set:              set,
		poller:           openPoller(set),
		counters:         newRelayCounters(),
	}
	if log.Debug().Enabled() {
		log.Debug().Msgf("init relay:%+v", config)
	} else {
		log.Info().Msgf("init relay on fd %d with capacity %d", listenFd, config.Capacity)
	}
	return relay, nil
}

// Run blocks until Stop is called or poll(2) fails. A poll failure is
// returned as is; the caller is expected to Close the relay afterwards.
func (r *Relay) Run() error {
	if r.closed.Load() {
		return errRelayClosed
	}
	if r.lockOsThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}
	r.isRunning.Store(true)
	defer r.isRunning.Store(false)
	for !r.stopping.Load() {
		if err := r.step(); err != nil {
			log.Error().Msgf("got error while waiting for the net events: %+v", err)
			return err
		}
	}
	log.Info().Msg("relay loop stopped")
	return nil
}

func (r *Relay) step() error {
	_, err := r.poller.waitForEvents()
	if err != nil {
		return err
	}
	r.counters.pollCycles.Inc()
	return r.dispatch()
}

// Stop makes Run return after the current poll cycle. It is safe to call
// from any goroutine.
func (r *Relay) Stop() {
	if !r.stopping.CAS(false, true) {
		return
	}
	// Shutting down the read side of the listener wakes up poll(2).
	err := unix.Shutdown(r.listenFd, unix.SHUT_RD)
	if err != nil && log.Debug().Enabled() {
		log.Debug().Msgf("shutdown of listener returned: %v", err)
	}
}

// Close releases every client socket and the listener. It must not be called
// while Run is still executing.
func (r *Relay) Close() error {
	if !r.closed.CAS(false, true) {
		return errRelayClosed
	}
	for i := r.set.count; i >= 1; i-- {
		fd := r.set.fd(i)
		err := unix.Close(fd)
		if err != nil {
			log.Error().Msgf("[%d] error occurs while closing connection: %v", fd, err)
		}
		r.table.release(fd, false)
		r.set.remove(i)
		r.counters.active.Dec()
		ConnectedClients.Dec()
	}
	log.Info().Msg("relay closed")
	return os.NewSyscallError("close", unix.Close(r.listenFd))
}

func (r *Relay) IsRunning() bool {
	return r.isRunning.Load()
}

func (r *Relay) ActiveCount() int {
	return int(r.counters.active.Load())
}

func (r *Relay) Capacity() int {
	return r.set.capacity()
}

func (r *Relay) Stats() RelayStats {
	return r.counters.snapshot()
}
