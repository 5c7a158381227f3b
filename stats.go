package chatrelay

import "go.uber.org/atomic"

// RelayStats is a point-in-time copy of the relay counters.
type RelayStats struct {
	ActiveConnections int
	AcceptedTotal     uint64
	RejectedTotal     uint64
	ReceivedBytes     uint64
	SentBytes         uint64
	PollCycles        uint64
}

// relayCounters are written by the event loop and read from any goroutine.
type relayCounters struct {
	active        *atomic.Int32
	accepted      *atomic.Uint64
	rejected      *atomic.Uint64
	receivedBytes *atomic.Uint64
	sentBytes     *atomic.Uint64
	pollCycles    *atomic.Uint64
}

func newRelayCounters() relayCounters {
	return relayCounters{
		active:        atomic.NewInt32(0),
		accepted:      atomic.NewUint64(0),
		rejected:      atomic.NewUint64(0),
		receivedBytes: atomic.NewUint64(0),
		sentBytes:     atomic.NewUint64(0),
		pollCycles:    atomic.NewUint64(0),
	}
}

func (c relayCounters) snapshot() RelayStats {
	return RelayStats{
		ActiveConnections: int(c.active.Load()),
		AcceptedTotal:     c.accepted.Load(),
		RejectedTotal:     c.rejected.Load(),
		ReceivedBytes:     c.receivedBytes.Load(),
		SentBytes:         c.sentBytes.Load(),
		PollCycles:        c.pollCycles.Load(),
	}
}
