package chatrelay

import "golang.org/x/sys/unix"

const (
	unusedSlot = -1

	listenEvents = unix.POLLIN | unix.POLLERR
	clientEvents = unix.POLLIN | unix.POLLRDHUP | unix.POLLERR
	hangupEvents = unix.POLLHUP | unix.POLLRDHUP | unix.POLLNVAL
)

// readinessSet is the dense pollfd array handed to poll(2). Slot 0 is the
// listener; slots 1..count are the active connections without gaps.
type readinessSet struct {
	fds   []unix.PollFd
	count int
}

func newReadinessSet(listenFd, capacity int) *readinessSet {
	fds := make([]unix.PollFd, capacity+1)
	for i := range fds {
		fds[i].Fd = unusedSlot
	}
	fds[0] = unix.PollFd{Fd: int32(listenFd), Events: listenEvents}
	return &readinessSet{fds: fds}
}

func (s *readinessSet) capacity() int {
	return len(s.fds) - 1
}

func (s *readinessSet) full() bool {
	return s.count >= s.capacity()
}

func (s *readinessSet) add(fd int, events int16) bool {
	if s.full() {
		return false
	}
	s.count++
	s.fds[s.count] = unix.PollFd{Fd: int32(fd), Events: events}
	return true
}

// remove drops slot i by moving the last active entry into it.
func (s *readinessSet) remove(i int) {
	if i < 1 || i > s.count {
		return
	}
	s.fds[i] = s.fds[s.count]
	s.fds[s.count] = unix.PollFd{Fd: unusedSlot}
	s.count--
}

// active is the prefix passed to poll(2).
func (s *readinessSet) active() []unix.PollFd {
	return s.fds[:s.count+1]
}

func (s *readinessSet) fd(i int) int {
	return int(s.fds[i].Fd)
}

// suspendRead stops read interest until the pending write is flushed.
func (s *readinessSet) suspendRead(i int) {
	s.fds[i].Events = (s.fds[i].Events &^ unix.POLLIN) | unix.POLLOUT
}

func (s *readinessSet) resumeRead(i int) {
	s.fds[i].Events = (s.fds[i].Events &^ unix.POLLOUT) | unix.POLLIN
}
