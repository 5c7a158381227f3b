package chatrelay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestReadinessSetListenerSlot(t *testing.T) {
	set := newReadinessSet(10, 3)
	assert.Equal(t, 3, set.capacity())
	assert.Equal(t, int32(10), set.fds[0].Fd)
	assert.Equal(t, int16(unix.POLLIN|unix.POLLERR), set.fds[0].Events)
	for i := 1; i <= 3; i++ {
		assert.Equal(t, int32(unusedSlot), set.fds[i].Fd)
	}
	assert.Len(t, set.active(), 1)
}

func TestReadinessSetCapacity(t *testing.T) {
	set := newReadinessSet(10, 2)
	require.True(t, set.add(11, clientEvents))
	require.True(t, set.add(12, clientEvents))
	assert.True(t, set.full())
	assert.False(t, set.add(13, clientEvents))
	assert.Equal(t, 2, set.count)
	assert.Equal(t, -1, set.indexOf(13))
}

func TestReadinessSetRemoveCompacts(t *testing.T) {
	set := newReadinessSet(10, 4)
	for fd := 11; fd <= 14; fd++ {
		require.True(t, set.add(fd, clientEvents))
	}

	set.remove(2)
	assert.Equal(t, 3, set.count)
	assert.Equal(t, []int32{10, 11, 14, 13}, pollFds(set.active()))
	assert.Equal(t, int32(unusedSlot), set.fds[4].Fd)

	set.remove(3)
	assert.Equal(t, []int32{10, 11, 14}, pollFds(set.active()))

	set.remove(1)
	assert.Equal(t, []int32{10, 14}, pollFds(set.active()))

	set.remove(0)
	set.remove(5)
	assert.Equal(t, []int32{10, 14}, pollFds(set.active()))
	assert.Equal(t, int32(10), set.fds[0].Fd)
}

func TestReadinessSetInterest(t *testing.T) {
	set := newReadinessSet(10, 1)
	require.True(t, set.add(11, clientEvents))

	set.suspendRead(1)
	assert.Zero(t, set.fds[1].Events&unix.POLLIN)
	assert.NotZero(t, set.fds[1].Events&unix.POLLOUT)
	assert.NotZero(t, set.fds[1].Events&unix.POLLRDHUP)
	assert.NotZero(t, set.fds[1].Events&unix.POLLERR)

	set.resumeRead(1)
	assert.Equal(t, int16(clientEvents), set.fds[1].Events)
}

func pollFds(fds []unix.PollFd) []int32 {
	result := make([]int32, 0, len(fds))
	for _, fd := range fds {
		result = append(result, fd.Fd)
	}
	return result
}

func (s *readinessSet) indexOf(fd int) int {
	for i := 1; i <= s.count; i++ {
		if int(s.fds[i].Fd) == fd {
			return i
		}
	}
	return -1
}
