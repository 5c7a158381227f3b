package chatrelay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnTableBounds(t *testing.T) {
	table := newConnTable(16, 8)
	require.ErrorIs(t, table.register(-1, "a"), errHandleOutOfRange)
	require.ErrorIs(t, table.register(16, "a"), errHandleOutOfRange)
	assert.Nil(t, table.get(16))
	assert.Nil(t, table.get(-1))

	require.NoError(t, table.register(15, "10.0.0.1:5000"))
	conn := table.get(15)
	require.NotNil(t, conn)
	assert.True(t, conn.active)
	assert.Equal(t, "10.0.0.1:5000", conn.address)
	assert.Len(t, conn.readBuffer, 8)
	assert.Equal(t, noSender, conn.pendingFrom)
}

func TestConnTableReusesBuffer(t *testing.T) {
	table := newConnTable(16, 8)
	require.NoError(t, table.register(3, "a"))
	buffer := table.get(3).readBuffer
	copy(buffer, "stale")

	table.release(3, false)
	assert.False(t, table.get(3).active)
	require.NoError(t, table.register(3, "b"))

	conn := table.get(3)
	assert.Same(t, &buffer[0], &conn.readBuffer[0])
	assert.Equal(t, make([]byte, 8), conn.readBuffer)
	assert.Equal(t, "b", conn.address)
}

func TestConnTableOrphanedBuffer(t *testing.T) {
	table := newConnTable(16, 8)
	require.NoError(t, table.register(3, "a"))
	buffer := table.get(3).readBuffer
	copy(buffer, "keep")

	table.release(3, true)
	require.NoError(t, table.register(3, "b"))

	assert.NotSame(t, &buffer[0], &table.get(3).readBuffer[0])
	assert.Equal(t, "keep", string(buffer[:4]))
}

func TestConnectionPending(t *testing.T) {
	conn := &connection{pendingFrom: noSender}
	payload := []byte("hi")
	conn.setPending(7, payload)
	assert.Equal(t, 7, conn.pendingFrom)
	assert.Same(t, &payload[0], &conn.pendingWrite[0])

	conn.clearPending()
	assert.Nil(t, conn.pendingWrite)
	assert.Equal(t, noSender, conn.pendingFrom)
}
