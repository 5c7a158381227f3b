package chatrelay

const noSender = -1

// connection is the per-socket state, kept in a table indexed by fd.
type connection struct {
	address string
	// pendingWrite aliases the readBuffer of the connection at pendingFrom.
	pendingWrite []byte
	pendingFrom  int
	readBuffer   []byte
	active       bool
}

type connTable struct {
	bufferSize  int
	connections []connection
}

func newConnTable(size, bufferSize int) *connTable {
	return &connTable{
		bufferSize:  bufferSize,
		connections: make([]connection, size),
	}
}

func (t *connTable) register(fd int, address string) error {
	if fd < 0 || fd >= len(t.connections) {
		return errHandleOutOfRange
	}
	conn := &t.connections[fd]
	if conn.readBuffer == nil {
		conn.readBuffer = make([]byte, t.bufferSize)
	} else {
		clear(conn.readBuffer)
	}
	conn.address = address
	conn.pendingWrite = nil
	conn.pendingFrom = noSender
	conn.active = true
	return nil
}

func (t *connTable) get(fd int) *connection {
	if fd < 0 || fd >= len(t.connections) {
		return nil
	}
	return &t.connections[fd]
}

// release clears the slot for reuse. When orphan is set the read buffer is
// still referenced by a peer's pending write, so the next connection on this
// fd gets a fresh one.
func (t *connTable) release(fd int, orphan bool) {
	conn := t.get(fd)
	if conn == nil {
		return
	}
	conn.address = ""
	conn.pendingWrite = nil
	conn.pendingFrom = noSender
	conn.active = false
	if orphan {
		conn.readBuffer = nil
	}
}

func (c *connection) setPending(sender int, payload []byte) {
	c.pendingWrite = payload
	c.pendingFrom = sender
}

func (c *connection) clearPending() {
	c.pendingWrite = nil
	c.pendingFrom = noSender
}
