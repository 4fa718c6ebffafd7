package dcc

import (
	"net"
	"sync"
)

// Direction of a transfer, from our point of view.
type Direction int

const (
	Incoming Direction = iota
	Outgoing
)

func (d Direction) String() string {
	if d == Outgoing {
		return "outgoing"
	}
	return "incoming"
}

// Status of a transfer.  The lifecycle is strictly one-way: a transfer
// never re-enters Pending once it leaves it, and terminal states are
// final.
type Status int

const (
	Pending Status = iota
	Downloading
	Sending
	Completed
	Failed
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Downloading:
		return "downloading"
	case Sending:
		return "sending"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

func (s Status) terminal() bool {
	return s == Completed || s == Failed || s == Cancelled
}

// Transfer is one transfer attempt.  It is owned by the engine's table
// and mutated only from its own socket callbacks and the public
// Accept/SendFile/Cancel entry points.
type Transfer struct {
	ID        string
	Network   string
	Peer      string
	Offer     Offer
	Direction Direction
	Path      string

	mu       sync.Mutex
	status   Status
	claimed  bool
	bytes    int64
	errText  string
	conn     net.Conn
	listener net.Listener
}

// Update is a point-in-time snapshot of a transfer, as delivered to
// progress listeners and returned by List.
type Update struct {
	ID        string
	Network   string
	Peer      string
	Filename  string
	Direction Direction
	Status    Status
	Bytes     int64
	Size      int64
	Error     string
}

func (t *Transfer) snapshot() Update {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Update{
		ID:        t.ID,
		Network:   t.Network,
		Peer:      t.Peer,
		Filename:  t.Offer.Filename,
		Direction: t.Direction,
		Status:    t.status,
		Bytes:     t.bytes,
		Size:      t.Offer.Size,
		Error:     t.errText,
	}
}

// Status returns the transfer's current status.
func (t *Transfer) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Bytes returns the number of bytes transferred so far.
func (t *Transfer) Bytes() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bytes
}

// Err returns the failure message, if any.
func (t *Transfer) Err() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errText
}

// transition moves the transfer to a new status if the lifecycle allows
// it, reporting whether the move happened.  Terminal states never
// change again.
func (t *Transfer) transition(to Status) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transitionLocked(to)
}

func (t *Transfer) transitionLocked(to Status) bool {
	if t.status.terminal() {
		return false
	}
	if to == Pending {
		return false
	}
	// Pending may only become the active state matching its direction
	// or a terminal state; active states only become terminal.
	if (to == Downloading || to == Sending) && t.status != Pending {
		return false
	}
	t.status = to
	return true
}

// claim reserves a pending transfer for a single Accept.  Exactly one
// caller wins, so a transfer never runs two download loops.
func (t *Transfer) claim() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != Pending || t.claimed {
		return false
	}
	t.claimed = true
	return true
}

func (t *Transfer) fail(msg string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.transitionLocked(Failed) {
		return false
	}
	t.errText = msg
	return true
}

// closeSockets shuts down the transfer's socket and listener, if any.
// Safe to call any number of times, with or without sockets open.
func (t *Transfer) closeSockets() {
	t.mu.Lock()
	conn, ln := t.conn, t.listener
	t.conn, t.listener = nil, nil
	t.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	if ln != nil {
		_ = ln.Close()
	}
}

// adoptConn attaches a live socket, unless the transfer already reached
// a terminal state, in which case the socket is closed immediately.
func (t *Transfer) adoptConn(conn net.Conn) bool {
	t.mu.Lock()
	if t.status.terminal() {
		t.mu.Unlock()
		_ = conn.Close()
		return false
	}
	t.conn = conn
	t.mu.Unlock()
	return true
}

func (t *Transfer) adoptListener(ln net.Listener) bool {
	t.mu.Lock()
	if t.status.terminal() {
		t.mu.Unlock()
		_ = ln.Close()
		return false
	}
	t.listener = ln
	t.mu.Unlock()
	return true
}

func (t *Transfer) addBytes(n int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bytes += n
	return t.bytes
}

func (t *Transfer) setBytes(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bytes = n
}
