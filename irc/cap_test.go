package irc

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn records written lines and reports EOF on reads.
type fakeConn struct {
	lines []string
}

func (c *fakeConn) Read(p []byte) (int, error) { return 0, io.EOF }

func (c *fakeConn) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\r\n") {
		if line != "" {
			c.lines = append(c.lines, line)
		}
	}
	return len(p), nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) count(line string) (n int) {
	for _, l := range c.lines {
		if l == line {
			n++
		}
	}
	return
}

// newTestSession builds a session around a fake connection without
// starting the read and run loops, so tests can feed it directly.
func newTestSession(conn *fakeConn, auth SASLClient) *Session {
	s := &Session{
		conn:          conn,
		evts:          make(chan Event, 64),
		dispatcher:    testDispatcher,
		nick:          "alice",
		nickCf:        CasemapASCII("alice"),
		altNick:       "alice_",
		user:          "alice",
		real:          "alice",
		auth:          auth,
		availableCaps: map[string]string{},
		enabledCaps:   map[string]struct{}{},
		features:      map[string]string{},
		channels:      map[string]*Channel{},
		chBatches:     map[string]HistoryEvent{},
		bufs:          newBuffers(),
		whoisTab:      newWhoisTable(),
		silentWho:     map[string]func(WhoReply){},
	}
	s.running.Store(true)
	return s
}

func TestCapLSWithoutAuthEndsImmediately(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, nil)

	s.handleCap([]string{"*", "LS", "sasl multi-prefix unknown-cap"})

	assert.Equal(t, 1, conn.count("CAP END"))
	assert.Equal(t, 1, conn.count("CAP REQ multi-prefix"))
	assert.Zero(t, conn.count("CAP REQ unknown-cap"))
}

func TestCapLSMultilineDefersRequests(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, nil)

	s.handleCap([]string{"*", "LS", "*", "multi-prefix"})
	assert.Empty(t, conn.lines, "no requests while LS continues")

	s.handleCap([]string{"*", "LS", "server-time"})
	assert.Equal(t, 1, conn.count("CAP REQ multi-prefix"))
	assert.Equal(t, 1, conn.count("CAP REQ server-time"))
	assert.Equal(t, 1, conn.count("CAP END"))
}

func TestCapEndExactlyOnceOnSaslSuccess(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, &SASLPlain{Username: "alice", Password: "hunter2"})

	s.handleCap([]string{"*", "LS", "sasl"})
	assert.Zero(t, conn.count("CAP END"), "negotiation must wait for SASL")

	s.handleCap([]string{"*", "ACK", "sasl"})
	assert.True(t, s.SASLAuthenticating())
	assert.Equal(t, 1, conn.count("AUTHENTICATE PLAIN"))

	s.SASLSuccess("alice")
	assert.False(t, s.SASLAuthenticating())
	assert.Equal(t, 1, conn.count("CAP END"))

	// stray outcome numerics after the first must not end twice
	s.SASLSuccess("alice")
	s.SASLFail("late failure")
	assert.Equal(t, 1, conn.count("CAP END"))
}

func TestCapEndExactlyOnceOnSaslFail(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, &SASLPlain{Username: "alice", Password: "hunter2"})

	s.handleCap([]string{"*", "LS", "sasl"})
	s.handleCap([]string{"*", "ACK", "sasl"})

	s.SASLFail("authentication failed")
	assert.Equal(t, 1, conn.count("CAP END"))
	assert.False(t, s.SASLAuthenticating())

	s.SASLFail("authentication failed")
	assert.Equal(t, 1, conn.count("CAP END"))

	require.Len(t, drainEvents(s), 1)
}

func TestCapNakSaslEndsNegotiation(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, &SASLPlain{Username: "alice", Password: "hunter2"})

	s.handleCap([]string{"*", "LS", "sasl"})
	s.handleCap([]string{"*", "NAK", "sasl"})

	assert.Equal(t, 1, conn.count("CAP END"))
	assert.False(t, s.HasCap("sasl"))
}

func TestCapEndNotSentAfterRegistration(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, nil)
	s.registered = true

	s.EndCapNegotiation()

	assert.Zero(t, conn.count("CAP END"))
}

func TestCapNewAndDel(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, nil)

	s.handleCap([]string{"*", "NEW", "away-notify"})
	assert.Equal(t, 1, conn.count("CAP REQ away-notify"))

	s.handleCap([]string{"*", "ACK", "away-notify"})
	assert.True(t, s.HasCap("away-notify"))

	s.handleCap([]string{"*", "DEL", "away-notify"})
	assert.False(t, s.HasCap("away-notify"))
}

func TestCapAckDisableRemovesCap(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, nil)

	s.handleCap([]string{"*", "ACK", "away-notify"})
	require.True(t, s.HasCap("away-notify"))

	s.handleCap([]string{"*", "ACK", "-away-notify"})
	assert.False(t, s.HasCap("away-notify"))
	assert.False(t, s.HasCap("-away-notify"), "the minus form is not a capability name")
}

type failingAuth struct{}

func (failingAuth) Handshake() string { return "PLAIN" }

func (failingAuth) Respond(challenge string) (string, error) {
	return "", errors.New("no credentials")
}

func TestAuthenticateErrorAborts(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, failingAuth{})

	s.handleAuthenticate("+")

	assert.Equal(t, 1, conn.count("AUTHENTICATE *"))
}

func drainEvents(s *Session) (evs []Event) {
	for {
		select {
		case ev := <-s.evts:
			evs = append(evs, ev)
		default:
			return
		}
	}
}
