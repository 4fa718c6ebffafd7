package dcc

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/rand"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessenger struct {
	mu   sync.Mutex
	sent []string
}

func (m *fakeMessenger) SendCTCP(target, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, text)
}

func (m *fakeMessenger) lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func waitStatus(t *testing.T, tr *Transfer, want Status) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if s := tr.Status(); s == want {
			return
		} else if s.terminal() {
			t.Fatalf("transfer reached %v instead of %v (%s)", s, want, tr.Err())
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("transfer never reached %v, still %v", want, tr.Status())
}

func randomPayload(t *testing.T, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	_, err := rand.New(rand.NewSource(42)).Read(buf)
	require.NoError(t, err)
	return buf
}

// sendServer plays the remote sender of an incoming transfer: it writes
// payload to the first client and then drains ACKs, reporting the last
// counter value it saw.
func sendServer(t *testing.T, payload []byte) (port int, lastAck <-chan uint32) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	ch := make(chan uint32, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			close(ch)
			return
		}
		defer conn.Close()

		if _, err := conn.Write(payload); err != nil {
			close(ch)
			return
		}

		var last uint32
		ack := make([]byte, 4)
		_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
		for {
			if _, err := io.ReadFull(conn, ack); err != nil {
				break
			}
			last = binary.BigEndian.Uint32(ack)
			if int(last) == len(payload) {
				break
			}
		}
		ch <- last
	}()

	return ln.Addr().(*net.TCPAddr).Port, ch
}

func TestHandleOfferStaysPending(t *testing.T) {
	e := NewEngine(Config{})

	tr := e.HandleOffer("bob", "libera", Offer{Filename: "file.txt", Host: "127.0.0.1", Port: 5000, Size: 10})

	assert.Equal(t, Pending, tr.Status())
	assert.Same(t, tr, e.Get(tr.ID))

	ups := e.List()
	require.Len(t, ups, 1)
	assert.Equal(t, tr.ID, ups[0].ID)
	assert.Equal(t, Incoming, ups[0].Direction)
}

func TestAcceptRefusesLocalPeer(t *testing.T) {
	e := NewEngine(Config{})
	m := &fakeMessenger{}

	tr := e.HandleOffer("bob", "libera", Offer{Filename: "file.txt", Host: "192.168.1.10", Port: 5000, Size: 10})
	err := e.Accept(tr.ID, m, filepath.Join(t.TempDir(), "file.txt"))

	require.ErrorIs(t, err, ErrBlockedAddress)
	assert.Equal(t, Failed, tr.Status())
	assert.Contains(t, tr.Err(), "192.168.1.10")
	assert.Empty(t, m.lines(), "no traffic may follow a blocked accept")
}

func TestAcceptUnknownAndNotPending(t *testing.T) {
	e := NewEngine(Config{})
	m := &fakeMessenger{}

	assert.ErrorIs(t, e.Accept("nope", m, "x"), ErrUnknownTransfer)

	tr := e.HandleOffer("bob", "libera", Offer{Filename: "f", Host: "127.0.0.1", Port: 5000, Size: 1})
	e.Cancel(tr.ID)
	assert.ErrorIs(t, e.Accept(tr.ID, m, "x"), ErrNotPending)
}

func TestAcceptClaimsTransferOnce(t *testing.T) {
	payload := randomPayload(t, 10_000)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	var mu sync.Mutex
	connections := 0
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			connections++
			mu.Unlock()
			go func(conn net.Conn) {
				defer conn.Close()
				if _, err := conn.Write(payload); err != nil {
					return
				}
				sink := make([]byte, 16)
				for {
					if _, err := conn.Read(sink); err != nil {
						return
					}
				}
			}(conn)
		}
	}()

	e := NewEngine(Config{AllowLocalPeers: true})
	m := &fakeMessenger{}
	path := filepath.Join(t.TempDir(), "file.bin")

	tr := e.HandleOffer("bob", "libera", Offer{
		Filename: "file.bin",
		Host:     "127.0.0.1",
		Port:     ln.Addr().(*net.TCPAddr).Port,
		Size:     int64(len(payload)),
	})

	require.NoError(t, e.Accept(tr.ID, m, path))
	assert.ErrorIs(t, e.Accept(tr.ID, m, path), ErrNotPending,
		"the second accept must lose the claim")

	waitStatus(t, tr, Completed)
	assert.Equal(t, int64(len(payload)), tr.Bytes())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(payload, got))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, connections, "one transfer must open exactly one socket")
}

func TestDownloadRoundTrip(t *testing.T) {
	payload := randomPayload(t, 100_000)
	port, lastAck := sendServer(t, payload)

	e := NewEngine(Config{AllowLocalPeers: true})
	m := &fakeMessenger{}
	path := filepath.Join(t.TempDir(), "file.bin")

	tr := e.HandleOffer("bob", "libera", Offer{
		Filename: "file.bin",
		Host:     "127.0.0.1",
		Port:     port,
		Size:     int64(len(payload)),
	})
	require.NoError(t, e.Accept(tr.ID, m, path))

	waitStatus(t, tr, Completed)
	assert.Equal(t, int64(len(payload)), tr.Bytes())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(payload, got), "file content differs from payload")

	select {
	case ack := <-lastAck:
		assert.Equal(t, uint32(len(payload)), ack, "final ACK must carry the total size")
	case <-time.After(10 * time.Second):
		t.Fatal("sender never saw the final ACK")
	}

	assert.Empty(t, m.lines(), "no resume request for a fresh download")
}

func TestDownloadResumesPartialFile(t *testing.T) {
	full := randomPayload(t, 50_000)
	partial := full[:20_000]
	rest := full[20_000:]

	port, _ := sendServer(t, rest)

	e := NewEngine(Config{AllowLocalPeers: true})
	m := &fakeMessenger{}
	path := filepath.Join(t.TempDir(), "file.bin")
	require.NoError(t, os.WriteFile(path, partial, 0o644))

	tr := e.HandleOffer("bob", "libera", Offer{
		Filename: "file.bin",
		Host:     "127.0.0.1",
		Port:     port,
		Size:     int64(len(full)),
	})
	require.NoError(t, e.Accept(tr.ID, m, path))

	waitStatus(t, tr, Completed)

	lines := m.lines()
	require.Len(t, lines, 1)
	assert.Equal(t, ResumeCTCP("file.bin", port, int64(len(partial))), lines[0])

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(full, got), "resumed file must contain the full payload")
	assert.Equal(t, int64(len(full)), tr.Bytes())
}

func TestSendFileRoundTrip(t *testing.T) {
	payload := randomPayload(t, 80_000)
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	require.NoError(t, os.WriteFile(src, payload, 0o644))

	e := NewEngine(Config{HostOverride: "127.0.0.1"})
	m := &fakeMessenger{}

	tr, err := e.SendFile(m, "bob", "libera", src, 0)
	require.NoError(t, err)
	assert.Equal(t, Pending, tr.Status())

	lines := m.lines()
	require.Len(t, lines, 1, "the offer must be sent after the listener is bound")
	offer := ParseSendOffer(lines[0])
	require.NotNil(t, offer)
	assert.Equal(t, "src.bin", offer.Filename)
	assert.Equal(t, "127.0.0.1", offer.Host)
	assert.Equal(t, int64(len(payload)), offer.Size)
	require.NotZero(t, offer.Port)

	conn, err := net.Dial("tcp", net.JoinHostPort(offer.Host, strconv.Itoa(offer.Port)))
	require.NoError(t, err)
	defer conn.Close()

	got := make([]byte, len(payload))
	_, err = io.ReadFull(conn, got)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(payload, got))

	ack := make([]byte, 4)
	binary.BigEndian.PutUint32(ack, uint32(len(payload)))
	_, _ = conn.Write(ack)

	waitStatus(t, tr, Completed)
	assert.Equal(t, int64(len(payload)), tr.Bytes())

	_, err = os.Stat(src)
	assert.NoError(t, err, "a source outside the cache dirs must survive")
}

func TestSendFileCleansCacheCopy(t *testing.T) {
	payload := randomPayload(t, 1_000)
	cache := t.TempDir()
	src := filepath.Join(cache, "upload.bin")
	require.NoError(t, os.WriteFile(src, payload, 0o644))

	e := NewEngine(Config{HostOverride: "127.0.0.1", CacheDirs: []string{cache}})
	m := &fakeMessenger{}

	tr, err := e.SendFile(m, "bob", "libera", src, 0)
	require.NoError(t, err)

	offer := ParseSendOffer(m.lines()[0])
	require.NotNil(t, offer)
	conn, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(offer.Port)))
	require.NoError(t, err)
	defer conn.Close()

	got := make([]byte, len(payload))
	_, err = io.ReadFull(conn, got)
	require.NoError(t, err)

	waitStatus(t, tr, Completed)

	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := os.Stat(src); os.IsNotExist(err) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("cache copy was not removed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSendFileRejectsURISchemes(t *testing.T) {
	e := NewEngine(Config{})
	m := &fakeMessenger{}

	_, err := e.SendFile(m, "bob", "libera", "https://example.com/file.bin", 0)
	assert.Error(t, err)
	assert.Empty(t, m.lines())
}

func TestSendFileRejectsNonRegularSource(t *testing.T) {
	e := NewEngine(Config{})
	m := &fakeMessenger{}

	_, err := e.SendFile(m, "bob", "libera", t.TempDir(), 0)
	assert.Error(t, err)

	_, err = e.SendFile(m, "bob", "libera", filepath.Join(t.TempDir(), "missing.bin"), 0)
	assert.Error(t, err)
	assert.Empty(t, m.lines())
}

func TestSendFilePortRange(t *testing.T) {
	payload := randomPayload(t, 10)
	src := filepath.Join(t.TempDir(), "f.bin")
	require.NoError(t, os.WriteFile(src, payload, 0o644))

	e := NewEngine(Config{HostOverride: "127.0.0.1", PortMin: 49500, PortMax: 49600})
	m := &fakeMessenger{}

	tr, err := e.SendFile(m, "bob", "libera", src, 0)
	require.NoError(t, err)
	defer e.Cancel(tr.ID)

	offer := ParseSendOffer(m.lines()[0])
	require.NotNil(t, offer)
	assert.GreaterOrEqual(t, offer.Port, 49500)
	assert.LessOrEqual(t, offer.Port, 49600)
}

func TestCancelIsIdempotent(t *testing.T) {
	e := NewEngine(Config{})

	var updates []Update
	e.Subscribe(func(up Update) { updates = append(updates, up) })

	tr := e.HandleOffer("bob", "libera", Offer{Filename: "f", Host: "127.0.0.1", Port: 5000, Size: 1})

	e.Cancel(tr.ID)
	e.Cancel(tr.ID)
	e.Cancel("unknown id")

	assert.Equal(t, Cancelled, tr.Status())

	cancelled := 0
	for _, up := range updates {
		if up.Status == Cancelled {
			cancelled++
		}
	}
	assert.Equal(t, 1, cancelled, "repeat cancels must not re-notify")
}

func TestCancelAfterCompletionKeepsCompleted(t *testing.T) {
	e := NewEngine(Config{})
	tr := e.HandleOffer("bob", "libera", Offer{Filename: "f", Host: "127.0.0.1", Port: 5000, Size: 1})
	require.True(t, tr.transition(Downloading))
	require.True(t, tr.transition(Completed))

	e.Cancel(tr.ID)

	assert.Equal(t, Completed, tr.Status())
}

func TestEvictRemovesTransfer(t *testing.T) {
	e := NewEngine(Config{})
	tr := e.HandleOffer("bob", "libera", Offer{Filename: "f", Host: "127.0.0.1", Port: 5000, Size: 1})

	e.Evict(tr.ID)

	assert.Nil(t, e.Get(tr.ID))
	assert.Empty(t, e.List())
}

func TestUnsubscribeStopsUpdates(t *testing.T) {
	e := NewEngine(Config{})

	var updates int
	unsubscribe := e.Subscribe(func(Update) { updates++ })

	e.HandleOffer("bob", "libera", Offer{Filename: "f", Host: "127.0.0.1", Port: 5000, Size: 1})
	assert.Equal(t, 1, updates)

	unsubscribe()
	e.HandleOffer("bob", "libera", Offer{Filename: "g", Host: "127.0.0.1", Port: 5001, Size: 1})
	assert.Equal(t, 1, updates)
}

func TestStatusLifecycleIsOneWay(t *testing.T) {
	tr := &Transfer{Direction: Incoming}

	assert.False(t, tr.transition(Pending), "nothing re-enters pending")
	require.True(t, tr.transition(Downloading))
	assert.False(t, tr.transition(Sending), "active states only become terminal")
	require.True(t, tr.transition(Failed))
	assert.False(t, tr.transition(Completed))
	assert.False(t, tr.transition(Cancelled))
	assert.Equal(t, Failed, tr.Status())
}
