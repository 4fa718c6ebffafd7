package dcc

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// chunkSize is the fixed read/write unit of both directions.
	chunkSize = 32 * 1024

	dialTimeout   = 15 * time.Second
	acceptTimeout = 2 * time.Minute
)

var (
	ErrUnknownTransfer = errors.New("dcc: unknown transfer")
	ErrNotPending      = errors.New("dcc: transfer is not pending")
	ErrBlockedAddress  = errors.New("dcc: refusing to connect to a private or local address")
)

// Messenger sends a CTCP line to a peer over the IRC connection that
// carried the offer.  The engine never writes to the IRC socket itself.
type Messenger interface {
	SendCTCP(target, text string)
}

// Config is the host-supplied policy for the engine.
type Config struct {
	// AllowLocalPeers disables the private-address guard on Accept.
	AllowLocalPeers bool

	// HostOverride, when set, is advertised to peers instead of the
	// listener's bound address.
	HostOverride string

	// PortMin and PortMax bound the listener port range for outgoing
	// transfers; zero means any free port.
	PortMin int
	PortMax int

	// SendRateLimit caps outgoing throughput in bytes per second; zero
	// means unthrottled.
	SendRateLimit int

	// CacheDirs are the only directories the engine will delete files
	// from after an outgoing transfer ends.  A source file anywhere
	// else is never removed.
	CacheDirs []string

	Logger *slog.Logger
}

// Engine owns the transfer table.  Transfers run concurrently with each
// other and with protocol dispatch; each is mutated only from its own
// socket callbacks and the public entry points.  Finished transfers
// stay queryable until the host evicts them.
type Engine struct {
	cfg Config
	log *slog.Logger

	mu        sync.Mutex
	transfers map[string]*Transfer
	order     []string
	subs      map[int]func(Update)
	nextSub   int
}

func NewEngine(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		cfg:       cfg,
		log:       log,
		transfers: map[string]*Transfer{},
		subs:      map[int]func(Update){},
	}
}

// Subscribe attaches a progress listener; every listener receives every
// update.  The returned function detaches it.
func (e *Engine) Subscribe(fn func(Update)) (unsubscribe func()) {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

func (e *Engine) notify(t *Transfer) {
	up := t.snapshot()

	e.mu.Lock()
	fns := make([]func(Update), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(up)
	}
}

// HandleOffer registers an incoming offer as a pending transfer.  No
// socket is opened: connecting to a peer-supplied address is a security
// decision gated on an explicit Accept from the host.
func (e *Engine) HandleOffer(peer, network string, offer Offer) *Transfer {
	t := &Transfer{
		ID:        uuid.NewString(),
		Network:   network,
		Peer:      peer,
		Offer:     offer,
		Direction: Incoming,
	}

	e.add(t)
	e.log.Debug("dcc: offer registered",
		"id", t.ID, "peer", peer, "file", offer.Filename, "size", offer.Size)
	e.notify(t)
	return t
}

// Accept starts downloading a pending incoming transfer to
// downloadPath.  The transfer is claimed atomically, so of two
// concurrent Accepts exactly one proceeds and the other gets
// ErrNotPending.  The private-address guard runs next; when it trips,
// the transfer fails with no socket opened.  If a smaller partial file
// already exists, a resume request is sent before connecting; the
// download proceeds whether or not the peer acknowledges it.
func (e *Engine) Accept(transferID string, m Messenger, downloadPath string) error {
	t := e.Get(transferID)
	if t == nil {
		return ErrUnknownTransfer
	}
	if t.Direction != Incoming || !t.claim() {
		return ErrNotPending
	}

	if hostIsLocal(t.Offer.Host) && !e.cfg.AllowLocalPeers {
		err := fmt.Errorf("%w: %s", ErrBlockedAddress, t.Offer.Host)
		if t.fail(err.Error()) {
			e.notify(t)
		}
		return err
	}

	t.mu.Lock()
	t.Path = downloadPath
	t.mu.Unlock()

	var offset int64
	if fi, err := os.Stat(downloadPath); err == nil && fi.Mode().IsRegular() &&
		t.Offer.Size > 0 && fi.Size() < t.Offer.Size {
		offset = fi.Size()
		m.SendCTCP(t.Peer, ResumeCTCP(t.Offer.Filename, t.Offer.Port, offset))
		e.log.Debug("dcc: resume requested", "id", t.ID, "offset", offset)
	}

	go e.download(t, downloadPath, offset)
	return nil
}

func (e *Engine) download(t *Transfer, path string, offset int64) {
	addr := net.JoinHostPort(t.Offer.Host, strconv.Itoa(t.Offer.Port))
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		if t.fail("connect: " + err.Error()) {
			e.notify(t)
		}
		return
	}
	if !t.adoptConn(conn) {
		return // cancelled while dialing
	}
	defer t.closeSockets()

	flags := os.O_CREATE | os.O_WRONLY
	if offset > 0 {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if t.fail("open: " + err.Error()) {
			e.notify(t)
		}
		return
	}
	defer f.Close()

	if t.transition(Downloading) {
		t.setBytes(offset)
		e.notify(t)
	}

	buf := make([]byte, chunkSize)
	ack := make([]byte, 4)
	for {
		n, rerr := conn.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				if t.fail("write: " + werr.Error()) {
					e.notify(t)
				}
				return
			}
			total := t.addBytes(int64(n))

			// flow control: tell the sender how much arrived, as a
			// 4-byte big-endian counter on the same socket
			binary.BigEndian.PutUint32(ack, uint32(total))
			_, _ = conn.Write(ack)

			e.notify(t)

			if t.Offer.Size > 0 && total >= t.Offer.Size {
				if t.transition(Completed) {
					e.notify(t)
				}
				return
			}
		}
		if rerr != nil {
			if rerr == io.EOF {
				if t.transition(Completed) {
					e.notify(t)
				}
			} else if t.fail(rerr.Error()) {
				e.notify(t)
			}
			return
		}
	}
}

// SendFile offers filePath to a peer: it binds a one-shot listener,
// advertises it with a CTCP DCC SEND (only after the listener is
// actually bound) and streams the file to the first peer that connects.
func (e *Engine) SendFile(m Messenger, peer, network, filePath string, port int) (*Transfer, error) {
	if strings.Contains(filePath, "://") {
		return nil, fmt.Errorf("dcc: unsupported URI scheme in %q", filePath)
	}

	fi, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("dcc: source file: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("dcc: source is not a regular file: %s", filePath)
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("dcc: source file: %w", err)
	}

	ln, err := e.listen(port)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	boundPort := ln.Addr().(*net.TCPAddr).Port

	t := &Transfer{
		ID:      uuid.NewString(),
		Network: network,
		Peer:    peer,
		Offer: Offer{
			Filename: filepath.Base(filePath),
			Host:     e.advertiseHost(ln),
			Port:     boundPort,
			Size:     fi.Size(),
		},
		Direction: Outgoing,
		Path:      filePath,
	}
	t.adoptListener(ln)

	e.add(t)
	e.notify(t)

	m.SendCTCP(peer, SendOfferCTCP(t.Offer))
	e.log.Debug("dcc: send offered",
		"id", t.ID, "peer", peer, "file", t.Offer.Filename, "port", boundPort)

	go e.serve(t, ln, f)
	return t, nil
}

func (e *Engine) listen(port int) (net.Listener, error) {
	if port > 0 {
		return net.Listen("tcp", ":"+strconv.Itoa(port))
	}
	if e.cfg.PortMin <= 0 {
		return net.Listen("tcp", ":0")
	}

	max := e.cfg.PortMax
	if max < e.cfg.PortMin {
		max = e.cfg.PortMin
	}
	for p := e.cfg.PortMin; p <= max; p++ {
		ln, err := net.Listen("tcp", ":"+strconv.Itoa(p))
		if err == nil {
			return ln, nil
		}
	}
	return nil, fmt.Errorf("dcc: no free port in %d-%d", e.cfg.PortMin, max)
}

// advertiseHost picks the address told to the peer: the configured
// override wins, then the listener's bound address, then the first
// routable interface address when the bound address is unspecified.
func (e *Engine) advertiseHost(ln net.Listener) string {
	if e.cfg.HostOverride != "" {
		return e.cfg.HostOverride
	}

	if addr, ok := ln.Addr().(*net.TCPAddr); ok && !addr.IP.IsUnspecified() && !addr.IP.IsLoopback() {
		return addr.IP.String()
	}

	if local := localRoutableHost(); local != "" {
		return local
	}

	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}

func localRoutableHost() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	var v6 string
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || !ipnet.IP.IsGlobalUnicast() {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
		if v6 == "" {
			v6 = ipnet.IP.String()
		}
	}
	return v6
}

func (e *Engine) serve(t *Transfer, ln net.Listener, f *os.File) {
	defer f.Close()
	defer t.closeSockets()

	if tcp, ok := ln.(*net.TCPListener); ok {
		_ = tcp.SetDeadline(time.Now().Add(acceptTimeout))
	}
	conn, err := ln.Accept()
	if err != nil {
		if t.fail("peer never connected: " + err.Error()) {
			e.notify(t)
			e.cleanupCache(t)
		}
		return
	}
	_ = ln.Close() // one-shot
	if !t.adoptConn(conn) {
		return
	}

	if t.transition(Sending) {
		e.notify(t)
	}

	// the peer's 4-byte ACKs are drained so its socket buffer never
	// fills; pacing is done by the rate limiter instead
	go func() {
		sink := make([]byte, 16)
		for {
			if _, err := conn.Read(sink); err != nil {
				return
			}
		}
	}()

	var limiter *rate.Limiter
	if e.cfg.SendRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(e.cfg.SendRateLimit), chunkSize)
	}

	buf := make([]byte, chunkSize)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			if limiter != nil {
				_ = limiter.WaitN(context.Background(), n)
			}
			if _, werr := conn.Write(buf[:n]); werr != nil {
				if t.fail(werr.Error()) {
					e.notify(t)
					e.cleanupCache(t)
				}
				return
			}
			t.addBytes(int64(n))
			e.notify(t)
		}
		if rerr == io.EOF {
			if t.transition(Completed) {
				e.notify(t)
				e.cleanupCache(t)
			}
			return
		}
		if rerr != nil {
			if t.fail(rerr.Error()) {
				e.notify(t)
				e.cleanupCache(t)
			}
			return
		}
	}
}

// Cancel tears down a transfer's sockets and marks it Cancelled.  It is
// safe at any time after registration, including before any socket
// exists, and is a no-op on an already terminal transfer.
func (e *Engine) Cancel(transferID string) {
	t := e.Get(transferID)
	if t == nil {
		return
	}

	changed := t.transition(Cancelled)
	t.closeSockets()
	if changed {
		e.log.Debug("dcc: cancelled", "id", t.ID)
		if t.Direction == Outgoing {
			e.cleanupCache(t)
		}
		e.notify(t)
	}
}

// Evict removes a transfer from the table.  The engine never
// garbage-collects on its own; eviction is the host's call.
func (e *Engine) Evict(transferID string) {
	e.Cancel(transferID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.transfers[transferID]; !ok {
		return
	}
	delete(e.transfers, transferID)
	for i, id := range e.order {
		if id == transferID {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// Get returns the transfer with the given id, or nil.
func (e *Engine) Get(transferID string) *Transfer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transfers[transferID]
}

// List returns a snapshot of every known transfer, in registration
// order.
func (e *Engine) List() []Update {
	e.mu.Lock()
	transfers := make([]*Transfer, 0, len(e.order))
	for _, id := range e.order {
		transfers = append(transfers, e.transfers[id])
	}
	e.mu.Unlock()

	ups := make([]Update, len(transfers))
	for i, t := range transfers {
		ups[i] = t.snapshot()
	}
	return ups
}

func (e *Engine) add(t *Transfer) {
	e.mu.Lock()
	e.transfers[t.ID] = t
	e.order = append(e.order, t.ID)
	e.mu.Unlock()
}

// cleanupCache deletes the source file of an outgoing transfer, but
// only when it lives under one of the configured cache directories.  A
// user's original file outside them is never touched.
func (e *Engine) cleanupCache(t *Transfer) {
	if t.Direction != Outgoing || t.Path == "" {
		return
	}
	path, err := filepath.Abs(t.Path)
	if err != nil {
		return
	}
	for _, dir := range e.cfg.CacheDirs {
		dir, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		if rel, err := filepath.Rel(dir, path); err == nil &&
			rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			_ = os.Remove(path)
			e.log.Debug("dcc: cache copy removed", "id", t.ID, "path", path)
			return
		}
	}
}
