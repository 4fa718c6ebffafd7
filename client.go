package ircore

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"git.sr.ht/~okote/ircore/dcc"
	"git.sr.ht/~okote/ircore/irc"
)

const eventChanSize = 64

// Event is anything delivered on the client's event channel: the
// irc package's events plus dcc.Update progress notifications.
type Event interface{}

// Client binds one IRC session to one DCC engine: protocol events flow
// out to the host, and PRIVMSGs carrying DCC SEND offers are folded
// into the engine as pending transfers.
type Client struct {
	cfg     Config
	session *irc.Session
	dcc     *dcc.Engine
	events  chan Event
	log     *slog.Logger
}

// NewClient starts a session on an established connection.  The caller
// owns connecting (and TLS); the client owns everything after.
func NewClient(cfg Config, conn io.ReadWriteCloser, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}

	var auth irc.SASLClient
	if cfg.Password != nil || cfg.SASLMechanism != "" {
		password := ""
		if cfg.Password != nil {
			password = *cfg.Password
		}
		var err error
		auth, err = irc.NewSASLClient(cfg.SASLMechanism, cfg.User, password)
		if err != nil {
			return nil, err
		}
	}

	session, err := irc.NewSession(conn, irc.SessionParams{
		Nickname:    cfg.Nick,
		AltNickname: cfg.AltNick,
		Username:    cfg.User,
		RealName:    cfg.Real,
		Auth:        auth,
		Debug:       cfg.Debug,
	})
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:     cfg,
		session: session,
		events:  make(chan Event, eventChanSize),
		log:     log,
	}
	c.dcc = dcc.NewEngine(dcc.Config{
		AllowLocalPeers: cfg.DCC.AllowLocalPeers,
		HostOverride:    cfg.DCC.HostOverride,
		PortMin:         cfg.DCC.PortMin,
		PortMax:         cfg.DCC.PortMax,
		SendRateLimit:   cfg.DCC.RateLimit,
		CacheDirs:       cfg.DCC.CacheDirs,
		Logger:          log,
	})
	c.dcc.Subscribe(func(up dcc.Update) {
		c.events <- up
	})

	go c.pump()

	return c, nil
}

// Session exposes the underlying protocol session.
func (c *Client) Session() *irc.Session { return c.session }

// Poll returns the merged event channel.
func (c *Client) Poll() <-chan Event { return c.events }

func (c *Client) Close() {
	for _, up := range c.dcc.List() {
		c.dcc.Cancel(up.ID)
	}
	c.session.Stop()
}

// pump forwards session events, peeling off DCC SEND offers on the
// way.
func (c *Client) pump() {
	for ev := range c.session.Poll() {
		if msg, ok := ev.(irc.MessageEvent); ok && msg.Command == "PRIVMSG" {
			if cmd, _, isCTCP := ParseCTCP(msg.Content); isCTCP && cmd == "DCC" {
				if offer := dcc.ParseSendOffer(msg.Content); offer != nil {
					peer := ""
					if msg.User != nil {
						peer = msg.User.Name
					}
					t := c.dcc.HandleOffer(peer, c.cfg.Addr, *offer)
					c.log.Info("dcc offer received",
						"id", t.ID, "peer", peer, "file", offer.Filename, "size", offer.Size)
					continue
				}
			}
		}
		c.events <- ev
	}
}

// SendCTCP implements dcc.Messenger.
func (c *Client) SendCTCP(target, text string) {
	c.session.PrivMsg(target, text)
}

// AcceptTransfer downloads a pending offer into the configured
// download directory.
func (c *Client) AcceptTransfer(transferID string) error {
	t := c.dcc.Get(transferID)
	if t == nil {
		return dcc.ErrUnknownTransfer
	}
	dir := c.cfg.DCC.DownloadDir
	if dir == "" {
		return errors.New("no download directory configured")
	}
	return c.dcc.Accept(transferID, c, filepath.Join(dir, safeFilename(t.Offer.Filename)))
}

// SendFile offers a local file to a peer.
func (c *Client) SendFile(peer, path string) (*dcc.Transfer, error) {
	return c.dcc.SendFile(c, peer, c.cfg.Addr, path, 0)
}

func (c *Client) CancelTransfer(transferID string) {
	c.dcc.Cancel(transferID)
}

func (c *Client) Transfers() []dcc.Update {
	return c.dcc.List()
}

// safeFilename strips anything that would let an offer escape the
// download directory.
func safeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "download"
	}
	return name
}
