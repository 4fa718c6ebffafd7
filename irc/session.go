package irc

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ergochat/irc-go/ircmsg"
)

// SupportedCapabilities is the set of capabilities requested by this
// library when the server advertises them.
var SupportedCapabilities = map[string]struct{}{
	"account-notify":    {},
	"account-tag":       {},
	"away-notify":       {},
	"batch":             {},
	"cap-notify":        {},
	"draft/chathistory": {},
	"echo-message":      {},
	"extended-join":     {},
	"invite-notify":     {},
	"labeled-response":  {},
	"message-tags":      {},
	"multi-prefix":      {},
	"server-time":       {},
	"sasl":              {},
	"setname":           {},
	"userhost-in-names": {},
}

// action contains the arguments of a host command.
//
// To keep connection reads and writes in a single coroutine, the
// library interface functions like Join("#channel") don't interact with
// the IRC session directly.  Instead, they push an action in the action
// channel, processed by the session coroutine.
type action interface{}

type (
	actionSendRaw struct {
		raw string
	}

	actionJoin struct {
		Channel string
	}
	actionPart struct {
		Channel string
		Reason  string
	}
	actionSetTopic struct {
		Channel string
		Topic   string
	}

	actionPrivMsg struct {
		Target  string
		Content string
	}

	actionWhois struct {
		Nick string
	}
	actionWhowas struct {
		Nick string
	}
	actionSilentWho struct {
		Target string
		Cb     func(WhoReply)
	}
)

// Channel is the engine's view of one joined channel.
type Channel struct {
	Name  string
	Topic TopicInfo

	// Users is keyed by casemapped nick and only ever replaced
	// wholesale, from a finished NAMES reply.
	Users map[string]*ChannelUser

	complete   bool // end-of-names seen at least once
	introduced bool // intro event already emitted
}

// SessionParams defines how to register with an IRC server.
type SessionParams struct {
	Nickname    string
	AltNickname string
	Username    string
	RealName    string

	Auth SASLClient

	Debug bool // report all lines sent and received as events
}

// Session is one IRC connection: it owns the registration state, the
// multi-line reply accumulators and the channel tables, and feeds
// numeric replies through the dispatch table.  Sessions of different
// networks share nothing.
type Session struct {
	conn io.ReadWriteCloser
	msgs chan ircmsg.Message // incoming messages
	acts chan action         // host commands
	evts chan Event          // events sent to the host

	debug bool

	running atomic.Bool

	dispatcher *Dispatcher

	registered   bool
	nick         string
	nickCf       string
	altNick      string
	nickAttempts int
	user         string
	real         string
	acct         string
	host         string
	oper         bool

	auth       SASLClient
	saslActive bool
	capEnded   bool

	availableCaps map[string]string
	enabledCaps   map[string]struct{}
	features      map[string]string // ISUPPORT advertised features

	channels  map[string]*Channel     // casemapped name -> channel
	chBatches map[string]HistoryEvent // chathistory batches in flight

	bufs      *buffers
	whoisTab  *whoisTable
	silentWho map[string]func(WhoReply)
}

// NewSession starts an IRC session from the given connection and
// session parameters.  It returns an error when the parameters are
// invalid or when it cannot write to the connection.
func NewSession(conn io.ReadWriteCloser, params SessionParams) (*Session, error) {
	s := &Session{
		conn:          conn,
		msgs:          make(chan ircmsg.Message, 64),
		acts:          make(chan action, 64),
		evts:          make(chan Event, 64),
		debug:         params.Debug,
		dispatcher:    NewDispatcher(),
		nick:          params.Nickname,
		nickCf:        CasemapASCII(params.Nickname),
		altNick:       params.AltNickname,
		user:          params.Username,
		real:          params.RealName,
		auth:          params.Auth,
		availableCaps: map[string]string{},
		enabledCaps:   map[string]struct{}{},
		features:      map[string]string{},
		channels:      map[string]*Channel{},
		chBatches:     map[string]HistoryEvent{},
		bufs:          newBuffers(),
		whoisTab:      newWhoisTable(),
		silentWho:     map[string]func(WhoReply){},
	}

	if s.nick == "" {
		return nil, errors.New("no nickname specified")
	}
	if s.user == "" {
		s.user = s.nick
	}
	if s.real == "" {
		s.real = s.nick
	}

	s.running.Store(true)

	s.SendRawLine("CAP LS 302")
	s.send("NICK", s.nick)
	s.send("USER", s.user, "0", "*", s.real)

	go func() {
		r := bufio.NewScanner(conn)
		for r.Scan() {
			line := r.Text()
			msg, err := ircmsg.ParseLine(line)
			if err != nil {
				continue
			}
			if s.debug {
				s.evts <- RawMessageEvent{Message: line}
			}
			s.msgs <- msg
		}
		s.running.Store(false)
		close(s.msgs)
	}()

	go s.run()

	return s, nil
}

// Running reports whether we are still connected to the server.
func (s *Session) Running() bool {
	return s.running.Load()
}

// Stop closes the connection; the session drains and then closes its
// event channel.
func (s *Session) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	_ = s.conn.Close()
}

// Poll returns the event channel where incoming events are reported.
// It is closed when the session ends.
func (s *Session) Poll() (events <-chan Event) {
	return s.evts
}

func (s *Session) run() {
	for {
		select {
		case act := <-s.acts:
			s.handleAction(act)
		case msg, ok := <-s.msgs:
			if !ok {
				close(s.evts)
				return
			}
			s.handleMessage(msg)
		}
	}
}

func (s *Session) handleAction(act action) {
	switch act := act.(type) {
	case actionSendRaw:
		s.SendRawLine(act.raw)
	case actionJoin:
		s.send("JOIN", act.Channel)
	case actionPart:
		s.send("PART", act.Channel, act.Reason)
	case actionSetTopic:
		s.send("TOPIC", act.Channel, act.Topic)
	case actionPrivMsg:
		s.send("PRIVMSG", act.Target, act.Content)
	case actionWhois:
		s.send("WHOIS", act.Nick)
	case actionWhowas:
		s.whoisTab.noteWhowas(act.Nick, time.Now())
		s.send("WHOWAS", act.Nick)
	case actionSilentWho:
		s.silentWho[s.Casemap(act.Target)] = act.Cb
		s.send("WHO", act.Target)
	}
}

// SendRaw sends its given argument verbatim to the server.
func (s *Session) SendRaw(raw string) {
	s.acts <- actionSendRaw{raw}
}

func (s *Session) Join(channel string) {
	s.acts <- actionJoin{channel}
}

func (s *Session) Part(channel, reason string) {
	s.acts <- actionPart{channel, reason}
}

func (s *Session) SetTopic(channel, topic string) {
	s.acts <- actionSetTopic{channel, topic}
}

func (s *Session) PrivMsg(target, content string) {
	s.acts <- actionPrivMsg{target, content}
}

func (s *Session) RequestWhois(nick string) {
	s.acts <- actionWhois{nick}
}

func (s *Session) RequestWhowas(nick string) {
	s.acts <- actionWhowas{nick}
}

// RequestSilentWho issues a WHO whose replies are routed to cb instead
// of the visible log, for internal lookups such as resolving a single
// user's host.
func (s *Session) RequestSilentWho(target string, cb func(WhoReply)) {
	s.acts <- actionSilentWho{target, cb}
}

// handleMessage interprets one parsed line.  Numerics go through the
// dispatch table; named commands through the command router.
func (s *Session) handleMessage(msg ircmsg.Message) {
	t := time.Now()
	if ok, v := msg.GetTag("time"); ok {
		if st, valid := ParseServerTime(v); valid {
			t = st
		}
	}

	if numeric, err := strconv.Atoi(msg.Command); err == nil && len(msg.Command) == 3 {
		s.dispatcher.Handle(s, numeric, msg.Source, msg.Params, t)
		return
	}

	s.handleCommand(msg, t)
}

// Names returns the member list of the given channel, or nil if the
// channel is not known by the session.
func (s *Session) Names(channel string) []ChannelUser {
	c, ok := s.channels[s.Casemap(channel)]
	if !ok {
		return nil
	}
	users := make([]ChannelUser, 0, len(c.Users))
	for _, u := range c.Users {
		users = append(users, *u)
	}
	return users
}

// TopicOf returns the topic info of the given channel.
func (s *Session) TopicOf(channel string) (info TopicInfo, ok bool) {
	c, ok := s.channels[s.Casemap(channel)]
	if !ok {
		return
	}
	info = c.Topic
	return
}

func (s *Session) Account() string {
	return s.acct
}

func (s *Session) IsChannel(name string) bool {
	chantypes, ok := s.features["CHANTYPES"]
	if !ok {
		chantypes = "#&"
	}
	return strings.IndexAny(name, chantypes) == 0
}

// channel returns the channel entry, creating it on first use: topic
// and mode numerics may arrive before the engine saw the JOIN.
func (s *Session) channel(name string) *Channel {
	nameCf := s.Casemap(name)
	c, ok := s.channels[nameCf]
	if !ok {
		c = &Channel{Name: name, Users: map[string]*ChannelUser{}}
		s.channels[nameCf] = c
	}
	return c
}

func (s *Session) send(command string, params ...string) {
	msg := ircmsg.MakeMessage(nil, "", command, params...)
	line, err := msg.LineBytes()
	if err != nil {
		return
	}
	s.write(line)
}

// SendRawLine writes one verbatim line to the connection.
func (s *Session) SendRawLine(raw string) {
	s.write(append([]byte(raw), '\r', '\n'))
}

func (s *Session) write(line []byte) {
	_, _ = s.conn.Write(line)
	if s.debug {
		s.Emit(RawMessageEvent{
			Message:  strings.TrimRight(string(line), "\r\n"),
			Outgoing: true,
		})
	}
}

// Context implementation.  Handlers never touch session internals
// directly; everything below is the capability surface they see.

func (s *Session) Nick() string { return s.nick }

func (s *Session) SetNick(nick string) {
	if nick == "" {
		return
	}
	s.nick = nick
	s.nickCf = s.Casemap(nick)
}

// NickCf is our casemapped nickname.
func (s *Session) NickCf() string { return s.nickCf }

func (s *Session) AltNick() string { return s.altNick }

func (s *Session) Registered() bool { return s.registered }

func (s *Session) SetRegistered(registered bool) { s.registered = registered }

func (s *Session) Operator() bool { return s.oper }

func (s *Session) SetOperator(oper bool) { s.oper = oper }

func (s *Session) NickAttempts() int { return s.nickAttempts }

func (s *Session) BumpNickAttempts() int {
	s.nickAttempts++
	return s.nickAttempts
}

func (s *Session) Casemap(name string) string {
	if s.features["CASEMAPPING"] == "ascii" {
		return CasemapASCII(name)
	}
	return CasemapRFC1459(name)
}

func (s *Session) UpdateISupport(tokens []string) {
	ParseIsupport(tokens, s.features)
}

func (s *Session) Append(m MessageAppend) {
	if m.Time.IsZero() {
		m.Time = time.Now()
	}
	s.Emit(m)
}

func (s *Session) Emit(ev Event) {
	if !s.Running() {
		return
	}
	s.evts <- ev
}

func (s *Session) Send(command string, params ...string) {
	s.send(command, params...)
}

// Disconnect actively terminates the connection; reserved for fatal
// numerics.
func (s *Session) Disconnect() {
	s.Stop()
}

func (s *Session) Topic(channel string) *TopicInfo {
	c := s.channel(channel)
	if c.Topic.Channel == "" {
		c.Topic.Channel = c.Name
	}
	return &c.Topic
}

func (s *Session) SwapUsers(channel string, users map[string]*ChannelUser) {
	c := s.channel(channel)
	c.Users = users
	c.complete = true
}

// MaybeIntro emits the channel intro once the member table is complete.
// It tolerates being called after every partial topic update.
func (s *Session) MaybeIntro(channel string) {
	c, ok := s.channels[s.Casemap(channel)]
	if !ok || !c.complete || c.introduced {
		return
	}
	c.introduced = true
	s.Emit(ChannelIntroEvent{
		Channel:   c.Name,
		Topic:     c.Topic.Topic,
		TopicWho:  c.Topic.TopicWho,
		TopicTime: c.Topic.TopicTime,
		Modes:     c.Topic.Modes,
	})
}

func (s *Session) PrefixSymbols() string {
	return MemberPrefixes(s.features["PREFIX"])
}

func (s *Session) Whois(nick string) *WhoisRecord {
	return s.whoisTab.record(s.Casemap(nick), nick)
}

func (s *Session) WhoisPending(nick string) bool {
	_, ok := s.whoisTab.records[s.Casemap(nick)]
	return ok
}

func (s *Session) EndWhois(nick string) *WhoisRecord {
	return s.whoisTab.take(s.Casemap(nick))
}

func (s *Session) NoteWhowas(target string) {
	s.whoisTab.noteWhowas(target, time.Now())
}

func (s *Session) WhowasHint(target string) bool {
	return s.whoisTab.whowasHint(target, time.Now())
}

func (s *Session) HasCap(name string) bool {
	_, ok := s.enabledCaps[name]
	return ok
}

func (s *Session) SilentWho(targetCf string) (cb func(WhoReply), ok bool) {
	cb, ok = s.silentWho[targetCf]
	return
}

func (s *Session) ClearSilentWho(targetCf string) {
	delete(s.silentWho, targetCf)
}

func (s *Session) Buffers() *buffers {
	return s.bufs
}
