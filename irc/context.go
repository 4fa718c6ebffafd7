package irc

import (
	"time"
)

// Reply is one parsed numeric reply, as handed to the dispatch table.
type Reply struct {
	Numeric int
	Prefix  Prefix
	Params  []string
	Time    time.Time
}

// Param returns the i-th parameter, or "" when the reply is too short.
// Handlers treat missing parameters as empty rather than failing.
func (r *Reply) Param(i int) string {
	if i < 0 || len(r.Params) <= i {
		return ""
	}
	return r.Params[i]
}

// Trailing returns the last parameter, or "".
func (r *Reply) Trailing() string {
	if len(r.Params) == 0 {
		return ""
	}
	return r.Params[len(r.Params)-1]
}

// TopicInfo is the topic and mode state of one channel.  The three
// numerics that fill it (topic, topic-who-time, channel-modes) arrive
// independently, so fields are merged in and never assumed populated.
type TopicInfo struct {
	Channel   string
	Topic     string
	TopicWho  *Prefix
	TopicTime time.Time
	Modes     string
}

// ChannelUser is one parsed member of a channel user table.
type ChannelUser struct {
	Nick     string
	User     string
	Host     string
	Prefixes string
	Away     bool
}

// WhoReply is the structured content of one WHO reply line.
type WhoReply struct {
	Channel  string
	User     string
	Host     string
	Server   string
	Nick     string
	Flags    string
	Realname string
}

// The handler context is split into one capability interface per
// concern, so a handler depends only on what it touches and each can be
// faked independently in tests.  *Session implements all of them.

// SessionState exposes the per-connection registration state.
type SessionState interface {
	Nick() string
	SetNick(nick string)
	AltNick() string
	Registered() bool
	SetRegistered(registered bool)
	Operator() bool
	SetOperator(oper bool)

	// NickAttempts counts failed nick negotiations; it accumulates
	// legitimately and is the one piece of handler state that is not
	// idempotent under redelivery.
	NickAttempts() int
	BumpNickAttempts() int

	Casemap(name string) string

	// UpdateISupport folds a 005 token list into the feature table.
	UpdateISupport(tokens []string)
}

// Messenger lets handlers emit events and write to the connection.
// SendRawLine writes synchronously: handlers run on the session
// coroutine, so they must never detour through the action queue they
// would themselves have to drain.
type Messenger interface {
	Append(m MessageAppend)
	Emit(ev Event)
	Send(command string, params ...string)
	SendRawLine(line string)

	// Disconnect actively terminates the connection.  Only fatal
	// connection numerics (ban, restricted) may call it.
	Disconnect()
}

// ChannelTable exposes per-channel topic and member state.
type ChannelTable interface {
	// Topic returns the merge target for channel topic/mode numerics,
	// created on first use.  Callers update single fields in place.
	Topic(channel string) *TopicInfo

	// SwapUsers replaces a channel's member table wholesale.  Readers
	// never observe a half-built roster.
	SwapUsers(channel string, users map[string]*ChannelUser)

	// MaybeIntro fires the channel intro hook; it is idempotent and
	// tolerates being called after every partial topic update.
	MaybeIntro(channel string)

	// PrefixSymbols is the membership prefix set from ISUPPORT.
	PrefixSymbols() string
}

// WhoisStore exposes the WHOIS/WHOWAS accumulation buffers.
type WhoisStore interface {
	Whois(nick string) *WhoisRecord
	WhoisPending(nick string) bool
	EndWhois(nick string) *WhoisRecord
	NoteWhowas(target string)
	WhowasHint(target string) bool
}

// SASLControl exposes capability negotiation to the sasl numerics.
// SASLSuccess and SASLFail both clear the authenticating flag and end
// capability negotiation; every outcome path routes through one of
// them so registration can never stall.
type SASLControl interface {
	HasCap(name string) bool
	SASLAuthenticating() bool
	SASLSuccess(account string)
	SASLFail(reason string)
	EndCapNegotiation()
}

// WhoRouter routes WHO replies issued for internal purposes to a
// one-shot callback instead of the visible log.
type WhoRouter interface {
	SilentWho(targetCf string) (cb func(WhoReply), ok bool)
	ClearSilentWho(targetCf string)
}

// Context is the full capability set handed to numeric handlers.
type Context interface {
	SessionState
	Messenger
	ChannelTable
	WhoisStore
	SASLControl
	WhoRouter

	// Buffers is the session's multi-line reply accumulator table.
	Buffers() *buffers
}
