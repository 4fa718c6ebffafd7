package irc

import (
	"time"
)

type Event interface{}

// Message kinds of a MessageAppend event.  Errors are distinct from raw
// server output so the host can style and filter them differently.
const (
	MessageInfo  = "info"
	MessageError = "error"
)

// Raw categories group server output that has no structured meaning to
// the engine (trace, stats, motd lines and the like).
const (
	RawServer  = "server"
	RawTrace   = "trace"
	RawStats   = "stats"
	RawLusers  = "lusers"
	RawAdmin   = "admin"
	RawMotd    = "motd"
	RawInfo    = "info"
	RawLinks   = "links"
	RawMonitor = "monitor"
)

// MessageAppend is the generic "append to the log" event.  Numeric
// handlers produce mostly these.
type MessageAppend struct {
	Type        string // MessageInfo or MessageError
	Text        string
	Time        time.Time
	IsRaw       bool
	RawCategory string

	// Optional payloads for numerics that carry structured state.
	Whois    *WhoisRecord
	WhoisTab string
}

type RawMessageEvent struct {
	Message  string
	Outgoing bool
}

// RegisteredEvent is emitted once, when the server confirms
// registration with the welcome numeric.
type RegisteredEvent struct{}

type MotdEndEvent struct {
	Motd []string
}

type SaslSuccessEvent struct {
	Account string
}

type SaslFailEvent struct {
	Reason string
}

type SelfNickEvent struct {
	FormerNick string
	Time       time.Time
}

type UserNickEvent struct {
	User       *Prefix
	FormerNick string
	Time       time.Time
}

type SelfJoinEvent struct {
	Channel string
}

type UserJoinEvent struct {
	User    *Prefix
	Channel string
	Time    time.Time
}

type SelfPartEvent struct {
	Channel string
}

type UserPartEvent struct {
	User    *Prefix
	Channel string
	Time    time.Time
}

type UserQuitEvent struct {
	User     *Prefix
	Channels []string
	Time     time.Time
}

// UserListChangedEvent is emitted when a channel's member table is
// swapped in from a completed NAMES reply.
type UserListChangedEvent struct {
	Channel string
}

// ChannelIntroEvent is emitted once per join, when enough of the
// channel's topic and mode information has arrived.
type ChannelIntroEvent struct {
	Channel   string
	Topic     string
	TopicWho  *Prefix
	TopicTime time.Time
	Modes     string
}

type TopicChangeEvent struct {
	User    *Prefix
	Channel string
	Topic   string
	Time    time.Time
}

type MessageEvent struct {
	User            *Prefix
	Target          string
	TargetIsChannel bool
	Command         string
	Content         string
	Time            time.Time
}

// WhoisEvent carries the finalized (not necessarily complete) record at
// end-of-WHOIS.
type WhoisEvent struct {
	Record *WhoisRecord
}

type ChannelListEvent struct {
	Entries []ChannelListEntry
}

type LinksEvent struct {
	Entries []LinkEntry
}

// MaskListEvent carries a flushed ban, invite or exception list.
type MaskListEvent struct {
	Channel string
	Kind    ListKind
	Entries []MaskEntry
}

type StatsEvent struct {
	Letter  string
	Entries []string
}

// StartTLSEvent tells the host to run (or abandon) the TLS handshake on
// the live connection; the engine itself does not own the socket setup.
type StartTLSEvent struct {
	OK     bool
	Reason string
}

type MonitorEvent struct {
	Online  bool
	Targets []string
}

type HistoryEvent struct {
	Target   string
	Messages []Event
}
