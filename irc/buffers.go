package irc

import (
	"time"
)

// ListKind identifies one of the multi-line list replies the engine
// accumulates between a start and an end numeric.
type ListKind int

const (
	BanList ListKind = iota
	InviteList
	ExceptList
	ChannelList
	LinksList
	StatsList
)

func (k ListKind) String() string {
	switch k {
	case BanList:
		return "ban"
	case InviteList:
		return "invite"
	case ExceptList:
		return "except"
	case ChannelList:
		return "list"
	case LinksList:
		return "links"
	case StatsList:
		return "stats"
	}
	return "unknown"
}

// MaskEntry is one line of a ban, invite or exception list.
type MaskEntry struct {
	Mask   string
	Setter string
	SetAt  time.Time
}

// ChannelListEntry is one line of a LIST reply.
type ChannelListEntry struct {
	Channel string
	Users   int
	Topic   string
}

// LinkEntry is one line of a LINKS reply.
type LinkEntry struct {
	Server string
	Hub    string
	Hops   int
	Info   string
}

type maskKey struct {
	kind      ListKind
	channelCf string
}

// buffers holds every in-progress multi-line reply of one session.
// Each buffer is created on its first entry numeric and consumed
// exactly once by its end numeric, so list lines never leak into a
// later request.  The session owns one of these; there is no global
// state.
type buffers struct {
	names    map[string][]string // channelCf -> raw prefixed nick tokens
	masks    map[maskKey][]MaskEntry
	channels []ChannelListEntry
	links    []LinkEntry
	stats    []string
	motd     []string
}

func newBuffers() *buffers {
	return &buffers{
		names: map[string][]string{},
		masks: map[maskKey][]MaskEntry{},
	}
}

func (b *buffers) appendNames(channelCf string, tokens []string) {
	if channelCf == "" || len(tokens) == 0 {
		return
	}
	b.names[channelCf] = append(b.names[channelCf], tokens...)
}

// takeNames returns the accumulated NAMES tokens for a channel and
// discards the buffer.  ok is false when no NAMES line preceded the
// end numeric, so a redelivered 366 cannot pass off an empty buffer as
// a finished reply.
func (b *buffers) takeNames(channelCf string) (tokens []string, ok bool) {
	tokens, ok = b.names[channelCf]
	delete(b.names, channelCf)
	return
}

func (b *buffers) appendMask(kind ListKind, channelCf string, entry MaskEntry) {
	k := maskKey{kind, channelCf}
	b.masks[k] = append(b.masks[k], entry)
}

func (b *buffers) takeMasks(kind ListKind, channelCf string) []MaskEntry {
	k := maskKey{kind, channelCf}
	entries := b.masks[k]
	delete(b.masks, k)
	return entries
}

func (b *buffers) appendChannel(entry ChannelListEntry) {
	b.channels = append(b.channels, entry)
}

func (b *buffers) takeChannels() []ChannelListEntry {
	entries := b.channels
	b.channels = nil
	return entries
}

func (b *buffers) appendLink(entry LinkEntry) {
	b.links = append(b.links, entry)
}

func (b *buffers) takeLinks() []LinkEntry {
	entries := b.links
	b.links = nil
	return entries
}

func (b *buffers) appendStats(line string) {
	b.stats = append(b.stats, line)
}

func (b *buffers) takeStats() []string {
	lines := b.stats
	b.stats = nil
	return lines
}

func (b *buffers) appendMotd(line string) {
	b.motd = append(b.motd, line)
}

func (b *buffers) takeMotd() []string {
	lines := b.motd
	b.motd = nil
	return lines
}
