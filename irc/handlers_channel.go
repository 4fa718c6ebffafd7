package irc

import (
	"strconv"
	"strings"
)

var channelHandlers = map[int]handlerFunc{
	rplListstart: handleListStart,
	rplList:      handleListEntry,
	rplListend:   handleListEnd,

	rplChannelmodeis: handleChannelModeIs,
	rplCreationtime:  handleCreationTime,
	rplNotopic:       handleNoTopic,
	rplTopic:         handleTopic,
	rplTopicwhotime:  handleTopicWhoTime,

	rplInviting:        handleInviting,
	rplBanlist:         maskEntryHandler(BanList),
	rplEndofbanlist:    maskEndHandler(BanList),
	rplInvitelist:      maskEntryHandler(InviteList),
	rplEndofinvitelist: maskEndHandler(InviteList),
	rplExceptlist:      maskEntryHandler(ExceptList),
	rplEndofexceptlist: maskEndHandler(ExceptList),

	rplNamreply:   handleNamReply,
	rplEndofnames: handleEndOfNames,

	rplWhoreply:  handleWhoReply,
	rplWhospcrpl: rawHandler(RawServer),
	rplEndofwho:  handleEndOfWho,

	rplLinks:      handleLink,
	rplEndoflinks: handleLinksEnd,
}

func handleListStart(ctx Context, r *Reply) {
	ctx.Buffers().takeChannels()
}

func handleListEntry(ctx Context, r *Reply) {
	users, _ := strconv.Atoi(r.Param(2))
	ctx.Buffers().appendChannel(ChannelListEntry{
		Channel: r.Param(1),
		Users:   users,
		Topic:   r.Param(3),
	})
}

func handleListEnd(ctx Context, r *Reply) {
	ctx.Emit(ChannelListEvent{Entries: ctx.Buffers().takeChannels()})
}

// The topic numerics (324/331/332/333) each merge a single field into
// the channel's topic info, preserving whatever the others already set.
// MaybeIntro tolerates firing after every partial update.

func handleChannelModeIs(ctx Context, r *Reply) {
	t := ctx.Topic(r.Param(1))
	modes := r.Param(2)
	if args := strings.Join(r.Params[min(3, len(r.Params)):], " "); args != "" {
		modes += " " + args
	}
	t.Modes = modes
	ctx.MaybeIntro(r.Param(1))
}

func handleCreationTime(ctx Context, r *Reply) {
	at := parseEpoch(r.Param(2))
	if !at.IsZero() {
		appendInfo(ctx, r, r.Param(1)+" was created on "+at.Format("2006-01-02 15:04:05"))
	}
}

func handleNoTopic(ctx Context, r *Reply) {
	t := ctx.Topic(r.Param(1))
	t.Topic = ""
	ctx.MaybeIntro(r.Param(1))
}

func handleTopic(ctx Context, r *Reply) {
	t := ctx.Topic(r.Param(1))
	t.Topic = r.Param(2)
	ctx.MaybeIntro(r.Param(1))
}

func handleTopicWhoTime(ctx Context, r *Reply) {
	t := ctx.Topic(r.Param(1))
	who := ParsePrefix(r.Param(2))
	t.TopicWho = &who
	t.TopicTime = parseEpoch(r.Param(3))
	ctx.MaybeIntro(r.Param(1))
}

func handleInviting(ctx Context, r *Reply) {
	appendInfo(ctx, r, "inviting "+r.Param(1)+" to "+r.Param(2))
}

func maskEntryHandler(kind ListKind) handlerFunc {
	return func(ctx Context, r *Reply) {
		ctx.Buffers().appendMask(kind, ctx.Casemap(r.Param(1)), MaskEntry{
			Mask:   r.Param(2),
			Setter: r.Param(3),
			SetAt:  parseEpoch(r.Param(4)),
		})
	}
}

func maskEndHandler(kind ListKind) handlerFunc {
	return func(ctx Context, r *Reply) {
		channel := r.Param(1)
		ctx.Emit(MaskListEvent{
			Channel: channel,
			Kind:    kind,
			Entries: ctx.Buffers().takeMasks(kind, ctx.Casemap(channel)),
		})
	}
}

// handleNamReply buffers the raw member tokens of one NAMES line.  The
// channel user table is not touched until end-of-names, so readers
// never observe a half-built roster.
func handleNamReply(ctx Context, r *Reply) {
	channel := r.Param(2)
	trailing := r.Param(3)
	if channel == "" || trailing == "" {
		return
	}

	var tokens []string
	for _, token := range strings.Split(trailing, " ") {
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	ctx.Buffers().appendNames(ctx.Casemap(channel), tokens)
}

// handleEndOfNames parses every buffered token, swaps the channel's
// user table in wholesale and discards the buffer.  A 366 with no
// buffered NAMES lines is dropped: a redelivered end numeric must not
// replace an existing roster with an empty one.
func handleEndOfNames(ctx Context, r *Reply) {
	channel := r.Param(1)
	if channel == "" {
		return
	}

	channelCf := ctx.Casemap(channel)
	tokens, ok := ctx.Buffers().takeNames(channelCf)
	if !ok {
		return
	}

	users := make(map[string]*ChannelUser, len(tokens))
	for _, name := range ParseNames(strings.Join(tokens, " "), ctx.PrefixSymbols()) {
		if name.Nick == "" {
			continue
		}
		users[ctx.Casemap(name.Nick)] = &ChannelUser{
			Nick:     name.Nick,
			User:     name.User,
			Host:     name.Host,
			Prefixes: name.PowerLevel,
		}
	}

	ctx.SwapUsers(channel, users)
	ctx.Emit(UserListChangedEvent{Channel: channel})
	ctx.MaybeIntro(channel)

	if ctx.HasCap("draft/chathistory") {
		ctx.Send("CHATHISTORY", "LATEST", channel, "*", "100")
	}
}

// handleWhoReply routes WHO replies issued for internal purposes to
// their one-shot callback, keeping them out of the visible log.
func handleWhoReply(ctx Context, r *Reply) {
	rep := WhoReply{
		Channel: r.Param(1),
		User:    r.Param(2),
		Host:    r.Param(3),
		Server:  r.Param(4),
		Nick:    r.Param(5),
		Flags:   r.Param(6),
	}
	if hop := r.Param(7); hop != "" {
		if _, realname, found := strings.Cut(hop, " "); found {
			rep.Realname = realname
		}
	}

	for _, key := range []string{ctx.Casemap(rep.Channel), ctx.Casemap(rep.Nick)} {
		if cb, ok := ctx.SilentWho(key); ok {
			cb(rep)
			return
		}
	}

	appendRaw(ctx, r, RawServer)
}

func handleEndOfWho(ctx Context, r *Reply) {
	key := ctx.Casemap(r.Param(1))
	if _, ok := ctx.SilentWho(key); ok {
		ctx.ClearSilentWho(key)
		return
	}
	appendRaw(ctx, r, RawServer)
}

func handleLink(ctx Context, r *Reply) {
	hops := 0
	info := r.Trailing()
	if first, rest, found := strings.Cut(info, " "); found {
		if n, err := strconv.Atoi(first); err == nil {
			hops = n
			info = rest
		}
	}
	ctx.Buffers().appendLink(LinkEntry{
		Server: r.Param(1),
		Hub:    r.Param(2),
		Hops:   hops,
		Info:   info,
	})
	appendRaw(ctx, r, RawLinks)
}

func handleLinksEnd(ctx Context, r *Reply) {
	ctx.Emit(LinksEvent{Entries: ctx.Buffers().takeLinks()})
	appendRaw(ctx, r, RawLinks)
}
