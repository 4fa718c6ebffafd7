package irc

import (
	"strconv"
	"strings"
)

var whoisHandlers = map[int]handlerFunc{
	rplAway:    handleAway,
	rplUnaway:  handleUnaway,
	rplNowaway: handleNowAway,

	rplWhoiscertfp:   handleWhoisCertfp,
	rplWhoisregnick:  handleWhoisRegNick,
	rplWhoisuser:     handleWhoisUser,
	rplWhoisserver:   handleWhoisServer,
	rplWhoisoperator: handleWhoisOperator,
	rplWhoisidle:     handleWhoisIdle,
	rplWhoischannels: handleWhoisChannels,
	rplWhoisspecial:  handleWhoisSpecial,
	rplWhoisaccount:  handleWhoisAccount,
	rplWhoisbot:      handleWhoisBot,
	rplWhoisactually: handleWhoisActually,
	rplWhoishost:     handleWhoisHost,
	rplWhoismodes:    handleWhoisModes,
	rplWhoissecure:   handleWhoisSecure,
	rplEndofwhois:    handleEndOfWhois,

	rplWhowasuser:  handleWhowasUser,
	rplEndofwhowas: handleEndOfWhowas,
}

func handleAway(ctx Context, r *Reply) {
	nick := r.Param(1)
	if ctx.WhoisPending(nick) {
		ctx.Whois(nick).Away = r.Trailing()
		return
	}
	appendInfo(ctx, r, nick+" is away: "+r.Trailing())
}

func handleUnaway(ctx Context, r *Reply) {
	appendInfo(ctx, r, "you are no longer marked as away")
}

func handleNowAway(ctx Context, r *Reply) {
	appendInfo(ctx, r, "you are now marked as away")
}

func handleWhoisCertfp(ctx Context, r *Reply) {
	text := r.Trailing()
	if i := strings.LastIndexByte(text, ' '); i >= 0 {
		ctx.Whois(r.Param(1)).Certfp = text[i+1:]
	}
}

func handleWhoisRegNick(ctx Context, r *Reply) {
	ctx.Whois(r.Param(1)).Registered = true
}

func handleWhoisUser(ctx Context, r *Reply) {
	rec := ctx.Whois(r.Param(1))
	rec.User = r.Param(2)
	rec.Host = r.Param(3)
	rec.Realname = r.Trailing()
}

func handleWhoisServer(ctx Context, r *Reply) {
	rec := ctx.Whois(r.Param(1))
	rec.Server = r.Param(2)
	rec.ServerInfo = r.Trailing()
}

func handleWhoisOperator(ctx Context, r *Reply) {
	ctx.Whois(r.Param(1)).Operator = true
}

func handleWhoisIdle(ctx Context, r *Reply) {
	rec := ctx.Whois(r.Param(1))
	if idle, err := strconv.ParseInt(r.Param(2), 10, 64); err == nil {
		rec.IdleSeconds = idle
	}
	if signon := parseEpoch(r.Param(3)); !signon.IsZero() {
		rec.Signon = signon
	}
}

func handleWhoisChannels(ctx Context, r *Reply) {
	rec := ctx.Whois(r.Param(1))
	for _, channel := range strings.Split(r.Trailing(), " ") {
		if channel != "" {
			rec.Channels = append(rec.Channels, channel)
		}
	}
}

func handleWhoisSpecial(ctx Context, r *Reply) {
	rec := ctx.Whois(r.Param(1))
	rec.Special = append(rec.Special, r.Trailing())
}

func handleWhoisAccount(ctx Context, r *Reply) {
	ctx.Whois(r.Param(1)).Account = r.Param(2)
}

func handleWhoisBot(ctx Context, r *Reply) {
	ctx.Whois(r.Param(1)).Bot = true
}

func handleWhoisActually(ctx Context, r *Reply) {
	ctx.Whois(r.Param(1)).ActualHost = r.Param(2)
}

func handleWhoisHost(ctx Context, r *Reply) {
	text := r.Trailing()
	if i := strings.LastIndexByte(text, ' '); i >= 0 {
		text = text[i+1:]
	}
	ctx.Whois(r.Param(1)).ActualHost = text
}

func handleWhoisModes(ctx Context, r *Reply) {
	text := r.Trailing()
	if i := strings.LastIndexByte(text, ' '); i >= 0 {
		text = text[i+1:]
	}
	ctx.Whois(r.Param(1)).Modes = text
}

func handleWhoisSecure(ctx Context, r *Reply) {
	ctx.Whois(r.Param(1)).Secure = true
}

// handleEndOfWhois finalizes the accumulated record.  Fields set by
// earlier numerics are preserved; end-of-WHOIS never clears them.
func handleEndOfWhois(ctx Context, r *Reply) {
	rec := ctx.EndWhois(r.Param(1))
	if rec == nil {
		return
	}
	ctx.Emit(WhoisEvent{Record: rec})
	ctx.Append(MessageAppend{
		Type:     MessageInfo,
		Text:     "end of WHOIS for " + rec.Nick,
		Time:     r.Time,
		Whois:    rec,
		WhoisTab: rec.Nick,
	})
}

func handleWhowasUser(ctx Context, r *Reply) {
	rec := ctx.Whois(r.Param(1))
	rec.User = r.Param(2)
	rec.Host = r.Param(3)
	rec.Realname = r.Trailing()
	rec.Whowas = true
}

func handleEndOfWhowas(ctx Context, r *Reply) {
	ctx.NoteWhowas(r.Param(1))
	rec := ctx.EndWhois(r.Param(1))
	if rec == nil {
		return
	}
	ctx.Emit(WhoisEvent{Record: rec})
	ctx.Append(MessageAppend{
		Type:     MessageInfo,
		Text:     "end of WHOWAS for " + rec.Nick,
		Time:     r.Time,
		Whois:    rec,
		WhoisTab: rec.Nick,
	})
}
