package irc

import (
	"strings"
)

var traceHandlers = map[int]handlerFunc{
	rplTracelink:       rawHandler(RawTrace),
	rplTraceconnecting: rawHandler(RawTrace),
	rplTracehandshake:  rawHandler(RawTrace),
	rplTraceunknown:    rawHandler(RawTrace),
	rplTraceoperator:   rawHandler(RawTrace),
	rplTraceuser:       rawHandler(RawTrace),
	rplTraceserver:     rawHandler(RawTrace),
	rplTraceservice:    rawHandler(RawTrace),
	rplTracenewtype:    rawHandler(RawTrace),
	rplTraceclass:      rawHandler(RawTrace),
	rplTracereconnect:  rawHandler(RawTrace),
	rplTracelog:        rawHandler(RawTrace),
	rplTraceend:        rawHandler(RawTrace),
}

var lusersHandlers = map[int]handlerFunc{
	rplLuserclient:   rawHandler(RawLusers),
	rplLuserop:       rawHandler(RawLusers),
	rplLuserunknown:  rawHandler(RawLusers),
	rplLuserchannels: rawHandler(RawLusers),
	rplLuserme:       rawHandler(RawLusers),
	rplLocalusers:    rawHandler(RawLusers),
	rplGlobalusers:   rawHandler(RawLusers),
	rplStatsconn:     rawHandler(RawLusers),

	rplAdminme:   rawHandler(RawAdmin),
	rplAdminloc1: rawHandler(RawAdmin),
	rplAdminloc2: rawHandler(RawAdmin),
	rplAdminmail: rawHandler(RawAdmin),
	rplTryagain:  errorHandler(),
}

var motdHandlers = map[int]handlerFunc{
	rplMotdstart: handleMotdStart,
	rplMotd:      handleMotdLine,
	rplEndofmotd: handleMotdEnd,
	errNomotd:    handleNoMotd,
}

func handleMotdStart(ctx Context, r *Reply) {
	ctx.Buffers().takeMotd() // a fresh MOTD replaces any stale buffer
	appendRaw(ctx, r, RawMotd)
}

func handleMotdLine(ctx Context, r *Reply) {
	line := strings.TrimPrefix(r.Trailing(), "- ")
	ctx.Buffers().appendMotd(line)
	appendRaw(ctx, r, RawMotd)
}

func handleMotdEnd(ctx Context, r *Reply) {
	ctx.Emit(MotdEndEvent{Motd: ctx.Buffers().takeMotd()})
	appendRaw(ctx, r, RawMotd)
}

func handleNoMotd(ctx Context, r *Reply) {
	ctx.Emit(MotdEndEvent{})
	appendError(ctx, r)
}

var statsHandlers = map[int]handlerFunc{
	rplStatslinkinfo: handleStatsLine,
	rplStatscommands: handleStatsLine,
	rplStatscline:    handleStatsLine,
	rplStatsnline:    handleStatsLine,
	rplStatsiline:    handleStatsLine,
	rplStatskline:    handleStatsLine,
	rplStatsqline:    handleStatsLine,
	rplStatsyline:    handleStatsLine,
	rplStatsvline:    handleStatsLine,
	rplStatslline:    handleStatsLine,
	rplStatsuptime:   handleStatsLine,
	rplStatsoline:    handleStatsLine,
	rplStatshline:    handleStatsLine,
	rplStatsdebug:    handleStatsLine,
	rplEndofstats:    handleStatsEnd,

	rplUmodeis: handleUmodeIs,
}

func handleStatsLine(ctx Context, r *Reply) {
	ctx.Buffers().appendStats(rawText(r))
	appendRaw(ctx, r, RawStats)
}

func handleStatsEnd(ctx Context, r *Reply) {
	ctx.Emit(StatsEvent{
		Letter:  r.Param(1),
		Entries: ctx.Buffers().takeStats(),
	})
	appendRaw(ctx, r, RawStats)
}

func handleUmodeIs(ctx Context, r *Reply) {
	appendInfo(ctx, r, "user modes: "+r.Param(1))
}

var versionInfoHandlers = map[int]handlerFunc{
	rplVersion:   rawHandler(RawServer),
	rplInfo:      rawHandler(RawInfo),
	rplEndofinfo: rawHandler(RawInfo),
	rplTime:      rawHandler(RawServer),
	rplRehashing: rawHandler(RawServer),
	rplUserhost:  rawHandler(RawServer),
	rplYoureoper: handleYoureOper,
}

func handleYoureOper(ctx Context, r *Reply) {
	ctx.SetOperator(true)
	appendInfo(ctx, r, "you are now an IRC operator")
}
