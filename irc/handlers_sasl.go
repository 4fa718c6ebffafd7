package irc

import (
	"strings"
)

var saslHandlers = map[int]handlerFunc{
	rplLoggedin:    handleLoggedIn,
	rplLoggedout:   handleLoggedOut,
	errNicklocked:  handleNickLocked,
	rplSaslsuccess: handleSaslSuccess,
	errSaslfail:    saslFailHandler("authentication failed"),
	errSasltoolong: saslFailHandler("message too long"),
	errSaslaborted: saslFailHandler("authentication aborted"),
	errSaslalready: saslFailHandler("already authenticated"),
	rplSaslmechs:   handleSaslMechs,
}

func handleLoggedIn(ctx Context, r *Reply) {
	account := r.Param(2)
	appendInfo(ctx, r, "logged in as "+account)
	ctx.SASLSuccess(account)
}

func handleLoggedOut(ctx Context, r *Reply) {
	appendInfo(ctx, r, "logged out")
}

// Nick-locked is its own outcome: the credentials may be fine but the
// nick is reserved.  It still must end capability negotiation.
func handleNickLocked(ctx Context, r *Reply) {
	appendError(ctx, r)
	ctx.SASLFail("nick locked: " + r.Trailing())
}

func handleSaslSuccess(ctx Context, r *Reply) {
	appendInfo(ctx, r, r.Trailing())
	ctx.SASLSuccess("")
}

func saslFailHandler(reason string) handlerFunc {
	return func(ctx Context, r *Reply) {
		appendError(ctx, r)
		ctx.SASLFail(reason)
	}
}

func handleSaslMechs(ctx Context, r *Reply) {
	mechs := r.Param(1)
	appendInfo(ctx, r, "available SASL mechanisms: "+strings.ReplaceAll(mechs, ",", ", "))
}

var monitorHandlers = map[int]handlerFunc{
	rplMononline:    monitorHandler(true),
	rplMonoffline:   monitorHandler(false),
	rplMonlist:      rawHandler(RawMonitor),
	rplEndofmonlist: rawHandler(RawMonitor),
	errMonlistfull:  errorHandler(),
}

func monitorHandler(online bool) handlerFunc {
	return func(ctx Context, r *Reply) {
		var targets []string
		for _, target := range strings.Split(r.Trailing(), ",") {
			if target = strings.TrimSpace(target); target != "" {
				targets = append(targets, ParsePrefix(target).Name)
			}
		}
		ctx.Emit(MonitorEvent{Online: online, Targets: targets})
	}
}

var starttlsHandlers = map[int]handlerFunc{
	rplStarttls: handleStartTLS,
	errStarttls: handleStartTLSErr,
}

func handleStartTLS(ctx Context, r *Reply) {
	ctx.Emit(StartTLSEvent{OK: true})
	appendInfo(ctx, r, "server ready for TLS handshake")
}

func handleStartTLSErr(ctx Context, r *Reply) {
	ctx.Emit(StartTLSEvent{OK: false, Reason: r.Trailing()})
	appendErrorText(ctx, r, "STARTTLS failed: "+r.Trailing())
}
