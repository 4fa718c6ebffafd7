package irc

import (
	"fmt"
	"math/rand"
	"strings"
)

// maxAltNickAttempts bounds the alternate-nick phase of nick
// negotiation; past it, fallback nicks are synthesized instead.
const maxAltNickAttempts = 3

var registrationHandlers = map[int]handlerFunc{
	rplWelcome:  handleWelcome,
	rplYourhost: rawHandler(RawServer),
	rplCreated:  rawHandler(RawServer),
	rplMyinfo:   rawHandler(RawServer),
	rplIsupport: handleIsupport,

	errNonicknamegiven:  errorHandler(),
	errErroneusnickname: handleBadNick,
	errNicknameinuse:    handleNickInUse,
	errNickcollision:    handleBadNick,
}

// handleWelcome is the sole place registration transitions from pending
// to active.  The server-confirmed nick is adopted and our own user
// modes are requested.
func handleWelcome(ctx Context, r *Reply) {
	ctx.SetNick(r.Param(0))
	ctx.SetRegistered(true)
	ctx.Send("MODE", r.Param(0))
	ctx.Emit(RegisteredEvent{})
	appendRaw(ctx, r, RawServer)
}

func handleIsupport(ctx Context, r *Reply) {
	if len(r.Params) > 2 {
		ctx.UpdateISupport(r.Params[1 : len(r.Params)-1])
	}
}

func handleBadNick(ctx Context, r *Reply) {
	appendError(ctx, r)
}

// handleNickInUse negotiates a new nick on collision.  The alternate
// nick is tried at most maxAltNickAttempts times; after that a random
// suffix guarantees forward progress, a new one each time.
func handleNickInUse(ctx Context, r *Reply) {
	appendError(ctx, r)

	if ctx.Registered() {
		return
	}

	attempted := r.Param(1)
	if attempted == "" {
		attempted = ctx.Nick()
	}

	alt := ctx.AltNick()
	var next string
	if alt != "" && ctx.NickAttempts() < maxAltNickAttempts {
		ctx.BumpNickAttempts()
		next = alt
	} else {
		next = fallbackNick(attempted)
	}

	ctx.SetNick(next)
	ctx.Send("NICK", next)
}

// fallbackNick appends a random 0-999 suffix to the attempted nick,
// replacing any numeric suffix a previous fallback left there so the
// nick stays within NICKLEN under repeated collisions.  It never
// returns its input, so two consecutive attempts cannot collide.
func fallbackNick(attempted string) string {
	base := strings.TrimRight(attempted, "0123456789")
	if base == "" {
		base = attempted
	}
	for {
		next := fmt.Sprintf("%s%d", base, rand.Intn(1000))
		if next != attempted {
			return next
		}
	}
}
