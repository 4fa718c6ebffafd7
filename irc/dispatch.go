package irc

import (
	"fmt"
	"time"
)

// handlerFunc interprets one numeric reply.  Handlers touch session
// state only through the context, treat missing parameters as empty
// strings, and are idempotent under redelivery unless explicitly
// stateful (nick retries).
type handlerFunc func(ctx Context, r *Reply)

// Dispatcher maps numeric replies to their handlers.  The table is
// assembled once, from per-category sub-tables; registering the same
// numeric twice is a programming error and panics at construction.
type Dispatcher struct {
	handlers map[int]handlerFunc
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{handlers: make(map[int]handlerFunc, 192)}
	for _, table := range []map[int]handlerFunc{
		registrationHandlers,
		traceHandlers,
		lusersHandlers,
		motdHandlers,
		statsHandlers,
		channelHandlers,
		whoisHandlers,
		errorHandlers,
		versionInfoHandlers,
		monitorHandlers,
		starttlsHandlers,
		saslHandlers,
	} {
		for numeric, h := range table {
			d.register(numeric, h)
		}
	}
	return d
}

func (d *Dispatcher) register(numeric int, h handlerFunc) {
	if _, dup := d.handlers[numeric]; dup {
		panic(fmt.Sprintf("irc: duplicate handler for numeric %03d", numeric))
	}
	d.handlers[numeric] = h
}

// Handle looks up and runs the handler for numeric.  It returns false,
// with no side effect, when no handler is registered: unknown numerics
// are tolerated, not fatal.
func (d *Dispatcher) Handle(ctx Context, numeric int, prefix string, params []string, t time.Time) bool {
	h, ok := d.handlers[numeric]
	if !ok {
		return false
	}
	h(ctx, &Reply{
		Numeric: numeric,
		Prefix:  ParsePrefix(prefix),
		Params:  params,
		Time:    t,
	})
	return true
}

// Handles reports whether a handler is registered for numeric.
func (d *Dispatcher) Handles(numeric int) bool {
	_, ok := d.handlers[numeric]
	return ok
}
