package irc

import (
	"time"
)

// WhoisRecord accumulates the fields of a WHOIS (or WHOWAS) reply.  The
// numerics carrying these fields arrive independently and in any order;
// a record is finalized, but not necessarily complete, at end-of-WHOIS.
type WhoisRecord struct {
	Nick     string
	User     string
	Host     string
	Realname string

	Server     string
	ServerInfo string

	Account    string
	Registered bool
	Operator   bool
	Bot        bool
	Secure     bool

	ActualHost string
	Modes      string
	Certfp     string
	Away       string

	IdleSeconds int64
	Signon      time.Time

	Channels []string
	Special  []string

	Whowas bool // record was produced by a WHOWAS lookup
}

// whowasHintWindow is how long a WHOWAS target is remembered so that a
// "no such nick" error can suggest running WHOIS instead.
const whowasHintWindow = 5 * time.Second

// whoisTable owns the per-nick accumulation buffers of one session.
type whoisTable struct {
	records map[string]*WhoisRecord // nickCf -> in-progress record

	whowasTarget string
	whowasAt     time.Time
}

func newWhoisTable() *whoisTable {
	return &whoisTable{records: map[string]*WhoisRecord{}}
}

// record returns the in-progress record for nick, creating it on first
// use.  Handlers merge fields into the result; they never replace it.
func (t *whoisTable) record(nickCf, nick string) *WhoisRecord {
	r, ok := t.records[nickCf]
	if !ok {
		r = &WhoisRecord{Nick: nick}
		t.records[nickCf] = r
	}
	if r.Nick == "" {
		r.Nick = nick
	}
	return r
}

// take finalizes and removes the record for nick.  It returns nil when
// no field ever arrived for that nick.
func (t *whoisTable) take(nickCf string) *WhoisRecord {
	r := t.records[nickCf]
	delete(t.records, nickCf)
	return r
}

// noteWhowas remembers that a WHOWAS lookup for target just happened.
func (t *whoisTable) noteWhowas(target string, now time.Time) {
	t.whowasTarget = target
	t.whowasAt = now
}

// whowasHint reports whether a recent WHOWAS lookup for target should
// make a "no such nick" error suggest WHOIS.
func (t *whoisTable) whowasHint(target string, now time.Time) bool {
	if t.whowasTarget == "" || t.whowasTarget != target {
		return false
	}
	return now.Sub(t.whowasAt) <= whowasHintWindow
}
