package irc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDispatcher = NewDispatcher()

type sentCmd struct {
	command string
	params  []string
}

// fakeContext records everything a handler does to it.  Each capability
// interface of Context is implemented with plain fields so tests can
// assert on exactly the state a handler touched.
type fakeContext struct {
	nick         string
	altNick      string
	registered   bool
	oper         bool
	nickAttempts int
	features     map[string]string

	appends      []MessageAppend
	events       []Event
	sent         []sentCmd
	rawLines     []string
	disconnected bool

	topics map[string]*TopicInfo
	users  map[string]map[string]*ChannelUser
	intros []string

	whoisTab *whoisTable
	now      time.Time

	caps        map[string]bool
	saslSuccess []string
	saslFail    []string
	capEnds     int

	silent map[string]func(WhoReply)

	bufs *buffers
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		nick:     "alice",
		features: map[string]string{},
		topics:   map[string]*TopicInfo{},
		users:    map[string]map[string]*ChannelUser{},
		whoisTab: newWhoisTable(),
		now:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		caps:     map[string]bool{},
		silent:   map[string]func(WhoReply){},
		bufs:     newBuffers(),
	}
}

func (f *fakeContext) Nick() string { return f.nick }

func (f *fakeContext) AltNick() string { return f.altNick }

func (f *fakeContext) SetNick(nick string) {
	if nick != "" {
		f.nick = nick
	}
}

func (f *fakeContext) Registered() bool { return f.registered }

func (f *fakeContext) SetRegistered(registered bool) { f.registered = registered }

func (f *fakeContext) Operator() bool { return f.oper }

func (f *fakeContext) SetOperator(oper bool) { f.oper = oper }

func (f *fakeContext) NickAttempts() int { return f.nickAttempts }

func (f *fakeContext) BumpNickAttempts() int {
	f.nickAttempts++
	return f.nickAttempts
}

func (f *fakeContext) Casemap(name string) string { return CasemapRFC1459(name) }

func (f *fakeContext) UpdateISupport(tokens []string) { ParseIsupport(tokens, f.features) }

func (f *fakeContext) Append(m MessageAppend) { f.appends = append(f.appends, m) }

func (f *fakeContext) Emit(ev Event) { f.events = append(f.events, ev) }

func (f *fakeContext) Send(command string, params ...string) {
	f.sent = append(f.sent, sentCmd{command, params})
}

func (f *fakeContext) SendRawLine(line string) { f.rawLines = append(f.rawLines, line) }

func (f *fakeContext) Disconnect() { f.disconnected = true }

func (f *fakeContext) Topic(channel string) *TopicInfo {
	key := f.Casemap(channel)
	t, ok := f.topics[key]
	if !ok {
		t = &TopicInfo{Channel: channel}
		f.topics[key] = t
	}
	return t
}

func (f *fakeContext) SwapUsers(channel string, users map[string]*ChannelUser) {
	f.users[f.Casemap(channel)] = users
}

func (f *fakeContext) MaybeIntro(channel string) { f.intros = append(f.intros, channel) }

func (f *fakeContext) PrefixSymbols() string { return MemberPrefixes(f.features["PREFIX"]) }

func (f *fakeContext) Whois(nick string) *WhoisRecord {
	return f.whoisTab.record(f.Casemap(nick), nick)
}

func (f *fakeContext) WhoisPending(nick string) bool {
	_, ok := f.whoisTab.records[f.Casemap(nick)]
	return ok
}

func (f *fakeContext) EndWhois(nick string) *WhoisRecord {
	return f.whoisTab.take(f.Casemap(nick))
}

func (f *fakeContext) NoteWhowas(target string) { f.whoisTab.noteWhowas(target, f.now) }

func (f *fakeContext) WhowasHint(target string) bool { return f.whoisTab.whowasHint(target, f.now) }

func (f *fakeContext) HasCap(name string) bool { return f.caps[name] }

func (f *fakeContext) SASLAuthenticating() bool { return false }

func (f *fakeContext) SASLSuccess(account string) {
	f.saslSuccess = append(f.saslSuccess, account)
	f.capEnds++
}
func (f *fakeContext) SASLFail(reason string) {
	f.saslFail = append(f.saslFail, reason)
	f.capEnds++
}
func (f *fakeContext) EndCapNegotiation() { f.capEnds++ }

func (f *fakeContext) SilentWho(targetCf string) (cb func(WhoReply), ok bool) {
	cb, ok = f.silent[targetCf]
	return
}

func (f *fakeContext) ClearSilentWho(targetCf string) { delete(f.silent, targetCf) }

func (f *fakeContext) Buffers() *buffers { return f.bufs }

func dispatch(t *testing.T, ctx *fakeContext, numeric int, params ...string) bool {
	t.Helper()
	return testDispatcher.Handle(ctx, numeric, "irc.example.org", params, ctx.now)
}

func TestDispatcherUnknownNumeric(t *testing.T) {
	ctx := newFakeContext()

	handled := dispatch(t, ctx, 999, "alice", "some text")

	assert.False(t, handled)
	assert.Empty(t, ctx.appends)
	assert.Empty(t, ctx.events)
	assert.Empty(t, ctx.sent)
	assert.False(t, ctx.disconnected)
}

func TestDispatcherKnownNumerics(t *testing.T) {
	for _, numeric := range []int{
		rplWelcome, rplIsupport, rplNotopic, rplTopic, rplTopicwhotime,
		rplNamreply, rplEndofnames, rplEndofwhois,
		errNosuchnick, errNicknameinuse, errYourebannedcreep,
		rplLoggedin, rplSaslsuccess, errSaslfail,
	} {
		assert.True(t, testDispatcher.Handles(numeric), "numeric %03d", numeric)
	}
	assert.False(t, testDispatcher.Handles(0))
	assert.False(t, testDispatcher.Handles(999))
}

func TestWelcomeRegisters(t *testing.T) {
	ctx := newFakeContext()
	ctx.nick = "alice"

	handled := dispatch(t, ctx, rplWelcome, "alice_", "Welcome to the network")

	require.True(t, handled)
	assert.True(t, ctx.registered)
	assert.Equal(t, "alice_", ctx.nick)
	require.Len(t, ctx.sent, 1)
	assert.Equal(t, sentCmd{"MODE", []string{"alice_"}}, ctx.sent[0])
	require.Len(t, ctx.events, 1)
	assert.IsType(t, RegisteredEvent{}, ctx.events[0])
}

func TestIsupportUpdatesFeatures(t *testing.T) {
	ctx := newFakeContext()

	dispatch(t, ctx, rplIsupport, "alice", "CASEMAPPING=ascii", "PREFIX=(ov)@+", "are supported")

	assert.Equal(t, "ascii", ctx.features["CASEMAPPING"])
	assert.Equal(t, "(ov)@+", ctx.features["PREFIX"])
	assert.NotContains(t, ctx.features, "ARE SUPPORTED")
}
