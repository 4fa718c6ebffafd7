package irc

import (
	"strings"
	"time"

	"github.com/ergochat/irc-go/ircmsg"
)

func param(params []string, i int) string {
	if i < 0 || len(params) <= i {
		return ""
	}
	return params[i]
}

// handleCommand routes named commands.  The engine cares about the
// session-state ones (CAP, AUTHENTICATE, membership changes); PRIVMSG
// and NOTICE are surfaced as events for the host to route, including
// CTCP payloads such as DCC offers.
func (s *Session) handleCommand(msg ircmsg.Message, t time.Time) {
	prefix := ParsePrefix(msg.Source)

	if ok, id := msg.GetTag("batch"); ok {
		if b, found := s.chBatches[id]; found {
			b.Messages = append(b.Messages, s.messageEvent(msg, t))
			s.chBatches[id] = b
			return
		}
	}

	switch msg.Command {
	case "PING":
		s.send("PONG", param(msg.Params, 0))
	case "ERROR":
		if len(msg.Params) > 0 {
			s.Append(MessageAppend{
				Type: MessageError,
				Text: "connection terminated: " + msg.Params[0],
				Time: t,
			})
		}
		s.Stop()
	case "CAP":
		s.handleCap(msg.Params)
	case "AUTHENTICATE":
		s.handleAuthenticate(param(msg.Params, 0))
	case "JOIN":
		s.handleJoin(prefix, param(msg.Params, 0), t)
	case "PART":
		s.handlePart(prefix, param(msg.Params, 0), t)
	case "KICK":
		s.handleKick(prefix, param(msg.Params, 0), param(msg.Params, 1), t)
	case "QUIT":
		s.handleQuit(prefix, t)
	case "NICK":
		s.handleNick(prefix, param(msg.Params, 0), t)
	case "TOPIC":
		s.handleTopicChange(prefix, param(msg.Params, 0), param(msg.Params, 1), t)
	case "AWAY":
		s.handleAwayNotify(prefix, param(msg.Params, 0))
	case "PRIVMSG", "NOTICE":
		s.Emit(s.messageEvent(msg, t))
	case "BATCH":
		s.handleBatch(msg.Params)
	case "FAIL":
		s.Append(MessageAppend{
			Type: MessageError,
			Text: strings.Join(msg.Params, " "),
			Time: t,
		})
	case "WARN", "NOTE":
		s.Append(MessageAppend{
			Type:        MessageInfo,
			Text:        strings.Join(msg.Params, " "),
			Time:        t,
			IsRaw:       true,
			RawCategory: RawServer,
		})
	case "MODE":
		s.handleMode(msg.Params, t)
	}
}

func (s *Session) messageEvent(msg ircmsg.Message, t time.Time) MessageEvent {
	prefix := ParsePrefix(msg.Source)
	target := param(msg.Params, 0)
	ev := MessageEvent{
		User:    prefix.Copy(),
		Target:  target,
		Command: msg.Command,
		Content: param(msg.Params, 1),
		Time:    t,
	}
	if c, ok := s.channels[s.Casemap(target)]; ok {
		ev.Target = c.Name
		ev.TargetIsChannel = true
	}
	return ev
}

func (s *Session) handleJoin(prefix Prefix, channel string, t time.Time) {
	if channel == "" {
		return
	}
	nickCf := s.Casemap(prefix.Name)

	if nickCf == s.nickCf {
		channelCf := s.Casemap(channel)
		s.channels[channelCf] = &Channel{
			Name:  channel,
			Topic: TopicInfo{Channel: channel},
			Users: map[string]*ChannelUser{},
		}
		s.Emit(SelfJoinEvent{Channel: channel})
		return
	}

	c, ok := s.channels[s.Casemap(channel)]
	if !ok {
		return
	}
	c.Users[nickCf] = &ChannelUser{
		Nick: prefix.Name,
		User: prefix.User,
		Host: prefix.Host,
	}
	s.Emit(UserJoinEvent{User: prefix.Copy(), Channel: c.Name, Time: t})
}

func (s *Session) handlePart(prefix Prefix, channel string, t time.Time) {
	channelCf := s.Casemap(channel)
	nickCf := s.Casemap(prefix.Name)

	if nickCf == s.nickCf {
		if c, ok := s.channels[channelCf]; ok {
			delete(s.channels, channelCf)
			s.bufs.takeNames(channelCf)
			s.Emit(SelfPartEvent{Channel: c.Name})
		}
		return
	}

	if c, ok := s.channels[channelCf]; ok {
		if _, known := c.Users[nickCf]; known {
			delete(c.Users, nickCf)
			s.Emit(UserPartEvent{User: prefix.Copy(), Channel: c.Name, Time: t})
		}
	}
}

func (s *Session) handleKick(prefix Prefix, channel, kicked string, t time.Time) {
	channelCf := s.Casemap(channel)
	nickCf := s.Casemap(kicked)

	if nickCf == s.nickCf {
		if c, ok := s.channels[channelCf]; ok {
			delete(s.channels, channelCf)
			s.bufs.takeNames(channelCf)
			s.Emit(SelfPartEvent{Channel: c.Name})
		}
		return
	}

	if c, ok := s.channels[channelCf]; ok {
		if u, known := c.Users[nickCf]; known {
			delete(c.Users, nickCf)
			s.Emit(UserPartEvent{
				User:    &Prefix{Name: u.Nick, User: u.User, Host: u.Host},
				Channel: c.Name,
				Time:    t,
			})
		}
	}
}

func (s *Session) handleQuit(prefix Prefix, t time.Time) {
	nickCf := s.Casemap(prefix.Name)

	var channels []string
	for _, c := range s.channels {
		if _, ok := c.Users[nickCf]; ok {
			delete(c.Users, nickCf)
			channels = append(channels, c.Name)
		}
	}
	if len(channels) > 0 {
		s.Emit(UserQuitEvent{User: prefix.Copy(), Channels: channels, Time: t})
	}
}

func (s *Session) handleNick(prefix Prefix, newNick string, t time.Time) {
	if newNick == "" {
		return
	}
	nickCf := s.Casemap(prefix.Name)
	newNickCf := s.Casemap(newNick)

	for _, c := range s.channels {
		if u, ok := c.Users[nickCf]; ok {
			delete(c.Users, nickCf)
			u.Nick = newNick
			c.Users[newNickCf] = u
		}
	}

	if nickCf == s.nickCf {
		former := s.nick
		s.nick = newNick
		s.nickCf = newNickCf
		s.Emit(SelfNickEvent{FormerNick: former, Time: t})
		return
	}

	p := prefix
	p.Name = newNick
	s.Emit(UserNickEvent{User: &p, FormerNick: prefix.Name, Time: t})
}

func (s *Session) handleTopicChange(prefix Prefix, channel, topic string, t time.Time) {
	c, ok := s.channels[s.Casemap(channel)]
	if !ok {
		return
	}
	c.Topic.Topic = topic
	c.Topic.TopicWho = prefix.Copy()
	c.Topic.TopicTime = t
	s.Emit(TopicChangeEvent{
		User:    prefix.Copy(),
		Channel: c.Name,
		Topic:   topic,
		Time:    t,
	})
}

// handleAwayNotify folds away-notify updates into every channel user
// table the sender appears in.
func (s *Session) handleAwayNotify(prefix Prefix, reason string) {
	nickCf := s.Casemap(prefix.Name)
	for _, c := range s.channels {
		if u, ok := c.Users[nickCf]; ok {
			u.Away = reason != ""
		}
	}
}

func (s *Session) handleBatch(params []string) {
	ref := param(params, 0)
	if len(ref) < 2 {
		return
	}
	start := ref[0] == '+'
	id := ref[1:]

	if start && param(params, 1) == "chathistory" {
		s.chBatches[id] = HistoryEvent{Target: param(params, 2)}
	} else if b, ok := s.chBatches[id]; ok {
		s.Emit(b)
		delete(s.chBatches, id)
	}
}

func (s *Session) handleMode(params []string, t time.Time) {
	target := param(params, 0)
	if !s.IsChannel(target) {
		return
	}
	if c, ok := s.channels[s.Casemap(target)]; ok {
		s.Append(MessageAppend{
			Type: MessageInfo,
			Text: "mode " + c.Name + " " + strings.Join(params[1:], " "),
			Time: t,
		})
	}
}
