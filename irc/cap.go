package irc

import (
	"strings"
)

// Capability negotiation and the SASL sub-machine.
//
// Whatever happens during SASL (success, failure, nick locked, abort),
// negotiation must end exactly once, otherwise registration stalls
// forever.  Every outcome path routes through EndCapNegotiation, which
// is idempotent.

func (s *Session) handleCap(msg []string) {
	if len(msg) < 2 {
		return
	}

	switch msg[1] {
	case "LS":
		var willContinue bool
		var ls string

		if len(msg) >= 4 && msg[2] == "*" {
			willContinue = true
			ls = msg[3]
		} else if len(msg) >= 3 {
			ls = msg[2]
		}

		for _, c := range ParseCaps(ls) {
			if c.Enable {
				s.availableCaps[c.Name] = c.Value
			} else {
				delete(s.availableCaps, c.Name)
			}
		}

		if willContinue {
			return
		}

		for c := range s.availableCaps {
			if _, ok := SupportedCapabilities[c]; !ok {
				continue
			}
			s.send("CAP", "REQ", c)
		}

		_, saslAvailable := s.availableCaps["sasl"]
		if s.auth == nil || !saslAvailable {
			s.EndCapNegotiation()
		}
	case "ACK":
		if len(msg) < 3 {
			return
		}
		// an acknowledged "-cap" disables, it is not a cap named "-cap"
		for _, c := range ParseCaps(msg[2]) {
			if !c.Enable {
				delete(s.enabledCaps, c.Name)
				continue
			}
			s.enabledCaps[c.Name] = struct{}{}

			if c.Name == "sasl" && s.auth != nil && !s.registered {
				s.saslActive = true
				s.send("AUTHENTICATE", s.auth.Handshake())
			}
		}
	case "NAK":
		if len(msg) < 3 {
			return
		}
		for _, c := range strings.Split(msg[2], " ") {
			delete(s.enabledCaps, c)
		}
		// A NAKed sasl request must not leave negotiation hanging.
		if !s.registered && strings.Contains(msg[2], "sasl") {
			s.EndCapNegotiation()
		}
	case "NEW":
		if len(msg) < 3 {
			return
		}
		for _, c := range ParseCaps(msg[2]) {
			if c.Enable {
				s.availableCaps[c.Name] = c.Value
				if _, ok := SupportedCapabilities[c.Name]; ok {
					s.send("CAP", "REQ", c.Name)
				}
			} else {
				delete(s.availableCaps, c.Name)
			}
		}
	case "DEL":
		if len(msg) < 3 {
			return
		}
		for _, c := range ParseCaps(msg[2]) {
			delete(s.availableCaps, c.Name)
			delete(s.enabledCaps, c.Name)
		}
	}
}

// handleAuthenticate answers one server challenge.  A response error
// aborts the exchange with AUTHENTICATE *; the server then reports the
// abort numeric and negotiation ends through the usual path.
func (s *Session) handleAuthenticate(challenge string) {
	if s.auth == nil {
		return
	}

	res, err := s.auth.Respond(challenge)
	if err != nil {
		s.send("AUTHENTICATE", "*")
		return
	}
	s.send("AUTHENTICATE", res)
}

func (s *Session) SASLAuthenticating() bool {
	return s.saslActive
}

func (s *Session) SASLSuccess(account string) {
	if account != "" {
		s.acct = account
	}
	if s.saslActive {
		s.saslActive = false
		s.Emit(SaslSuccessEvent{Account: s.acct})
	}
	s.EndCapNegotiation()
}

func (s *Session) SASLFail(reason string) {
	if s.saslActive {
		s.saslActive = false
		s.Emit(SaslFailEvent{Reason: reason})
	}
	s.EndCapNegotiation()
}

// EndCapNegotiation sends CAP END once.  Calling it again is a no-op,
// so any number of SASL outcome numerics cannot stall or double-end
// registration.
func (s *Session) EndCapNegotiation() {
	if s.capEnded {
		return
	}
	s.capEnded = true
	if !s.registered {
		s.send("CAP", "END")
	}
}
