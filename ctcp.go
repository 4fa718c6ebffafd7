package ircore

import (
	"strings"
)

// CTCP payloads are PRIVMSG/NOTICE contents wrapped in 0x01 bytes.

// ParseCTCP splits a message content into its CTCP command and
// argument text.  ok is false for plain messages.
func ParseCTCP(content string) (command, args string, ok bool) {
	if len(content) < 2 || content[0] != '\x01' {
		return
	}

	text := strings.TrimPrefix(content, "\x01")
	text = strings.TrimSuffix(text, "\x01")
	if text == "" {
		return
	}

	command, args, _ = strings.Cut(text, " ")
	command = strings.ToUpper(command)
	ok = true
	return
}
