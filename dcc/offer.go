// Package dcc implements the DCC SEND side of CTCP: parsing offers,
// accepting incoming transfers with resume and flow-control ACKs, and
// serving outgoing transfers with throttling.
package dcc

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Offer is one parsed DCC SEND offer.
type Offer struct {
	Filename string
	Host     string
	Port     int
	Size     int64
	Token    string
}

// ParseSendOffer parses the payload of a CTCP DCC SEND message:
//
//	\x01DCC SEND "<filename>" <ip-or-uint32> <port> [<size>] [<token>]\x01
//
// A 32-bit integer address is converted to dotted-quad form.  Malformed
// text yields nil, never an error or panic.
func ParseSendOffer(ctcp string) *Offer {
	text := strings.TrimPrefix(ctcp, "\x01")
	text = strings.TrimSuffix(text, "\x01")

	rest, ok := strings.CutPrefix(text, "DCC SEND ")
	if !ok {
		return nil
	}

	var filename string
	if strings.HasPrefix(rest, `"`) {
		end := strings.Index(rest[1:], `"`)
		if end < 0 {
			return nil
		}
		filename = rest[1 : 1+end]
		rest = strings.TrimLeft(rest[2+end:], " ")
	} else {
		filename, rest = cutWord(rest)
	}
	if filename == "" {
		return nil
	}

	hostField, rest := cutWord(rest)
	portField, rest := cutWord(rest)
	sizeField, rest := cutWord(rest)
	tokenField, _ := cutWord(rest)

	host := decodeHost(hostField)
	if host == "" {
		return nil
	}

	port, err := strconv.Atoi(portField)
	if err != nil || port < 0 || port > 65535 {
		return nil
	}

	var size int64
	if sizeField != "" {
		size, err = strconv.ParseInt(sizeField, 10, 64)
		if err != nil || size < 0 {
			return nil
		}
	}

	return &Offer{
		Filename: filename,
		Host:     host,
		Port:     port,
		Size:     size,
		Token:    tokenField,
	}
}

func cutWord(s string) (word, rest string) {
	word, rest, _ = strings.Cut(s, " ")
	rest = strings.TrimLeft(rest, " ")
	return
}

// decodeHost accepts a dotted-quad or IPv6 literal as-is and converts a
// 32-bit unsigned integer encoding to dotted-quad.
func decodeHost(field string) string {
	if field == "" {
		return ""
	}
	if n, err := strconv.ParseUint(field, 10, 32); err == nil {
		return net.IPv4(byte(n>>24), byte(n>>16), byte(n>>8), byte(n)).String()
	}
	if net.ParseIP(field) != nil {
		return field
	}
	// hostnames pass through; the accept guard decides whether to
	// connect
	return field
}

// SendOfferCTCP formats an outgoing offer.  The filename is always
// quoted; peers that predate quoting still parse it up to the first
// space.
func SendOfferCTCP(offer Offer) string {
	text := fmt.Sprintf("\x01DCC SEND %q %s %d %d", offer.Filename, offer.Host, offer.Port, offer.Size)
	if offer.Token != "" {
		text += " " + offer.Token
	}
	return text + "\x01"
}

// ResumeCTCP formats a resume request for an incoming transfer.
func ResumeCTCP(filename string, port int, offset int64) string {
	if strings.ContainsAny(filename, " ") {
		filename = strconv.Quote(filename)
	}
	return fmt.Sprintf("\x01DCC RESUME %s %d %d\x01", filename, port, offset)
}
