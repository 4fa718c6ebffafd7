package dcc

import (
	"net/netip"
	"strings"
)

// hostIsLocal reports whether an offer host points at a private,
// loopback, link-local or unspecified address.  Connecting to such an
// address on a peer's say-so is an SSRF vector, so accepts are refused
// unless the host application explicitly disables the protection.
func hostIsLocal(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		// not an address literal; resolution is left to the dialer and
		// the guard stays conservative only for literals
		return false
	}

	return addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsUnspecified()
}
