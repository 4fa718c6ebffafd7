package irc

import (
	"strings"
	"time"
)

// Prefix is the parsed source of a message: nick!user@host, with user
// and host possibly absent.
type Prefix struct {
	Name string
	User string
	Host string
}

// ParsePrefix splits a message source into its nick, user and host
// parts.  Empty input yields a zero Prefix.
func ParsePrefix(s string) (p Prefix) {
	if s == "" {
		return
	}

	spl0 := strings.SplitN(s, "@", 2)
	if len(spl0) > 1 {
		p.Host = spl0[1]
	}

	spl1 := strings.SplitN(spl0[0], "!", 2)
	if len(spl1) > 1 {
		p.User = spl1[1]
	}

	p.Name = spl1[0]

	return
}

func (p *Prefix) String() string {
	var sb strings.Builder
	sb.WriteString(p.Name)
	if p.User != "" {
		sb.WriteByte('!')
		sb.WriteString(p.User)
	}
	if p.Host != "" {
		sb.WriteByte('@')
		sb.WriteString(p.Host)
	}
	return sb.String()
}

func (p *Prefix) Copy() *Prefix {
	if p == nil {
		return nil
	}
	q := *p
	return &q
}

// CasemapASCII of name is the canonical representation of name
// according to the ascii casemapping.
func CasemapASCII(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// CasemapRFC1459 of name is the canonical representation of name
// according to the rfc-1459 casemapping.
func CasemapRFC1459(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		} else if r == '[' {
			r = '{'
		} else if r == ']' {
			r = '}'
		} else if r == '\\' {
			r = '|'
		} else if r == '~' {
			r = '^'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Name is a single token of a NAMES reply: the membership prefixes and
// the (possibly full) mask of one member.
type Name struct {
	PowerLevel string
	Nick       string
	User       string
	Host       string
}

// ParseNames splits the trailing parameter of a NAMES reply into its
// member tokens.  prefixes is the set of membership prefix characters
// advertised by the server, e.g. "~&@%+".
func ParseNames(trailing string, prefixes string) (names []Name) {
	for _, token := range strings.Split(trailing, " ") {
		if token == "" {
			continue
		}

		var item Name

		mask := strings.TrimLeft(token, prefixes)
		p := ParsePrefix(mask)
		item.Nick = p.Name
		item.User = p.User
		item.Host = p.Host
		item.PowerLevel = token[:len(token)-len(mask)]

		names = append(names, item)
	}

	return
}

// ParseIsupport folds a 005 token list into the feature table.  A
// leading '-' removes the feature, per the ISUPPORT draft.
func ParseIsupport(tokens []string, features map[string]string) {
	for _, f := range tokens {
		if f == "" || f == "-" || f == "=" || f == "-=" {
			continue
		}

		add := true
		if strings.HasPrefix(f, "-") {
			add = false
			f = f[1:]
		}

		kv := strings.SplitN(f, "=", 2)
		key := strings.ToUpper(kv[0])
		value := ""
		if len(kv) > 1 {
			value = kv[1]
		}

		if add {
			features[key] = value
		} else {
			delete(features, key)
		}
	}
}

// MemberPrefixes extracts the membership prefix characters from a
// PREFIX feature value such as "(qaohv)~&@%+".  The default set is
// returned when the value is absent or malformed.
func MemberPrefixes(prefixFeature string) string {
	const fallback = "~&@%+"
	if prefixFeature == "" {
		return fallback
	}
	i := strings.IndexByte(prefixFeature, ')')
	if !strings.HasPrefix(prefixFeature, "(") || i < 0 || i+1 >= len(prefixFeature) {
		return fallback
	}
	return prefixFeature[i+1:]
}

// Cap is one item of a CAP LS/NEW/DEL token list.
type Cap struct {
	Name   string
	Value  string
	Enable bool
}

// ParseCaps splits a capability token list, with "-cap" meaning the
// capability is withdrawn.
func ParseCaps(caps string) (diff []Cap) {
	for _, c := range strings.Split(caps, " ") {
		if c == "" || c == "-" || c == "=" || c == "-=" {
			continue
		}

		var item Cap

		if strings.HasPrefix(c, "-") {
			item.Enable = false
			c = c[1:]
		} else {
			item.Enable = true
		}

		kv := strings.SplitN(c, "=", 2)
		item.Name = strings.ToLower(kv[0])
		if len(kv) > 1 {
			item.Value = kv[1]
		}

		diff = append(diff, item)
	}

	return
}

// ParseServerTime parses the value of a server-time message tag.  ok is
// false when the value is not a valid timestamp.
func ParseServerTime(value string) (t time.Time, ok bool) {
	t, err := time.Parse("2006-01-02T15:04:05.000Z", value)
	if err != nil {
		t, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, false
		}
	}
	return t.Local(), true
}
