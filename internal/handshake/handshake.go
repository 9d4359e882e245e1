// Package handshake implements the out-of-band "challenge" and
// "connect" string parsers/formatters (spec.md §4.7): the text
// protocol exchanged before either side has negotiated a dialect, so
// it necessarily lives outside internal/dialect's Codec abstraction.
// Grounded on spec.md §4.7's prose and the three literal scenarios in
// spec.md §8; no connect/challenge-string source was in the retrieval
// pack (R1Q2/Q2PRO/Q2rePRO's own C files are absent, only headers),
// so token order and defaults follow the prose exactly and anything
// it leaves unspecified is called out below.
package handshake

import (
	"strconv"
	"strings"

	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/protocol"
)

// GameType selects which protocols a server's acceptable-protocol
// filter allows through (spec.md §4.7 "Acceptable-protocol filtering").
type GameType int

const (
	GameTypeVanilla GameType = iota
	GameTypeExtendedQ2PRO
	GameTypeRerelease
)

// FilterAcceptable restricts accepted (the caller's protocol
// preference list, highest priority first) to what gameType allows:
// a vanilla game accepts anything, an extended-Q2PRO game accepts
// only Q2PRO, and a rerelease game accepts only Q2rePRO.
func FilterAcceptable(accepted []protocol.Version, gameType GameType) []protocol.Version {
	switch gameType {
	case GameTypeExtendedQ2PRO:
		return filterTo(accepted, protocol.VersionQ2PRO)
	case GameTypeRerelease:
		return filterTo(accepted, protocol.VersionQ2rePRO)
	default:
		return accepted
	}
}

func filterTo(accepted []protocol.Version, only protocol.Version) []protocol.Version {
	out := make([]protocol.Version, 0, 1)
	for _, v := range accepted {
		if v == only {
			out = append(out, v)
		}
	}
	return out
}

// Challenge is the parsed "challenge" handshake string: a challenge
// integer and the protocol selected by negotiation.
type Challenge struct {
	Challenge      int32
	ServerProtocol protocol.Version
}

// ParseChallenge parses a challenge argument string (spec.md §4.7):
// space-separated tokens, the first a decimal challenge integer, any
// later "p=<list>" token a comma-separated list of protocols the
// server offers. Accepted is the caller's preference list, highest
// priority first; ParseChallenge picks the earliest accepted entry
// also present in the server's list. A string with no "p=" token is
// defined as offering vanilla alone (spec.md §4.7 scenario 1/2).
func ParseChallenge(args string, accepted []protocol.Version) (Challenge, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return Challenge{}, bitio.NewError(bitio.CodeBadData, nil, "handshake: empty challenge string")
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return Challenge{}, bitio.NewError(bitio.CodeBadData, err, "handshake: bad challenge integer %q", fields[0])
	}

	offered := []protocol.Version{protocol.VersionVanilla}
	for _, tok := range fields[1:] {
		list, ok := strings.CutPrefix(tok, "p=")
		if !ok {
			continue
		}
		offered = offered[:0]
		for _, entry := range strings.Split(list, ",") {
			v, err := strconv.Atoi(entry)
			if err != nil {
				return Challenge{}, bitio.NewError(bitio.CodeBadData, err, "handshake: bad protocol %q in p= list", entry)
			}
			offered = append(offered, protocol.Version(v))
		}
	}

	for _, want := range accepted {
		for _, have := range offered {
			if want == have {
				return Challenge{Challenge: int32(n), ServerProtocol: want}, nil
			}
		}
	}
	return Challenge{}, bitio.NewError(bitio.CodeNoAcceptableProtocol, nil, "handshake: no acceptable protocol in %v", offered)
}

// FormatChallenge formats the server's side of the exchange: the
// challenge integer followed by a "p=<list>" token naming every
// protocol the server currently offers, in the order given.
func FormatChallenge(challenge int32, offered []protocol.Version) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(challenge)))
	if len(offered) > 0 {
		b.WriteString(" p=")
		for i, v := range offered {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(int(v)))
		}
	}
	return b.String()
}

// Connect is the parsed "connect" handshake string.
type Connect struct {
	Protocol        protocol.Version
	QPort           int32
	Challenge       int32
	UserInfo        string
	MaxPacketLength int32

	// NetchanType/Deflate/Minor are only meaningful for R1Q2 and
	// Q2PRO-family protocols; HasZlib is implicitly true for R1Q2
	// (spec.md §4.7) rather than carried on the wire.
	NetchanType int32
	HasZlib     bool
	Deflate     bool
	Minor       protocol.Minor
}

// isR1Q2Family/isQ2PROFamily classify protocol for the connect
// string's trailing, dialect-specific tokens.
func isR1Q2Family(v protocol.Version) bool { return v == protocol.VersionR1Q2 }

func isQ2PROFamily(v protocol.Version) bool {
	switch v {
	case protocol.VersionQ2PRO, protocol.VersionQ2PROExtDemo, protocol.VersionQ2PROExtDemo2,
		protocol.VersionQ2PROExtDemoFog, protocol.VersionQ2rePRO:
		return true
	default:
		return false
	}
}

// ParseConnect parses a connect argument string (spec.md §4.7):
// protocol, qport, challenge, a quoted userinfo string, then -- for
// every dialect, per spec.md §8 scenario 3's "still parsed" vanilla
// example -- an optional maximum packet length, then whatever
// trailing tokens the negotiated protocol defines: R1Q2 an optional
// minor version; Q2PRO/Q2rePRO an optional netchan type (default 1 =
// NEW), deflate flag, and minor version, with the reserved minor
// value skipped by decrementing (spec.md §4.7). Q2rePRO's own further
// rerelease fields aren't named anywhere in the retrieval pack, so
// none are parsed beyond what Q2PRO already defines; see DESIGN.md.
func ParseConnect(args string) (Connect, error) {
	fields := tokenize(args)
	if len(fields) < 4 {
		return Connect{}, bitio.NewError(bitio.CodeBadData, nil, "handshake: connect string has too few tokens")
	}

	var c Connect
	proto, err := strconv.Atoi(fields[0])
	if err != nil {
		return c, bitio.NewError(bitio.CodeBadData, err, "handshake: bad protocol %q", fields[0])
	}
	c.Protocol = protocol.Version(proto)

	qport, err := strconv.Atoi(fields[1])
	if err != nil {
		return c, bitio.NewError(bitio.CodeBadData, err, "handshake: bad qport %q", fields[1])
	}
	c.QPort = int32(qport)

	challenge, err := strconv.Atoi(fields[2])
	if err != nil {
		return c, bitio.NewError(bitio.CodeBadData, err, "handshake: bad challenge %q", fields[2])
	}
	c.Challenge = int32(challenge)

	c.UserInfo = fields[3]

	idx := 4
	if idx < len(fields) {
		mpl, err := strconv.Atoi(fields[idx])
		if err != nil {
			return c, bitio.NewError(bitio.CodeBadData, err, "handshake: bad maxpacketlength %q", fields[idx])
		}
		c.MaxPacketLength = int32(mpl)
		idx++
	}

	switch {
	case isR1Q2Family(c.Protocol):
		c.HasZlib = true
		if idx < len(fields) {
			minor, err := strconv.Atoi(fields[idx])
			if err != nil {
				return c, bitio.NewError(bitio.CodeBadData, err, "handshake: bad minor %q", fields[idx])
			}
			c.Minor = clampMinor(protocol.Minor(minor), protocol.MinorR1Q2Minimum, protocol.MinorR1Q2Current)
			idx++
		} else {
			c.Minor = protocol.MinorR1Q2Minimum
		}
	case isQ2PROFamily(c.Protocol):
		c.NetchanType = 1
		if idx < len(fields) {
			nctype, err := strconv.Atoi(fields[idx])
			if err != nil {
				return c, bitio.NewError(bitio.CodeBadData, err, "handshake: bad netchan type %q", fields[idx])
			}
			c.NetchanType = int32(nctype)
			idx++
		}
		if idx < len(fields) {
			deflate, err := strconv.Atoi(fields[idx])
			if err != nil {
				return c, bitio.NewError(bitio.CodeBadData, err, "handshake: bad deflate flag %q", fields[idx])
			}
			c.Deflate = deflate != 0
			idx++
		}
		if idx < len(fields) {
			minor, err := strconv.Atoi(fields[idx])
			if err != nil {
				return c, bitio.NewError(bitio.CodeBadData, err, "handshake: bad minor %q", fields[idx])
			}
			c.Minor = clampMinor(protocol.Minor(minor), protocol.MinorQ2PROMinimum, protocol.MinorQ2PROCurrent)
			if c.Minor == protocol.MinorQ2PROReserved {
				c.Minor--
			}
			idx++
		} else {
			c.Minor = protocol.MinorQ2PROMinimum
		}
	}

	return c, nil
}

func clampMinor(m, lo, hi protocol.Minor) protocol.Minor {
	if m < lo {
		return lo
	}
	if m > hi {
		return hi
	}
	return m
}

// FormatConnect is the inverse of ParseConnect, used by a client to
// produce the string it sends a server.
func FormatConnect(c Connect) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(c.Protocol)))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(int(c.QPort)))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(int(c.Challenge)))
	b.WriteString(" \"")
	b.WriteString(c.UserInfo)
	b.WriteByte('"')

	if c.MaxPacketLength == 0 && !isR1Q2Family(c.Protocol) && !isQ2PROFamily(c.Protocol) {
		return b.String()
	}
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(int(c.MaxPacketLength)))

	switch {
	case isR1Q2Family(c.Protocol):
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(int(c.Minor)))
	case isQ2PROFamily(c.Protocol):
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(int(c.NetchanType)))
		b.WriteByte(' ')
		if c.Deflate {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(int(c.Minor)))
	}
	return b.String()
}

// tokenize splits s on whitespace, except that a double-quoted run
// (spec.md §4.7's userinfo string) is kept as one token with its
// quotes stripped.
func tokenize(s string) []string {
	var out []string
	var cur strings.Builder
	inQuotes := false
	hasToken := false

	flush := func() {
		if hasToken {
			out = append(out, cur.String())
			cur.Reset()
			hasToken = false
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			hasToken = true
		case r == ' ' || r == '\t':
			if inQuotes {
				cur.WriteRune(r)
			} else {
				flush()
			}
		default:
			cur.WriteRune(r)
			hasToken = true
		}
	}
	flush()
	return out
}
