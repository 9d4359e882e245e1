// Package dump decodes an externally supplied stream of server-to-client
// network packets into the dialect-agnostic message.ServerMessage
// values internal/dialect's codecs produce, without needing a live
// connection: cmd/q2proto-dump's websocket endpoint feeds it whatever
// bytes a client sends it, one binary frame per network packet.
package dump

import (
	"fmt"

	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/dialect"
	"github.com/kulaginds/q2proto-go/internal/message"
	"github.com/kulaginds/q2proto-go/internal/protocol"
	"github.com/kulaginds/q2proto-go/internal/q2proto"
)

// Decoder turns a sequence of raw network packets into messages. The
// first packet fed to it must be a svc_serverdata message (spec.md §7
// EXPECTED_SERVERDATA); every packet after that is dispatched through
// whichever dialect the serverdata negotiated.
type Decoder struct {
	cc      *q2proto.ClientContext
	started bool
}

// New returns a Decoder with no dialect bound yet.
func New(opts q2proto.Options) *Decoder {
	return &Decoder{cc: q2proto.NewClientContext(opts)}
}

// Decode decodes every message contained in one network packet. An
// error mid-packet is returned alongside whatever messages were
// successfully decoded before it, so a caller can still report partial
// progress on a malformed or truncated capture.
func (d *Decoder) Decode(packet []byte) ([]message.ServerMessage, error) {
	r := bitio.NewBuffer(packet)
	var out []message.ServerMessage

	if !d.started {
		cmd, err := r.ReadU8()
		if err != nil {
			return out, fmt.Errorf("read opcode: %w", err)
		}
		if protocol.ServerCommand(cmd) != protocol.SvcServerData {
			return out, bitio.NewError(bitio.CodeExpectedServerData, nil, "dump: first packet opcode is %d, not svc_serverdata", cmd)
		}

		proto, err := r.ReadU32()
		if err != nil {
			return out, fmt.Errorf("read protocol: %w", err)
		}

		var sd message.ServerData
		sd.Protocol = int32(proto)
		if err := dialect.ContinueServerData(d.cc, r, &sd); err != nil {
			return out, fmt.Errorf("continue serverdata: %w", err)
		}
		d.started = true
		out = append(out, sd)
	}

	for r.Remaining() > 0 {
		msg, err := d.cc.ClientRead(r)
		if err != nil {
			return out, fmt.Errorf("client read: %w", err)
		}
		out = append(out, msg)
	}

	return out, nil
}

// Negotiated reports the protocol/minor bound so far, and whether a
// dialect has been selected at all (false before the first packet).
func (d *Decoder) Negotiated() (protocol.Version, protocol.Minor, bool) {
	if !d.started {
		return 0, 0, false
	}
	return d.cc.ServerProtocol, d.cc.Minor, true
}
