// Package dialect is the one package allowed to depend on both
// internal/q2proto and every per-version codec package
// (vanilla/r1q2/q2pro/q2repro): it declares the Codec capability-set
// interface every dialect implements, a Registry keyed by protocol
// version, and the two entry points (ContinueServerData, BindServer)
// that look a dialect up and bind it onto a context. See
// internal/q2proto's ClientCodec/ServerCodec doc comments and
// DESIGN.md for why q2proto itself cannot hold this registry.
package dialect

import (
	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/gamestate"
	"github.com/kulaginds/q2proto-go/internal/message"
	"github.com/kulaginds/q2proto-go/internal/protocol"
	"github.com/kulaginds/q2proto-go/internal/q2proto"
)

// Codec is the full per-dialect capability set (spec.md §4.4): reading
// and writing both directions of the wire, streaming a gamestate, and
// packing/unpacking the bounding-box "solid" field, whose width varies
// by dialect.
type Codec interface {
	ContinueServerData(cc *q2proto.ClientContext, r bitio.Reader, out *message.ServerData) error
	ClientRead(cc *q2proto.ClientContext, r bitio.Reader) (message.ServerMessage, error)
	ServerRead(sc *q2proto.ServerContext, r bitio.Reader) (message.ClientMessage, error)
	ServerWrite(sc *q2proto.ServerContext, w bitio.Writer, m message.ServerMessage) error
	WriteGamestate(sc *q2proto.ServerContext, w bitio.Writer, gs *gamestate.Writer) error
	FillServerData(sc *q2proto.ServerContext, out *message.ServerData)
	PackSolid(mins, maxs [3]float32) (uint32, error)
	UnpackSolid(packed uint32) (mins, maxs [3]float32, err error)
}

// Registry maps a negotiated protocol version to the Codec serving it.
// Each dialect subpackage registers itself from its own init(), the
// same self-registration idiom the teacher uses for its PDU type
// table (pdu.Type-keyed constructors).
var Registry = map[protocol.Version]Codec{}

// Register adds codec to the Registry under version. Called from a
// dialect subpackage's init().
func Register(version protocol.Version, codec Codec) {
	Registry[version] = codec
}

// Lookup returns the Codec registered for version, if any.
func Lookup(version protocol.Version) (Codec, bool) {
	c, ok := Registry[version]
	return c, ok
}

// ContinueServerData looks up the dialect named by a just-parsed
// serverdata message's protocol field, binds it onto cc, and asks the
// codec to finish decoding the dialect-specific tail of the serverdata
// message (R1Q2's protocol_version/enhanced flags, Q2PRO's
// server_state/qw_mode/extensions, …). Exactly one q2proto package
// depends on both internal/q2proto and this registry; this function is
// it.
func ContinueServerData(cc *q2proto.ClientContext, r bitio.Reader, out *message.ServerData) error {
	version := protocol.Version(out.Protocol)
	codec, ok := Lookup(version)
	if !ok {
		return bitio.NewError(bitio.CodeProtocolNotSupported, nil, "serverdata: unsupported protocol %d", out.Protocol)
	}
	cc.SelectCodec(codec)
	return codec.ContinueServerData(cc, r, out)
}

// BindServer looks up the dialect for version/minor and binds it onto
// sc, setting sc.Protocol/Minor/Features accordingly. Called once the
// handshake (internal/handshake) has picked a protocol to serve.
func BindServer(sc *q2proto.ServerContext, version protocol.Version, minor protocol.Minor) error {
	codec, ok := Lookup(version)
	if !ok {
		return bitio.NewError(bitio.CodeProtocolNotSupported, nil, "connect: unsupported protocol %d", version)
	}
	sc.Protocol = version
	sc.Minor = minor
	sc.Features = featuresFor(version, minor)
	sc.SelectCodec(codec)
	return nil
}

// featuresFor derives the capability booleans a ServerContext exposes
// to callers (e.g. to decide whether to offer compressed downloads)
// from the negotiated version/minor, per spec.md §3's feature list and
// §4.4's minor-gated extension table.
func featuresFor(version protocol.Version, minor protocol.Minor) q2proto.ServerFeatures {
	var f q2proto.ServerFeatures
	switch version {
	case protocol.VersionR1Q2:
		f.Deflate = true
		f.BeamOldOriginFix = minor >= protocol.MinorR1Q2LongSolid
	case protocol.VersionQ2PRO:
		f.Deflate = true
		f.BeamOldOriginFix = true
		f.ClientNumShort = minor >= protocol.MinorQ2PROClientnumShort
		f.RawCompressedDownloads = minor >= protocol.MinorQ2PROZlibDownloads
		f.ExtendedLimits = minor >= protocol.MinorQ2PROExtendedLimits
		f.ExtendedState = minor >= protocol.MinorQ2PROExtendedLimits
	case protocol.VersionQ2rePRO:
		f.Deflate = true
		f.BeamOldOriginFix = true
		f.ClientNumShort = true
		f.RawCompressedDownloads = true
		f.ExtendedLimits = true
		f.ExtendedState = true
	}
	return f
}
