package q2proto

import (
	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/gamestate"
	"github.com/kulaginds/q2proto-go/internal/message"
	"github.com/kulaginds/q2proto-go/internal/protocol"
)

// ServerCodec is the method set a dialect package's codec must supply
// to drive a ServerContext; see the comment on ClientCodec for why
// this package declares its own copy instead of importing
// internal/dialect.Codec.
type ServerCodec interface {
	ServerRead(sc *ServerContext, r bitio.Reader) (message.ClientMessage, error)
	ServerWrite(sc *ServerContext, w bitio.Writer, m message.ServerMessage) error
	WriteGamestate(sc *ServerContext, w bitio.Writer, gs *gamestate.Writer) error
	FillServerData(sc *ServerContext, out *message.ServerData)
	PackSolid(mins, maxs [3]float32) (uint32, error)
	UnpackSolid(packed uint32) (mins, maxs [3]float32, err error)
}

// ServerFeatures records the per-dialect/per-minor-version capability
// booleans spec.md §3 "Contexts" lists on the server context (beam
// old-origin fix, clientnum-as-short, deflate, raw-compressed
// downloads) plus the extended-limits gate from §6.4.
type ServerFeatures struct {
	BeamOldOriginFix       bool
	ClientNumShort         bool
	Deflate                bool
	RawCompressedDownloads bool
	ExtendedState          bool // 64-bit effects, per-component alpha/scale
	DamageBlend            bool
	ExtendedLimits         bool
}

// ServerContext is the per-connection state a server-side writer
// holds: the negotiated protocol/minor, the bound codec, and the
// feature booleans the codec consults when encoding (spec.md §3).
//
// Like ClientContext, a ServerContext is exclusively owned by its
// caller for the duration of any call on it (spec.md §5).
type ServerContext struct {
	Options  Options
	Protocol protocol.Version
	Minor    protocol.Minor
	Features ServerFeatures

	codec ServerCodec
}

// NewServerContext returns a ServerContext with no dialect bound yet;
// callers bind one via internal/dialect.BindServer after handshake
// negotiation has picked a protocol/minor.
func NewServerContext(opts Options) *ServerContext {
	return &ServerContext{Options: opts}
}

// SelectCodec binds codec as this context's dialect.
func (sc *ServerContext) SelectCodec(codec ServerCodec) { sc.codec = codec }

// Codec returns the bound codec, or nil if none has been selected yet.
func (sc *ServerContext) Codec() ServerCodec { return sc.codec }

func (sc *ServerContext) requireCodec() error {
	if sc.codec == nil {
		return bitio.NewError(bitio.CodeProtocolNotSupported, nil, "server context has no dialect selected")
	}
	return nil
}

// ServerRead reads one client-to-server message.
func (sc *ServerContext) ServerRead(r bitio.Reader) (message.ClientMessage, error) {
	if err := sc.requireCodec(); err != nil {
		return nil, err
	}
	return sc.codec.ServerRead(sc, r)
}

// ServerWrite writes one server-to-client message.
func (sc *ServerContext) ServerWrite(w bitio.Writer, m message.ServerMessage) error {
	if err := sc.requireCodec(); err != nil {
		return err
	}
	return sc.codec.ServerWrite(sc, w, m)
}

// WriteGamestate streams gs's remaining configstrings/baselines,
// returning bitio.ErrNotEnoughPacketSpace when w runs out of room
// (spec.md §4.5); the caller flushes w and calls again with the same
// gs to resume.
func (sc *ServerContext) WriteGamestate(w bitio.Writer, gs *gamestate.Writer) error {
	if err := sc.requireCodec(); err != nil {
		return err
	}
	return sc.codec.WriteGamestate(sc, w, gs)
}

// FillServerData populates out with this dialect's defaults, ahead of
// the caller overwriting the fields it cares about (spec.md §4.4
// fill_serverdata).
func (sc *ServerContext) FillServerData(out *message.ServerData) {
	if sc.codec == nil {
		return
	}
	sc.codec.FillServerData(sc, out)
}

// PackSolid/UnpackSolid delegate to the bound codec.
func (sc *ServerContext) PackSolid(mins, maxs [3]float32) (uint32, error) {
	if err := sc.requireCodec(); err != nil {
		return 0, err
	}
	return sc.codec.PackSolid(mins, maxs)
}

func (sc *ServerContext) UnpackSolid(packed uint32) (mins, maxs [3]float32, err error) {
	if err = sc.requireCodec(); err != nil {
		return mins, maxs, err
	}
	return sc.codec.UnpackSolid(packed)
}
