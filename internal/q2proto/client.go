package q2proto

import (
	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/message"
	"github.com/kulaginds/q2proto-go/internal/protocol"
)

// frameReader is the shape of ClientContext's swappable read state
// (spec.md §4.8): either "dispatch the next top-level message" or
// "read the next frame_entity_delta", selected by whichever dialect
// message last put the context into in-frame-entities mode.
type frameReader func(r bitio.Reader) (message.ServerMessage, error)

// ClientCodec is the method set a dialect package's codec must supply
// to drive a ClientContext. It is declared here, not imported from
// internal/dialect, specifically so this package never imports
// internal/dialect: dialect.Codec is defined over *ClientContext and
// *ServerContext, so dialect already depends on q2proto; a dependency
// the other way would be a cycle. Go interfaces are satisfied
// structurally, so any internal/dialect.Codec value -- whose methods
// are written in terms of these same q2proto types -- already
// implements ClientCodec without either package naming the other.
// internal/dialect.ContinueServerData (the only place that needs
// both) does the Registry lookup and hands the chosen codec to
// SelectCodec. See DESIGN.md for the full rationale.
type ClientCodec interface {
	ContinueServerData(cc *ClientContext, r bitio.Reader, out *message.ServerData) error
	ClientRead(cc *ClientContext, r bitio.Reader) (message.ServerMessage, error)
	PackSolid(mins, maxs [3]float32) (uint32, error)
	UnpackSolid(packed uint32) (mins, maxs [3]float32, err error)
}

// ClientContext is the per-connection state a client-side reader
// holds: which dialect was negotiated, the codec bound to it, and the
// swappable frame-entity read state (spec.md §3 "Contexts", §4.8).
// A fresh ClientContext has no codec and reads no message itself: the
// caller reads svc_serverdata's opcode and protocol number and calls
// dialect.ContinueServerData once to bind a codec. Until then
// ClientRead returns EXPECTED_SERVERDATA for every message, svc_stufftext
// included; afterwards it dispatches every message through the codec.
//
// Like the teacher's mcs.Protocol, a ClientContext is owned by a
// single goroutine for the duration of any call on it; it is not
// safe for concurrent use (spec.md §5).
type ClientContext struct {
	Options Options

	ServerProtocol protocol.Version
	Minor          protocol.Minor // R1Q2/Q2PRO: negotiated protocol_version
	BatchMove      bool           // R1Q2/Q2PRO: clc_move may batch several usercmd_t
	UserInfoDelta  bool           // Q2PRO: clc_userinfo_delta extension

	codec   ClientCodec
	reader  frameReader
	pending []message.ServerMessage
}

// NewClientContext returns a ClientContext with no dialect bound yet.
func NewClientContext(opts Options) *ClientContext {
	return &ClientContext{Options: opts}
}

// SelectCodec binds codec as this context's dialect and resets the
// read state to top-level dispatch. Called once by
// internal/dialect.ContinueServerData after the codec's own
// ContinueServerData has filled in the rest of the serverdata message.
func (cc *ClientContext) SelectCodec(codec ClientCodec) {
	cc.codec = codec
	cc.reader = cc.dispatch
}

// Codec returns the bound codec, or nil if none has been selected yet.
func (cc *ClientContext) Codec() ClientCodec { return cc.codec }

func (cc *ClientContext) dispatch(r bitio.Reader) (message.ServerMessage, error) {
	return cc.codec.ClientRead(cc, r)
}

// EnterFrameEntities switches the read state to next, used by a
// dialect's frame/packetentities handling to read a bounded run of
// frame_entity_delta messages (spec.md §4.8
// "in_frame_entities ──delta──→ in_frame_entities"). The dialect calls
// ExitFrameEntities once it reads the terminating entnum==0 delta.
func (cc *ClientContext) EnterFrameEntities(next frameReader) { cc.reader = next }

// ExitFrameEntities returns the read state to top-level dispatch.
func (cc *ClientContext) ExitFrameEntities() { cc.reader = cc.dispatch }

// ClientRead reads one message using whichever read state is current
// (top-level dispatch, or mid in_frame_entities). Calling it before a
// codec has been selected is a caller error: EXPECTED_SERVERDATA. A
// queued message (see QueueMessages) is drained before r is touched.
func (cc *ClientContext) ClientRead(r bitio.Reader) (message.ServerMessage, error) {
	if len(cc.pending) > 0 {
		m := cc.pending[0]
		cc.pending = cc.pending[1:]
		return m, nil
	}
	if cc.reader == nil {
		return nil, bitio.NewError(bitio.CodeExpectedServerData, nil, "client context has no dialect selected")
	}
	return cc.reader(r)
}

// QueueMessages appends msgs to be returned by subsequent ClientRead
// calls before anything is read from the wire. R1Q2's svc_zpacket (a
// whole compressed bundle of otherwise-ordinary messages) decodes every
// contained message up front and uses this to return them one at a
// time, the same interface ClientRead already exposes for everything
// else.
func (cc *ClientContext) QueueMessages(msgs []message.ServerMessage) {
	cc.pending = append(cc.pending, msgs...)
}

// PackSolid/UnpackSolid delegate to the bound codec (spec.md §4.4).
func (cc *ClientContext) PackSolid(mins, maxs [3]float32) (uint32, error) {
	return cc.codec.PackSolid(mins, maxs)
}

func (cc *ClientContext) UnpackSolid(packed uint32) (mins, maxs [3]float32, err error) {
	return cc.codec.UnpackSolid(packed)
}
