// Package q2pro implements the protocol 36 (Q2P_PROTOCOL_Q2PRO)
// dialect and its three extended-demo variants (1018, 1024, 1026):
// 32-bit solid at every minor, short angles from minor 1018, server-state echo
// from 1019, extended layout from 1020, zlib-compressed downloads from
// 1021, clientnum carried as part of the player state from 1022, and
// i23 coordinates plus the wider extended entity/player state (64-bit
// effects, per-component alpha/scale, 64-stat bitmask) from minor 1024
// (spec.md §4.4). None of Q2PRO's own C sources were present in the
// retrieval pack (only its public headers), so -- as with r1q2 -- the
// minor-gated extensions are grounded on spec.md §4.4's prose plus
// q2proto_proto_vanilla.c's confirmed baseline and the same per-call
// Profile derivation r1q2 established; see DESIGN.md.
package q2pro

import (
	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/deflateio"
	"github.com/kulaginds/q2proto-go/internal/dialect"
	"github.com/kulaginds/q2proto-go/internal/dialect/common"
	"github.com/kulaginds/q2proto-go/internal/gamestate"
	"github.com/kulaginds/q2proto-go/internal/message"
	"github.com/kulaginds/q2proto-go/internal/protocol"
	"github.com/kulaginds/q2proto-go/internal/q2proto"
)

func init() {
	dialect.Register(protocol.VersionQ2PRO, New())
	// The extended-demo variants are plain protocol numbers of their
	// own (spec.md §4.4 "Q2PRO extended demos"), not Q2PRO minors, so
	// each needs its own Registry entry; all three share Q2PRO's wire
	// format gated the same way a live minor >= their demo number
	// would be.
	dialect.Register(protocol.VersionQ2PROExtDemo, New())
	dialect.Register(protocol.VersionQ2PROExtDemo2, New())
	dialect.Register(protocol.VersionQ2PROExtDemoFog, New())
}

// Codec implements dialect.Codec for Q2PRO. As with r1q2.Codec, one
// value serves every negotiated minor; the wire shape is derived per
// call from sc.Minor/cc.Minor via profileFor. PackSolid/UnpackSolid
// carry no context to read a minor from, so -- like r1q2 -- they
// assume protocol.MinorQ2PROCurrent (Q2PRO has used 32-bit solid since
// its very first minor, unlike R1Q2, so this assumption is stricter
// than r1q2's only in name).
type Codec struct {
	deflater *deflateio.Deflater
}

// New returns a Q2PRO Codec.
func New() *Codec {
	return &Codec{deflater: deflateio.New(0)}
}

func profileFor(minor protocol.Minor) common.Profile {
	coords := common.CoordShort
	extended := false
	if minor >= protocol.MinorQ2PROExtendedLimits {
		coords = common.CoordI23
		extended = true
	}
	return common.Profile{
		Version:        protocol.VersionQ2PRO,
		Coords:         coords,
		ExtendedState:  extended,
		ClientNumShort: minor >= protocol.MinorQ2PROClientnumShort,
		LongSolid:      true,
		ShortAngles:    minor >= protocol.MinorQ2PROShortAngles,
	}
}

func (c *Codec) ContinueServerData(cc *q2proto.ClientContext, r bitio.Reader, out *message.ServerData) error {
	cc.ServerProtocol = protocol.VersionQ2PRO
	if err := common.ReadServerDataCommon(r, out); err != nil {
		return err
	}

	pv, err := r.ReadU16()
	if err != nil {
		return err
	}
	out.ProtocolVer = pv

	sj, err := r.ReadU8()
	if err != nil {
		return err
	}
	out.StrafejumpHack = sj != 0

	state, err := r.ReadU8()
	if err != nil {
		return err
	}
	out.Q2PRO.ServerState = state

	qw, err := r.ReadU8()
	if err != nil {
		return err
	}
	out.Q2PRO.QWMode = qw != 0

	wj, err := r.ReadU8()
	if err != nil {
		return err
	}
	out.Q2PRO.WaterjumpHack = wj != 0

	ext, err := r.ReadU8()
	if err != nil {
		return err
	}
	out.Q2PRO.Extensions = ext != 0

	if cc.Minor = protocol.Minor(pv); cc.Minor >= protocol.MinorQ2PROExtendedLimits2 {
		extV2, err := r.ReadU8()
		if err != nil {
			return err
		}
		out.Q2PRO.ExtensionsV2 = extV2 != 0
	}

	cc.BatchMove = true // Q2PRO batches usercmds from its very first minor
	cc.UserInfoDelta = true
	return nil
}

func (c *Codec) ClientRead(cc *q2proto.ClientContext, r bitio.Reader) (message.ServerMessage, error) {
	cmdByte, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	cmd := protocol.ServerCommand(cmdByte)

	switch cmd {
	case protocol.SvcFrame:
		return c.readFrame(cc, r)
	case protocol.SvcDownload:
		return c.readDownload(cc, r)
	case protocol.SvcSetting:
		return common.ReadSetting(r)
	}

	msg, handled, err := common.DispatchServerCommand(cmd, r, profileFor(cc.Minor))
	if err != nil {
		return nil, err
	}
	if handled {
		return msg, nil
	}
	return nil, bitio.NewError(bitio.CodeBadCommand, nil, "q2pro: bad server command %d", cmd)
}

// readDownload is svc_download, whose payload arrives deflated once
// the connection negotiated minor >= MinorQ2PROZlibDownloads (spec.md
// §4.4 "zlib downloads"); unlike R1Q2's svc_zdownload, Q2PRO reuses
// svc_download's own opcode for both the plain and compressed form, so
// the decision is made on the negotiated minor rather than on cmd.
func (c *Codec) readDownload(cc *q2proto.ClientContext, r bitio.Reader) (message.ServerMessage, error) {
	m, err := common.ReadDownload(r)
	if err != nil {
		return nil, err
	}
	if cc.Minor < protocol.MinorQ2PROZlibDownloads || m.Size < 0 || len(m.Data) == 0 {
		return m, nil
	}
	m.Data, err = c.deflater.Decompress(m.Data)
	return m, err
}

func (c *Codec) readFrame(cc *q2proto.ClientContext, r bitio.Reader) (message.ServerMessage, error) {
	var f message.Frame

	serverFrame, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	f.ServerFrame = int32(serverFrame)

	deltaFrame, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	f.DeltaFrame = int32(deltaFrame)

	flags, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	f.Q2PROFrameFlags = flags

	if f.SuppressCount, err = r.ReadU8(); err != nil {
		return nil, err
	}

	areaLen, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if f.AreaBits, err = r.ReadRaw(int(areaLen)); err != nil {
		return nil, err
	}

	playerInfoCmd, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if protocol.ServerCommand(playerInfoCmd) != protocol.SvcPlayerInfo {
		return nil, bitio.NewError(bitio.CodeBadData, nil, "q2pro: expected playerinfo, got %d", playerInfoCmd)
	}
	profile := profileFor(cc.Minor)
	f.PlayerState, err = common.ReadPlayerDelta(r, profile)
	if err != nil {
		return nil, err
	}

	packetEntitiesCmd, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if protocol.ServerCommand(packetEntitiesCmd) != protocol.SvcPacketEntities {
		return nil, bitio.NewError(bitio.CodeBadData, nil, "q2pro: expected packetentities, got %d", packetEntitiesCmd)
	}

	cc.EnterFrameEntities(func(r bitio.Reader) (message.ServerMessage, error) {
		entNum, remove, delta, err := common.ReadEntityDelta(r, profile)
		if err != nil {
			return nil, err
		}
		if entNum == 0 {
			cc.ExitFrameEntities()
		}
		return message.FrameEntityDelta{EntNum: entNum, Remove: remove, Delta: delta}, nil
	})

	return f, nil
}

func (c *Codec) ServerRead(sc *q2proto.ServerContext, r bitio.Reader) (message.ClientMessage, error) {
	cmdByte, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	cmd := protocol.ClientCommand(cmdByte)

	if cmd == protocol.ClcMove {
		return c.readMove(r)
	}

	msg, handled, err := common.DispatchClientCommand(cmd, r)
	if err != nil {
		return nil, err
	}
	if handled {
		return msg, nil
	}
	return nil, bitio.NewError(bitio.CodeBadCommand, nil, "q2pro: bad client command %d", cmd)
}

// readMove reads clc_move. Q2PRO has always batched usercmds behind a
// leading count byte, unlike vanilla/early R1Q2's fixed 3-command form.
func (c *Codec) readMove(r bitio.Reader) (message.ClientMessage, error) {
	n, err := r.ReadU8()
	if err != nil {
		return message.Move{}, err
	}
	return common.ReadMove(r, int(n))
}

func (c *Codec) ServerWrite(sc *q2proto.ServerContext, w bitio.Writer, m message.ServerMessage) error {
	switch v := m.(type) {
	case message.ServerData:
		return c.writeServerData(sc, w, v)
	case message.Frame:
		return c.writeFrame(sc, w, v)
	case message.FrameEntityDelta:
		return common.WriteEntityDelta(w, v.EntNum, v.Delta, profileFor(sc.Minor))
	case message.SpawnBaseline:
		return common.WriteEntityDeltaMessage(w, v, profileFor(sc.Minor))
	case message.Setting:
		if err := w.WriteU8(uint8(protocol.SvcSetting)); err != nil {
			return err
		}
		return common.WriteSetting(w, v)
	}

	handled, err := common.DispatchServerMessage(w, m)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}
	return bitio.NewError(bitio.CodeBadData, nil, "q2pro: cannot encode message of type %T", m)
}

func (c *Codec) writeServerData(sc *q2proto.ServerContext, w bitio.Writer, m message.ServerData) error {
	if err := common.WriteServerDataCommon(w, m); err != nil {
		return err
	}
	if err := w.WriteU16(m.ProtocolVer); err != nil {
		return err
	}
	if err := writeBool(w, m.StrafejumpHack); err != nil {
		return err
	}
	if err := w.WriteU8(m.Q2PRO.ServerState); err != nil {
		return err
	}
	if err := writeBool(w, m.Q2PRO.QWMode); err != nil {
		return err
	}
	if err := writeBool(w, m.Q2PRO.WaterjumpHack); err != nil {
		return err
	}
	if err := writeBool(w, m.Q2PRO.Extensions); err != nil {
		return err
	}
	if sc.Minor >= protocol.MinorQ2PROExtendedLimits2 {
		return writeBool(w, m.Q2PRO.ExtensionsV2)
	}
	return nil
}

func (c *Codec) writeFrame(sc *q2proto.ServerContext, w bitio.Writer, f message.Frame) error {
	if err := w.WriteU8(uint8(protocol.SvcFrame)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(f.ServerFrame)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(f.DeltaFrame)); err != nil {
		return err
	}
	if err := w.WriteU8(f.Q2PROFrameFlags); err != nil {
		return err
	}
	if err := w.WriteU8(f.SuppressCount); err != nil {
		return err
	}
	if err := w.WriteU8(uint8(len(f.AreaBits))); err != nil {
		return err
	}
	if _, err := w.WriteRaw(f.AreaBits); err != nil {
		return err
	}
	if err := w.WriteU8(uint8(protocol.SvcPlayerInfo)); err != nil {
		return err
	}
	if err := common.WritePlayerDelta(w, f.PlayerState, profileFor(sc.Minor)); err != nil {
		return err
	}
	return w.WriteU8(uint8(protocol.SvcPacketEntities))
}

func (c *Codec) WriteGamestate(sc *q2proto.ServerContext, w bitio.Writer, gs *gamestate.Writer) error {
	return common.DriveGamestate(w, gs)
}

// NewGamestateWriter builds a gamestate.Writer that encodes
// configstrings/baselines at minor's wire format.
func NewGamestateWriter(minor protocol.Minor, configStrings []gamestate.ConfigString, baselines []gamestate.Baseline) *gamestate.Writer {
	return gamestate.NewWriter(configStrings, baselines, common.NewGamestateItemWriter(profileFor(minor)))
}

func (c *Codec) FillServerData(sc *q2proto.ServerContext, out *message.ServerData) {
	out.Protocol = int32(protocol.VersionQ2PRO)
	out.ProtocolVer = uint16(sc.Minor)
	out.Q2PRO.ServerState = 1 // ss_game, the only state a freshly spawned connection reports
}

func (c *Codec) PackSolid(mins, maxs [3]float32) (uint32, error) {
	return protocol.PackSolid32(toVec64(mins), toVec64(maxs)), nil
}

func (c *Codec) UnpackSolid(packed uint32) (mins, maxs [3]float32, err error) {
	mins64, maxs64 := protocol.UnpackSolid32(packed)
	return toVec32(mins64), toVec32(maxs64), nil
}

func writeBool(w bitio.Writer, b bool) error {
	v := uint8(0)
	if b {
		v = 1
	}
	return w.WriteU8(v)
}

func toVec64(v [3]float32) [3]float64 { return [3]float64{float64(v[0]), float64(v[1]), float64(v[2])} }
func toVec32(v [3]float64) [3]float32 { return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])} }
