// Package r1q2 implements the protocol 35 (Q2P_PROTOCOL_R1Q2) dialect:
// vanilla's wire format plus minor-negotiated extensions (spec.md §4.4)
// -- 32-bit "long solid" from minor 1905, batched usercmd deltas
// (ucmd) from minor 1904, deflate-compressed svc_zpacket/svc_zdownload
// bundles. R1Q2's own C sources were not present in the retrieval
// pack (only its public headers), so the extensions are grounded on
// spec.md §4.4's prose plus q2proto_proto_vanilla.c's confirmed
// baseline, which internal/dialect/common's Profile already
// generalizes over; see DESIGN.md.
package r1q2

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
	dialect.Register(protocol.VersionR1Q2, New())
}

// Codec implements dialect.Codec for R1Q2. Unlike vanilla.Codec, one
// Codec value serves every negotiated minor: dialect.Registry is keyed
// by protocol.Version alone, so the minor-dependent wire shape is
// derived per call from sc.Minor/cc.Minor (set by ContinueServerData/
// dialect.BindServer) rather than baked into the Codec at construction.
// The exception is PackSolid/UnpackSolid, whose interface carries no
// context to read a minor from; they assume minor >=
// protocol.MinorR1Q2LongSolid (protocol.MinorR1Q2Current already is
// 1905), matching how a real deployment always configures R1Q2 at its
// newest minor. See DESIGN.md.
type Codec struct {
	deflater *deflateio.Deflater
}

// New returns an R1Q2 Codec.
func New() *Codec {
	return &Codec{deflater: deflateio.New(0)}
}

func profileFor(minor protocol.Minor) common.Profile {
	return common.Profile{
		Version:   protocol.VersionR1Q2,
		Coords:    common.CoordShort,
		LongSolid: minor >= protocol.MinorR1Q2LongSolid,
	}
}

func (c *Codec) ContinueServerData(cc *q2proto.ClientContext, r bitio.Reader, out *message.ServerData) error {
	cc.ServerProtocol = protocol.VersionR1Q2
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

	enh, err := r.ReadU8()
	if err != nil {
		return err
	}
	out.R1Q2.Enhanced = enh != 0

	cc.Minor = protocol.Minor(pv)
	cc.BatchMove = cc.Minor >= protocol.MinorR1Q2UCmd
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
	case protocol.SvcZPacket:
		return c.readZPacket(cc, r)
	case protocol.SvcZDownload:
		return c.readZDownload(r)
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
	return nil, bitio.NewError(bitio.CodeBadCommand, nil, "r1q2: bad server command %d", cmd)
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
		return nil, bitio.NewError(bitio.CodeBadData, nil, "r1q2: expected playerinfo, got %d", playerInfoCmd)
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
		return nil, bitio.NewError(bitio.CodeBadData, nil, "r1q2: expected packetentities, got %d", packetEntitiesCmd)
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

// readZPacket inflates a svc_zpacket bundle and decodes every message
// it contains up front (via cc.ClientRead, so a bundled frame's
// trailing packetentities stream is handled exactly as it would be
// unbundled), queuing all but the first on cc.
func (c *Codec) readZPacket(cc *q2proto.ClientContext, r bitio.Reader) (message.ServerMessage, error) {
	length, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	compressed, err := r.ReadRaw(int(length))
	if err != nil {
		return nil, err
	}
	plain, err := c.deflater.Decompress(compressed)
	if err != nil {
		return nil, err
	}

	inner := bitio.NewBuffer(plain)
	var msgs []message.ServerMessage
	for inner.Remaining() > 0 {
		m, err := cc.ClientRead(inner)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if len(msgs) == 0 {
		return message.Nop{}, nil
	}
	cc.QueueMessages(msgs[1:])
	return msgs[0], nil
}

// readZDownload is svc_download whose payload arrives deflated.
func (c *Codec) readZDownload(r bitio.Reader) (message.ServerMessage, error) {
	m, err := common.ReadDownload(r)
	if err != nil {
		return nil, err
	}
	if m.Size < 0 || len(m.Data) == 0 {
		return m, nil
	}
	m.Data, err = c.deflater.Decompress(m.Data)
	return m, err
}

func (c *Codec) ServerRead(sc *q2proto.ServerContext, r bitio.Reader) (message.ClientMessage, error) {
	cmdByte, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	cmd := protocol.ClientCommand(cmdByte)

	if cmd == protocol.ClcMove {
		return c.readMove(sc, r)
	}

	msg, handled, err := common.DispatchClientCommand(cmd, r)
	if err != nil {
		return nil, err
	}
	if handled {
		return msg, nil
	}
	return nil, bitio.NewError(bitio.CodeBadCommand, nil, "r1q2: bad client command %d", cmd)
}

// readMove reads clc_move. From minor 1904 (ucmd), the usercmd batch
// size is variable and sent as a leading byte; before that, vanilla's
// fixed count of 3 still applies.
func (c *Codec) readMove(sc *q2proto.ServerContext, r bitio.Reader) (message.ClientMessage, error) {
	if sc.Minor >= protocol.MinorR1Q2UCmd {
		n, err := r.ReadU8()
		if err != nil {
			return message.Move{}, err
		}
		return common.ReadMove(r, int(n))
	}
	return common.ReadMove(r, 3)
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
	return bitio.NewError(bitio.CodeBadData, nil, "r1q2: cannot encode message of type %T", m)
}

func (c *Codec) writeServerData(sc *q2proto.ServerContext, w bitio.Writer, m message.ServerData) error {
	if err := common.WriteServerDataCommon(w, m); err != nil {
		return err
	}
	if err := w.WriteU16(m.ProtocolVer); err != nil {
		return err
	}
	sj := uint8(0)
	if m.StrafejumpHack {
		sj = 1
	}
	if err := w.WriteU8(sj); err != nil {
		return err
	}
	enh := uint8(0)
	if m.R1Q2.Enhanced {
		enh = 1
	}
	return w.WriteU8(enh)
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
	out.Protocol = int32(protocol.VersionR1Q2)
	out.ProtocolVer = uint16(sc.Minor)
	out.R1Q2.Enhanced = true
}

func (c *Codec) PackSolid(mins, maxs [3]float32) (uint32, error) {
	return protocol.PackSolid32(toVec64(mins), toVec64(maxs)), nil
}

func (c *Codec) UnpackSolid(packed uint32) (mins, maxs [3]float32, err error) {
	mins64, maxs64 := protocol.UnpackSolid32(packed)
	return toVec32(mins64), toVec32(maxs64), nil
}

func toVec64(v [3]float32) [3]float64 { return [3]float64{float64(v[0]), float64(v[1]), float64(v[2])} }
func toVec32(v [3]float64) [3]float32 { return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])} }
