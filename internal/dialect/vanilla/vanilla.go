// Package vanilla implements the protocol 34 (Q2P_PROTOCOL_VANILLA)
// and protocol 26 (Q2P_PROTOCOL_OLD_DEMO) dialect: the original
// release wire format, carrying none of R1Q2/Q2PRO's extensions. It is
// the baseline every other dialect in this module is a superset of,
// grounded directly on q2proto_proto_vanilla.c.
package vanilla

import (
	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/dialect"
	"github.com/kulaginds/q2proto-go/internal/dialect/common"
	"github.com/kulaginds/q2proto-go/internal/gamestate"
	"github.com/kulaginds/q2proto-go/internal/message"
	"github.com/kulaginds/q2proto-go/internal/protocol"
	"github.com/kulaginds/q2proto-go/internal/q2proto"
)

func init() {
	dialect.Register(protocol.VersionVanilla, New(protocol.VersionVanilla))
	dialect.Register(protocol.VersionOldDemo, New(protocol.VersionOldDemo))
}

// Codec implements dialect.Codec for vanilla and old-demo. The only
// difference between the two (besides the registered protocol number)
// is that old-demo frame messages omit the suppress_count byte --
// "BIG HACK to let old demos continue to work" per the source comment
// this reproduces in readFrame.
type Codec struct {
	profile common.Profile
}

// New returns a Codec for version, which must be
// protocol.VersionVanilla or protocol.VersionOldDemo.
func New(version protocol.Version) *Codec {
	return &Codec{profile: common.Profile{Version: version, Coords: common.CoordShort}}
}

func (c *Codec) ContinueServerData(cc *q2proto.ClientContext, r bitio.Reader, out *message.ServerData) error {
	cc.ServerProtocol = c.profile.Version
	return common.ReadServerDataCommon(r, out)
}

func (c *Codec) ClientRead(cc *q2proto.ClientContext, r bitio.Reader) (message.ServerMessage, error) {
	cmdByte, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	cmd := protocol.ServerCommand(cmdByte)

	if cmd == protocol.SvcFrame {
		return c.readFrame(cc, r)
	}

	msg, handled, err := common.DispatchServerCommand(cmd, r, c.profile)
	if err != nil {
		return nil, err
	}
	if handled {
		return msg, nil
	}
	return nil, bitio.NewError(bitio.CodeBadCommand, nil, "vanilla: bad server command %d", cmd)
}

// readFrame reads a svc_frame header, the nested svc_playerinfo
// player-state delta, and the svc_playerinfo/svc_packetentities
// command bytes that bracket it, then switches cc into
// frame-entity-delta mode for the packetentities stream that follows.
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

	if c.profile.Version != protocol.VersionOldDemo {
		if f.SuppressCount, err = r.ReadU8(); err != nil {
			return nil, err
		}
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
		return nil, bitio.NewError(bitio.CodeBadData, nil, "vanilla: expected playerinfo, got %d", playerInfoCmd)
	}
	f.PlayerState, err = common.ReadPlayerDelta(r, c.profile)
	if err != nil {
		return nil, err
	}

	packetEntitiesCmd, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if protocol.ServerCommand(packetEntitiesCmd) != protocol.SvcPacketEntities {
		return nil, bitio.NewError(bitio.CodeBadData, nil, "vanilla: expected packetentities, got %d", packetEntitiesCmd)
	}

	profile := c.profile
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
	return nil, bitio.NewError(bitio.CodeBadCommand, nil, "vanilla: bad client command %d", cmd)
}

// readMove reads vanilla's fixed 3-usercmd clc_move (the client always
// resends the last 3 frames' commands for loss tolerance; R1Q2/Q2PRO
// replace this with a variable-length batch, see their own readMove).
func (c *Codec) readMove(r bitio.Reader) (message.ClientMessage, error) {
	return common.ReadMove(r, 3)
}

func (c *Codec) ServerWrite(sc *q2proto.ServerContext, w bitio.Writer, m message.ServerMessage) error {
	switch v := m.(type) {
	case message.ServerData:
		return c.writeServerData(w, v)
	case message.Frame:
		return c.writeFrame(w, v)
	case message.FrameEntityDelta:
		return common.WriteEntityDelta(w, v.EntNum, v.Delta, c.profile)
	case message.SpawnBaseline:
		return common.WriteEntityDeltaMessage(w, v, c.profile)
	}

	handled, err := common.DispatchServerMessage(w, m)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}
	return bitio.NewError(bitio.CodeBadData, nil, "vanilla: cannot encode message of type %T", m)
}

func (c *Codec) writeServerData(w bitio.Writer, m message.ServerData) error {
	return common.WriteServerDataCommon(w, m)
}

func (c *Codec) writeFrame(w bitio.Writer, f message.Frame) error {
	if err := w.WriteU8(uint8(protocol.SvcFrame)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(f.ServerFrame)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(f.DeltaFrame)); err != nil {
		return err
	}
	if c.profile.Version != protocol.VersionOldDemo {
		if err := w.WriteU8(f.SuppressCount); err != nil {
			return err
		}
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
	if err := common.WritePlayerDelta(w, f.PlayerState, c.profile); err != nil {
		return err
	}
	return w.WriteU8(uint8(protocol.SvcPacketEntities))
}

func (c *Codec) WriteGamestate(sc *q2proto.ServerContext, w bitio.Writer, gs *gamestate.Writer) error {
	return common.DriveGamestate(w, gs)
}

// NewGamestateWriter builds a gamestate.Writer that encodes
// configstrings/baselines in vanilla's wire format.
func NewGamestateWriter(configStrings []gamestate.ConfigString, baselines []gamestate.Baseline) *gamestate.Writer {
	return gamestate.NewWriter(configStrings, baselines, common.NewGamestateItemWriter(common.Profile{Coords: common.CoordShort}))
}

func (c *Codec) FillServerData(sc *q2proto.ServerContext, out *message.ServerData) {
	out.Protocol = int32(c.profile.Version)
}

func (c *Codec) PackSolid(mins, maxs [3]float32) (uint32, error) {
	return uint32(protocol.PackSolid16(toVec64(mins), toVec64(maxs))), nil
}

func (c *Codec) UnpackSolid(packed uint32) (mins, maxs [3]float32, err error) {
	mins64, maxs64 := protocol.UnpackSolid16(uint16(packed))
	return toVec32(mins64), toVec32(maxs64), nil
}

func toVec64(v [3]float32) [3]float64 { return [3]float64{float64(v[0]), float64(v[1]), float64(v[2])} }
func toVec32(v [3]float64) [3]float32 { return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])} }
