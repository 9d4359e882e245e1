package common

import (
	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/entity"
	"github.com/kulaginds/q2proto-go/internal/gamestate"
	"github.com/kulaginds/q2proto-go/internal/message"
	"github.com/kulaginds/q2proto-go/internal/protocol"
)

// DispatchServerCommand decodes the body of one server-to-client
// message whose wire shape is identical across every dialect. Frame,
// ServerData and any dialect-specific opcode (Setting, zpacket,
// batchmove, gamestate chunks) are NOT covered here -- handled == false
// tells the caller to fall back to its own per-dialect handling for
// cmd.
func DispatchServerCommand(cmd protocol.ServerCommand, r bitio.Reader, p Profile) (msg message.ServerMessage, handled bool, err error) {
	switch cmd {
	case protocol.SvcMuzzleflash:
		msg, err = ReadMuzzleflash(r, false)
	case protocol.SvcMuzzleflash2:
		msg, err = ReadMuzzleflash(r, true)
	case protocol.SvcTempEntity:
		msg, err = ReadTempEntity(r)
	case protocol.SvcLayout:
		msg, err = ReadLayout(r)
	case protocol.SvcInventory:
		msg, err = ReadInventory(r)
	case protocol.SvcNop:
		msg, err = message.Nop{}, nil
	case protocol.SvcDisconnect:
		msg, err = message.Disconnect{}, nil
	case protocol.SvcReconnect:
		msg, err = message.Reconnect{}, nil
	case protocol.SvcSound:
		msg, err = ReadSound(r)
	case protocol.SvcPrint:
		msg, err = ReadPrint(r)
	case protocol.SvcStuffText:
		msg, err = ReadStuffText(r)
	case protocol.SvcConfigString:
		msg, err = ReadConfigString(r)
	case protocol.SvcSpawnBaseline:
		var entNum uint16
		var d entity.StateDelta
		entNum, _, d, err = ReadEntityDelta(r, p)
		msg = message.SpawnBaseline{EntNum: entNum, Delta: d}
	case protocol.SvcCenterPrint:
		msg, err = ReadCenterPrint(r)
	case protocol.SvcDownload:
		msg, err = ReadDownload(r)
	default:
		return nil, false, nil
	}
	return msg, true, err
}

// DispatchServerMessage writes one server-to-client message whose wire
// shape is identical across every dialect, opcode included. Frame,
// ServerData, Setting, SpawnBaseline (needs the caller's Profile; use
// WriteEntityDeltaMessage) and FrameEntityDelta (written header-chain-
// only, with no opcode of their own) are NOT covered -- handled ==
// false tells the caller to encode m itself.
func DispatchServerMessage(w bitio.Writer, m message.ServerMessage) (handled bool, err error) {
	switch v := m.(type) {
	case message.Muzzleflash:
		if err = w.WriteU8(uint8(v.Command())); err != nil {
			return true, err
		}
		return true, WriteMuzzleflash(w, v)
	case message.TempEntity:
		if err = w.WriteU8(uint8(protocol.SvcTempEntity)); err != nil {
			return true, err
		}
		return true, WriteTempEntity(w, v)
	case message.Layout:
		if err = w.WriteU8(uint8(protocol.SvcLayout)); err != nil {
			return true, err
		}
		return true, WriteLayout(w, v)
	case message.Inventory:
		if err = w.WriteU8(uint8(protocol.SvcInventory)); err != nil {
			return true, err
		}
		return true, WriteInventory(w, v)
	case message.Nop:
		return true, w.WriteU8(uint8(protocol.SvcNop))
	case message.Disconnect:
		return true, w.WriteU8(uint8(protocol.SvcDisconnect))
	case message.Reconnect:
		return true, w.WriteU8(uint8(protocol.SvcReconnect))
	case message.Sound:
		if err = w.WriteU8(uint8(protocol.SvcSound)); err != nil {
			return true, err
		}
		return true, WriteSound(w, v)
	case message.Print:
		if err = w.WriteU8(uint8(protocol.SvcPrint)); err != nil {
			return true, err
		}
		return true, WritePrint(w, v)
	case message.StuffText:
		if err = w.WriteU8(uint8(protocol.SvcStuffText)); err != nil {
			return true, err
		}
		return true, WriteStuffText(w, v)
	case message.ConfigString:
		if err = w.WriteU8(uint8(protocol.SvcConfigString)); err != nil {
			return true, err
		}
		return true, WriteConfigString(w, v)
	case message.CenterPrint:
		if err = w.WriteU8(uint8(protocol.SvcCenterPrint)); err != nil {
			return true, err
		}
		return true, WriteCenterPrint(w, v)
	case message.Download:
		if err = w.WriteU8(uint8(protocol.SvcDownload)); err != nil {
			return true, err
		}
		return true, WriteDownload(w, v)
	default:
		return false, nil
	}
}

// WriteEntityDeltaMessage writes a SpawnBaseline with the caller's
// Profile; dialects use this directly instead of DispatchServerMessage
// for SpawnBaseline so the right Profile (coordinate mode, extended
// state) is honoured.
func WriteEntityDeltaMessage(w bitio.Writer, m message.SpawnBaseline, p Profile) error {
	if err := w.WriteU8(uint8(protocol.SvcSpawnBaseline)); err != nil {
		return err
	}
	return WriteEntityDelta(w, m.EntNum, m.Delta, p)
}

// DriveGamestate advances gs, writing items to w until it reports Done
// or w runs out of room (bitio.ErrNotEnoughPacketSpace, per spec.md
// §4.5's resumable-gamestate contract); every dialect's WriteGamestate
// is exactly this loop, since gs already carries the dialect-specific
// ItemWriter bound when it was constructed.
func DriveGamestate(w bitio.Writer, gs *gamestate.Writer) error {
	for {
		outcome, err := gs.Next(w)
		if err != nil {
			return err
		}
		if outcome == gamestate.Done {
			return nil
		}
	}
}

// NewGamestateItemWriter returns the ItemWriter a dialect passes to
// gamestate.NewWriter: it writes exactly one configstring or baseline,
// encoded with p's coordinate mode/extended-state gate, and propagates
// bitio.ErrNotEnoughPacketSpace without writing a partial item (the
// item is encoded into a scratch Buffer capped at w.Available() and
// copied onto w only once it is complete, so a failure on any field of
// the item leaves w untouched).
func NewGamestateItemWriter(p Profile) gamestate.ItemWriter {
	return func(w bitio.Writer, cs *gamestate.ConfigString, bl *gamestate.Baseline) error {
		avail := w.Available()
		if avail <= 0 {
			return bitio.ErrNotEnoughPacketSpace
		}
		item := bitio.NewWriteBuffer(avail)
		if cs != nil {
			if err := item.WriteU8(uint8(protocol.SvcConfigString)); err != nil {
				return err
			}
			if err := WriteConfigString(item, message.ConfigString{Index: cs.Index, Value: cs.Value}); err != nil {
				return err
			}
		} else {
			delta := entity.MakeDelta(nil, &bl.State, false, p.ExtendedState)
			if err := WriteEntityDeltaMessage(item, message.SpawnBaseline{EntNum: bl.EntNum, Delta: delta}, p); err != nil {
				return err
			}
		}
		_, err := w.WriteRaw(item.Bytes())
		return err
	}
}
