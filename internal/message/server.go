// Package message holds the dialect-agnostic shape of every svc_*/clc_*
// message: plain Go structs carrying the fields spec.md describes,
// independent of how any particular dialect serializes them onto the
// wire. Dialects translate between these structs and bytes; nothing in
// this package does I/O.
package message

import (
	"github.com/kulaginds/q2proto-go/internal/entity"
	"github.com/kulaginds/q2proto-go/internal/player"
	"github.com/kulaginds/q2proto-go/internal/protocol"
	"github.com/kulaginds/q2proto-go/internal/scalar"
)

// ServerMessage is any message a dialect can produce from reading, or
// consume for writing, on the server-to-client direction. It is a
// sealed interface -- only types in this package implement it -- since
// the wire opcode for some of these (Setting) is dialect-specific
// rather than a single universal protocol.ServerCommand; dialects
// dispatch on the concrete Go type via a type switch rather than a
// common opcode accessor.
type ServerMessage interface {
	isServerMessage()
}

// Muzzleflash is a Q2P_SVC_MUZZLEFLASH/MUZZLEFLASH2 message.
type Muzzleflash struct {
	Monster  bool // MUZZLEFLASH2 vs MUZZLEFLASH
	Entity   int16
	Weapon   uint16
	Silenced bool
}

func (Muzzleflash) isServerMessage() {}

// Command returns the opcode for this message (SvcMuzzleflash or
// SvcMuzzleflash2 depending on Monster).
func (m Muzzleflash) Command() protocol.ServerCommand {
	if m.Monster {
		return protocol.SvcMuzzleflash2
	}
	return protocol.SvcMuzzleflash
}

// TempEntity is a Q2P_SVC_TEMP_ENTITY message. Which fields are
// meaningful depends on Type; see protocol.TempEntityType.
type TempEntity struct {
	Type                  protocol.TempEntityType
	Position1, Position2  [3]float64
	Offset                [3]float64
	// Direction indexes the shared unit-vector table (protocol.NumVertexNormals
	// entries); ValidateDirection checks it against that range.
	Direction uint8
	Count     uint8
	Color     uint8
	Entity1   int16
	Entity2   int16
	Time      int32
}

func (TempEntity) isServerMessage() {}

// ValidateDirection reports whether d indexes a valid table entry.
func ValidateDirection(d uint8) bool { return int(d) < protocol.NumVertexNormals }

// Layout is a Q2P_SVC_LAYOUT message.
type Layout struct{ Text string }

func (Layout) isServerMessage() {}

// Inventory is a Q2P_SVC_INVENTORY message.
type Inventory struct {
	Items [protocol.MaxInventoryItems]int16
}

func (Inventory) isServerMessage() {}

// Nop is a Q2P_SVC_NOP message; it carries no data.
type Nop struct{}

func (Nop) isServerMessage() {}

// Disconnect is a Q2P_SVC_DISCONNECT message; it carries no data.
type Disconnect struct{}

func (Disconnect) isServerMessage() {}

// Reconnect is a Q2P_SVC_RECONNECT message; it carries no data.
type Reconnect struct{}

func (Reconnect) isServerMessage() {}

// Sound is a Q2P_SVC_SOUND message.
type Sound struct {
	Flags       protocol.SoundFlags
	Index       uint16
	Volume      uint8
	Attenuation uint8
	TimeOfs     uint8
	Entity      uint16
	Channel     uint8
	Pos         scalar.Coord
}

func (Sound) isServerMessage() {}

// Print is a Q2P_SVC_PRINT message.
type Print struct {
	Level uint8
	Text  string
}

func (Print) isServerMessage() {}

// StuffText is a Q2P_SVC_STUFFTEXT message.
type StuffText struct{ Text string }

func (StuffText) isServerMessage() {}

// ServerData is a Q2P_SVC_SERVERDATA message, the first message a
// client reads after connecting.
type ServerData struct {
	Protocol       int32
	ServerCount    int32
	AttractLoop    bool
	GameDir        string
	ClientNum      int16
	LevelName      string
	ProtocolVer    uint16 // R1Q2, Q2PRO
	StrafejumpHack bool   // R1Q2, Q2PRO

	R1Q2 struct {
		Enhanced bool
	}
	Q2PRO struct {
		ServerState   uint8
		QWMode        bool
		WaterjumpHack bool
		Extensions    bool
		ExtensionsV2  bool
	}
}

func (ServerData) isServerMessage() {}

// ConfigString is a Q2P_SVC_CONFIGSTRING message.
type ConfigString struct {
	Index uint16
	Value string
}

func (ConfigString) isServerMessage() {}

// SpawnBaseline is a Q2P_SVC_SPAWNBASELINE message: a full entity-state
// delta against the implicit zero state (see entity.MakeDelta with
// from == nil).
type SpawnBaseline struct {
	EntNum uint16
	Delta  entity.StateDelta
}

func (SpawnBaseline) isServerMessage() {}

// CenterPrint is a Q2P_SVC_CENTERPRINT message.
type CenterPrint struct{ Text string }

func (CenterPrint) isServerMessage() {}

// Download is a single Q2P_SVC_DOWNLOAD chunk.
type Download struct {
	Size    int16 // -1 signals download failed/doesn't exist
	Percent uint8
	Data    []byte
}

func (Download) isServerMessage() {}

// Frame is a Q2P_SVC_FRAME message header; per-entity deltas are
// delivered as a following sequence of FrameEntityDelta pseudo-messages
// terminated by one with EntNum == 0, exactly as spec.md's frame/
// packetentities composite describes.
type Frame struct {
	ServerFrame     int32
	DeltaFrame      int32
	SuppressCount   uint8
	Q2PROFrameFlags uint8
	AreaBits        []byte
	PlayerState     player.StateDelta
}

func (Frame) isServerMessage() {}

// FrameEntityDelta is one entry of a frame's packetentities stream.
// EntNum == 0 marks the end of the sequence; Remove indicates the
// entity left the PVS (U_REMOVE) rather than carrying a delta.
type FrameEntityDelta struct {
	EntNum uint16
	Remove bool
	Delta  entity.StateDelta
}

func (FrameEntityDelta) isServerMessage() {}

// Setting is an R1Q2/Q2PRO Q2P_SVC_SETTING message (protocol.SvcSetting).
type Setting struct {
	Index int32
	Value int32
}

func (Setting) isServerMessage() {}
