package protocol

// ServerCommand identifies a server-to-client message ID, common to
// every dialect (spec §6.2 lists the server-to-client `svc_*` set).
type ServerCommand uint8

const (
	SvcMuzzleflash  ServerCommand = 1
	SvcMuzzleflash2 ServerCommand = 2
	SvcTempEntity   ServerCommand = 3
	SvcLayout       ServerCommand = 4
	SvcInventory    ServerCommand = 5
	SvcNop          ServerCommand = 6
	SvcDisconnect   ServerCommand = 7
	SvcReconnect    ServerCommand = 8
	SvcSound        ServerCommand = 9
	SvcPrint        ServerCommand = 10
	SvcStuffText    ServerCommand = 11
	SvcServerData   ServerCommand = 12
	SvcConfigString ServerCommand = 13
	SvcSpawnBaseline ServerCommand = 14
	SvcCenterPrint  ServerCommand = 15
	SvcDownload     ServerCommand = 16
	SvcPlayerInfo   ServerCommand = 17
	SvcPacketEntities ServerCommand = 18
	SvcFrame        ServerCommand = 20

	// SvcSetting, SvcZPacket and SvcZDownload are R1Q2/Q2PRO-only
	// commands (spec.md §4.4: R1Q2's zpacket/zdownload, Q2PRO's
	// runtime setting exchange). None of the three dialects' own C
	// sources were present in the retrieval pack to read an exact
	// opcode number from (only their public headers, which don't
	// enumerate wire command IDs), so these continue the shared
	// svc_* enum's numbering past svc_frame.
	SvcZPacket   ServerCommand = 21
	SvcZDownload ServerCommand = 22
	SvcSetting   ServerCommand = 23
)

// ClientCommand identifies a client-to-server message ID.
type ClientCommand uint8

const (
	ClcBad        ClientCommand = 0
	ClcNop        ClientCommand = 1
	ClcMove       ClientCommand = 2
	ClcUserinfo   ClientCommand = 3
	ClcStringCmd  ClientCommand = 4

	// ClcSetting is Q2PRO's client-to-server runtime setting message,
	// numbered the same way as SvcSetting above.
	ClcSetting ClientCommand = 5
)

// SoundFlags are the bit flags on an svc_sound packet describing which
// optional fields follow.
type SoundFlags uint8

const (
	SoundVolume      SoundFlags = 1 << 0
	SoundAttenuation SoundFlags = 1 << 1
	SoundPos         SoundFlags = 1 << 2
	SoundEnt         SoundFlags = 1 << 3
	SoundOffset      SoundFlags = 1 << 4
)

func (f SoundFlags) HasVolume() bool      { return f&SoundVolume != 0 }
func (f SoundFlags) HasAttenuation() bool { return f&SoundAttenuation != 0 }
func (f SoundFlags) HasPos() bool         { return f&SoundPos != 0 }
func (f SoundFlags) HasEnt() bool         { return f&SoundEnt != 0 }
func (f SoundFlags) HasOffset() bool      { return f&SoundOffset != 0 }

// Default volume/attenuation when a sound packet omits them.
const (
	DefaultSoundPacketVolume      = 1.0
	DefaultSoundPacketAttenuation = 1.0
)

// MuzzleflashSilenced is ORed into a muzzleflash weapon index to mark
// it as silenced.
const MuzzleflashSilenced uint8 = 1 << 7

// ClientMoveFlags are the bit flags on a clc_move packet describing
// which fields of the usercmd follow.
type ClientMoveFlags uint8

const (
	MoveAngle1  ClientMoveFlags = 1 << 0
	MoveAngle2  ClientMoveFlags = 1 << 1
	MoveAngle3  ClientMoveFlags = 1 << 2
	MoveForward ClientMoveFlags = 1 << 3
	MoveSide    ClientMoveFlags = 1 << 4
	MoveUp      ClientMoveFlags = 1 << 5
	MoveButtons ClientMoveFlags = 1 << 6
	MoveImpulse ClientMoveFlags = 1 << 7
)
