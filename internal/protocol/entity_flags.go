package protocol

// EntityFlags is the "U_*" bit mask describing which fields of an
// entity-state delta are present on the wire. It is carried as 1-5
// bytes: byte 1 always present, each MOREBITSn bit gates reading one
// more byte (spec §4.2).
type EntityFlags uint64

const (
	UOrigin1   EntityFlags = 1 << 0
	UOrigin2   EntityFlags = 1 << 1
	UAngle2    EntityFlags = 1 << 2
	UAngle3    EntityFlags = 1 << 3
	UFrame8    EntityFlags = 1 << 4 // frame is a byte
	UEvent     EntityFlags = 1 << 5
	URemove    EntityFlags = 1 << 6 // remove this entity, don't add it
	UMoreBits1 EntityFlags = 1 << 7 // read one additional byte

	UNumber16  EntityFlags = 1 << 8 // NUMBER8 is implicit if not set
	UOrigin3   EntityFlags = 1 << 9
	UAngle1    EntityFlags = 1 << 10
	UModel     EntityFlags = 1 << 11
	URenderFx8 EntityFlags = 1 << 12
	UEffects8  EntityFlags = 1 << 14
	UMoreBits2 EntityFlags = 1 << 15

	USkin8      EntityFlags = 1 << 16
	UFrame16    EntityFlags = 1 << 17 // frame is a short
	URenderFx16 EntityFlags = 1 << 18
	UEffects16  EntityFlags = 1 << 19
	UModel2     EntityFlags = 1 << 20
	UModel3     EntityFlags = 1 << 21
	UModel4     EntityFlags = 1 << 22
	UMoreBits3  EntityFlags = 1 << 23

	UOldOrigin EntityFlags = 1 << 24
	USkin16    EntityFlags = 1 << 25
	USound     EntityFlags = 1 << 26
	USolid     EntityFlags = 1 << 27
	UModel16   EntityFlags = 1 << 28
	UMoreFx8   EntityFlags = 1 << 29
	UAlpha     EntityFlags = 1 << 30
	UMoreBits4 EntityFlags = 1 << 31

	UScale   EntityFlags = 1 << 32
	UMoreFx16 EntityFlags = 1 << 33

	USkin32     = USkin8 | USkin16     // used for laser colours
	UEffects32  = UEffects8 | UEffects16
	URenderFx32 = URenderFx8 | URenderFx16
	UMoreFx32   = UMoreFx8 | UMoreFx16
)

func (f EntityFlags) Has(bit EntityFlags) bool { return f&bit != 0 }
