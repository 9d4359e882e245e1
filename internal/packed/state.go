// Package packed holds the dialect-agnostic "packed" entity and player
// state structs — the plain-integer snapshot a server takes of a game
// entity each frame. It holds only these data types: the functions that
// diff two snapshots into wire delta records are entity.MakeDelta and
// player.MakeDelta. Building a delta is I/O-free and has no dialect
// context: it is the same arithmetic regardless of which codec
// eventually serializes the result.
package packed

import "github.com/kulaginds/q2proto-go/internal/protocol"

// EntityState is a packed snapshot of one entity, in the same units
// the wire format uses (1/8-unit scaled origin, 16-bit scaled
// angles, ...).
type EntityState struct {
	ModelIndex, ModelIndex2, ModelIndex3, ModelIndex4 uint16
	Frame                                             uint16
	SkinNum                                           uint32
	Effects                                           uint64
	RenderFx                                          uint32
	Origin                                            [3]int32
	Angles                                            [3]int16
	OldOrigin                                         [3]int32
	Sound                                             uint16
	LoopVolume, LoopAttenuation                       uint8
	Event                                             uint8
	Solid                                             uint32
	Alpha, Scale                                      uint8
}

// PlayerState is a packed snapshot of one player's movement/view
// state.
type PlayerState struct {
	PMType                     uint8
	PMOrigin, PMVelocity       [3]int32
	PMTime, PMFlags            uint16
	PMGravity                  int16
	PMDeltaAngles              [3]int16
	ViewOffset                 [3]int8
	ViewAngles                 [3]int16
	KickAngles                 [3]int8
	GunIndex                   uint16
	GunFrame                   uint8
	GunOffset                  [3]int8
	GunAngles                  [3]int8
	Blend, DamageBlend         [4]uint8
	Fov, RdFlags               uint8
	Stats                      [protocol.MaxStats]int16
	ClientNum                  int16

	// ViewHeight, GunSkin and FogDensity/FogColor/FogSkyFactor are
	// Q2rePRO's rerelease-game player-state extras.
	ViewHeight                 int8
	GunSkin                    uint8
	FogDensity                 uint16
	FogColor                   [3]uint8
	FogSkyFactor               uint8
}
