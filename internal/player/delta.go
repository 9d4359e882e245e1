// Package player implements the player-state delta: the pure diff
// between two packed.PlayerState snapshots consumed by dialects when
// building a frame message, mirroring internal/entity's treatment of
// entity states.
package player

import (
	"github.com/kulaginds/q2proto-go/internal/packed"
	"github.com/kulaginds/q2proto-go/internal/scalar"
)

// DeltaBits names which fields of a player-state delta are present.
// Distinct from protocol.PlayerFlags (the wire PS_* header bits a
// dialect codec maps these onto).
type DeltaBits uint32

const (
	DeltaPMType        DeltaBits = 0x1
	DeltaPMTime        DeltaBits = 0x2
	DeltaPMFlags       DeltaBits = 0x4
	DeltaPMGravity     DeltaBits = 0x8
	DeltaPMDeltaAngles DeltaBits = 0x10
	DeltaViewOffset    DeltaBits = 0x20
	DeltaKickAngles    DeltaBits = 0x40
	DeltaGunIndex      DeltaBits = 0x80
	// DeltaGunFrame/DeltaGunOffset/DeltaGunAngles: due to differing
	// transmit granularity across dialects, setting just one of these
	// three bits requires all three fields to be carried on the wire
	// -- MakeDelta always populates gunframe/gunoffset/gunangles
	// together whenever any of the three changed.
	DeltaGunFrame   DeltaBits = 0x100
	DeltaGunOffset  DeltaBits = 0x200
	DeltaGunAngles  DeltaBits = 0x400
	DeltaFov        DeltaBits = 0x800
	DeltaRdFlags    DeltaBits = 0x1000
	DeltaClientNum  DeltaBits = 0x2000

	// DeltaViewHeight/DeltaGunSkin/DeltaFog: Q2rePRO rerelease extras.
	DeltaViewHeight DeltaBits = 0x4000
	DeltaGunSkin    DeltaBits = 0x8000
	DeltaFog        DeltaBits = 0x10000
)

func (b DeltaBits) Has(bit DeltaBits) bool { return b&bit != 0 }

// StateDelta is the pure diff between two packed player states.
type StateDelta struct {
	Bits DeltaBits

	PMType        uint8
	PMOrigin      scalar.MaybeDiffCoord
	PMVelocity    scalar.MaybeDiffCoord
	PMTime        uint16
	PMFlags       uint16
	PMGravity     int16
	PMDeltaAngles scalar.Angle

	ViewOffset scalar.SmallOffset
	ViewAngles scalar.AngleDelta
	KickAngles scalar.SmallAngle

	GunIndex   uint16
	GunFrame   uint8
	GunOffset  scalar.SmallOffset
	GunAngles  scalar.SmallAngle

	Blend       scalar.ColourDelta
	DamageBlend scalar.ColourDelta

	Fov, RdFlags uint8
	ClientNum    int16

	StatBits uint64
	Stats    [64]int16

	ViewHeight   int8
	GunSkin      uint8
	FogDensity   uint16
	FogColor     [3]uint8
	FogSkyFactor uint8
}

// MakeDelta builds the wire delta between from and to. from may be nil
// to diff against the implicit all-zero player state used for a
// client's very first frame. writeClientNum forces clientnum onto the
// wire even when unchanged, damageBlendSupported gates the separate
// damage-blend colour (Q2PRO-extended-v2 and later), fogSupported
// gates playerfog (Q2PRO-extended-v2+playerfog and Q2rePRO), and
// rereleaseExtras gates Q2rePRO's own viewheight/gunskin fields.
func MakeDelta(from, to *packed.PlayerState, writeClientNum, damageBlendSupported, fogSupported, rereleaseExtras bool) StateDelta {
	var zero packed.PlayerState
	if from == nil {
		from = &zero
	}

	var d StateDelta

	if to.PMType != from.PMType {
		d.Bits |= DeltaPMType
		d.PMType = to.PMType
	}

	var fromOrigin, toOrigin scalar.Coord
	var fromVelocity, toVelocity scalar.Coord
	for i := 0; i < 3; i++ {
		fromOrigin.SetInt(i, from.PMOrigin[i])
		toOrigin.SetInt(i, to.PMOrigin[i])
		fromVelocity.SetInt(i, from.PMVelocity[i])
		toVelocity.SetInt(i, to.PMVelocity[i])
	}
	d.PMOrigin = scalar.NewWriteMaybeDiffCoord(fromOrigin, toOrigin)
	d.PMVelocity = scalar.NewWriteMaybeDiffCoord(fromVelocity, toVelocity)

	if to.PMTime != from.PMTime {
		d.Bits |= DeltaPMTime
		d.PMTime = to.PMTime
	}
	if to.PMFlags != from.PMFlags {
		d.Bits |= DeltaPMFlags
		d.PMFlags = to.PMFlags
	}
	if to.PMGravity != from.PMGravity {
		d.Bits |= DeltaPMGravity
		d.PMGravity = to.PMGravity
	}

	if to.PMDeltaAngles != from.PMDeltaAngles {
		d.Bits |= DeltaPMDeltaAngles
		for i := 0; i < 3; i++ {
			d.PMDeltaAngles.SetShort(i, to.PMDeltaAngles[i])
		}
	}

	if to.ViewOffset != from.ViewOffset {
		d.Bits |= DeltaViewOffset
		for i := 0; i < 3; i++ {
			d.ViewOffset.SetChar(i, to.ViewOffset[i])
		}
	}

	var fromViewAngle, toViewAngle scalar.Angle
	for i := 0; i < 3; i++ {
		fromViewAngle.SetShort(i, from.ViewAngles[i])
		toViewAngle.SetShort(i, to.ViewAngles[i])
	}
	d.ViewAngles = scalar.SetAngleDelta(&fromViewAngle, &toViewAngle)

	if to.KickAngles != from.KickAngles {
		d.Bits |= DeltaKickAngles
		for i := 0; i < 3; i++ {
			d.KickAngles.SetChar(i, to.KickAngles[i])
		}
	}

	var fromBlend, toBlend scalar.Blend
	for i := 0; i < 4; i++ {
		fromBlend.SetByte(i, from.Blend[i])
		toBlend.SetByte(i, to.Blend[i])
	}
	d.Blend = scalar.SetColourDelta(&fromBlend, &toBlend)

	if damageBlendSupported {
		var fromDamage, toDamage scalar.Blend
		for i := 0; i < 4; i++ {
			fromDamage.SetByte(i, from.DamageBlend[i])
			toDamage.SetByte(i, to.DamageBlend[i])
		}
		d.DamageBlend = scalar.SetColourDelta(&fromDamage, &toDamage)
	}

	if to.Fov != from.Fov {
		d.Bits |= DeltaFov
		d.Fov = to.Fov
	}
	if to.RdFlags != from.RdFlags {
		d.Bits |= DeltaRdFlags
		d.RdFlags = to.RdFlags
	}

	gunFrameChanged := to.GunFrame != from.GunFrame
	gunOffsetChanged := to.GunOffset != from.GunOffset
	gunAnglesChanged := to.GunAngles != from.GunAngles
	if gunFrameChanged {
		d.Bits |= DeltaGunFrame
	}
	if gunOffsetChanged {
		d.Bits |= DeltaGunOffset
	}
	if gunAnglesChanged {
		d.Bits |= DeltaGunAngles
	}
	if gunFrameChanged || gunOffsetChanged || gunAnglesChanged {
		d.GunFrame = to.GunFrame
		for i := 0; i < 3; i++ {
			d.GunOffset.SetChar(i, to.GunOffset[i])
			d.GunAngles.SetChar(i, to.GunAngles[i])
		}
	}

	if to.GunIndex != from.GunIndex {
		d.Bits |= DeltaGunIndex
		d.GunIndex = to.GunIndex
	}

	if writeClientNum {
		d.Bits |= DeltaClientNum
		d.ClientNum = to.ClientNum
	}

	if rereleaseExtras {
		if to.ViewHeight != from.ViewHeight {
			d.Bits |= DeltaViewHeight
			d.ViewHeight = to.ViewHeight
		}
		if to.GunSkin != from.GunSkin {
			d.Bits |= DeltaGunSkin
			d.GunSkin = to.GunSkin
		}
	}
	if fogSupported {
		if to.FogDensity != from.FogDensity || to.FogColor != from.FogColor || to.FogSkyFactor != from.FogSkyFactor {
			d.Bits |= DeltaFog
			d.FogDensity = to.FogDensity
			d.FogColor = to.FogColor
			d.FogSkyFactor = to.FogSkyFactor
		}
	}

	for i := 0; i < len(to.Stats); i++ {
		if to.Stats[i] != from.Stats[i] {
			d.StatBits |= 1 << uint(i)
			d.Stats[i] = to.Stats[i]
		}
	}

	return d
}
