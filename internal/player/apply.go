package player

import (
	"github.com/kulaginds/q2proto-go/internal/packed"
	"github.com/kulaginds/q2proto-go/internal/scalar"
)

func resolveMaybeDiffInts(m *scalar.MaybeDiffCoord, prev [3]int32) [3]int32 {
	if m.HasWriteView {
		var out [3]int32
		for i := 0; i < 3; i++ {
			out[i] = m.Current.Int(i)
		}
		return out
	}
	var prevCoord scalar.Coord
	for i := 0; i < 3; i++ {
		prevCoord.SetInt(i, prev[i])
	}
	resolved := m.Resolve(&prevCoord)
	var out [3]int32
	for i := 0; i < 3; i++ {
		out[i] = resolved.Int(i)
	}
	return out
}

// Apply writes delta onto dst (the previous frame's player state, or
// the zero value for a client's first frame), producing the next
// frame's packed state.
func (d *StateDelta) Apply(dst *packed.PlayerState) {
	dst.PMOrigin = resolveMaybeDiffInts(&d.PMOrigin, dst.PMOrigin)
	dst.PMVelocity = resolveMaybeDiffInts(&d.PMVelocity, dst.PMVelocity)

	if d.Bits.Has(DeltaPMType) {
		dst.PMType = d.PMType
	}
	if d.Bits.Has(DeltaPMTime) {
		dst.PMTime = d.PMTime
	}
	if d.Bits.Has(DeltaPMFlags) {
		dst.PMFlags = d.PMFlags
	}
	if d.Bits.Has(DeltaPMGravity) {
		dst.PMGravity = d.PMGravity
	}
	if d.Bits.Has(DeltaPMDeltaAngles) {
		for i := 0; i < 3; i++ {
			dst.PMDeltaAngles[i] = d.PMDeltaAngles.Short(i)
		}
	}

	if d.Bits.Has(DeltaViewOffset) {
		for i := 0; i < 3; i++ {
			dst.ViewOffset[i] = d.ViewOffset.Char(i)
		}
	}

	for i := 0; i < 3; i++ {
		if d.ViewAngles.Bits&(1<<uint(i)) != 0 {
			dst.ViewAngles[i] = d.ViewAngles.Angle.Short(i)
		}
	}

	if d.Bits.Has(DeltaKickAngles) {
		for i := 0; i < 3; i++ {
			dst.KickAngles[i] = d.KickAngles.Char(i)
		}
	}

	for i := 0; i < 4; i++ {
		if d.Blend.Bits&(1<<uint(i)) != 0 {
			dst.Blend[i] = d.Blend.Colour.Byte(i)
		}
		if d.DamageBlend.Bits&(1<<uint(i)) != 0 {
			dst.DamageBlend[i] = d.DamageBlend.Colour.Byte(i)
		}
	}

	if d.Bits.Has(DeltaFov) {
		dst.Fov = d.Fov
	}
	if d.Bits.Has(DeltaRdFlags) {
		dst.RdFlags = d.RdFlags
	}

	if d.Bits.Has(DeltaGunFrame | DeltaGunOffset | DeltaGunAngles) {
		if d.Bits.Has(DeltaGunFrame) {
			dst.GunFrame = d.GunFrame
		}
		for i := 0; i < 3; i++ {
			dst.GunOffset[i] = d.GunOffset.Char(i)
			dst.GunAngles[i] = d.GunAngles.Char(i)
		}
	}

	if d.Bits.Has(DeltaGunIndex) {
		dst.GunIndex = d.GunIndex
	}

	if d.Bits.Has(DeltaClientNum) {
		dst.ClientNum = d.ClientNum
	}

	if d.Bits.Has(DeltaViewHeight) {
		dst.ViewHeight = d.ViewHeight
	}
	if d.Bits.Has(DeltaGunSkin) {
		dst.GunSkin = d.GunSkin
	}
	if d.Bits.Has(DeltaFog) {
		dst.FogDensity = d.FogDensity
		dst.FogColor = d.FogColor
		dst.FogSkyFactor = d.FogSkyFactor
	}

	for i := 0; i < len(dst.Stats); i++ {
		if d.StatBits&(1<<uint(i)) != 0 {
			dst.Stats[i] = d.Stats[i]
		}
	}
}
