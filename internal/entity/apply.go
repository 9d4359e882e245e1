package entity

import (
	"github.com/kulaginds/q2proto-go/internal/packed"
	"github.com/kulaginds/q2proto-go/internal/scalar"
)

// Apply writes delta onto dst (the previous frame's state for this
// entity, or the zero value for a brand-new entity), producing the
// next frame's packed state. Fields absent from the delta are left
// untouched, matching the wire semantics: a dialect reader only
// receives the bits that changed.
func (d *StateDelta) Apply(dst *packed.EntityState) {
	var origin [3]int32
	if d.Origin.HasWriteView {
		for i := 0; i < 3; i++ {
			origin[i] = d.Origin.Current.Int(i)
		}
	} else {
		var prevCoord scalar.Coord
		for i := 0; i < 3; i++ {
			prevCoord.SetInt(i, dst.Origin[i])
		}
		resolved := d.Origin.Resolve(&prevCoord)
		for i := 0; i < 3; i++ {
			origin[i] = resolved.Int(i)
		}
	}
	dst.Origin = origin

	for i := 0; i < 3; i++ {
		if d.Angle.Bits&(1<<uint(i)) != 0 {
			dst.Angles[i] = d.Angle.Angle.Short(i)
		}
	}

	if d.Bits.Has(DeltaOldOrigin) {
		for i := 0; i < 3; i++ {
			dst.OldOrigin[i] = d.OldOrigin.Int(i)
		}
	}
	if d.Bits.Has(DeltaSkinNum) {
		dst.SkinNum = d.SkinNum
	}
	if d.Bits.Has(DeltaFrame) {
		dst.Frame = d.Frame
	}
	if d.Bits.Has(DeltaEffects) {
		dst.Effects = dst.Effects&^0xffffffff | (d.Effects & 0xffffffff)
	}
	if d.Bits.Has(DeltaEffectsMore) {
		dst.Effects = dst.Effects&0xffffffff | uint64(d.EffectsMore)<<32
	}
	if d.Bits.Has(DeltaRenderFx) {
		dst.RenderFx = d.RenderFx
	}
	if d.Bits.Has(DeltaSolid) {
		dst.Solid = d.Solid
	}
	if d.Bits.Has(DeltaEvent) {
		dst.Event = d.Event
	} else {
		dst.Event = 0
	}
	if d.Bits.Has(DeltaModelIndex) {
		dst.ModelIndex = d.ModelIndex
	}
	if d.Bits.Has(DeltaModelIndex2) {
		dst.ModelIndex2 = d.ModelIndex2
	}
	if d.Bits.Has(DeltaModelIndex3) {
		dst.ModelIndex3 = d.ModelIndex3
	}
	if d.Bits.Has(DeltaModelIndex4) {
		dst.ModelIndex4 = d.ModelIndex4
	}
	if d.Bits.Has(DeltaSound) {
		dst.Sound = d.Sound
	}
	if d.Bits.Has(DeltaLoopVolume) {
		dst.LoopVolume = d.LoopVolume
	}
	if d.Bits.Has(DeltaLoopAttenuation) {
		dst.LoopAttenuation = d.LoopAttenuation
	}
	if d.Bits.Has(DeltaAlpha) {
		dst.Alpha = d.Alpha
	}
	if d.Bits.Has(DeltaScale) {
		dst.Scale = d.Scale
	}
}
