package entity

import (
	"github.com/kulaginds/q2proto-go/internal/packed"
	"github.com/kulaginds/q2proto-go/internal/scalar"
)

// DeltaBits names which fields of an entity-state delta are present.
// Distinct from the wire entity-bit header (protocol.EntityFlags):
// this is the semantic field set a dialect codec maps onto its own
// wire bits, not the wire encoding itself.
type DeltaBits uint32

const (
	DeltaModelIndex       DeltaBits = 0x1
	DeltaModelIndex2      DeltaBits = 0x2
	DeltaModelIndex3      DeltaBits = 0x4
	DeltaModelIndex4      DeltaBits = 0x8
	DeltaFrame            DeltaBits = 0x10
	DeltaSkinNum          DeltaBits = 0x20
	// DeltaEffects and DeltaEffectsMore cover the low and high 32 bits
	// of the effects value; a writer that sets either must also
	// populate the matching delta.Effects/EffectsMore half. Either bit
	// may be set without the other.
	DeltaEffects          DeltaBits = 0x40
	DeltaEffectsMore      DeltaBits = 0x80
	DeltaRenderFx         DeltaBits = 0x100
	DeltaOldOrigin        DeltaBits = 0x200
	DeltaSound            DeltaBits = 0x400
	DeltaLoopAttenuation  DeltaBits = 0x800 // only applies if DeltaSound set
	DeltaLoopVolume       DeltaBits = 0x1000 // only applies if DeltaSound set
	DeltaEvent            DeltaBits = 0x2000
	DeltaSolid            DeltaBits = 0x4000
	DeltaAlpha            DeltaBits = 0x8000
	DeltaScale            DeltaBits = 0x10000
)

func (b DeltaBits) Has(bit DeltaBits) bool { return b&bit != 0 }

// StateDelta is the pure diff between two packed entity states.
type StateDelta struct {
	Bits DeltaBits

	Origin scalar.MaybeDiffCoord
	Angle  scalar.AngleDelta

	OldOrigin scalar.Coord

	SkinNum      uint32
	Frame        uint16
	Effects      uint64 // low 32 bits valid when Bits.Has(DeltaEffects)
	EffectsMore  uint32 // high 32 bits valid when Bits.Has(DeltaEffectsMore)
	RenderFx     uint32
	Solid        uint32
	Event        uint8
	ModelIndex   uint16
	ModelIndex2  uint16
	ModelIndex3  uint16
	ModelIndex4  uint16
	Sound        uint16
	LoopVolume   uint8
	LoopAttenuation uint8
	Alpha        uint8
	Scale        uint8
}

// MakeDelta builds the wire delta between from and to. from may be nil
// to diff against the implicit all-zero entity state used for the
// very first baseline. writeOldOrigin forces old_origin onto the wire
// even when it is unchanged (some dialects/message types always carry
// it); extendedState additionally considers loop_volume,
// loop_attenuation, alpha, scale and the high 32 bits of effects,
// which vanilla-derived dialects never transmit.
func MakeDelta(from, to *packed.EntityState, writeOldOrigin, extendedState bool) StateDelta {
	var zero packed.EntityState
	if from == nil {
		from = &zero
	}

	var d StateDelta

	var fromOrigin, toOrigin scalar.Coord
	for i := 0; i < 3; i++ {
		fromOrigin.SetInt(i, from.Origin[i])
		toOrigin.SetInt(i, to.Origin[i])
	}
	d.Origin = scalar.NewWriteMaybeDiffCoord(fromOrigin, toOrigin)

	var fromAngle, toAngle scalar.Angle
	for i := 0; i < 3; i++ {
		fromAngle.SetShort(i, from.Angles[i])
		toAngle.SetShort(i, to.Angles[i])
	}
	d.Angle = scalar.SetAngleDelta(&fromAngle, &toAngle)

	if writeOldOrigin {
		d.Bits |= DeltaOldOrigin
		var oldOrigin scalar.Coord
		for i := 0; i < 3; i++ {
			oldOrigin.SetInt(i, to.OldOrigin[i])
		}
		d.OldOrigin = oldOrigin
	}

	if to.SkinNum != from.SkinNum {
		d.Bits |= DeltaSkinNum
		d.SkinNum = to.SkinNum
	}

	if to.Frame != from.Frame {
		d.Bits |= DeltaFrame
		d.Frame = to.Frame
	}

	if to.Effects != from.Effects {
		if uint32(to.Effects) != uint32(from.Effects) {
			d.Bits |= DeltaEffects
		}
		if extendedState && (to.Effects>>32) != (from.Effects>>32) {
			d.Bits |= DeltaEffectsMore
		}
		if d.Bits.Has(DeltaEffects | DeltaEffectsMore) {
			d.Effects = to.Effects
			d.EffectsMore = uint32(to.Effects >> 32)
		}
	}

	if to.RenderFx != from.RenderFx {
		d.Bits |= DeltaRenderFx
		d.RenderFx = to.RenderFx
	}

	if to.Solid != from.Solid {
		d.Bits |= DeltaSolid
		d.Solid = to.Solid
	}

	// event is not delta-compressed, just zero-suppressed
	if to.Event != 0 {
		d.Bits |= DeltaEvent
		d.Event = to.Event
	}

	if to.ModelIndex != from.ModelIndex {
		d.Bits |= DeltaModelIndex
		d.ModelIndex = to.ModelIndex
	}
	if to.ModelIndex2 != from.ModelIndex2 {
		d.Bits |= DeltaModelIndex2
		d.ModelIndex2 = to.ModelIndex2
	}
	if to.ModelIndex3 != from.ModelIndex3 {
		d.Bits |= DeltaModelIndex3
		d.ModelIndex3 = to.ModelIndex3
	}
	if to.ModelIndex4 != from.ModelIndex4 {
		d.Bits |= DeltaModelIndex4
		d.ModelIndex4 = to.ModelIndex4
	}

	if to.Sound != from.Sound {
		d.Bits |= DeltaSound
		d.Sound = to.Sound
	}

	if extendedState {
		if to.LoopVolume != from.LoopVolume {
			d.Bits |= DeltaLoopVolume
			d.LoopVolume = to.LoopVolume
		}
		if to.LoopAttenuation != from.LoopAttenuation {
			d.Bits |= DeltaLoopAttenuation
			d.LoopAttenuation = to.LoopAttenuation
		}
		if to.Alpha != from.Alpha {
			d.Bits |= DeltaAlpha
			d.Alpha = to.Alpha
		}
		if to.Scale != from.Scale {
			d.Bits |= DeltaScale
			d.Scale = to.Scale
		}
	}

	return d
}
