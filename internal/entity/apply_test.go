package entity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kulaginds/q2proto-go/internal/packed"
)

func TestApplyWriteViewOriginIgnoresPriorDst(t *testing.T) {
	from := &packed.EntityState{Origin: [3]int32{0, 0, 0}}
	to := &packed.EntityState{Origin: [3]int32{800, -400, 128}}

	d := MakeDelta(from, to, false, false)
	require.True(t, d.Origin.HasWriteView)

	dst := &packed.EntityState{Origin: [3]int32{9999, 9999, 9999}}
	d.Apply(dst)
	require.Equal(t, to.Origin, dst.Origin)
}

func TestApplyReadViewResolvesAgainstDst(t *testing.T) {
	// a read-view delta adds component i onto the previous frame's
	// value where DiffBits has that bit set, and overwrites it where
	// the bit is clear -- only components whose Delta.Bits bit is also
	// set are touched at all; the rest of dst.Origin survives as-is.
	var d StateDelta
	d.Origin.HasWriteView = false
	d.Origin.DiffBits = 0x1 // component 0 is relative, 1 and 2 are absolute
	d.Origin.Delta.Bits = 0x1 | 0x4
	d.Origin.Delta.Coord.SetInt(0, 16)  // +2 world units (16 eighths), added
	d.Origin.Delta.Coord.SetInt(2, 240) // 30 world units, overwritten absolute

	dst := &packed.EntityState{Origin: [3]int32{800, 400, 200}}
	d.Apply(dst)

	require.Equal(t, int32(816), dst.Origin[0]) // 800 + 16, added (diff bit set)
	require.Equal(t, int32(400), dst.Origin[1]) // untouched: no diff, no delta bit
	require.Equal(t, int32(240), dst.Origin[2]) // overwritten (diff bit clear, delta bit set)
}

func TestApplyEffectsLowHalfOnly(t *testing.T) {
	from := &packed.EntityState{Effects: 0x1_0000_0002}
	to := &packed.EntityState{Effects: 0x1_0000_0005}

	d := MakeDelta(from, to, false, true)
	require.True(t, d.Bits.Has(DeltaEffects))
	require.False(t, d.Bits.Has(DeltaEffectsMore))

	dst := &packed.EntityState{Effects: from.Effects}
	d.Apply(dst)
	require.Equal(t, to.Effects, dst.Effects)
}

func TestApplyEffectsHighHalfOnly(t *testing.T) {
	from := &packed.EntityState{Effects: 0x1_0000_0002}
	to := &packed.EntityState{Effects: 0x2_0000_0002}

	d := MakeDelta(from, to, false, true)
	require.False(t, d.Bits.Has(DeltaEffects))
	require.True(t, d.Bits.Has(DeltaEffectsMore))

	dst := &packed.EntityState{Effects: from.Effects}
	d.Apply(dst)
	require.Equal(t, to.Effects, dst.Effects)
}

func TestApplyEffectsBothHalves(t *testing.T) {
	from := &packed.EntityState{Effects: 0x1_0000_0002}
	to := &packed.EntityState{Effects: 0x2_0000_0009}

	d := MakeDelta(from, to, false, true)
	require.True(t, d.Bits.Has(DeltaEffects))
	require.True(t, d.Bits.Has(DeltaEffectsMore))

	dst := &packed.EntityState{Effects: from.Effects}
	d.Apply(dst)
	require.Equal(t, to.Effects, dst.Effects)
}

func TestApplyEffectsHighHalfNotExtendedState(t *testing.T) {
	from := &packed.EntityState{Effects: 0x1_0000_0002}
	to := &packed.EntityState{Effects: 0x2_0000_0002}

	// without extendedState, the high half is never examined.
	d := MakeDelta(from, to, false, false)
	require.False(t, d.Bits.Has(DeltaEffectsMore))

	dst := &packed.EntityState{Effects: from.Effects}
	d.Apply(dst)
	require.Equal(t, from.Effects, dst.Effects)
}

func TestApplyEventZeroSuppressedEachFrame(t *testing.T) {
	to := &packed.EntityState{Event: 5}
	d := MakeDelta(nil, to, false, false)
	require.True(t, d.Bits.Has(DeltaEvent))

	dst := &packed.EntityState{Event: 99}
	d.Apply(dst)
	require.Equal(t, uint8(5), dst.Event)

	// next frame, event stays 0 -- delta carries no DeltaEvent bit,
	// and Apply must reset dst.Event rather than leaving the stale 5.
	to2 := &packed.EntityState{Event: 0}
	d2 := MakeDelta(to, to2, false, false)
	require.False(t, d2.Bits.Has(DeltaEvent))

	d2.Apply(dst)
	require.Equal(t, uint8(0), dst.Event)
}

func TestApplyExtendedStateFieldsGated(t *testing.T) {
	from := &packed.EntityState{LoopVolume: 1, LoopAttenuation: 2, Alpha: 3, Scale: 4}
	to := &packed.EntityState{LoopVolume: 10, LoopAttenuation: 20, Alpha: 30, Scale: 40}

	notExtended := MakeDelta(from, to, false, false)
	require.False(t, notExtended.Bits.Has(DeltaLoopVolume))
	require.False(t, notExtended.Bits.Has(DeltaLoopAttenuation))
	require.False(t, notExtended.Bits.Has(DeltaAlpha))
	require.False(t, notExtended.Bits.Has(DeltaScale))

	extended := MakeDelta(from, to, false, true)
	require.True(t, extended.Bits.Has(DeltaLoopVolume))
	require.True(t, extended.Bits.Has(DeltaLoopAttenuation))
	require.True(t, extended.Bits.Has(DeltaAlpha))
	require.True(t, extended.Bits.Has(DeltaScale))

	dst := &packed.EntityState{LoopVolume: 1, LoopAttenuation: 2, Alpha: 3, Scale: 4}
	extended.Apply(dst)
	require.Equal(t, to.LoopVolume, dst.LoopVolume)
	require.Equal(t, to.LoopAttenuation, dst.LoopAttenuation)
	require.Equal(t, to.Alpha, dst.Alpha)
	require.Equal(t, to.Scale, dst.Scale)
}

func TestApplyAngleOnlyChangedComponents(t *testing.T) {
	from := &packed.EntityState{Angles: [3]int16{100, 200, 300}}
	to := &packed.EntityState{Angles: [3]int16{100, 999, 300}}

	d := MakeDelta(from, to, false, false)
	require.Equal(t, uint8(0x2), d.Angle.Bits)

	dst := &packed.EntityState{Angles: from.Angles}
	d.Apply(dst)
	require.Equal(t, to.Angles, dst.Angles)
}

func TestApplyOldOriginOnlyWhenForced(t *testing.T) {
	from := &packed.EntityState{OldOrigin: [3]int32{1, 2, 3}}
	to := &packed.EntityState{OldOrigin: [3]int32{4, 5, 6}}

	notForced := MakeDelta(from, to, false, false)
	require.False(t, notForced.Bits.Has(DeltaOldOrigin))

	forced := MakeDelta(from, to, true, false)
	require.True(t, forced.Bits.Has(DeltaOldOrigin))

	dst := &packed.EntityState{OldOrigin: [3]int32{9, 9, 9}}
	forced.Apply(dst)
	require.Equal(t, to.OldOrigin, dst.OldOrigin)
}
