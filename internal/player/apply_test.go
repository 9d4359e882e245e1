package player

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kulaginds/q2proto-go/internal/packed"
)

func TestApplyRoundTripFullDelta(t *testing.T) {
	from := &packed.PlayerState{
		PMType:     1,
		PMOrigin:   [3]int32{100, 200, 300},
		PMVelocity: [3]int32{1, 2, 3},
		PMTime:     10,
		Fov:        90,
	}
	to := &packed.PlayerState{
		PMType:     2,
		PMOrigin:   [3]int32{800, -400, 128},
		PMVelocity: [3]int32{10, 20, 30},
		PMTime:     20,
		Fov:        100,
		ClientNum:  3,
	}
	to.Stats[5] = 42

	d := MakeDelta(from, to, true, true, false, false)

	dst := &packed.PlayerState{
		PMType:     from.PMType,
		PMOrigin:   from.PMOrigin,
		PMVelocity: from.PMVelocity,
		PMTime:     from.PMTime,
		Fov:        from.Fov,
	}
	d.Apply(dst)

	require.Equal(t, to.PMType, dst.PMType)
	require.Equal(t, to.PMOrigin, dst.PMOrigin)
	require.Equal(t, to.PMVelocity, dst.PMVelocity)
	require.Equal(t, to.PMTime, dst.PMTime)
	require.Equal(t, to.Fov, dst.Fov)
	require.Equal(t, to.ClientNum, dst.ClientNum)
	require.Equal(t, int16(42), dst.Stats[5])
}

func TestApplyGunFieldsAppliedTogether(t *testing.T) {
	from := &packed.PlayerState{GunFrame: 1, GunOffset: [3]int8{1, 2, 3}, GunAngles: [3]int8{4, 5, 6}}
	to := &packed.PlayerState{GunFrame: 9, GunOffset: [3]int8{7, 8, 9}, GunAngles: [3]int8{10, 11, 12}}

	d := MakeDelta(from, to, false, false, false, false)
	dst := &packed.PlayerState{GunFrame: from.GunFrame, GunOffset: from.GunOffset, GunAngles: from.GunAngles}
	d.Apply(dst)

	require.Equal(t, to.GunFrame, dst.GunFrame)
	require.Equal(t, to.GunOffset, dst.GunOffset)
	require.Equal(t, to.GunAngles, dst.GunAngles)
}

func TestApplyBlendIndependentFromDamageBlend(t *testing.T) {
	from := &packed.PlayerState{Blend: [4]uint8{1, 1, 1, 1}, DamageBlend: [4]uint8{2, 2, 2, 2}}
	to := &packed.PlayerState{Blend: [4]uint8{9, 9, 9, 9}, DamageBlend: [4]uint8{2, 2, 2, 2}}

	d := MakeDelta(from, to, false, true, false, false)
	dst := &packed.PlayerState{Blend: from.Blend, DamageBlend: from.DamageBlend}
	d.Apply(dst)

	require.Equal(t, to.Blend, dst.Blend)
	require.Equal(t, from.DamageBlend, dst.DamageBlend) // unchanged, untouched
}

func TestApplyStatsOnlyTouchesChangedSlots(t *testing.T) {
	from := &packed.PlayerState{}
	from.Stats[0] = 5
	from.Stats[1] = 7
	to := &packed.PlayerState{}
	to.Stats[0] = 5
	to.Stats[1] = 70

	d := MakeDelta(from, to, false, false, false, false)
	dst := &packed.PlayerState{}
	dst.Stats = from.Stats
	d.Apply(dst)

	require.Equal(t, int16(5), dst.Stats[0])
	require.Equal(t, int16(70), dst.Stats[1])
}
