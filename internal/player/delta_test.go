package player

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kulaginds/q2proto-go/internal/packed"
)

func TestMakeDeltaNilFromIsZeroState(t *testing.T) {
	to := &packed.PlayerState{PMType: 3, Fov: 90}
	d := MakeDelta(nil, to, false, false, false, false)
	require.True(t, d.Bits.Has(DeltaPMType))
	require.Equal(t, uint8(3), d.PMType)
	require.True(t, d.Bits.Has(DeltaFov))
	require.Equal(t, uint8(90), d.Fov)
}

func TestMakeDeltaGunFieldsCoupleTogether(t *testing.T) {
	from := &packed.PlayerState{GunFrame: 1, GunOffset: [3]int8{1, 2, 3}, GunAngles: [3]int8{4, 5, 6}}
	to := &packed.PlayerState{GunFrame: 2, GunOffset: [3]int8{1, 2, 3}, GunAngles: [3]int8{4, 5, 6}}

	d := MakeDelta(from, to, false, false, false, false)
	require.True(t, d.Bits.Has(DeltaGunFrame))
	require.False(t, d.Bits.Has(DeltaGunOffset))
	require.False(t, d.Bits.Has(DeltaGunAngles))

	// even though only gunframe changed, all three are carried.
	require.Equal(t, uint8(2), d.GunFrame)
	for i := 0; i < 3; i++ {
		require.Equal(t, to.GunOffset[i], d.GunOffset.Char(i))
		require.Equal(t, to.GunAngles[i], d.GunAngles.Char(i))
	}
}

func TestMakeDeltaGunFieldsUnchangedNotCarried(t *testing.T) {
	from := &packed.PlayerState{GunFrame: 1, GunOffset: [3]int8{1, 2, 3}, GunAngles: [3]int8{4, 5, 6}}
	to := &packed.PlayerState{GunFrame: 1, GunOffset: [3]int8{1, 2, 3}, GunAngles: [3]int8{4, 5, 6}}

	d := MakeDelta(from, to, false, false, false, false)
	require.False(t, d.Bits.Has(DeltaGunFrame|DeltaGunOffset|DeltaGunAngles))
}

func TestMakeDeltaDamageBlendGated(t *testing.T) {
	from := &packed.PlayerState{DamageBlend: [4]uint8{0, 0, 0, 0}}
	to := &packed.PlayerState{DamageBlend: [4]uint8{10, 20, 30, 40}}

	notSupported := MakeDelta(from, to, false, false, false, false)
	require.Equal(t, uint8(0), notSupported.DamageBlend.Bits)

	supported := MakeDelta(from, to, false, true, false, false)
	require.Equal(t, uint8(0xf), supported.DamageBlend.Bits)
}

func TestMakeDeltaClientNumForced(t *testing.T) {
	from := &packed.PlayerState{ClientNum: 5}
	to := &packed.PlayerState{ClientNum: 5}

	notForced := MakeDelta(from, to, false, false, false, false)
	require.False(t, notForced.Bits.Has(DeltaClientNum))

	forced := MakeDelta(from, to, true, false, false, false)
	require.True(t, forced.Bits.Has(DeltaClientNum))
	require.Equal(t, int16(5), forced.ClientNum)
}

func TestMakeDeltaStatBits(t *testing.T) {
	from := &packed.PlayerState{}
	to := &packed.PlayerState{}
	to.Stats[0] = 100
	to.Stats[63] = 200

	d := MakeDelta(from, to, false, false, false, false)
	require.Equal(t, uint64(1)<<0|uint64(1)<<63, d.StatBits)
	require.Equal(t, int16(100), d.Stats[0])
	require.Equal(t, int16(200), d.Stats[63])
}
