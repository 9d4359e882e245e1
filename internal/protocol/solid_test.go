package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackSolid16RoundTrip(t *testing.T) {
	mins := [3]float64{-24, -24, -40}
	maxs := [3]float64{24, 24, 32}

	// zu=(32+32)/8=8, zd=40/8=5, x=24/8=3
	packed := PackSolid16(mins, maxs)
	require.Equal(t, uint16(0x20A3), packed)

	gotMins, gotMaxs := UnpackSolid16(packed)
	require.Equal(t, mins, gotMins)
	require.Equal(t, maxs, gotMaxs)
}

func TestPackSolid16ClampsOutOfRangeBoxes(t *testing.T) {
	mins := [3]float64{-4000, -4000, -4000}
	maxs := [3]float64{4000, 4000, 4000}

	packed := PackSolid16(mins, maxs)
	gotMins, gotMaxs := UnpackSolid16(packed)

	require.Equal(t, -248.0, gotMins[0])
	require.Equal(t, 248.0, gotMaxs[0])
	require.Equal(t, -248.0, gotMins[2])
	require.Equal(t, 472.0, gotMaxs[2])
}

func TestPackSolid32RoundTrip(t *testing.T) {
	mins := [3]float64{-24, -24, -40}
	maxs := [3]float64{24, 24, 32}

	packed := PackSolid32(mins, maxs)
	gotMins, gotMaxs := UnpackSolid32(packed)
	require.Equal(t, mins, gotMins)
	require.Equal(t, maxs, gotMaxs)
}

func TestPackSolid32HandlesLargerBoxesThan16Bit(t *testing.T) {
	mins := [3]float64{-1000, -1000, -1000}
	maxs := [3]float64{1000, 1000, 1000}

	packed := PackSolid32(mins, maxs)
	gotMins, gotMaxs := UnpackSolid32(packed)
	require.Equal(t, mins, gotMins)
	require.Equal(t, maxs, gotMaxs)
}
