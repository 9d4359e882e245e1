package scalar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoordRoundTrip(t *testing.T) {
	require.InDelta(t, 100.0, Int2Coord(Coord2Int(100.0)), 0.125)
	require.Equal(t, int32(800), Coord2Int(100.0))
}

func TestCoord2IntClampsToInt32Range(t *testing.T) {
	require.Equal(t, int32(1<<31-1), Coord2Int(1e12))
	require.Equal(t, int32(-1<<31), Coord2Int(-1e12))
}

func TestAngleShortRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 90, 180, -90, 45} {
		s := Angle2Short(deg)
		got := Short2Angle(s)
		// A signed short covers [-180, 180): 180 comes back as -180.
		want := deg
		if want >= 180 {
			want -= 360
		}
		require.InDelta(t, want, got, 360.0/65536)
	}
}

func TestAngleCharRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 90, 180, -90} {
		c := Angle2Char(deg)
		got := Char2Angle(c)
		// A signed char covers [-180, 180): 180 comes back as -180.
		want := deg
		if want >= 180 {
			want -= 360
		}
		require.InDelta(t, want, got, 360.0/256)
	}
}

func TestSmallOffsetClamp(t *testing.T) {
	require.Equal(t, int8(127), SmallOffset2Char(1000))
	require.Equal(t, int8(-128), SmallOffset2Char(-1000))
	require.InDelta(t, 5.0, Char2SmallOffset(SmallOffset2Char(5.0)), 0.25)
}

func TestBlendByteRoundTrip(t *testing.T) {
	require.Equal(t, uint8(255), Blend2Byte(1.0))
	require.Equal(t, uint8(0), Blend2Byte(0.0))
	require.Equal(t, uint8(255), Blend2Byte(2.0), "clamps above 1")
}
