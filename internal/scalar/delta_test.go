package scalar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoordDeltaOnlyMarksChangedComponents(t *testing.T) {
	var from, to Coord
	from.SetFloat(0, 1)
	from.SetFloat(1, 2)
	from.SetFloat(2, 3)
	to.SetFloat(0, 1)   // unchanged
	to.SetFloat(1, 99)  // changed
	to.SetFloat(2, 3)   // unchanged

	d := SetCoordDelta(&from, &to)
	require.Equal(t, uint8(0b010), d.Bits)
	require.Equal(t, float64(99), d.Coord.Float(1))
}

func TestCoordDeltaApplyLeavesUnmaskedUntouched(t *testing.T) {
	var from, to, dst Coord
	from.SetFloat(0, 1)
	to.SetFloat(0, 5)
	dst.SetFloat(0, 1)
	dst.SetFloat(1, 42) // should survive Apply untouched

	d := SetCoordDelta(&from, &to)
	d.Apply(&dst)

	require.Equal(t, float64(5), dst.Float(0))
	require.Equal(t, float64(42), dst.Float(1))
}

func TestColourDeltaFourBitMask(t *testing.T) {
	var from, to Blend
	for i := 0; i < 4; i++ {
		from.SetFloat(i, 0.5)
	}
	to = from
	to.SetFloat(3, 0.0) // alpha changed

	d := SetColourDelta(&from, &to)
	require.Equal(t, uint8(0b1000), d.Bits)
}

func TestZeroDeltaIsIdentity(t *testing.T) {
	var same Coord
	same.SetFloat(0, 7)
	same.SetFloat(1, 8)
	same.SetFloat(2, 9)

	d := SetCoordDelta(&same, &same)
	require.Equal(t, uint8(0), d.Bits)

	dst := same
	d.Apply(&dst)
	require.Equal(t, same, dst)
}
