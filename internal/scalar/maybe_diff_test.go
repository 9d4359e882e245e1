package scalar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaybeDiffCoordResolveAddsWhereDiffBitSet(t *testing.T) {
	var prev Coord
	prev.SetFloat(0, 100)
	prev.SetFloat(1, 200)
	prev.SetFloat(2, 300)

	var delta Coord
	delta.SetFloat(0, 5) // relative offset for comp 0

	m := MaybeDiffCoord{
		DiffBits: 0b001,
		Delta:    CoordDelta{Bits: 0b001, Coord: delta},
	}

	out := m.Resolve(&prev)
	require.Equal(t, float64(105), out.Float(0))
	require.Equal(t, float64(200), out.Float(1), "untouched component carries over from prev")
}

func TestMaybeDiffCoordResolveOverwritesWhereDiffBitClear(t *testing.T) {
	var prev Coord
	prev.SetFloat(1, 200)

	var abs Coord
	abs.SetFloat(1, 999)

	m := MaybeDiffCoord{
		DiffBits: 0, // absolute, not a delta
		Delta:    CoordDelta{Bits: 0b010, Coord: abs},
	}

	out := m.Resolve(&prev)
	require.Equal(t, float64(999), out.Float(1))
}

func TestMaybeDiffCoordWriteView(t *testing.T) {
	var prev, current Coord
	prev.SetFloat(0, 1)
	current.SetFloat(0, 2)

	m := NewWriteMaybeDiffCoord(prev, current)
	require.True(t, m.HasWriteView)
	require.Equal(t, float64(1), m.Prev.Float(0))
	require.Equal(t, float64(2), m.Current.Float(0))
}
