package scalar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoordSetFloatGetInt(t *testing.T) {
	var c Coord
	c.SetFloat(0, 64.0)
	require.Equal(t, int32(512), c.Int(0))
	require.Equal(t, float64(64.0), c.Float(0))
}

func TestCoordSetIntGetFloat(t *testing.T) {
	var c Coord
	c.SetInt(1, 512)
	require.Equal(t, float64(64.0), c.Float(1))
	require.Equal(t, int32(512), c.Int(1))
}

func TestCoordComponentsIndependent(t *testing.T) {
	var c Coord
	c.SetFloat(0, 1.0)
	c.SetInt(1, 16)
	c.SetFloat(2, -3.5)

	require.Equal(t, float64(1.0), c.Float(0))
	require.Equal(t, float64(2.0), c.Float(1))
	require.Equal(t, float64(-3.5), c.Float(2))
}

func TestCoordUnscaledRoundTrip(t *testing.T) {
	var c Coord
	c.SetIntUnscaled(0, 100)
	require.Equal(t, int32(100), c.IntUnscaled(0))
	require.Equal(t, int32(800), c.Int(0))
}

func TestCoordShortUnscaledClamps(t *testing.T) {
	var c Coord
	c.SetIntUnscaled(0, 1<<20)
	require.Equal(t, int16(32767), c.ShortUnscaled(0))
}
