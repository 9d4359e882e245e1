package scalar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAngleSetShortGetFloat(t *testing.T) {
	var a Angle
	a.SetShort(0, Angle2Short(90.0))
	require.InDelta(t, 90.0, a.Float(0), 360.0/65536)
}

func TestAngleSetCharGetShortExpandsByte(t *testing.T) {
	var a Angle
	a.SetChar(1, 0x12)
	require.Equal(t, int16(0x1212), a.Short(1))
}

func TestAngleSetFloatGetChar(t *testing.T) {
	var a Angle
	a.SetFloat(2, 180.0)
	// 180 degrees encodes to char -128, which decodes to -180.
	require.InDelta(t, -180.0, Char2Angle(a.Char(2)), 360.0/256)
}

func TestAngleComponentsIndependentTags(t *testing.T) {
	var a Angle
	a.SetShort(0, 100)
	a.SetChar(1, 5)
	a.SetFloat(2, 33.0)

	require.Equal(t, int16(100), a.Short(0))
	require.Equal(t, int8(5), a.Char(1))
	require.Equal(t, float64(33.0), a.Float(2))
}
