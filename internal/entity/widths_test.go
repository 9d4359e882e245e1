package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectWidth8Bit(t *testing.T) {
	require.Equal(t, Width8, SelectWidth(0, false))
	require.Equal(t, Width8, SelectWidth(255, false))
}

func TestSelectWidth16Bit(t *testing.T) {
	require.Equal(t, Width16, SelectWidth(256, false))
	require.Equal(t, Width16, SelectWidth(65535, false))
}

func TestSelectWidth32Bit(t *testing.T) {
	require.Equal(t, Width32, SelectWidth(65536, false))
	require.Equal(t, Width32, SelectWidth(0xdeadbeef, false))
}

func TestSelectWidthUint16SafeCarveOut(t *testing.T) {
	// high 16 bits all ones looks like a sign-extended 16-bit value;
	// uint16Safe keeps it in the 16-bit form instead of promoting.
	v := uint32(0xffff8001)
	require.Equal(t, Width32, SelectWidth(v, false))
	require.Equal(t, Width16, SelectWidth(v, true))

	// a genuine 32-bit value (high half not all ones) still promotes
	// even with uint16Safe set.
	require.Equal(t, Width32, SelectWidth(0x1234ffff, true))
}

func TestSelectFrameWidth(t *testing.T) {
	require.False(t, SelectFrameWidth(255))
	require.True(t, SelectFrameWidth(256))
}
