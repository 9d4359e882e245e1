package bitio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestI23RoundTripSmallDelta(t *testing.T) {
	prev := int32(1000)
	for _, delta := range []int32{0, 1, -1, 1000, -1000, 0x3fff, -0x4000} {
		x := prev + delta
		b := NewWriteBuffer(0)
		require.NoError(t, WriteI23(b, x, prev))
		require.Len(t, b.Bytes(), 2, "small deltas must encode in 2 bytes")

		r := NewBuffer(b.Bytes())
		got, err := ReadI23(r, prev)
		require.NoError(t, err)
		require.Equal(t, x, got)
	}
}

func TestI23RoundTripLargeJump(t *testing.T) {
	prev := int32(0)
	for _, x := range []int32{1 << 20, -(1 << 20), 0x3fffff, -0x400000} {
		b := NewWriteBuffer(0)
		require.NoError(t, WriteI23(b, x, prev))
		require.Len(t, b.Bytes(), 3, "out-of-range deltas must encode in 3 bytes")

		r := NewBuffer(b.Bytes())
		got, err := ReadI23(r, prev)
		require.NoError(t, err)
		require.Equal(t, x, got)
	}
}

func TestI23RoundTripExhaustiveDeltaBoundary(t *testing.T) {
	prev := int32(-50000)
	for delta := int32(-0x4000); delta < 0x4000; delta += 37 {
		x := prev + delta
		b := NewWriteBuffer(0)
		require.NoError(t, WriteI23(b, x, prev))

		r := NewBuffer(b.Bytes())
		got, err := ReadI23(r, prev)
		require.NoError(t, err)
		require.Equal(t, x, got)
	}
}
