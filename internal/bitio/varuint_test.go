package bitio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 16384, 1 << 32, ^uint64(0)}
	for _, v := range values {
		b := NewWriteBuffer(0)
		require.NoError(t, WriteVarint(b, v))

		r := NewBuffer(b.Bytes())
		got, err := ReadVarint(r)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestVarintKnownEncoding(t *testing.T) {
	b := NewWriteBuffer(0)
	require.NoError(t, WriteVarint(b, 300))
	require.Equal(t, []byte{0xAC, 0x02}, b.Bytes())
}

func TestVarintTooManyContinuations(t *testing.T) {
	raw := make([]byte, 11)
	for i := range raw {
		raw[i] = 0x80
	}
	r := NewBuffer(raw)
	_, err := ReadVarint(r)
	require.Error(t, err)

	code, ok := CodeOf(err)
	require.True(t, ok)
	require.Equal(t, CodeBadData, code)
}
