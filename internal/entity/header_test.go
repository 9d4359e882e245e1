package entity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/protocol"
)

func TestWriteHeaderKnownEncoding(t *testing.T) {
	bits := protocol.UOrigin1 | protocol.UOrigin2 | protocol.UModel
	b := bitio.NewWriteBuffer(0)
	require.NoError(t, WriteHeader(b, bits, 42))
	require.Equal(t, []byte{0x83, 0x08, 0x2A}, b.Bytes())
}

func TestReadHeaderKnownEncoding(t *testing.T) {
	r := bitio.NewBuffer([]byte{0x83, 0x08, 0x2A})
	bits, entnum, err := ReadHeader(r)
	require.NoError(t, err)
	require.Equal(t, uint16(42), entnum)

	want := protocol.UOrigin1 | protocol.UOrigin2 | protocol.UModel | protocol.UMoreBits1
	require.Equal(t, want, bits)
}

func TestHeaderRoundTripWithNumber16(t *testing.T) {
	bits := protocol.USound | protocol.UAlpha
	entnum := uint16(500)

	b := bitio.NewWriteBuffer(0)
	require.NoError(t, WriteHeader(b, bits, entnum))

	r := bitio.NewBuffer(b.Bytes())
	gotBits, gotEntnum, err := ReadHeader(r)
	require.NoError(t, err)
	require.Equal(t, entnum, gotEntnum)
	require.True(t, gotBits.Has(protocol.USound))
	require.True(t, gotBits.Has(protocol.UAlpha))
	require.True(t, gotBits.Has(protocol.UNumber16))
}

func TestHeaderRoundTripAllFourMoreBits(t *testing.T) {
	// U_SCALE (bit 32) forces all four MOREBITS bytes.
	bits := protocol.UScale
	b := bitio.NewWriteBuffer(0)
	require.NoError(t, WriteHeader(b, bits, 7))
	require.Len(t, b.Bytes(), 6) // 5 bit-bytes + 1 entnum byte

	r := bitio.NewBuffer(b.Bytes())
	gotBits, gotEntnum, err := ReadHeader(r)
	require.NoError(t, err)
	require.Equal(t, uint16(7), gotEntnum)
	require.True(t, gotBits.Has(protocol.UScale))
}

func TestHeaderSizeMatchesActualWriteLength(t *testing.T) {
	cases := []struct {
		bits   protocol.EntityFlags
		entnum uint16
	}{
		{protocol.UOrigin1, 1},
		{protocol.UOrigin1 | protocol.UModel, 42},
		{protocol.UScale, 300},
	}
	for _, tc := range cases {
		want := HeaderSize(tc.bits, tc.entnum)
		b := bitio.NewWriteBuffer(0)
		require.NoError(t, WriteHeader(b, tc.bits, tc.entnum))
		require.Len(t, b.Bytes(), want)
	}
}
