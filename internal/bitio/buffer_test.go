package bitio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferU8(t *testing.T) {
	b := NewWriteBuffer(0)
	require.NoError(t, b.WriteU8(0x42))
	require.Equal(t, []byte{0x42}, b.Bytes())

	r := NewBuffer(b.Bytes())
	v, err := r.ReadU8()
	require.NoError(t, err)
	require.Equal(t, uint8(0x42), v)

	_, err = r.ReadU8()
	require.ErrorIs(t, err, ErrNoMoreInput)
}

func TestBufferU16LittleEndian(t *testing.T) {
	b := NewWriteBuffer(0)
	require.NoError(t, b.WriteU16(0x1234))
	require.Equal(t, []byte{0x34, 0x12}, b.Bytes())

	r := NewBuffer(b.Bytes())
	v, err := r.ReadU16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), v)
}

func TestBufferU32LittleEndian(t *testing.T) {
	b := NewWriteBuffer(0)
	require.NoError(t, b.WriteU32(0xdeadbeef))
	require.Equal(t, []byte{0xef, 0xbe, 0xad, 0xde}, b.Bytes())

	r := NewBuffer(b.Bytes())
	v, err := r.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xdeadbeef), v)
}

func TestBufferString(t *testing.T) {
	b := NewWriteBuffer(0)
	require.NoError(t, b.WriteString("maps/q2dm1.bsp"))
	require.NoError(t, b.WriteString(""))

	r := NewBuffer(b.Bytes())
	s, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "maps/q2dm1.bsp", s)

	s, err = r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "", s)

	_, err = r.ReadString()
	require.ErrorIs(t, err, ErrNoMoreInput)
}

func TestBufferReadRawStrictVsShort(t *testing.T) {
	r := NewBuffer([]byte{1, 2, 3})

	raw, err := r.ReadRaw(2)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, raw)

	// ask for more than remains with a non-strict read: short read, not error
	raw, err = r.ReadRaw(5)
	require.NoError(t, err)
	require.Equal(t, []byte{3}, raw)

	// strict read past end fails
	r = NewBuffer([]byte{1, 2, 3})
	_, err = r.ReadRaw(-4)
	require.ErrorIs(t, err, ErrNoMoreInput)
}

func TestBufferReserveRawFillsInPlace(t *testing.T) {
	b := NewWriteBuffer(0)
	require.NoError(t, b.WriteU8(0xAA))

	scratch, err := b.ReserveRaw(3)
	require.NoError(t, err)
	scratch[0], scratch[1], scratch[2] = 1, 2, 3

	require.Equal(t, []byte{0xAA, 1, 2, 3}, b.Bytes())
}

func TestBufferAvailableAndNotEnoughPacketSpace(t *testing.T) {
	b := NewWriteBuffer(2)
	require.Equal(t, 2, b.Available())

	require.NoError(t, b.WriteU8(1))
	require.Equal(t, 1, b.Available())

	err := b.WriteU16(0x1234)
	require.ErrorIs(t, err, ErrNotEnoughPacketSpace)
	// failed write must not have partially applied
	require.Equal(t, []byte{1}, b.Bytes())
}
