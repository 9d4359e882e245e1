package gamestate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kulaginds/q2proto-go/internal/bitio"
)

// fixedItemWriter writes one byte per configstring and one byte per
// baseline, refusing once w.Available() would go negative -- enough
// to exercise the resumable-cursor contract without a real dialect.
func fixedItemWriter(w bitio.Writer, cs *ConfigString, bl *Baseline) error {
	if w.Available() < 1 {
		return bitio.ErrNotEnoughPacketSpace
	}
	if cs != nil {
		return w.WriteU8(1)
	}
	return w.WriteU8(2)
}

func TestWriterDrainsConfigStringsBeforeBaselines(t *testing.T) {
	cs := []ConfigString{{Index: 0, Value: "a"}, {Index: 1, Value: "b"}}
	bl := []Baseline{{EntNum: 1}}
	w := NewWriter(cs, bl, fixedItemWriter)

	buf := bitio.NewWriteBuffer(0)
	outcome, err := w.Next(buf)
	require.NoError(t, err)
	require.Equal(t, Partial, outcome)
	require.Equal(t, []byte{1}, buf.Bytes())

	outcome, err = w.Next(buf)
	require.NoError(t, err)
	require.Equal(t, Partial, outcome)

	outcome, err = w.Next(buf)
	require.NoError(t, err)
	require.Equal(t, Done, outcome)
	require.Equal(t, []byte{1, 1, 2}, buf.Bytes())
}

func TestWriterResumesAfterNotEnoughPacketSpace(t *testing.T) {
	cs := []ConfigString{{Index: 0, Value: "a"}, {Index: 1, Value: "b"}}
	w := NewWriter(cs, nil, fixedItemWriter)

	full := bitio.NewWriteBuffer(1)
	require.NoError(t, full.WriteU8(0))

	outcome, err := w.Next(full)
	require.ErrorIs(t, err, bitio.ErrNotEnoughPacketSpace)
	require.Equal(t, Partial, outcome)
	require.Equal(t, 2, w.Remaining())

	fresh := bitio.NewWriteBuffer(0)
	outcome, err = w.Next(fresh)
	require.NoError(t, err)
	require.Equal(t, Partial, outcome)
	require.Equal(t, 1, w.Remaining())
}

func TestWriterTerminatesWithinBoundedSteps(t *testing.T) {
	cs := make([]ConfigString, 5)
	bl := make([]Baseline, 3)
	w := NewWriter(cs, bl, fixedItemWriter)

	buf := bitio.NewWriteBuffer(0)
	steps := 0
	maxSteps := len(cs) + len(bl)
	for steps <= maxSteps {
		outcome, err := w.Next(buf)
		require.NoError(t, err)
		steps++
		if outcome == Done {
			break
		}
	}
	require.LessOrEqual(t, steps, maxSteps)
	require.Equal(t, 0, w.Remaining())
}

func TestWriterEmptyListsAreImmediatelyDone(t *testing.T) {
	w := NewWriter(nil, nil, fixedItemWriter)
	outcome, err := w.Next(bitio.NewWriteBuffer(0))
	require.NoError(t, err)
	require.Equal(t, Done, outcome)
}
