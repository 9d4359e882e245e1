// Package gamestate implements the resumable configstring/baseline
// streamer every dialect's WriteGamestate drives (spec.md §4.5,
// SPEC_FULL.md §4.5, Design Note 9 "streaming gamestate & download
// resumability"). It knows nothing about wire bytes itself -- the
// shape a configstring or baseline takes on the wire is
// dialect-specific -- so a Writer is constructed with an ItemWriter
// callback that does the actual encoding; Writer only owns the
// cursor.
package gamestate

import (
	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/packed"
)

// Outcome is Next's result: whether more elements remain (Partial) or
// both lists have been fully consumed (Done).
type Outcome int

const (
	Partial Outcome = iota
	Done
)

// ConfigString is one entry of the configstrings list a gamestate
// streams before baselines.
type ConfigString struct {
	Index uint16
	Value string
}

// Baseline is one entry of the spawnbaselines list.
type Baseline struct {
	EntNum uint16
	State  packed.EntityState
}

// ItemWriter serializes exactly one pending element onto w: cs is
// non-nil for a configstring, bl is non-nil for a baseline, never
// both. It MUST NOT write anything if it returns
// bitio.ErrNotEnoughPacketSpace -- Next relies on that to leave the
// cursor pointing at the un-emitted element, per spec.md §4.5's
// invariant.
type ItemWriter func(w bitio.Writer, cs *ConfigString, bl *Baseline) error

// Writer is the resumable iterator: one per in-progress gamestate
// stream, reused across packets until Next returns Done.
type Writer struct {
	configStrings []ConfigString
	baselines     []Baseline

	csIdx, blIdx int // unexported cursor, mutated only by Next

	writeItem ItemWriter
}

// NewWriter builds a Writer over the given lists. writeItem is
// supplied by the dialect codec that owns the wire format.
func NewWriter(configStrings []ConfigString, baselines []Baseline, writeItem ItemWriter) *Writer {
	return &Writer{configStrings: configStrings, baselines: baselines, writeItem: writeItem}
}

// Remaining reports how many configstrings+baselines are still
// un-emitted, for tests/diagnostics bounding the "terminates in a
// finite number of steps" invariant (spec.md §8).
func (it *Writer) Remaining() int {
	return (len(it.configStrings) - it.csIdx) + (len(it.baselines) - it.blIdx)
}

// Next writes the next pending configstring or baseline (configstrings
// drain first) to w. On bitio.ErrNotEnoughPacketSpace the cursor is
// unchanged -- the caller flushes w and calls Next again. Returns Done
// once both lists are exhausted; a Writer that has already returned
// Done keeps returning it (Next is idempotent at the end).
func (it *Writer) Next(w bitio.Writer) (Outcome, error) {
	if it.csIdx < len(it.configStrings) {
		cs := it.configStrings[it.csIdx]
		if err := it.writeItem(w, &cs, nil); err != nil {
			return Partial, err
		}
		it.csIdx++
	} else if it.blIdx < len(it.baselines) {
		bl := it.baselines[it.blIdx]
		if err := it.writeItem(w, nil, &bl); err != nil {
			return Partial, err
		}
		it.blIdx++
	}

	if it.csIdx >= len(it.configStrings) && it.blIdx >= len(it.baselines) {
		return Done, nil
	}
	return Partial, nil
}
