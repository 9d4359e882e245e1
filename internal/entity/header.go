// Package entity implements the entity-state delta: the bit-flagged
// header that precedes every baseline and frame_entity_delta, and the
// pure delta builder/applier used by dialects to turn a pair of packed
// entity states into (and back out of) that header plus its fields.
package entity

import (
	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/protocol"
)

// ReadHeader reads an entity-bit header: 1-5 bytes of chained
// protocol.EntityFlags (each MOREBITSn bit gating one more byte) plus
// a 1- or 2-byte entity number.
func ReadHeader(r bitio.Reader) (protocol.EntityFlags, uint16, error) {
	b, err := r.ReadU8()
	if err != nil {
		return 0, 0, err
	}
	total := uint64(b)

	for _, more := range []protocol.EntityFlags{protocol.UMoreBits1, protocol.UMoreBits2, protocol.UMoreBits3, protocol.UMoreBits4} {
		if protocol.EntityFlags(total)&more == 0 {
			break
		}
		shift := moreBitsShift(more)
		b, err := r.ReadU8()
		if err != nil {
			return 0, 0, err
		}
		total |= uint64(b) << shift
	}

	bits := protocol.EntityFlags(total)

	var entnum uint16
	if bits.Has(protocol.UNumber16) {
		entnum, err = r.ReadU16()
	} else {
		var n8 uint8
		n8, err = r.ReadU8()
		entnum = uint16(n8)
	}
	if err != nil {
		return 0, 0, err
	}

	return bits, entnum, nil
}

func moreBitsShift(more protocol.EntityFlags) uint {
	switch more {
	case protocol.UMoreBits1:
		return 8
	case protocol.UMoreBits2:
		return 16
	case protocol.UMoreBits3:
		return 24
	case protocol.UMoreBits4:
		return 32
	}
	return 0
}

// resolveHeaderBits sets UNumber16 (if entnum needs it) and the
// MOREBITSn chain needed to carry however many bytes of bits are
// non-zero, so callers only need to set the semantic field flags.
func resolveHeaderBits(bits protocol.EntityFlags, entnum uint16) protocol.EntityFlags {
	if entnum >= 256 {
		bits |= protocol.UNumber16
	}

	switch {
	case uint64(bits)&0xff00000000 != 0:
		bits |= protocol.UMoreBits4 | protocol.UMoreBits3 | protocol.UMoreBits2 | protocol.UMoreBits1
	case uint64(bits)&0xff000000 != 0:
		bits |= protocol.UMoreBits3 | protocol.UMoreBits2 | protocol.UMoreBits1
	case uint64(bits)&0x00ff0000 != 0:
		bits |= protocol.UMoreBits2 | protocol.UMoreBits1
	case uint64(bits)&0x0000ff00 != 0:
		bits |= protocol.UMoreBits1
	}
	return bits
}

// WriteHeader writes bits/entnum as an entity-bit header. It sets
// UNumber16 when entnum doesn't fit in a byte, and the MOREBITSn chain
// needed to carry however many bytes of bits are non-zero — the
// caller need not set those flags itself.
func WriteHeader(w bitio.Writer, bits protocol.EntityFlags, entnum uint16) error {
	bits = resolveHeaderBits(bits, entnum)

	if err := w.WriteU8(uint8(bits & 0xff)); err != nil {
		return err
	}
	if bits.Has(protocol.UMoreBits1) {
		if err := w.WriteU8(uint8(bits >> 8 & 0xff)); err != nil {
			return err
		}
	}
	if bits.Has(protocol.UMoreBits2) {
		if err := w.WriteU8(uint8(bits >> 16 & 0xff)); err != nil {
			return err
		}
	}
	if bits.Has(protocol.UMoreBits3) {
		if err := w.WriteU8(uint8(bits >> 24 & 0xff)); err != nil {
			return err
		}
	}
	if bits.Has(protocol.UMoreBits4) {
		if err := w.WriteU8(uint8(bits >> 32 & 0xff)); err != nil {
			return err
		}
	}

	if bits.Has(protocol.UNumber16) {
		return w.WriteU16(entnum)
	}
	return w.WriteU8(uint8(entnum))
}

// HeaderSize reports the number of bytes WriteHeader(bits, entnum)
// will emit, without actually writing anything.
func HeaderSize(bits protocol.EntityFlags, entnum uint16) int {
	bits = resolveHeaderBits(bits, entnum)

	size := 1
	switch {
	case bits.Has(protocol.UMoreBits4):
		size = 5
	case bits.Has(protocol.UMoreBits3):
		size = 4
	case bits.Has(protocol.UMoreBits2):
		size = 3
	case bits.Has(protocol.UMoreBits1):
		size = 2
	}
	if bits.Has(protocol.UNumber16) {
		size += 2
	} else {
		size++
	}
	return size
}
