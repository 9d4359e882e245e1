package bitio

// ReadI23 and WriteI23 implement Q2PRO's 23-bit delta coordinate: most
// coordinate updates are a small delta from the previous frame and fit
// in a 15-bit signed value carried inside a single int16; the rare
// large jump is flagged by the LSB and spills into a 24-bit absolute
// value across three bytes.
//
// Wire shape, little-endian:
//   - a 16-bit value c is read first.
//   - if c&1 == 0: the update is a delta. The delta is c>>1,
//     sign-extended from 15 bits, and the result is prev + delta.
//   - if c&1 == 1: one more byte follows. The 24-bit quantity
//     (uint32(extra)<<16 | uint32(c)) >> 1 is the new absolute value,
//     sign-extended from 23 bits.

const (
	i23DeltaMin = -0x4000
	i23DeltaMax = 0x4000 // exclusive
)

// ReadI23 decodes the next coordinate given the previous frame's value.
func ReadI23(r Reader, prev int32) (int32, error) {
	c, err := r.ReadU16()
	if err != nil {
		return 0, err
	}
	if c&1 == 0 {
		delta := int32(int16(c)) >> 1
		return prev + delta, nil
	}
	extra, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	raw := (uint32(extra)<<16 | uint32(c)) >> 1
	// sign-extend from 23 bits
	v := int32(raw<<9) >> 9
	return v, nil
}

// WriteI23 encodes x relative to prev, choosing the compact delta form
// when it fits and the absolute form otherwise.
func WriteI23(w Writer, x, prev int32) error {
	delta := x - prev
	if delta >= i23DeltaMin && delta < i23DeltaMax {
		c := uint16(delta<<1) & 0xffff
		return w.WriteU16(c)
	}
	raw := (uint32(x) << 1) | 1
	if err := w.WriteU16(uint16(raw & 0xffff)); err != nil {
		return err
	}
	return w.WriteU8(uint8(raw >> 16))
}

// ReadI23Components decodes the next coordinate without resolving it
// against a previous value: isAbsolute reports which wire form was
// used, and value is either the signed delta (relative form) or the
// full coordinate (absolute form). This lets a caller that only knows
// "this component changed" -- not yet the entity's last known value,
// e.g. while building a scalar.MaybeDiffCoord read view -- decode the
// wire bytes now and resolve the value later.
func ReadI23Components(r Reader) (isAbsolute bool, value int32, err error) {
	c, err := r.ReadU16()
	if err != nil {
		return false, 0, err
	}
	if c&1 == 0 {
		delta := int32(int16(c)) >> 1
		return false, delta, nil
	}
	extra, err := r.ReadU8()
	if err != nil {
		return false, 0, err
	}
	raw := (uint32(extra)<<16 | uint32(c)) >> 1
	v := int32(raw<<9) >> 9
	return true, v, nil
}

// WriteI23Components is the write-side counterpart of
// ReadI23Components: the caller has already decided whether to send a
// relative delta or an absolute value (typically by comparing delta
// against the i23DeltaMin/Max range itself, as WriteI23 does).
func WriteI23Components(w Writer, isAbsolute bool, value int32) error {
	if !isAbsolute {
		c := uint16(value<<1) & 0xffff
		return w.WriteU16(c)
	}
	raw := (uint32(value) << 1) | 1
	if err := w.WriteU16(uint16(raw & 0xffff)); err != nil {
		return err
	}
	return w.WriteU8(uint8(raw >> 16))
}
