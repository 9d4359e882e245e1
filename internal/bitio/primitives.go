package bitio

// Signed readers/writers bit-cast from the unsigned primitives rather
// than duplicating the wire format — the sign bit is just another bit
// on the wire.

func ReadI8(r Reader) (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

func WriteI8(w Writer, v int8) error {
	return w.WriteU8(uint8(v))
}

func ReadI16(r Reader) (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func WriteI16(w Writer, v int16) error {
	return w.WriteU16(uint16(v))
}

func ReadI32(r Reader) (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func WriteI32(w Writer, v int32) error {
	return w.WriteU32(uint32(v))
}

// ReadBool reads a single byte and reports whether it is non-zero, the
// convention the protocol uses for boolean fields on the wire (e.g.
// serverdata's attractloop).
func ReadBool(r Reader) (bool, error) {
	v, err := r.ReadU8()
	return v != 0, err
}

func WriteBool(w Writer, v bool) error {
	if v {
		return w.WriteU8(1)
	}
	return w.WriteU8(0)
}
