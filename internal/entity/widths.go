package entity

// WidthFlags selects how many bytes a three-width field (skin,
// effects, renderfx) occupies on the wire: two independent bits that
// combine into {absent, 8-bit, 16-bit, 32-bit=both bits set}, mirroring
// the U_*8/U_*16 flag pairs in protocol.EntityFlags.
type WidthFlags uint8

const (
	WidthAbsent WidthFlags = 0
	Width8      WidthFlags = 1 << 0
	Width16     WidthFlags = 1 << 1
	Width32     WidthFlags = Width8 | Width16
)

// SelectWidth returns the narrowest WidthFlags combination able to
// carry value. Only called once a field has already been determined
// to be present (i.e. never returns WidthAbsent) -- that decision
// belongs to the delta builder, not here.
//
// uint16Safe disables promotion to the 32-bit form when value's high
// 16 bits are all ones, the backward-compatibility carve-out for
// fields (like skinnum on laser entities) that older readers
// sign-extended from a 16-bit value; such a value is carried as
// 16-bit instead; uint16Safe has no effect once the true high half
// carries information beyond that sign-extension pattern.
func SelectWidth(value uint32, uint16Safe bool) WidthFlags {
	if value <= 0xff {
		return Width8
	}
	if value <= 0xffff {
		return Width16
	}
	if uint16Safe && value>>16 == 0xffff {
		return Width16
	}
	return Width32
}

// SelectFrameWidth reports whether value needs the 16-bit form of a
// single-promotion-flag field (frame, modelindex*): the field is 8-bit
// by default and only promoted to 16-bit when it doesn't fit.
func SelectFrameWidth(value uint32) bool {
	return value > 0xff
}
