package protocol

// clampInt restricts a to [min, max].
func clampInt(a, min, max int) int {
	if a < min {
		return min
	}
	if a > max {
		return max
	}
	return a
}

// PackSolid16 packs a bounding box into the vanilla/R1Q2 16-bit solid
// form. It assumes mins/maxs are symmetric on X and Y; Z need not be
// symmetric and maxs[2] may be negative.
func PackSolid16(mins, maxs [3]float64) uint16 {
	x := int(maxs[0] / 8)
	zd := int(-mins[2] / 8)
	zu := int((maxs[2] + 32) / 8)

	x = clampInt(x, 1, 31)
	zd = clampInt(zd, 1, 31)
	zu = clampInt(zu, 1, 63)

	return uint16(zu<<10 | zd<<5 | x)
}

// UnpackSolid16 is the inverse of PackSolid16.
func UnpackSolid16(solid uint16) (mins, maxs [3]float64) {
	x := 8 * int(solid&31)
	zd := 8 * int((solid>>5)&31)
	zu := 8*int((solid>>10)&63) - 32

	mins = [3]float64{float64(-x), float64(-x), float64(-zd)}
	maxs = [3]float64{float64(x), float64(x), float64(zu)}
	return mins, maxs
}

// PackSolid32 packs a bounding box into the wider symmetric 32-bit
// form used by R1Q2's long-solid (minor >= 1905), by every Q2PRO minor
// and by Q2rePRO: the same x/zd/zu layout as PackSolid16, widened to
// 10/10/12 bits so taller and larger boxes survive without clamping.
func PackSolid32(mins, maxs [3]float64) uint32 {
	x := int(maxs[0] / 8)
	zd := int(-mins[2] / 8)
	zu := int((maxs[2] + 32) / 8)

	x = clampInt(x, 1, 1023)
	zd = clampInt(zd, 1, 1023)
	zu = clampInt(zu, 1, 4095)

	return uint32(zu)<<20 | uint32(zd)<<10 | uint32(x)
}

// UnpackSolid32 is the inverse of PackSolid32.
func UnpackSolid32(solid uint32) (mins, maxs [3]float64) {
	x := 8 * int(solid&0x3ff)
	zd := 8 * int((solid>>10)&0x3ff)
	zu := 8*int((solid>>20)&0xfff) - 32

	mins = [3]float64{float64(-x), float64(-x), float64(-zd)}
	maxs = [3]float64{float64(x), float64(x), float64(zu)}
	return mins, maxs
}
