// Package scalar implements the "variant scalar" value model shared by
// every dialect: coordinates, angles, small offsets/angles and blend
// components can each arrive on the wire in more than one
// representation (float, scaled int, 8/16-bit scaled int), and a
// variant scalar remembers which one it was set in so it can be
// re-encoded losslessly when the dialect that produced it also
// consumes it, while still answering any other representation a
// caller asks for.
package scalar

// clampedMul mirrors the source's _q2proto_valenc_clamped_mul: scale a
// float, then clamp to an integer range before truncating.
func clampedMul(x float64, scale, min, max int32) int32 {
	v := x * float64(scale)
	if v < float64(min) {
		return min
	}
	if v > float64(max) {
		return max
	}
	return int32(v)
}

// Int2Coord decodes a coordinate from its 1/8-unit integer form.
func Int2Coord(x int32) float64 { return float64(x) * 0.125 }

// Coord2Int encodes a coordinate to its 1/8-unit integer form.
func Coord2Int(x float64) int32 { return clampedMul(x, 8, -1<<31, 1<<31-1) }

// Short2Angle decodes an angle (degrees) from a 16-bit scaled integer.
func Short2Angle(x int16) float64 { return float64(x) * (360.0 / 65536) }

// Angle2Short encodes an angle (degrees) to a 16-bit scaled integer.
func Angle2Short(x float64) int16 { return int16(int64(x*65536/360) & 65535) }

// Char2Angle decodes an angle (degrees) from an 8-bit scaled integer.
func Char2Angle(x int8) float64 { return float64(x) * (360.0 / 256) }

// Angle2Char encodes an angle (degrees) to an 8-bit scaled integer.
func Angle2Char(x float64) int8 { return int8(int64(x*256/360) & 255) }

// Char2SmallOffset decodes a small coordinate (-32..31.75) from an
// 8-bit scaled integer.
func Char2SmallOffset(x int8) float64 { return float64(x) * 0.25 }

// SmallOffset2Char encodes a small coordinate (-32..31.75) to an 8-bit
// scaled integer.
func SmallOffset2Char(x float64) int8 { return int8(clampedMul(x, 4, -128, 127)) }

// Char2SmallAngle decodes a small angle (-32..31.75 degrees) from an
// 8-bit scaled integer. Same scale as a small offset.
func Char2SmallAngle(x int8) float64 { return float64(x) * 0.25 }

// SmallAngle2Char encodes a small angle (-32..31.75 degrees) to an
// 8-bit scaled integer.
func SmallAngle2Char(x float64) int8 { return int8(clampedMul(x, 4, -128, 127)) }

// Byte2Blend decodes a blend component (0..1) from an unsigned byte.
func Byte2Blend(x uint8) float64 { return float64(x) / 255 }

// Blend2Byte encodes a blend component (0..1) to an unsigned byte.
func Blend2Byte(x float64) uint8 { return uint8(clampedMul(x, 255, 0, 255)) }

func clip16(a int32) int16 {
	if a > 32767 {
		return 32767
	}
	if a < -32768 {
		return -32768
	}
	return int16(a)
}
