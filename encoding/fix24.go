package encoding

import "math"

// Fix24Scale is the factor floats are multiplied by before their bit pattern is truncated.
const Fix24Scale = 25600.0

// Fix24Size is the number of bytes a FIX24 value occupies.
const Fix24Size = 3

// AppendFix24 appends the FIX24 form of f to dst.
//
// The float is scaled by Fix24Scale and the least significant byte of the scaled value's
// IEEE-754 bit pattern is dropped; bytes 1, 2 and 3 are appended in that order.
// The encoding truncates the mantissa to 15 bits, so a decoded value is within
// |f| * 2^-15 of the original.
func AppendFix24(dst []byte, f float32) []byte {
	bits := math.Float32bits(f * Fix24Scale)

	return append(dst, byte(bits>>8), byte(bits>>16), byte(bits>>24))
}

// Fix24 decodes the first three bytes of src as a FIX24 value.
//
// The bytes are placed at offsets 1..3 of a zeroed 32-bit word, which is reinterpreted as a
// float and divided by Fix24Scale. src must hold at least Fix24Size bytes.
func Fix24(src []byte) float32 {
	_ = src[2]
	bits := uint32(src[0])<<8 | uint32(src[1])<<16 | uint32(src[2])<<24

	return math.Float32frombits(bits) / Fix24Scale
}
