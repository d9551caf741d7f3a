// Package insts provides LC-3 instruction definitions and decoding.
package insts

// SignExtend treats the low bitCount bits of x as a two's-complement
// integer and widens it to a 16-bit word: if bit bitCount-1 is set, the
// bits above it are forced to 1, otherwise they are cleared. The caller
// must pass x with the bits above bitCount already zero, which is what
// the decoder's masks produce.
func SignExtend(x uint16, bitCount uint) uint16 {
	if (x>>(bitCount-1))&1 == 1 {
		x |= ^uint16(0) << bitCount
	}
	return x
}

// Swap16 exchanges the two bytes of a 16-bit word. Object images store
// words big-endian; the host may not.
func Swap16(x uint16) uint16 {
	return x<<8 | x>>8
}
