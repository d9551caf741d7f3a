// Package emu provides functional LC-3 emulation.
package emu

// Flag is a condition-flag value. Exactly one flag is set at any time.
type Flag uint16

// Condition flags. COND reflects the sign of the last general-register
// write: negative, zero, or positive.
const (
	FlagP Flag = 1 << 0 // positive
	FlagZ Flag = 1 << 1 // zero
	FlagN Flag = 1 << 2 // negative
)

// PCStart is the power-on program counter. Addresses below it are
// conventionally reserved for operating-system code.
const PCStart uint16 = 0x3000

// RegFile represents the LC-3 register file: eight general-purpose
// registers, the program counter, and the condition flags.
type RegFile struct {
	// R holds general-purpose registers R0-R7.
	R [8]uint16

	// PC is the program counter.
	PC uint16

	// COND holds the condition flags.
	COND Flag
}

// NewRegFile creates a register file in the power-on state: registers
// zeroed, PC at PCStart, and the zero flag set.
func NewRegFile() *RegFile {
	return &RegFile{
		PC:   PCStart,
		COND: FlagZ,
	}
}

// Read reads a general-purpose register.
func (r *RegFile) Read(reg uint8) uint16 {
	return r.R[reg&0x7]
}

// Write writes a value to a general-purpose register. It does not touch
// the condition flags; instructions that set flags call SetFlags after.
func (r *RegFile) Write(reg uint8, value uint16) {
	r.R[reg&0x7] = value
}

// SetFlags derives COND from the contents of the given register: N if
// bit 15 is set, Z if the value is zero, P otherwise.
func (r *RegFile) SetFlags(reg uint8) {
	switch value := r.R[reg&0x7]; {
	case value == 0:
		r.COND = FlagZ
	case value>>15 == 1:
		r.COND = FlagN
	default:
		r.COND = FlagP
	}
}
