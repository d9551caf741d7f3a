// Package emu provides functional LC-3 emulation.
package emu

// MemorySize is the number of addressable words: the LC-3 has a 16-bit
// word-addressed space.
const MemorySize = 1 << 16

// Memory-mapped keyboard registers. Reading MRKBSR polls the attached
// keyboard; writes to either address are plain stores with no
// architectural meaning.
const (
	// MRKBSR is the keyboard status register. Bit 15 signals a key is
	// ready.
	MRKBSR uint16 = 0xFE00

	// MRKBDR is the keyboard data register, holding the last key read.
	MRKBDR uint16 = 0xFE02
)

// KBSRReady is the value stored in MRKBSR when a key is available.
const KBSRReady uint16 = 0x8000

// Keyboard is the capability the memory system needs from the host
// terminal adapter. KeyReady must not block; ReadKey blocks until a byte
// is available.
type Keyboard interface {
	// KeyReady reports whether a key is available without blocking.
	KeyReady() bool

	// ReadKey reads one byte from the keyboard, blocking until one is
	// available.
	ReadKey() byte
}

// Memory is the LC-3 word-addressed store. Every 16-bit address is valid;
// there is no protection. The keyboard status address has read
// side-effects (see Read).
type Memory struct {
	words    [MemorySize]uint16
	keyboard Keyboard
}

// NewMemory creates a zeroed memory with no keyboard attached.
func NewMemory() *Memory {
	return &Memory{}
}

// AttachKeyboard connects the host keyboard polled by reads of MRKBSR.
// A nil keyboard leaves MRKBSR permanently not-ready.
func (m *Memory) AttachKeyboard(keyboard Keyboard) {
	m.keyboard = keyboard
}

// Read returns the word at addr. When addr is MRKBSR it first polls the
// keyboard: if a key is ready, MRKBSR is set to KBSRReady and the key is
// stored in MRKBDR; otherwise MRKBSR is cleared. Guest programs busy-wait
// on bit 15 of MRKBSR, so polling at read time is sufficient.
func (m *Memory) Read(addr uint16) uint16 {
	if addr == MRKBSR {
		m.pollKeyboard()
	}
	return m.words[addr]
}

// Write unconditionally stores value at addr.
func (m *Memory) Write(addr, value uint16) {
	m.words[addr] = value
}

// LoadWords places words into memory at ascending addresses starting at
// origin. Words that would fall past the end of the address space are
// discarded.
func (m *Memory) LoadWords(origin uint16, words []uint16) {
	max := MemorySize - int(origin)
	if len(words) > max {
		words = words[:max]
	}
	copy(m.words[origin:], words)
}

func (m *Memory) pollKeyboard() {
	if m.keyboard != nil && m.keyboard.KeyReady() {
		m.words[MRKBSR] = KBSRReady
		m.words[MRKBDR] = uint16(m.keyboard.ReadKey())
	} else {
		m.words[MRKBSR] = 0
	}
}
