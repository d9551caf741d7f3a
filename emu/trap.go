// Package emu provides functional LC-3 emulation.
package emu

import (
	"fmt"
	"io"
)

// LC-3 trap vectors.
const (
	TrapGETC  uint8 = 0x20 // read one character, no echo
	TrapOUT   uint8 = 0x21 // write one character
	TrapPUTS  uint8 = 0x22 // write a word-per-character string
	TrapIN    uint8 = 0x23 // prompt, read one character, echo
	TrapPUTSP uint8 = 0x24 // write a byte-packed string
	TrapHALT  uint8 = 0x25 // stop the machine
)

// InPrompt is the prompt TRAP IN prints before reading. Guest programs
// may depend on the exact text.
const InPrompt = "Enter a character: "

// TrapResult represents the result of a trap service routine.
type TrapResult struct {
	// Halted is true if the routine stopped the machine (TRAP HALT).
	Halted bool
}

// TrapHandler is the interface for servicing TRAP instructions. The
// emulator has already saved the return address in R7 when Handle is
// called.
type TrapHandler interface {
	// Handle executes the service routine for the given trap vector.
	// Vectors outside the six defined codes are an error.
	Handle(vector uint8) (TrapResult, error)
}

// DefaultTrapHandler services the six LC-3 console traps against an
// io.Writer and a Keyboard.
type DefaultTrapHandler struct {
	regFile  *RegFile
	memory   *Memory
	keyboard Keyboard
	stdout   io.Writer
}

// NewDefaultTrapHandler creates a trap handler bound to the given machine
// state. The keyboard may be nil, in which case GETC and IN fail rather
// than block forever.
func NewDefaultTrapHandler(regFile *RegFile, memory *Memory, keyboard Keyboard, stdout io.Writer) *DefaultTrapHandler {
	return &DefaultTrapHandler{
		regFile:  regFile,
		memory:   memory,
		keyboard: keyboard,
		stdout:   stdout,
	}
}

// Handle executes the service routine for the given trap vector.
func (h *DefaultTrapHandler) Handle(vector uint8) (TrapResult, error) {
	switch vector {
	case TrapGETC:
		return h.handleGETC()
	case TrapOUT:
		return h.handleOUT()
	case TrapPUTS:
		return h.handlePUTS()
	case TrapIN:
		return h.handleIN()
	case TrapPUTSP:
		return h.handlePUTSP()
	case TrapHALT:
		return h.handleHALT()
	default:
		return TrapResult{}, fmt.Errorf("unknown trap vector 0x%02X", vector)
	}
}

// handleGETC reads one character into R0 without echoing it.
func (h *DefaultTrapHandler) handleGETC() (TrapResult, error) {
	c, err := h.readKey()
	if err != nil {
		return TrapResult{}, err
	}
	h.regFile.Write(0, uint16(c))
	h.regFile.SetFlags(0)
	return TrapResult{}, nil
}

// handleOUT writes the low byte of R0.
func (h *DefaultTrapHandler) handleOUT() (TrapResult, error) {
	if err := h.emit(byte(h.regFile.Read(0))); err != nil {
		return TrapResult{}, err
	}
	return TrapResult{}, h.flush()
}

// handlePUTS writes the word-per-character string starting at the address
// in R0, stopping at the first zero word.
func (h *DefaultTrapHandler) handlePUTS() (TrapResult, error) {
	for addr := h.regFile.Read(0); ; addr++ {
		word := h.memory.Read(addr)
		if word == 0 {
			break
		}
		if err := h.emit(byte(word)); err != nil {
			return TrapResult{}, err
		}
	}
	return TrapResult{}, h.flush()
}

// handleIN prompts, reads one character, echoes it, and stores it in R0.
func (h *DefaultTrapHandler) handleIN() (TrapResult, error) {
	if _, err := io.WriteString(h.stdout, InPrompt); err != nil {
		return TrapResult{}, err
	}
	c, err := h.readKey()
	if err != nil {
		return TrapResult{}, err
	}
	if err := h.emit(c); err != nil {
		return TrapResult{}, err
	}
	if err := h.flush(); err != nil {
		return TrapResult{}, err
	}
	h.regFile.Write(0, uint16(c))
	h.regFile.SetFlags(0)
	return TrapResult{}, nil
}

// handlePUTSP writes the byte-packed string starting at the address in
// R0: for each nonzero word the low byte, then the high byte if nonzero,
// stopping at the first zero word.
func (h *DefaultTrapHandler) handlePUTSP() (TrapResult, error) {
	for addr := h.regFile.Read(0); ; addr++ {
		word := h.memory.Read(addr)
		if word == 0 {
			break
		}
		if err := h.emit(byte(word)); err != nil {
			return TrapResult{}, err
		}
		if high := byte(word >> 8); high != 0 {
			if err := h.emit(high); err != nil {
				return TrapResult{}, err
			}
		}
	}
	return TrapResult{}, h.flush()
}

// handleHALT announces the halt and stops the machine.
func (h *DefaultTrapHandler) handleHALT() (TrapResult, error) {
	if _, err := io.WriteString(h.stdout, "HALT\n"); err != nil {
		return TrapResult{}, err
	}
	return TrapResult{Halted: true}, h.flush()
}

func (h *DefaultTrapHandler) readKey() (byte, error) {
	if h.keyboard == nil {
		return 0, fmt.Errorf("trap input requested but no keyboard attached")
	}
	return h.keyboard.ReadKey(), nil
}

func (h *DefaultTrapHandler) emit(c byte) error {
	_, err := h.stdout.Write([]byte{c})
	return err
}

// flush drains buffered output so the guest's console writes defeat line
// buffering. Writers without a Flush method are assumed unbuffered.
func (h *DefaultTrapHandler) flush() error {
	if f, ok := h.stdout.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
