// Package emu provides functional LC-3 emulation.
package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/m2sim/insts"
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Halted is true if the program terminated (via TRAP HALT).
	Halted bool

	// Err is set if an error occurred during execution.
	Err error
}

// Emulator executes LC-3 instructions functionally. It owns the machine
// state — register file and memory — for the lifetime of one run.
type Emulator struct {
	regFile     *RegFile
	memory      *Memory
	decoder     *insts.Decoder
	trapHandler TrapHandler
	keyboard    Keyboard

	// I/O
	stdout io.Writer

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithStdout sets a custom stdout writer for the trap routines.
func WithStdout(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stdout = w
	}
}

// WithKeyboard attaches a keyboard, polled through the memory-mapped
// status register and read by the input traps.
func WithKeyboard(keyboard Keyboard) EmulatorOption {
	return func(e *Emulator) {
		e.keyboard = keyboard
	}
}

// WithTrapHandler sets a custom trap handler.
func WithTrapHandler(handler TrapHandler) EmulatorOption {
	return func(e *Emulator) {
		e.trapHandler = handler
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new LC-3 emulator in the power-on state.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: NewRegFile(),
		memory:  NewMemory(),
		decoder: insts.NewDecoder(),
		stdout:  os.Stdout,
	}

	// Apply options first (may set stdout/keyboard)
	for _, opt := range opts {
		opt(e)
	}

	e.memory.AttachKeyboard(e.keyboard)

	// If no trap handler was provided, create a default one
	if e.trapHandler == nil {
		e.trapHandler = NewDefaultTrapHandler(e.regFile, e.memory, e.keyboard, e.stdout)
	}

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadImage places an object image's payload into memory at its origin.
// Successive calls overlay each image; later writes win.
func (e *Emulator) LoadImage(origin uint16, words []uint16) {
	e.memory.LoadWords(origin, words)
}

// Reset returns the emulator to its power-on state. The keyboard, stdout,
// and instruction limit are kept; memory and registers are cleared.
func (e *Emulator) Reset() {
	e.regFile = NewRegFile()
	e.memory = NewMemory()
	e.memory.AttachKeyboard(e.keyboard)
	e.instructionCount = 0

	// Recreate the trap handler against the fresh state
	e.trapHandler = NewDefaultTrapHandler(e.regFile, e.memory, e.keyboard, e.stdout)
}

// Step executes a single instruction.
// Returns a StepResult indicating whether execution should continue.
func (e *Emulator) Step() StepResult {
	// Check instruction limit before executing
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{
			Err: fmt.Errorf("max instructions reached"),
		}
	}

	// 1. Fetch: read the word at PC, then post-increment (wrapping)
	word := e.memory.Read(e.regFile.PC)
	e.regFile.PC++

	// 2. Decode
	inst := e.decoder.Decode(word)

	// 3. Execute
	result := e.execute(inst)

	e.instructionCount++

	return result
}

// Run executes instructions until the program halts or an error occurs.
func (e *Emulator) Run() error {
	for {
		result := e.Step()
		if result.Halted {
			return nil
		}
		if result.Err != nil {
			return result.Err
		}
	}
}

// execute dispatches a decoded instruction. PC already points at the next
// instruction, so PC-relative operands add onto the incremented value.
func (e *Emulator) execute(inst *insts.Instruction) StepResult {
	switch inst.Op {
	case insts.OpADD:
		e.executeADD(inst)
	case insts.OpAND:
		e.executeAND(inst)
	case insts.OpNOT:
		e.executeNOT(inst)
	case insts.OpBR:
		e.executeBR(inst)
	case insts.OpJMP:
		e.regFile.PC = e.regFile.Read(inst.BaseR)
	case insts.OpJSR:
		e.executeJSR(inst)
	case insts.OpLD:
		e.regFile.Write(inst.DR, e.memory.Read(e.regFile.PC+inst.PCOffset))
		e.regFile.SetFlags(inst.DR)
	case insts.OpLDI:
		e.regFile.Write(inst.DR, e.memory.Read(e.memory.Read(e.regFile.PC+inst.PCOffset)))
		e.regFile.SetFlags(inst.DR)
	case insts.OpLDR:
		e.regFile.Write(inst.DR, e.memory.Read(e.regFile.Read(inst.BaseR)+inst.Offset))
		e.regFile.SetFlags(inst.DR)
	case insts.OpLEA:
		e.regFile.Write(inst.DR, e.regFile.PC+inst.PCOffset)
		e.regFile.SetFlags(inst.DR)
	case insts.OpST:
		e.memory.Write(e.regFile.PC+inst.PCOffset, e.regFile.Read(inst.SR))
	case insts.OpSTI:
		e.memory.Write(e.memory.Read(e.regFile.PC+inst.PCOffset), e.regFile.Read(inst.SR))
	case insts.OpSTR:
		e.memory.Write(e.regFile.Read(inst.BaseR)+inst.Offset, e.regFile.Read(inst.SR))
	case insts.OpTRAP:
		return e.executeTRAP(inst)
	case insts.OpRES, insts.OpRTI:
		return StepResult{
			Err: fmt.Errorf("illegal instruction %v (0x%04X) at PC=0x%04X",
				inst.Op, inst.Raw, e.regFile.PC-1),
		}
	}

	return StepResult{}
}

// executeADD implements reg[DR] = reg[SR1] + operand, where the operand
// is either reg[SR2] or the sign-extended imm5. Addition wraps modulo
// 2^16.
func (e *Emulator) executeADD(inst *insts.Instruction) {
	operand := e.regFile.Read(inst.SR2)
	if inst.ImmMode {
		operand = inst.Imm
	}
	e.regFile.Write(inst.DR, e.regFile.Read(inst.SR1)+operand)
	e.regFile.SetFlags(inst.DR)
}

// executeAND implements reg[DR] = reg[SR1] & operand.
func (e *Emulator) executeAND(inst *insts.Instruction) {
	operand := e.regFile.Read(inst.SR2)
	if inst.ImmMode {
		operand = inst.Imm
	}
	e.regFile.Write(inst.DR, e.regFile.Read(inst.SR1)&operand)
	e.regFile.SetFlags(inst.DR)
}

// executeNOT implements reg[DR] = ^reg[SR1].
func (e *Emulator) executeNOT(inst *insts.Instruction) {
	e.regFile.Write(inst.DR, ^e.regFile.Read(inst.SR1))
	e.regFile.SetFlags(inst.DR)
}

// executeBR branches when the instruction's nzp mask intersects COND. A
// zero mask never branches; the 111 mask always does.
func (e *Emulator) executeBR(inst *insts.Instruction) {
	if inst.NZP&uint16(e.regFile.COND) != 0 {
		e.regFile.PC += inst.PCOffset
	}
}

// executeJSR saves the return address in R7 before the jump, so a
// subroutine's JMP R7 lands on the instruction after the call.
func (e *Emulator) executeJSR(inst *insts.Instruction) {
	e.regFile.Write(7, e.regFile.PC)
	if inst.PCRel {
		e.regFile.PC += inst.PCOffset
	} else {
		e.regFile.PC = e.regFile.Read(inst.BaseR)
	}
}

// executeTRAP saves the return address in R7 and runs the service
// routine for the instruction's vector.
func (e *Emulator) executeTRAP(inst *insts.Instruction) StepResult {
	e.regFile.Write(7, e.regFile.PC)

	trapResult, err := e.trapHandler.Handle(inst.TrapVect)
	if err != nil {
		return StepResult{Err: fmt.Errorf("trap 0x%02X at PC=0x%04X: %w",
			inst.TrapVect, e.regFile.PC-1, err)}
	}

	return StepResult{Halted: trapResult.Halted}
}
