package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOpcode is matched by every *InvalidOpcodeError.
	ErrInvalidOpcode = errors.New("invalid opcode")
	// ErrStackOverflow is returned for a call with a full stack.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned for a return with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrMemoryAccess is returned for memory accesses outside of the address space.
	ErrMemoryAccess = errors.New("memory access out of range")
	// ErrProgramTooLarge is returned when a program does not fit into memory.
	ErrProgramTooLarge = errors.New("program too large")
)

// InvalidOpcodeError is returned when an instruction word does not match any
// known instruction.
type InvalidOpcodeError struct {
	Opcode uint16
	PC     uint16
}

func (e *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("invalid opcode $%04X at $%04X", e.Opcode, e.PC)
}

func (e *InvalidOpcodeError) Unwrap() error {
	return ErrInvalidOpcode
}

// FaultError is returned when a valid instruction violates the stack or
// memory bounds. The instruction has not modified any state.
type FaultError struct {
	Err     error
	Opcode  uint16
	PC      uint16
	Address int // faulting memory address, -1 for stack faults
}

func (e *FaultError) Error() string {
	if e.Address < 0 {
		return fmt.Sprintf("%s: opcode $%04X at $%04X", e.Err, e.Opcode, e.PC)
	}
	return fmt.Sprintf("%s: opcode $%04X at $%04X accessing $%04X", e.Err, e.Opcode, e.PC, e.Address)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}
