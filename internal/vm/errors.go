package vm

import (
	"errors"
	"fmt"
)

var (
	// ErrRomTooLarge is returned by Load for programs that do not fit into memory.
	ErrRomTooLarge = errors.New("rom too large")
	// ErrStackOverflow is returned when a call exceeds the stack depth.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when returning with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrUnimplementedOpcode is returned for instruction words that match no
	// known instruction. It is wrapped by OpcodeError.
	ErrUnimplementedOpcode = errors.New("unimplemented opcode")
	// ErrProgramCounterOutOfRange is returned when the program counter leaves
	// the memory, for example by running past the last instruction.
	ErrProgramCounterOutOfRange = errors.New("program counter out of range")
)

// OpcodeError describes an instruction word that could not be executed.
type OpcodeError struct {
	Word    uint16
	Address uint16
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("%s %04X at address %03X", ErrUnimplementedOpcode, e.Word, e.Address)
}

// Unwrap returns ErrUnimplementedOpcode.
func (e *OpcodeError) Unwrap() error {
	return ErrUnimplementedOpcode
}
