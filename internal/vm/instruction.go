package vm

import "fmt"

// Instruction is a decoded instruction word.
type Instruction struct {
	Word   uint16
	Family uint8 // first nibble, selects the instruction group
	X      uint8
	Y      uint8
	N      uint8
}

// Decode splits an instruction word into its nibbles.
func Decode(word uint16) Instruction {
	return Instruction{
		Word:   word,
		Family: uint8(word >> 12),
		X:      uint8(word>>8) & 0xF,
		Y:      uint8(word>>4) & 0xF,
		N:      uint8(word) & 0xF,
	}
}

// NN returns the low byte of the instruction.
func (i Instruction) NN() uint8 {
	return uint8(i.Word)
}

// NNN returns the low 12 bits of the instruction.
func (i Instruction) NNN() uint16 {
	return i.Word & 0x0FFF
}

func (i Instruction) String() string {
	return fmt.Sprintf("%04X", i.Word)
}

// lastFetchAddress is the highest address a complete instruction word can
// be read from.
const lastFetchAddress = MemorySize - 2

// fetch reads the instruction word at the program counter and advances it.
// The caller checks that the program counter is within lastFetchAddress.
func (v *VM) fetch() uint16 {
	hi := uint16(v.memory[v.pc])
	lo := uint16(v.memory[v.pc+1])
	v.pc += 2
	return hi<<8 | lo
}
