// Package disasm formats CHIP-8 programs as assembly text.
// Instruction names come from the retrogolib CHIP-8 opcode tables,
// operands are formatted from the instruction nibbles.
package disasm

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Line is a single listing line, either an instruction or a run of data bytes.
type Line struct {
	Address uint16
	Bytes   []byte
	Code    string
	Label   string
	Known   bool // true for traced instructions, false for data
}

// Lookup returns the opcode table entry matching the instruction word.
func Lookup(word uint16) (chip8.Opcode, bool) {
	firstNibble := (word & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&word == op.Info.Value {
			return op, op.Instruction != nil
		}
	}
	return chip8.Opcode{}, false
}

// Disassemble returns the assembly text of the instruction word and whether
// the word is a known instruction. Unknown words are returned as a data
// directive. BNNN is shown with its original V0 operand.
func Disassemble(word uint16) (string, bool) {
	return DisassembleWithQuirks(word, vm.Quirks{})
}

// DisassembleWithQuirks works like Disassemble but shows the operands that
// the quirks select, BNNN lists VX as offset register when JumpUsesVX is set.
func DisassembleWithQuirks(word uint16, quirks vm.Quirks) (string, bool) {
	op, ok := Lookup(word)
	if !ok {
		return fmt.Sprintf("db $%02X, $%02X", word>>8, word&0xFF), false
	}

	name := op.Instruction.Name
	if params := formatParams(vm.Decode(word), quirks); params != "" {
		return fmt.Sprintf("%s %s", name, params), true
	}
	return name, true
}

// formatParams formats the operands of an instruction.
func formatParams(ins vm.Instruction, quirks vm.Quirks) string {
	switch ins.Family {
	case 0x0:
		return ""
	case 0x1, 0x2:
		return fmt.Sprintf("$%03X", ins.NNN())
	case 0xB:
		if quirks.JumpUsesVX {
			return fmt.Sprintf("V%X, $%03X", ins.X, ins.NNN())
		}
		return fmt.Sprintf("V0, $%03X", ins.NNN())
	case 0x3, 0x4, 0x6, 0x7, 0xC:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.NN())
	case 0x5, 0x9:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	case 0x8:
		return formatArithmetic(ins)
	case 0xA:
		return fmt.Sprintf("I, $%03X", ins.NNN())
	case 0xD:
		return fmt.Sprintf("V%X, V%X, $%X", ins.X, ins.Y, ins.N)
	case 0xE:
		return fmt.Sprintf("V%X", ins.X)
	default:
		return formatMisc(ins)
	}
}

// formatArithmetic formats 8XYN instructions, shifts only list VX.
func formatArithmetic(ins vm.Instruction) string {
	if ins.N == 0x6 || ins.N == 0xE {
		return fmt.Sprintf("V%X", ins.X)
	}
	return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
}

// formatMisc formats FXNN instructions.
func formatMisc(ins vm.Instruction) string {
	switch ins.NN() {
	case 0x07:
		return fmt.Sprintf("V%X, DT", ins.X)
	case 0x0A:
		return fmt.Sprintf("V%X, K", ins.X)
	case 0x15:
		return fmt.Sprintf("DT, V%X", ins.X)
	case 0x18:
		return fmt.Sprintf("ST, V%X", ins.X)
	case 0x1E:
		return fmt.Sprintf("I, V%X", ins.X)
	case 0x29:
		return fmt.Sprintf("F, V%X", ins.X)
	case 0x33:
		return fmt.Sprintf("B, V%X", ins.X)
	case 0x55:
		return fmt.Sprintf("[I], V%X", ins.X)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", ins.X)
	default:
		return ""
	}
}
