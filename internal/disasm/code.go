package disasm

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrochip8/internal/vm"
)

const (
	startLabel  = "Start"
	funcNaming  = "_func_%03x"
	labelNaming = "_label_%03x"
	dataNaming  = "_data_%03x"

	dataBytesPerLine = 8
)

// reference kinds, a higher value wins the label naming.
type reference int

const (
	dataReference reference = iota + 1
	jumpReference
	callReference
)

// analysis traces the control flow of a program to separate reachable
// instructions from data.
type analysis struct {
	rom    []byte
	code   map[uint16]bool
	refs   map[uint16]reference
	toScan []uint16
}

// Listing disassembles a program as loaded at the program start address.
// Instructions reachable from the start address are listed as code, all
// other bytes as data. Jump, call and index targets inside the program get
// labels that replace the raw addresses in the referencing instructions.
func Listing(rom []byte) []Line {
	a := &analysis{
		rom:  rom,
		code: map[uint16]bool{},
		refs: map[uint16]reference{},
	}
	a.trace(vm.ProgramStart)

	lines := a.lines()
	resolveLabels(lines)
	return lines
}

func (a *analysis) inROM(address uint16, size int) bool {
	offset := int(address) - vm.ProgramStart
	return offset >= 0 && offset+size <= len(a.rom)
}

func (a *analysis) word(address uint16) uint16 {
	offset := int(address) - vm.ProgramStart
	return uint16(a.rom[offset])<<8 | uint16(a.rom[offset+1])
}

func (a *analysis) trace(start uint16) {
	a.toScan = append(a.toScan, start)
	for len(a.toScan) > 0 {
		address := a.toScan[len(a.toScan)-1]
		a.toScan = a.toScan[:len(a.toScan)-1]
		a.follow(address)
	}
}

// follow marks instructions as code starting at the address until the
// control flow leaves the linear path.
func (a *analysis) follow(address uint16) {
	for !a.code[address] && a.inROM(address, 2) {
		word := a.word(address)
		if _, ok := Lookup(word); !ok {
			// consider an unknown instruction as start of data
			return
		}
		a.code[address] = true

		ins := vm.Decode(word)
		next := address + 2

		switch ins.Family {
		case 0x0:
			if word == 0x00EE {
				return
			}

		case 0x1:
			a.addReference(ins.NNN(), jumpReference)
			a.toScan = append(a.toScan, ins.NNN())
			return

		case 0x2:
			a.addReference(ins.NNN(), callReference)
			a.toScan = append(a.toScan, ins.NNN())

		case 0x3, 0x4, 0x5, 0x9, 0xE:
			a.toScan = append(a.toScan, next+2)

		case 0xA:
			a.addReference(ins.NNN(), dataReference)

		case 0xB:
			// the target depends on a register value
			return
		}
		address = next
	}
}

func (a *analysis) addReference(target uint16, kind reference) {
	if !a.inROM(target, 1) {
		return
	}
	if a.refs[target] < kind {
		a.refs[target] = kind
	}
}

func (a *analysis) label(address uint16) string {
	if address == vm.ProgramStart {
		return startLabel
	}
	switch a.refs[address] {
	case callReference:
		return fmt.Sprintf(funcNaming, address)
	case jumpReference:
		return fmt.Sprintf(labelNaming, address)
	case dataReference:
		return fmt.Sprintf(dataNaming, address)
	default:
		return ""
	}
}

func (a *analysis) lines() []Line {
	var lines []Line
	end := vm.ProgramStart + len(a.rom)

	for address := vm.ProgramStart; address < end; {
		addr := uint16(address)
		offset := address - vm.ProgramStart

		if a.code[addr] {
			code, _ := Disassemble(a.word(addr))
			lines = append(lines, Line{
				Address: addr,
				Bytes:   a.rom[offset : offset+2],
				Code:    code,
				Label:   a.label(addr),
				Known:   true,
			})
			address += 2
			continue
		}

		// bundle data bytes until the next instruction or label
		next := address + 1
		for next < end && next-address < dataBytesPerLine &&
			!a.code[uint16(next)] && a.refs[uint16(next)] == 0 {
			next++
		}
		data := a.rom[offset : next-vm.ProgramStart]
		lines = append(lines, Line{
			Address: addr,
			Bytes:   data,
			Code:    dataDirective(data),
			Label:   a.label(addr),
		})
		address = next
	}
	return lines
}

// resolveLabels replaces the target addresses of jumps, calls and index
// loads with the label of the target line.
func resolveLabels(lines []Line) {
	labels := make(map[uint16]string, len(lines))
	for _, line := range lines {
		if line.Label != "" {
			labels[line.Address] = line.Label
		}
	}

	for i, line := range lines {
		if !line.Known {
			continue
		}
		word := uint16(line.Bytes[0])<<8 | uint16(line.Bytes[1])
		ins := vm.Decode(word)
		label, ok := labels[ins.NNN()]
		if !ok {
			continue
		}

		op, _ := Lookup(word)
		switch ins.Family {
		case 0x1, 0x2:
			lines[i].Code = fmt.Sprintf("%s %s", op.Instruction.Name, label)
		case 0xA:
			lines[i].Code = fmt.Sprintf("%s I, %s", op.Instruction.Name, label)
		}
	}
}

func dataDirective(data []byte) string {
	buf := &strings.Builder{}
	buf.WriteString("db ")
	for i, b := range data {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(buf, "$%02X", b)
	}
	return buf.String()
}
