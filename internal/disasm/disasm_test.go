package disasm

import (
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestDisassemble(t *testing.T) {
	tests := []struct {
		name     string
		opcode   uint16
		expected string
	}{
		{"CLS instruction", 0x00E0, "cls"},
		{"RET instruction", 0x00EE, "ret"},
		{"JP instruction", 0x1234, "jp $234"},
		{"JP V0 instruction", 0xB234, "jp V0, $234"},
		{"CALL instruction", 0x2234, "call $234"},
		{"SE Vx, byte", 0x3234, "se V2, $34"},
		{"SE Vx, Vy", 0x5230, "se V2, V3"},
		{"SNE Vx, byte", 0x4234, "sne V2, $34"},
		{"SNE Vx, Vy", 0x9230, "sne V2, V3"},
		{"LD Vx, byte", 0x6234, "ld V2, $34"},
		{"LD Vx, Vy", 0x8230, "ld V2, V3"},
		{"LD I, addr", 0xA234, "ld I, $234"},
		{"ADD Vx, byte", 0x7234, "add V2, $34"},
		{"ADD Vx, Vy", 0x8234, "add V2, V3"},
		{"OR Vx, Vy", 0x8231, "or V2, V3"},
		{"AND Vx, Vy", 0x8232, "and V2, V3"},
		{"XOR Vx, Vy", 0x8233, "xor V2, V3"},
		{"SUB Vx, Vy", 0x8235, "sub V2, V3"},
		{"SUBN Vx, Vy", 0x8237, "subn V2, V3"},
		{"SHR Vx", 0x8236, "shr V2"},
		{"SHL Vx", 0x823E, "shl V2"},
		{"RND Vx, byte", 0xC234, "rnd V2, $34"},
		{"DRW Vx, Vy, n", 0xD235, "drw V2, V3, $5"},
		{"SKP Vx", 0xE29E, "skp V2"},
		{"SKNP Vx", 0xE2A1, "sknp V2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, known := Disassemble(tt.opcode)
			assert.True(t, known)
			assert.Equal(t, tt.expected, code)
		})
	}
}

func TestDisassemble_MiscOperands(t *testing.T) {
	tests := []struct {
		opcode uint16
		params string
	}{
		{0xF307, "V3, DT"},
		{0xF30A, "V3, K"},
		{0xF315, "DT, V3"},
		{0xF318, "ST, V3"},
		{0xF31E, "I, V3"},
		{0xF329, "F, V3"},
		{0xF333, "B, V3"},
		{0xF355, "[I], V3"},
		{0xF365, "V3, [I]"},
	}

	for _, tt := range tests {
		code, known := Disassemble(tt.opcode)
		assert.True(t, known)
		assert.True(t, strings.HasSuffix(code, " "+tt.params), code)
	}
}

func TestDisassembleWithQuirks(t *testing.T) {
	tests := []struct {
		name     string
		opcode   uint16
		quirks   vm.Quirks
		expected string
	}{
		{"jump offset V0", 0xB234, vm.Quirks{}, "jp V0, $234"},
		{"jump offset VX", 0xB234, vm.Quirks{JumpUsesVX: true}, "jp V2, $234"},
		{"jump offset VX high nibble", 0xBA10, vm.Quirks{JumpUsesVX: true}, "jp VA, $A10"},
		{"other instructions unchanged", 0x1234, vm.Quirks{JumpUsesVX: true}, "jp $234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, known := DisassembleWithQuirks(tt.opcode, tt.quirks)
			assert.True(t, known)
			assert.Equal(t, tt.expected, code)
		})
	}
}

func TestDisassemble_Unknown(t *testing.T) {
	code, known := Disassemble(0xFFFF)
	assert.False(t, known)
	assert.Equal(t, "db $FF, $FF", code)
}

func TestLookup(t *testing.T) {
	op, ok := Lookup(0x2300)
	assert.True(t, ok)
	assert.Equal(t, chip8.Call, op.Instruction)

	_, ok = Lookup(0xE100)
	assert.False(t, ok)
}

func TestListing(t *testing.T) {
	rom := []byte{
		0x22, 0x08, // call $208
		0xA2, 0x0C, // ld I, $20C
		0x12, 0x04, // jp $204
		0xFF, 0xFF, // unreachable
		0x3F, 0x01, // se VF, $01
		0x00, 0xEE, // ret
		0xF0, 0x90, // sprite
	}

	expected := []struct {
		address uint16
		label   string
		code    string
		known   bool
	}{
		{0x200, "Start", "call _func_208", true},
		{0x202, "", "ld I, _data_20c", true},
		{0x204, "_label_204", "jp _label_204", true},
		{0x206, "", "db $FF, $FF", false},
		{0x208, "_func_208", "se VF, $01", true},
		{0x20A, "", "ret", true},
		{0x20C, "_data_20c", "db $F0, $90", false},
	}

	lines := Listing(rom)
	assert.Len(t, lines, len(expected))
	for i, want := range expected {
		assert.Equal(t, want.address, lines[i].Address)
		assert.Equal(t, want.label, lines[i].Label)
		assert.Equal(t, want.code, lines[i].Code)
		assert.Equal(t, want.known, lines[i].Known)
	}
}

func TestListing_Data(t *testing.T) {
	tests := []struct {
		name  string
		rom   []byte
		codes []string
	}{
		{
			name:  "odd trailing byte",
			rom:   []byte{0x12, 0x00, 0xAB},
			codes: []string{"jp Start", "db $AB"},
		},
		{
			name:  "unknown first instruction",
			rom:   []byte{0xFF, 0xFF},
			codes: []string{"db $FF, $FF"},
		},
		{
			name: "data split into lines",
			rom:  append([]byte{0x12, 0x00}, make([]byte, 10)...),
			codes: []string{
				"jp Start",
				"db $00, $00, $00, $00, $00, $00, $00, $00",
				"db $00, $00",
			},
		},
		{
			name:  "jump outside of program",
			rom:   []byte{0x13, 0x00},
			codes: []string{"jp $300"},
		},
		{
			name:  "indirect jump ends trace",
			rom:   []byte{0xB2, 0x00, 0x00, 0xE0},
			codes: []string{"jp V0, $200", "db $00, $E0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Listing(tt.rom)
			assert.Len(t, lines, len(tt.codes))
			for i, code := range tt.codes {
				assert.Equal(t, code, lines[i].Code)
			}
		})
	}
}
