package vm

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

type handler func(v *VM, ins Instruction) error

// families maps the first nibble of an instruction to its handler.
var families = [16]handler{
	0x0: (*VM).execSystem,
	0x1: (*VM).execJump,
	0x2: (*VM).execCall,
	0x3: (*VM).execSkipEqualImmediate,
	0x4: (*VM).execSkipNotEqualImmediate,
	0x5: (*VM).execSkipEqualRegister,
	0x6: (*VM).execLoadImmediate,
	0x7: (*VM).execAddImmediate,
	0x8: (*VM).execArithmetic,
	0x9: (*VM).execSkipNotEqualRegister,
	0xA: (*VM).execLoadIndex,
	0xB: (*VM).execJumpOffset,
	0xC: (*VM).execRandom,
	0xD: (*VM).execDraw,
	0xE: (*VM).execKey,
	0xF: (*VM).execMisc,
}

// Step runs one cycle. In Running mode the next instruction is fetched and
// executed. In WaitingForKey mode the keypad is polled instead. A halted
// machine returns the error that halted it.
func (v *VM) Step() error {
	switch v.mode {
	case Halted:
		return v.err
	case WaitingForKey:
		v.pollKeypad()
		return nil
	}

	address := v.pc
	if address > lastFetchAddress {
		err := fmt.Errorf("%w: %03X", ErrProgramCounterOutOfRange, address)
		return v.stop(address, 0, err)
	}

	ins := Decode(v.fetch())
	if err := families[ins.Family](v, ins); err != nil {
		return v.halt(address, ins, err)
	}
	return nil
}

func (v *VM) halt(address uint16, ins Instruction, err error) error {
	if errors.Is(err, ErrUnimplementedOpcode) {
		err = &OpcodeError{Word: ins.Word, Address: address}
	} else {
		err = fmt.Errorf("executing %s at address %03X: %w", ins, address, err)
	}
	return v.stop(address, ins.Word, err)
}

// stop puts the machine into the Halted mode until the next Reset.
func (v *VM) stop(address, word uint16, err error) error {
	v.mode = Halted
	v.err = err
	v.logger.Debug("Machine halted",
		log.Hex("address", address),
		log.Hex("opcode", word),
		log.Err(err))
	return err
}

func (v *VM) pollKeypad() {
	for key, pressed := range v.keys {
		if !pressed {
			continue
		}
		v.registers[v.waitReg] = uint8(key)
		v.mode = Running
		return
	}
}

func (v *VM) skipIf(cond bool) {
	if cond {
		v.pc += 2
	}
}

func (v *VM) push(address uint16) error {
	if v.sp >= StackDepth {
		return ErrStackOverflow
	}
	v.stack[v.sp] = address
	v.sp++
	return nil
}

func (v *VM) pop() (uint16, error) {
	if v.sp == 0 {
		return 0, ErrStackUnderflow
	}
	v.sp--
	return v.stack[v.sp], nil
}

// execSystem handles 0000 (no-op), 00E0 (clear screen) and 00EE (return).
func (v *VM) execSystem(ins Instruction) error {
	switch ins.Word {
	case 0x0000:
		return nil

	case 0x00E0:
		v.framebuffer = Framebuffer{}
		return nil

	case 0x00EE:
		address, err := v.pop()
		if err != nil {
			return err
		}
		v.pc = address
		return nil

	default:
		return ErrUnimplementedOpcode
	}
}

func (v *VM) execJump(ins Instruction) error {
	v.pc = ins.NNN()
	return nil
}

func (v *VM) execCall(ins Instruction) error {
	if err := v.push(v.pc); err != nil {
		return err
	}
	v.pc = ins.NNN()
	return nil
}

func (v *VM) execSkipEqualImmediate(ins Instruction) error {
	v.skipIf(v.registers[ins.X] == ins.NN())
	return nil
}

func (v *VM) execSkipNotEqualImmediate(ins Instruction) error {
	v.skipIf(v.registers[ins.X] != ins.NN())
	return nil
}

func (v *VM) execSkipEqualRegister(ins Instruction) error {
	if ins.N != 0 {
		return ErrUnimplementedOpcode
	}
	v.skipIf(v.registers[ins.X] == v.registers[ins.Y])
	return nil
}

func (v *VM) execSkipNotEqualRegister(ins Instruction) error {
	if ins.N != 0 {
		return ErrUnimplementedOpcode
	}
	v.skipIf(v.registers[ins.X] != v.registers[ins.Y])
	return nil
}

func (v *VM) execLoadImmediate(ins Instruction) error {
	v.registers[ins.X] = ins.NN()
	return nil
}

// execAddImmediate adds without touching the flag register.
func (v *VM) execAddImmediate(ins Instruction) error {
	v.registers[ins.X] += ins.NN()
	return nil
}

// execArithmetic handles the 8XYN register to register operations.
// The flag register is written last so that it wins when X is VF.
func (v *VM) execArithmetic(ins Instruction) error {
	vx := v.registers[ins.X]
	vy := v.registers[ins.Y]

	switch ins.N {
	case 0x0:
		v.registers[ins.X] = vy

	case 0x1, 0x2, 0x3:
		switch ins.N {
		case 0x1:
			v.registers[ins.X] = vx | vy
		case 0x2:
			v.registers[ins.X] = vx & vy
		default:
			v.registers[ins.X] = vx ^ vy
		}
		if v.quirks.LogicResetsFlag {
			v.registers[FlagRegister] = 0
		}

	case 0x4:
		sum := uint16(vx) + uint16(vy)
		v.registers[ins.X] = uint8(sum)
		v.registers[FlagRegister] = boolToFlag(sum > 0xFF)

	case 0x5:
		v.registers[ins.X] = vx - vy
		v.registers[FlagRegister] = boolToFlag(vx >= vy)

	case 0x6:
		src := v.shiftSource(vx, vy)
		v.registers[ins.X] = src >> 1
		v.registers[FlagRegister] = src & 0x01

	case 0x7:
		v.registers[ins.X] = vy - vx
		v.registers[FlagRegister] = boolToFlag(vy >= vx)

	case 0xE:
		src := v.shiftSource(vx, vy)
		v.registers[ins.X] = src << 1
		v.registers[FlagRegister] = src >> 7

	default:
		return ErrUnimplementedOpcode
	}
	return nil
}

func (v *VM) shiftSource(vx, vy uint8) uint8 {
	if v.quirks.ShiftUsesVY {
		return vy
	}
	return vx
}

func (v *VM) execLoadIndex(ins Instruction) error {
	v.index = ins.NNN()
	return nil
}

func (v *VM) execJumpOffset(ins Instruction) error {
	offset := v.registers[0]
	if v.quirks.JumpUsesVX {
		offset = v.registers[ins.X]
	}
	v.pc = ins.NNN() + uint16(offset)
	return nil
}

func (v *VM) execRandom(ins Instruction) error {
	v.registers[ins.X] = v.random.Byte() & ins.NN()
	return nil
}

// execDraw XORs an N byte sprite read from I onto the framebuffer at
// (VX, VY). Pixels that leave the display wrap around. VF is set if any
// pixel was turned off.
func (v *VM) execDraw(ins Instruction) error {
	x0 := int(v.registers[ins.X]) % Width
	y0 := int(v.registers[ins.Y]) % Height

	var collision bool
	for row := range int(ins.N) {
		sprite := v.memory[(v.index+uint16(row))&addressMask]
		for col := range 8 {
			if sprite&(0x80>>col) == 0 {
				continue
			}
			if v.framebuffer.flip(x0+col, y0+row) {
				collision = true
			}
		}
	}

	v.registers[FlagRegister] = boolToFlag(collision)
	return nil
}

func (v *VM) execKey(ins Instruction) error {
	key := v.registers[ins.X] & 0xF

	switch ins.NN() {
	case 0x9E:
		v.skipIf(v.keys[key])
	case 0xA1:
		v.skipIf(!v.keys[key])
	default:
		return ErrUnimplementedOpcode
	}
	return nil
}

// execMisc handles the FXNN timer, index and memory instructions.
func (v *VM) execMisc(ins Instruction) error {
	vx := v.registers[ins.X]

	switch ins.NN() {
	case 0x07:
		v.registers[ins.X] = v.delay

	case 0x0A:
		v.mode = WaitingForKey
		v.waitReg = ins.X
		v.logger.Debug("Waiting for key", log.Uint8("register", ins.X))

	case 0x15:
		v.delay = vx

	case 0x18:
		v.sound = vx

	case 0x1E:
		v.index += uint16(vx)

	case 0x29:
		v.index = FontAddress + uint16(vx&0xF)*GlyphSize

	case 0x33:
		v.memory[v.index&addressMask] = vx / 100
		v.memory[(v.index+1)&addressMask] = vx / 10 % 10
		v.memory[(v.index+2)&addressMask] = vx % 10

	case 0x55:
		for i := range uint16(ins.X) + 1 {
			v.memory[(v.index+i)&addressMask] = v.registers[i]
		}
		v.advanceIndex(ins.X)

	case 0x65:
		for i := range uint16(ins.X) + 1 {
			v.registers[i] = v.memory[(v.index+i)&addressMask]
		}
		v.advanceIndex(ins.X)

	default:
		return ErrUnimplementedOpcode
	}
	return nil
}

func (v *VM) advanceIndex(x uint8) {
	if v.quirks.MemoryIncrementsIndex {
		v.index += uint16(x) + 1
	}
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
