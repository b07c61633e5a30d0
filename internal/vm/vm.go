package vm

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// Machine layout constants.
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 0x1000
	// ProgramStart is the address programs are loaded to and started from.
	ProgramStart = 0x200
	// MaxProgramSize is the largest ROM that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart

	// RegisterCount is the number of general purpose registers.
	RegisterCount = 16
	// FlagRegister is the register used for carry, borrow and collision flags.
	FlagRegister = 0xF
	// StackDepth is the number of call stack entries.
	StackDepth = 16
	// KeyCount is the number of keys on the keypad.
	KeyCount = 16

	addressMask = MemorySize - 1
)

// VM is a CHIP-8 virtual machine. It is not safe for concurrent use.
type VM struct {
	logger *log.Logger
	quirks Quirks
	random RandomSource
	beeper Beeper

	memory    [MemorySize]byte
	registers [RegisterCount]uint8
	index     uint16
	pc        uint16

	stack [StackDepth]uint16
	sp    int

	delay uint8
	sound uint8

	framebuffer Framebuffer
	keys        [KeyCount]bool

	mode    Mode
	waitReg uint8
	err     error
}

// Option configures a VM on creation.
type Option func(*VM)

// WithQuirks sets the behavior of the historically divergent instructions.
func WithQuirks(quirks Quirks) Option {
	return func(v *VM) {
		v.quirks = quirks
	}
}

// WithRandom sets the source of random bytes used by CXNN.
func WithRandom(random RandomSource) Option {
	return func(v *VM) {
		v.random = random
	}
}

// WithBeeper sets the collaborator that receives the sound timer cue.
func WithBeeper(beeper Beeper) Option {
	return func(v *VM) {
		v.beeper = beeper
	}
}

// New returns a new machine in its initial state.
func New(logger *log.Logger, opts ...Option) *VM {
	v := &VM{
		logger: logger,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.random == nil {
		v.random = NewRandom(0)
	}
	v.Reset()
	return v
}

// Reset restores the initial state: font loaded, all other memory,
// registers, stack, timers, keypad and framebuffer zeroed and the program
// counter set to the program start.
func (v *VM) Reset() {
	v.memory = [MemorySize]byte{}
	copy(v.memory[FontAddress:], font[:])

	v.registers = [RegisterCount]uint8{}
	v.index = 0
	v.pc = ProgramStart

	v.stack = [StackDepth]uint16{}
	v.sp = 0

	v.delay = 0
	v.sound = 0

	v.framebuffer = Framebuffer{}
	v.keys = [KeyCount]bool{}

	v.mode = Running
	v.waitReg = 0
	v.err = nil
}

// Load copies the program into memory at the program start address.
// The machine state is not modified if the program does not fit.
func (v *VM) Load(rom []byte) error {
	if len(rom) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrRomTooLarge, len(rom), MaxProgramSize)
	}
	copy(v.memory[ProgramStart:], rom)

	v.logger.Debug("Program loaded",
		log.Int("size", len(rom)),
		log.Hex("address", uint16(ProgramStart)))
	return nil
}

// Framebuffer returns a snapshot of the display.
func (v *VM) Framebuffer() Framebuffer {
	return v.framebuffer
}

// KeyDown marks the key as pressed. Indexes outside of the keypad are ignored.
func (v *VM) KeyDown(index int) {
	if index >= 0 && index < KeyCount {
		v.keys[index] = true
	}
}

// KeyUp marks the key as released. Indexes outside of the keypad are ignored.
func (v *VM) KeyUp(index int) {
	if index >= 0 && index < KeyCount {
		v.keys[index] = false
	}
}

// KeyPressed returns whether the key is currently pressed.
func (v *VM) KeyPressed(index int) bool {
	if index < 0 || index >= KeyCount {
		return false
	}
	return v.keys[index]
}

// DelayTimer returns the current delay timer value.
func (v *VM) DelayTimer() uint8 {
	return v.delay
}

// SoundTimer returns the current sound timer value.
func (v *VM) SoundTimer() uint8 {
	return v.sound
}

// PC returns the address of the next instruction.
func (v *VM) PC() uint16 {
	return v.pc
}

// Index returns the index register.
func (v *VM) Index() uint16 {
	return v.index
}

// Register returns the value of register Vi. Only the low nibble of i is used.
func (v *VM) Register(i int) uint8 {
	return v.registers[i&0xF]
}

// StackPointer returns the number of return addresses on the call stack.
func (v *VM) StackPointer() int {
	return v.sp
}

// ReadMemory returns the byte at the address, wrapped into the address space.
func (v *VM) ReadMemory(address uint16) byte {
	return v.memory[address&addressMask]
}

// Mode returns the current machine mode.
func (v *VM) Mode() Mode {
	return v.mode
}

// WaitingRegister returns the register that receives the next key press
// while the machine is in WaitingForKey mode.
func (v *VM) WaitingRegister() uint8 {
	return v.waitReg
}

// Err returns the error that halted the machine, or nil.
func (v *VM) Err() error {
	return v.err
}

// Quirks returns the active quirk configuration.
func (v *VM) Quirks() Quirks {
	return v.quirks
}
