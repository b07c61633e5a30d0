// Package vm implements the CHIP-8 virtual machine core.
//
// # Machine Overview
//
// The machine has 4KB of memory, 16 general purpose 8-bit registers (V0-VF),
// a 16-bit index register, a 16 level call stack, a delay and a sound timer,
// a 64x32 monochrome framebuffer and a 16 key keypad.
//
// # Memory Layout
//
//	0x000-0x04F: Font glyphs "0".."F", 5 bytes each
//	0x050-0x1FF: Unused, zeroed
//	0x200-0xFFF: Program and data
//
// # Driving the Machine
//
// The caller owns the machine and drives it from a single goroutine:
//
//	machine := vm.New(logger)
//	if err := machine.Load(rom); err != nil {
//		return err
//	}
//	for frame := 0; ; frame++ {
//		for range cyclesPerFrame {
//			if err := machine.Step(); err != nil {
//				return err
//			}
//		}
//		machine.TickTimers()
//	}
//
// Step executes one instruction. TickTimers is called at the timer rate,
// usually 60 Hz, independent of the instruction rate.
//
// # Waiting for Input
//
// The FX0A instruction does not block. It puts the machine into the
// WaitingForKey mode in which Step only polls the keypad until a key is
// pressed. Keypad changes made with KeyDown and KeyUp must be serialized
// with Step by the caller.
//
// # Errors
//
// Stack overflow, stack underflow, unknown instructions and a program
// counter that leaves the memory halt the machine. Memory accesses relative
// to the index register wrap around within the 4KB address space instead.
// A halted machine returns the same error from every Step until Reset is
// called.
package vm
