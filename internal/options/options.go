// Package options contains the program options.
package options

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrochip8/internal/vm"
)

// Default and maximum timing values.
const (
	DefaultCPUHz   = 700
	DefaultTimerHz = 60

	MaxCPUHz   = 1_000_000
	MaxTimerHz = 1000
)

// ErrInvalidRate is returned for timing rates outside of the supported range.
var ErrInvalidRate = errors.New("invalid rate")

// Parameters contains file path options.
type Parameters struct {
	Input  string // ROM file to run
	Output string // file for display renderings or the listing, stdout if empty
	Config string // optional TOML configuration file
	Wav    string // optional WAV file to record the sound output to
}

// Flags contains behavior options.
type Flags struct {
	System  string // target system, only chip8 is supported
	Profile string // quirk profile, auto-detected from the file extension if empty

	CPUHz   int    // instructions per second, 0 uses the configured or default rate
	TimerHz int    // timer ticks per second, 0 uses the configured or default rate
	Frames  uint64 // number of timer frames to run, 0 runs until cancelled
	Seed    int64  // random seed for CXNN, 0 uses the current time

	Keys     string // scripted key presses, frame:key[:hold] separated by commas
	Terminal bool   // read key presses from the terminal

	Display     uint64 // render the framebuffer every n frames, 0 renders only the last frame
	Disassemble bool   // print a listing of the ROM and exit
	Trace       bool   // log every executed instruction
	Debug       bool
	Quiet       bool
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags

	// Quirks is resolved from the profile and the configuration file.
	Quirks vm.Quirks
	// KeyMap maps host keys to keypad indexes, nil uses the default layout.
	KeyMap map[string]uint8
}

// SetDefaults fills timing values that were neither given on the command
// line nor in the configuration file.
func (p *Program) SetDefaults() {
	if p.CPUHz <= 0 {
		p.CPUHz = DefaultCPUHz
	}
	if p.TimerHz <= 0 {
		p.TimerHz = DefaultTimerHz
	}
}

// Validate checks the timing values after the defaults have been applied.
func (p Program) Validate() error {
	if p.CPUHz < 1 || p.CPUHz > MaxCPUHz {
		return fmt.Errorf("%w: cpu rate %d Hz, valid range is 1-%d", ErrInvalidRate, p.CPUHz, MaxCPUHz)
	}
	if p.TimerHz < 1 || p.TimerHz > MaxTimerHz {
		return fmt.Errorf("%w: timer rate %d Hz, valid range is 1-%d", ErrInvalidRate, p.TimerHz, MaxTimerHz)
	}
	return nil
}

// File is the layout of the TOML configuration file.
type File struct {
	Profile string           `toml:"profile"`
	Quirks  *QuirkOverrides  `toml:"quirks"`
	Timing  Timing           `toml:"timing"`
	Keys    map[string]uint8 `toml:"keys"`
}

// QuirkOverrides contains the quirks section of the configuration file.
// Keys that are missing from the file are nil and keep the profile value.
type QuirkOverrides struct {
	ShiftUsesVY           *bool `toml:"shift_uses_vy"`
	JumpUsesVX            *bool `toml:"jump_uses_vx"`
	MemoryIncrementsIndex *bool `toml:"memory_increments_index"`
	LogicResetsFlag       *bool `toml:"logic_resets_flag"`
}

// Apply returns the quirks with every set override applied.
func (o QuirkOverrides) Apply(quirks vm.Quirks) vm.Quirks {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&quirks.ShiftUsesVY, o.ShiftUsesVY)
	set(&quirks.JumpUsesVX, o.JumpUsesVX)
	set(&quirks.MemoryIncrementsIndex, o.MemoryIncrementsIndex)
	set(&quirks.LogicResetsFlag, o.LogicResetsFlag)
	return quirks
}

// Timing contains the rate settings of the configuration file.
type Timing struct {
	CPUHz   int `toml:"cpu_hz"`
	TimerHz int `toml:"timer_hz"`
}

// CyclesPerFrame returns the number of instructions executed per timer tick.
func (p Program) CyclesPerFrame() int {
	if p.TimerHz <= 0 {
		return p.CPUHz
	}
	cycles := p.CPUHz / p.TimerHz
	if cycles < 1 {
		return 1
	}
	return cycles
}
