// Package pipeline orchestrates the emulation workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/sound"
	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrochip8/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete emulation workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// Result summarizes a finished run.
type Result struct {
	Frames       uint64
	Instructions uint64
	Beeps        int
	Mode         vm.Mode
	Framebuffer  vm.Framebuffer
}

// New creates a new emulation pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute runs the complete pipeline: configuration and profile resolution,
// ROM loading and either the disassembly listing or the emulation.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, out io.Writer) (*Result, error) {
	if err := p.resolveOptions(&opts); err != nil {
		return nil, err
	}

	rom, err := p.loader.Load(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading rom: %w", err)
	}

	if opts.Disassemble {
		if err := p.disassemble(rom, out); err != nil {
			return nil, fmt.Errorf("disassembling: %w", err)
		}
		return &Result{}, nil
	}

	p.printInfo(opts, rom)
	return p.ExecuteWithROM(ctx, rom, opts, out)
}

// resolveOptions merges the configuration file into the options and resolves
// the quirk profile. Command line values take precedence over the file,
// the file over the profile detected from the file extension.
func (p *Pipeline) resolveOptions(opts *options.Program) error {
	var file *options.File
	if opts.Config != "" {
		var err error
		file, err = config.LoadFile(opts.Config)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		config.Apply(opts, file)
	}

	profile, err := p.detector.Detect(*opts)
	if err != nil {
		return fmt.Errorf("detecting profile: %w", err)
	}
	opts.Profile = profile

	opts.Quirks, err = config.ResolveQuirks(profile, file)
	if err != nil {
		return err
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("validating options: %w", err)
	}
	return nil
}

// ExecuteWithROM runs the emulation of an already loaded ROM.
// This is useful for testing and programmatic usage where the ROM is already in memory.
func (p *Pipeline) ExecuteWithROM(ctx context.Context, rom []byte, opts options.Program, out io.Writer) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validating options: %w", err)
	}

	var recorder *sound.Recorder
	vmOpts := []vm.Option{
		vm.WithQuirks(opts.Quirks),
		vm.WithRandom(vm.NewRandom(opts.Seed)),
	}
	if opts.Wav != "" {
		recorder = sound.NewRecorder(p.logger, opts.Wav, opts.TimerHz)
		vmOpts = append(vmOpts, vm.WithBeeper(recorder))
	}

	machine := vm.New(p.logger, vmOpts...)
	if err := machine.Load(rom); err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	input, closeInput, err := p.createInput(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("creating keypad input: %w", err)
	}
	defer closeInput()

	e := &emulation{
		logger:   p.logger,
		opts:     opts,
		machine:  machine,
		input:    input,
		recorder: recorder,
		display:  writer.New(out, writer.Options{Border: true}),
	}
	result, runErr := e.run(ctx)

	if recorder != nil {
		if err := recorder.Close(); err != nil && runErr == nil {
			runErr = fmt.Errorf("writing audio: %w", err)
		}
		result.Beeps = recorder.Beeps()
	}
	return result, runErr
}

// createInput combines the scripted key events with the terminal input.
func (p *Pipeline) createInput(ctx context.Context, opts options.Program) (keypad.Input, func(), error) {
	script, err := keypad.ParseScript(opts.Keys)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing key script: %w", err)
	}
	if !opts.Terminal {
		return script, func() {}, nil
	}

	layout, err := keypad.NewLayout(opts.KeyMap)
	if err != nil {
		return nil, nil, fmt.Errorf("creating key layout: %w", err)
	}
	term, err := keypad.NewTerminal(ctx, p.logger, layout, script)
	if err != nil {
		return nil, nil, fmt.Errorf("opening terminal: %w", err)
	}
	closeTerm := func() {
		if err := term.Close(); err != nil {
			p.logger.Error("Restoring terminal failed", log.Err(err))
		}
	}
	return term, closeTerm, nil
}

// disassemble writes the listing of the ROM.
func (p *Pipeline) disassemble(rom []byte, out io.Writer) error {
	w := writer.New(out, writer.Options{OffsetComments: true})
	if err := w.WriteCommentHeader(rom); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := w.WriteListing(disasm.Listing(rom)); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// printInfo prints information about the ROM being run.
func (p *Pipeline) printInfo(opts options.Program, rom []byte) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Running Chip-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", len(rom)),
		log.String("profile", opts.Profile),
		log.Int("cpu_hz", opts.CPUHz),
		log.Int("timer_hz", opts.TimerHz),
	)
}

// emulation drives a machine frame by frame.
type emulation struct {
	logger   *log.Logger
	opts     options.Program
	machine  *vm.VM
	input    keypad.Input
	recorder *sound.Recorder
	display  *writer.Writer
}

// run executes frames until the frame limit is reached, the context is
// cancelled or the machine halts. Runs without a frame limit or with
// terminal input are throttled to the timer rate.
func (e *emulation) run(ctx context.Context) (*Result, error) {
	result := &Result{}
	defer func() {
		result.Mode = e.machine.Mode()
		result.Framebuffer = e.machine.Framebuffer()
	}()

	var tick <-chan time.Time
	if e.opts.Frames == 0 || e.opts.Terminal {
		ticker := time.NewTicker(time.Second / time.Duration(e.opts.TimerHz))
		defer ticker.Stop()
		tick = ticker.C
	}

	cycles := e.opts.CyclesPerFrame()
	for e.opts.Frames == 0 || result.Frames < e.opts.Frames {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("running frame %d: %w", result.Frames, err)
		}

		executed, err := e.frame(result.Frames, cycles)
		result.Instructions += executed
		result.Frames++
		if err != nil {
			e.renderLast()
			return result, fmt.Errorf("running frame %d: %w", result.Frames-1, err)
		}

		if e.opts.Display > 0 && result.Frames%e.opts.Display == 0 {
			if err := e.display.WriteFrame(e.machine.Framebuffer()); err != nil {
				return result, fmt.Errorf("rendering frame: %w", err)
			}
		}

		if tick != nil {
			select {
			case <-tick:
			case <-ctx.Done():
			}
		}
	}

	if e.opts.Display == 0 {
		if err := e.display.WriteFrame(e.machine.Framebuffer()); err != nil {
			return result, fmt.Errorf("rendering frame: %w", err)
		}
	}
	return result, nil
}

// frame runs the instructions of one timer frame followed by a timer tick
// and returns the number of executed instructions.
func (e *emulation) frame(number uint64, cycles int) (uint64, error) {
	e.input.Update(number, e.machine)

	var executed uint64
	for range cycles {
		if e.opts.Trace && e.machine.Mode() == vm.Running {
			e.trace()
		}
		if err := e.machine.Step(); err != nil {
			return executed, fmt.Errorf("stepping machine: %w", err)
		}
		executed++
	}

	active := e.machine.SoundTimer() > 0
	e.machine.TickTimers()
	if e.recorder != nil {
		e.recorder.Frame(active)
	}
	return executed, nil
}

func (e *emulation) trace() {
	pc := e.machine.PC()
	word := uint16(e.machine.ReadMemory(pc))<<8 | uint16(e.machine.ReadMemory(pc+1))
	code, _ := disasm.DisassembleWithQuirks(word, e.opts.Quirks)
	e.logger.Debug("Executing",
		log.Hex("address", pc),
		log.Hex("opcode", word),
		log.String("code", code))
}

// renderLast shows the display state of a halted machine.
func (e *emulation) renderLast() {
	if err := e.display.WriteFrame(e.machine.Framebuffer()); err != nil {
		e.logger.Error("Rendering frame failed", log.Err(err))
	}
}
