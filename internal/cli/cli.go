// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/vm"
)

// ParseFlags parses the command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	return parseArgs(os.Args)
}

func parseArgs(arguments []string) (options.Program, error) {
	flags := flag.NewFlagSet(arguments[0], flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(arguments[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		msg := ""
		if err != nil && !errors.Is(err, flag.ErrHelp) {
			msg = err.Error()
		}
		return opts, &UsageError{flags: flags, msg: msg}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	opts.Input = args[0]
	normalizeOptions(&opts)
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage text and the flag defaults to stdout.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <file to run>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to run, please pass the file to run as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes option values
func normalizeOptions(opts *options.Program) {
	opts.System = strings.ToLower(opts.System)
	opts.Profile = strings.ToLower(opts.Profile)
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Output, "o", "", "name of the output file for display renderings or the listing, printed on console if no name given")
	flags.StringVar(&opts.Config, "c", "", "name of the TOML configuration file")
	flags.StringVar(&opts.Wav, "wav", "", "name of the WAV file to record the sound output to")
	flags.StringVar(&opts.System, "s", "", "system of the ROM, only chip8 is supported")
	flags.StringVar(&opts.Profile, "profile", "", fmt.Sprintf("quirk profile (%s), detected from the file extension if not set", strings.Join(vm.Profiles(), "/")))
	flags.IntVar(&opts.CPUHz, "cpu-hz", 0, fmt.Sprintf("instructions per second (default %d)", options.DefaultCPUHz))
	flags.IntVar(&opts.TimerHz, "timer-hz", 0, fmt.Sprintf("timer ticks per second (default %d)", options.DefaultTimerHz))
	flags.Uint64Var(&opts.Frames, "frames", 0, "number of timer frames to run, 0 runs until interrupted")
	flags.Int64Var(&opts.Seed, "seed", 0, "random number seed, 0 uses the current time")
	flags.StringVar(&opts.Keys, "keys", "", "scripted key presses as frame:key[:hold] list, for example 60:5,120:a:10")
	flags.BoolVar(&opts.Terminal, "term", false, "read key presses from the terminal")
	flags.Uint64Var(&opts.Display, "display", 0, "render the display every n frames, 0 renders only the last frame")
	flags.BoolVar(&opts.Disassemble, "disasm", false, "print a disassembly listing of the ROM and exit")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, requires -debug")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
