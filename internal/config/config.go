// Package config handles application configuration and setup
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// LoadFile parses a TOML configuration file.
func LoadFile(path string) (*options.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var file options.File
	md, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key '%s' in config file %s", undecoded[0], path)
	}
	return &file, nil
}

// Apply fills the options that were not set on the command line with the
// values of the configuration file.
func Apply(opts *options.Program, file *options.File) {
	if file == nil {
		return
	}
	if opts.Profile == "" {
		opts.Profile = file.Profile
	}
	if opts.CPUHz <= 0 {
		opts.CPUHz = file.Timing.CPUHz
	}
	if opts.TimerHz <= 0 {
		opts.TimerHz = file.Timing.TimerHz
	}
	if opts.KeyMap == nil && len(file.Keys) > 0 {
		opts.KeyMap = file.Keys
	}
}

// ResolveQuirks returns the quirks of the profile with the keys of the
// quirks section of the configuration file applied on top.
func ResolveQuirks(profile string, file *options.File) (vm.Quirks, error) {
	quirks, err := vm.QuirksFromProfile(profile)
	if err != nil {
		return vm.Quirks{}, fmt.Errorf("resolving quirks: %w", err)
	}
	if file != nil && file.Quirks != nil {
		quirks = file.Quirks.Apply(quirks)
	}
	return quirks, nil
}
