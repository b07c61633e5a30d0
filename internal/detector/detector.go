// Package detector handles system and quirk profile detection.
package detector

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// ErrUnsupportedSystem is returned when a system other than CHIP-8 is requested.
var ErrUnsupportedSystem = errors.New("unsupported system")

// Detector handles quirk profile detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new profile detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the quirk profile from options or file auto-detection.
// An explicitly requested system has to be CHIP-8. A profile set in the
// options is used as is, otherwise the profile is detected from the input
// filename extension.
func (d *Detector) Detect(opts options.Program) (string, error) {
	if opts.System != "" {
		system, _ := arch.SystemFromString(opts.System)
		if system != arch.CHIP8System {
			return "", fmt.Errorf("%w '%s'", ErrUnsupportedSystem, opts.System)
		}
	}

	if opts.Profile != "" {
		return strings.ToLower(opts.Profile), nil
	}

	profile := d.detectFromFile(opts.Input)
	d.logger.Debug("Auto-detected quirk profile",
		log.String("profile", profile),
		log.String("file", opts.Input))
	return profile, nil
}

// detectFromFile determines the quirk profile based on file extension.
func (d *Detector) detectFromFile(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".sc8":
		return vm.ProfileSchip
	default:
		// .ch8, .rom and unknown extensions run with the modern behavior
		return vm.ProfileModern
	}
}
