// Package keypad feeds host input into the machine keypad. Key presses come
// from a script of timed events or from the terminal.
package keypad

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/retrochip8/internal/vm"
)

// DefaultHold is the number of frames a key stays pressed when no hold
// duration is given.
const DefaultHold = 5

var (
	// ErrInvalidScript is returned for malformed key scripts.
	ErrInvalidScript = errors.New("invalid key script")
	// ErrInvalidKey is returned for key mappings outside of the keypad.
	ErrInvalidKey = errors.New("invalid key mapping")
)

// Pad is the machine side of the keypad.
type Pad interface {
	KeyDown(index int)
	KeyUp(index int)
}

// Input updates the keypad state once per timer frame.
type Input interface {
	Update(frame uint64, pad Pad)
}

// Event presses a key at a frame for a number of frames.
type Event struct {
	Frame uint64
	Key   uint8
	Hold  uint64
}

func (e Event) active(frame uint64) bool {
	return frame >= e.Frame && frame < e.Frame+e.Hold
}

// Script is an Input that replays key events.
type Script struct {
	events []Event
}

// NewScript returns a script replaying the events.
func NewScript(events ...Event) *Script {
	return &Script{events: events}
}

// ParseScript parses a comma separated list of frame:key[:hold] entries.
// The key is a hexadecimal keypad index, the hold duration is given in
// frames and defaults to DefaultHold.
func ParseScript(s string) (*Script, error) {
	script := NewScript()
	s = strings.TrimSpace(s)
	if s == "" {
		return script, nil
	}

	for _, entry := range strings.Split(s, ",") {
		ev, err := parseEvent(strings.TrimSpace(entry))
		if err != nil {
			return nil, fmt.Errorf("%w: entry '%s': %w", ErrInvalidScript, entry, err)
		}
		script.Add(ev)
	}
	return script, nil
}

func parseEvent(entry string) (Event, error) {
	fields := strings.Split(entry, ":")
	if len(fields) < 2 || len(fields) > 3 {
		return Event{}, errors.New("expected frame:key[:hold]")
	}

	frame, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return Event{}, fmt.Errorf("parsing frame: %w", err)
	}
	key, err := strconv.ParseUint(fields[1], 16, 8)
	if err != nil || key >= vm.KeyCount {
		return Event{}, fmt.Errorf("key '%s' is not a keypad index 0-F", fields[1])
	}

	ev := Event{
		Frame: frame,
		Key:   uint8(key),
		Hold:  DefaultHold,
	}
	if len(fields) == 3 {
		hold, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil || hold == 0 {
			return Event{}, fmt.Errorf("hold '%s' is not a positive frame count", fields[2])
		}
		ev.Hold = hold
	}
	return ev, nil
}

// Add appends an event to the script.
func (s *Script) Add(ev Event) {
	s.events = append(s.events, ev)
}

// Len returns the number of pending events.
func (s *Script) Len() int {
	return len(s.events)
}

// Update presses every key that has an active event and releases all
// others. Events that ended are dropped.
func (s *Script) Update(frame uint64, pad Pad) {
	var pressed [vm.KeyCount]bool

	pending := s.events[:0]
	for _, ev := range s.events {
		if ev.active(frame) {
			pressed[ev.Key] = true
		}
		if frame+1 < ev.Frame+ev.Hold {
			pending = append(pending, ev)
		}
	}
	s.events = pending

	for key, down := range pressed {
		if down {
			pad.KeyDown(key)
		} else {
			pad.KeyUp(key)
		}
	}
}
