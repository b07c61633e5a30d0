package keypad

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"
)

// ErrTerminalUnsupported is returned on platforms without raw terminal support.
var ErrTerminalUnsupported = errors.New("raw terminal input is not supported on this platform")

// Terminal is an Input that reads key presses from a reader, usually the
// terminal in raw mode. Terminals do not report key releases, every press
// is held for DefaultHold frames.
type Terminal struct {
	logger  *log.Logger
	layout  Layout
	script  *Script
	presses chan rune
	restore func() error
}

// NewTerminal switches the terminal into raw mode and starts reading key
// presses from stdin until the context is cancelled. Scripted events are
// replayed alongside the terminal input.
func NewTerminal(ctx context.Context, logger *log.Logger, layout Layout, script *Script) (*Terminal, error) {
	restore, err := enterRawMode(int(os.Stdin.Fd()))
	if err != nil {
		return nil, err
	}

	t := newTerminal(ctx, logger, os.Stdin, layout, script)
	t.restore = restore
	return t, nil
}

func newTerminal(ctx context.Context, logger *log.Logger, r io.Reader, layout Layout, script *Script) *Terminal {
	if script == nil {
		script = NewScript()
	}
	t := &Terminal{
		logger:  logger,
		layout:  layout,
		script:  script,
		presses: make(chan rune, 64),
	}
	go t.read(ctx, r)
	return t
}

func (t *Terminal) read(ctx context.Context, r io.Reader) {
	reader := bufio.NewReader(r)
	for {
		c, _, err := reader.ReadRune()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.logger.Error("Reading terminal input failed", log.Err(err))
			}
			return
		}

		select {
		case t.presses <- c:
		case <-ctx.Done():
			return
		}
	}
}

// Update records the key presses read since the last frame and applies the
// resulting keypad state.
func (t *Terminal) Update(frame uint64, pad Pad) {
	for {
		select {
		case c := <-t.presses:
			key, ok := t.layout.Lookup(c)
			if !ok {
				continue
			}
			t.script.Add(Event{Frame: frame, Key: key, Hold: DefaultHold})
		default:
			t.script.Update(frame, pad)
			return
		}
	}
}

// Close restores the terminal state.
func (t *Terminal) Close() error {
	if t.restore == nil {
		return nil
	}
	return t.restore()
}
