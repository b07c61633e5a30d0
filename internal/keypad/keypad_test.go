package keypad

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

var _ Pad = (*vm.VM)(nil)

type fakePad struct {
	keys [vm.KeyCount]bool
}

func (p *fakePad) KeyDown(index int) { p.keys[index] = true }
func (p *fakePad) KeyUp(index int)   { p.keys[index] = false }

func TestParseScript(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		events []Event
	}{
		{"empty", "", nil},
		{"single", "60:5", []Event{{Frame: 60, Key: 5, Hold: DefaultHold}}},
		{"hex key and hold", "10:a:20, 30:F", []Event{
			{Frame: 10, Key: 0xA, Hold: 20},
			{Frame: 30, Key: 0xF, Hold: DefaultHold},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, err := ParseScript(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, len(tt.events), script.Len())
			for i, ev := range tt.events {
				assert.Equal(t, ev, script.events[i])
			}
		})
	}
}

func TestParseScript_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing key", "60"},
		{"too many fields", "1:2:3:4"},
		{"bad frame", "x:1"},
		{"key out of range", "1:10"},
		{"bad key", "1:g"},
		{"zero hold", "1:1:0"},
		{"bad hold", "1:1:x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript(tt.input)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidScript))
		})
	}
}

func TestScript_Update(t *testing.T) {
	script := NewScript(
		Event{Frame: 2, Key: 0x5, Hold: 2},
		Event{Frame: 3, Key: 0xA, Hold: 1},
	)
	pad := &fakePad{}

	tests := []struct {
		frame uint64
		key5  bool
		keyA  bool
	}{
		{0, false, false},
		{2, true, false},
		{3, true, true},
		{4, false, false},
	}

	for _, tt := range tests {
		script.Update(tt.frame, pad)
		assert.Equal(t, tt.key5, pad.keys[0x5])
		assert.Equal(t, tt.keyA, pad.keys[0xA])
	}
	assert.Equal(t, 0, script.Len())
}

func TestScript_DrivesMachine(t *testing.T) {
	// wait for a key into V3, then spin
	rom := []byte{0xF3, 0x0A, 0x12, 0x02}
	machine := vm.New(log.NewTestLogger(t))
	assert.NoError(t, machine.Load(rom))
	script := NewScript(Event{Frame: 1, Key: 0x7, Hold: 1})

	for frame := range uint64(3) {
		script.Update(frame, machine)
		for range 2 {
			assert.NoError(t, machine.Step())
		}
	}
	assert.Equal(t, vm.Running, machine.Mode())
	assert.Equal(t, uint8(0x7), machine.Register(3))
}

func TestLayout(t *testing.T) {
	layout := DefaultLayout()
	assert.Equal(t, vm.KeyCount, len(layout))

	index, ok := layout.Lookup('Q')
	assert.True(t, ok)
	assert.Equal(t, uint8(0x4), index)

	_, ok = layout.Lookup('p')
	assert.False(t, ok)
}

func TestNewLayout(t *testing.T) {
	layout, err := NewLayout(map[string]uint8{"p": 0x0, "X": 0x1})
	assert.NoError(t, err)

	index, ok := layout.Lookup('p')
	assert.True(t, ok)
	assert.Equal(t, uint8(0x0), index)

	index, ok = layout.Lookup('x')
	assert.True(t, ok)
	assert.Equal(t, uint8(0x1), index)

	_, err = NewLayout(map[string]uint8{"pp": 0x0})
	assert.True(t, errors.Is(err, ErrInvalidKey))

	_, err = NewLayout(map[string]uint8{"p": 0x10})
	assert.True(t, errors.Is(err, ErrInvalidKey))
}

func TestTerminal_Update(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	term := newTerminal(ctx, log.NewTestLogger(t), strings.NewReader("wp"), DefaultLayout(), nil)
	for i := 0; i < 1000 && len(term.presses) < 2; i++ {
		time.Sleep(time.Millisecond)
	}

	pad := &fakePad{}
	term.Update(10, pad)
	assert.True(t, pad.keys[0x5])

	term.Update(10+DefaultHold, pad)
	assert.False(t, pad.keys[0x5])
	assert.NoError(t, term.Close())
}
