package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func drawnFramebuffer(t *testing.T) vm.Framebuffer {
	t.Helper()
	// V0 = 0, V1 = 0, I = font glyph "0", draw 5 rows
	rom := []byte{0x60, 0x00, 0x61, 0x00, 0xF0, 0x29, 0xD0, 0x15}
	machine := vm.New(log.NewTestLogger(t))
	assert.NoError(t, machine.Load(rom))
	for range 4 {
		assert.NoError(t, machine.Step())
	}
	return machine.Framebuffer()
}

func TestWriteFrame(t *testing.T) {
	tests := []struct {
		name      string
		border    bool
		wantLines int
		wantFirst string
	}{
		{"plain", false, vm.Height, "####" + strings.Repeat(".", vm.Width-4)},
		{"border", true, vm.Height + 2, "+" + strings.Repeat("-", vm.Width) + "+"},
	}

	fb := drawnFramebuffer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := New(&buf, Options{Border: tt.border})
			assert.NoError(t, w.WriteFrame(fb))

			lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			assert.Len(t, lines, tt.wantLines)
			assert.Equal(t, tt.wantFirst, lines[0])
		})
	}
}

func TestWriteFrame_Empty(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, Options{})
	assert.NoError(t, w.WriteFrame(vm.Framebuffer{}))
	assert.False(t, strings.Contains(buf.String(), "#"))
}

func TestWriteCommentHeader(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, Options{})
	assert.NoError(t, w.WriteCommentHeader([]byte("chip8")))
	assert.Contains(t, buf.String(), "; ROM CRC32 checksum: ")
	assert.Contains(t, buf.String(), "; Code base address: $0200")
}

func TestWriteListing(t *testing.T) {
	lines := disasm.Listing([]byte{0x00, 0xE0, 0x12, 0x00, 0xAB})

	tests := []struct {
		name     string
		options  Options
		expected string
	}{
		{
			name:     "plain",
			expected: "Start:\n  cls\n  jp Start\n\n  db $AB\n",
		},
		{
			name:    "offset comments",
			options: Options{OffsetComments: true},
			expected: "Start:\n" +
				"  cls                            ; $200  00E0\n" +
				"  jp Start                       ; $202  1200\n\n" +
				"  db $AB                         ; $204  AB\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := New(&buf, tt.options)
			assert.NoError(t, w.WriteListing(lines))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}
