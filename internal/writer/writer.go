// Package writer implements the text output of the emulator: framebuffer
// renderings and disassembly listings.
package writer

import (
	"fmt"
	"hash/crc32"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/vm"
)

const (
	pixelOn  = '#'
	pixelOff = '.'
)

// Writer implements the text output functionality.
type Writer struct {
	options Options
	writer  io.Writer
}

// Options of the writer.
type Options struct {
	Border         bool // frame the display with a border
	OffsetComments bool // append address and instruction word comments to listing lines
}

// New creates a new writer.
func New(writer io.Writer, options Options) *Writer {
	return &Writer{
		options: options,
		writer:  writer,
	}
}

// WriteFrame renders the framebuffer as text, one line per display row.
func (w Writer) WriteFrame(fb vm.Framebuffer) error {
	buf := &strings.Builder{}
	border := "+" + strings.Repeat("-", vm.Width) + "+\n"

	if w.options.Border {
		buf.WriteString(border)
	}
	for y := range vm.Height {
		if w.options.Border {
			buf.WriteByte('|')
		}
		for x := range vm.Width {
			if fb.Pixel(x, y) {
				buf.WriteByte(pixelOn)
			} else {
				buf.WriteByte(pixelOff)
			}
		}
		if w.options.Border {
			buf.WriteByte('|')
		}
		buf.WriteByte('\n')
	}
	if w.options.Border {
		buf.WriteString(border)
	}

	if _, err := io.WriteString(w.writer, buf.String()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// WriteCommentHeader writes the CRC32 checksum and the load address of the
// program as comments to the output.
func (w Writer) WriteCommentHeader(rom []byte) error {
	if _, err := fmt.Fprintf(w.writer, "; ROM CRC32 checksum: %08x\n", crc32.ChecksumIEEE(rom)); err != nil {
		return fmt.Errorf("writing rom checksum: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; Code base address: $%04x\n\n", vm.ProgramStart); err != nil {
		return fmt.Errorf("writing code base address: %w", err)
	}
	return nil
}

// WriteListing writes the disassembled lines. Labels are written on their
// own line and an empty line separates code from data.
func (w Writer) WriteListing(lines []disasm.Line) error {
	for i, line := range lines {
		if err := w.writeLabel(i, line); err != nil {
			return err
		}

		if i > 0 && line.Label == "" && line.Known != lines[i-1].Known {
			if _, err := fmt.Fprintln(w.writer); err != nil {
				return fmt.Errorf("writing line: %w", err)
			}
		}
		if err := w.writeCodeLine(line); err != nil {
			return fmt.Errorf("writing code line: %w", err)
		}
	}
	return nil
}

func (w Writer) writeLabel(index int, line disasm.Line) error {
	if line.Label == "" {
		return nil
	}

	if index > 0 {
		if _, err := fmt.Fprintln(w.writer); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w.writer, "%s:\n", line.Label); err != nil {
		return fmt.Errorf("writing label: %w", err)
	}
	return nil
}

func (w Writer) writeCodeLine(line disasm.Line) error {
	if !w.options.OffsetComments {
		if _, err := fmt.Fprintf(w.writer, "  %s\n", line.Code); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
		return nil
	}

	comment := fmt.Sprintf("$%03X  %X", line.Address, line.Bytes)
	if _, err := fmt.Fprintf(w.writer, "  %-30s ; %s\n", line.Code, comment); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}
