package vm

import (
	"testing"

	"github.com/retroenv/retrogolib/log"
)

// sequenceRandom returns the configured bytes in order, repeating the last one.
type sequenceRandom struct {
	values []byte
	pos    int
}

func (s *sequenceRandom) Byte() byte {
	if len(s.values) == 0 {
		return 0
	}
	b := s.values[s.pos]
	if s.pos < len(s.values)-1 {
		s.pos++
	}
	return b
}

type beepCounter struct {
	beeps int
}

func (b *beepCounter) Beep() {
	b.beeps++
}

// newTestVM returns a machine with the program loaded.
func newTestVM(t *testing.T, program []byte, opts ...Option) *VM {
	t.Helper()
	v := New(log.NewTestLogger(t), opts...)
	if err := v.Load(program); err != nil {
		t.Fatalf("Failed to load program: %v", err)
	}
	return v
}

// words converts instruction words to big endian ROM bytes.
func words(w ...uint16) []byte {
	data := make([]byte, 0, 2*len(w))
	for _, word := range w {
		data = append(data, byte(word>>8), byte(word))
	}
	return data
}

func stepN(t *testing.T, v *VM, n int) {
	t.Helper()
	for i := range n {
		if err := v.Step(); err != nil {
			t.Fatalf("Step %d failed: %v", i, err)
		}
	}
}
