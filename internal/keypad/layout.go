package keypad

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/retroenv/retrochip8/internal/vm"
)

// Layout maps host keys to keypad indexes.
type Layout map[rune]uint8

// DefaultLayout maps the left side of a QWERTY keyboard onto the 4x4 keypad:
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
func DefaultLayout() Layout {
	return Layout{
		'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
		'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
		'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
		'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
	}
}

// NewLayout returns the default layout with the custom mappings applied.
// Every custom host key has to be a single character.
func NewLayout(custom map[string]uint8) (Layout, error) {
	layout := DefaultLayout()
	for key, index := range custom {
		r, size := utf8.DecodeRuneInString(key)
		if size == 0 || size != len(key) {
			return nil, fmt.Errorf("%w: host key '%s' is not a single character", ErrInvalidKey, key)
		}
		if index >= vm.KeyCount {
			return nil, fmt.Errorf("%w: keypad index %d of host key '%s'", ErrInvalidKey, index, key)
		}
		layout[unicode.ToLower(r)] = index
	}
	return layout, nil
}

// Lookup returns the keypad index of the host key.
func (l Layout) Lookup(r rune) (uint8, bool) {
	index, ok := l[unicode.ToLower(r)]
	return index, ok
}
