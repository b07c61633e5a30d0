//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package keypad

func enterRawMode(int) (func() error, error) {
	return nil, ErrTerminalUnsupported
}
