//go:build linux || darwin || freebsd || netbsd || openbsd

package keypad

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// enterRawMode disables line buffering and echo and returns a function
// restoring the previous state. Signal generation stays enabled so that
// Ctrl-C still interrupts the emulator.
func enterRawMode(fd int) (func() error, error) {
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("reading terminal state: %w", err)
	}

	restoreState := *termios
	state := *termios

	state.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR
	state.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	state.Cflag &^= unix.CSIZE | unix.PARENB
	state.Cflag |= unix.CS8

	state.Cc[unix.VMIN] = 1
	state.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &state); err != nil {
		return nil, fmt.Errorf("setting raw terminal mode: %w", err)
	}

	return func() error {
		if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &restoreState); err != nil {
			return fmt.Errorf("restoring terminal state: %w", err)
		}
		return nil
	}, nil
}
