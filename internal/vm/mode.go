package vm

// Mode is the execution mode of the machine.
type Mode uint8

const (
	// Running fetches and executes an instruction on every step.
	Running Mode = iota
	// WaitingForKey polls the keypad on every step until a key is pressed.
	WaitingForKey
	// Halted is entered on a fatal error and left only by Reset.
	Halted
)

func (m Mode) String() string {
	switch m {
	case Running:
		return "running"
	case WaitingForKey:
		return "waiting for key"
	case Halted:
		return "halted"
	default:
		return "unknown"
	}
}
