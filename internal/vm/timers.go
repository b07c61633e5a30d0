package vm

// Beeper receives the one-shot cue emitted when the sound timer expires.
type Beeper interface {
	Beep()
}

// TickTimers decrements the delay and sound timers. It is meant to be called
// at a fixed rate, usually 60 Hz. When the sound timer runs out the beeper
// receives a cue.
func (v *VM) TickTimers() {
	if v.delay > 0 {
		v.delay--
	}

	if v.sound > 0 {
		if v.sound == 1 && v.beeper != nil {
			v.beeper.Beep()
		}
		v.sound--
	}
}
