package vm

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestTickTimers_DelayClampsAtZero(t *testing.T) {
	for _, ticks := range []int{5, 6, 100} {
		v := New(log.NewTestLogger(t))
		v.delay = 5

		for range ticks {
			v.TickTimers()
		}
		assert.Equal(t, uint8(0), v.DelayTimer())
	}
}

func TestTickTimers_Decrements(t *testing.T) {
	v := New(log.NewTestLogger(t))
	v.delay = 3
	v.sound = 2

	v.TickTimers()
	assert.Equal(t, uint8(2), v.DelayTimer())
	assert.Equal(t, uint8(1), v.SoundTimer())
}

func TestTickTimers_BeepsOnceWhenSoundExpires(t *testing.T) {
	beeper := &beepCounter{}
	v := New(log.NewTestLogger(t), WithBeeper(beeper))
	v.sound = 3

	v.TickTimers()
	v.TickTimers()
	assert.Equal(t, 0, beeper.beeps)

	v.TickTimers()
	assert.Equal(t, 1, beeper.beeps)
	assert.Equal(t, uint8(0), v.SoundTimer())

	v.TickTimers()
	assert.Equal(t, 1, beeper.beeps)
}

func TestTickTimers_IndependentOfStepping(t *testing.T) {
	// jump to self, timers only move on ticks
	v := newTestVM(t, words(0x6A3C, 0xFA15, 0x1204))
	stepN(t, v, 10)
	assert.Equal(t, uint8(0x3C), v.DelayTimer())

	v.TickTimers()
	stepN(t, v, 10)
	assert.Equal(t, uint8(0x3B), v.DelayTimer())
}

func TestTickTimers_WithoutBeeper(t *testing.T) {
	v := New(log.NewTestLogger(t))
	v.sound = 1

	v.TickTimers()
	assert.Equal(t, uint8(0), v.SoundTimer())
}
