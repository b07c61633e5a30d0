// Package sound records the sound output of the machine to a WAV file.
// Samples are buffered in memory and written to disk when the recorder is
// closed.
package sound

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/retroenv/retrogolib/log"
)

const (
	// SampleRate of the recorded audio in Hz.
	SampleRate = 8000
	// ToneFrequency of the square wave played while the sound timer is active.
	ToneFrequency = 440

	bitDepth       = 8
	channels       = 1
	pcmFormat      = 1
	silence        = 128 // unsigned 8 bit PCM midpoint
	toneAmplitude  = 64
	halfToneLength = SampleRate / ToneFrequency / 2
)

// Recorder buffers the tone output of the machine frame by frame.
// It implements the vm.Beeper interface to count the sound cues.
type Recorder struct {
	logger          *log.Logger
	filename        string
	samplesPerFrame int

	samples []int
	phase   int
	beeps   int
}

// NewRecorder returns a recorder for a machine running its timers at the
// given rate.
func NewRecorder(logger *log.Logger, filename string, timerHz int) *Recorder {
	samplesPerFrame := SampleRate
	if timerHz > 0 {
		samplesPerFrame = SampleRate / timerHz
	}
	return &Recorder{
		logger:          logger,
		filename:        filename,
		samplesPerFrame: samplesPerFrame,
	}
}

// Beep implements the vm.Beeper interface.
func (r *Recorder) Beep() {
	r.beeps++
}

// Beeps returns the number of sound cues received.
func (r *Recorder) Beeps() int {
	return r.beeps
}

// Samples returns the number of buffered samples.
func (r *Recorder) Samples() int {
	return len(r.samples)
}

// Frame appends the samples of one timer frame. While active a square wave
// is generated, otherwise silence.
func (r *Recorder) Frame(active bool) {
	for range r.samplesPerFrame {
		if !active {
			r.samples = append(r.samples, silence)
			continue
		}

		sample := silence + toneAmplitude
		if (r.phase/halfToneLength)%2 == 1 {
			sample = silence - toneAmplitude
		}
		r.samples = append(r.samples, sample)
		r.phase++
	}
	if !active {
		r.phase = 0
	}
}

// Close writes the buffered samples to the WAV file.
func (r *Recorder) Close() (rerr error) {
	f, err := os.Create(r.filename)
	if err != nil {
		return fmt.Errorf("creating wav file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("closing wav file: %w", err)
		}
	}()

	r.logger.Info("Writing audio",
		log.String("file", r.filename),
		log.Int("samples", len(r.samples)),
		log.Int("beeps", r.beeps))

	enc := wav.NewEncoder(f, SampleRate, bitDepth, channels, pcmFormat)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  SampleRate,
		},
		Data:           r.samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing wav file: %w", err)
	}
	return nil
}
