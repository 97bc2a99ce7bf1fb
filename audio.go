package fretquiz

import "io"

// SampleRate is the fixed output sample rate of the whole trainer, in Hz.
const SampleRate = 44100

// AudioBuffer is a buffer of mono float32 samples.
type AudioBuffer []float32

// AudioCallback fills buf with the next samples to output. It is called from
// the audio goroutine; implementations must not block.
type AudioCallback func(buf AudioBuffer) error

// AudioContext is the audio output capability. At most one live context per
// process; acquisition may fail, in which case callers fall back to
// NullAudioContext and keep running silently.
type AudioContext interface {
	// Play starts pulling audio through the callback until the returned
	// closer is closed.
	Play(callback AudioCallback) io.Closer
	Close() error
}

// NullAudioContext is the silent fallback used when no audio device could be
// acquired. Play never invokes the callback.
type NullAudioContext struct{}

func (NullAudioContext) Play(callback AudioCallback) io.Closer { return nullCloser{} }
func (NullAudioContext) Close() error                          { return nil }

type nullCloser struct{}

func (nullCloser) Close() error { return nil }
