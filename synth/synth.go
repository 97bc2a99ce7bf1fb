// Package synth implements the procedural pluck synthesizer: every trigger
// spawns an independent voice of five detuned partials with a fast-attack,
// long-exponential-decay envelope, and all live voices are mixed into one
// mono output stage.
package synth

import (
	"math"
	"math/rand"

	"github.com/fretquiz/fretquiz"
	"github.com/viterin/vek/vek32"
)

const (
	numPartials   = 5
	attackSeconds = 0.005
	decaySeconds  = 1.5
	// decayFloor is the envelope level the decay aims at when the window
	// ends; the curve approaches silence but never reaches it.
	decayFloor = 0.001
	// masterGain leaves headroom so rapid overlapping plucks do not clip.
	masterGain     = 0.4
	maxDetuneCents = 2.5
)

// partialAmps are the relative partial amplitudes, each half the previous,
// modeling natural harmonic rolloff.
var partialAmps = [numPartials]float32{1, 0.5, 0.25, 0.125, 0.0625}

type partial struct {
	phase float64
	delta float64 // phase increment per sample
	amp   float32
}

// voice is one pluck. Voices share no state with each other, so any number
// may decay concurrently.
type voice struct {
	partials [numPartials]partial
	age      int // samples rendered so far
	attack   int // attack length in samples
	limit    int // total length in samples; the voice dies here
	level    float32
	decay    float32 // per-sample decay multiplier
}

func newVoice(freq float64, sampleRate int, rnd *rand.Rand) *voice {
	attack := int(attackSeconds * float64(sampleRate))
	decaySamples := int(decaySeconds * float64(sampleRate))
	v := &voice{
		attack: attack,
		limit:  attack + decaySamples,
		level:  1,
		decay:  float32(math.Pow(decayFloor, 1/float64(decaySamples))),
	}
	for i := range v.partials {
		cents := (rnd.Float64()*2 - 1) * maxDetuneCents
		f := freq * float64(i+1) * math.Exp2(cents/1200)
		v.partials[i] = partial{delta: f / float64(sampleRate), amp: partialAmps[i]}
	}
	return v
}

// render overwrites buf with the voice's next samples, padding with silence
// past the end of the decay window. Returns false once the voice is done.
func (v *voice) render(buf []float32) bool {
	for i := 0; i < len(buf); i++ {
		if v.age >= v.limit {
			for ; i < len(buf); i++ {
				buf[i] = 0
			}
			return false
		}
		var env float32
		if v.age < v.attack {
			env = float32(v.age) / float32(v.attack)
		} else {
			env = v.level
			v.level *= v.decay
		}
		var sample float32
		for j := range v.partials {
			p := &v.partials[j]
			var osc float32
			if j == 0 {
				osc = triangle(p.phase) // warmer fundamental
			} else {
				osc = float32(math.Sin(2 * math.Pi * p.phase))
			}
			sample += p.amp * osc
			p.phase += p.delta
			if p.phase >= 1 {
				p.phase -= 1
			}
		}
		buf[i] = env * sample
		v.age++
	}
	return true
}

func triangle(phase float64) float32 {
	if phase < 0.5 {
		return float32(4*phase - 1)
	}
	return float32(3 - 4*phase)
}

// Synth owns the set of live voices. It is driven from a single goroutine
// (the audio callback); triggering from elsewhere goes through a message
// channel, never by calling Trigger concurrently.
type Synth struct {
	sampleRate int
	rand       *rand.Rand
	voices     []*voice
	scratch    []float32
}

func New(sampleRate int, rnd *rand.Rand) *Synth {
	return &Synth{sampleRate: sampleRate, rand: rnd}
}

// Trigger spawns a new pluck at the given fundamental frequency. The detune
// of each partial is drawn fresh per call.
func (s *Synth) Trigger(freq float64) {
	s.voices = append(s.voices, newVoice(freq, s.sampleRate, s.rand))
}

// Silence drops all live voices immediately.
func (s *Synth) Silence() {
	s.voices = s.voices[:0]
}

// ActiveVoices returns the number of voices still sounding.
func (s *Synth) ActiveVoices() int {
	return len(s.voices)
}

// Render fills buf with the mix of all live voices and removes the voices
// whose decay window ended during the buffer.
func (s *Synth) Render(buf fretquiz.AudioBuffer) {
	for i := range buf {
		buf[i] = 0
	}
	if len(s.scratch) < len(buf) {
		s.scratch = make([]float32, len(buf))
	}
	scratch := s.scratch[:len(buf)]
	alive := s.voices[:0]
	for _, v := range s.voices {
		if v.render(scratch) {
			alive = append(alive, v)
		}
		vek32.Add_Inplace(buf, scratch)
	}
	for i := len(alive); i < len(s.voices); i++ {
		s.voices[i] = nil
	}
	s.voices = alive
	vek32.MulNumber_Inplace(buf, masterGain)
}

// RenderMelody renders the melody offline at SampleRate, one entry after
// another, including the decay tail of the last note.
func RenderMelody(tuning fretquiz.Tuning, entries []fretquiz.MelodyEntry, rnd *rand.Rand) fretquiz.AudioBuffer {
	s := New(fretquiz.SampleRate, rnd)
	var out fretquiz.AudioBuffer
	for _, e := range entries {
		s.Trigger(tuning.Frequency(e.Position))
		buf := make(fretquiz.AudioBuffer, e.DurationMs*fretquiz.SampleRate/1000)
		s.Render(buf)
		out = append(out, buf...)
	}
	tailSeconds := attackSeconds + decaySeconds
	tail := make(fretquiz.AudioBuffer, int(tailSeconds*float64(fretquiz.SampleRate)))
	s.Render(tail)
	return append(out, tail...)
}
