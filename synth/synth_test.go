package synth

import (
	"math"
	"math/rand"
	"testing"

	"github.com/fretquiz/fretquiz"
)

func TestVoiceLifetime(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	v := newVoice(440, fretquiz.SampleRate, rnd)
	buf := make([]float32, v.limit)
	if !v.render(buf) {
		t.Fatalf("voice died before the end of its decay window")
	}
	tail := make([]float32, 64)
	if v.render(tail) {
		t.Fatalf("voice should die at the end of its decay window")
	}
	for i, s := range tail {
		if s != 0 {
			t.Fatalf("dead voice rendered non-zero sample %v at %d", s, i)
		}
	}
}

func TestVoiceEnvelopeShape(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	v := newVoice(440, fretquiz.SampleRate, rnd)
	buf := make([]float32, v.limit)
	v.render(buf)
	if buf[0] != 0 {
		t.Errorf("attack should start from silence, got %v", buf[0])
	}
	// the pluck: loud right after the 5 ms attack, near-silent at the end
	early := rms(buf[v.attack : v.attack+4410])
	late := rms(buf[len(buf)-4410:])
	if early < 0.1 {
		t.Errorf("post-attack rms %v, expected an audible pluck", early)
	}
	if late > early/100 {
		t.Errorf("decay tail rms %v vs post-attack %v, expected at least 100x decay", late, early)
	}
}

func TestDetuneBounds(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	const freq = 196.0
	maxFactor := math.Exp2(maxDetuneCents / 1200)
	for n := 0; n < 100; n++ {
		v := newVoice(freq, fretquiz.SampleRate, rnd)
		for i, p := range v.partials {
			nominal := freq * float64(i+1) / fretquiz.SampleRate
			if p.delta < nominal/maxFactor || p.delta > nominal*maxFactor {
				t.Fatalf("partial %d delta %v outside ±%v cents of %v", i, p.delta, maxDetuneCents, nominal)
			}
		}
	}
}

func TestOverlappingVoicesAreIndependent(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	s := New(fretquiz.SampleRate, rnd)
	s.Trigger(82.41)
	buf := make(fretquiz.AudioBuffer, 4410)
	s.Render(buf)
	s.Trigger(110)
	if got := s.ActiveVoices(); got != 2 {
		t.Fatalf("expected 2 overlapping voices, got %d", got)
	}
	// render past the first voice's end: only the second remains
	s.Render(make(fretquiz.AudioBuffer, s.voices[0].limit))
	if got := s.ActiveVoices(); got != 1 {
		t.Fatalf("expected the older voice to self-terminate, got %d voices", got)
	}
	s.Render(make(fretquiz.AudioBuffer, s.voices[0].limit))
	if got := s.ActiveVoices(); got != 0 {
		t.Fatalf("expected all voices to self-terminate, got %d", got)
	}
}

func TestMasterGainHeadroom(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	s := New(fretquiz.SampleRate, rnd)
	// rapid repeated calls decaying concurrently
	for i := 0; i < 4; i++ {
		s.Trigger(329.63)
	}
	buf := make(fretquiz.AudioBuffer, fretquiz.SampleRate)
	s.Render(buf)
	var peak float32
	for _, v := range buf {
		if v > peak {
			peak = v
		}
		if -v > peak {
			peak = -v
		}
	}
	if peak == 0 {
		t.Fatalf("four plucks rendered silence")
	}
	if peak >= 4 {
		t.Errorf("peak %v suggests master gain is not applied", peak)
	}
}

func TestSilence(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	s := New(fretquiz.SampleRate, rnd)
	s.Trigger(440)
	s.Silence()
	if got := s.ActiveVoices(); got != 0 {
		t.Fatalf("silence left %d voices", got)
	}
	buf := make(fretquiz.AudioBuffer, 256)
	s.Render(buf)
	for _, v := range buf {
		if v != 0 {
			t.Fatalf("silenced synth rendered %v", v)
		}
	}
}

func TestRenderMelody(t *testing.T) {
	tuning := fretquiz.DefaultTuning()
	entries := []fretquiz.MelodyEntry{
		{Position: fretquiz.Position{String: 0, Fret: 0}, DurationMs: 100},
		{Position: fretquiz.Position{String: 1, Fret: 2}, DurationMs: 200},
	}
	buf := RenderMelody(tuning, entries, rand.New(rand.NewSource(1)))
	tailSeconds := attackSeconds + decaySeconds
	want := (100+200)*fretquiz.SampleRate/1000 + int(tailSeconds*float64(fretquiz.SampleRate))
	if len(buf) != want {
		t.Errorf("melody length %d samples, want %d", len(buf), want)
	}
	if rms(buf[:4410]) == 0 {
		t.Errorf("melody rendered silence")
	}
}

func rms(buf []float32) float64 {
	var sum float64
	for _, v := range buf {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(buf)))
}
