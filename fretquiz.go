package fretquiz

import (
	"errors"
	"fmt"
	"math"
)

const (
	// NumStrings is the number of strings on the fretboard; string 0 is the
	// lowest-pitched (low E), string 5 the highest (high E).
	NumStrings = 6

	// NumFrets is the number of frets per string, so valid frets are
	// 0..NumFrets inclusive, 0 meaning the open string.
	NumFrets = 12
)

var ErrPositionOutOfRange = errors.New("position out of range")

// Position identifies a fretboard location. The fret is the semitone offset
// from the open string.
type Position struct {
	String int `yaml:"string"`
	Fret   int `yaml:"fret"`
}

// Validate returns ErrPositionOutOfRange if the position does not exist on
// the fretboard. Out of range positions indicate a caller bug, so this is
// checked on every externally constructed position.
func (p Position) Validate() error {
	if p.String < 0 || p.String >= NumStrings || p.Fret < 0 || p.Fret > NumFrets {
		return fmt.Errorf("%w: string %d, fret %d", ErrPositionOutOfRange, p.String, p.Fret)
	}
	return nil
}

// PitchClass is one of the 12 note names, indexed in semitone order starting
// at A. The sharp spelling is canonical; five classes also have a flat alias.
type PitchClass int

var pitchNames = [12]string{"A", "A#", "B", "C", "C#", "D", "D#", "E", "F", "F#", "G", "G#"}

// flatNames[i] is the flat alias of pitch class i, or "" for the seven
// naturals.
var flatNames = [12]string{"", "Bb", "", "", "Db", "", "Eb", "", "", "Gb", "", "Ab"}

func (c PitchClass) String() string {
	return pitchNames[((int(c)%12)+12)%12]
}

// Flat returns the flat alias of the pitch class, or "" if it has none.
func (c PitchClass) Flat() string {
	return flatNames[((int(c)%12)+12)%12]
}

// Label returns the name to show the user: "F" for naturals, "A# / Bb" for
// the classes with an alias.
func (c PitchClass) Label() string {
	if f := c.Flat(); f != "" {
		return c.String() + " / " + f
	}
	return c.String()
}

// ParsePitchClass accepts either the canonical sharp spelling or a flat
// alias and returns the pitch class it names.
func ParsePitchClass(name string) (PitchClass, bool) {
	for i, n := range pitchNames {
		if name == n || (flatNames[i] != "" && name == flatNames[i]) {
			return PitchClass(i), true
		}
	}
	return 0, false
}

// Equivalent reports whether answer names the same pitch class as target,
// treating sharp spellings and their flat aliases as interchangeable. Unknown
// spellings are never equivalent to anything.
func Equivalent(answer, target string) bool {
	a, ok := ParsePitchClass(answer)
	if !ok {
		return false
	}
	t, ok := ParsePitchClass(target)
	if !ok {
		return false
	}
	return a == t
}

// PitchClassFromMIDI maps a MIDI key onto the A-rooted pitch class table.
// MIDI key 21 is A0.
func PitchClassFromMIDI(key byte) PitchClass {
	return PitchClass((int(key) + 3) % 12)
}

// Tuning is the read-only lookup data mapping open strings to their pitch
// names and base frequencies, low string first.
type Tuning struct {
	Names       []string  `yaml:"names,flow"`
	Frequencies []float64 `yaml:"frequencies,flow"`
}

// DefaultTuning is standard guitar tuning, E2 to E4.
func DefaultTuning() Tuning {
	return Tuning{
		Names:       []string{"E", "A", "D", "G", "B", "E"},
		Frequencies: []float64{82.41, 110.0, 146.83, 196.0, 246.94, 329.63},
	}
}

func (t Tuning) Validate() error {
	if len(t.Names) != NumStrings || len(t.Frequencies) != NumStrings {
		return fmt.Errorf("tuning needs %d names and frequencies, got %d and %d", NumStrings, len(t.Names), len(t.Frequencies))
	}
	for i, n := range t.Names {
		if _, ok := ParsePitchClass(n); !ok {
			return fmt.Errorf("tuning name %d is not a pitch class: %q", i, n)
		}
	}
	for i, f := range t.Frequencies {
		if f <= 0 {
			return fmt.Errorf("tuning frequency %d is not positive: %v", i, f)
		}
	}
	return nil
}

// Frequency returns the frequency of the position in Hz: the open string
// frequency raised by a fret's worth of equal-tempered semitones. Frets
// beyond NumFrets are accepted so callers can reason about octaves.
func (t Tuning) Frequency(p Position) float64 {
	return t.Frequencies[p.String] * math.Exp2(float64(p.Fret)/12)
}

// NoteAt returns the pitch class sounding at the position: the open string
// pitch advanced by fret semitones. Periodic in the fret with period 12.
func (t Tuning) NoteAt(p Position) PitchClass {
	open, _ := ParsePitchClass(t.Names[p.String])
	return PitchClass((int(open) + p.Fret) % 12)
}
