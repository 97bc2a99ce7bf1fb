package fretquiz

// MelodyEntry is one note of a melody playlist: a fretboard position and how
// long it sounds, in milliseconds.
type MelodyEntry struct {
	Position   Position `yaml:"position"`
	DurationMs int      `yaml:"durationms"`
}

// FunMelody returns the built-in 19-note demo melody, a pentatonic lick that
// wanders up the strings and resolves back to the low E.
func FunMelody() []MelodyEntry {
	return []MelodyEntry{
		{Position{0, 0}, 300},
		{Position{0, 3}, 300},
		{Position{0, 5}, 300},
		{Position{1, 2}, 300},
		{Position{1, 5}, 300},
		{Position{2, 2}, 600},
		{Position{2, 4}, 300},
		{Position{3, 2}, 300},
		{Position{3, 4}, 300},
		{Position{4, 5}, 600},
		{Position{4, 3}, 300},
		{Position{5, 0}, 300},
		{Position{5, 3}, 300},
		{Position{5, 0}, 300},
		{Position{4, 5}, 300},
		{Position{3, 4}, 300},
		{Position{2, 2}, 300},
		{Position{1, 2}, 300},
		{Position{0, 0}, 900},
	}
}
