package trainer

import (
	"errors"

	"github.com/fretquiz/fretquiz"
)

var ErrAlreadyPlaying = errors.New("a melody is already playing")

type seqState int

const (
	seqIdle seqState = iota
	seqPlaying
	seqCancelling
)

// Sequencer plays an ordered, finite melody through the player, one entry at
// a time. It is an explicit state machine advanced by discrete Tick calls
// from the scheduler: each entry is triggered, then the sequencer waits out
// the entry's duration, re-checking the cancellation request only at entry
// boundaries, never mid-tone. At most one melody may be in flight; it cannot
// be paused, only run to completion or cancelled and restarted from entry 0.
type Sequencer struct {
	broker  *Broker
	tuning  fretquiz.Tuning
	entries []fretquiz.MelodyEntry
	state   seqState
	index   int
	wait    float64 // seconds until the current entry ends

	sounding   fretquiz.Position // published for display while playing
	soundingOK bool
}

func NewSequencer(broker *Broker, tuning fretquiz.Tuning) *Sequencer {
	return &Sequencer{broker: broker, tuning: tuning}
}

// Play starts the melody from its first entry. A call while a melody is
// active is a no-op returning ErrAlreadyPlaying; it never queues a second
// run.
func (s *Sequencer) Play(entries []fretquiz.MelodyEntry) error {
	if s.state != seqIdle {
		return ErrAlreadyPlaying
	}
	if len(entries) == 0 {
		return nil
	}
	s.entries = entries
	s.state = seqPlaying
	s.startEntry(0)
	return nil
}

// Cancel requests an early stop. It takes effect before the next entry
// begins; the currently sounding note finishes its wait. Cancelling an idle
// sequencer does nothing.
func (s *Sequencer) Cancel() {
	if s.state == seqPlaying {
		s.state = seqCancelling
	}
}

// Tick advances the sequencer by delta seconds, moving to the next entry (or
// finishing) when the current entry's duration has elapsed.
func (s *Sequencer) Tick(delta float64) {
	if s.state == seqIdle {
		return
	}
	s.wait -= delta
	if s.wait > 0 {
		return
	}
	if s.state == seqCancelling || s.index+1 >= len(s.entries) {
		s.finish()
		return
	}
	s.startEntry(s.index + 1)
}

func (s *Sequencer) startEntry(index int) {
	s.index = index
	e := s.entries[index]
	s.sounding = e.Position
	s.soundingOK = true
	s.wait = float64(e.DurationMs) / 1000
	TrySend(s.broker.ToPlayer, any(PlayNoteMsg{Frequency: s.tuning.Frequency(e.Position)}))
}

func (s *Sequencer) finish() {
	s.state = seqIdle
	s.index = 0
	s.wait = 0
	s.soundingOK = false
}

// Playing reports whether a melody is in flight, including one whose
// cancellation has been requested but not yet taken effect.
func (s *Sequencer) Playing() bool { return s.state != seqIdle }

// Sounding returns the currently sounding melody position, if any. The
// rendering layer polls this for display.
func (s *Sequencer) Sounding() (fretquiz.Position, bool) {
	return s.sounding, s.soundingOK
}
