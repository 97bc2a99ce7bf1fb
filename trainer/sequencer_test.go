package trainer_test

import (
	"errors"
	"testing"

	"github.com/fretquiz/fretquiz"
	"github.com/fretquiz/fretquiz/trainer"
)

func testMelody(n int) []fretquiz.MelodyEntry {
	entries := make([]fretquiz.MelodyEntry, n)
	for i := range entries {
		entries[i] = fretquiz.MelodyEntry{
			Position:   fretquiz.Position{String: i % fretquiz.NumStrings, Fret: i % (fretquiz.NumFrets + 1)},
			DurationMs: 250,
		}
	}
	return entries
}

// drainPlayer empties the player channel and returns the number of note
// triggers it carried.
func drainPlayer(broker *trainer.Broker) (notes int) {
	for {
		select {
		case msg := <-broker.ToPlayer:
			if _, ok := msg.(trainer.PlayNoteMsg); ok {
				notes++
			}
		default:
			return notes
		}
	}
}

func TestSequencerRunsToCompletion(t *testing.T) {
	broker := trainer.NewBroker()
	seq := trainer.NewSequencer(broker, fretquiz.DefaultTuning())
	if err := seq.Play(testMelody(5)); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if !seq.Playing() {
			t.Fatalf("sequencer stopped before entry %d finished", i)
		}
		if _, ok := seq.Sounding(); !ok {
			t.Fatalf("no sounding position during entry %d", i)
		}
		seq.Tick(0.25)
	}
	if seq.Playing() {
		t.Errorf("sequencer still playing after the last entry's duration")
	}
	if _, ok := seq.Sounding(); ok {
		t.Errorf("sounding position left behind after completion")
	}
	if got := drainPlayer(broker); got != 5 {
		t.Errorf("triggered %d notes, want 5", got)
	}
}

func TestSequencerCancelAtEntryBoundary(t *testing.T) {
	broker := trainer.NewBroker()
	seq := trainer.NewSequencer(broker, fretquiz.DefaultTuning())
	if err := seq.Play(testMelody(8)); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	// let three entries run, then cancel midway through the third
	seq.Tick(0.25)
	seq.Tick(0.25)
	seq.Tick(0.1)
	seq.Cancel()
	// the sounding entry finishes its duration before the cancel lands
	if !seq.Playing() {
		t.Fatalf("cancel should not interrupt the sounding entry")
	}
	if _, ok := seq.Sounding(); !ok {
		t.Fatalf("sounding position should persist until the entry ends")
	}
	seq.Tick(0.15)
	if seq.Playing() {
		t.Errorf("sequencer should stop at the next entry boundary after cancel")
	}
	if _, ok := seq.Sounding(); ok {
		t.Errorf("sounding position left behind after cancel")
	}
	if got := drainPlayer(broker); got != 3 {
		t.Errorf("triggered %d notes, want 3 (entry 4 must not start)", got)
	}
	// a fresh Play restarts from entry 0
	if err := seq.Play(testMelody(2)); err != nil {
		t.Fatalf("Play after cancel failed: %v", err)
	}
	p, ok := seq.Sounding()
	if !ok || p != (fretquiz.Position{String: 0, Fret: 0}) {
		t.Errorf("restart should begin at the first entry, sounding %+v ok=%v", p, ok)
	}
}

func TestSequencerPlayWhileActive(t *testing.T) {
	broker := trainer.NewBroker()
	seq := trainer.NewSequencer(broker, fretquiz.DefaultTuning())
	if err := seq.Play(testMelody(3)); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if err := seq.Play(testMelody(3)); !errors.Is(err, trainer.ErrAlreadyPlaying) {
		t.Fatalf("second Play: got %v, want ErrAlreadyPlaying", err)
	}
	seq.Cancel()
	// still in flight until the boundary, so Play is still rejected
	if err := seq.Play(testMelody(3)); !errors.Is(err, trainer.ErrAlreadyPlaying) {
		t.Fatalf("Play during cancellation: got %v, want ErrAlreadyPlaying", err)
	}
	if got := drainPlayer(broker); got != 1 {
		t.Errorf("triggered %d notes, want 1 (no second run queued)", got)
	}
}

func TestSequencerEmptyMelody(t *testing.T) {
	broker := trainer.NewBroker()
	seq := trainer.NewSequencer(broker, fretquiz.DefaultTuning())
	if err := seq.Play(nil); err != nil {
		t.Fatalf("empty melody should be a no-op, got %v", err)
	}
	if seq.Playing() {
		t.Errorf("empty melody left the sequencer playing")
	}
	if got := drainPlayer(broker); got != 0 {
		t.Errorf("empty melody triggered %d notes", got)
	}
}

func TestSequencerCancelWhenIdle(t *testing.T) {
	broker := trainer.NewBroker()
	seq := trainer.NewSequencer(broker, fretquiz.DefaultTuning())
	seq.Cancel()
	if seq.Playing() {
		t.Errorf("cancel on an idle sequencer should do nothing")
	}
	if err := seq.Play(testMelody(1)); err != nil {
		t.Errorf("Play after idle cancel failed: %v", err)
	}
}
