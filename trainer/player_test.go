package trainer_test

import (
	"math/rand"
	"testing"

	"github.com/fretquiz/fretquiz"
	"github.com/fretquiz/fretquiz/synth"
	"github.com/fretquiz/fretquiz/trainer"
)

func TestPlayerTriggersAndReports(t *testing.T) {
	broker := trainer.NewBroker()
	player := trainer.NewPlayer(broker, synth.New(fretquiz.SampleRate, rand.New(rand.NewSource(1))))
	trainer.TrySend(broker.ToPlayer, any(trainer.PlayNoteMsg{Frequency: 110}))
	trainer.TrySend(broker.ToPlayer, any(trainer.PlayNoteMsg{Frequency: 220}))
	buf := make(fretquiz.AudioBuffer, 4096)
	if err := player.Process(buf); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	var silent = true
	for _, v := range buf {
		if v != 0 {
			silent = false
			break
		}
	}
	if silent {
		t.Errorf("two triggered notes rendered silence")
	}
	report := <-broker.ToModel
	if !report.HasVoiceCount || report.VoiceCount != 2 {
		t.Errorf("voice count report %+v, want 2 voices", report)
	}
}

func TestPlayerPanicSilences(t *testing.T) {
	broker := trainer.NewBroker()
	player := trainer.NewPlayer(broker, synth.New(fretquiz.SampleRate, rand.New(rand.NewSource(1))))
	trainer.TrySend(broker.ToPlayer, any(trainer.PlayNoteMsg{Frequency: 110}))
	trainer.TrySend(broker.ToPlayer, any(trainer.PanicMsg{}))
	buf := make(fretquiz.AudioBuffer, 4096)
	if err := player.Process(buf); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("panic should silence the synth, sample %d is %v", i, v)
		}
	}
	report := <-broker.ToModel
	if report.VoiceCount != 0 {
		t.Errorf("voice count %d after panic, want 0", report.VoiceCount)
	}
}
