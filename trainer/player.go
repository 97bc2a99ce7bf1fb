package trainer

import (
	"github.com/fretquiz/fretquiz"
	"github.com/fretquiz/fretquiz/synth"
)

// Player is the audio side of the trainer, run on the audio callback
// goroutine. It consumes trigger messages from the broker, owns the synth
// and renders its voices into the output buffer. Every trigger spawns an
// independent voice, so overlapping plucks from rapid guesses never
// interfere with each other's envelopes.
type Player struct {
	synth  *synth.Synth
	broker *Broker
}

func NewPlayer(broker *Broker, s *synth.Synth) *Player {
	return &Player{synth: s, broker: broker}
}

// Process renders audio into the given buffer, handling all pending messages
// first. It reports the live voice count back to the model so the display
// can show whether something is sounding; the send is non-blocking and may
// be dropped.
func (p *Player) Process(buf fretquiz.AudioBuffer) error {
	p.processMessages()
	p.synth.Render(buf)
	TrySend(p.broker.ToModel, MsgToModel{HasVoiceCount: true, VoiceCount: p.synth.ActiveVoices()})
	return nil
}

func (p *Player) processMessages() {
loop:
	for {
		select {
		case msg := <-p.broker.ToPlayer:
			switch m := msg.(type) {
			case PlayNoteMsg:
				p.synth.Trigger(m.Frequency)
			case PanicMsg:
				p.synth.Silence()
			default:
				// ignore unknown messages
			}
		default:
			break loop
		}
	}
}
