package trainer

type (
	// Broker is the centralized message hub of the trainer. The model side
	// (quiz state machine, sequencer, countdown) lives on the caller's
	// goroutine; the player lives on the audio goroutine. They communicate
	// only through these channels, one per recipient, and every send is a
	// non-blocking TrySend so neither side can dead-lock the other. A full
	// channel drops the message, which is acceptable for both triggers and
	// status updates.
	Broker struct {
		ToModel  chan MsgToModel
		ToPlayer chan any
	}

	// MsgToModel carries player status back to the model side. The voice
	// count is passed unboxed as it is sent on every audio callback;
	// infrequent events (MIDI guesses) ride in Data.
	MsgToModel struct {
		HasVoiceCount bool
		VoiceCount    int
		Data          any
	}

	// PlayNoteMsg asks the player to pluck a note at the given fundamental
	// frequency.
	PlayNoteMsg struct {
		Frequency float64
	}

	// PanicMsg silences all live voices.
	PanicMsg struct{}

	// GuessNoteMsg is a pitch guess arriving from a MIDI input, identified
	// by its MIDI key.
	GuessNoteMsg struct {
		Note byte
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToModel:  make(chan MsgToModel, 1024),
		ToPlayer: make(chan any, 1024),
	}
}

// TrySend sends a value to a channel if it is not full. It is guaranteed to
// be non-blocking. Returns true if the value was sent.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}
