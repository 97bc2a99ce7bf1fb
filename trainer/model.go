package trainer

import (
	"errors"
	"math/rand"

	"github.com/fretquiz/fretquiz"
)

var (
	ErrNotAsking   = errors.New("no question is open for guessing")
	ErrNotAnswered = errors.New("no answered question to advance from")
	ErrNotStudy    = errors.New("free playing requires study mode")
)

// Mode is the single enumerated trainer mode, so the mutual exclusion of
// study and sweat is structural rather than enforced by convention.
type Mode int

const (
	ModeNormal Mode = iota
	ModeStudy       // untimed, unscored free exploration
	ModeSweat       // timed play against the countdown
)

func (m Mode) String() string {
	switch m {
	case ModeStudy:
		return "study"
	case ModeSweat:
		return "sweat"
	}
	return "normal"
}

// State is the quiz question lifecycle.
type State int

const (
	StateAsking State = iota
	StateAnswered
)

// Score counts answered questions. Both counters are monotonically
// non-decreasing and only Reset zeroes them; Correct never exceeds Total.
type Score struct {
	Correct int
	Total   int
}

// Feedback is the outcome of the last guess, cleared whenever a new question
// begins.
type Feedback struct {
	Message string
	Correct bool
}

// Auto-advance delays after a correct guess; sweat mode keeps a faster pace.
const (
	advanceDelayNormal = 1.2
	advanceDelaySweat  = 0.8
)

// Model is the quiz state machine. It exclusively owns the score, feedback,
// mode and target position, and drives the countdown and the melody
// sequencer. All methods run on the caller's goroutine; time advances only
// through explicit Tick calls, so every transition runs to completion
// without preemption. Side-effect sounds go to the player as broker
// messages.
type Model struct {
	broker    *Broker
	cfg       fretquiz.Config
	rand      *rand.Rand
	seq       *Sequencer
	countdown Countdown

	state    State
	mode     Mode
	target   fretquiz.Position
	score    Score
	feedback Feedback
	answered bool // whether feedback is present

	advanceWait    float64
	advancePending bool

	started    bool // suppresses the tone of the very first question
	voiceCount int
}

// NewModel creates the state machine with a fresh random question open. The
// first question's tone is suppressed so the session does not start with an
// unsolicited sound.
func NewModel(broker *Broker, cfg fretquiz.Config, rnd *rand.Rand) *Model {
	m := &Model{
		broker: broker,
		cfg:    cfg,
		rand:   rnd,
		seq:    NewSequencer(broker, cfg.Tuning),
	}
	m.startQuestion()
	m.started = true
	return m
}

// Tick advances all cooperative clocks by delta seconds: pending broker
// messages, the melody sequencer, the countdown (whose expiry resolves the
// open question as a timeout) and the post-correct-guess auto-advance.
// Production wires this to a 100 ms ticker; tests call it directly.
func (m *Model) Tick(delta float64) {
	m.processMessages()
	m.seq.Tick(delta)
	if m.countdown.Tick(delta) {
		m.Timeout()
	}
	if m.advancePending {
		m.advanceWait -= delta
		if m.advanceWait <= 0 {
			m.startQuestion()
		}
	}
}

// Guess resolves the open question with the given pitch name, accepting
// either sharp or flat spellings. Guessing is rejected while no question is
// open and in study mode. The countdown is stopped before evaluating, so an
// in-flight expiry can never resolve the same question twice.
func (m *Model) Guess(answer string) error {
	if m.mode == ModeStudy || m.state != StateAsking {
		return ErrNotAsking
	}
	m.countdown.Stop()
	note := m.cfg.Tuning.NoteAt(m.target)
	correct := fretquiz.Equivalent(answer, note.String())
	m.score.Total++
	m.playTarget()
	m.state = StateAnswered
	m.answered = true
	if correct {
		m.score.Correct++
		m.feedback = Feedback{Message: "Correct! " + note.Label(), Correct: true}
		m.advancePending = true
		if m.mode == ModeSweat {
			m.advanceWait = advanceDelaySweat
		} else {
			m.advanceWait = advanceDelayNormal
		}
	} else {
		// an incorrect answer leaves the question revealed until the user
		// explicitly advances
		m.feedback = Feedback{Message: "No, that was " + note.Label(), Correct: false}
	}
	return nil
}

// Timeout resolves the open question as an automatic incorrect guess. Called
// by Tick when the countdown expires; valid only under sweat mode with a
// question open.
func (m *Model) Timeout() error {
	if m.mode != ModeSweat || m.state != StateAsking {
		return ErrNotAsking
	}
	note := m.cfg.Tuning.NoteAt(m.target)
	m.score.Total++
	m.playTarget()
	m.state = StateAnswered
	m.answered = true
	m.feedback = Feedback{Message: "Time! That was " + note.Label(), Correct: false}
	return nil
}

// Advance moves from an answered question to a fresh one.
func (m *Model) Advance() error {
	if m.state != StateAnswered {
		return ErrNotAnswered
	}
	m.startQuestion()
	return nil
}

// Reset zeroes the score, silences everything and opens a fresh question.
// Valid from any state.
func (m *Model) Reset() {
	m.score = Score{}
	m.countdown.Stop()
	m.seq.Cancel()
	TrySend(m.broker.ToPlayer, any(PanicMsg{}))
	m.startQuestion()
}

// SetStudyMode toggles study mode. Enabling it forces sweat mode off and
// stops the countdown; disabling it leaves sweat mode untouched.
func (m *Model) SetStudyMode(on bool) {
	if on {
		m.mode = ModeStudy
		m.countdown.Stop()
		m.advancePending = false
	} else if m.mode == ModeStudy {
		m.mode = ModeNormal
	}
}

// SetSweatMode toggles sweat mode. Enabling it forces study mode off and
// resets the countdown budget for the open question; disabling it stops the
// countdown.
func (m *Model) SetSweatMode(on bool) {
	if on {
		m.mode = ModeSweat
		if m.state == StateAsking && !m.seq.Playing() {
			m.countdown.Start(m.cfg.SweatBudget)
		}
	} else if m.mode == ModeSweat {
		m.mode = ModeNormal
		m.countdown.Stop()
	}
}

// PlayCurrent plays the tone of the current target again.
func (m *Model) PlayCurrent() {
	m.playTarget()
}

// PlayPosition plays an arbitrary fretboard position without affecting the
// score. Only study mode allows free playing; the position is validated
// because it comes from outside the model.
func (m *Model) PlayPosition(p fretquiz.Position) error {
	if m.mode != ModeStudy {
		return ErrNotStudy
	}
	if err := p.Validate(); err != nil {
		return err
	}
	TrySend(m.broker.ToPlayer, any(PlayNoteMsg{Frequency: m.cfg.Tuning.Frequency(p)}))
	return nil
}

// PlayMelody starts the configured melody. A melody in flight makes this a
// no-op returning ErrAlreadyPlaying. Starting the melody stops the
// countdown, so the trainer cannot time out mid-melody.
func (m *Model) PlayMelody() error {
	if err := m.seq.Play(m.cfg.Melody); err != nil {
		return err
	}
	m.countdown.Stop()
	return nil
}

// CancelMelody requests the melody to stop before its next entry.
func (m *Model) CancelMelody() {
	m.seq.Cancel()
}

func (m *Model) startQuestion() {
	m.target = fretquiz.Position{
		String: m.rand.Intn(fretquiz.NumStrings),
		Fret:   m.rand.Intn(m.cfg.FretCount + 1),
	}
	m.feedback = Feedback{}
	m.answered = false
	m.advancePending = false
	m.state = StateAsking
	if m.mode == ModeSweat {
		m.countdown.Start(m.cfg.SweatBudget)
	}
	if m.started {
		m.playTarget()
	}
}

func (m *Model) playTarget() {
	TrySend(m.broker.ToPlayer, any(PlayNoteMsg{Frequency: m.cfg.Tuning.Frequency(m.target)}))
}

func (m *Model) processMessages() {
loop:
	for {
		select {
		case msg := <-m.broker.ToModel:
			if msg.HasVoiceCount {
				m.voiceCount = msg.VoiceCount
			}
			switch d := msg.Data.(type) {
			case GuessNoteMsg:
				m.Guess(fretquiz.PitchClassFromMIDI(d.Note).String())
			}
		default:
			break loop
		}
	}
}

func (m *Model) State() State { return m.state }
func (m *Model) Mode() Mode   { return m.mode }
func (m *Model) Score() Score { return m.score }

// Feedback returns the last-guess outcome, or false while no question has
// been answered.
func (m *Model) Feedback() (Feedback, bool) { return m.feedback, m.answered }

// Target returns the position currently asked about.
func (m *Model) Target() fretquiz.Position { return m.target }

// Revealed returns the target's pitch class, but only once the question has
// been answered.
func (m *Model) Revealed() (fretquiz.PitchClass, bool) {
	if m.state != StateAnswered {
		return 0, false
	}
	return m.cfg.Tuning.NoteAt(m.target), true
}

func (m *Model) CountdownRemaining() float64 { return m.countdown.Remaining() }
func (m *Model) CountdownRunning() bool      { return m.countdown.Running() }

// Sounding returns the melody position currently playing, if any.
func (m *Model) Sounding() (fretquiz.Position, bool) { return m.seq.Sounding() }
func (m *Model) MelodyPlaying() bool                 { return m.seq.Playing() }

// VoiceCount is the number of synth voices live at the last player report.
func (m *Model) VoiceCount() int { return m.voiceCount }
