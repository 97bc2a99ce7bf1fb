package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fretquiz/fretquiz"
	"github.com/fretquiz/fretquiz/oto"
	"github.com/fretquiz/fretquiz/synth"
	"github.com/fretquiz/fretquiz/trainer"
	"github.com/fretquiz/fretquiz/trainer/gomidi"
)

var (
	configFile = flag.String("config", "", "load tuning/melody configuration from YAML `file`")
	midiInput  = flag.String("midi-input", "", "connect MIDI input to matching device name prefix")
	study      = flag.Bool("study", false, "start in study mode")
	sweat      = flag.Bool("sweat", false, "start in sweat (timed) mode")
	seed       = flag.Int64("seed", 0, "random seed; 0 picks one from the clock")
	wavOut     = flag.String("wav", "", "render the melody to a .wav `file` and exit")
	rawOut     = flag.String("raw", "", "render the melody to a headerless raw `file` and exit")
	pcm        = flag.Bool("c", false, "convert audio to 16-bit signed PCM when outputting")
)

const tickInterval = 100 * time.Millisecond

func main() {
	flag.Parse()
	cfg := fretquiz.DefaultConfig()
	if *configFile != "" {
		f, err := os.Open(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not open config %v: %v\n", *configFile, err)
			os.Exit(1)
		}
		cfg, err = fretquiz.ReadConfig(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not read config %v: %v\n", *configFile, err)
			os.Exit(1)
		}
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(*seed))

	if *wavOut != "" || *rawOut != "" {
		buffer := synth.RenderMelody(cfg.Tuning, cfg.Melody, rnd)
		name := *wavOut
		data, err := fretquiz.Wav(buffer, *pcm)
		if *rawOut != "" {
			name = *rawOut
			data, err = fretquiz.Raw(buffer, *pcm)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not render melody: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(name, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "could not write %v: %v\n", name, err)
			os.Exit(1)
		}
		return
	}

	broker := trainer.NewBroker()
	player := trainer.NewPlayer(broker, synth.New(fretquiz.SampleRate, rand.New(rand.NewSource(*seed+1))))

	var audioContext fretquiz.AudioContext
	if ctx, err := oto.NewContext(); err != nil {
		// the trainer stays usable without sound
		fmt.Fprintf(os.Stderr, "audio unavailable, running silent: %v\n", err)
		audioContext = fretquiz.NullAudioContext{}
	} else {
		audioContext = ctx
	}
	defer audioContext.Close()
	audioCloser := audioContext.Play(func(buf fretquiz.AudioBuffer) error {
		return player.Process(buf)
	})
	defer audioCloser.Close()

	midiContext := gomidi.NewContext(broker)
	defer midiContext.Close()
	if *midiInput != "" {
		if err := midiContext.TryToOpenBy(*midiInput, false); err != nil {
			fmt.Fprintf(os.Stderr, "MIDI input disabled: %v\n", err)
		}
	}

	model := trainer.NewModel(broker, cfg, rnd)
	if *study {
		model.SetStudyMode(true)
	}
	if *sweat {
		model.SetSweatMode(true)
	}

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	fmt.Println("fretquiz — answer with a note name (E, F#, Bb, ...); other commands:")
	fmt.Println("  next, reset, play, melody, stop, fret <string> <fret>, study, sweat, normal, quit")
	printQuestion(model)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	lastTarget := model.Target()
	for {
		select {
		case <-ticker.C:
			answeredBefore := model.State() == trainer.StateAnswered
			model.Tick(tickInterval.Seconds())
			if t := model.Target(); t != lastTarget {
				// the model advanced on its own (auto-advance or timeout)
				lastTarget = t
				printQuestion(model)
			} else if !answeredBefore && model.State() == trainer.StateAnswered {
				printFeedback(model)
			}
		case line, ok := <-lines:
			if !ok {
				return
			}
			if !handle(model, strings.TrimSpace(line)) {
				return
			}
			lastTarget = model.Target()
		}
	}
}

func handle(model *trainer.Model, line string) bool {
	if line == "" {
		return true
	}
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		return false
	case "next":
		if err := model.Advance(); err != nil {
			fmt.Println(err)
		} else {
			printQuestion(model)
		}
	case "reset":
		model.Reset()
		printQuestion(model)
	case "play":
		model.PlayCurrent()
	case "melody":
		if err := model.PlayMelody(); err != nil {
			fmt.Println(err)
		}
	case "stop":
		model.CancelMelody()
	case "fret":
		if len(fields) != 3 {
			fmt.Println("usage: fret <string 0-5> <fret 0-12>")
			return true
		}
		s, err1 := strconv.Atoi(fields[1])
		f, err2 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil {
			fmt.Println("usage: fret <string 0-5> <fret 0-12>")
			return true
		}
		if err := model.PlayPosition(fretquiz.Position{String: s, Fret: f}); err != nil {
			fmt.Println(err)
		}
	case "study":
		model.SetStudyMode(true)
		fmt.Println("study mode: click any fret with 'fret <string> <fret>'")
	case "sweat":
		model.SetSweatMode(true)
		fmt.Printf("sweat mode: %.1f s per question\n", model.CountdownRemaining())
		printQuestion(model)
	case "normal":
		model.SetStudyMode(false)
		model.SetSweatMode(false)
	case "score":
		s := model.Score()
		fmt.Printf("score: %d/%d\n", s.Correct, s.Total)
	default:
		if err := model.Guess(normalizeNote(fields[0])); err != nil {
			fmt.Println(err)
		} else {
			printFeedback(model)
		}
	}
	return true
}

// normalizeNote uppercases the note letter and lowercases a trailing flat
// sign, so "bb" and "f#" are accepted.
func normalizeNote(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func printQuestion(model *trainer.Model) {
	t := model.Target()
	s := model.Score()
	fmt.Printf("[%d/%d] which note is string %d, fret %d?\n", s.Correct, s.Total, t.String, t.Fret)
}

func printFeedback(model *trainer.Model) {
	if fb, ok := model.Feedback(); ok {
		fmt.Println(fb.Message)
	}
}
