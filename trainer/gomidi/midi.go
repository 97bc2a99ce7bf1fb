// Package gomidi lets a MIDI keyboard answer quiz questions: note-on
// messages become pitch-class guesses forwarded to the model through the
// broker. A missing driver or device is tolerated; MIDI input is optional.
package gomidi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fretquiz/fretquiz/trainer"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type Context struct {
	broker    *trainer.Broker
	driver    *rtmididrv.Driver
	currentIn drivers.In
}

// NewContext opens the rtmidi driver. There's not much we can do if this
// fails, so driver == nil just means no MIDI input is available.
func NewContext(broker *trainer.Broker) *Context {
	c := &Context{broker: broker}
	c.driver, _ = rtmididrv.New()
	return c
}

// TryToOpenBy opens the first input device whose name starts with
// namePrefix, or simply the first device when takeFirst is set.
func (c *Context) TryToOpenBy(namePrefix string, takeFirst bool) error {
	if c.driver == nil {
		return errors.New("no MIDI driver available")
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return fmt.Errorf("listing MIDI inputs failed: %w", err)
	}
	for _, in := range ins {
		if takeFirst || strings.HasPrefix(in.String(), namePrefix) {
			return c.open(in)
		}
	}
	if takeFirst {
		return errors.New("no MIDI input devices found")
	}
	return fmt.Errorf("no MIDI input found with prefix %q", namePrefix)
}

func (c *Context) open(in drivers.In) error {
	if c.currentIn == in {
		return nil
	}
	if c.HasDeviceOpen() {
		c.currentIn.Close()
	}
	c.currentIn = in
	if err := in.Open(); err != nil {
		c.currentIn = nil
		return fmt.Errorf("opening MIDI input failed: %w", err)
	}
	if _, err := midi.ListenTo(in, c.handleMessage); err != nil {
		in.Close()
		c.currentIn = nil
		return fmt.Errorf("listening to MIDI input failed: %w", err)
	}
	return nil
}

// handleMessage runs on the driver's listener goroutine; the send is
// non-blocking, so a flooded broker just drops guesses.
func (c *Context) handleMessage(msg midi.Message, timestampms int32) {
	var channel, key, velocity uint8
	if msg.GetNoteOn(&channel, &key, &velocity) {
		trainer.TrySend(c.broker.ToModel, trainer.MsgToModel{Data: trainer.GuessNoteMsg{Note: key}})
	}
}

func (c *Context) HasDeviceOpen() bool {
	return c.currentIn != nil && c.currentIn.IsOpen()
}

func (c *Context) Close() {
	if c.driver == nil {
		return
	}
	if c.HasDeviceOpen() {
		c.currentIn.Close()
	}
	c.driver.Close()
}
