// Package oto implements the fretquiz audio output capability on top of
// ebitengine's oto/v3. The device is acquired once per process; acquisition
// failure is reported to the caller, who falls back to silent operation.
package oto

import (
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"
	"github.com/fretquiz/fretquiz"
)

type Context struct {
	ctx *oto.Context
}

// NewContext acquires the audio output device. There can be at most one oto
// context per process, so the result is meant to be created once and shared.
func NewContext() (*Context, error) {
	op := &oto.NewContextOptions{
		SampleRate:   fretquiz.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{ctx: ctx}, nil
}

// Play starts a player that pulls samples through the callback until the
// returned closer is closed.
func (c *Context) Play(callback fretquiz.AudioCallback) io.Closer {
	player := c.ctx.NewPlayer(&callbackReader{callback: callback})
	player.Play()
	return player
}

// Close suspends the context. oto contexts cannot be destroyed, so this is
// the closest thing to releasing the device.
func (c *Context) Close() error {
	if err := c.ctx.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}
