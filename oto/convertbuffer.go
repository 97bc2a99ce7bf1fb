package oto

import (
	"encoding/binary"
	"math"

	"github.com/fretquiz/fretquiz"
)

// callbackReader adapts a fretquiz.AudioCallback to the io.Reader pull model
// oto players use: every Read renders the next samples through the callback
// and serializes them as little-endian float32. A callback error degrades to
// silence instead of tearing down the stream.
type callbackReader struct {
	callback fretquiz.AudioCallback
	buf      fretquiz.AudioBuffer
}

func (r *callbackReader) Read(p []byte) (int, error) {
	numSamples := len(p) / 4
	if cap(r.buf) < numSamples {
		r.buf = make(fretquiz.AudioBuffer, numSamples)
	}
	buf := r.buf[:numSamples]
	if err := r.callback(buf); err != nil {
		for i := range buf {
			buf[i] = 0
		}
	}
	for i, v := range buf {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(v))
	}
	return numSamples * 4, nil
}
