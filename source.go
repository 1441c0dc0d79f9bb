package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// sourceLoop emits the raw audio the reflector spatializes: fixed-size
// interleaved stereo int16 blocks looping over either a decoded WAV file or a
// synthesized click train.
type sourceLoop struct {
	samples []int16 // interleaved stereo
	pos     int     // frame index
}

// newWavSource decodes the WAV at path into an interleaved stereo loop at
// sampleRate.
func newWavSource(sampleRate int, path string) (*sourceLoop, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	stream, err := wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	decoded, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("reading decoded %q: %w", path, err)
	}
	frames := len(decoded) / audioFrameBytes
	if frames == 0 {
		return nil, fmt.Errorf("wav %q has no usable samples", path)
	}
	samples := make([]int16, frames*audioChannels)
	for i := 0; i < frames*audioChannels; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(decoded[i*2 : i*2+2]))
	}
	return &sourceLoop{samples: samples}, nil
}

// newClickSource synthesizes a periodic decaying tone burst so the demo is
// audible without any asset on disk.
func newClickSource(sampleRate int) *sourceLoop {
	const (
		periodSeconds = 0.5
		burstSeconds  = 0.02
		toneHz        = 880.0
		amplitude     = 0.8
	)
	periodFrames := int(periodSeconds * float64(sampleRate))
	burstFrames := int(burstSeconds * float64(sampleRate))
	samples := make([]int16, periodFrames*audioChannels)
	for i := 0; i < burstFrames; i++ {
		t := float64(i) / float64(sampleRate)
		envelope := math.Exp(-t * 300)
		v := int16(amplitude * envelope * math.Sin(2*math.Pi*toneHz*t) * pcm16MaxValue)
		samples[i*audioChannels] = v
		samples[i*audioChannels+1] = v
	}
	return &sourceLoop{samples: samples}
}

// nextBlock fills dst with the next interleaved stereo frames of the loop.
func (s *sourceLoop) nextBlock(dst []int16) {
	if len(s.samples) == 0 {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	frames := len(dst) / audioChannels
	total := len(s.samples) / audioChannels
	for i := 0; i < frames; i++ {
		base := s.pos * audioChannels
		dst[i*audioChannels] = s.samples[base]
		dst[i*audioChannels+1] = s.samples[base+1]
		s.pos++
		if s.pos >= total {
			s.pos = 0
		}
	}
}
