package main

import "sync"

// delayedAudioBuffer is the shared output stream reflections are mixed into:
// a stereo float accumulation ring addressed by absolute sample index. Writers
// add; they never overwrite, so overlapping contributions from different paths
// sum. The ebiten audio player drains it through Read, which converts to
// little-endian 16-bit PCM with clamping, so transient over-accumulation
// cannot wrap.
type delayedAudioBuffer struct {
	mu       sync.Mutex
	left     []float32
	right    []float32
	capacity int   // frames
	cursor   int64 // absolute index of the next frame the player reads
}

// newDelayedAudioBuffer allocates a ring spanning capacityFrames. The caller
// must size it past the maximum configured delay horizon.
func newDelayedAudioBuffer(capacityFrames int) *delayedAudioBuffer {
	if capacityFrames < 1 {
		capacityFrames = 1
	}
	return &delayedAudioBuffer{
		left:     make([]float32, capacityFrames),
		right:    make([]float32, capacityFrames),
		capacity: capacityFrames,
	}
}

// readCursor returns the absolute index of the next frame to be played.
func (b *delayedAudioBuffer) readCursor() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

// addSample accumulates one stereo frame at an absolute sample time. Frames
// already played or beyond the ring horizon are dropped.
func (b *delayedAudioBuffer) addSample(at int64, left, right float32) {
	b.mu.Lock()
	if at >= b.cursor && at < b.cursor+int64(b.capacity) {
		idx := int(at % int64(b.capacity))
		b.left[idx] += left
		b.right[idx] += right
	}
	b.mu.Unlock()
}

// sampleAt returns the accumulated frame at an absolute index, for tests and
// diagnostics.
func (b *delayedAudioBuffer) sampleAt(at int64) (left, right float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if at < b.cursor || at >= b.cursor+int64(b.capacity) {
		return 0, 0
	}
	idx := int(at % int64(b.capacity))
	return b.left[idx], b.right[idx]
}

// Read drains whole stereo frames for the ebiten audio player, zeroing each
// ring cell behind the cursor so it can accumulate future contributions.
func (b *delayedAudioBuffer) Read(p []byte) (int, error) {
	frames := len(p) / audioFrameBytes
	if frames == 0 {
		return 0, nil
	}
	if frames > b.capacity {
		frames = b.capacity
	}
	b.mu.Lock()
	for i := 0; i < frames; i++ {
		idx := int((b.cursor + int64(i)) % int64(b.capacity))
		l := pcm16FromFloat(b.left[idx])
		r := pcm16FromFloat(b.right[idx])
		b.left[idx] = 0
		b.right[idx] = 0
		base := i * audioFrameBytes
		p[base] = byte(l)
		p[base+1] = byte(l >> 8)
		p[base+2] = byte(r)
		p[base+3] = byte(r >> 8)
	}
	b.cursor += int64(frames)
	b.mu.Unlock()
	return frames * audioFrameBytes, nil
}

// Close satisfies the stream interface expected by the audio player.
func (b *delayedAudioBuffer) Close() error { return nil }

// pcm16FromFloat converts a normalized sample to clamped 16-bit PCM.
func pcm16FromFloat(v float32) int16 {
	scaled := int32(v * pcm16MaxValue)
	if scaled > pcm16MaxValue {
		return pcm16MaxValue
	}
	if scaled < pcm16MinValue {
		return pcm16MinValue
	}
	return int16(scaled)
}
