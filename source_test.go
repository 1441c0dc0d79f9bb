package main

import "testing"

func TestClickSourceShape(t *testing.T) {
	s := newClickSource(audioSampleRate)
	frames := len(s.samples) / audioChannels
	if frames != audioSampleRate/2 {
		t.Fatalf("loop length = %d frames, want %d", frames, audioSampleRate/2)
	}
	burst := false
	for i := 0; i < frames/10; i++ {
		if s.samples[i*audioChannels] != 0 {
			burst = true
			break
		}
	}
	if !burst {
		t.Error("no burst at the start of the click period")
	}
	// The tail of the period is silent.
	for i := frames / 2; i < frames; i++ {
		if s.samples[i*audioChannels] != 0 || s.samples[i*audioChannels+1] != 0 {
			t.Fatalf("frame %d not silent", i)
		}
	}
}

func TestSourceLoopWrapsAround(t *testing.T) {
	s := &sourceLoop{samples: []int16{1, 1, 2, 2, 3, 3}}
	dst := make([]int16, 8)
	s.nextBlock(dst)
	want := []int16{1, 1, 2, 2, 3, 3, 1, 1}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
	s.nextBlock(dst[:2])
	if dst[0] != 2 || dst[1] != 2 {
		t.Errorf("continuation frame = %d, %d, want 2, 2", dst[0], dst[1])
	}
}

func TestSourceLoopEmptyEmitsSilence(t *testing.T) {
	s := &sourceLoop{}
	dst := []int16{5, 5, 5, 5}
	s.nextBlock(dst)
	for i, v := range dst {
		if v != 0 {
			t.Errorf("dst[%d] = %d, want 0", i, v)
		}
	}
}
