package main

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// singlePointSnapshot wraps one audible point for injection tests.
func singlePointSnapshot(point audiblePoint, diffusion bool) *reflectionSnapshot {
	return &reflectionSnapshot{diffusionMode: diffusion, points: []audiblePoint{point}}
}

func TestInjectSinglePointDiffusion(t *testing.T) {
	out := newDelayedAudioBuffer(audioSampleRate)
	pose := testPose(0, 0, 0, 0)
	cfg := testConfig()
	cfg.diffusionEnabled = true

	point := audiblePoint{
		location:    r3.Vec{Z: -4},
		delayMs:     12,
		attenuation: 0.5,
		distance:    4,
	}
	samples := []int16{16384} // one mono frame at half scale
	stats := injectSnapshot(out, singlePointSnapshot(point, true), pose, cfg, 0, samples, 1, audioSampleRate)

	if stats.contributions != 2 {
		t.Fatalf("contributions = %d, want 2 (one per ear)", stats.contributions)
	}
	// Ear leg of 4 m adds 12 ms; 24 ms at 48 kHz is 1152 samples.
	wantDelayMs := point.delayMs + 4*soundMsPerMeter
	if !approxEqual(stats.minDelayMs, wantDelayMs, 1e-9) || !approxEqual(stats.maxDelayMs, wantDelayMs, 1e-9) {
		t.Errorf("delay stats = %v / %v, want both %v", stats.minDelayMs, stats.maxDelayMs, wantDelayMs)
	}
	delaySamples := int64(math.Round(wantDelayMs * audioSampleRate / 1000))
	want := float32(0.5 * point.attenuation * cfg.distanceAttenuation(4))
	l, r := out.sampleAt(delaySamples)
	if !approxEqual(float64(l), float64(want), 1e-6) || !approxEqual(float64(r), float64(want), 1e-6) {
		t.Errorf("sample = %v, %v, want both %v", l, r, want)
	}
	// Neighboring frames carry nothing from a one-frame source.
	if l, r := out.sampleAt(delaySamples + 1); l != 0 || r != 0 {
		t.Errorf("sample after block = %v, %v, want silence", l, r)
	}
}

// The legacy convention folds the full path distance into the listener-leg
// attenuation, so the same point lands quieter than in diffusion mode.
func TestInjectLegacyFoldsPathDistance(t *testing.T) {
	out := newDelayedAudioBuffer(audioSampleRate)
	pose := testPose(0, 0, 0, 0)
	cfg := testConfig()

	point := audiblePoint{location: r3.Vec{Z: -4}, delayMs: 12, attenuation: 0.5, distance: 4}
	samples := []int16{16384}
	injectSnapshot(out, singlePointSnapshot(point, false), pose, cfg, 0, samples, 1, audioSampleRate)

	wantDelayMs := point.delayMs + 4*soundMsPerMeter
	delaySamples := int64(math.Round(wantDelayMs * audioSampleRate / 1000))
	want := float32(0.5 * point.attenuation * cfg.distanceAttenuation(4+point.distance))
	l, _ := out.sampleAt(delaySamples)
	if !approxEqual(float64(l), float64(want), 1e-6) {
		t.Errorf("sample = %v, want %v", l, want)
	}
	if diffusionLevel := 0.5 * point.attenuation * cfg.distanceAttenuation(4); float64(want) >= diffusionLevel {
		t.Errorf("legacy level %v should be below the diffusion level %v", want, diffusionLevel)
	}
}

func TestInjectIsAdditive(t *testing.T) {
	out := newDelayedAudioBuffer(audioSampleRate)
	pose := testPose(0, 0, 0, 0)
	cfg := testConfig()
	cfg.diffusionEnabled = true

	point := audiblePoint{location: r3.Vec{Z: -2}, attenuation: 0.25, distance: 2}
	snap := singlePointSnapshot(point, true)
	samples := []int16{16384}
	injectSnapshot(out, snap, pose, cfg, 0, samples, 1, audioSampleRate)
	delaySamples := int64(math.Round(2 * soundMsPerMeter * audioSampleRate / 1000))
	single, _ := out.sampleAt(delaySamples)

	injectSnapshot(out, snap, pose, cfg, 0, samples, 1, audioSampleRate)
	doubled, _ := out.sampleAt(delaySamples)
	if !approxEqual(float64(doubled), 2*float64(single), 1e-6) {
		t.Errorf("after second injection sample = %v, want %v", doubled, 2*single)
	}
}

func TestInjectTruncatesRaggedTail(t *testing.T) {
	out := newDelayedAudioBuffer(audioSampleRate)
	pose := testPose(0, 0, 0, 0)
	cfg := testConfig()
	cfg.diffusionEnabled = true

	// Point at the listener itself: zero delay, unit attenuation.
	point := audiblePoint{location: pose.position, attenuation: 1}
	// Two whole stereo frames plus one stray sample.
	samples := []int16{16384, 16384, 16384, 16384, 16384}
	injectSnapshot(out, singlePointSnapshot(point, true), pose, cfg, 0, samples, 2, audioSampleRate)

	if l, _ := out.sampleAt(0); l == 0 {
		t.Error("frame 0 should carry the injected signal")
	}
	if l, _ := out.sampleAt(1); l == 0 {
		t.Error("frame 1 should carry the injected signal")
	}
	if l, r := out.sampleAt(2); l != 0 || r != 0 {
		t.Errorf("frame 2 = %v, %v, want the ragged tail dropped", l, r)
	}
}

func TestInjectDegenerateInputs(t *testing.T) {
	out := newDelayedAudioBuffer(64)
	pose := testPose(0, 0, 0, 0)
	cfg := testConfig()
	point := audiblePoint{location: r3.Vec{Z: -1}, attenuation: 0.5, distance: 1}
	snap := singlePointSnapshot(point, true)
	samples := []int16{16384}

	tests := []struct {
		name       string
		out        *delayedAudioBuffer
		snap       *reflectionSnapshot
		samples    []int16
		channels   int
		sampleRate int
	}{
		{"nil output", nil, snap, samples, 1, audioSampleRate},
		{"nil snapshot", out, nil, samples, 1, audioSampleRate},
		{"zero sample rate", out, snap, samples, 1, 0},
		{"zero channels", out, snap, samples, 0, audioSampleRate},
		{"empty block", out, snap, nil, 1, audioSampleRate},
	}
	for _, tc := range tests {
		stats := injectSnapshot(tc.out, tc.snap, pose, cfg, 0, tc.samples, tc.channels, tc.sampleRate)
		if stats.contributions != 0 {
			t.Errorf("%s: contributions = %d, want 0", tc.name, stats.contributions)
		}
	}
}

func TestInjectEarSeparationSkewsDelays(t *testing.T) {
	out := newDelayedAudioBuffer(audioSampleRate)
	pose := testPose(0, 0, 0, 0)
	cfg := testConfig()
	cfg.diffusionEnabled = true
	cfg.earSeparation = true

	// A point off to the right reaches the right ear first and louder.
	point := audiblePoint{location: r3.Vec{X: 3}, attenuation: 0.5, distance: 3}
	stats := injectSnapshot(out, singlePointSnapshot(point, true), pose, cfg, 0, []int16{16384}, 1, audioSampleRate)
	if stats.contributions != 2 {
		t.Fatalf("contributions = %d, want 2", stats.contributions)
	}
	if stats.minDelayMs >= stats.maxDelayMs {
		t.Errorf("delays = %v / %v, want distinct per-ear values", stats.minDelayMs, stats.maxDelayMs)
	}
	if stats.minAttenuation >= stats.maxAttenuation {
		t.Errorf("attenuations = %v / %v, want distinct per-ear values", stats.minAttenuation, stats.maxAttenuation)
	}
}

func TestEarSourceChannels(t *testing.T) {
	left, right := earSourceChannels([]int16{16384, -16384}, 1, 2, true)
	if !approxEqual(float64(left[0]), 0.5, 1e-6) || !approxEqual(float64(right[0]), -0.5, 1e-6) {
		t.Errorf("stereo split = %v, %v, want 0.5, -0.5", left[0], right[0])
	}

	left, right = earSourceChannels([]int16{16384, -16384}, 1, 2, false)
	if left[0] != right[0] {
		t.Errorf("mono mixdown ears differ: %v vs %v", left[0], right[0])
	}
	if !approxEqual(float64(left[0]), 0, 1e-6) {
		t.Errorf("mono mixdown = %v, want 0 for canceling channels", left[0])
	}

	left, right = earSourceChannels([]int16{16384}, 1, 1, false)
	if !approxEqual(float64(left[0]), 0.5, 1e-6) || left[0] != right[0] {
		t.Errorf("single-channel mixdown = %v, %v, want 0.5 on both ears", left[0], right[0])
	}
}
