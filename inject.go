package main

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// injectSnapshot mixes attenuated, delayed copies of one source block into the
// output buffer, one contribution per audible point per ear. Each ear's copy
// is written as a left-only or right-only stereo frame and added at
// sampleTime plus the contribution's delay, so overlapping reflections sum.
// Returns the diagnostic aggregate for this pass.
func injectSnapshot(out *delayedAudioBuffer, snap *reflectionSnapshot, pose listenerPose,
	cfg reflectorConfig, sampleTime int64, samples []int16, channels, sampleRate int) injectionStats {

	var stats injectionStats
	if out == nil || snap == nil || sampleRate <= 0 || channels < 1 {
		return stats
	}
	// Truncate a ragged tail to the largest whole-frame prefix.
	frames := len(samples) / channels
	if frames == 0 {
		return stats
	}

	leftSource, rightSource := earSourceChannels(samples, frames, channels, cfg.stereoSource)
	leftEar, rightEar := pose.earPositions(cfg.earSeparation)

	for _, point := range snap.points {
		injectPointEar(out, point, snap.diffusionMode, cfg, sampleTime, sampleRate, leftEar, leftSource, true, &stats)
		injectPointEar(out, point, snap.diffusionMode, cfg, sampleTime, sampleRate, rightEar, rightSource, false, &stats)
	}
	return stats
}

// injectPointEar writes one audible point's contribution for a single ear.
func injectPointEar(out *delayedAudioBuffer, point audiblePoint, diffusionMode bool,
	cfg reflectorConfig, sampleTime int64, sampleRate int, ear r3.Vec, source []float32,
	isLeft bool, stats *injectionStats) {

	earDistance := r3.Norm(r3.Sub(point.location, ear))
	delayMs := point.delayMs + cfg.delayMsForDistance(earDistance)
	delaySamples := int64(math.Round(delayMs * float64(sampleRate) / 1000))

	// The legacy chain folds the full path distance in at injection time; the
	// diffusion simulator already accounted for it when the point was
	// recorded, so only the ear leg attenuates here.
	var attenuation float64
	if diffusionMode {
		attenuation = point.attenuation * cfg.distanceAttenuation(earDistance)
	} else {
		attenuation = point.attenuation * cfg.distanceAttenuation(earDistance+point.distance)
	}
	stats.observe(delayMs, attenuation)
	if attenuation <= 0 {
		return
	}

	start := sampleTime + delaySamples
	scale := float32(attenuation)
	if isLeft {
		for i, s := range source {
			out.addSample(start+int64(i), s*scale, 0)
		}
	} else {
		for i, s := range source {
			out.addSample(start+int64(i), 0, s*scale)
		}
	}
}

// earSourceChannels splits an interleaved PCM block into the per-ear source
// signals, normalized to [-1, 1]. A true stereo pair feeds each ear its own
// channel; otherwise both ears receive the mono mixdown.
func earSourceChannels(samples []int16, frames, channels int, stereo bool) (left, right []float32) {
	if stereo && channels >= 2 {
		left = make([]float32, frames)
		right = make([]float32, frames)
		for i := 0; i < frames; i++ {
			left[i] = float32(samples[i*channels]) / 32768
			right[i] = float32(samples[i*channels+1]) / 32768
		}
		return left, right
	}
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += float32(samples[i*channels+c])
		}
		mono[i] = sum / (32768 * float32(channels))
	}
	return mono, mono
}
