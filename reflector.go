package main

import (
	"math/rand"
	"sync"
	"time"
)

// audioReflector coordinates the two drivers that share reflection state: the
// per-frame render/simulation driver and the per-block audio driver. One lock
// serializes recompute, injection, and visualization so readers never observe
// a partially rebuilt result set. Recompute runs synchronously to completion
// under the lock; there is no mid-cycle cancellation.
type audioReflector struct {
	mu     sync.Mutex
	tracer rayTracer
	out    *delayedAudioBuffer
	rng    *rand.Rand

	hasPose bool
	pose    listenerPose

	// cache key of the last completed recompute
	computedPose listenerPose
	computedDiff bool
	snapshot     *reflectionSnapshot
	stats        injectionStats
	simDuration  time.Duration
}

// newAudioReflector wires the reflector to its scene tracer, the shared
// output buffer, and a seedable random source for diffusion sampling.
func newAudioReflector(tracer rayTracer, out *delayedAudioBuffer, rng *rand.Rand) *audioReflector {
	return &audioReflector{tracer: tracer, out: out, rng: rng}
}

// setListenerPose publishes the current head pose. Until the first call both
// recompute and processAudioBlock are no-ops.
func (r *audioReflector) setListenerPose(pose listenerPose) {
	r.mu.Lock()
	r.pose = pose
	r.hasPose = true
	r.mu.Unlock()
}

// recompute rebuilds the reflection snapshot when needed: no results yet, the
// listener moved or turned beyond epsilon, or the diffusion mode changed.
// Otherwise it returns immediately, so calling it every frame is cheap.
func (r *audioReflector) recompute() {
	cfg := configFromFlags()
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.hasPose {
		return
	}
	if r.snapshot != nil && cfg.diffusionEnabled == r.computedDiff && !r.pose.movedBeyond(r.computedPose) {
		return
	}
	start := time.Now()
	snap := newPathSimulator(cfg, r.tracer, r.rng, r.pose).run()
	r.snapshot = &snap
	r.computedPose = r.pose
	r.computedDiff = cfg.diffusionEnabled
	r.simDuration = time.Since(start)
}

// processAudioBlock injects one interleaved source block against the current
// snapshot. Must be called once per inbound block with its absolute sample
// time. A missing pose or snapshot makes the call a no-op.
func (r *audioReflector) processAudioBlock(sampleTime int64, samples []int16, channels, sampleRate int) {
	cfg := configFromFlags()
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.hasPose || r.snapshot == nil {
		return
	}
	// Ear positions derive from the pose the snapshot was computed against so
	// delays and the recorded points stay consistent.
	r.stats = injectSnapshot(r.out, r.snapshot, r.computedPose, cfg, sampleTime, samples, channels, sampleRate)
}

// visualize runs draw against the current snapshot under the shared lock.
func (r *audioReflector) visualize(draw func(reflectionSnapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snapshot == nil {
		return
	}
	draw(*r.snapshot)
}

// diagnostics returns the last injection aggregate, the audible point count,
// and the duration of the last recompute.
func (r *audioReflector) diagnostics() (injectionStats, int, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	points := 0
	if r.snapshot != nil {
		points = len(r.snapshot.points)
	}
	return r.stats, points, r.simDuration
}
