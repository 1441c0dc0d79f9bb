package main

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// countingTracer counts intersection queries so tests can observe whether a
// recompute actually ran.
type countingTracer struct {
	grid  *voxelGrid
	calls int
}

func (t *countingTracer) findRayIntersection(origin, direction r3.Vec) (rayHit, bool) {
	t.calls++
	return t.grid.findRayIntersection(origin, direction)
}

func newTestReflector() (*audioReflector, *countingTracer, *voxelGrid) {
	grid := makeSealedBox(20, 8, 20)
	tracer := &countingTracer{grid: grid}
	out := newDelayedAudioBuffer(audioSampleRate)
	return newAudioReflector(tracer, out, rand.New(rand.NewSource(9))), tracer, grid
}

func TestReflectorRequiresPose(t *testing.T) {
	r, tracer, _ := newTestReflector()

	r.recompute()
	if tracer.calls != 0 {
		t.Errorf("recompute traced %d rays without a pose, want 0", tracer.calls)
	}
	visualized := false
	r.visualize(func(reflectionSnapshot) { visualized = true })
	if visualized {
		t.Error("visualize ran its callback without a snapshot")
	}

	r.processAudioBlock(0, make([]int16, 2*audioBlockFrames), 2, audioSampleRate)
	stats, points, _ := r.diagnostics()
	if stats.contributions != 0 || points != 0 {
		t.Errorf("diagnostics = %d contributions, %d points, want zeros", stats.contributions, points)
	}
}

func TestReflectorRecomputeCaching(t *testing.T) {
	r, tracer, grid := newTestReflector()
	pose := boxCenterPose(grid)

	r.setListenerPose(pose)
	r.recompute()
	baseline := tracer.calls
	if baseline == 0 {
		t.Fatal("first recompute traced no rays")
	}

	// Same pose: cached.
	r.recompute()
	if tracer.calls != baseline {
		t.Errorf("recompute with an unchanged pose traced %d extra rays", tracer.calls-baseline)
	}

	// Sub-epsilon drift: still cached.
	drifted := pose
	drifted.position = r3.Add(pose.position, r3.Vec{X: listenerMoveEpsilon / 2})
	r.setListenerPose(drifted)
	r.recompute()
	if tracer.calls != baseline {
		t.Errorf("recompute after a sub-epsilon move traced %d extra rays", tracer.calls-baseline)
	}

	// A real move invalidates the snapshot.
	moved := pose
	moved.position = r3.Add(pose.position, r3.Vec{X: 0.5})
	r.setListenerPose(moved)
	r.recompute()
	if tracer.calls == baseline {
		t.Error("recompute after a clear move did not rebuild")
	}
}

func TestReflectorDiffusionToggleInvalidatesCache(t *testing.T) {
	r, tracer, grid := newTestReflector()
	r.setListenerPose(boxCenterPose(grid))

	prior := *diffusionFlag
	defer func() { *diffusionFlag = prior }()

	r.recompute()
	baseline := tracer.calls
	*diffusionFlag = !prior
	r.recompute()
	if tracer.calls == baseline {
		t.Error("recompute after a diffusion mode change did not rebuild")
	}
}

func TestReflectorProcessAudioBlock(t *testing.T) {
	r, _, grid := newTestReflector()
	r.setListenerPose(boxCenterPose(grid))
	r.recompute()

	r.processAudioBlock(0, make([]int16, 2*audioBlockFrames), 2, audioSampleRate)
	stats, points, _ := r.diagnostics()
	if points == 0 {
		t.Fatal("no audible points in a sealed box")
	}
	if stats.contributions != 2*points {
		t.Errorf("contributions = %d, want %d (two ears per point)", stats.contributions, 2*points)
	}
}

func TestReflectorVisualizeSeesSnapshot(t *testing.T) {
	r, _, grid := newTestReflector()
	r.setListenerPose(boxCenterPose(grid))
	r.recompute()

	var seen int
	r.visualize(func(snap reflectionSnapshot) { seen = len(snap.points) })
	_, points, _ := r.diagnostics()
	if seen != points {
		t.Errorf("visualize saw %d points, diagnostics reports %d", seen, points)
	}
	if seen == 0 {
		t.Error("visualize saw an empty snapshot in a sealed box")
	}
}
