package main

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// testPose builds a listener pose at a floor position with the given yaw.
func testPose(x, y, z, yaw float64) listenerPose {
	return listenerPose{
		position:    r3.Vec{X: x, Y: y, Z: z},
		orientation: r3.NewRotation(yaw, identityUp),
	}
}

func TestSeedDirectionsWorldBasis(t *testing.T) {
	pose := testPose(1, 1.7, 2, 1.2)
	dirs := seedDirections(pose, false)
	if len(dirs) != 14 {
		t.Fatalf("len(dirs) = %d, want 14", len(dirs))
	}
	for i, d := range dirs {
		if !approxEqual(r3.Norm(d), 1, 1e-9) {
			t.Errorf("dirs[%d] = %v, want unit length", i, d)
		}
	}
	// With the world basis the seed set ignores the listener orientation.
	if r3.Norm(r3.Sub(dirs[0], identityFront)) > 1e-12 {
		t.Errorf("dirs[0] = %v, want %v", dirs[0], identityFront)
	}
	if r3.Norm(r3.Sub(dirs[4], identityUp)) > 1e-12 {
		t.Errorf("dirs[4] = %v, want %v", dirs[4], identityUp)
	}
}

func TestSeedDirectionsHeadBasis(t *testing.T) {
	pose := testPose(0, 1.7, 0, math.Pi/2)
	dirs := seedDirections(pose, true)
	if len(dirs) != 14 {
		t.Fatalf("len(dirs) = %d, want 14", len(dirs))
	}
	front, _, _ := pose.basis()
	if r3.Norm(r3.Sub(dirs[0], front)) > 1e-9 {
		t.Errorf("dirs[0] = %v, want rotated front %v", dirs[0], front)
	}
	if r3.Norm(r3.Sub(dirs[0], identityFront)) < 0.5 {
		t.Errorf("dirs[0] = %v should differ from the identity front after a quarter turn", dirs[0])
	}
}

func TestEarPositions(t *testing.T) {
	pose := testPose(3, 1.7, 4, 0)
	left, right := pose.earPositions(false)
	if left != pose.position || right != pose.position {
		t.Errorf("without separation ears = %v / %v, want both at %v", left, right, pose.position)
	}

	left, right = pose.earPositions(true)
	if got := r3.Norm(r3.Sub(right, left)); !approxEqual(got, earSeparationMeters, 1e-9) {
		t.Errorf("ear separation = %v, want %v", got, earSeparationMeters)
	}
	mid := r3.Scale(0.5, r3.Add(left, right))
	if r3.Norm(r3.Sub(mid, pose.position)) > 1e-9 {
		t.Errorf("ear midpoint = %v, want %v", mid, pose.position)
	}
}

func TestMovedBeyond(t *testing.T) {
	base := testPose(5, 1.7, 5, 0.4)
	tests := []struct {
		name string
		pose listenerPose
		want bool
	}{
		{"identical", testPose(5, 1.7, 5, 0.4), false},
		{"sub-epsilon shift", testPose(5.0005, 1.7, 5, 0.4), false},
		{"clear shift", testPose(5.05, 1.7, 5, 0.4), true},
		{"sub-epsilon turn", testPose(5, 1.7, 5, 0.4005), false},
		{"clear turn", testPose(5, 1.7, 5, 0.45), true},
	}
	for _, tc := range tests {
		if got := tc.pose.movedBeyond(base); got != tc.want {
			t.Errorf("%s: movedBeyond = %v, want %v", tc.name, got, tc.want)
		}
	}
}
