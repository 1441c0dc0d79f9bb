package main

import "gonum.org/v1/gonum/spatial/r3"

// Identity orientation basis. The listener faces -Z with +Y up, matching the
// top-down view where -Z is screen-up.
var (
	identityFront = r3.Vec{Z: -1}
	identityUp    = r3.Vec{Y: 1}
	identityRight = r3.Vec{X: 1}
)

// listenerPose is the snapshot of the listener used to decide cache validity
// and to derive ear positions at injection time.
type listenerPose struct {
	position    r3.Vec
	orientation r3.Rotation
}

// basis returns the listener's front, up, and right unit vectors.
func (p listenerPose) basis() (front, up, right r3.Vec) {
	front = r3.Unit(p.orientation.Rotate(identityFront))
	up = r3.Unit(p.orientation.Rotate(identityUp))
	right = r3.Unit(p.orientation.Rotate(identityRight))
	return front, up, right
}

// earPositions derives the two ear positions from the pose. With separation
// disabled both ears collapse to the head position.
func (p listenerPose) earPositions(separation bool) (left, right r3.Vec) {
	if !separation {
		return p.position, p.position
	}
	_, _, rightDir := p.basis()
	offset := r3.Scale(earSeparationMeters/2, rightDir)
	return r3.Sub(p.position, offset), r3.Add(p.position, offset)
}

// movedBeyond reports whether the pose differs from prior by more than the
// position epsilon or the angular epsilon. Orientation is compared through the
// rotated front and up vectors, which covers yaw, pitch, and roll.
func (p listenerPose) movedBeyond(prior listenerPose) bool {
	if r3.Norm(r3.Sub(p.position, prior.position)) > listenerMoveEpsilon {
		return true
	}
	front, up, _ := p.basis()
	priorFront, priorUp, _ := prior.basis()
	return r3.Norm(r3.Sub(front, priorFront)) > listenerTurnEpsilon ||
		r3.Norm(r3.Sub(up, priorUp)) > listenerTurnEpsilon
}

// seedDirections returns the 14 emission directions: the six basis axes plus
// the eight corner diagonals. With headBasis off the world axes are used so
// the echo pattern is independent of where the listener faces.
func seedDirections(pose listenerPose, headBasis bool) []r3.Vec {
	front, up, right := identityFront, identityUp, identityRight
	if headBasis {
		front, up, right = pose.basis()
	}
	left := r3.Scale(-1, right)
	down := r3.Scale(-1, up)
	back := r3.Scale(-1, front)

	dirs := make([]r3.Vec, 0, 14)
	dirs = append(dirs, front, back, left, right, up, down)
	for _, f := range []r3.Vec{front, back} {
		for _, r := range []r3.Vec{right, left} {
			for _, u := range []r3.Vec{up, down} {
				dirs = append(dirs, r3.Unit(r3.Add(r3.Add(f, r), u)))
			}
		}
	}
	return dirs
}
