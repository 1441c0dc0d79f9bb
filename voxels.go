package main

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// boxFace identifies which axis-aligned face of a voxel a ray entered through.
type boxFace int

const (
	minXFace boxFace = iota
	maxXFace
	minYFace
	maxYFace
	minZFace
	maxZFace
)

// faceNormal returns the outward unit normal of a voxel face.
func faceNormal(face boxFace) r3.Vec {
	switch face {
	case minXFace:
		return r3.Vec{X: -1}
	case maxXFace:
		return r3.Vec{X: 1}
	case minYFace:
		return r3.Vec{Y: -1}
	case maxYFace:
		return r3.Vec{Y: 1}
	case minZFace:
		return r3.Vec{Z: -1}
	case maxZFace:
		return r3.Vec{Z: 1}
	}
	return r3.Vec{}
}

// faceAxis returns the outward normal axis (0, 1, 2) and sign of a face.
func faceAxis(face boxFace) (axis int, sign float64) {
	switch face {
	case minXFace:
		return 0, -1
	case maxXFace:
		return 0, 1
	case minYFace:
		return 1, -1
	case maxYFace:
		return 1, 1
	case minZFace:
		return 2, -1
	}
	return 2, 1
}

// rayHit describes the nearest surface collision along a ray.
type rayHit struct {
	point    r3.Vec
	distance float64
	face     boxFace
	normal   r3.Vec
}

// rayTracer is the intersection query the simulator runs against. The first
// intersection strictly in the forward direction is returned; a miss is an
// ordinary outcome that terminates the path.
type rayTracer interface {
	findRayIntersection(origin, direction r3.Vec) (rayHit, bool)
}

// batchRayTracer resolves one simulation round's worth of rays at once. The
// diffusion simulator advances whole wavefronts per round, so its queries
// batch naturally.
type batchRayTracer interface {
	rayTracer
	findRayIntersections(origins, directions []r3.Vec, hits []rayHit, ok []bool) error
}

// voxelGrid is an axis-aligned occupancy grid with a fixed cell size in
// meters. It implements both tracer interfaces on the CPU.
type voxelGrid struct {
	nx, ny, nz int
	cell       float64
	solid      []bool

	// jitter perturbs returned face normals slightly to avoid perfectly
	// regular echo patterns; rng must be set when jitter is on.
	jitter bool
	rng    *rand.Rand
}

// newVoxelGrid allocates an empty grid of nx by ny by nz cells.
func newVoxelGrid(nx, ny, nz int, cell float64) *voxelGrid {
	return &voxelGrid{
		nx:    nx,
		ny:    ny,
		nz:    nz,
		cell:  cell,
		solid: make([]bool, nx*ny*nz),
	}
}

// index maps cell coordinates to the flat occupancy slice.
func (g *voxelGrid) index(ix, iy, iz int) int {
	return (iy*g.nz+iz)*g.nx + ix
}

// inBounds reports whether the cell coordinates lie inside the grid.
func (g *voxelGrid) inBounds(ix, iy, iz int) bool {
	return ix >= 0 && ix < g.nx && iy >= 0 && iy < g.ny && iz >= 0 && iz < g.nz
}

// setSolid marks a cell as occupied.
func (g *voxelGrid) setSolid(ix, iy, iz int, solid bool) {
	if g.inBounds(ix, iy, iz) {
		g.solid[g.index(ix, iy, iz)] = solid
	}
}

// solidAt reports whether a cell is occupied; out-of-bounds cells are open.
func (g *voxelGrid) solidAt(ix, iy, iz int) bool {
	if !g.inBounds(ix, iy, iz) {
		return false
	}
	return g.solid[g.index(ix, iy, iz)]
}

// findRayIntersection walks the grid with a 3-D DDA and returns the nearest
// occupied cell boundary strictly ahead of the origin.
func (g *voxelGrid) findRayIntersection(origin, direction r3.Vec) (rayHit, bool) {
	length := r3.Norm(direction)
	if length == 0 {
		return rayHit{}, false
	}
	dir := r3.Scale(1/length, direction)

	ix := int(math.Floor(origin.X / g.cell))
	iy := int(math.Floor(origin.Y / g.cell))
	iz := int(math.Floor(origin.Z / g.cell))
	if !g.inBounds(ix, iy, iz) || g.solidAt(ix, iy, iz) {
		// Starting outside the grid or inside a wall is degenerate; report a miss.
		return rayHit{}, false
	}

	stepX, tMaxX, tDeltaX := ddaAxis(origin.X, dir.X, ix, g.cell)
	stepY, tMaxY, tDeltaY := ddaAxis(origin.Y, dir.Y, iy, g.cell)
	stepZ, tMaxZ, tDeltaZ := ddaAxis(origin.Z, dir.Z, iz, g.cell)

	for {
		var t float64
		var face boxFace
		switch {
		case tMaxX <= tMaxY && tMaxX <= tMaxZ:
			ix += stepX
			t = tMaxX
			tMaxX += tDeltaX
			if stepX > 0 {
				face = minXFace
			} else {
				face = maxXFace
			}
		case tMaxY <= tMaxZ:
			iy += stepY
			t = tMaxY
			tMaxY += tDeltaY
			if stepY > 0 {
				face = minYFace
			} else {
				face = maxYFace
			}
		default:
			iz += stepZ
			t = tMaxZ
			tMaxZ += tDeltaZ
			if stepZ > 0 {
				face = minZFace
			} else {
				face = maxZFace
			}
		}
		if !g.inBounds(ix, iy, iz) {
			return rayHit{}, false
		}
		if g.solid[g.index(ix, iy, iz)] {
			return g.buildHit(origin, dir, t, face), true
		}
	}
}

// findRayIntersections resolves a batch of rays sequentially on the CPU.
func (g *voxelGrid) findRayIntersections(origins, directions []r3.Vec, hits []rayHit, ok []bool) error {
	for i := range origins {
		hits[i], ok[i] = g.findRayIntersection(origins[i], directions[i])
	}
	return nil
}

// buildHit assembles a rayHit from a DDA crossing, applying normal jitter when
// slightly-random surfaces are enabled. Shared with the OpenCL tracer, which
// resolves t and face on the device.
func (g *voxelGrid) buildHit(origin, dir r3.Vec, t float64, face boxFace) rayHit {
	normal := faceNormal(face)
	if g.jitter && g.rng != nil {
		normal = jitterFaceNormal(face, g.rng)
	}
	return rayHit{
		point:    r3.Add(origin, r3.Scale(t, dir)),
		distance: t,
		face:     face,
		normal:   normal,
	}
}

// ddaAxis computes the step direction, distance to the first cell boundary,
// and per-cell crossing distance for one axis of the DDA walk.
func ddaAxis(origin, dir float64, cellIndex int, cell float64) (step int, tMax, tDelta float64) {
	if dir > 0 {
		return 1, (float64(cellIndex+1)*cell - origin) / dir, cell / dir
	}
	if dir < 0 {
		return -1, (float64(cellIndex)*cell - origin) / dir, -cell / dir
	}
	return 0, math.Inf(1), math.Inf(1)
}

// jitterFaceNormal perturbs a face normal: the true axis keeps a magnitude
// drawn from [0.99, 1.0] and the remainder is split pseudo-randomly across the
// other two axes before normalizing.
func jitterFaceNormal(face boxFace, rng *rand.Rand) r3.Vec {
	axis, sign := faceAxis(face)
	return r3.Unit(composeAxisVector(axis, sign, 0.99+0.01*rng.Float64(), rng))
}

// composeAxisVector builds a vector with the given magnitude along one axis
// and the remaining magnitude split pseudo-randomly, with random signs, across
// the other two axes.
func composeAxisVector(axis int, sign, magnitude float64, rng *rand.Rand) r3.Vec {
	remainder := 1 - magnitude
	split := rng.Float64()
	a := remainder * split
	b := remainder - a
	if rng.Intn(2) == 0 {
		a = -a
	}
	if rng.Intn(2) == 0 {
		b = -b
	}
	var components [3]float64
	components[axis] = sign * magnitude
	components[(axis+1)%3] = a
	components[(axis+2)%3] = b
	return r3.Vec{X: components[0], Y: components[1], Z: components[2]}
}
