package main

import (
	"math"
	"math/rand"
)

// generateRoom builds the voxel scene: a sealed shell (floor, ceiling, and
// perimeter walls) with procedurally placed interior wall slabs of varying
// length, thickness, and height.
func generateRoom(levelRand *rand.Rand, spawnX, spawnZ float64) *voxelGrid {
	g := newVoxelGrid(gridNX, gridNY, gridNZ, voxelSize)

	for ix := 0; ix < gridNX; ix++ {
		for iz := 0; iz < gridNZ; iz++ {
			g.setSolid(ix, 0, iz, true)
			g.setSolid(ix, gridNY-1, iz, true)
			for iy := 0; iy < gridNY; iy++ {
				if ix == 0 || ix == gridNX-1 || iz == 0 || iz == gridNZ-1 {
					g.setSolid(ix, iy, iz, true)
				}
			}
		}
	}

	for s := 0; s < wallSegments; s++ {
		lengthRange := wallMaxLen - wallMinLen + 1
		if lengthRange <= 0 {
			lengthRange = 1
		}
		length := wallMinLen + levelRand.Intn(lengthRange)
		thickness := 1
		if wallThicknessVariance > 0 {
			thickness += levelRand.Intn(wallThicknessVariance + 1)
		}
		height := wallMinHeightCells + levelRand.Intn(gridNY-wallMinHeightCells-1)
		horizontal := levelRand.Intn(2) == 0
		x := levelRand.Intn(gridNX-4) + 2
		z := levelRand.Intn(gridNZ-4) + 2
		dx, dz := 0, 1
		if horizontal {
			dx, dz = 1, 0
		}
		perpX, perpZ := dz, dx
		cx, cz := x, z
		for l := 0; l < length; l++ {
			if cx <= 1 || cx >= gridNX-1 || cz <= 1 || cz >= gridNZ-1 {
				break
			}
			for t := -thickness; t <= thickness; t++ {
				trySetWallColumn(g, cx+perpX*t, cz+perpZ*t, height, spawnX, spawnZ)
			}
			cx += dx
			cz += dz
		}
	}
	return g
}

// trySetWallColumn raises a wall column from the floor to the given height
// while enforcing spacing from the listener spawn point.
func trySetWallColumn(g *voxelGrid, ix, iz, height int, spawnX, spawnZ float64) {
	if ix <= 1 || ix >= gridNX-1 || iz <= 1 || iz >= gridNZ-1 {
		return
	}
	dx := (float64(ix)+0.5)*voxelSize - spawnX
	dz := (float64(iz)+0.5)*voxelSize - spawnZ
	if math.Hypot(dx, dz) < float64(wallExclusionRadius)*voxelSize {
		return
	}
	for iy := 1; iy <= height && iy < gridNY-1; iy++ {
		g.setSolid(ix, iy, iz, true)
	}
}
