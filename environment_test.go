package main

import (
	"math/rand"
	"testing"
)

func TestGenerateRoomShell(t *testing.T) {
	spawnX := centerOf(gridNX / 2)
	spawnZ := centerOf(gridNZ / 2)
	g := generateRoom(rand.New(rand.NewSource(21)), spawnX, spawnZ)

	for ix := 0; ix < gridNX; ix++ {
		for iz := 0; iz < gridNZ; iz++ {
			if !g.solidAt(ix, 0, iz) {
				t.Fatalf("floor open at (%d, %d)", ix, iz)
			}
			if !g.solidAt(ix, gridNY-1, iz) {
				t.Fatalf("ceiling open at (%d, %d)", ix, iz)
			}
		}
	}
	for iy := 0; iy < gridNY; iy++ {
		if !g.solidAt(0, iy, 0) || !g.solidAt(gridNX-1, iy, gridNZ-1) {
			t.Fatalf("perimeter open at height %d", iy)
		}
		if !g.solidAt(gridNX/2, iy, 0) || !g.solidAt(0, iy, gridNZ/2) {
			t.Fatalf("perimeter open at height %d", iy)
		}
	}
}

func TestGenerateRoomKeepsSpawnClear(t *testing.T) {
	spawnX := centerOf(gridNX / 2)
	spawnZ := centerOf(gridNZ / 2)
	for seed := int64(1); seed <= 5; seed++ {
		g := generateRoom(rand.New(rand.NewSource(seed)), spawnX, spawnZ)
		for iy := 1; iy < gridNY-1; iy++ {
			if g.solidAt(gridNX/2, iy, gridNZ/2) {
				t.Errorf("seed %d: wall inside the spawn column at height %d", seed, iy)
			}
		}
	}
}

func TestGenerateRoomPlacesInteriorWalls(t *testing.T) {
	g := generateRoom(rand.New(rand.NewSource(33)), centerOf(gridNX/2), centerOf(gridNZ/2))
	interior := 0
	for ix := 2; ix < gridNX-2; ix++ {
		for iz := 2; iz < gridNZ-2; iz++ {
			if g.solidAt(ix, 2, iz) {
				interior++
			}
		}
	}
	if interior == 0 {
		t.Error("no interior walls were generated")
	}
}
