package main

import (
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// handleToggles flips runtime mode flags on key presses. The flags are read
// fresh at recompute/injection time, so a toggle takes effect next cycle.
func handleToggles() {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		*debugFlag = !*debugFlag
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		*showRaysFlag = !*showRaysFlag
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		*diffusionFlag = !*diffusionFlag
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyJ) {
		*randomSurfacesFlag = !*randomSurfacesFlag
	}
}

// enableAutoWalk schedules scripted movement for a limited duration.
func (g *Game) enableAutoWalk(duration time.Duration) {
	g.autoWalk = true
	g.autoWalkDeadline = time.Now().Add(duration)
	if g.autoWalkRand == nil {
		g.autoWalkRand = rand.New(rand.NewSource(time.Now().UnixNano() + 3))
	}
	g.autoWalkFrameCount = 0
}

// movementStep selects either manual or automatic movement for this tick and
// returns the world-space displacement plus the yaw delta.
func (g *Game) movementStep() (dx, dz, dyaw float64) {
	if g.autoWalk {
		if time.Now().After(g.autoWalkDeadline) {
			g.autoWalk = false
			return 0, 0, 0
		}
		dx, dz = g.autoWalkVector()
		return dx, dz, 0
	}
	return g.manualMovementStep()
}

// manualMovementStep maps WASD to movement relative to the listener's facing
// and Q/E (or the arrow keys) to turning.
func (g *Game) manualMovementStep() (dx, dz, dyaw float64) {
	fx, fz := g.facing()
	rx, rz := -fz, fx
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dx += fx * moveSpeed
		dz += fz * moveSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dx -= fx * moveSpeed
		dz -= fz * moveSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		dx -= rx * moveSpeed
		dz -= rz * moveSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		dx += rx * moveSpeed
		dz += rz * moveSpeed
	}
	if dx != 0 && dz != 0 {
		dx *= 0.7071
		dz *= 0.7071
	}
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dyaw += turnSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dyaw -= turnSpeed
	}
	return dx, dz, dyaw
}

// facing returns the listener's forward direction projected onto the floor.
func (g *Game) facing() (fx, fz float64) {
	return -math.Sin(g.yaw), -math.Cos(g.yaw)
}

// autoWalkVector returns a pseudo-random, collision-aware movement vector.
func (g *Game) autoWalkVector() (float64, float64) {
	if g.autoWalkRand == nil {
		g.autoWalkRand = rand.New(rand.NewSource(time.Now().UnixNano() + 4))
	}
	for attempts := 0; attempts < 5; attempts++ {
		if g.autoWalkFrameCount <= 0 {
			g.randomizeAutoWalkDirection()
		}
		nextX := g.px + g.autoWalkDirX*moveSpeed
		nextZ := g.pz + g.autoWalkDirZ*moveSpeed
		if g.walkable(nextX, nextZ) {
			g.autoWalkFrameCount--
			return g.autoWalkDirX * moveSpeed, g.autoWalkDirZ * moveSpeed
		}
		g.autoWalkFrameCount = 0
	}
	return 0, 0
}

// randomizeAutoWalkDirection chooses a new heading for automatic walking.
func (g *Game) randomizeAutoWalkDirection() {
	angle := g.autoWalkRand.Float64() * 2 * math.Pi
	g.autoWalkDirX = math.Cos(angle)
	g.autoWalkDirZ = math.Sin(angle)
	g.autoWalkFrameCount = 20 + g.autoWalkRand.Intn(50)
}

// walkable reports whether the listener can stand at the given floor position.
func (g *Game) walkable(x, z float64) bool {
	ix := int(math.Floor(x / voxelSize))
	iz := int(math.Floor(z / voxelSize))
	iy := int(math.Floor(listenerHeight / voxelSize))
	if ix <= 0 || ix >= gridNX-1 || iz <= 0 || iz >= gridNZ-1 {
		return false
	}
	return !g.grid.solidAt(ix, iy, iz) && !g.grid.solidAt(ix, iy-1, iz)
}
