package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"gonum.org/v1/gonum/spatial/r3"
)

// trailPalette assigns a base color per seed direction; diffusion trails wrap
// around the palette.
var trailPalette = []color.RGBA{
	{255, 0, 0, 255},     // red
	{0, 255, 0, 255},     // green
	{0, 0, 255, 255},     // blue
	{0, 255, 255, 255},   // cyan
	{255, 0, 255, 255},   // purple
	{255, 255, 0, 255},   // yellow
	{255, 255, 255, 255}, // white
	{204, 51, 51, 255},   // dark red
	{51, 204, 51, 255},   // dark green
	{51, 51, 204, 255},   // dark blue
	{51, 204, 204, 255},  // dark cyan
	{204, 51, 204, 255},  // dark purple
	{204, 204, 51, 255},  // dark yellow
	{128, 128, 128, 255}, // gray
}

// Draw renders the top-down occupancy slice, the reflection trails, the
// listener with its ear indicators, and the optional diagnostics overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	if len(g.pixelScratch) != screenW*screenH*4 {
		g.pixelScratch = make([]byte, screenW*screenH*4)
	}
	img := g.pixelScratch
	earLevel := clampCoord(int(math.Floor(listenerHeight/voxelSize)), 0, gridNY-1)
	for sy := 0; sy < screenH; sy++ {
		iz := sy / cellPixels
		for sx := 0; sx < screenW; sx++ {
			ix := sx / cellPixels
			base := (sy*screenW + sx) * 4
			if g.grid.solidAt(ix, earLevel, iz) {
				img[base] = 30
				img[base+1] = 40
				img[base+2] = 80
			} else {
				img[base] = 0
				img[base+1] = 0
				img[base+2] = 0
			}
			img[base+3] = 255
		}
	}
	screen.WritePixels(img)

	if *showRaysFlag {
		g.drawReflectionTrails(screen)
	}
	g.drawListener(screen)

	if *debugFlag {
		stats, points, simDuration := g.reflector.diagnostics()
		msg := fmt.Sprintf(
			"FPS: %.1f (%.1f TPS)\nSim: %.2f ms, %d audible points\nDelay ms: %.1f / %.1f / %.1f\nAttenuation: %.4f / %.4f / %.4f",
			ebiten.ActualFPS(), ebiten.ActualTPS(),
			simDuration.Seconds()*1000, points,
			stats.minDelayMs, stats.avgDelayMs(), stats.maxDelayMs,
			stats.minAttenuation, stats.avgAttenuation(), stats.maxAttenuation)
		ebitenutil.DebugPrint(screen, msg)
	}
}

// Layout reports the logical screen size used by Ebiten.
func (g *Game) Layout(_, _ int) (int, int) { return screenW, screenH }

// drawReflectionTrails chains each trail's recorded points into line segments
// whose color decays by a fixed factor per hop.
func (g *Game) drawReflectionTrails(screen *ebiten.Image) {
	g.reflector.visualize(func(snap reflectionSnapshot) {
		for i, trail := range snap.trails {
			base := trailPalette[i%len(trailPalette)]
			intensity := 1.0
			for j := 1; j < len(trail); j++ {
				x0, y0 := worldToScreen(trail[j-1])
				x1, y1 := worldToScreen(trail[j])
				drawLine(screen, x0, y0, x1, y1, scaleColor(base, intensity))
				intensity *= trailColorFalloff
			}
		}
	})
}

// drawListener renders the head position and the ear offset indicators.
func (g *Game) drawListener(screen *ebiten.Image) {
	pose := listenerPose{
		position:    r3.Vec{X: g.px, Y: listenerHeight, Z: g.pz},
		orientation: r3.NewRotation(g.yaw, identityUp),
	}
	hx, hy := worldToScreen(pose.position)
	leftEar, rightEar := pose.earPositions(*earSeparationFlag)
	lx, ly := worldToScreen(leftEar)
	rx, ry := worldToScreen(rightEar)
	drawLine(screen, hx, hy, lx, ly, color.RGBA{0, 255, 200, 200})
	drawLine(screen, hx, hy, rx, ry, color.RGBA{0, 200, 255, 200})
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			sx := hx + dx
			sy := hy + dy
			if sx >= 0 && sx < screenW && sy >= 0 && sy < screenH {
				screen.Set(sx, sy, color.RGBA{255, 0, 0, 255})
			}
		}
	}
}

// worldToScreen projects a world position onto the top-down view.
func worldToScreen(v r3.Vec) (int, int) {
	return int(v.X / voxelSize * cellPixels), int(v.Z / voxelSize * cellPixels)
}

// scaleColor dims a color by the given intensity, keeping alpha.
func scaleColor(c color.RGBA, intensity float64) color.RGBA {
	if intensity > 1 {
		intensity = 1
	} else if intensity < 0 {
		intensity = 0
	}
	return color.RGBA{
		R: byte(float64(c.R) * intensity),
		G: byte(float64(c.G) * intensity),
		B: byte(float64(c.B) * intensity),
		A: c.A,
	}
}

// drawLine plots a line segment using Bresenham's integer algorithm.
func drawLine(screen *ebiten.Image, x0, y0, x1, y1 int, clr color.Color) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		if x0 >= 0 && x0 < screenW && y0 >= 0 && y0 < screenH {
			screen.Set(x0, y0, clr)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// clampCoord constrains v to lie within the inclusive [min, max] range.
func clampCoord(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
