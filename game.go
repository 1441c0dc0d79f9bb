package main

import (
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"gonum.org/v1/gonum/spatial/r3"
)

// Game wires the voxel scene, the reflector, and the audio pipeline into the
// ebiten loop. Update is the render/simulation driver; the audio player pulls
// from the shared accumulation buffer on its own goroutine.
type Game struct {
	grid      *voxelGrid
	reflector *audioReflector
	out       *delayedAudioBuffer
	source    *sourceLoop

	px, pz float64 // listener floor position in meters
	yaw    float64

	autoWalk           bool
	autoWalkDeadline   time.Time
	autoWalkRand       *rand.Rand
	autoWalkDirX       float64
	autoWalkDirZ       float64
	autoWalkFrameCount int

	audioCtx       *audio.Context
	audioPlayer    *audio.Player
	nextSampleTime int64
	blockScratch   []int16
	pixelScratch   []byte
}

// newGame constructs a fully initialized Game instance from the given seed.
func newGame(seed int64) *Game {
	levelRand := rand.New(rand.NewSource(seed + 1))
	spawnX := float64(gridNX) * voxelSize / 2
	spawnZ := float64(gridNZ) * voxelSize / 2
	grid := generateRoom(levelRand, spawnX, spawnZ)
	grid.rng = rand.New(rand.NewSource(seed + 2))
	grid.jitter = *randomSurfacesFlag

	var tracer rayTracer = grid
	if *openCLFlag {
		caster, err := newOpenCLRayCaster(grid)
		if err != nil {
			log.Fatalf("OpenCL initialization failed: %v", err)
		}
		log.Printf("OpenCL ray tracer enabled (device: %s)", caster.DeviceName())
		tracer = caster
	}

	out := newDelayedAudioBuffer(int(accumulatorHorizonMs * audioSampleRate / 1000))
	g := &Game{
		grid:         grid,
		reflector:    newAudioReflector(tracer, out, rand.New(rand.NewSource(seed))),
		out:          out,
		px:           spawnX,
		pz:           spawnZ,
		autoWalkRand: rand.New(rand.NewSource(seed + 3)),
		blockScratch: make([]int16, audioBlockFrames*audioChannels),
	}

	if *sourceWavFlag != "" {
		source, err := newWavSource(audioSampleRate, *sourceWavFlag)
		if err != nil {
			log.Fatalf("Loading source loop failed: %v", err)
		}
		g.source = source
	} else {
		g.source = newClickSource(audioSampleRate)
	}

	if *enableAudioFlag {
		ctx := audio.NewContext(audioSampleRate)
		g.audioCtx = ctx
		if player, err := ctx.NewPlayer(out); err != nil {
			log.Printf("Audio player creation failed: %v", err)
		} else {
			g.audioPlayer = player
			g.audioPlayer.SetBufferSize(audioPlayerBufferLatency)
			g.audioPlayer.Play()
		}
	}
	return g
}

// Update advances the listener, refreshes the reflection snapshot, and feeds
// pending source blocks through the injector.
func (g *Game) Update() error {
	handleToggles()
	dx, dz, dyaw := g.movementStep()
	g.yaw += dyaw
	if (dx != 0 || dz != 0) && g.walkable(g.px+dx, g.pz+dz) {
		g.px += dx
		g.pz += dz
	}
	g.grid.jitter = *randomSurfacesFlag

	g.reflector.setListenerPose(listenerPose{
		position:    r3.Vec{X: g.px, Y: listenerHeight, Z: g.pz},
		orientation: r3.NewRotation(g.yaw, identityUp),
	})
	g.reflector.recompute()
	g.pumpAudio()
	return nil
}

// pumpAudio produces source blocks until the writer is a comfortable lead
// ahead of the player's read cursor, keeping injection sample-accurate
// without drifting against the audio clock.
func (g *Game) pumpAudio() {
	if g.audioPlayer == nil {
		return
	}
	for g.nextSampleTime < g.out.readCursor()+audioLeadFrames {
		g.source.nextBlock(g.blockScratch)
		frames := len(g.blockScratch) / audioChannels

		// Dry signal at time zero; reflections arrive as trailing echoes.
		const dryScale = drySourceLevel / 32768.0
		for i := 0; i < frames; i++ {
			l := float32(g.blockScratch[i*audioChannels]) * dryScale
			r := float32(g.blockScratch[i*audioChannels+1]) * dryScale
			g.out.addSample(g.nextSampleTime+int64(i), l, r)
		}

		g.reflector.processAudioBlock(g.nextSampleTime, g.blockScratch, audioChannels, audioSampleRate)
		g.nextSampleTime += int64(frames)
	}
}
