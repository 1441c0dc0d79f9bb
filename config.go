package main

import "time"

// Simulation, acoustics, and rendering configuration constants used throughout
// the application. The acoustic constants implement a simplified
// geometric-acoustics model: delay scales linearly with distance while
// attenuation falls off logarithmically, faster than physical inverse-square,
// which reads better at interactive room scale.
const (
	// Voxel grid dimensions in cells and the edge length of one cell in meters.
	gridNX, gridNY, gridNZ = 96, 16, 96
	voxelSize              = 0.5

	// Pixels per voxel cell in the top-down view.
	cellPixels  = 4
	screenW     = gridNX * cellPixels
	screenH     = gridNZ * cellPixels
	windowScale = 2

	defaultTPS = 60.0

	// Listener.
	listenerHeight      = 1.7
	earSeparationMeters = 0.18
	moveSpeed           = 0.06 // meters per tick
	turnSpeed           = 0.035
	listenerMoveEpsilon = 0.001
	listenerTurnEpsilon = 0.001

	// Acoustics.
	soundMsPerMeter           = 3.0
	defaultPreDelayMs         = 20.0
	defaultAbsorptionRatio    = 0.125
	defaultDiffusionRatio     = 0.125
	defaultDiffusionFanout    = 5
	defaultMaxBounces         = 5
	maxDelayMs                = 1000.0
	minimumAudibleAttenuation = 1.0 / 256.0
	defaultDistanceScaling    = 2.5
	geometricAmplitudeScalar  = 0.3
	distanceLogBase           = 2.5
	distanceScaleBase         = 2.5

	// Reflection points land slightly inside the struck surface so the next
	// bounce starts on the air side of the boundary.
	slightlyShort = 0.999

	// Multiplicative color decay applied per bounce along a visualized trail.
	trailColorFalloff = 0.75

	// Audio.
	audioSampleRate      = 48000
	audioChannels        = 2
	audioBytesPerSample  = 2
	audioFrameBytes      = audioChannels * audioBytesPerSample
	audioBlockFrames     = audioSampleRate / 60
	audioLeadFrames      = audioSampleRate / 10
	drySourceLevel       = 0.5
	pcm16MaxValue        = 32767
	pcm16MinValue        = -32768
	accumulatorHorizonMs = 1500.0 // must cover maxDelayMs plus one block

	audioPlayerBufferLatency = 100 * time.Millisecond

	// Procedural room.
	wallSegments          = 14
	wallMinLen            = 4
	wallMaxLen            = 20
	wallExclusionRadius   = 4
	wallThicknessVariance = 1
	wallMinHeightCells    = 3
)
