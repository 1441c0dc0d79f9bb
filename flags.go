package main

import "flag"

// Command-line flags that control the acoustic model, optional rendering, and
// runtime behavior. Mode toggles are read at recompute/injection time so a
// change takes effect on the next cycle without restarting.
var (
	// diffusionFlag selects the stochastic path-branching simulation; when off
	// the legacy single-chain tracer runs instead.
	diffusionFlag = flag.Bool("diffusion", true, "enable stochastic diffusion branching at each reflection")

	// earSeparationFlag spatializes per ear; when off both ears collapse to the
	// head position and receive identical delay and attenuation.
	earSeparationFlag = flag.Bool("ear-separation", true, "compute per-ear delay and attenuation")

	// stereoSourceFlag feeds the source's left channel to the left ear and the
	// right channel to the right ear instead of a mono mixdown.
	stereoSourceFlag = flag.Bool("stereo-source", false, "treat the source block as a true stereo pair")

	// randomSurfacesFlag perturbs voxel face normals slightly to avoid the
	// perfectly regular echo patterns of an axis-aligned grid.
	randomSurfacesFlag = flag.Bool("random-surfaces", true, "jitter surface normals to break up regular echoes")

	// preDelayFlag adds a fixed pre-delay to distance-derived delays.
	preDelayFlag = flag.Bool("pre-delay", true, "apply the configured pre-delay to reflections")

	// headBasisFlag derives the 14 emission directions from the listener's
	// orientation; when off the world axes are used.
	headBasisFlag = flag.Bool("head-basis", true, "seed emission directions from the listener orientation")

	// fanoutFlag sets how many child paths a qualifying collision spawns.
	fanoutFlag = flag.Int("fanout", defaultDiffusionFanout, "diffusion children spawned per qualifying collision")

	// absorptionFlag sets the fraction of energy absorbed at each surface.
	absorptionFlag = flag.Float64("absorption", defaultAbsorptionRatio, "surface absorption ratio (0-1)")

	// diffusionRatioFlag sets the fraction of energy scattered at each surface.
	diffusionRatioFlag = flag.Float64("diffusion-ratio", defaultDiffusionRatio, "surface diffusion ratio (0-1)")

	// maxBouncesFlag bounds the bounce count of any single path.
	maxBouncesFlag = flag.Int("max-bounces", defaultMaxBounces, "maximum reflections per acoustic path")

	// distanceScalingFlag scales the distance attenuation curve.
	distanceScalingFlag = flag.Float64("distance-scaling", defaultDistanceScaling, "distance attenuation scaling factor")

	// seedFlag pins the pseudo-random sources for reproducible runs; 0 derives
	// a seed from the current time.
	seedFlag = flag.Int64("seed", 0, "seed for surface jitter and diffusion sampling (0 = time-based)")

	// sourceWavFlag points at a WAV file looped as the emitted sound; when
	// empty a synthesized click train is used.
	sourceWavFlag = flag.String("source", "", "path to a WAV file to loop as the sound source")

	// enableAudioFlag toggles audio output entirely.
	enableAudioFlag = flag.Bool("enable-audio", true, "enable binaural audio output")

	// showRaysFlag toggles rendering of reflection trails.
	showRaysFlag = flag.Bool("show-rays", true, "render reflection path trails")

	// debugFlag enables the FPS and reflection diagnostics overlay.
	debugFlag = flag.Bool("debug", false, "show FPS and reflection diagnostics overlay")

	// openCLFlag routes per-round intersection batches through the OpenCL
	// tracer; requires a binary built with -tags opencl.
	openCLFlag = flag.Bool("opencl", false, "use the OpenCL batch ray tracer (build with -tags opencl)")

	// cpuProfileFlag writes a CPU profile for the whole run to the given path.
	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile to this file")

	// autoWalkFlag walks the listener randomly for the given duration, useful
	// for profiling and scripted captures.
	autoWalkFlag = flag.Duration("auto-walk", 0, "walk randomly for this duration at startup")
)
