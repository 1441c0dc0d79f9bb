package main

// reflectorConfig is one simulation run's immutable view of the acoustic
// settings. It is assembled from the command-line flags at recompute and
// injection time so toggles take effect on the next cycle and are never cached
// beyond a single call.
type reflectorConfig struct {
	preDelayMs            float64
	msPerMeter            float64
	distanceScalingFactor float64
	diffusionFanout       int
	absorptionRatio       float64
	diffusionRatio        float64
	minAudibleAttenuation float64
	maxDelayMs            float64
	maxBounces            int

	preDelayEnabled  bool
	earSeparation    bool
	stereoSource     bool
	diffusionEnabled bool
	headBasis        bool
	randomSurfaces   bool
}

// configFromFlags snapshots the current flag values into a reflectorConfig.
func configFromFlags() reflectorConfig {
	return reflectorConfig{
		preDelayMs:            defaultPreDelayMs,
		msPerMeter:            soundMsPerMeter,
		distanceScalingFactor: *distanceScalingFlag,
		diffusionFanout:       *fanoutFlag,
		absorptionRatio:       *absorptionFlag,
		diffusionRatio:        *diffusionRatioFlag,
		minAudibleAttenuation: minimumAudibleAttenuation,
		maxDelayMs:            maxDelayMs,
		maxBounces:            *maxBouncesFlag,
		preDelayEnabled:       *preDelayFlag,
		earSeparation:         *earSeparationFlag,
		stereoSource:          *stereoSourceFlag,
		diffusionEnabled:      *diffusionFlag,
		headBasis:             *headBasisFlag,
		randomSurfaces:        *randomSurfacesFlag,
	}
}
