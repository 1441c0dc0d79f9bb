package main

import "gonum.org/v1/gonum/spatial/r3"

// audiblePoint is a single reflection deemed loud enough to contribute to the
// output audio. delayMs is the accumulated path delay to the point; the
// ear-leg delay is added at injection time. distance is the geometric path
// length traveled to reach the point.
type audiblePoint struct {
	location    r3.Vec
	delayMs     float64
	attenuation float64
	distance    float64
}

// reflectionSnapshot is the immutable result of one full recompute cycle. The
// injector and the renderer read it under the reflector lock; the simulator
// replaces it wholesale.
type reflectionSnapshot struct {
	// diffusionMode records which attenuation convention the injector must
	// apply: the legacy chain folds path distance in at injection time, the
	// diffusion simulator only adds the ear leg.
	diffusionMode bool

	points []audiblePoint

	// trails holds the ordered collision points of every path, chained into
	// line segments by the visualizer.
	trails [][]r3.Vec
}
