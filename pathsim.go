package main

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// acousticPath is one ray propagating through the scene. The start fields are
// captured once at creation and never change; paths spawned by diffusion carry
// a startAttenuation below 1, which distinguishes them from primary paths. The
// cursor fields advance one bounce at a time until the path is finalized.
type acousticPath struct {
	startPoint       r3.Vec
	startDirection   r3.Vec
	startDelayMs     float64
	startAttenuation float64

	lastPoint   r3.Vec
	direction   r3.Vec
	distance    float64
	delayMs     float64
	attenuation float64
	bounceCount int
	finalized   bool

	// trail records the start point and every accepted collision, chained into
	// line segments by the visualizer.
	trail []r3.Vec
}

// pathSimulator runs one recompute cycle. Paths live in an index-addressed
// pool that is discarded with the simulator, so no path state survives across
// cycles.
type pathSimulator struct {
	cfg      reflectorConfig
	tracer   rayTracer
	rng      *rand.Rand
	listener listenerPose

	paths  []acousticPath
	points []audiblePoint

	// per-round scratch, reused to limit allocations
	origins    []r3.Vec
	directions []r3.Vec
	hits       []rayHit
	hitOK      []bool
}

// newPathSimulator prepares a simulator for a single recompute cycle.
func newPathSimulator(cfg reflectorConfig, tracer rayTracer, rng *rand.Rand, listener listenerPose) *pathSimulator {
	return &pathSimulator{cfg: cfg, tracer: tracer, rng: rng, listener: listener}
}

// run executes the selected simulation strategy and returns the snapshot.
func (s *pathSimulator) run() reflectionSnapshot {
	seeds := seedDirections(s.listener, s.cfg.headBasis)
	if s.cfg.diffusionEnabled {
		s.runDiffusion(seeds)
	} else {
		s.runLegacy(seeds)
	}
	trails := make([][]r3.Vec, 0, len(s.paths))
	for i := range s.paths {
		// A trail with only the start point never produced an audible bounce.
		if len(s.paths[i].trail) > 1 {
			trails = append(trails, s.paths[i].trail)
		}
	}
	return reflectionSnapshot{
		diffusionMode: s.cfg.diffusionEnabled,
		points:        s.points,
		trails:        trails,
	}
}

// addPath appends a path to the pool and returns its index.
func (s *pathSimulator) addPath(point, direction r3.Vec, delayMs, attenuation, distance float64) int {
	dir := r3.Unit(direction)
	s.paths = append(s.paths, acousticPath{
		startPoint:       point,
		startDirection:   dir,
		startDelayMs:     delayMs,
		startAttenuation: attenuation,
		lastPoint:        point,
		direction:        dir,
		distance:         distance,
		delayMs:          delayMs,
		attenuation:      attenuation,
		trail:            []r3.Vec{point},
	})
	return len(s.paths) - 1
}

// runDiffusion advances the whole path population in synchronous rounds:
// every still-active path attempts exactly one bounce per round, and children
// spawned during a round first advance in the next one. The wavefront expands
// breadth first until no path remains active.
func (s *pathSimulator) runDiffusion(seeds []r3.Vec) {
	active := make([]int, 0, len(seeds))
	for _, dir := range seeds {
		active = append(active, s.addPath(s.listener.position, dir, 0, 1, 0))
	}

	batch, hasBatch := s.tracer.(batchRayTracer)
	var next []int
	for len(active) > 0 {
		// Bounce budget is checked before querying so exhausted paths never
		// cost an intersection. bounceCount holds completed bounces, so the
		// budget caps recorded bounces at maxBounces exactly as the legacy
		// chain does.
		live := active[:0]
		for _, idx := range active {
			if s.paths[idx].bounceCount >= s.cfg.maxBounces {
				s.paths[idx].finalized = true
				continue
			}
			live = append(live, idx)
		}
		if len(live) == 0 {
			break
		}

		s.resizeScratch(len(live))
		for i, idx := range live {
			s.origins[i] = s.paths[idx].lastPoint
			s.directions[i] = s.paths[idx].direction
		}
		if hasBatch {
			if err := batch.findRayIntersections(s.origins, s.directions, s.hits, s.hitOK); err != nil {
				// Fall back to the CPU query for this round.
				for i := range s.origins {
					s.hits[i], s.hitOK[i] = s.tracer.findRayIntersection(s.origins[i], s.directions[i])
				}
			}
		} else {
			for i := range s.origins {
				s.hits[i], s.hitOK[i] = s.tracer.findRayIntersection(s.origins[i], s.directions[i])
			}
		}

		next = next[:0]
		for i, idx := range live {
			next = s.bounceStep(idx, s.hits[i], s.hitOK[i], next)
		}
		active, next = next, active
	}
}

// bounceStep advances one path by a single bounce attempt, appending the path
// itself and any spawned children to next when they remain active.
func (s *pathSimulator) bounceStep(idx int, hit rayHit, hitOK bool, next []int) []int {
	cfg := s.cfg
	p := s.paths[idx]
	if !hitOK {
		p.finalized = true
		s.paths[idx] = p
		return next
	}

	increment := hit.distance * slightlyShort
	end := r3.Add(p.lastPoint, r3.Scale(increment, p.direction))
	totalDistance := p.distance + increment
	currentDelay := p.delayMs + cfg.delayMsForDistance(increment)

	surface := cfg.surfaceAt(hit)
	reflective := p.attenuation * surface.reflective
	diffusionTotal := p.attenuation * surface.diffusion
	perChild := 0.0
	if cfg.diffusionFanout >= 1 {
		perChild = diffusionTotal / float64(cfg.diffusionFanout)
	}

	toListener := r3.Norm(r3.Sub(end, s.listener.position))
	totalDelay := currentDelay + cfg.delayMsForDistance(toListener)
	toListenerAttenuation := cfg.distanceAttenuation(toListener + totalDistance)

	// Spawn children carrying the scattered share of the energy. Each starts a
	// fresh bounce budget at the collision point, biased into the hemisphere
	// of the struck face.
	if perChild*toListenerAttenuation > cfg.minAudibleAttenuation && totalDelay < cfg.maxDelayMs {
		for i := 0; i < cfg.diffusionFanout; i++ {
			child := s.addPath(end, diffusionDirection(hit.face, s.rng), currentDelay, perChild, totalDistance)
			next = append(next, child)
		}
	}

	// Audibility: a collision too quiet to hear also ends the path, since all
	// further bounces would be quieter still.
	if (reflective+diffusionTotal)*toListenerAttenuation > cfg.minAudibleAttenuation && totalDelay < cfg.maxDelayMs {
		s.points = append(s.points, audiblePoint{
			location:    end,
			delayMs:     currentDelay,
			attenuation: reflective + diffusionTotal,
			distance:    totalDistance,
		})
		p.trail = append(p.trail, end)
	} else {
		p.finalized = true
		s.paths[idx] = p
		return next
	}

	// Continue bouncing only while the specular share stays audible.
	if reflective*toListenerAttenuation > cfg.minAudibleAttenuation {
		p.direction = r3.Unit(reflectDirection(p.direction, hit.normal))
		p.lastPoint = end
		p.attenuation = reflective
		p.delayMs = currentDelay
		p.distance = totalDistance
		p.bounceCount++
		s.paths[idx] = p
		return append(next, idx)
	}
	p.finalized = true
	s.paths[idx] = p
	return next
}

// runLegacy traces one deterministic specular chain per seed direction with
// no branching: the pre-diffusion behavior, kept as an alternative policy.
func (s *pathSimulator) runLegacy(seeds []r3.Vec) {
	cfg := s.cfg
	for _, dir := range seeds {
		idx := s.addPath(s.listener.position, dir, 0, 1, 0)
		p := s.paths[idx]
		surface := cfg.surfaceAt(rayHit{})
		for p.attenuation > cfg.minAudibleAttenuation && p.delayMs < cfg.maxDelayMs && p.bounceCount < cfg.maxBounces {
			hit, ok := s.tracer.findRayIntersection(p.lastPoint, p.direction)
			if !ok {
				break
			}
			increment := hit.distance * slightlyShort
			end := r3.Add(p.lastPoint, r3.Scale(increment, p.direction))
			p.distance += increment
			p.delayMs += cfg.delayMsForDistance(increment)
			p.bounceCount++
			p.attenuation = cfg.bounceAttenuation(surface, p.bounceCount)

			s.points = append(s.points, audiblePoint{
				location:    end,
				delayMs:     p.delayMs,
				attenuation: p.attenuation,
				distance:    p.distance,
			})
			p.trail = append(p.trail, end)

			p.direction = r3.Unit(reflectDirection(p.direction, hit.normal))
			p.lastPoint = end
		}
		p.finalized = true
		s.paths[idx] = p
	}
}

// resizeScratch sizes the per-round query buffers.
func (s *pathSimulator) resizeScratch(n int) {
	if cap(s.origins) < n {
		s.origins = make([]r3.Vec, n)
		s.directions = make([]r3.Vec, n)
		s.hits = make([]rayHit, n)
		s.hitOK = make([]bool, n)
	}
	s.origins = s.origins[:n]
	s.directions = s.directions[:n]
	s.hits = s.hits[:n]
	s.hitOK = s.hitOK[:n]
}

// reflectDirection mirrors an incident direction across a surface normal.
func reflectDirection(direction, normal r3.Vec) r3.Vec {
	return r3.Sub(direction, r3.Scale(2*r3.Dot(direction, normal), normal))
}

// diffusionDirection samples a scatter direction biased into the hemisphere
// of the struck face: the outward axis keeps a magnitude drawn from
// [0.5, 1.0] and the remainder is split pseudo-randomly across the other two
// axes before normalizing.
func diffusionDirection(face boxFace, rng *rand.Rand) r3.Vec {
	axis, sign := faceAxis(face)
	return r3.Unit(composeAxisVector(axis, sign, 0.5+0.5*rng.Float64(), rng))
}
