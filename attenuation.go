package main

import "math"

// delayMsForDistance converts a propagation distance in meters to milliseconds
// of delay. The configured pre-delay applies only while pre-delay is enabled
// and diffusion is disabled.
func (c reflectorConfig) delayMsForDistance(distance float64) float64 {
	delay := distance * c.msPerMeter
	if c.preDelayEnabled && !c.diffusionEnabled {
		delay += c.preDelayMs
	}
	return delay
}

// distanceAttenuation returns the amplitude coefficient for sound that has
// traveled the given distance. The curve is logarithmic, tuned to fall off
// faster than inverse-square, scaled by the configured factor and capped at 1.
func (c reflectorConfig) distanceAttenuation(distance float64) float64 {
	if distance <= 0 {
		return 1
	}
	scaleLog := math.Log(distanceScaleBase) / math.Log(distanceLogBase)
	distanceSquared := distance * distance
	coefficient := math.Pow(geometricAmplitudeScalar,
		scaleLog+(0.5*math.Log(distanceSquared)/math.Log(distanceLogBase))-1)
	return math.Min(1, coefficient*c.distanceScalingFactor)
}

// bounceAttenuation returns the cumulative reflective energy after n bounces
// off a uniform surface. Used only by the legacy single-chain tracer; the
// diffusion simulator carries attenuation on each path instead.
func (c reflectorConfig) bounceAttenuation(surface surfaceCharacteristics, n int) float64 {
	return math.Pow(surface.reflective, float64(n))
}
