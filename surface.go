package main

// surfaceCharacteristics describes how a surface splits incident acoustic
// energy. The three ratios always sum to 1.
type surfaceCharacteristics struct {
	reflective float64
	absorption float64
	diffusion  float64
}

// surfaceAt returns the material characteristics for a ray collision. The
// material is currently uniform across the scene, but the lookup takes the hit
// so a richer material system can vary it per surface without touching callers.
func (c reflectorConfig) surfaceAt(_ rayHit) surfaceCharacteristics {
	absorption := clampRatio(c.absorptionRatio)
	diffusion := clampRatio(c.diffusionRatio)
	if absorption+diffusion > 1 {
		// Preserve their proportion while restoring a valid split.
		total := absorption + diffusion
		absorption /= total
		diffusion /= total
	}
	return surfaceCharacteristics{
		reflective: 1 - absorption - diffusion,
		absorption: absorption,
		diffusion:  diffusion,
	}
}

// clampRatio constrains a ratio to the inclusive [0, 1] range.
func clampRatio(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
