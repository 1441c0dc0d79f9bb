package main

// injectionStats aggregates per-ear delay and attenuation over one injection
// pass. The values are diagnostic only; nothing reads them for control
// decisions. A fresh aggregate replaces the previous one on every call so the
// numbers always describe the current snapshot.
type injectionStats struct {
	contributions int

	minDelayMs float64
	maxDelayMs float64
	sumDelayMs float64

	minAttenuation float64
	maxAttenuation float64
	sumAttenuation float64
}

// observe folds one ear contribution into the aggregate.
func (st *injectionStats) observe(delayMs, attenuation float64) {
	if st.contributions == 0 {
		st.minDelayMs, st.maxDelayMs = delayMs, delayMs
		st.minAttenuation, st.maxAttenuation = attenuation, attenuation
	} else {
		if delayMs < st.minDelayMs {
			st.minDelayMs = delayMs
		}
		if delayMs > st.maxDelayMs {
			st.maxDelayMs = delayMs
		}
		if attenuation < st.minAttenuation {
			st.minAttenuation = attenuation
		}
		if attenuation > st.maxAttenuation {
			st.maxAttenuation = attenuation
		}
	}
	st.contributions++
	st.sumDelayMs += delayMs
	st.sumAttenuation += attenuation
}

// avgDelayMs returns the mean delay across contributions.
func (st injectionStats) avgDelayMs() float64 {
	if st.contributions == 0 {
		return 0
	}
	return st.sumDelayMs / float64(st.contributions)
}

// avgAttenuation returns the mean attenuation across contributions.
func (st injectionStats) avgAttenuation() float64 {
	if st.contributions == 0 {
		return 0
	}
	return st.sumAttenuation / float64(st.contributions)
}
