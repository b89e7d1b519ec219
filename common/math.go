package common

// TimeEpsilon absorbs float drift from summing fixed ticks, so a 3s timer
// stepped at 1/60 expires on tick 180 and not 181.
const TimeEpsilon = 1e-9

// CountDown subtracts dt from remaining and reports whether the timer has run
// out. An expired timer is returned as exactly zero.
func CountDown(remaining, dt float64) (float64, bool) {
	remaining -= dt
	if remaining <= TimeEpsilon {
		return 0, true
	}
	return remaining, false
}

// Reached reports whether an accumulated elapsed time has hit mark.
func Reached(elapsed, mark float64) bool {
	return elapsed+TimeEpsilon >= mark
}

// Sign returns -1, 0 or +1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Approach moves v toward target by at most step.
func Approach(v, target, step float64) float64 {
	if v < target {
		return min(v+step, target)
	}
	return max(v-step, target)
}
