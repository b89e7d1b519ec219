package component

// Timeline stands in for the animation layer: it calls the attack and
// ultimate re-entry points at fixed offsets when no presentation does.
type Timeline struct {
	AttackImpact   float64
	UltimateImpact float64
	UltimateFinish float64

	// Elapsed is the time spent in the current activation.
	Elapsed    float64
	Activation uint64
}

var TimelineComponent = NewComponent[Timeline]()
