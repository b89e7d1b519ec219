package component

// AI configures the built-in combat policy. Script, when set, names a tengo
// script that replaces it.
type AI struct {
	DetectRange         float64
	AttackRange         float64
	DashRangeMultiplier float64

	Script string

	// Engaged is set while a target is inside DetectRange.
	Engaged bool
}

var AIComponent = NewComponent[AI]()
