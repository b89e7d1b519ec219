package component

// Body is the kinematic state integrated by the physics system.
type Body struct {
	VX float64
	VY float64

	HalfWidth  float64
	HalfHeight float64

	GravityScale     float64
	GravitySuspended bool

	Grounded bool
	// Landed is true for the single tick the body touches ground after
	// being airborne.
	Landed bool
}

var BodyComponent = NewComponent[Body]()
