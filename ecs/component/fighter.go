package component

// Fighter is the movement and ability tuning of a combatant. It is replaced
// wholesale when prefabs are hot reloaded.
type Fighter struct {
	MoveSpeed  float64
	JumpSpeed  float64
	ExtraJumps int

	// AttackDuration bounds how long an attack holds the combatant when the
	// presentation never calls back with the attack end.
	AttackDuration float64

	DashPower    float64
	DashDuration float64
	// DashFlatten zeroes vertical speed on dash entry.
	DashFlatten bool

	WarpDistance float64
	WarpSkin     float64

	UltimateStartsReady bool
}

var FighterComponent = NewComponent[Fighter]()
