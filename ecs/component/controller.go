package component

// ActionState is the exclusive action a combatant is performing this tick.
type ActionState int

const (
	StateIdle ActionState = iota
	StateMoving
	StateCrouching
	StateAttacking
	StateDashing
	StatePreparingUltimate
	StateInUltimate
	StateLocked
)

func (s ActionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMoving:
		return "moving"
	case StateCrouching:
		return "crouching"
	case StateAttacking:
		return "attacking"
	case StateDashing:
		return "dashing"
	case StatePreparingUltimate:
		return "preparing_ultimate"
	case StateInUltimate:
		return "in_ultimate"
	case StateLocked:
		return "locked"
	}
	return "unknown"
}

// Neutral reports the states driven directly by movement intent.
func (s ActionState) Neutral() bool {
	return s == StateIdle || s == StateMoving || s == StateCrouching
}

type AttackKind int

const (
	AttackNormal AttackKind = iota
	AttackCrouch
	AttackUltimate
)

func (k AttackKind) String() string {
	switch k {
	case AttackCrouch:
		return "crouch"
	case AttackUltimate:
		return "ultimate"
	}
	return "normal"
}

// Controller is the runtime half of the character state machine. Every wait
// is a remaining-time counter advanced once per tick.
type Controller struct {
	State ActionState

	Attack          AttackKind
	AttackRemaining float64
	AttackFired     bool

	DashRemaining float64

	// PrepareTicks counts ticks spent in StatePreparingUltimate.
	PrepareTicks  int
	UltimateFired bool

	JumpsLeft int

	// Activations increments on every attack, dash, or ultimate entry so
	// presentation stand-ins can tell consecutive activations apart.
	Activations uint64
}

var ControllerComponent = NewComponent[Controller]()
