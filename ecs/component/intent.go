package component

// Intent is the abstract input a combatant receives each tick, written by
// the human input source or by the AI policy.
type Intent struct {
	MoveX  float64
	FaceX  float64
	Crouch bool

	// Edge requests, consumed by the controller every tick.
	Jump     bool
	Attack   bool
	Dash     bool
	Ultimate bool
}

var IntentComponent = NewComponent[Intent]()

func (i *Intent) ClearEdges() {
	i.Jump = false
	i.Attack = false
	i.Dash = false
	i.Ultimate = false
}

// Clear drops all intent, held and edge.
func (i *Intent) Clear() {
	*i = Intent{}
}
