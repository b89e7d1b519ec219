package component

// Transform is a combatant's world position in pixels, y pointing down.
// Z is the out-of-plane layer and is never touched by round resets.
type Transform struct {
	X      float64
	Y      float64
	Z      float64
	Facing float64
}

var TransformComponent = NewComponent[Transform]()

// FacingSign normalizes Facing to -1 or +1.
func (t *Transform) FacingSign() float64 {
	if t == nil || t.Facing >= 0 {
		return 1
	}
	return -1
}
