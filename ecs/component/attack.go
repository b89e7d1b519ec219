package component

// HitShape selects the overlap test used by a hit query.
type HitShape int

const (
	ShapeCircle HitShape = iota
	ShapeBox
)

func (s HitShape) String() string {
	if s == ShapeBox {
		return "box"
	}
	return "circle"
}

// Area is the query volume: Radius for circles, Width and Height for boxes.
type Area struct {
	Shape  HitShape
	Radius float64
	Width  float64
	Height float64
}

// AttackSpec describes one attack's origin relative to the combatant and the
// damage it deals. OffsetX is mirrored by facing.
type AttackSpec struct {
	OffsetX float64
	OffsetY float64
	Area    Area
	Damage  float64

	BypassesInvulnerability bool
}

// Origin returns the attack point in world space.
func (a *AttackSpec) Origin(t *Transform) (float64, float64) {
	return t.X + a.OffsetX*t.FacingSign(), t.Y + a.OffsetY
}

// AttackProfile holds one spec per attack kind. A nil spec is a
// configuration gap: the action degrades to a no-op.
type AttackProfile struct {
	Normal   *AttackSpec
	Crouch   *AttackSpec
	Ultimate *AttackSpec

	reported uint8
}

var AttackProfileComponent = NewComponent[AttackProfile]()

func (p *AttackProfile) Spec(kind AttackKind) *AttackSpec {
	if p == nil {
		return nil
	}
	switch kind {
	case AttackNormal:
		return p.Normal
	case AttackCrouch:
		return p.Crouch
	case AttackUltimate:
		return p.Ultimate
	}
	return nil
}

// MarkGapReported returns true only the first time it is called for kind.
func (p *AttackProfile) MarkGapReported(kind AttackKind) bool {
	if p == nil {
		return false
	}
	bit := uint8(1) << uint(kind)
	if p.reported&bit != 0 {
		return false
	}
	p.reported |= bit
	return true
}
