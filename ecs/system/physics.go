package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/duel/common"
	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
)

const groundSnap = 1.0

// Arena holds the world-level physics constants.
type Arena struct {
	Left  float64
	Right float64
	// Floor is the y of the ground surface. Zero disables the fallback
	// floor clamp.
	Floor float64

	Gravity float64
	MaxFall float64
}

// PhysicsSystem integrates combatant bodies against terrain. Motion is swept
// with segment casts against the obstacle boxes, so fast dashes cannot tunnel.
type PhysicsSystem struct {
	spatial *Spatial
	arena   Arena
}

func NewPhysicsSystem(spatial *Spatial, arena Arena) *PhysicsSystem {
	return &PhysicsSystem{spatial: spatial, arena: arena}
}

func (s *PhysicsSystem) Arena() Arena { return s.arena }

func (s *PhysicsSystem) SetArena(arena Arena) { s.arena = arena }

func (s *PhysicsSystem) Update(w *ecs.World, f *Frame) {
	if w == nil || f == nil {
		return
	}
	dt := f.Scaled()
	ecs.ForEach2(w, component.BodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, b *component.Body, t *component.Transform) {
		if dt <= 0 {
			b.Landed = false
			return
		}
		s.integrate(b, t, dt)
	})
	s.spatial.Sync(w)
}

func (s *PhysicsSystem) integrate(b *component.Body, t *component.Transform, dt float64) {
	wasGrounded := b.Grounded

	if !b.GravitySuspended {
		b.VY += s.arena.Gravity * b.GravityScale * dt
		if s.arena.MaxFall > 0 && b.VY > s.arena.MaxFall {
			b.VY = s.arena.MaxFall
		}
	}

	if b.VX != 0 {
		dir := common.Sign(b.VX)
		allowed := s.spatial.Probe(t.X, t.Y, dir, math.Abs(b.VX)*dt, b.HalfWidth, b.HalfHeight, 0)
		t.X += dir * allowed
	}

	dy := b.VY * dt
	b.Grounded = false
	if dy >= 0 {
		if d, ok := s.castVertical(t.X, t.Y, 1, b.HalfWidth, b.HalfHeight+dy+groundSnap); ok && d-b.HalfHeight <= dy+groundSnap {
			t.Y += d - b.HalfHeight
			b.VY = 0
			b.Grounded = true
		} else {
			t.Y += dy
		}
	} else {
		if d, ok := s.castVertical(t.X, t.Y, -1, b.HalfWidth, b.HalfHeight-dy); ok {
			t.Y -= math.Max(0, d-b.HalfHeight)
			b.VY = 0
		} else {
			t.Y += dy
		}
	}

	s.clampToArena(b, t)
	b.Landed = !wasGrounded && b.Grounded
}

// castVertical casts from the centre and both flanks of the body and returns
// the nearest terrain hit.
func (s *PhysicsSystem) castVertical(x, y, dir, halfWidth, reach float64) (float64, bool) {
	best, hit := reach, false
	inset := halfWidth * 0.9
	for _, ox := range []float64{-inset, 0, inset} {
		d, ok := s.spatial.Cast(cp.Vector{X: x + ox, Y: y}, cp.Vector{X: 0, Y: dir}, reach)
		if ok && (!hit || d < best) {
			best, hit = d, true
		}
	}
	return best, hit
}

func (s *PhysicsSystem) clampToArena(b *component.Body, t *component.Transform) {
	a := s.arena
	if a.Right > a.Left {
		t.X = common.Clamp(t.X, a.Left+b.HalfWidth, a.Right-b.HalfWidth)
	}
	if a.Floor != 0 && t.Y+b.HalfHeight >= a.Floor {
		t.Y = a.Floor - b.HalfHeight
		if b.VY > 0 {
			b.VY = 0
		}
		b.Grounded = true
	}
}
