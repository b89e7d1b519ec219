package system

import (
	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
)

// HealthSystem closes invulnerability windows and drives the flicker shown
// while they are open.
type HealthSystem struct{}

func NewHealthSystem() *HealthSystem { return &HealthSystem{} }

func (s *HealthSystem) Update(w *ecs.World, f *Frame) {
	if w == nil || f == nil {
		return
	}
	dt := f.Scaled()
	ecs.ForEach(w, component.HealthComponent.Kind(), func(e ecs.Entity, h *component.Health) {
		if f.FrozenFor(e) {
			return
		}
		h.TickInvulnerability(dt)
		if wf, ok := ecs.Get(w, e, component.WhiteFlashComponent.Kind()); ok {
			wf.Tick(h.Invulnerable, dt)
		}
	})
}
