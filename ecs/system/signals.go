package system

import (
	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
)

// SignalSystem runs last and publishes what the presentation layer reads.
type SignalSystem struct{}

func NewSignalSystem() *SignalSystem { return &SignalSystem{} }

func (s *SignalSystem) Update(w *ecs.World, f *Frame) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.SignalsComponent.Kind(), func(e ecs.Entity, sig *component.Signals) {
		if ctrl, ok := ecs.Get(w, e, component.ControllerComponent.Kind()); ok {
			sig.State = ctrl.State
			sig.Crouching = ctrl.State == component.StateCrouching
			sig.Attacking = ctrl.State == component.StateAttacking
		}
		if body, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
			sig.Grounded = body.Grounded
			sig.YVelocity = body.VY
			sig.Running = body.Grounded && body.VX != 0 && sig.State == component.StateMoving
		}
		if wf, ok := ecs.Get(w, e, component.WhiteFlashComponent.Kind()); ok {
			sig.Flash = wf.On
		}
		sig.Publish()
	})
}
