package system

import (
	"github.com/milk9111/duel/common"
	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
)

// TimelineSystem calls the attack and ultimate re-entry points at fixed
// offsets for combatants that carry a Timeline. Attack offsets are measured
// in world time; ultimate offsets in real time, because the world clock is
// stopped for the whole ultimate.
type TimelineSystem struct {
	controller *ControllerSystem
}

func NewTimelineSystem(controller *ControllerSystem) *TimelineSystem {
	return &TimelineSystem{controller: controller}
}

func (s *TimelineSystem) Update(w *ecs.World, f *Frame) {
	if w == nil || f == nil || s.controller == nil {
		return
	}
	for _, e := range w.Query(component.TimelineComponent.Kind(), component.ControllerComponent.Kind()) {
		tl, _ := ecs.Get(w, e, component.TimelineComponent.Kind())
		ctrl, _ := ecs.Get(w, e, component.ControllerComponent.Kind())

		if ctrl.Activations != tl.Activation {
			tl.Activation = ctrl.Activations
			tl.Elapsed = 0
		}

		switch ctrl.State {
		case component.StateAttacking:
			if f.FrozenFor(e) {
				continue
			}
			tl.Elapsed += f.Scaled()
			if tl.AttackImpact > 0 && !ctrl.AttackFired && common.Reached(tl.Elapsed, tl.AttackImpact) {
				s.controller.AttackDamageInstant(w, f, e)
			}
		case component.StateInUltimate:
			tl.Elapsed += f.Dt
			if tl.UltimateImpact > 0 && !ctrl.UltimateFired && common.Reached(tl.Elapsed, tl.UltimateImpact) {
				s.controller.UltimateDamageInstant(w, f, e)
			}
			if tl.UltimateFinish > 0 && common.Reached(tl.Elapsed, tl.UltimateFinish) {
				s.controller.UltimateFinish(w, f, e)
			}
		}
	}
}
