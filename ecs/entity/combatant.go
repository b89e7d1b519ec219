package entity

import (
	"fmt"

	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
)

// BuildCombatant builds a combatant prefab and places it at spawn with the
// runtime components every combatant needs.
func BuildCombatant(w *ecs.World, prefabPath string, spawn component.Spawn) (ecs.Entity, error) {
	e, err := BuildEntity(w, prefabPath)
	if err != nil {
		return 0, err
	}
	if err := initCombatant(w, e, spawn); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build combatant %q: %w", prefabPath, err)
	}
	return e, nil
}

func initCombatant(w *ecs.World, e ecs.Entity, spawn component.Spawn) error {
	if !ecs.Has(w, e, component.CombatantComponent.Kind()) {
		return fmt.Errorf("prefab does not define a combatant")
	}
	if spawn.Facing == 0 {
		spawn.Facing = 1
	}

	fighter, ok := ecs.Get(w, e, component.FighterComponent.Kind())
	if !ok {
		fighter = &component.Fighter{}
		if err := ecs.Add(w, e, component.FighterComponent.Kind(), fighter); err != nil {
			return err
		}
	}
	if !ecs.Has(w, e, component.BodyComponent.Kind()) {
		if err := ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{HalfWidth: 14, HalfHeight: 28, GravityScale: 1}); err != nil {
			return err
		}
	}
	cds, ok := ecs.Get(w, e, component.CooldownsComponent.Kind())
	if !ok {
		cds = &component.Cooldowns{}
		if err := ecs.Add(w, e, component.CooldownsComponent.Kind(), cds); err != nil {
			return err
		}
	}
	if !fighter.UltimateStartsReady {
		cds.Ultimate.Start()
	}

	sp := spawn
	adds := []error{
		ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: spawn.X, Y: spawn.Y, Facing: spawn.Facing}),
		ecs.Add(w, e, component.SpawnComponent.Kind(), &sp),
		ecs.Add(w, e, component.ControllerComponent.Kind(), &component.Controller{JumpsLeft: fighter.ExtraJumps}),
		ecs.Add(w, e, component.IntentComponent.Kind(), &component.Intent{}),
		ecs.Add(w, e, component.SignalsComponent.Kind(), &component.Signals{}),
	}
	for _, err := range adds {
		if err != nil {
			return err
		}
	}
	return nil
}
