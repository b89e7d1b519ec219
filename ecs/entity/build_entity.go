package entity

import (
	"fmt"
	"sort"

	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
	"github.com/milk9111/duel/prefabs"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

type buildContext struct {
	PrefabPath string
	Name       string
}

// componentBuildFn adds the component, or retunes it in place when the
// entity already has one. Runtime state is never reset by a retune.
type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"combatant":         addCombatant,
	"player_controlled": addPlayerControlled,
	"appearance":        addAppearance,
	"health":            addHealth,
	"body":              addBody,
	"fighter":           addFighter,
	"cooldowns":         addCooldowns,
	"attack_profile":    addAttackProfile,
	"timeline":          addTimeline,
	"ai":                addAI,
}

var componentBuildOrder = []string{
	"combatant",
	"player_controlled",
	"appearance",
	"health",
	"body",
	"fighter",
	"cooldowns",
	"attack_profile",
	"timeline",
	"ai",
}

func loadPrefab(prefabPath string) (entityPrefabSpec, error) {
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return spec, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return spec, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}
	return spec, nil
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := loadPrefab(prefabPath)
	if err != nil {
		return 0, err
	}

	e := ecs.CreateEntity(w)
	if err := applyComponents(w, e, spec, prefabPath); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

// ApplyTuning re-reads a prefab and retunes a live entity built from it.
func ApplyTuning(w *ecs.World, e ecs.Entity, prefabPath string) error {
	if w == nil || !ecs.IsAlive(w, e) {
		return fmt.Errorf("apply tuning %q: %w", prefabPath, component.ErrEntityNotAlive)
	}
	spec, err := loadPrefab(prefabPath)
	if err != nil {
		return err
	}
	return applyComponents(w, e, spec, prefabPath)
}

func applyComponents(w *ecs.World, e ecs.Entity, spec entityPrefabSpec, prefabPath string) error {
	ctx := &buildContext{PrefabPath: prefabPath, Name: spec.Name}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			return fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, names[0])
	}
	return nil
}
