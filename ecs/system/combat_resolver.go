package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
	"github.com/milk9111/duel/logging"
)

// CombatResolver turns an attack into health changes. It has no timing of
// its own; controllers decide when to call Resolve.
type CombatResolver struct {
	spatial *Spatial
}

func NewCombatResolver(spatial *Spatial) *CombatResolver {
	return &CombatResolver{spatial: spatial}
}

// Resolve damages every combatant in filter overlapping area at origin.
// Each target is struck at most once per call, and the attacker never hits
// itself.
func (r *CombatResolver) Resolve(w *ecs.World, attacker ecs.Entity, origin cp.Vector, area component.Area, filter component.Faction, damage float64, bypassesInvulnerability bool) []HitEvent {
	if r == nil || w == nil {
		return nil
	}

	targets := r.spatial.Query(w, area, origin, filter)
	hits := make([]HitEvent, 0, len(targets))
	for _, target := range targets {
		if target == attacker {
			continue
		}
		hits = append(hits, ApplyHit(w, HitEvent{
			Attacker:                attacker,
			Target:                  target,
			Amount:                  damage,
			BypassesInvulnerability: bypassesInvulnerability,
		}))
	}
	return hits
}

// ApplyHit hands one hit to the target's health and raises the matching
// presentation signals.
func ApplyHit(w *ecs.World, hit HitEvent) HitEvent {
	health, ok := ecs.Get(w, hit.Target, component.HealthComponent.Kind())
	if !ok {
		return hit
	}
	hit.Outcome = health.TakeDamage(hit.Amount, hit.BypassesInvulnerability)
	push(w, EventHit, hit)

	signals, _ := ecs.Get(w, hit.Target, component.SignalsComponent.Kind())
	switch hit.Outcome {
	case component.DamageApplied:
		signals.Emit(component.EdgeHurt)
		push(w, EventHurt, hit)
	case component.DamageKilled:
		signals.Emit(component.EdgeDied)
		push(w, EventDied, hit)
		logging.Info("combatant died", logging.Fields{
			"entity":   uint64(hit.Target),
			"attacker": uint64(hit.Attacker),
			"amount":   hit.Amount,
		})
	}
	return hit
}
