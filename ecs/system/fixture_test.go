package system

import (
	"testing"

	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
	"github.com/milk9111/duel/timing"
	"github.com/stretchr/testify/require"
)

const testDt = 1.0 / 60.0

func newTestFrame() *Frame {
	return &Frame{
		Dt:        testDt,
		Gate:      timing.NewCountdownGate(),
		Clock:     timing.NewWorldClock(),
		Countdown: 3,
		Session:   120,
	}
}

func opponentOf(f component.Faction) component.Faction {
	if f == component.FactionPlayer {
		return component.FactionEnemy
	}
	return component.FactionPlayer
}

// addCombatant creates a grounded combatant at x with a close-range normal
// attack and a wide box ultimate.
func addCombatant(t *testing.T, w *ecs.World, name string, faction component.Faction, x float64) ecs.Entity {
	t.Helper()

	e := ecs.CreateEntity(w)
	add := func(err error) {
		t.Helper()
		require.NoError(t, err)
	}
	add(ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: 100, Z: 3, Facing: 1}))
	add(ecs.Add(w, e, component.SpawnComponent.Kind(), &component.Spawn{X: x, Y: 100, Facing: 1}))
	add(ecs.Add(w, e, component.CombatantComponent.Kind(), &component.Combatant{Name: name, Faction: faction, Opponents: opponentOf(faction)}))
	add(ecs.Add(w, e, component.HealthComponent.Kind(), component.NewHealth(100, 0.5)))
	add(ecs.Add(w, e, component.WhiteFlashComponent.Kind(), component.NewWhiteFlash(0.5, 5)))
	add(ecs.Add(w, e, component.CooldownsComponent.Kind(), &component.Cooldowns{
		Attack:   component.Cooldown{Duration: 0.3},
		Dash:     component.Cooldown{Duration: 1},
		Ultimate: component.Cooldown{Duration: 8},
	}))
	add(ecs.Add(w, e, component.ControllerComponent.Kind(), &component.Controller{JumpsLeft: 1}))
	add(ecs.Add(w, e, component.IntentComponent.Kind(), &component.Intent{}))
	add(ecs.Add(w, e, component.FighterComponent.Kind(), &component.Fighter{
		MoveSpeed:      200,
		JumpSpeed:      400,
		ExtraJumps:     1,
		AttackDuration: 0.4,
		DashPower:      600,
		DashDuration:   0.2,
		WarpDistance:   120,
		WarpSkin:       2,
	}))
	add(ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{HalfWidth: 10, HalfHeight: 20, GravityScale: 1, Grounded: true}))
	add(ecs.Add(w, e, component.AttackProfileComponent.Kind(), &component.AttackProfile{
		Normal: &component.AttackSpec{
			OffsetX: 20,
			Area:    component.Area{Shape: component.ShapeCircle, Radius: 15},
			Damage:  10,
		},
		Ultimate: &component.AttackSpec{
			OffsetX: 20,
			Area:    component.Area{Shape: component.ShapeBox, Width: 200, Height: 60},
			Damage:  40,
		},
	}))
	add(ecs.Add(w, e, component.SignalsComponent.Kind(), &component.Signals{}))
	return e
}

func mustGet[T any](t *testing.T, w *ecs.World, e ecs.Entity, kind component.ComponentKind[T]) *T {
	t.Helper()
	v, ok := ecs.Get(w, e, kind)
	require.True(t, ok)
	return v
}

func newController() (*ControllerSystem, *Spatial) {
	spatial := NewSpatial()
	return NewControllerSystem(NewCombatResolver(spatial), spatial), spatial
}
