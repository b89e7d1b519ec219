package system

import (
	"testing"

	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateSystemReportsReleaseOnce(t *testing.T) {
	w := ecs.NewWorld()
	f := newTestFrame()
	f.Gate.Restart(0.05, 120)
	gate := NewGateSystem()

	for i := 0; i < 10; i++ {
		gate.Update(w, f)
	}
	assert.False(t, f.Gate.IsBlocking())
	assert.Len(t, ecs.Select(w.Events().Drain(), EventGateReleased), 1)
}

func TestPhysicsLandsOnObstacle(t *testing.T) {
	w := ecs.NewWorld()
	f := newTestFrame()
	spatial := NewSpatial()
	spatial.AddObstacle(0, 200, 1000, 220)
	physics := NewPhysicsSystem(spatial, Arena{Gravity: 1000, MaxFall: 600})

	e := addCombatant(t, w, "hero", component.FactionPlayer, 100)
	body := mustGet(t, w, e, component.BodyComponent.Kind())
	tr := mustGet(t, w, e, component.TransformComponent.Kind())
	body.Grounded = false
	tr.Y = 150

	landings := 0
	for i := 0; i < 120; i++ {
		physics.Update(w, f)
		if body.Landed {
			landings++
		}
	}
	assert.Equal(t, 1, landings)
	assert.True(t, body.Grounded)
	assert.InDelta(t, 180.0, tr.Y, 1e-6)
	assert.Zero(t, body.VY)
}

func TestPhysicsStopsAtWall(t *testing.T) {
	w := ecs.NewWorld()
	f := newTestFrame()
	spatial := NewSpatial()
	spatial.AddObstacle(300, 0, 320, 200)
	physics := NewPhysicsSystem(spatial, Arena{})

	e := addCombatant(t, w, "hero", component.FactionPlayer, 250)
	mustGet(t, w, e, component.BodyComponent.Kind()).VX = 6000

	physics.Update(w, f)
	assert.InDelta(t, 290.0, mustGet(t, w, e, component.TransformComponent.Kind()).X, 1e-6)
}

func TestPhysicsArenaBounds(t *testing.T) {
	w := ecs.NewWorld()
	f := newTestFrame()
	physics := NewPhysicsSystem(NewSpatial(), Arena{Left: 0, Right: 500, Floor: 300, Gravity: 1000})

	e := addCombatant(t, w, "hero", component.FactionPlayer, 495)
	body := mustGet(t, w, e, component.BodyComponent.Kind())
	tr := mustGet(t, w, e, component.TransformComponent.Kind())
	body.Grounded = false
	tr.Y = 290

	physics.Update(w, f)
	assert.Equal(t, 490.0, tr.X)
	assert.Equal(t, 280.0, tr.Y)
	assert.True(t, body.Grounded)
	assert.True(t, body.Landed)
}

func TestPhysicsFrozenWorldDoesNotMove(t *testing.T) {
	w := ecs.NewWorld()
	f := newTestFrame()
	physics := NewPhysicsSystem(NewSpatial(), Arena{Gravity: 1000})
	e := addCombatant(t, w, "hero", component.FactionPlayer, 100)
	body := mustGet(t, w, e, component.BodyComponent.Kind())
	body.VX, body.Landed = 100, true

	require.True(t, f.Clock.AcquireUltimate(uint64(e)))
	require.True(t, f.Clock.Freeze(uint64(e)))
	physics.Update(w, f)

	assert.Equal(t, 100.0, mustGet(t, w, e, component.TransformComponent.Kind()).X)
	assert.False(t, body.Landed)
}

func TestHealthSystemClosesWindowAndFlickers(t *testing.T) {
	w := ecs.NewWorld()
	f := newTestFrame()
	healthSys := NewHealthSystem()
	e := addCombatant(t, w, "hero", component.FactionPlayer, 100)
	h := mustGet(t, w, e, component.HealthComponent.Kind())
	wf := mustGet(t, w, e, component.WhiteFlashComponent.Kind())

	require.Equal(t, component.DamageApplied, h.TakeDamage(10, false))

	var lit, dark int
	for i := 0; i < 45; i++ {
		healthSys.Update(w, f)
		if !h.Invulnerable {
			break
		}
		if wf.On {
			lit++
		} else {
			dark++
		}
	}
	assert.False(t, h.Invulnerable)
	assert.False(t, wf.On)
	assert.Positive(t, lit)
	assert.Positive(t, dark)

	assert.Equal(t, component.DamageApplied, h.TakeDamage(10, false))
	assert.Equal(t, 80.0, h.Current)
}

func TestTimelineDrivesAttackImpact(t *testing.T) {
	w := ecs.NewWorld()
	f := newTestFrame()
	ctrl, _ := newController()
	sched := NewScheduler(ctrl, NewTimelineSystem(ctrl))

	hero := addCombatant(t, w, "hero", component.FactionPlayer, 100)
	target := addCombatant(t, w, "target", component.FactionEnemy, 130)
	require.NoError(t, ecs.Add(w, hero, component.TimelineComponent.Kind(), &component.Timeline{AttackImpact: 0.1}))

	NewActor(w, hero).Attack()
	for i := 0; i < 20; i++ {
		sched.Update(w, f)
	}
	assert.Equal(t, 90.0, mustGet(t, w, target, component.HealthComponent.Kind()).Current)
	assert.Len(t, ecs.Select(w.Events().Drain(), EventHit), 1)
}

func TestTimelineRunsUltimateOnRealTime(t *testing.T) {
	w := ecs.NewWorld()
	f := newTestFrame()
	ctrl, _ := newController()
	sched := NewScheduler(ctrl, NewTimelineSystem(ctrl))

	hero := addCombatant(t, w, "hero", component.FactionPlayer, 100)
	rival := addCombatant(t, w, "rival", component.FactionEnemy, 160)
	require.NoError(t, ecs.Add(w, hero, component.TimelineComponent.Kind(), &component.Timeline{UltimateImpact: 0.3, UltimateFinish: 0.6}))

	NewActor(w, hero).Ultimate()
	sched.Update(w, f)
	sched.Update(w, f)
	require.Equal(t, component.StateInUltimate, NewActor(w, hero).State())

	for i := 0; i < 60 && NewActor(w, hero).State() == component.StateInUltimate; i++ {
		sched.Update(w, f)
	}
	assert.Equal(t, component.StateIdle, NewActor(w, hero).State())
	assert.Equal(t, 60.0, mustGet(t, w, rival, component.HealthComponent.Kind()).Current)
	assert.Equal(t, 1.0, f.Clock.Scale())
}

func TestSignalsPublishFlagsAndEdges(t *testing.T) {
	w := ecs.NewWorld()
	f := newTestFrame()
	ctrl, _ := newController()
	sched := NewScheduler(ctrl, NewSignalSystem())
	hero := addCombatant(t, w, "hero", component.FactionPlayer, 100)
	sig := mustGet(t, w, hero, component.SignalsComponent.Kind())

	NewActor(w, hero).Move(1)
	sched.Update(w, f)
	assert.True(t, sig.Running)
	assert.True(t, sig.Grounded)
	assert.Equal(t, component.StateMoving, sig.State)

	NewActor(w, hero).Jump()
	sched.Update(w, f)
	assert.True(t, sig.Has(component.EdgeJumped))
	assert.False(t, sig.Running)
	assert.Equal(t, []string{"jumped"}, sig.Edges.Names())

	sched.Update(w, f)
	assert.False(t, sig.Has(component.EdgeJumped))
}

func TestSignalsCarryCallbackEdgesToNextStep(t *testing.T) {
	w := ecs.NewWorld()
	f := newTestFrame()
	ctrl, _ := newController()
	sched := NewScheduler(ctrl, NewSignalSystem())
	hero := addCombatant(t, w, "hero", component.FactionPlayer, 100)
	target := addCombatant(t, w, "target", component.FactionEnemy, 130)

	NewActor(w, hero).Attack()
	sched.Update(w, f)
	ctrl.AttackDamageInstant(w, f, hero)

	sig := mustGet(t, w, target, component.SignalsComponent.Kind())
	assert.False(t, sig.Has(component.EdgeHurt))
	sched.Update(w, f)
	assert.True(t, sig.Has(component.EdgeHurt))
}
