package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/duel/common"
	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
	"github.com/milk9111/duel/logging"
)

// ControllerSystem advances every combatant's action state machine and owns
// the re-entry points the presentation layer calls back into.
type ControllerSystem struct {
	resolver *CombatResolver
	spatial  *Spatial
}

func NewControllerSystem(resolver *CombatResolver, spatial *Spatial) *ControllerSystem {
	return &ControllerSystem{resolver: resolver, spatial: spatial}
}

// characterContext bundles one combatant's components for the states.
type characterContext struct {
	w *ecs.World
	f *Frame
	e ecs.Entity

	ctrl      *component.Controller
	intent    *component.Intent
	body      *component.Body
	transform *component.Transform
	cooldowns *component.Cooldowns
	fighter   *component.Fighter
	combatant *component.Combatant
	health    *component.Health
	profile   *component.AttackProfile
	signals   *component.Signals

	// next is the state being entered while Exit runs.
	next component.ActionState
}

func (s *ControllerSystem) context(w *ecs.World, f *Frame, e ecs.Entity) *characterContext {
	ctx := &characterContext{w: w, f: f, e: e}
	var ok bool
	if ctx.ctrl, ok = ecs.Get(w, e, component.ControllerComponent.Kind()); !ok {
		return nil
	}
	if ctx.intent, ok = ecs.Get(w, e, component.IntentComponent.Kind()); !ok {
		return nil
	}
	if ctx.body, ok = ecs.Get(w, e, component.BodyComponent.Kind()); !ok {
		return nil
	}
	if ctx.transform, ok = ecs.Get(w, e, component.TransformComponent.Kind()); !ok {
		return nil
	}
	if ctx.cooldowns, ok = ecs.Get(w, e, component.CooldownsComponent.Kind()); !ok {
		return nil
	}
	if ctx.fighter, ok = ecs.Get(w, e, component.FighterComponent.Kind()); !ok {
		return nil
	}
	if ctx.combatant, ok = ecs.Get(w, e, component.CombatantComponent.Kind()); !ok {
		return nil
	}
	ctx.health, _ = ecs.Get(w, e, component.HealthComponent.Kind())
	ctx.signals, _ = ecs.Get(w, e, component.SignalsComponent.Kind())
	ctx.profile, ok = ecs.Get(w, e, component.AttackProfileComponent.Kind())
	if !ok {
		ctx.profile = &component.AttackProfile{}
		_ = ecs.Add(w, e, component.AttackProfileComponent.Kind(), ctx.profile)
	}
	return ctx
}

func (s *ControllerSystem) Update(w *ecs.World, f *Frame) {
	if w == nil || f == nil {
		return
	}
	for _, e := range w.Query(component.ControllerComponent.Kind(), component.IntentComponent.Kind()) {
		ctx := s.context(w, f, e)
		if ctx == nil {
			continue
		}
		s.step(ctx)
	}
}

func (s *ControllerSystem) step(ctx *characterContext) {
	defer ctx.intent.ClearEdges()

	frozen := ctx.f.FrozenFor(ctx.e)
	if !frozen {
		ctx.cooldowns.Tick(ctx.f.Scaled())
	}
	if ctx.body.Landed {
		ctx.ctrl.JumpsLeft = ctx.fighter.ExtraJumps
	}

	state := ctx.ctrl.State
	if ctx.f.Gate.IsBlocking() {
		// A committed ultimate always runs to its finish.
		if state != component.StateInUltimate && state != component.StateLocked {
			ctx.changeState(charStateLocked)
		}
		stateFor(ctx.ctrl.State).Update(ctx)
		return
	}
	if frozen {
		return
	}
	if ctx.health != nil && !ctx.health.IsAlive() {
		if state != component.StateIdle && state != component.StateInUltimate {
			ctx.changeState(charStateIdle)
		}
		ctx.body.VX = 0
		return
	}

	stateFor(ctx.ctrl.State).HandleInput(ctx)
	stateFor(ctx.ctrl.State).Update(ctx)
}

func (ctx *characterContext) changeState(next characterState) {
	cur := stateFor(ctx.ctrl.State)
	ctx.next = next.Kind()
	cur.Exit(ctx)
	ctx.ctrl.State = next.Kind()
	next.Enter(ctx)
	logging.Debug("character state", logging.Fields{
		"entity": uint64(ctx.e),
		"from":   cur.Kind().String(),
		"to":     next.Kind().String(),
	})
}

// applyFacing flips facing toward a non-zero target delta, or else toward
// non-zero movement.
func (ctx *characterContext) applyFacing() {
	dx := ctx.intent.FaceX
	if dx == 0 {
		dx = ctx.intent.MoveX
	}
	if sign := common.Sign(dx); sign != 0 {
		ctx.transform.Facing = sign
	}
}

func (ctx *characterContext) jump() {
	switch {
	case ctx.body.Grounded:
		ctx.ctrl.JumpsLeft = ctx.fighter.ExtraJumps
	case ctx.ctrl.JumpsLeft > 0:
		ctx.ctrl.JumpsLeft--
	default:
		return
	}
	ctx.body.VY = -ctx.fighter.JumpSpeed
	ctx.body.Grounded = false
	ctx.signals.Emit(component.EdgeJumped)
}

func (ctx *characterContext) tryAttack() bool {
	if !ctx.body.Grounded || !ctx.cooldowns.Attack.Ready() {
		return false
	}
	kind := component.AttackNormal
	if ctx.intent.Crouch {
		kind = component.AttackCrouch
	}
	if ctx.profile.Spec(kind) == nil {
		ctx.reportGap(kind, "no attack origin configured")
		return false
	}
	ctx.ctrl.Attack = kind
	ctx.changeState(charStateAttacking)
	return true
}

func (ctx *characterContext) tryDash() bool {
	if !ctx.cooldowns.Dash.Ready() || ctx.fighter.DashDuration <= 0 {
		return false
	}
	ctx.changeState(charStateDashing)
	return true
}

func (ctx *characterContext) tryUltimate() bool {
	if !ctx.cooldowns.Ultimate.Ready() || !ctx.body.Grounded {
		return false
	}
	if ctx.profile.Spec(component.AttackUltimate) == nil {
		ctx.reportGap(component.AttackUltimate, "no ultimate origin configured")
		return false
	}
	// Rejected, never queued, while another combatant holds the clock.
	if !ctx.f.Clock.AcquireUltimate(uint64(ctx.e)) {
		return false
	}
	ctx.ctrl.Attack = component.AttackUltimate
	ctx.changeState(charStatePreparing)
	return true
}

func (ctx *characterContext) reportGap(kind component.AttackKind, reason string) {
	if !ctx.profile.MarkGapReported(kind) {
		return
	}
	logging.Warn("action disabled by configuration gap", logging.Fields{
		"entity": uint64(ctx.e),
		"name":   ctx.combatant.Name,
		"action": kind.String(),
		"reason": reason,
	})
	push(ctx.w, EventConfigGap, ConfigGapEvent{Entity: ctx.e, Action: kind.String(), Reason: reason})
}

// AttackDamageInstant is the attack's damage instant. It resolves at most
// once per attack; later calls, or calls outside an attack, do nothing.
func (s *ControllerSystem) AttackDamageInstant(w *ecs.World, f *Frame, e ecs.Entity) []HitEvent {
	ctx := s.context(w, f, e)
	if ctx == nil || ctx.ctrl.State != component.StateAttacking || ctx.ctrl.AttackFired {
		return nil
	}
	ctx.ctrl.AttackFired = true

	spec := ctx.profile.Spec(ctx.ctrl.Attack)
	if spec == nil {
		ctx.reportGap(ctx.ctrl.Attack, "no attack origin configured")
		return nil
	}
	x, y := spec.Origin(ctx.transform)
	return s.resolver.Resolve(w, e, cp.Vector{X: x, Y: y}, spec.Area, ctx.combatant.Opponents, spec.Damage, spec.BypassesInvulnerability)
}

// AttackEnd ends the current attack early.
func (s *ControllerSystem) AttackEnd(w *ecs.World, f *Frame, e ecs.Entity) bool {
	ctx := s.context(w, f, e)
	if ctx == nil || ctx.ctrl.State != component.StateAttacking {
		return false
	}
	ctx.changeState(charStateIdle)
	return true
}

// UltimateDamageInstant warps the combatant forward, clamped against
// terrain, and then resolves the ultimate hit. It fires once per activation.
func (s *ControllerSystem) UltimateDamageInstant(w *ecs.World, f *Frame, e ecs.Entity) []HitEvent {
	ctx := s.context(w, f, e)
	if ctx == nil || ctx.ctrl.State != component.StateInUltimate || ctx.ctrl.UltimateFired {
		return nil
	}
	ctx.ctrl.UltimateFired = true

	spec := ctx.profile.Spec(component.AttackUltimate)
	if spec == nil {
		ctx.reportGap(component.AttackUltimate, "no ultimate origin configured")
		return nil
	}

	if dist := ctx.fighter.WarpDistance; dist > 0 {
		facing := ctx.transform.FacingSign()
		allowed := s.spatial.Probe(ctx.transform.X, ctx.transform.Y, facing, dist,
			ctx.body.HalfWidth, ctx.body.HalfHeight, ctx.fighter.WarpSkin)
		ctx.transform.X += facing * allowed
	}

	ctx.signals.Emit(component.EdgeUltimateDamageInstant)
	push(w, EventUltimateDamageInstant, ActionEvent{Entity: e, Kind: component.AttackUltimate})

	x, y := spec.Origin(ctx.transform)
	return s.resolver.Resolve(w, e, cp.Vector{X: x, Y: y}, spec.Area, ctx.combatant.Opponents, spec.Damage, true)
}

// UltimateFinish ends the ultimate: the world clock resumes, the combatant
// returns to idle, and the ultimate cooldown restarts.
func (s *ControllerSystem) UltimateFinish(w *ecs.World, f *Frame, e ecs.Entity) bool {
	ctx := s.context(w, f, e)
	if ctx == nil || ctx.ctrl.State != component.StateInUltimate {
		return false
	}
	ctx.changeState(charStateIdle)
	return true
}

// ResetCharacter returns a combatant to its round-start state. Any ultimate
// lock it holds is released.
func ResetCharacter(w *ecs.World, f *Frame, e ecs.Entity) {
	ctrl, ok := ecs.Get(w, e, component.ControllerComponent.Kind())
	if !ok {
		return
	}
	f.Clock.ReleaseUltimate(uint64(e))

	fighter, _ := ecs.Get(w, e, component.FighterComponent.Kind())
	jumps := 0
	if fighter != nil {
		jumps = fighter.ExtraJumps
	}
	*ctrl = component.Controller{State: component.StateIdle, JumpsLeft: jumps, Activations: ctrl.Activations}

	if body, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
		body.VX, body.VY = 0, 0
		body.GravitySuspended = false
		body.Landed = false
	}
	if cds, ok := ecs.Get(w, e, component.CooldownsComponent.Kind()); ok {
		cds.Attack.Clear()
		cds.Dash.Clear()
		if fighter != nil && fighter.UltimateStartsReady {
			cds.Ultimate.Clear()
		} else {
			cds.Ultimate.Start()
		}
	}
	if intent, ok := ecs.Get(w, e, component.IntentComponent.Kind()); ok {
		intent.Clear()
	}
	if tl, ok := ecs.Get(w, e, component.TimelineComponent.Kind()); ok {
		tl.Elapsed = 0
	}
	if ai, ok := ecs.Get(w, e, component.AIComponent.Kind()); ok {
		ai.Engaged = false
	}
}

// ForceNeutral is the operator escape hatch: it drops the gate, resumes the
// world clock, and puts every combatant back in idle with all cooldowns
// cleared. It is never called automatically.
func ForceNeutral(w *ecs.World, f *Frame) {
	f.Gate.ForceRelease()
	f.Clock.Reset()
	ecs.ForEach(w, component.ControllerComponent.Kind(), func(e ecs.Entity, ctrl *component.Controller) {
		ctrl.State = component.StateIdle
		ctrl.AttackRemaining = 0
		ctrl.AttackFired = false
		ctrl.DashRemaining = 0
		ctrl.PrepareTicks = 0
		ctrl.UltimateFired = false
		if cds, ok := ecs.Get(w, e, component.CooldownsComponent.Kind()); ok {
			cds.Attack.Clear()
			cds.Dash.Clear()
			cds.Ultimate.Clear()
		}
		if body, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
			body.VX = 0
			body.GravitySuspended = false
		}
	})
	push(w, EventManualReset, nil)
	logging.Warn("manual reset forced all combat state to neutral", nil)
}
