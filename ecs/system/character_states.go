package system

import (
	"github.com/milk9111/duel/common"
	"github.com/milk9111/duel/ecs/component"
	"github.com/milk9111/duel/logging"
)

// characterState is one node of the combatant state machine.
type characterState interface {
	Kind() component.ActionState
	Enter(ctx *characterContext)
	Exit(ctx *characterContext)
	HandleInput(ctx *characterContext)
	Update(ctx *characterContext)
}

// Character state singletons (avoid allocations on transitions).
var (
	charStateIdle      characterState = &idleState{}
	charStateMoving    characterState = &movingState{}
	charStateCrouching characterState = &crouchingState{}
	charStateAttacking characterState = &attackingState{}
	charStateDashing   characterState = &dashingState{}
	charStatePreparing characterState = &preparingUltimateState{}
	charStateUltimate  characterState = &inUltimateState{}
	charStateLocked    characterState = &lockedState{}
)

func stateFor(s component.ActionState) characterState {
	switch s {
	case component.StateMoving:
		return charStateMoving
	case component.StateCrouching:
		return charStateCrouching
	case component.StateAttacking:
		return charStateAttacking
	case component.StateDashing:
		return charStateDashing
	case component.StatePreparingUltimate:
		return charStatePreparing
	case component.StateInUltimate:
		return charStateUltimate
	case component.StateLocked:
		return charStateLocked
	}
	return charStateIdle
}

type idleState struct{}

type movingState struct{}

type crouchingState struct{}

type attackingState struct{}

type dashingState struct{}

type preparingUltimateState struct{}

type inUltimateState struct{}

type lockedState struct{}

// neutralInput is shared by idle, moving, and crouching: abilities first,
// then jump, then plain locomotion.
func neutralInput(ctx *characterContext) {
	ctx.applyFacing()

	in := ctx.intent
	if in.Ultimate && ctx.tryUltimate() {
		return
	}
	if in.Attack && ctx.tryAttack() {
		return
	}
	if in.Dash && ctx.tryDash() {
		return
	}

	crouch := in.Crouch && ctx.body.Grounded
	if in.Jump && !crouch {
		ctx.jump()
	}

	next := charStateIdle
	switch {
	case crouch:
		next = charStateCrouching
	case in.MoveX != 0:
		next = charStateMoving
	}
	if next.Kind() != ctx.ctrl.State {
		ctx.changeState(next)
	}
}

func (idleState) Kind() component.ActionState         { return component.StateIdle }
func (idleState) Enter(ctx *characterContext)         {}
func (idleState) Exit(ctx *characterContext)          {}
func (idleState) HandleInput(ctx *characterContext)   { neutralInput(ctx) }
func (idleState) Update(ctx *characterContext)        { ctx.body.VX = 0 }
func (movingState) Kind() component.ActionState       { return component.StateMoving }
func (movingState) Enter(ctx *characterContext)       {}
func (movingState) Exit(ctx *characterContext)        {}
func (movingState) HandleInput(ctx *characterContext) { neutralInput(ctx) }
func (movingState) Update(ctx *characterContext) {
	ctx.body.VX = ctx.intent.MoveX * ctx.fighter.MoveSpeed
}

func (crouchingState) Kind() component.ActionState       { return component.StateCrouching }
func (crouchingState) Enter(ctx *characterContext)       { ctx.body.VX = 0 }
func (crouchingState) Exit(ctx *characterContext)        {}
func (crouchingState) HandleInput(ctx *characterContext) { neutralInput(ctx) }
func (crouchingState) Update(ctx *characterContext)      { ctx.body.VX = 0 }

func (attackingState) Kind() component.ActionState { return component.StateAttacking }
func (attackingState) Enter(ctx *characterContext) {
	ctx.body.VX = 0
	ctx.cooldowns.Attack.Start()
	ctx.ctrl.AttackRemaining = ctx.fighter.AttackDuration
	ctx.ctrl.AttackFired = false
	ctx.ctrl.Activations++
	push(ctx.w, EventAttackStarted, ActionEvent{Entity: ctx.e, Kind: ctx.ctrl.Attack})
}
func (attackingState) Exit(ctx *characterContext) {
	ctx.ctrl.AttackRemaining = 0
}
func (attackingState) HandleInput(ctx *characterContext) {}
func (attackingState) Update(ctx *characterContext) {
	ctx.body.VX = 0
	var done bool
	if ctx.ctrl.AttackRemaining, done = common.CountDown(ctx.ctrl.AttackRemaining, ctx.f.Scaled()); done {
		ctx.changeState(charStateIdle)
	}
}

func (dashingState) Kind() component.ActionState { return component.StateDashing }
func (dashingState) Enter(ctx *characterContext) {
	ctx.ctrl.DashRemaining = ctx.fighter.DashDuration
	ctx.ctrl.Activations++
	ctx.body.GravitySuspended = true
	if ctx.fighter.DashFlatten {
		ctx.body.VY = 0
	}
	ctx.body.VX = ctx.transform.FacingSign() * ctx.fighter.DashPower
	push(ctx.w, EventDashStarted, ActionEvent{Entity: ctx.e})
}
func (dashingState) Exit(ctx *characterContext) {
	ctx.ctrl.DashRemaining = 0
	ctx.body.GravitySuspended = false
	ctx.body.VX = 0
	// The cooldown runs from the end of the dash, however it ended.
	ctx.cooldowns.Dash.Start()
}
func (dashingState) HandleInput(ctx *characterContext) {}
func (dashingState) Update(ctx *characterContext) {
	// Landing ends the dash, but not on the tick it started.
	if ctx.body.Landed && ctx.ctrl.DashRemaining < ctx.fighter.DashDuration {
		ctx.changeState(charStateIdle)
		return
	}
	ctx.body.VX = ctx.transform.FacingSign() * ctx.fighter.DashPower
	var done bool
	if ctx.ctrl.DashRemaining, done = common.CountDown(ctx.ctrl.DashRemaining, ctx.f.Scaled()); done {
		ctx.changeState(charStateIdle)
	}
}

func (preparingUltimateState) Kind() component.ActionState {
	return component.StatePreparingUltimate
}
func (preparingUltimateState) Enter(ctx *characterContext) {
	ctx.body.VX = 0
	ctx.ctrl.PrepareTicks = 0
	ctx.ctrl.UltimateFired = false
	ctx.ctrl.Activations++
}
func (preparingUltimateState) Exit(ctx *characterContext) {
	ctx.ctrl.PrepareTicks = 0
	if ctx.next != component.StateInUltimate {
		// Not committed yet: give the lock back.
		ctx.f.Clock.ReleaseUltimate(uint64(ctx.e))
	}
}
func (preparingUltimateState) HandleInput(ctx *characterContext) {}
func (preparingUltimateState) Update(ctx *characterContext) {
	ctx.body.VX = 0
	ctx.intent.MoveX = 0
	ctx.ctrl.PrepareTicks++
	if ctx.ctrl.PrepareTicks > 1 {
		ctx.changeState(charStateUltimate)
	}
}

func (inUltimateState) Kind() component.ActionState { return component.StateInUltimate }
func (inUltimateState) Enter(ctx *characterContext) {
	ctx.body.VX = 0
	ctx.f.Clock.Freeze(uint64(ctx.e))
	ctx.signals.Emit(component.EdgeUltimateStarted)
	push(ctx.w, EventUltimateStarted, ActionEvent{Entity: ctx.e, Kind: component.AttackUltimate})
	logging.Info("ultimate started", logging.Fields{"entity": uint64(ctx.e), "name": ctx.combatant.Name})
}
func (inUltimateState) Exit(ctx *characterContext) {
	ctx.f.Clock.ReleaseUltimate(uint64(ctx.e))
	ctx.cooldowns.Ultimate.Start()
	ctx.signals.Emit(component.EdgeUltimateFinished)
	push(ctx.w, EventUltimateFinished, ActionEvent{Entity: ctx.e, Kind: component.AttackUltimate})
	logging.Info("ultimate finished", logging.Fields{"entity": uint64(ctx.e), "name": ctx.combatant.Name})
}
func (inUltimateState) HandleInput(ctx *characterContext) {}
func (inUltimateState) Update(ctx *characterContext)      { ctx.body.VX = 0 }

func (lockedState) Kind() component.ActionState { return component.StateLocked }
func (lockedState) Enter(ctx *characterContext) { ctx.body.VX = 0 }
func (lockedState) Exit(ctx *characterContext)  {}
func (lockedState) HandleInput(ctx *characterContext) {
	if !ctx.f.Gate.IsBlocking() {
		ctx.changeState(charStateIdle)
	}
}
func (lockedState) Update(ctx *characterContext) { ctx.body.VX = 0 }
