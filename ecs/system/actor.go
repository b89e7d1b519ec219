package system

import (
	"github.com/milk9111/duel/common"
	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
)

// Actor is the capability set a combatant exposes to whatever drives it.
// Human input and the AI policy both go through it; neither touches the
// state machine directly.
type Actor interface {
	Move(axis float64)
	Face(dx float64)
	Jump()
	Crouch(held bool)
	Attack()
	Dash()
	Ultimate()
	State() component.ActionState
}

// ActorHandle writes intents for one combatant entity.
type ActorHandle struct {
	w *ecs.World
	e ecs.Entity
}

func NewActor(w *ecs.World, e ecs.Entity) ActorHandle {
	return ActorHandle{w: w, e: e}
}

func (a ActorHandle) Entity() ecs.Entity { return a.e }

func (a ActorHandle) intent() *component.Intent {
	in, _ := ecs.Get(a.w, a.e, component.IntentComponent.Kind())
	return in
}

// Move sets the horizontal axis, clamped to [-1, 1].
func (a ActorHandle) Move(axis float64) {
	if in := a.intent(); in != nil {
		in.MoveX = common.Clamp(axis, -1, 1)
	}
}

// Face requests facing toward a horizontal delta. Zero leaves facing alone.
func (a ActorHandle) Face(dx float64) {
	if in := a.intent(); in != nil {
		in.FaceX = dx
	}
}

func (a ActorHandle) Jump() {
	if in := a.intent(); in != nil {
		in.Jump = true
	}
}

func (a ActorHandle) Crouch(held bool) {
	if in := a.intent(); in != nil {
		in.Crouch = held
	}
}

func (a ActorHandle) Attack() {
	if in := a.intent(); in != nil {
		in.Attack = true
	}
}

func (a ActorHandle) Dash() {
	if in := a.intent(); in != nil {
		in.Dash = true
	}
}

func (a ActorHandle) Ultimate() {
	if in := a.intent(); in != nil {
		in.Ultimate = true
	}
}

func (a ActorHandle) State() component.ActionState {
	if ctrl, ok := ecs.Get(a.w, a.e, component.ControllerComponent.Kind()); ok {
		return ctrl.State
	}
	return component.StateIdle
}
