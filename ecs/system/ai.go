package system

import (
	"math"

	"github.com/milk9111/duel/common"
	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
	"github.com/milk9111/duel/logging"
)

// ScriptLoader returns the source of a named AI script.
type ScriptLoader func(name string) ([]byte, error)

// AISystem drives every non-player combatant through its Actor. The policy
// is stateless apart from the engagement flag; a tengo script may replace
// it per combatant.
type AISystem struct {
	loadScript  ScriptLoader
	scripts     map[ecs.Entity]*aiScriptRuntime
	scriptFails map[ecs.Entity]bool
}

func NewAISystem(loader ScriptLoader) *AISystem {
	return &AISystem{
		loadScript:  loader,
		scripts:     map[ecs.Entity]*aiScriptRuntime{},
		scriptFails: map[ecs.Entity]bool{},
	}
}

// aiPerception is everything a policy may look at in one tick.
type aiPerception struct {
	HasTarget bool
	Target    ecs.Entity
	Distance  float64
	DX        float64
	DY        float64

	DetectRange    float64
	AttackRange    float64
	DashMultiplier float64

	AttackReady   bool
	DashReady     bool
	UltimateReady bool
	Grounded      bool
	Engaged       bool
	State         component.ActionState
}

func (s *AISystem) Update(w *ecs.World, f *Frame) {
	if w == nil || f == nil || f.Gate.IsBlocking() {
		return
	}
	for _, e := range w.Query(
		component.AIComponent.Kind(),
		component.CombatantComponent.Kind(),
		component.TransformComponent.Kind(),
		component.IntentComponent.Kind(),
	) {
		if ecs.Has(w, e, component.PlayerControlledComponent.Kind()) || f.FrozenFor(e) {
			continue
		}
		ai, _ := ecs.Get(w, e, component.AIComponent.Kind())
		actor := NewActor(w, e)

		p := perceive(w, f, e, ai)
		wasEngaged := ai.Engaged
		ai.Engaged = p.HasTarget && p.Distance <= p.DetectRange
		p.Engaged = ai.Engaged
		if ai.Engaged && !wasEngaged {
			requestTimerStart(w, f, e)
		}

		if ai.Script != "" && !s.scriptFails[e] {
			if err := s.runScript(w, e, ai.Script, actor, p); err == nil {
				continue
			} else {
				s.scriptFails[e] = true
				logging.Error("ai script failed, falling back to built-in policy", err, logging.Fields{
					"entity": uint64(e),
					"script": ai.Script,
				})
			}
		}
		decide(actor, p)
	}
}

// decide is the built-in policy.
func decide(actor Actor, p aiPerception) {
	if !p.HasTarget || p.Distance > p.DetectRange {
		actor.Move(0)
		actor.Face(0)
		return
	}

	actor.Face(p.DX)
	if p.UltimateReady && p.Grounded && math.Abs(p.DX) <= p.DetectRange {
		actor.Move(0)
		actor.Ultimate()
		return
	}
	if p.Distance > p.AttackRange {
		actor.Move(common.Sign(p.DX))
		if p.DashMultiplier > 0 && p.Distance > p.AttackRange*p.DashMultiplier && p.DashReady {
			actor.Dash()
		}
		return
	}
	actor.Move(0)
	actor.Attack()
}

func requestTimerStart(w *ecs.World, f *Frame, e ecs.Entity) {
	if !f.Gate.RequestStart(f.Countdown, f.Session) {
		return
	}
	push(w, EventTimerStartRequested, e)
	logging.Info("round timer start requested", logging.Fields{"entity": uint64(e)})
}

func perceive(w *ecs.World, f *Frame, e ecs.Entity, ai *component.AI) aiPerception {
	p := aiPerception{
		DetectRange:    ai.DetectRange,
		AttackRange:    ai.AttackRange,
		DashMultiplier: ai.DashRangeMultiplier,
		Engaged:        ai.Engaged,
	}
	self, _ := ecs.Get(w, e, component.CombatantComponent.Kind())
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())

	if ctrl, ok := ecs.Get(w, e, component.ControllerComponent.Kind()); ok {
		p.State = ctrl.State
	}
	if body, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
		p.Grounded = body.Grounded
	}
	profile, _ := ecs.Get(w, e, component.AttackProfileComponent.Kind())
	if cds, ok := ecs.Get(w, e, component.CooldownsComponent.Kind()); ok {
		_, locked := f.Clock.Holder()
		p.AttackReady = cds.Attack.Ready()
		p.DashReady = cds.Dash.Ready()
		p.UltimateReady = cds.Ultimate.Ready() && profile.Spec(component.AttackUltimate) != nil && !locked
	}

	ox, oy := tr.X, tr.Y
	if spec := profile.Spec(component.AttackNormal); spec != nil {
		ox, oy = spec.Origin(tr)
	}

	best := math.Inf(1)
	ecs.ForEach2(w, component.CombatantComponent.Kind(), component.TransformComponent.Kind(),
		func(other ecs.Entity, c *component.Combatant, otr *component.Transform) {
			if other == e || c.Faction&self.Opponents == 0 {
				return
			}
			if h, ok := ecs.Get(w, other, component.HealthComponent.Kind()); ok && !h.IsAlive() {
				return
			}
			d := math.Hypot(otr.X-ox, otr.Y-oy)
			if d < best {
				best = d
				p.HasTarget = true
				p.Target = other
				p.Distance = d
				p.DX = otr.X - tr.X
				p.DY = otr.Y - tr.Y
			}
		})
	return p
}
