package system

import (
	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
)

// Event types pushed to the world event queue.
const (
	EventGateReleased          = "gate_released"
	EventTimerStartRequested   = "timer_start_requested"
	EventHit                   = "hit"
	EventHurt                  = "hurt"
	EventDied                  = "died"
	EventAttackStarted         = "attack_started"
	EventDashStarted           = "dash_started"
	EventUltimateStarted       = "ultimate_started"
	EventUltimateDamageInstant = "ultimate_damage_instant"
	EventUltimateFinished      = "ultimate_finished"
	EventRoundWon              = "round_won"
	EventMatchEnded            = "match_ended"
	EventConfigGap             = "config_gap"
	EventManualReset           = "manual_reset"
)

// HitEvent is one target struck by one resolve.
type HitEvent struct {
	Attacker                ecs.Entity
	Target                  ecs.Entity
	Amount                  float64
	BypassesInvulnerability bool
	Outcome                 component.DamageOutcome
}

// ActionEvent is the payload of attack, dash, and ultimate events.
type ActionEvent struct {
	Entity ecs.Entity
	Kind   component.AttackKind
}

// ConfigGapEvent reports an action that degraded to a no-op.
type ConfigGapEvent struct {
	Entity ecs.Entity
	Action string
	Reason string
}

// RoundEvent is the payload of round_won and match_ended.
type RoundEvent struct {
	Winner     component.Faction
	PlayerWins int
	EnemyWins  int
	Round      int
	Elapsed    float64
}

func push(w *ecs.World, typ string, data any) {
	w.Events().Push(ecs.Event{Type: typ, Data: data})
}
