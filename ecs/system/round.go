package system

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
	"github.com/milk9111/duel/logging"
)

// Round lifecycle states.
const (
	RoundActive        = "active"
	RoundTransitioning = "transitioning"
	RoundEnded         = "ended"
)

const (
	roundEventDeath = "death"
	roundEventNext  = "next"
	roundEventEnd   = "end"
	roundEventReset = "reset"
)

// RoundSystem watches both factions for a death and applies the round
// decision within the same tick: score, then either end the match or reset
// the combatants and restart the countdown.
type RoundSystem struct {
	fsm        *fsm.FSM
	onMatchEnd func(RoundEvent)
}

func NewRoundSystem(onMatchEnd func(RoundEvent)) *RoundSystem {
	return &RoundSystem{
		fsm: fsm.NewFSM(
			RoundActive,
			fsm.Events{
				{Name: roundEventDeath, Src: []string{RoundActive}, Dst: RoundTransitioning},
				{Name: roundEventNext, Src: []string{RoundTransitioning}, Dst: RoundActive},
				{Name: roundEventEnd, Src: []string{RoundTransitioning}, Dst: RoundEnded},
				{Name: roundEventReset, Src: []string{RoundActive, RoundTransitioning, RoundEnded}, Dst: RoundActive},
			},
			fsm.Callbacks{},
		),
		onMatchEnd: onMatchEnd,
	}
}

// State returns the lifecycle state.
func (s *RoundSystem) State() string { return s.fsm.Current() }

// Reset returns the lifecycle to active for a fresh match.
func (s *RoundSystem) Reset() {
	s.fire(roundEventReset)
}

func (s *RoundSystem) fire(event string) bool {
	err := s.fsm.Event(context.Background(), event)
	if err == nil {
		return true
	}
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return true
	}
	logging.Error("round transition rejected", err, logging.Fields{
		"event": event,
		"state": s.fsm.Current(),
	})
	return false
}

func (s *RoundSystem) Update(w *ecs.World, f *Frame) {
	if w == nil || f == nil {
		return
	}
	_, round, ok := ecs.First(w, component.RoundComponent.Kind())
	if !ok {
		return
	}
	if !f.Gate.IsBlocking() {
		round.Elapsed += f.Scaled()
	}
	if round.Ended || round.Transitioning || !s.fsm.Is(RoundActive) {
		return
	}

	winner, decided := roundWinner(w)
	if !decided {
		return
	}
	if !s.fire(roundEventDeath) {
		return
	}
	round.Transitioning = true

	switch winner {
	case component.FactionPlayer:
		round.PlayerWins++
	case component.FactionEnemy:
		round.EnemyWins++
	}
	ev := RoundEvent{
		Winner:     winner,
		PlayerWins: round.PlayerWins,
		EnemyWins:  round.EnemyWins,
		Round:      round.Number,
		Elapsed:    round.Elapsed,
	}
	push(w, EventRoundWon, ev)
	logging.Info("round won", logging.Fields{
		"winner":      winner.String(),
		"round":       round.Number,
		"player_wins": round.PlayerWins,
		"enemy_wins":  round.EnemyWins,
	})

	if round.RoundsToWin > 0 && round.Wins(winner) >= round.RoundsToWin {
		s.fire(roundEventEnd)
		round.Ended = true
		round.Winner = winner
		push(w, EventMatchEnded, ev)
		logging.Info("match ended", logging.Fields{
			"winner":  winner.String(),
			"elapsed": round.Elapsed,
		})
		if s.onMatchEnd != nil {
			s.onMatchEnd(ev)
		}
		return
	}

	resetCombatants(w, f)
	round.Number++
	f.Gate.Restart(round.CountdownSeconds, round.SessionSeconds)
	if s.fire(roundEventNext) {
		round.Transitioning = false
	}
}

// roundWinner checks the player faction first, so a double knockout goes to
// the enemy.
func roundWinner(w *ecs.World) (component.Faction, bool) {
	var playerDead, enemyDead bool
	ecs.ForEach2(w, component.CombatantComponent.Kind(), component.HealthComponent.Kind(), func(_ ecs.Entity, c *component.Combatant, h *component.Health) {
		if h.IsAlive() {
			return
		}
		switch c.Faction {
		case component.FactionPlayer:
			playerDead = true
		case component.FactionEnemy:
			enemyDead = true
		}
	})
	switch {
	case playerDead:
		return component.FactionEnemy, true
	case enemyDead:
		return component.FactionPlayer, true
	}
	return 0, false
}

// resetCombatants restores health and moves every combatant back to its
// spawn point. Z is left alone.
func resetCombatants(w *ecs.World, f *Frame) {
	for _, e := range w.Query(component.CombatantComponent.Kind(), component.TransformComponent.Kind()) {
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
			h.ResetForNewRound()
		}
		if wf, ok := ecs.Get(w, e, component.WhiteFlashComponent.Kind()); ok {
			wf.Tick(false, 0)
		}
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		if sp, ok := ecs.Get(w, e, component.SpawnComponent.Kind()); ok {
			t.X, t.Y = sp.X, sp.Y
			if sp.Facing != 0 {
				t.Facing = sp.Facing
			}
		}
		ResetCharacter(w, f, e)
	}
}
