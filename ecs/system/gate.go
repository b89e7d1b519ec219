package system

import (
	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/logging"
)

// GateSystem advances the countdown gate. It runs first so every later
// system reads this tick's gate state.
type GateSystem struct{}

func NewGateSystem() *GateSystem { return &GateSystem{} }

func (s *GateSystem) Update(w *ecs.World, f *Frame) {
	if w == nil || f == nil {
		return
	}
	if f.Gate.Tick(f.Scaled()) {
		push(w, EventGateReleased, nil)
		logging.Info("countdown released", logging.Fields{
			"tick":    f.Tick,
			"session": f.Gate.SessionRemaining(),
		})
	}
}
