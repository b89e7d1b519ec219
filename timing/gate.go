package timing

import "github.com/milk9111/duel/common"

// CountdownGate is the pre-round countdown that blocks every combatant
// decision while it runs, followed by the session clock.
//
// The gate is owned by the round orchestrator. Controllers only read it.
type CountdownGate struct {
	countdown float64
	session   float64
	blocking  bool
}

// NewCountdownGate returns an idle gate: not blocking and with no session
// clock running.
func NewCountdownGate() *CountdownGate {
	return &CountdownGate{}
}

// Restart starts a new countdown followed by a session of sessionSeconds.
// Negative values are treated as zero.
func (g *CountdownGate) Restart(countdownSeconds, sessionSeconds float64) {
	if g == nil {
		return
	}
	g.countdown = max(0, countdownSeconds)
	g.session = max(0, sessionSeconds)
	g.blocking = g.countdown > 0
}

// RequestStart restarts the gate unless a countdown or session is already in
// progress. It reports whether the request started anything.
func (g *CountdownGate) RequestStart(countdownSeconds, sessionSeconds float64) bool {
	if g == nil || g.IsCountingDown() || g.IsRunning() {
		return false
	}
	g.Restart(countdownSeconds, sessionSeconds)
	return true
}

// Tick advances the gate by dt seconds. It returns true on the single tick
// where the countdown crosses zero and the gate releases.
func (g *CountdownGate) Tick(dt float64) bool {
	if g == nil || dt <= 0 {
		return false
	}

	released := false
	if g.countdown > 0 {
		var done bool
		if g.countdown, done = common.CountDown(g.countdown, dt); !done {
			return false
		}
		if g.blocking {
			g.blocking = false
			released = true
		}
	}

	if g.session > 0 {
		g.session, _ = common.CountDown(g.session, dt)
	}
	return released
}

// ForceRelease drops the countdown immediately. Used by the manual reset.
func (g *CountdownGate) ForceRelease() {
	if g == nil {
		return
	}
	g.countdown = 0
	g.blocking = false
}

func (g *CountdownGate) IsBlocking() bool {
	return g != nil && g.blocking
}

func (g *CountdownGate) IsCountingDown() bool {
	return g != nil && g.countdown > 0
}

// IsRunning reports whether the session clock is counting after release.
func (g *CountdownGate) IsRunning() bool {
	return g != nil && g.countdown <= 0 && g.session > 0
}

func (g *CountdownGate) Countdown() float64 {
	if g == nil {
		return 0
	}
	return g.countdown
}

func (g *CountdownGate) SessionRemaining() float64 {
	if g == nil {
		return 0
	}
	return g.session
}
