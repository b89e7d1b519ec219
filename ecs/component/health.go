package component

import "github.com/milk9111/duel/common"

// DamageOutcome reports what TakeDamage did.
type DamageOutcome int

const (
	DamageIgnored DamageOutcome = iota
	DamageApplied
	DamageKilled
)

func (o DamageOutcome) String() string {
	switch o {
	case DamageApplied:
		return "applied"
	case DamageKilled:
		return "killed"
	}
	return "ignored"
}

// Health is a combatant's hit point pool.
//
// Dead is terminal for the round: once set, only ResetForNewRound clears it,
// and Current is always zero while it holds.
type Health struct {
	Max     float64
	Current float64

	Invulnerable    bool
	IFrameDuration  float64
	IFrameRemaining float64

	Dead bool
}

var HealthComponent = NewComponent[Health]()

// NewHealth creates a full Health pool.
func NewHealth(max, iframes float64) *Health {
	if max <= 0 {
		max = 1
	}
	return &Health{Max: max, Current: max, IFrameDuration: max0(iframes)}
}

// IsAlive reports whether the entity is alive.
func (h *Health) IsAlive() bool {
	return h != nil && !h.Dead
}

// TakeDamage applies amount unless the pool is dead, or invulnerable and the
// hit does not bypass. A non-bypassing hit that leaves the target alive opens
// the invulnerability window.
func (h *Health) TakeDamage(amount float64, bypassesInvulnerability bool) DamageOutcome {
	if h == nil || h.Dead || amount <= 0 {
		return DamageIgnored
	}
	if h.Invulnerable && !bypassesInvulnerability {
		return DamageIgnored
	}

	h.Current -= amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
	if h.Current <= 0 {
		h.Current = 0
		h.Dead = true
		h.Invulnerable = false
		h.IFrameRemaining = 0
		return DamageKilled
	}

	if !bypassesInvulnerability {
		h.startInvulnerability()
	}
	return DamageApplied
}

// startInvulnerability is single-flight: an open window is never extended or
// restarted.
func (h *Health) startInvulnerability() bool {
	if h.Invulnerable || h.IFrameDuration <= 0 {
		return false
	}
	h.Invulnerable = true
	h.IFrameRemaining = h.IFrameDuration
	return true
}

// TickInvulnerability advances the window and reports the tick it closes.
func (h *Health) TickInvulnerability(dt float64) bool {
	if h == nil || !h.Invulnerable || dt <= 0 {
		return false
	}
	var done bool
	if h.IFrameRemaining, done = common.CountDown(h.IFrameRemaining, dt); !done {
		return false
	}
	h.Invulnerable = false
	return true
}

// ResetForNewRound restores a full, vulnerable, living pool.
func (h *Health) ResetForNewRound() {
	if h == nil {
		return
	}
	h.Current = h.Max
	h.Dead = false
	h.Invulnerable = false
	h.IFrameRemaining = 0
}

// Fraction returns Current/Max for health bars.
func (h *Health) Fraction() float64 {
	if h == nil || h.Max <= 0 {
		return 0
	}
	return h.Current / h.Max
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
