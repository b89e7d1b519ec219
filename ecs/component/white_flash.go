package component

import "github.com/milk9111/duel/common"

// WhiteFlash is the cosmetic flicker shown while a combatant is
// invulnerable. On toggles every Interval seconds.
type WhiteFlash struct {
	Interval float64
	Timer    float64
	On       bool

	// Active is set while the flicker is running.
	Active bool
}

var WhiteFlashComponent = NewComponent[WhiteFlash]()

// NewWhiteFlash spreads flashes blinks evenly over a window of duration
// seconds.
func NewWhiteFlash(duration float64, flashes int) *WhiteFlash {
	if flashes <= 0 || duration <= 0 {
		return &WhiteFlash{}
	}
	return &WhiteFlash{Interval: duration / float64(flashes*2)}
}

// Tick advances the flicker. It starts lit when active turns on and goes dark
// when it turns off.
func (wf *WhiteFlash) Tick(active bool, dt float64) {
	if wf == nil {
		return
	}
	if !active {
		wf.Active, wf.On, wf.Timer = false, false, 0
		return
	}
	if !wf.Active {
		wf.Active, wf.On, wf.Timer = true, true, 0
		return
	}
	if wf.Interval <= 0 {
		return
	}
	wf.Timer += dt
	for common.Reached(wf.Timer, wf.Interval) {
		wf.Timer -= wf.Interval
		wf.On = !wf.On
	}
}
