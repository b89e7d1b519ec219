package component

import "github.com/milk9111/duel/common"

// Cooldown counts down in world seconds. It is ready once Remaining reaches
// zero.
type Cooldown struct {
	Duration  float64
	Remaining float64
}

func (c *Cooldown) Ready() bool {
	return c.Remaining <= 0
}

// Start begins a full cooldown from the configured duration.
func (c *Cooldown) Start() {
	c.Remaining = max0(c.Duration)
}

func (c *Cooldown) Tick(dt float64) {
	if dt <= 0 || c.Remaining <= 0 {
		return
	}
	c.Remaining, _ = common.CountDown(c.Remaining, dt)
}

func (c *Cooldown) Clear() {
	c.Remaining = 0
}

// Cooldowns holds one cooldown per gated action.
type Cooldowns struct {
	Attack   Cooldown
	Dash     Cooldown
	Ultimate Cooldown
}

var CooldownsComponent = NewComponent[Cooldowns]()

func (c *Cooldowns) Tick(dt float64) {
	c.Attack.Tick(dt)
	c.Dash.Tick(dt)
	c.Ultimate.Tick(dt)
}
