package system

import (
	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/timing"
)

// Frame is the shared context handed to every system on a tick. It carries
// the gate and world clock explicitly instead of process globals; the round
// system is the only writer of the gate and the controller the only writer of
// the clock.
type Frame struct {
	// Dt is the real elapsed time of this tick in seconds.
	Dt    float64
	Tick  uint64
	Gate  *timing.CountdownGate
	Clock *timing.WorldClock

	// Countdown and Session are the values the gate restarts with.
	Countdown float64
	Session   float64
}

// Scaled is Dt in world time.
func (f *Frame) Scaled() float64 {
	if f == nil {
		return 0
	}
	return f.Clock.Scaled(f.Dt)
}

// FrozenFor reports whether world time is stopped for e, which is the case
// for everyone except the holder of the ultimate lock.
func (f *Frame) FrozenFor(e ecs.Entity) bool {
	if f == nil || f.Clock.Scale() > 0 {
		return false
	}
	holder, ok := f.Clock.Holder()
	return !ok || holder != uint64(e)
}

// System updates the world once per tick.
type System interface {
	Update(w *ecs.World, f *Frame)
}

type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Update(w *ecs.World, f *Frame) {
	for _, system := range s.systems {
		system.Update(w, f)
	}
}
