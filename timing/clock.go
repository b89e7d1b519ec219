package timing

// WorldClock holds the world time scale and the exclusive ultimate lock.
//
// Only the holder of the lock may change the scale. A second acquisition
// while the lock is held is rejected; callers never wait for it.
type WorldClock struct {
	scale  float64
	holder uint64
	held   bool
}

func NewWorldClock() *WorldClock {
	return &WorldClock{scale: 1}
}

// AcquireUltimate takes the ultimate lock for holder.
func (c *WorldClock) AcquireUltimate(holder uint64) bool {
	if c == nil || c.held {
		return false
	}
	c.held = true
	c.holder = holder
	return true
}

// Freeze stops world time. Only the current holder may freeze.
func (c *WorldClock) Freeze(holder uint64) bool {
	if c == nil || !c.held || c.holder != holder {
		return false
	}
	c.scale = 0
	return true
}

// ReleaseUltimate resumes world time and frees the lock. Releasing a lock
// held by someone else is a no-op.
func (c *WorldClock) ReleaseUltimate(holder uint64) bool {
	if c == nil || !c.held || c.holder != holder {
		return false
	}
	c.held = false
	c.holder = 0
	c.scale = 1
	return true
}

// Holder returns the current lock holder, if any.
func (c *WorldClock) Holder() (uint64, bool) {
	if c == nil || !c.held {
		return 0, false
	}
	return c.holder, true
}

func (c *WorldClock) Scale() float64 {
	if c == nil {
		return 1
	}
	return c.scale
}

// Scaled converts a real tick delta into world time.
func (c *WorldClock) Scaled(dt float64) float64 {
	return dt * c.Scale()
}

// Reset forces the clock back to neutral, dropping any held lock.
func (c *WorldClock) Reset() {
	if c == nil {
		return
	}
	c.scale = 1
	c.held = false
	c.holder = 0
}
