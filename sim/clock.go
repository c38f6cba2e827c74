package sim

// AgingHook is invoked after every clock advance with the new timeslot.
// Networks register one to age their entanglement resources.
type AgingHook func(now int64)

// Clock is the monotonic timeslot counter of a simulated network.
// It never moves backwards; the only way to change it is Advance.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type Clock struct {
	now   int64
	hooks []AgingHook
}

// Now returns the current timeslot.
func (c *Clock) Now() int64 {
	return c.now
}

// Advance increments the timeslot and runs every aging hook in registration order.
func (c *Clock) Advance() {
	c.now++
	for _, hook := range c.hooks {
		hook(c.now)
	}
}

// AdvanceTo advances until the clock reads at least ts.
func (c *Clock) AdvanceTo(ts int64) {
	for c.now < ts {
		c.Advance()
	}
}

// OnAdvance registers a hook to run after each advance.
func (c *Clock) OnAdvance(hook AgingHook) {
	if hook == nil {
		panic("OnAdvance: hook must not be nil")
	}
	c.hooks = append(c.hooks, hook)
}
