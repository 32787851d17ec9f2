package ecs

// DefaultFixedDelta is the fixed simulation step used when none is
// configured.
const DefaultFixedDelta = 1.0 / 60.0

// Clock tracks frame time. Scale multiplies every frame delta; zero pauses
// the simulation without stopping frame dispatch.
type Clock struct {
	Scale float64

	fixedDelta    float64
	delta         float64
	unscaledDelta float64
	elapsed       float64
	frames        uint64
}

// NewClock returns a clock at scale 1.
func NewClock(fixedDelta float64) *Clock {
	if fixedDelta <= 0 {
		fixedDelta = DefaultFixedDelta
	}
	return &Clock{Scale: 1, fixedDelta: fixedDelta}
}

// Advance records a frame of raw seconds and returns the scaled delta.
func (c *Clock) Advance(raw float64) float64 {
	if c == nil {
		return 0
	}
	if raw < 0 {
		raw = 0
	}
	scale := c.Scale
	if scale < 0 {
		scale = 0
	}
	c.unscaledDelta = raw
	c.delta = raw * scale
	c.elapsed += c.delta
	c.frames++
	return c.delta
}

func (c *Clock) Delta() float64 {
	if c == nil {
		return 0
	}
	return c.delta
}

func (c *Clock) UnscaledDelta() float64 {
	if c == nil {
		return 0
	}
	return c.unscaledDelta
}

// FixedDelta is the unscaled simulation step.
func (c *Clock) FixedDelta() float64 {
	if c == nil {
		return DefaultFixedDelta
	}
	return c.fixedDelta
}

// Elapsed is the scaled time since the clock started.
func (c *Clock) Elapsed() float64 {
	if c == nil {
		return 0
	}
	return c.elapsed
}

func (c *Clock) Frames() uint64 {
	if c == nil {
		return 0
	}
	return c.frames
}
