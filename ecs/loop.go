package ecs

import (
	"go.uber.org/zap"
)

// DefaultMaxCatchUp bounds the fixed steps run in one frame.
const DefaultMaxCatchUp = 5

// Loop drives a scene with a fixed-step accumulator. Each frame adds the
// scaled elapsed time to the accumulator and runs FixedTick while a whole
// step is available, up to MaxCatchUp steps. Time left over past the cap is
// dropped so a slow frame cannot snowball.
type Loop struct {
	Scene      *Scene
	Clock      *Clock
	MaxCatchUp int

	accumulator float64
}

// NewLoop returns a loop for scene using clock's fixed delta.
func NewLoop(scene *Scene, clock *Clock, maxCatchUp int) *Loop {
	if clock == nil {
		clock = NewClock(DefaultFixedDelta)
	}
	if maxCatchUp <= 0 {
		maxCatchUp = DefaultMaxCatchUp
	}
	return &Loop{Scene: scene, Clock: clock, MaxCatchUp: maxCatchUp}
}

// Frame advances the clock by elapsed real seconds, runs the due fixed
// steps, then Tick. It returns the number of fixed steps run.
func (l *Loop) Frame(ctx *Context, elapsed float64) int {
	if l == nil || l.Scene == nil {
		return 0
	}
	if ctx == nil {
		ctx = &Context{}
	}
	ctx.Time = l.Clock

	dt := l.Clock.Advance(elapsed)
	fixed := l.Clock.FixedDelta()
	l.accumulator += dt

	steps := 0
	for l.accumulator >= fixed && steps < l.MaxCatchUp {
		l.Scene.FixedTick(ctx, fixed)
		l.accumulator -= fixed
		steps++
	}
	if l.accumulator >= fixed {
		l.Scene.Logger().Debug("dropping simulation backlog",
			zap.Float64("seconds", l.accumulator),
			zap.Int("steps", steps))
		l.accumulator = 0
	}

	l.Scene.Tick(ctx, dt)
	return steps
}

// Alpha is the fraction of a fixed step waiting in the accumulator.
func (l *Loop) Alpha() float64 {
	if l == nil || l.Clock == nil {
		return 0
	}
	return l.accumulator / l.Clock.FixedDelta()
}
