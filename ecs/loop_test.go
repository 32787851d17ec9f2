package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoopFrame(t *testing.T) {
	cases := []struct {
		name       string
		scale      float64
		frames     []float64
		wantSteps  []int
		maxCatchUp int
	}{
		{"exact_steps", 1, []float64{1.0 / 60, 2.0 / 60}, []int{1, 2}, 5},
		{"accumulates_partial", 1, []float64{0.01, 0.01}, []int{0, 1}, 5},
		{"catch_up_clamped", 1, []float64{1}, []int{3}, 3},
		{"paused", 0, []float64{1, 1}, []int{0, 0}, 5},
		{"half_speed", 0.5, []float64{2.0 / 60, 2.0 / 60}, []int{1, 1}, 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewScene("loop")
			sim := &fakeSim{}
			s.SetSimulation(sim)
			clock := NewClock(1.0 / 60)
			clock.Scale = c.scale
			l := NewLoop(s, clock, c.maxCatchUp)

			total := 0
			for i, dt := range c.frames {
				// nudge past float rounding on exact multiples
				got := l.Frame(nil, dt+1e-12)
				assert.Equal(t, c.wantSteps[i], got, "frame %d", i)
				total += got
			}
			assert.Equal(t, total, sim.steps)
		})
	}
}

func TestLoopDropsBacklog(t *testing.T) {
	s := NewScene("backlog")
	l := NewLoop(s, NewClock(0.1), 2)
	assert.Equal(t, 2, l.Frame(nil, 1))
	assert.Zero(t, l.Alpha())
	assert.Equal(t, 1, l.Frame(nil, 0.1+1e-9))
}

func TestClock(t *testing.T) {
	c := NewClock(0)
	assert.Equal(t, DefaultFixedDelta, c.FixedDelta())
	c.Scale = 0.5
	assert.Equal(t, 0.5, c.Advance(1))
	assert.Equal(t, 1.0, c.UnscaledDelta())
	assert.Equal(t, 0.0, c.Advance(-1))
	assert.Equal(t, 0.5, c.Elapsed())
	assert.Equal(t, uint64(2), c.Frames())
}
