package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAgrees(t *testing.T) {
	for _, scene := range []string{"demo", "paddle"} {
		t.Run(scene, func(t *testing.T) {
			r, err := Run(context.Background(), Check{Scene: scene, Runs: 3, Steps: 120, Every: 30})
			require.NoError(t, err)
			require.Len(t, r.Traces, 3)
			assert.True(t, r.OK(), "diverged at sample %d in run %d", r.Diverged, r.Run)
			for _, tr := range r.Traces {
				assert.Len(t, tr.Prints, 4)
				assert.Positive(t, tr.Bodies)
			}
		})
	}
}

func TestRunMissingScene(t *testing.T) {
	_, err := Run(context.Background(), Check{Scene: "no-such-level", Runs: 2, Steps: 1})
	require.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Check{Scene: "demo", Runs: 2, Steps: 10})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCompare(t *testing.T) {
	cases := []struct {
		name     string
		traces   []Trace
		diverged int
		run      int
	}{
		{
			name:     "equal",
			traces:   []Trace{{Run: 0, Prints: []uint64{1, 2}}, {Run: 1, Prints: []uint64{1, 2}}},
			diverged: -1, run: -1,
		},
		{
			name: "earliest_wins",
			traces: []Trace{
				{Run: 0, Prints: []uint64{1, 2, 3}},
				{Run: 1, Prints: []uint64{1, 2, 9}},
				{Run: 2, Prints: []uint64{1, 7, 3}},
			},
			diverged: 1, run: 2,
		},
		{
			name:     "short_trace",
			traces:   []Trace{{Run: 0, Prints: []uint64{1, 2}}, {Run: 1, Prints: []uint64{1}}},
			diverged: 1, run: 1,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := compare(c.traces)
			assert.Equal(t, c.diverged, r.Diverged)
			assert.Equal(t, c.run, r.Run)
		})
	}
}
