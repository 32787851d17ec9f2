package main

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/milk9111/engine3d/assets"
	"github.com/milk9111/engine3d/config"
	"github.com/milk9111/engine3d/engine"
)

// Check describes a determinism run: the same scene simulated Runs times
// for Steps fixed steps, sampling the physics fingerprint every Every steps.
type Check struct {
	Scene    string
	Assets   string
	Settings *config.Settings
	Runs     int
	Steps    int
	Every    int
	Log      *zap.Logger
}

// Trace is the fingerprint samples of one run.
type Trace struct {
	Run    int
	Bodies int
	Prints []uint64
}

// Report is the outcome of a Check. Diverged is the first sample index
// where some run disagrees with run 0, or -1.
type Report struct {
	Traces   []Trace
	Diverged int
	Run      int
}

func (r Report) OK() bool {
	return r.Diverged < 0
}

// Run simulates every run concurrently and compares their traces.
func Run(ctx context.Context, c Check) (Report, error) {
	if c.Runs < 2 {
		c.Runs = 2
	}
	if c.Steps < 1 {
		c.Steps = 1
	}
	if c.Every < 1 {
		c.Every = 1
	}
	if c.Log == nil {
		c.Log = zap.NewNop()
	}

	traces := make([]Trace, c.Runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range traces {
		g.Go(func() error {
			t, err := simulate(ctx, c, i)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			traces[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return compare(traces), nil
}

// simulate runs one world. Each run opens its own resources so no cached
// asset state is shared between goroutines.
func simulate(ctx context.Context, c Check, run int) (Trace, error) {
	res, err := assets.Open(c.Assets, c.Log.Named("assets"))
	if err != nil {
		return Trace{}, err
	}
	var settings *config.Settings
	if c.Settings != nil {
		s := *c.Settings
		settings = &s
	}
	w, err := engine.New(engine.Options{
		Scene:     c.Scene,
		Settings:  settings,
		Resources: res,
		Log:       c.Log.With(zap.Int("run", run)),
	})
	if err != nil {
		return Trace{}, err
	}
	defer w.Close()

	step := w.Clock.FixedDelta()
	t := Trace{Run: run, Prints: make([]uint64, 0, c.Steps/c.Every+1)}
	for i := 1; i <= c.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return Trace{}, err
		}
		w.Frame(step)
		if i%c.Every == 0 || i == c.Steps {
			t.Prints = append(t.Prints, w.Physics.Fingerprint())
		}
	}
	t.Bodies = len(w.Physics.Bodies())
	return t, nil
}

func compare(traces []Trace) Report {
	r := Report{Traces: traces, Diverged: -1, Run: -1}
	if len(traces) == 0 {
		return r
	}
	ref := traces[0].Prints
	for _, t := range traces[1:] {
		n := min(len(ref), len(t.Prints))
		for i := 0; i < n; i++ {
			if t.Prints[i] != ref[i] && (r.Diverged < 0 || i < r.Diverged) {
				r.Diverged, r.Run = i, t.Run
				break
			}
		}
		if r.Diverged < 0 && len(t.Prints) != len(ref) {
			r.Diverged, r.Run = n, t.Run
		}
	}
	return r
}
