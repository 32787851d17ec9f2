package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/milk9111/engine3d/config"
	"github.com/milk9111/engine3d/ecs"
	"github.com/milk9111/engine3d/physics"
	"github.com/milk9111/engine3d/render"
	"github.com/milk9111/engine3d/resources"
	"github.com/milk9111/engine3d/scenefile"
)

// Options configures a World. Zero fields get headless defaults.
type Options struct {
	// Scene is a level name from the levels package or a path to a scene
	// file. Empty starts an empty scene.
	Scene     string
	Settings  *config.Settings
	Resources resources.Provider
	Log       *zap.Logger
	Backend   render.Backend
	Input     ecs.Input
	Screen    ecs.Screen
	Audio     ecs.AudioSink
	// Attach runs on each new scene before it is loaded, e.g. to hook an
	// audio mixer in as a registry.
	Attach func(*ecs.Scene)
}

// World is one running scene with its simulation, renderer and loop.
type World struct {
	opts     Options
	Scene    *ecs.Scene
	Physics  *physics.Physics
	Pipeline *render.Pipeline
	Loop     *ecs.Loop
	Clock    *ecs.Clock
	Context  *ecs.Context
}

func New(opts Options) (*World, error) {
	if opts.Settings == nil {
		opts.Settings = config.Default()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Resources == nil {
		opts.Resources = resources.Empty{}
	}
	w := &World{opts: opts}
	if err := w.Reload(); err != nil {
		return nil, err
	}
	return w, nil
}

// Reload closes the current scene, if any, and builds a fresh one from the
// scene source. The clock's time scale is reset from the settings.
func (w *World) Reload() error {
	s := w.opts.Settings
	name := sceneName(w.opts.Scene)
	scene := ecs.NewScene(name, ecs.WithLogger(w.opts.Log))
	phys := physics.New(scene, physics.ConfigFrom(s.Physics))
	pipe := render.NewPipeline(scene, w.opts.Backend)
	if w.opts.Attach != nil {
		w.opts.Attach(scene)
	}
	if err := w.load(scene); err != nil {
		scene.Close()
		return err
	}

	if w.Scene != nil {
		w.Scene.Close()
	}
	clock := ecs.NewClock(s.Physics.FixedDelta)
	clock.Scale = s.Time.Scale
	w.Scene, w.Physics, w.Pipeline, w.Clock = scene, phys, pipe, clock
	w.Loop = ecs.NewLoop(scene, clock, s.Physics.MaxCatchUp)
	w.Context = &ecs.Context{
		Time:      clock,
		Resources: w.opts.Resources,
		Input:     w.opts.Input,
		Screen:    w.opts.Screen,
		Audio:     w.opts.Audio,
		Settings:  s,
		Log:       w.opts.Log,
	}
	w.opts.Log.Info("scene loaded",
		zap.String("scene", name),
		zap.Int("objects", len(scene.GameObjects())))
	return nil
}

func (w *World) load(scene *ecs.Scene) error {
	src := w.opts.Scene
	if src == "" {
		return nil
	}
	opts := []scenefile.Option{
		scenefile.WithResources(w.opts.Resources),
		scenefile.WithLogger(w.opts.Log),
	}
	if _, err := os.Stat(src); err == nil {
		return scenefile.LoadFile(src, scene, opts...)
	}
	if err := scenefile.LoadLevel(src, scene, opts...); err != nil {
		return fmt.Errorf("engine: load %s: %w", src, err)
	}
	return nil
}

// Frame advances the world by elapsed real seconds and returns the number
// of fixed steps run.
func (w *World) Frame(elapsed float64) int {
	return w.Loop.Frame(w.Context, elapsed)
}

// ApplySettings swaps in new settings, updating gravity and the time scale
// of the running scene.
func (w *World) ApplySettings(s *config.Settings) {
	*w.opts.Settings = *s
	w.Physics.SetGravity(s.Physics.Gravity)
	w.Clock.Scale = s.Time.Scale
}

// Settings returns the live settings shared with scripts.
func (w *World) Settings() *config.Settings {
	return w.opts.Settings
}

// SceneSource is the level name or file the world loads from.
func (w *World) SceneSource() string {
	return w.opts.Scene
}

func (w *World) Close() {
	if w.Scene != nil {
		w.Scene.Close()
	}
}

func sceneName(src string) string {
	if src == "" {
		return "untitled"
	}
	base := filepath.Base(src)
	return base[:len(base)-len(filepath.Ext(base))]
}
