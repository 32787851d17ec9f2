package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/milk9111/engine3d/assets"
	"github.com/milk9111/engine3d/config"
	"github.com/milk9111/engine3d/ecs"
)

func TestWorldRunsDemo(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)
	res, err := assets.Open("", log)
	require.NoError(t, err)

	var attached []*ecs.Scene
	w, err := New(Options{
		Scene:     "demo",
		Resources: res,
		Log:       log,
		Attach:    func(s *ecs.Scene) { attached = append(attached, s) },
	})
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, "demo", w.Scene.Name)
	assert.Equal(t, []*ecs.Scene{w.Scene}, attached)
	ball := w.Scene.Find("Ball")
	require.NotNil(t, ball)
	startY := ball.Transform().Position().Y()

	steps := 0
	for i := 0; i < 60; i++ {
		steps += w.Frame(1.0 / 60)
	}
	assert.InDelta(t, 60, steps, 1)
	assert.Less(t, ball.Transform().Position().Y(), startY)
	assert.Zero(t, logs.FilterMessage("script failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("scene loaded").Len())

	old := w.Scene
	require.NoError(t, w.Reload())
	assert.True(t, old.Closed())
	assert.NotSame(t, old, w.Scene)
	assert.Len(t, attached, 2)
}

func TestWorldApplySettings(t *testing.T) {
	w, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, "untitled", w.Scene.Name)

	s := config.Default()
	s.Physics.Gravity = mgl64.Vec3{0, -1, 0}
	s.Time.Scale = 0.5
	w.ApplySettings(s)
	assert.Equal(t, mgl64.Vec3{0, -1, 0}, w.Physics.Config().Gravity)
	assert.Equal(t, 0.5, w.Clock.Scale)
	assert.Equal(t, 0.5, w.Context.Settings.Time.Scale, "scripts see the new settings")
}

func TestWorldLoadsSceneFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.yaml")
	require.NoError(t, os.WriteFile(path, []byte("objects:\n  - name: lonely\n"), 0o644))
	w, err := New(Options{Scene: path})
	require.NoError(t, err)
	assert.Equal(t, "tiny", w.Scene.Name)
	assert.NotNil(t, w.Scene.Find("lonely"))
}

func TestWorldLoadError(t *testing.T) {
	_, err := New(Options{Scene: "no-such-level"})
	assert.Error(t, err)
}
