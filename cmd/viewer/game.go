package main

import (
	"fmt"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/milk9111/engine3d/audio"
	"github.com/milk9111/engine3d/config"
	"github.com/milk9111/engine3d/engine"
	"github.com/milk9111/engine3d/prefabs"
	"github.com/milk9111/engine3d/resources"
	"github.com/milk9111/engine3d/scripts"
)

type Game struct {
	frames int
	debug  bool

	world      *engine.World
	input      *Input
	wire       *Wireframe
	screen     *screenSize
	mixer      *audio.Mixer
	assets     *resources.Dir
	watcher    *prefabs.Watcher
	configPath string
	log        *zap.Logger
}

// screenSize tracks the layout size for ecs.Screen.
type screenSize struct {
	w, h int
}

func (s *screenSize) Size() (int, int) {
	return s.w, s.h
}

func (g *Game) Update() error {
	g.frames++
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.reloadScene()
	}

	g.input.Update()
	g.hotReload()
	g.world.Frame(1 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.wire.Paint(screen)
	if !g.debug {
		return
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"Frames: %d    FPS: %.2f\nScene: %s    Objects: %d    Lines: %d\nTime scale: %.2f    Voices: %d\nTab: capture mouse  F5: reload  P: slow time",
		g.frames, ebiten.ActualFPS(),
		g.world.Scene.Name, len(g.world.Scene.GameObjects()), g.wire.Lines(),
		g.world.Clock.Scale, g.mixer.Active()))
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	g.screen.w, g.screen.h = int(outsideWidth), int(outsideHeight)
	return outsideWidth, outsideHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) reloadScene() {
	g.mixer.StopAll()
	if err := g.world.Reload(); err != nil {
		g.log.Error("reload scene", zap.Error(err))
	}
}

// hotReload applies file edits reported since the last frame.
func (g *Game) hotReload() {
	if g.watcher == nil {
		return
	}
errors:
	for {
		select {
		case err, ok := <-g.watcher.Errors:
			if !ok {
				break errors
			}
			g.log.Warn("watch", zap.Error(err))
		default:
			break errors
		}
	}

	sceneChanged := false
	for _, path := range g.watcher.Drain() {
		switch {
		case prefabs.IsScriptFile(path):
			n := scripts.ReloadScripts(g.world.Scene, path)
			g.log.Info("script reloaded", zap.String("path", path), zap.Int("instances", n))
		case g.configPath != "" && samePath(path, g.configPath):
			s, err := config.Load(g.configPath)
			if err != nil {
				g.log.Error("reload config", zap.Error(err))
				continue
			}
			g.world.ApplySettings(s)
			g.log.Info("config reloaded", zap.String("path", path))
		case prefabs.IsSpecFile(path):
			sceneChanged = true
		case resources.KindOf(path) != resources.KindUnknown && g.assets != nil:
			if !g.assets.Invalidate(path) {
				if err := g.assets.Reindex(); err != nil {
					g.log.Error("reindex assets", zap.Error(err))
				}
			}
			g.log.Info("asset changed", zap.String("path", path))
		}
	}
	if sceneChanged {
		g.reloadScene()
	}
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && aa == bb
}
