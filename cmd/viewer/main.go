package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gopxl/beep/speaker"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/engine3d/assets"
	"github.com/milk9111/engine3d/audio"
	"github.com/milk9111/engine3d/config"
	"github.com/milk9111/engine3d/ecs"
	"github.com/milk9111/engine3d/engine"
	"github.com/milk9111/engine3d/logging"
	"github.com/milk9111/engine3d/prefabs"
)

// speakerLock serializes mixer changes with the audio device callback.
type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }

func main() {
	sceneName := flag.String("scene", "demo", "level name in levels/ or path to a scene file")
	configPath := flag.String("config", "", "settings file (defaults are embedded)")
	assetsDir := flag.String("assets", "", "asset directory (defaults to the built-in assets)")
	debug := flag.Bool("debug", false, "enable debug overlay and logging")
	mute := flag.Bool("mute", false, "disable audio output")
	flag.Parse()

	settings := config.Default()
	if *configPath != "" {
		s, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		settings = s
	}
	if *debug {
		settings.Log.Level = "debug"
		settings.Log.Development = true
	}
	logger := logging.Must(settings.Log)
	defer func() { _ = logger.Sync() }()

	res, err := assets.Open(*assetsDir, logger.Named("assets"))
	if err != nil {
		logger.Fatal("open assets", zap.Error(err))
	}

	var mixer *audio.Mixer
	var sink ecs.AudioSink = ecs.SilentAudio{}
	if *mute {
		mixer = audio.NewMixer(settings.Audio, audio.WithLogger(logger))
	} else {
		mixer = audio.NewMixer(settings.Audio, audio.WithLock(speakerLock{}), audio.WithLogger(logger))
		rate := mixer.SampleRate()
		if err := speaker.Init(rate, rate.N(time.Second/30)); err != nil {
			logger.Warn("audio disabled", zap.Error(err))
		} else {
			speaker.Play(mixer.Streamer())
			sink = mixer
		}
	}

	input := NewInput()
	wire := NewWireframe()
	screen := &screenSize{w: settings.Window.Width, h: settings.Window.Height}
	world, err := engine.New(engine.Options{
		Scene:     *sceneName,
		Settings:  settings,
		Resources: res,
		Log:       logger,
		Backend:   wire,
		Input:     input,
		Screen:    screen,
		Audio:     sink,
		Attach:    mixer.Attach,
	})
	if err != nil {
		logger.Fatal("load scene", zap.Error(err))
	}
	defer world.Close()

	game := &Game{
		debug:      *debug,
		world:      world,
		input:      input,
		wire:       wire,
		screen:     screen,
		mixer:      mixer,
		assets:     res,
		configPath: *configPath,
		log:        logger,
	}
	if w, err := prefabs.NewWatcher(watchDirs(*sceneName, *configPath, *assetsDir)...); err != nil {
		logger.Warn("hot reload disabled", zap.Error(err))
	} else {
		game.watcher = w
		defer w.Close()
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(settings.Window.Width, settings.Window.Height)
	ebiten.SetWindowTitle(settings.Window.Title)

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("run", zap.Error(err))
	}
}

// watchDirs lists the existing directories worth watching from the working
// directory: on-disk prefabs and levels, plus the scene, config and assets
// locations.
func watchDirs(scene, configPath, assetsDir string) []string {
	candidates := []string{"prefabs", "prefabs/scripts", "levels", assetsDir}
	for _, p := range []string{scene, configPath} {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			candidates = append(candidates, filepath.Dir(p))
		}
	}
	seen := map[string]bool{}
	var out []string
	for _, d := range candidates {
		if d == "" || seen[d] {
			continue
		}
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
