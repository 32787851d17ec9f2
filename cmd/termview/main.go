package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/milk9111/engine3d/assets"
	"github.com/milk9111/engine3d/config"
	"github.com/milk9111/engine3d/ecs"
	"github.com/milk9111/engine3d/engine"
	"github.com/milk9111/engine3d/logging"
)

type App struct {
	screen tcell.Screen
	canvas *Canvas
	input  *Input
	world  *engine.World
	fps    int
	log    *zap.Logger
}

func main() {
	sceneName := flag.String("scene", "demo", "level name in levels/ or path to a scene file")
	configPath := flag.String("config", "", "settings file (defaults are embedded)")
	assetsDir := flag.String("assets", "", "asset directory (defaults to the built-in assets)")
	logPath := flag.String("log", os.DevNull, "log file; the terminal is taken by the view")
	fps := flag.Int("fps", 30, "frames per second")
	flag.Parse()

	settings := config.Default()
	if *configPath != "" {
		s, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		settings = s
	}
	settings.Log.Output = *logPath
	logger := logging.Must(settings.Log)
	defer func() { _ = logger.Sync() }()

	res, err := assets.Open(*assetsDir, logger.Named("assets"))
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}

	app, err := NewApp(screen, engine.Options{
		Scene:     *sceneName,
		Settings:  settings,
		Resources: res,
		Log:       logger,
	}, *fps)
	if err != nil {
		screen.Fini()
		log.Fatal(err)
	}
	app.Run()
	app.Close()
}

// NewApp builds a world that renders into screen. The backend, input and
// screen size in opts are replaced.
func NewApp(screen tcell.Screen, opts engine.Options, fps int) (*App, error) {
	if fps < 1 {
		fps = 30
	}
	cols, rows := screen.Size()
	canvas := NewCanvas(cols, rows-1)
	input := NewInput()
	opts.Backend = canvas
	opts.Input = input
	opts.Screen = canvas
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	world, err := engine.New(opts)
	if err != nil {
		return nil, err
	}
	return &App{screen: screen, canvas: canvas, input: input, world: world, fps: fps, log: opts.Log}, nil
}

func (a *App) Close() {
	a.world.Close()
	a.screen.Fini()
}

// Run polls events and steps the world until Escape, q or Ctrl-C.
func (a *App) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(a.fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok || !a.handle(ev) {
				return
			}
		case <-ticker.C:
			a.Step()
		}
	}
}

func (a *App) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
		if ev.Key() == tcell.KeyF5 {
			if err := a.world.Reload(); err != nil {
				a.log.Error("reload scene", zap.Error(err))
			}
			return true
		}
		a.input.Handle(ev)
	case *tcell.EventResize:
		cols, rows := a.screen.Size()
		a.canvas.Resize(cols, rows-1)
		a.screen.Sync()
	}
	return true
}

// Step advances one frame and repaints.
func (a *App) Step() {
	a.input.Update()
	a.world.Frame(1 / float64(a.fps))
	a.screen.Clear()
	a.canvas.Paint(a.screen)
	a.status()
	a.screen.Show()
}

func (a *App) status() {
	_, rows := a.screen.Size()
	text := fmt.Sprintf(" %s  objects %d  scale %.2f  wasd move  ijkl look  caps rise  e sink  q quit",
		a.world.Scene.Name, len(a.world.Scene.GameObjects()), a.world.Clock.Scale)
	style := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	for x, r := range text {
		a.screen.SetContent(x, rows-1, r, nil, style)
	}
}

var _ ecs.Screen = (*Canvas)(nil)
