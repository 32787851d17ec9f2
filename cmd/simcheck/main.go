package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/engine3d/config"
	"github.com/milk9111/engine3d/logging"
)

func main() {
	sceneName := flag.String("scene", "demo", "level name in levels/ or path to a scene file")
	configPath := flag.String("config", "", "settings file (defaults are embedded)")
	assetsDir := flag.String("assets", "", "asset directory (defaults to the built-in assets)")
	runs := flag.Int("runs", 4, "number of parallel runs to compare")
	steps := flag.Int("steps", 600, "fixed steps per run")
	every := flag.Int("every", 60, "fingerprint sample interval in steps")
	timeout := flag.Duration("timeout", time.Minute, "give up after this long")
	debug := flag.Bool("debug", false, "enable debug logging")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	start := time.Now()
	report, err := Run(ctx, Check{
		Scene:    *sceneName,
		Assets:   *assetsDir,
		Settings: settings,
		Runs:     *runs,
		Steps:    *steps,
		Every:    *every,
		Log:      logger,
	})
	if err != nil {
		logger.Error("simcheck failed", zap.Error(err))
		os.Exit(2)
	}

	for _, t := range report.Traces {
		last := uint64(0)
		if n := len(t.Prints); n > 0 {
			last = t.Prints[n-1]
		}
		fmt.Printf("run %d: bodies=%d samples=%d final=%016x\n", t.Run, t.Bodies, len(t.Prints), last)
	}
	if !report.OK() {
		fmt.Printf("DIVERGED: run %d differs from run 0 at sample %d (step %d)\n",
			report.Run, report.Diverged, (report.Diverged+1)**every)
		os.Exit(1)
	}
	fmt.Printf("ok: %d runs x %d steps agree (%s)\n", len(report.Traces), *steps, time.Since(start).Round(time.Millisecond))
}
