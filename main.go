package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pasture/session"
	"github.com/pthm-cable/pasture/ui"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup always happens.
func run() int {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	days := flag.Int("days", 0, "Days to simulate (0 = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config, then time-based)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in days (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	dbPath := flag.String("db", "", "SQLite file recording run history (empty = disabled)")
	stopOnStarve := flag.Bool("stop-on-starve", false, "Stop a headless run on the day the predator goes down")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	sess, err := session.Open(session.Options{
		ConfigPath:   *configPath,
		Headless:     *headless,
		Days:         *days,
		Seed:         *seed,
		LogStats:     *logStats,
		StatsWindow:  *statsWindow,
		OutputDir:    *outputDir,
		DBPath:       *dbPath,
		StopOnStarve: *stopOnStarve,
	})
	if err != nil {
		slog.Error("failed to start", "error", err)
		return 1
	}
	defer func() {
		if err := sess.Close(); err != nil {
			slog.Error("failed to close session", "error", err)
		}
	}()

	if *headless {
		sess.RunHeadless()
		return 0
	}

	// Graphical mode
	cfg := sess.Config
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Pasture")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	viewer := ui.NewViewer(sess.Sim, cfg)
	for !rl.WindowShouldClose() {
		viewer.Update()

		rl.BeginDrawing()
		viewer.Draw()
		rl.EndDrawing()
	}
	sess.Sim.Summary().Log()
	return 0
}
