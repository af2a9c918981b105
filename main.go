package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/MauroVanHoutte/FlowField/config"
	"github.com/MauroVanHoutte/FlowField/game"
	"github.com/MauroVanHoutte/FlowField/logging"
	"github.com/MauroVanHoutte/FlowField/telemetry"
)

func fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}

func main() {
	var opts game.Options
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	layoutPath := flag.String("layout", "", "Snapshot file to restore terrain, destination and agents from")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	flag.BoolVar(&opts.Headless, "headless", false, "Run without graphics")
	flag.BoolVar(&opts.LogStats, "log-stats", false, "Log window stats")
	flag.Float64Var(&opts.StatsWindowSec, "stats-window", 0, "Stats window in seconds (0 = use config)")
	flag.StringVar(&opts.SnapshotDir, "snapshot-dir", "", "Directory for snapshot files")
	flag.StringVar(&opts.OutputDir, "output-dir", "", "Directory for CSV logs and the config copy")
	flag.Int64Var(&opts.Seed, "seed", 0, "RNG seed (0 = time-based)")
	flag.IntVar(&opts.StepsPerUpdate, "steps-per-update", 1, "Ticks per update call")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fatal("failed to load config", "error", err)
	}
	cfg := config.Cfg()
	slog.SetDefault(logging.New(cfg.Logging))

	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.StatsWindowSec <= 0 {
		opts.StatsWindowSec = cfg.Telemetry.StatsWindow
	}
	if *layoutPath != "" {
		s, err := telemetry.LoadSnapshot(*layoutPath)
		if err != nil {
			fatal("failed to load layout", "path", *layoutPath, "error", err)
		}
		opts.Layout = s
	}

	if opts.Headless {
		runHeadless(opts, int32(*maxTicks))
		return
	}
	runWindow(cfg, opts, int32(*maxTicks))
}

func done(g *game.Game, maxTicks int32) bool {
	return maxTicks > 0 && g.Tick() >= maxTicks
}

func runHeadless(opts game.Options, maxTicks int32) {
	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	slog.Info("starting headless run",
		"seed", opts.Seed,
		"stats_window", opts.StatsWindowSec,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)
	for !done(g, maxTicks) {
		g.UpdateHeadless()
	}
	slog.Info("max ticks reached", "tick", g.Tick(), "arrived", g.ArrivedCount(), "agents", g.AgentCount())
}

func runWindow(cfg *config.Config, opts game.Options, maxTicks int32) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Flow Field")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	for !rl.WindowShouldClose() && !done(g, maxTicks) {
		g.Update()
		g.Draw()
	}
}
