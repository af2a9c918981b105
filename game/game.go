// Package game drives the navigation simulation: an ark world of agents
// steered by a shared flow field, with headless and raylib front ends.
package game

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/MauroVanHoutte/FlowField/camera"
	"github.com/MauroVanHoutte/FlowField/components"
	"github.com/MauroVanHoutte/FlowField/config"
	"github.com/MauroVanHoutte/FlowField/inspector"
	"github.com/MauroVanHoutte/FlowField/systems"
	"github.com/MauroVanHoutte/FlowField/telemetry"
	"github.com/MauroVanHoutte/FlowField/ui"
)

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	SnapshotDir    string
	OutputDir      string
	Headless       bool
	StepsPerUpdate int

	// Config overrides the global configuration. Used by the optimizer to run
	// several games with different parameters side by side.
	Config *config.Config

	// Layout restores terrain, destination and teleporter from a snapshot.
	Layout *telemetry.Snapshot

	// StatsCallback is called with every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// terrainEdit is one queued brush stroke.
type terrainEdit struct {
	node int
	kind systems.TerrainKind
}

// Game holds the complete simulation state.
type Game struct {
	cfg *config.Config

	world       *ecs.World
	agentMapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Heading,
		components.Body,
		components.Agent,
	]
	agentFilter *ecs.Filter5[
		components.Position,
		components.Velocity,
		components.Heading,
		components.Body,
		components.Agent,
	]
	posMap   *ecs.Map[components.Position]
	velMap   *ecs.Map[components.Velocity]
	headMap  *ecs.Map[components.Heading]
	bodyMap  *ecs.Map[components.Body]
	agentMap *ecs.Map[components.Agent]

	graph     *systems.Graph
	nav       *systems.Navigator
	obstacles *systems.ObstacleIndex

	rng     *rand.Rand
	rngSeed int64
	nextID  uint32

	// Edits are queued by the API and applied at the start of the next tick.
	editMu         sync.Mutex
	pendingDest    int
	pendingTerrain []terrainEdit
	pendingReset   bool

	samples      []systems.AgentSample
	agentCount   int
	arrivedCount int

	tick           int32
	paused         bool
	stepsPerUpdate int

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	snapshotDir      string
	statsCallback    func(telemetry.WindowStats)

	// Graphical front end, nil when headless
	headless      bool
	screenWidth   float32
	screenHeight  float32
	camera        *camera.Camera
	controls      *ui.ControlsPanel
	controlsState ui.ControlsState
	overlays      *ui.OverlayRegistry
	hud           *ui.HUD
	perfPanel     *ui.PerfPanel
	inspector     *inspector.Inspector
	showPerf      bool
}

// NewGame creates a game with default options and the global config.
func NewGame() *Game {
	return NewGameWithOptions(Options{StepsPerUpdate: 1})
}

// NewGameWithOptions creates a game: builds the grid, places terrain, the
// destination and the teleporter, then spawns the agents.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:   cfg,
		world: world,
		agentMapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Heading,
			components.Body,
			components.Agent,
		](world),
		agentFilter: ecs.NewFilter5[
			components.Position,
			components.Velocity,
			components.Heading,
			components.Body,
			components.Agent,
		](world),
		posMap:   ecs.NewMap[components.Position](world),
		velMap:   ecs.NewMap[components.Velocity](world),
		headMap:  ecs.NewMap[components.Heading](world),
		bodyMap:  ecs.NewMap[components.Body](world),
		agentMap: ecs.NewMap[components.Agent](world),

		rng:            rand.New(rand.NewSource(seed)),
		rngSeed:        seed,
		pendingDest:    systems.InvalidNode,
		stepsPerUpdate: steps,

		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		statsCallback:    opts.StatsCallback,
		headless:         opts.Headless,
	}

	g.graph = newGraph(cfg)
	openList, err := systems.ParseOpenListKind(cfg.Navigation.OpenList)
	if err != nil {
		slog.Warn("unknown open list, using linear", "open_list", cfg.Navigation.OpenList)
	}
	g.nav = systems.NewNavigator(g.graph, systems.NavigatorOptions{
		OpenList:          openList,
		TrafficEnabled:    cfg.Traffic.Enabled,
		TrafficMultiplier: float32(cfg.Traffic.Multiplier),
	})

	if opts.Layout != nil {
		if err := g.applyLayout(opts.Layout); err != nil {
			slog.Error("failed to apply layout, using generated terrain", "error", err)
			g.setupLayout()
		}
	} else {
		g.setupLayout()
	}
	g.obstacles = systems.NewObstacleIndex(g.graph)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	if opts.Layout != nil && len(opts.Layout.Agents) > 0 {
		g.restoreAgents(opts.Layout.Agents)
	} else {
		g.spawnAgents()
	}

	if !opts.Headless {
		g.initGraphics()
	}

	slog.Info("simulation initialized",
		"seed", seed,
		"columns", g.graph.Columns(),
		"rows", g.graph.Rows(),
		"agents", g.agentCount,
		"destination", g.nav.Destination(),
		"open_list", openList.String(),
	)

	return g
}

// newGraph builds the grid described by cfg.
func newGraph(cfg *config.Config) *systems.Graph {
	cost := systems.PlainCost
	if cfg.Grid.TerrainCosts {
		cost = systems.TerrainCost
	}
	return systems.NewGridGraph(systems.GridOptions{
		Columns:      cfg.Grid.Columns,
		Rows:         cfg.Grid.Rows,
		CellSize:     cfg.Derived.CellSize32,
		Directed:     cfg.Grid.Directed,
		Diagonal:     cfg.Grid.Diagonal,
		StraightCost: float32(cfg.Grid.StraightCost),
		DiagonalCost: float32(cfg.Grid.DiagonalCost),
		Cost:         cost,
	})
}

// setupLayout places the destination, procedural terrain and teleporter
// from config.
func (g *Game) setupLayout() {
	cfg := g.cfg
	dest := cfg.Navigation.Destination
	g.nav.SetDestination(dest)

	tc := cfg.Teleporter
	fixed := tc.Enabled && g.graph.IsValidIndex(tc.First) && g.graph.IsValidIndex(tc.Second)

	if cfg.Terrain.Generate {
		keep := []int{dest}
		if fixed {
			keep = append(keep, tc.First, tc.Second)
		}
		painted := systems.GenerateTerrain(g.graph, g.terrainParams(), keep...)
		g.nav.MarkDirty()
		slog.Debug("terrain generated", "painted", painted)
	}

	switch {
	case !tc.Enabled:
		g.nav.SetTeleporter(nil)
	case fixed:
		g.nav.SetTeleporter(&systems.TeleporterPair{First: tc.First, Second: tc.Second})
	default:
		pair := systems.RandomTeleporter(g.graph, g.rng)
		g.nav.SetTeleporter(&pair)
	}
}

// applyLayout restores terrain, destination and teleporter from a snapshot.
func (g *Game) applyLayout(s *telemetry.Snapshot) error {
	if err := telemetry.ApplyTerrain(g.graph, s.Terrain); err != nil {
		return err
	}
	g.nav.MarkDirty()
	g.nav.SetDestination(s.Destination)
	if s.Teleporter != nil {
		g.nav.SetTeleporter(&systems.TeleporterPair{First: s.Teleporter[0], Second: s.Teleporter[1]})
	} else {
		g.nav.SetTeleporter(nil)
	}
	return nil
}

func (g *Game) terrainParams() systems.TerrainNoiseParams {
	return systems.TerrainNoiseParams{
		Seed:             g.rng.Int63(),
		Scale:            g.cfg.Terrain.Scale,
		SlowThreshold:    g.cfg.Terrain.SlowThreshold,
		BlockedThreshold: g.cfg.Terrain.BlockedThreshold,
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Navigator returns the navigator steering the agents.
func (g *Game) Navigator() *systems.Navigator {
	return g.nav
}

// Graph returns the navigation grid.
func (g *Game) Graph() *systems.Graph {
	return g.graph
}

// AgentCount returns the number of live agents.
func (g *Game) AgentCount() int {
	return g.agentCount
}

// ArrivedCount returns how many agents were at the destination after the last tick.
func (g *Game) ArrivedCount() int {
	return g.arrivedCount
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// SetPaused pauses or resumes the simulation.
func (g *Game) SetPaused(paused bool) {
	g.paused = paused
}

// Unload releases resources and closes output files.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output manager", "error", err)
		}
	}
}
