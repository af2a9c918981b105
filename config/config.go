// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Grid       GridConfig       `yaml:"grid"`
	Navigation NavigationConfig `yaml:"navigation"`
	Traffic    TrafficConfig    `yaml:"traffic"`
	Agents     AgentsConfig     `yaml:"agents"`
	Steering   SteeringConfig   `yaml:"steering"`
	Teleporter TeleporterConfig `yaml:"teleporter"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Logging    LoggingConfig    `yaml:"logging"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// GridConfig holds navigation grid construction parameters.
type GridConfig struct {
	Columns      int     `yaml:"columns"`
	Rows         int     `yaml:"rows"`
	CellSize     float64 `yaml:"cell_size"`
	Directed     bool    `yaml:"directed"`
	Diagonal     bool    `yaml:"diagonal"`
	StraightCost float64 `yaml:"straight_cost"`
	DiagonalCost float64 `yaml:"diagonal_cost"`
	TerrainCosts bool    `yaml:"terrain_costs"` // false = plain costs, terrain only toggles connectivity
}

// NavigationConfig holds solver settings.
type NavigationConfig struct {
	OpenList    string `yaml:"open_list"`    // "linear" or "heap"
	Destination int    `yaml:"destination"`  // initial destination node, -1 = last node
	DrawFlow    bool   `yaml:"draw_flow"`
	DrawCosts   bool   `yaml:"draw_costs"`
}

// TrafficConfig holds traffic overlay parameters.
type TrafficConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Multiplier float64 `yaml:"multiplier"`
}

// AgentsConfig holds agent population parameters.
type AgentsConfig struct {
	Count         int     `yaml:"count"`
	Radius        float64 `yaml:"radius"`
	MaxSpeed      float64 `yaml:"max_speed"`
	SlowDivisor   float64 `yaml:"slow_divisor"`   // speed is divided by this on slow terrain
	ArriveRadius  float64 `yaml:"arrive_radius"`  // distance from destination centre that counts as arrived
	RespawnOnEdit bool    `yaml:"respawn_on_edit"`
}

// SteeringConfig holds blended steering weights.
type SteeringConfig struct {
	SeekWeight   float64 `yaml:"seek_weight"`
	FleeWeight   float64 `yaml:"flee_weight"`
	FleeRadius   float64 `yaml:"flee_radius"`   // obstacle must be this close to trigger flee
	FleeMinAlign float64 `yaml:"flee_min_align"` // dot(heading, to-obstacle) must exceed this
}

// TeleporterConfig holds teleporter placement parameters.
type TeleporterConfig struct {
	Enabled bool `yaml:"enabled"`
	First   int  `yaml:"first"`  // -1 = random placement
	Second  int  `yaml:"second"` // -1 = random placement
}

// TerrainConfig holds procedural terrain parameters.
type TerrainConfig struct {
	Generate         bool    `yaml:"generate"`
	Scale            float64 `yaml:"scale"`
	SlowThreshold    float64 `yaml:"slow_threshold"`
	BlockedThreshold float64 `yaml:"blocked_threshold"`
}

// PhysicsConfig holds simulation timing.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level     string `yaml:"level"`  // debug, info, warn, error
	Format    string `yaml:"format"` // json or text
	AddSource bool   `yaml:"add_source"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32       float32 // Physics.DT as float32
	CellSize32 float32 // Grid.CellSize as float32
	ScreenW32  float32 // Screen.Width as float32
	ScreenH32  float32 // Screen.Height as float32
	WorldW32   float32 // Grid.Columns * CellSize
	WorldH32   float32 // Grid.Rows * CellSize
	NodeCount  int     // Grid.Columns * Grid.Rows
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates c and recomputes derived values. Call it after
// changing fields in code.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Validate checks values the simulation cannot run with.
func (c *Config) Validate() error {
	var problems []string
	if c.Grid.Columns <= 0 || c.Grid.Rows <= 0 {
		problems = append(problems, fmt.Sprintf("grid must be at least 1x1, got %dx%d", c.Grid.Columns, c.Grid.Rows))
	}
	if c.Grid.CellSize <= 0 {
		problems = append(problems, fmt.Sprintf("grid.cell_size must be positive, got %v", c.Grid.CellSize))
	}
	if c.Grid.StraightCost <= 0 || c.Grid.DiagonalCost <= 0 {
		problems = append(problems, "grid costs must be positive")
	}
	if c.Agents.Count < 0 {
		problems = append(problems, fmt.Sprintf("agents.count must not be negative, got %d", c.Agents.Count))
	}
	if c.Agents.SlowDivisor <= 0 {
		problems = append(problems, "agents.slow_divisor must be positive")
	}
	if c.Physics.DT <= 0 {
		problems = append(problems, "physics.dt must be positive")
	}
	switch strings.ToLower(c.Navigation.OpenList) {
	case "", "linear", "heap":
	default:
		problems = append(problems, fmt.Sprintf("navigation.open_list must be linear or heap, got %q", c.Navigation.OpenList))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.CellSize32 = float32(c.Grid.CellSize)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.WorldW32 = float32(c.Grid.Columns) * c.Derived.CellSize32
	c.Derived.WorldH32 = float32(c.Grid.Rows) * c.Derived.CellSize32
	c.Derived.NodeCount = c.Grid.Columns * c.Grid.Rows

	// A negative multiplier would make crowded cells cheaper.
	if c.Traffic.Multiplier < 0 {
		c.Traffic.Multiplier = 0
	}
	if c.Navigation.Destination < 0 || c.Navigation.Destination >= c.Derived.NodeCount {
		c.Navigation.Destination = c.Derived.NodeCount - 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
