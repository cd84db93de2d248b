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

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Predator   PredatorConfig   `yaml:"predator"`
	Roster     []RosterEntry    `yaml:"roster"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`
	Screen     ScreenConfig     `yaml:"screen"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimulationConfig holds run-level settings.
type SimulationConfig struct {
	Days             int    `yaml:"days"`               // days to simulate (0 = unlimited in graphical mode)
	Seed             int64  `yaml:"seed"`               // RNG seed (0 = time-based)
	FirstOffspringID uint32 `yaml:"first_offspring_id"` // first id handed to newborns
	StatsWindowDays  int    `yaml:"stats_window_days"`  // days aggregated per telemetry record
}

// PredatorConfig holds the predator's energy policy.
type PredatorConfig struct {
	MinReserve       float64 `yaml:"min_reserve"`
	OptReserve       float64 `yaml:"opt_reserve"`
	SacrificeAgeDays int     `yaml:"sacrifice_age_days"`
	InitialReserve   float64 `yaml:"initial_reserve"`
}

// RosterEntry describes one individual of the initial stock.
type RosterEntry struct {
	ID           uint32  `yaml:"id"`
	Species      string  `yaml:"species"`
	Sex          string  `yaml:"sex"`
	DiseaseOnset float64 `yaml:"disease_onset"`
	DiseaseDeath float64 `yaml:"disease_death"`
	AgeDays      int     `yaml:"age_days,omitempty"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	HistorySize         int `yaml:"history_size"`          // days kept for the population chart
	BookmarkHistorySize int `yaml:"bookmark_history_size"` // records kept for crash detection
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	PreyCrash PreyCrashConfig `yaml:"prey_crash"`
}

// PreyCrashConfig holds prey crash detection parameters.
type PreyCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width        int `yaml:"width"`
	Height       int `yaml:"height"`
	TargetFPS    int `yaml:"target_fps"`
	DaysPerFrame int `yaml:"days_per_frame"`
	Slots        int `yaml:"slots"` // fixed drawing positions for prey squares
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MaxRosterID      uint32 // highest id in the initial stock
	FirstOffspringID uint32 // Simulation.FirstOffspringID raised above MaxRosterID
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

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the natural domain constraints of every section.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Simulation.Days < 0 {
		fail("simulation.days must be >= 0, got %d", c.Simulation.Days)
	}
	if c.Simulation.StatsWindowDays < 0 {
		fail("simulation.stats_window_days must be >= 0, got %d", c.Simulation.StatsWindowDays)
	}

	p := c.Predator
	if p.MinReserve < 0 {
		fail("predator.min_reserve must be >= 0, got %v", p.MinReserve)
	}
	if p.OptReserve < 0 {
		fail("predator.opt_reserve must be >= 0, got %v", p.OptReserve)
	}
	if p.InitialReserve < 0 {
		fail("predator.initial_reserve must be >= 0, got %v", p.InitialReserve)
	}
	if p.SacrificeAgeDays < 0 {
		fail("predator.sacrifice_age_days must be >= 0, got %d", p.SacrificeAgeDays)
	}

	seen := make(map[uint32]bool, len(c.Roster))
	for i, r := range c.Roster {
		if seen[r.ID] {
			fail("roster[%d]: duplicate id %d", i, r.ID)
		}
		seen[r.ID] = true

		switch strings.ToLower(strings.TrimSpace(r.Species)) {
		case "cow", "goat", "rabbit":
		default:
			fail("roster[%d]: unknown species %q", i, r.Species)
		}
		switch strings.ToLower(strings.TrimSpace(r.Sex)) {
		case "male", "m", "female", "f":
		default:
			fail("roster[%d]: unknown sex %q", i, r.Sex)
		}
		if !(r.DiseaseOnset >= 0 && r.DiseaseOnset <= 1) {
			fail("roster[%d]: disease_onset %v not in [0,1]", i, r.DiseaseOnset)
		}
		if !(r.DiseaseDeath >= 0 && r.DiseaseDeath <= 1) {
			fail("roster[%d]: disease_death %v not in [0,1]", i, r.DiseaseDeath)
		}
		if r.AgeDays < 0 {
			fail("roster[%d]: age_days must be >= 0, got %d", i, r.AgeDays)
		}
	}

	if c.Bookmarks.PreyCrash.DropPercent < 0 || c.Bookmarks.PreyCrash.DropPercent > 1 {
		fail("bookmarks.prey_crash.drop_percent %v not in [0,1]", c.Bookmarks.PreyCrash.DropPercent)
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		fail("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	var maxID uint32
	for _, r := range c.Roster {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	c.Derived.MaxRosterID = maxID

	first := c.Simulation.FirstOffspringID
	if first == 0 {
		first = 1000
	}
	if len(c.Roster) > 0 && first <= maxID {
		first = maxID + 1
	}
	c.Derived.FirstOffspringID = first

	if c.Simulation.StatsWindowDays == 0 {
		c.Simulation.StatsWindowDays = 1
	}
	if c.Screen.DaysPerFrame <= 0 {
		c.Screen.DaysPerFrame = 1
	}
	if c.Screen.Slots <= 0 {
		c.Screen.Slots = 100
	}
	if c.Telemetry.HistorySize <= 0 {
		c.Telemetry.HistorySize = 500
	}
}

// YAML returns the configuration encoded as YAML.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Roster = append([]RosterEntry(nil), c.Roster...)
	return &cp
}
