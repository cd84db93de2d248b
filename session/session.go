// Package session wires a configured simulation to its outputs for one run
// of the command line tool.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/pasture/config"
	"github.com/pthm-cable/pasture/game"
	"github.com/pthm-cable/pasture/telemetry"
)

// ErrNoDayLimit is returned for a headless run that could never end.
var ErrNoDayLimit = errors.New("headless run needs a day limit or stop-on-starve")

// Options mirrors the command line flags. Zero values defer to the config.
type Options struct {
	ConfigPath   string
	Headless     bool
	Days         int
	Seed         int64
	LogStats     bool
	StatsWindow  int
	OutputDir    string
	DBPath       string
	StopOnStarve bool
}

// Session owns a simulation together with its CSV output and run store.
type Session struct {
	Config *config.Config
	Sim    *game.Simulation
	RunID  string

	opts    Options
	output  *telemetry.OutputManager
	store   *telemetry.Store
	starved bool
	closed  bool
}

// Open loads the config, opens the outputs and builds the simulation.
// Anything opened before a failure is closed again.
func Open(opts Options) (_ *Session, err error) {
	if err := config.Init(opts.ConfigPath); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg().Clone()
	if opts.Days > 0 {
		cfg.Simulation.Days = opts.Days
	}
	if opts.StatsWindow > 0 {
		cfg.Simulation.StatsWindowDays = opts.StatsWindow
	}
	if opts.Headless && cfg.Simulation.Days == 0 && !opts.StopOnStarve {
		return nil, ErrNoDayLimit
	}

	s := &Session{Config: cfg, RunID: telemetry.NewRunID(), opts: opts}
	defer func() {
		if err != nil {
			if cerr := s.Close(); cerr != nil {
				slog.Error("failed to close partial session", "error", cerr)
			}
		}
	}()

	s.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := s.output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if opts.DBPath != "" {
		s.store, err = telemetry.OpenStore(opts.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening store %s: %w", opts.DBPath, err)
		}
	}

	s.Sim, err = game.FromConfig(cfg, game.Options{
		Seed:                 opts.Seed,
		LogStats:             opts.LogStats,
		Output:               s.output,
		Store:                s.store,
		RunID:                s.RunID,
		PredatorDownCallback: func(int) { s.starved = true },
	})
	if err != nil {
		return nil, fmt.Errorf("building simulation: %w", err)
	}

	if s.store != nil {
		yamlText, yerr := cfg.YAML()
		if yerr != nil {
			slog.Error("failed to encode config", "error", yerr)
		}
		run := telemetry.RunInfo{ID: s.RunID, Seed: s.Sim.Seed(), ConfigYAML: string(yamlText)}
		if err := s.store.BeginRun(run); err != nil {
			slog.Error("failed to record run", "error", err)
		}
	}
	return s, nil
}

// RunHeadless advances the simulation to the day limit, or until the
// predator goes down when StopOnStarve is set, and logs the summary.
func (s *Session) RunHeadless() {
	days := s.Config.Simulation.Days
	slog.Info("starting headless simulation",
		"seed", s.Sim.Seed(),
		"run_id", s.RunID,
		"days", days,
		"stats_window", s.Config.Simulation.StatsWindowDays,
		"population", len(s.Sim.Population()),
	)

	for days == 0 || s.Sim.Day() < days {
		s.Sim.AdvanceOneDay()
		if s.opts.StopOnStarve && s.starved {
			slog.Info("predator down, stopping", "day", s.Sim.Day())
			break
		}
	}
	s.Sim.Summary().Log()
}

// Close flushes the partial stats window and closes the outputs. It is safe
// to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.Sim != nil {
		s.Sim.Close()
	}
	var errs []error
	if err := s.output.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing output: %w", err))
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing store: %w", err))
		}
	}
	return errors.Join(errs...)
}
