package game

import (
	"fmt"

	"github.com/pthm-cable/pasture/config"
	"github.com/pthm-cable/pasture/organism"
)

// FromConfig builds the roster and the predator described by cfg. Options
// left at zero take their values from cfg.
func FromConfig(cfg *config.Config, opts Options) (*Simulation, error) {
	population, err := NewRoster(cfg.Roster)
	if err != nil {
		return nil, err
	}

	predator, err := organism.NewPredator(organism.PredatorParams{
		MinReserve:       cfg.Predator.MinReserve,
		OptReserve:       cfg.Predator.OptReserve,
		SacrificeAgeDays: cfg.Predator.SacrificeAgeDays,
		InitialReserve:   cfg.Predator.InitialReserve,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: predator: %w", config.ErrInvalidConfig, err)
	}

	if opts.Seed == 0 {
		opts.Seed = cfg.Simulation.Seed
	}
	if opts.FirstOffspringID == 0 {
		opts.FirstOffspringID = cfg.Derived.FirstOffspringID
	}
	if opts.StatsWindowDays == 0 {
		opts.StatsWindowDays = cfg.Simulation.StatsWindowDays
	}
	if opts.HistorySize == 0 {
		opts.HistorySize = cfg.Telemetry.HistorySize
	}
	if opts.BookmarkHistorySize == 0 {
		opts.BookmarkHistorySize = cfg.Telemetry.BookmarkHistorySize
	}
	if opts.CrashDropPercent == 0 {
		opts.CrashDropPercent = cfg.Bookmarks.PreyCrash.DropPercent
	}
	if opts.CrashMinDrop == 0 {
		opts.CrashMinDrop = cfg.Bookmarks.PreyCrash.MinDrop
	}

	return NewSimulation(population, predator, opts), nil
}

// NewRoster converts roster entries into prey, in order.
func NewRoster(entries []config.RosterEntry) ([]organism.Organism, error) {
	population := make([]organism.Organism, 0, len(entries))
	for i, e := range entries {
		species, err := organism.ParseSpecies(e.Species)
		if err != nil {
			return nil, fmt.Errorf("%w: roster[%d]: %w", config.ErrInvalidConfig, i, err)
		}
		sex, err := organism.ParseSex(e.Sex)
		if err != nil {
			return nil, fmt.Errorf("%w: roster[%d]: %w", config.ErrInvalidConfig, i, err)
		}
		prey, err := organism.NewPrey(organism.PreyParams{
			ID:           e.ID,
			Species:      species,
			Sex:          sex,
			DiseaseOnset: e.DiseaseOnset,
			DiseaseDeath: e.DiseaseDeath,
			AgeDays:      e.AgeDays,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: roster[%d]: %w", config.ErrInvalidConfig, i, err)
		}
		population = append(population, prey)
	}
	return population, nil
}
