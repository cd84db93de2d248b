package game

import (
	"log/slog"

	"github.com/pthm-cable/pasture/organism"
	"github.com/pthm-cable/pasture/telemetry"
)

// recordTelemetry feeds the day's events to the collector and history and
// flushes the stats window when it is due.
func (s *Simulation) recordTelemetry(r DayReport) {
	for sp, n := range r.BirthsBySpecies {
		for i := 0; i < n; i++ {
			s.collector.RecordBirth(organism.Species(sp))
		}
	}
	for i := 0; i < r.DeathsAge; i++ {
		s.collector.RecordDeath(telemetry.CauseAge)
	}
	for i := 0; i < r.DeathsDisease; i++ {
		s.collector.RecordDeath(telemetry.CauseDisease)
	}
	if r.Hunt.Killed {
		s.collector.RecordDeath(telemetry.CausePredation)
		s.collector.RecordKill(r.Hunt.Eaten, r.Hunt.Banked)
	}
	if r.Solvency.Drawn > 0 {
		s.collector.RecordDraw(r.Solvency.Drawn)
	}

	sample := telemetry.Sample{
		Day:           r.Day,
		Reserve:       r.Reserve,
		PredatorAlive: r.PredatorAlive,
	}
	for _, o := range s.population {
		if sp, ok := o.Species(); ok {
			sample.Counts[sp]++
		}
	}
	s.history.Add(sample)

	if s.collector.ShouldFlush(s.day) {
		s.flushTelemetry()
	}
}

// samplePopulation collects the end-of-day state for a stats flush.
func (s *Simulation) samplePopulation() telemetry.DaySample {
	sample := telemetry.DaySample{
		Weights:       make([]float64, 0, len(s.population)),
		PredatorAlive: s.predator.Alive(),
		Reserve:       s.predator.Reserve(),
		Consumed:      s.predator.ConsumedToday(),
	}
	for _, o := range s.population {
		if sp, ok := o.Species(); ok {
			sample.Counts[sp]++
		}
		if p, ok := o.(*organism.Prey); ok && p.Sick() {
			sample.Sick++
		}
		sample.Weights = append(sample.Weights, o.Weight())
	}
	return sample
}

// flushTelemetry closes the stats window and handles bookmarks.
func (s *Simulation) flushTelemetry() {
	stats := s.collector.Flush(s.day, s.samplePopulation())
	perfStats := s.perfCollector.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.outputManager != nil {
		if err := s.outputManager.WriteDayStats(stats); err != nil {
			slog.Error("failed to write day stats", "error", err)
		}
		if err := s.outputManager.WritePerf(perfStats, s.day); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
	if s.store != nil {
		if err := s.store.WriteDayStats(s.runID, stats); err != nil {
			slog.Error("failed to store day stats", "error", err)
		}
	}

	for _, bm := range s.bookmarkDetector.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if s.bookmarkCallback != nil {
			s.bookmarkCallback(bm)
		}
		if s.outputManager != nil {
			if err := s.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
		if s.store != nil {
			if err := s.store.WriteBookmark(s.runID, bm); err != nil {
				slog.Error("failed to store bookmark", "error", err)
			}
		}
	}
}
