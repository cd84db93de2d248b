package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartDay()
		pc.StartPhase(PhaseAging)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseHunt)
		time.Sleep(200 * time.Microsecond)
		pc.EndDay()
	}

	stats := pc.Stats()
	if stats.AvgDayDuration <= 0 {
		t.Error("expected positive average day duration")
	}
	if stats.DaysPerSecond <= 0 {
		t.Error("expected positive days per second")
	}
	if stats.PhasePct[PhaseHunt] <= stats.PhasePct[PhaseAging] {
		t.Errorf("expected hunt (%v%%) > aging (%v%%)", stats.PhasePct[PhaseHunt], stats.PhasePct[PhaseAging])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgDayDuration != 0 {
		t.Error("expected zero avg day duration for empty collector")
	}
	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgDayDuration: 1500 * time.Microsecond,
		PhasePct:       map[string]float64{PhaseReproduction: 40, PhaseSolvency: 5},
	}
	row := s.ToCSV(12)
	if row.Day != 12 || row.AvgDayUS != 1500 || row.ReproductionPct != 40 || row.SolvencyPct != 5 {
		t.Errorf("unexpected row %+v", row)
	}
}
