package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the day pipeline.
const (
	PhaseAging        = "aging"
	PhaseReproduction = "reproduction"
	PhaseHunt         = "hunt"
	PhaseSolvency     = "solvency"
	PhaseTelemetry    = "telemetry"
)

var phases = []string{PhaseAging, PhaseReproduction, PhaseHunt, PhaseSolvency, PhaseTelemetry}

// PerfSample holds timing data for a single day step.
type PerfSample struct {
	DayDuration time.Duration
	Phases      map[string]time.Duration
}

// PerfCollector tracks day-step timing over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	dayStart      time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a collector averaging over windowSize days.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartDay begins timing a new day step.
func (p *PerfCollector) StartDay() {
	p.dayStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a phase, closing the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndDay finishes timing the current day and records the sample.
func (p *PerfCollector) EndDay() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		DayDuration: now.Sub(p.dayStart),
		Phases:      p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgDayDuration time.Duration
	MaxDayDuration time.Duration
	PhasePct       map[string]float64
	DaysPerSecond  float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{PhasePct: make(map[string]float64)}
	if p.sampleCount == 0 {
		return out
	}

	var total time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.DayDuration
		if s.DayDuration > out.MaxDayDuration {
			out.MaxDayDuration = s.DayDuration
		}
		for phase, d := range s.Phases {
			phaseSum[phase] += d
		}
	}

	out.AvgDayDuration = total / time.Duration(p.sampleCount)
	if total > 0 {
		for phase, sum := range phaseSum {
			out.PhasePct[phase] = float64(sum) / float64(total) * 100
		}
	}
	if out.AvgDayDuration > 0 {
		out.DaysPerSecond = float64(time.Second) / float64(out.AvgDayDuration)
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_day_us", s.AvgDayDuration.Microseconds(),
		"max_day_us", s.MaxDayDuration.Microseconds(),
		"days_per_sec", int(s.DaysPerSecond),
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Day             int     `csv:"day"`
	AvgDayUS        int64   `csv:"avg_day_us"`
	MaxDayUS        int64   `csv:"max_day_us"`
	DaysPerSec      float64 `csv:"days_per_sec"`
	AgingPct        float64 `csv:"aging_pct"`
	ReproductionPct float64 `csv:"reproduction_pct"`
	HuntPct         float64 `csv:"hunt_pct"`
	SolvencyPct     float64 `csv:"solvency_pct"`
	TelemetryPct    float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(day int) PerfStatsCSV {
	return PerfStatsCSV{
		Day:             day,
		AvgDayUS:        s.AvgDayDuration.Microseconds(),
		MaxDayUS:        s.MaxDayDuration.Microseconds(),
		DaysPerSec:      s.DaysPerSecond,
		AgingPct:        s.PhasePct[PhaseAging],
		ReproductionPct: s.PhasePct[PhaseReproduction],
		HuntPct:         s.PhasePct[PhaseHunt],
		SolvencyPct:     s.PhasePct[PhaseSolvency],
		TelemetryPct:    s.PhasePct[PhaseTelemetry],
	}
}
