// Package game runs the day-step predator/prey simulation.
package game

import (
	"math/rand"
	"time"

	"github.com/pthm-cable/pasture/organism"
	"github.com/pthm-cable/pasture/telemetry"
)

// Options configures a Simulation. Zero values select defaults.
type Options struct {
	Seed             int64      // RNG seed (0 = time-based)
	Rand             *rand.Rand // explicit source, overrides Seed
	FirstOffspringID uint32     // 0 = max(1000, highest initial id + 1)

	StatsWindowDays      int
	HistorySize          int
	BookmarkHistorySize  int
	CrashDropPercent     float64
	CrashMinDrop         int
	LogStats             bool
	StatsCallback        func(telemetry.DayStats)
	BookmarkCallback     func(telemetry.Bookmark)
	PredatorDownCallback func(day int)

	Output *telemetry.OutputManager
	Store  *telemetry.Store
	RunID  string
}

// DayReport describes the outcome of one simulated day.
type DayReport struct {
	Day        int
	Population int
	Counts     map[string]int // living prey by display name

	Births          int
	BirthsBySpecies [3]int
	DeathsAge       int
	DeathsDisease   int

	Hunt     organism.HuntResult
	Solvency organism.Solvency

	PredatorAlive bool
	Reserve       float64
	Consumed      float64
}

// totals accumulates whole-run counters for the summary.
type totals struct {
	births          int
	deathsAge       int
	deathsDisease   int
	kills           int
	eaten           float64
	banked          float64
	drawn           float64
	predatorDownDay int
}

// Simulation owns the prey population and the predator and advances them
// one day at a time. It is not safe for concurrent use: AdvanceOneDay and
// the read accessors must not run at the same time.
type Simulation struct {
	rng  *rand.Rand
	seed int64
	ids  *organism.IDSource

	population []organism.Organism
	predator   *organism.Predator
	day        int

	predatorWasAlive bool
	last             DayReport
	totals           totals

	// Telemetry
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	perfCollector    *telemetry.PerfCollector
	history          *telemetry.History
	logStats         bool
	statsCallback    func(telemetry.DayStats)
	bookmarkCallback func(telemetry.Bookmark)
	downCallback     func(day int)
	outputManager    *telemetry.OutputManager
	store            *telemetry.Store
	runID            string
}

// NewSimulation creates a simulation over population (prey only) and predator.
// The population slice is copied. predator must not be nil.
func NewSimulation(population []organism.Organism, predator *organism.Predator, opts Options) *Simulation {
	if predator == nil {
		panic("game: NewSimulation called with nil predator")
	}

	seed := opts.Seed
	rng := opts.Rand
	if rng == nil {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	first := opts.FirstOffspringID
	if first == 0 {
		first = defaultFirstOffspringID(population)
	}

	if opts.HistorySize <= 0 {
		opts.HistorySize = 500
	}
	if opts.BookmarkHistorySize <= 0 {
		opts.BookmarkHistorySize = 30
	}
	if opts.CrashDropPercent <= 0 {
		opts.CrashDropPercent = 0.5
	}
	if opts.CrashMinDrop <= 0 {
		opts.CrashMinDrop = 5
	}

	s := &Simulation{
		rng:              rng,
		seed:             seed,
		ids:              organism.NewIDSource(first),
		population:       append([]organism.Organism(nil), population...),
		predator:         predator,
		predatorWasAlive: predator.Alive(),
		collector:        telemetry.NewCollector(opts.StatsWindowDays),
		bookmarkDetector: telemetry.NewBookmarkDetector(opts.BookmarkHistorySize, opts.CrashDropPercent, opts.CrashMinDrop),
		perfCollector:    telemetry.NewPerfCollector(60),
		history:          telemetry.NewHistory(opts.HistorySize),
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
		bookmarkCallback: opts.BookmarkCallback,
		downCallback:     opts.PredatorDownCallback,
		outputManager:    opts.Output,
		store:            opts.Store,
		runID:            opts.RunID,
	}
	s.last = s.report(DayReport{})
	return s
}

// defaultFirstOffspringID returns max(1000, highest prey id + 1).
func defaultFirstOffspringID(population []organism.Organism) uint32 {
	first := uint32(1000)
	for _, o := range population {
		if p, ok := o.(*organism.Prey); ok && p.ID() >= first {
			first = p.ID() + 1
		}
	}
	return first
}

// AdvanceOneDay runs exactly one day of the pipeline and returns its report.
func (s *Simulation) AdvanceOneDay() DayReport {
	s.perfCollector.StartDay()

	s.day++
	s.predator.BeginDay()
	r := DayReport{Day: s.day}

	// Aging and disease, then a single retention pass
	s.perfCollector.StartPhase(telemetry.PhaseAging)
	survivors := s.population[:0]
	for _, o := range s.population {
		o.AgeOneDay()
		if _, ok := o.DiseaseOnset(); ok && o.ResolveDisease(s.rng) {
			r.DeathsDisease++
			continue
		}
		if !o.Alive() {
			r.DeathsAge++
			continue
		}
		survivors = append(survivors, o)
	}
	clear(s.population[len(survivors):])
	s.population = survivors

	// Reproduction against the post-cull snapshot; newborns merge afterwards
	s.perfCollector.StartPhase(telemetry.PhaseReproduction)
	snapshot := s.population
	var births []organism.Organism
	for _, o := range snapshot {
		births = append(births, o.Offspring(s.rng, snapshot, s.ids)...)
	}
	for _, b := range births {
		if sp, ok := b.Species(); ok {
			r.BirthsBySpecies[sp]++
		}
	}
	r.Births = len(births)
	s.population = append(s.population, births...)

	s.perfCollector.StartPhase(telemetry.PhaseHunt)
	s.population, r.Hunt = s.predator.Hunt(s.population, s.rng)

	s.perfCollector.StartPhase(telemetry.PhaseSolvency)
	r.Solvency = s.predator.EndDay()

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	r = s.report(r)
	s.last = r
	s.accumulate(r)
	s.recordTelemetry(r)
	s.logDay(r)
	s.notifyPredatorDown(r)
	if r.Solvency.Recovered {
		s.logPredatorRecovered(r)
	}

	s.perfCollector.EndDay()
	return r
}

// report fills the observable population and predator fields of r.
func (s *Simulation) report(r DayReport) DayReport {
	r.Day = s.day
	r.Population = len(s.population)
	r.Counts = s.Census()
	r.PredatorAlive = s.predator.Alive()
	r.Reserve = s.predator.Reserve()
	r.Consumed = s.predator.ConsumedToday()
	return r
}

func (s *Simulation) accumulate(r DayReport) {
	s.totals.births += r.Births
	s.totals.deathsAge += r.DeathsAge
	s.totals.deathsDisease += r.DeathsDisease
	if r.Hunt.Killed {
		s.totals.kills++
		s.totals.eaten += r.Hunt.Eaten
		s.totals.banked += r.Hunt.Banked
	}
	s.totals.drawn += r.Solvency.Drawn
}

// notifyPredatorDown fires once per run, on the first day the predator goes
// from alive to down. Later relapses after a recovery are only logged by the
// bookmark detector.
func (s *Simulation) notifyPredatorDown(r DayReport) {
	if !s.predatorWasAlive || r.PredatorAlive {
		return
	}
	s.predatorWasAlive = false
	s.totals.predatorDownDay = r.Day
	s.logPredatorDown(r)
	if s.downCallback != nil {
		s.downCallback(r.Day)
	}
}

// Run advances up to days days.
func (s *Simulation) Run(days int) {
	for i := 0; i < days; i++ {
		s.AdvanceOneDay()
	}
}

// Close flushes a partially filled stats window.
func (s *Simulation) Close() {
	if s.collector.Pending(s.day) {
		s.flushTelemetry()
	}
}

// Day returns the number of days simulated so far.
func (s *Simulation) Day() int { return s.day }

// Seed returns the seed of the internal source, or 0 when an explicit source was supplied.
func (s *Simulation) Seed() int64 { return s.seed }

// Population returns an ordered read-only view of the living prey.
func (s *Simulation) Population() []organism.View {
	out := make([]organism.View, len(s.population))
	for i, o := range s.population {
		out[i] = organism.Describe(o)
	}
	return out
}

// PredatorReserve returns the predator's banked reserve.
func (s *Simulation) PredatorReserve() float64 { return s.predator.Reserve() }

// PredatorAlive reports whether the predator has not starved.
func (s *Simulation) PredatorAlive() bool { return s.predator.Alive() }

// Predator returns a view of the predator.
func (s *Simulation) Predator() organism.View { return organism.Describe(s.predator) }

// ConsumedToday returns the predator's intake on the last simulated day.
func (s *Simulation) ConsumedToday() float64 { return s.predator.ConsumedToday() }

// LastReport returns the report of the most recent day.
func (s *Simulation) LastReport() DayReport { return s.last }

// History returns the ring of daily population samples.
func (s *Simulation) History() *telemetry.History { return s.history }

// Census counts living prey by display name.
func (s *Simulation) Census() map[string]int {
	counts := make(map[string]int, 3)
	for _, o := range s.population {
		counts[o.Name()]++
	}
	return counts
}
