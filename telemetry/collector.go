// Package telemetry provides population tracking, bookmarking and run history output.
package telemetry

import "github.com/pthm-cable/pasture/organism"

// DeathCause identifies why a prey left the population.
type DeathCause uint8

const (
	CauseAge DeathCause = iota
	CauseDisease
	CausePredation
	numCauses
)

// String returns the cause name used in logs and CSV output.
func (c DeathCause) String() string {
	switch c {
	case CauseAge:
		return "age"
	case CauseDisease:
		return "disease"
	case CausePredation:
		return "predation"
	default:
		return "unknown"
	}
}

// DaySample is the end-of-day state handed to Flush.
type DaySample struct {
	Counts        [3]int // living prey by organism.Species
	Sick          int
	Weights       []float64
	PredatorAlive bool
	Reserve       float64
	Consumed      float64
}

// Total returns the number of living prey.
func (s DaySample) Total() int {
	return s.Counts[organism.Cow] + s.Counts[organism.Goat] + s.Counts[organism.Rabbit]
}

// Collector accumulates events within windows of whole days and produces DayStats.
type Collector struct {
	windowDays     int
	windowStartDay int

	// Event counters for current window
	births [3]int
	deaths [numCauses]int
	kills  int
	eaten  float64
	banked float64
	drawn  float64
}

// NewCollector creates a collector flushing every windowDays days.
func NewCollector(windowDays int) *Collector {
	if windowDays < 1 {
		windowDays = 1
	}
	return &Collector{windowDays: windowDays}
}

// RecordBirth records one newborn of species s.
func (c *Collector) RecordBirth(s organism.Species) {
	if int(s) < len(c.births) {
		c.births[s]++
	}
}

// RecordDeath records one prey death.
func (c *Collector) RecordDeath(cause DeathCause) {
	if cause < numCauses {
		c.deaths[cause]++
	}
}

// RecordKill records a successful hunt and how its weight was split.
func (c *Collector) RecordKill(eaten, banked float64) {
	c.kills++
	c.eaten += eaten
	c.banked += banked
}

// RecordDraw records reserve used to cover a shortfall.
func (c *Collector) RecordDraw(amount float64) {
	c.drawn += amount
}

// ShouldFlush returns true once the current window spans windowDays days.
func (c *Collector) ShouldFlush(day int) bool {
	return day-c.windowStartDay >= c.windowDays
}

// Pending reports whether any day has elapsed since the last flush.
func (c *Collector) Pending(day int) bool {
	return day > c.windowStartDay
}

// Flush produces a DayStats for the window ending at day and resets counters.
func (c *Collector) Flush(day int, sample DaySample) DayStats {
	biomass, mean, std, p50, p90 := ComputeWeightStats(sample.Weights)

	stats := DayStats{
		WindowStartDay: c.windowStartDay,
		Day:            day,

		Population: sample.Total(),
		Cows:       sample.Counts[organism.Cow],
		Goats:      sample.Counts[organism.Goat],
		Rabbits:    sample.Counts[organism.Rabbit],
		Sick:       sample.Sick,

		BirthsCow:    c.births[organism.Cow],
		BirthsGoat:   c.births[organism.Goat],
		BirthsRabbit: c.births[organism.Rabbit],
		Births:       c.births[organism.Cow] + c.births[organism.Goat] + c.births[organism.Rabbit],

		DeathsAge:       c.deaths[CauseAge],
		DeathsDisease:   c.deaths[CauseDisease],
		DeathsPredation: c.deaths[CausePredation],

		Kills:  c.kills,
		Eaten:  c.eaten,
		Banked: c.banked,
		Drawn:  c.drawn,

		PredatorAlive: sample.PredatorAlive,
		Reserve:       sample.Reserve,
		Consumed:      sample.Consumed,

		Biomass:    biomass,
		WeightMean: mean,
		WeightStd:  std,
		WeightP50:  p50,
		WeightP90:  p90,
	}

	// Reset for next window
	c.windowStartDay = day
	c.births = [3]int{}
	c.deaths = [numCauses]int{}
	c.kills = 0
	c.eaten = 0
	c.banked = 0
	c.drawn = 0

	return stats
}

// WindowDays returns the number of days per window.
func (c *Collector) WindowDays() int {
	return c.windowDays
}
