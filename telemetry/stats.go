package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DayStats holds aggregated statistics for a window of days.
type DayStats struct {
	RunID          string `csv:"-" db:"run_id"`
	WindowStartDay int    `csv:"window_start" db:"window_start"`
	Day            int    `csv:"day" db:"day"`

	// Population at window end
	Population int `csv:"population" db:"population"`
	Cows       int `csv:"cows" db:"cows"`
	Goats      int `csv:"goats" db:"goats"`
	Rabbits    int `csv:"rabbits" db:"rabbits"`
	Sick       int `csv:"sick" db:"sick"`

	// Events during window
	Births          int `csv:"births" db:"births"`
	BirthsCow       int `csv:"births_cow" db:"births_cow"`
	BirthsGoat      int `csv:"births_goat" db:"births_goat"`
	BirthsRabbit    int `csv:"births_rabbit" db:"births_rabbit"`
	DeathsAge       int `csv:"deaths_age" db:"deaths_age"`
	DeathsDisease   int `csv:"deaths_disease" db:"deaths_disease"`
	DeathsPredation int `csv:"deaths_predation" db:"deaths_predation"`

	// Hunting and reserve flow (kg)
	Kills  int     `csv:"kills" db:"kills"`
	Eaten  float64 `csv:"eaten" db:"eaten"`
	Banked float64 `csv:"banked" db:"banked"`
	Drawn  float64 `csv:"drawn" db:"drawn"`

	// Predator state at window end
	PredatorAlive bool    `csv:"predator_alive" db:"predator_alive"`
	Reserve       float64 `csv:"reserve" db:"reserve"`
	Consumed      float64 `csv:"consumed" db:"consumed"`

	// Weight distribution of living prey
	Biomass    float64 `csv:"biomass" db:"biomass"`
	WeightMean float64 `csv:"weight_mean" db:"weight_mean"`
	WeightStd  float64 `csv:"weight_std" db:"weight_std"`
	WeightP50  float64 `csv:"weight_p50" db:"weight_p50"`
	WeightP90  float64 `csv:"weight_p90" db:"weight_p90"`
}

// Deaths returns the total prey deaths during the window.
func (s DayStats) Deaths() int {
	return s.DeathsAge + s.DeathsDisease + s.DeathsPredation
}

// ComputeWeightStats returns total, mean, standard deviation and the
// empirical median and 90th percentile of the given weights.
func ComputeWeightStats(weights []float64) (biomass, mean, std, p50, p90 float64) {
	n := len(weights)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	biomass = floats.Sum(weights)
	if n == 1 {
		return biomass, weights[0], 0, weights[0], weights[0]
	}
	mean, std = stat.MeanStdDev(weights, nil)

	sorted := make([]float64, n)
	copy(sorted, weights)
	sort.Float64s(sorted)

	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)

	return biomass, mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s DayStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("day", s.Day),
		slog.Int("population", s.Population),
		slog.Int("cows", s.Cows),
		slog.Int("goats", s.Goats),
		slog.Int("rabbits", s.Rabbits),
		slog.Int("sick", s.Sick),
		slog.Int("births", s.Births),
		slog.Int("deaths_age", s.DeathsAge),
		slog.Int("deaths_disease", s.DeathsDisease),
		slog.Int("deaths_predation", s.DeathsPredation),
		slog.Int("kills", s.Kills),
		slog.Float64("eaten", s.Eaten),
		slog.Float64("banked", s.Banked),
		slog.Float64("drawn", s.Drawn),
		slog.Bool("predator_alive", s.PredatorAlive),
		slog.Float64("reserve", s.Reserve),
		slog.Float64("consumed", s.Consumed),
		slog.Float64("biomass", s.Biomass),
		slog.Float64("weight_mean", s.WeightMean),
		slog.Float64("weight_std", s.WeightStd),
		slog.Float64("weight_p50", s.WeightP50),
		slog.Float64("weight_p90", s.WeightP90),
	)
}

// LogStats logs the window stats using slog.
func (s DayStats) LogStats() {
	slog.Info("stats",
		"day", s.Day,
		"population", s.Population,
		"cows", s.Cows,
		"goats", s.Goats,
		"rabbits", s.Rabbits,
		"sick", s.Sick,
		"births", s.Births,
		"deaths", s.Deaths(),
		"kills", s.Kills,
		"banked", s.Banked,
		"drawn", s.Drawn,
		"predator_alive", s.PredatorAlive,
		"reserve", s.Reserve,
		"biomass", s.Biomass,
	)
}
