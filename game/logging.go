package game

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// LogValue implements slog.LogValuer for structured logging.
func (r DayReport) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("day", r.Day),
		slog.Int("population", r.Population),
	}
	for _, name := range sortedNames(r.Counts) {
		attrs = append(attrs, slog.Int(strings.ToLower(name), r.Counts[name]))
	}
	attrs = append(attrs,
		slog.Int("births", r.Births),
		slog.Int("deaths_age", r.DeathsAge),
		slog.Int("deaths_disease", r.DeathsDisease),
		slog.Bool("killed", r.Hunt.Killed),
		slog.Bool("predator_alive", r.PredatorAlive),
		slog.Float64("reserve", r.Reserve),
		slog.Float64("consumed", r.Consumed),
	)
	return slog.GroupValue(attrs...)
}

func sortedNames(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// logDay writes the daily report at debug level and each kill when stats
// logging is on.
func (s *Simulation) logDay(r DayReport) {
	slog.Debug("day", "report", r)

	if s.logStats && r.Hunt.Killed {
		slog.Info("kill",
			"day", r.Day,
			"prey_id", r.Hunt.PreyID,
			"species", r.Hunt.Species.String(),
			"weight", r.Hunt.Weight,
			"eaten", r.Hunt.Eaten,
			"banked", r.Hunt.Banked,
			"tied", r.Hunt.Tied,
		)
	}
}

func (s *Simulation) logPredatorRecovered(r DayReport) {
	slog.Info("predator recovered",
		"day", r.Day,
		"consumed", r.Consumed,
		"reserve", r.Reserve,
	)
}

func (s *Simulation) logPredatorDown(r DayReport) {
	slog.Warn("predator down",
		"day", r.Day,
		"shortfall", r.Solvency.Shortfall,
		"reserve", r.Reserve,
		"population", r.Population,
	)
}

// Summary holds whole-run totals.
type Summary struct {
	Seed            int64
	Days            int
	Population      int
	Counts          map[string]int
	PredatorAlive   bool
	PredatorDownDay int // 0 while the predator is alive
	Reserve         float64
	Births          int
	DeathsAge       int
	DeathsDisease   int
	Kills           int
	Eaten           float64
	Banked          float64
	Drawn           float64
}

// Summary returns totals for the run so far.
func (s *Simulation) Summary() Summary {
	return Summary{
		Seed:            s.seed,
		Days:            s.day,
		Population:      len(s.population),
		Counts:          s.Census(),
		PredatorAlive:   s.predator.Alive(),
		PredatorDownDay: s.totals.predatorDownDay,
		Reserve:         s.predator.Reserve(),
		Births:          s.totals.births,
		DeathsAge:       s.totals.deathsAge,
		DeathsDisease:   s.totals.deathsDisease,
		Kills:           s.totals.kills,
		Eaten:           s.totals.eaten,
		Banked:          s.totals.banked,
		Drawn:           s.totals.drawn,
	}
}

// Log writes the summary with human-friendly numbers.
func (sm Summary) Log() {
	attrs := []any{
		"seed", sm.Seed,
		"days", humanize.Comma(int64(sm.Days)),
		"population", sm.Population,
	}
	for _, name := range sortedNames(sm.Counts) {
		attrs = append(attrs, strings.ToLower(name), sm.Counts[name])
	}
	attrs = append(attrs,
		"predator_alive", sm.PredatorAlive,
		"reserve_kg", humanize.Commaf(roundTenth(sm.Reserve)),
		"births", humanize.Comma(int64(sm.Births)),
		"deaths_age", sm.DeathsAge,
		"deaths_disease", sm.DeathsDisease,
		"kills", humanize.Comma(int64(sm.Kills)),
		"eaten_kg", humanize.Commaf(roundTenth(sm.Eaten)),
		"banked_kg", humanize.Commaf(roundTenth(sm.Banked)),
		"drawn_kg", humanize.Commaf(roundTenth(sm.Drawn)),
	)
	if !sm.PredatorAlive {
		attrs = append(attrs, "predator_down_day", sm.PredatorDownDay)
	}
	slog.Info("summary", attrs...)
}

func roundTenth(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
