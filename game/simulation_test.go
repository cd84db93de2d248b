package game

import (
	"errors"
	"math"
	"math/rand"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pthm-cable/pasture/config"
	"github.com/pthm-cable/pasture/organism"
	"github.com/pthm-cable/pasture/telemetry"
)

func init() {
	config.MustInit("")
}

func newPrey(t *testing.T, p organism.PreyParams) organism.Organism {
	t.Helper()
	prey, err := organism.NewPrey(p)
	if err != nil {
		t.Fatalf("NewPrey(%+v): %v", p, err)
	}
	return prey
}

func newPredator(t *testing.T, p organism.PredatorParams) *organism.Predator {
	t.Helper()
	pred, err := organism.NewPredator(p)
	if err != nil {
		t.Fatalf("NewPredator(%+v): %v", p, err)
	}
	return pred
}

// breedingHerd returns mature rabbits of both sexes that never fall sick.
func breedingHerd(t *testing.T, females, males int) []organism.Organism {
	t.Helper()
	var pop []organism.Organism
	id := uint32(1)
	for i := 0; i < females; i++ {
		pop = append(pop, newPrey(t, organism.PreyParams{ID: id, Species: organism.Rabbit, Sex: organism.Female, AgeDays: 200}))
		id++
	}
	for i := 0; i < males; i++ {
		pop = append(pop, newPrey(t, organism.PreyParams{ID: id, Species: organism.Rabbit, Sex: organism.Male, AgeDays: 200}))
		id++
	}
	return pop
}

func TestAdvanceOneDay_WellFedPredator(t *testing.T) {
	cow := newPrey(t, organism.PreyParams{ID: 1, Species: organism.Cow, Sex: organism.Female, AgeDays: 400})
	pred := newPredator(t, organism.PredatorParams{MinReserve: 10, OptReserve: 30, SacrificeAgeDays: 280, InitialReserve: 3000})
	sim := NewSimulation([]organism.Organism{cow}, pred, Options{Seed: 1})

	r := sim.AdvanceOneDay()

	if sim.Day() != 1 || r.Day != 1 {
		t.Errorf("day = %d, want 1", sim.Day())
	}
	if !sim.PredatorAlive() {
		t.Error("predator should be alive")
	}
	if sim.ConsumedToday() != 30 {
		t.Errorf("consumed = %v, want 30", sim.ConsumedToday())
	}
	if len(sim.Population()) != 0 || r.Population != 0 {
		t.Errorf("population = %d, want 0", len(sim.Population()))
	}
	// The cow aged one day before it was hunted
	wantReserve := 3000 + organism.Weight(organism.Cow, 401) - 30
	if math.Abs(sim.PredatorReserve()-wantReserve) > 1e-9 {
		t.Errorf("reserve = %v, want %v", sim.PredatorReserve(), wantReserve)
	}
	if !r.Hunt.Killed || r.Hunt.PreyID != 1 {
		t.Errorf("unexpected hunt result %+v", r.Hunt)
	}
}

func TestAdvanceOneDay_StarvingPredator(t *testing.T) {
	tests := []struct {
		name       string
		population func(t *testing.T) []organism.Organism
	}{
		{"empty", func(t *testing.T) []organism.Organism { return nil }},
		{"juveniles only", func(t *testing.T) []organism.Organism {
			return []organism.Organism{
				newPrey(t, organism.PreyParams{ID: 1, Species: organism.Cow, Sex: organism.Male, AgeDays: 10}),
				newPrey(t, organism.PreyParams{ID: 2, Species: organism.Goat, Sex: organism.Female, AgeDays: 20}),
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := newPredator(t, organism.PredatorParams{MinReserve: 10, OptReserve: 30, SacrificeAgeDays: 280})
			pop := tt.population(t)

			var downDays []int
			sim := NewSimulation(pop, pred, Options{
				Seed:                 1,
				PredatorDownCallback: func(day int) { downDays = append(downDays, day) },
			})

			sim.AdvanceOneDay()
			if sim.PredatorAlive() {
				t.Error("predator should be down after a day without food or reserve")
			}
			if !sim.Predator().Sick {
				t.Error("predator view should report sickness")
			}
			if len(sim.Population()) != len(pop) {
				t.Errorf("population changed: %d -> %d", len(pop), len(sim.Population()))
			}

			// Without huntable prey it stays down and the notification fires once
			sim.Run(5)
			if sim.PredatorAlive() {
				t.Error("a predator with nothing to hunt should stay down")
			}
			if !reflect.DeepEqual(downDays, []int{1}) {
				t.Errorf("down notifications = %v, want [1]", downDays)
			}
			if sim.Summary().PredatorDownDay != 1 {
				t.Errorf("summary down day = %d, want 1", sim.Summary().PredatorDownDay)
			}
		})
	}
}

func TestAdvanceOneDay_StarvedPredatorRecoversWhenPreyMatures(t *testing.T) {
	// The cow reaches the sacrifice age on day 2
	cow := newPrey(t, organism.PreyParams{ID: 1, Species: organism.Cow, Sex: organism.Male, AgeDays: 278})
	pred := newPredator(t, organism.PredatorParams{MinReserve: 10, OptReserve: 30, SacrificeAgeDays: 280})

	var downDays []int
	sim := NewSimulation([]organism.Organism{cow}, pred, Options{
		Seed:                 1,
		PredatorDownCallback: func(day int) { downDays = append(downDays, day) },
	})

	r := sim.AdvanceOneDay()
	if r.PredatorAlive || r.Hunt.Killed {
		t.Fatalf("day 1: expected predator down without a kill, got %+v", r)
	}

	r = sim.AdvanceOneDay()
	if !r.Hunt.Killed || r.Hunt.PreyID != 1 {
		t.Fatalf("day 2: sick predator should hunt the matured cow, got %+v", r.Hunt)
	}
	if !r.PredatorAlive || !r.Solvency.Recovered || sim.ConsumedToday() != 30 {
		t.Errorf("day 2: expected recovery with 30 consumed, alive=%v consumed=%v", r.PredatorAlive, sim.ConsumedToday())
	}
	if len(sim.Population()) != 0 {
		t.Errorf("population = %d, want 0", len(sim.Population()))
	}
	if !reflect.DeepEqual(downDays, []int{1}) {
		t.Errorf("down notifications = %v, want [1]", downDays)
	}
}

func TestAdvanceOneDay_ReserveDrawReportsMinimumIntake(t *testing.T) {
	pred := newPredator(t, organism.PredatorParams{MinReserve: 10, OptReserve: 30, SacrificeAgeDays: 280, InitialReserve: 100})
	sim := NewSimulation(nil, pred, Options{Seed: 1})

	r := sim.AdvanceOneDay()
	if r.Consumed != 10 || r.Solvency.Drawn != 10 || r.Reserve != 90 {
		t.Errorf("consumed=%v drawn=%v reserve=%v, want 10, 10, 90", r.Consumed, r.Solvency.Drawn, r.Reserve)
	}
}

func TestAdvanceOneDay_DeterministicWithSameSource(t *testing.T) {
	run := func() (*Simulation, []DayReport) {
		sim, err := FromConfig(config.Cfg(), Options{Rand: rand.New(rand.NewSource(99))})
		if err != nil {
			t.Fatalf("FromConfig: %v", err)
		}
		var reports []DayReport
		for i := 0; i < 400; i++ {
			reports = append(reports, sim.AdvanceOneDay())
		}
		return sim, reports
	}

	a, ra := run()
	b, rb := run()

	if !reflect.DeepEqual(a.Population(), b.Population()) {
		t.Error("populations differ between identical runs")
	}
	if a.PredatorReserve() != b.PredatorReserve() || a.PredatorAlive() != b.PredatorAlive() {
		t.Error("predator state differs between identical runs")
	}
	if !reflect.DeepEqual(ra, rb) {
		t.Error("day reports differ between identical runs")
	}
}

func TestAdvanceOneDay_DeathCauses(t *testing.T) {
	pred := newPredator(t, organism.PredatorParams{MinReserve: 0, OptReserve: 30, SacrificeAgeDays: 100000})

	old := newPrey(t, organism.PreyParams{ID: 1, Species: organism.Rabbit, Sex: organism.Male, AgeDays: organism.MaxAgeDays(organism.Rabbit) - 1})
	doomed := newPrey(t, organism.PreyParams{ID: 2, Species: organism.Goat, Sex: organism.Female, DiseaseOnset: 1, DiseaseDeath: 1})
	healthy := newPrey(t, organism.PreyParams{ID: 3, Species: organism.Cow, Sex: organism.Female})

	sim := NewSimulation([]organism.Organism{old, doomed, healthy}, pred, Options{Seed: 3})

	r := sim.AdvanceOneDay()
	if r.DeathsAge != 1 || r.DeathsDisease != 0 {
		t.Errorf("day 1: deaths age=%d disease=%d, want 1/0", r.DeathsAge, r.DeathsDisease)
	}
	// The goat fell sick on day 1 but is not culled for it
	if r.Population != 2 {
		t.Errorf("day 1 population = %d, want 2", r.Population)
	}

	r = sim.AdvanceOneDay()
	if r.DeathsDisease != 1 || r.DeathsAge != 0 {
		t.Errorf("day 2: deaths age=%d disease=%d, want 0/1", r.DeathsAge, r.DeathsDisease)
	}
	if r.Population != 1 || r.Counts["Cow"] != 1 {
		t.Errorf("only the cow should remain, counts=%v", r.Counts)
	}
}

func TestAdvanceOneDay_Births(t *testing.T) {
	pred := newPredator(t, organism.PredatorParams{MinReserve: 0, OptReserve: 30, SacrificeAgeDays: 100000})
	pop := breedingHerd(t, 20, 2)
	sim := NewSimulation(pop, pred, Options{Seed: 11})

	seen := map[uint32]bool{}
	for _, v := range sim.Population() {
		seen[v.ID] = true
	}

	totalBirths := 0
	for day := 0; day < 150; day++ {
		before := len(sim.Population())
		r := sim.AdvanceOneDay()

		newborns := 0
		for _, v := range sim.Population() {
			if v.AgeDays == 0 {
				newborns++
				if seen[v.ID] {
					t.Fatalf("day %d: id %d reused", r.Day, v.ID)
				}
				if v.ID < 1000 {
					t.Fatalf("day %d: offspring id %d collides with roster space", r.Day, v.ID)
				}
				seen[v.ID] = true
			}
		}
		if newborns != r.Births {
			t.Fatalf("day %d: %d newborns in population, report says %d", r.Day, newborns, r.Births)
		}

		// Population accounting
		want := before - r.DeathsAge - r.DeathsDisease + r.Births
		if r.Hunt.Killed {
			want--
		}
		if r.Population != want {
			t.Fatalf("day %d: population %d, want %d", r.Day, r.Population, want)
		}
		totalBirths += r.Births
	}

	if totalBirths == 0 {
		t.Error("expected some births from a mature herd over 150 days")
	}
	if sim.Summary().Births != totalBirths {
		t.Errorf("summary births = %d, want %d", sim.Summary().Births, totalBirths)
	}
}

func TestAdvanceOneDay_NewbornsNotHuntedWithPositiveThreshold(t *testing.T) {
	pred := newPredator(t, organism.PredatorParams{MinReserve: 0, OptReserve: 1e9, SacrificeAgeDays: 1})
	pop := breedingHerd(t, 40, 4)
	sim := NewSimulation(pop, pred, Options{Seed: 5})

	kills := 0
	for i := 0; i < 60; i++ {
		present := map[uint32]bool{}
		for _, v := range sim.Population() {
			present[v.ID] = true
		}

		r := sim.AdvanceOneDay()
		if !r.Hunt.Killed {
			continue
		}
		kills++
		if !present[r.Hunt.PreyID] {
			t.Fatalf("day %d: prey %d was hunted on its birth day", r.Day, r.Hunt.PreyID)
		}
	}
	if kills < 44 {
		t.Errorf("kills = %d, expected at least the initial herd to be hunted", kills)
	}
}

func TestSimulation_FirstOffspringIDAboveRoster(t *testing.T) {
	pred := newPredator(t, organism.PredatorParams{MinReserve: 0, OptReserve: 1})
	pop := []organism.Organism{
		newPrey(t, organism.PreyParams{ID: 1500, Species: organism.Goat, Sex: organism.Female, AgeDays: 300}),
	}
	if got := defaultFirstOffspringID(pop); got != 1501 {
		t.Errorf("first offspring id = %d, want 1501", got)
	}
	if got := defaultFirstOffspringID(nil); got != 1000 {
		t.Errorf("first offspring id = %d, want 1000", got)
	}
	_ = NewSimulation(pop, pred, Options{Seed: 1})
}

func TestSimulation_PopulationIsACopy(t *testing.T) {
	pred := newPredator(t, organism.PredatorParams{MinReserve: 0, OptReserve: 1})
	pop := breedingHerd(t, 2, 1)
	sim := NewSimulation(pop, pred, Options{Seed: 1})

	pop[0] = nil
	views := sim.Population()
	if len(views) != 3 || views[0].ID != 1 {
		t.Fatalf("simulation should own its population copy: %+v", views)
	}
	views[0].ID = 77
	if sim.Population()[0].ID != 1 {
		t.Error("views must not alias simulation state")
	}
}

func TestSimulation_StatsWindows(t *testing.T) {
	var stats []telemetry.DayStats
	sim, err := FromConfig(config.Cfg(), Options{
		Seed:            4,
		StatsWindowDays: 2,
		StatsCallback:   func(s telemetry.DayStats) { stats = append(stats, s) },
	})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	sim.Run(5)
	if len(stats) != 2 {
		t.Fatalf("got %d windows after 5 days, want 2", len(stats))
	}
	sim.Close()
	if len(stats) != 3 || stats[2].WindowStartDay != 4 || stats[2].Day != 5 {
		t.Fatalf("Close should flush the partial window, got %+v", stats)
	}
	if stats[0].Population+stats[0].Deaths()-stats[0].Births != 6 {
		t.Errorf("first window does not balance against the 6-animal roster: %+v", stats[0])
	}
	if sim.History().Len() != 5 {
		t.Errorf("history has %d samples, want 5", sim.History().Len())
	}
}

func TestSimulation_WritesOutputAndStore(t *testing.T) {
	dir := t.TempDir()
	om, err := telemetry.NewOutputManager(filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	store, err := telemetry.OpenStore(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	runID := telemetry.NewRunID()
	sim, err := FromConfig(config.Cfg(), Options{Seed: 8, Output: om, Store: store, RunID: runID})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	sim.Run(10)
	sim.Close()

	stored, err := store.LoadDayStats(runID)
	if err != nil {
		t.Fatalf("LoadDayStats: %v", err)
	}
	if len(stored) != 10 {
		t.Fatalf("stored %d days, want 10", len(stored))
	}
	if stored[9].Day != 10 || stored[9].Population != sim.LastReport().Population {
		t.Errorf("last stored day %+v does not match report %+v", stored[9], sim.LastReport())
	}
}

func TestFromConfig(t *testing.T) {
	sim, err := FromConfig(config.Cfg(), Options{Seed: 1})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	census := sim.Census()
	if census["Cow"] != 2 || census["Goat"] != 2 || census["Rabbit"] != 2 {
		t.Errorf("unexpected census %v", census)
	}
	if sim.PredatorReserve() != 3000 || sim.Day() != 0 {
		t.Errorf("unexpected initial state: reserve=%v day=%d", sim.PredatorReserve(), sim.Day())
	}
	if sim.Seed() != 1 {
		t.Errorf("seed = %d, want 1", sim.Seed())
	}

	bad := config.Default()
	bad.Roster[0].Species = "wolf"
	if _, err := FromConfig(bad, Options{}); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	bad = config.Default()
	bad.Predator.OptReserve = -1
	_, err = FromConfig(bad, Options{})
	if !errors.Is(err, config.ErrInvalidConfig) || !errors.Is(err, organism.ErrInvalidParameter) {
		t.Errorf("expected wrapped ErrInvalidConfig and ErrInvalidParameter, got %v", err)
	}
}
