package organism

import (
	"fmt"
	"math"
	"math/rand"
)

// weightEpsilon is the tolerance under which two candidate weights count as tied.
const weightEpsilon = 0x1p-52

// PredatorParams configures the predator.
type PredatorParams struct {
	MinReserve       float64 // minimum daily intake, kg
	OptReserve       float64 // daily intake the predator hunts for, kg
	SacrificeAgeDays int     // prey younger than this are ignored
	InitialReserve   float64 // banked surplus at day 0, kg
}

// Predator is the single hunter. It lives outside the prey population.
type Predator struct {
	minReserve       float64
	optReserve       float64
	reserve          float64
	sacrificeAgeDays int
	sick             bool
	consumedToday    float64
}

// HuntResult describes the outcome of one Hunt call.
type HuntResult struct {
	Killed  bool
	PreyID  uint32
	Species Species
	Weight  float64 // full weight of the killed prey
	Eaten   float64 // part counted toward today's intake
	Banked  float64 // surplus added to the reserve
	Tied    int     // number of candidates sharing the maximum weight
}

// Solvency describes the outcome of the end-of-day check.
type Solvency struct {
	Shortfall   float64 // minimum minus consumed, 0 when the minimum was met
	Drawn       float64 // reserve used to cover the shortfall
	WentDown    bool    // the predator fell sick on this check
	AlreadySick bool    // the predator was sick when the check began
	Recovered   bool    // a sick predator met its requirement
}

// NewPredator validates p and builds a healthy predator.
func NewPredator(p PredatorParams) (*Predator, error) {
	switch {
	case p.MinReserve < 0 || math.IsNaN(p.MinReserve):
		return nil, fmt.Errorf("%w: min reserve %v", ErrInvalidParameter, p.MinReserve)
	case p.OptReserve < 0 || math.IsNaN(p.OptReserve):
		return nil, fmt.Errorf("%w: optimal reserve %v", ErrInvalidParameter, p.OptReserve)
	case p.InitialReserve < 0 || math.IsNaN(p.InitialReserve):
		return nil, fmt.Errorf("%w: initial reserve %v", ErrInvalidParameter, p.InitialReserve)
	case p.SacrificeAgeDays < 0:
		return nil, fmt.Errorf("%w: sacrifice age %d", ErrInvalidParameter, p.SacrificeAgeDays)
	}
	return &Predator{
		minReserve:       p.MinReserve,
		optReserve:       p.OptReserve,
		reserve:          p.InitialReserve,
		sacrificeAgeDays: p.SacrificeAgeDays,
	}, nil
}

// Reserve returns the banked surplus.
func (p *Predator) Reserve() float64 { return p.reserve }

// ConsumedToday returns the intake accumulated since BeginDay.
func (p *Predator) ConsumedToday() float64 { return p.consumedToday }

// MinReserve returns the minimum daily intake.
func (p *Predator) MinReserve() float64 { return p.minReserve }

// OptReserve returns the daily intake target.
func (p *Predator) OptReserve() float64 { return p.optReserve }

// SacrificeAgeDays returns the minimum age of huntable prey.
func (p *Predator) SacrificeAgeDays() int { return p.sacrificeAgeDays }

// Sick reports whether the predator failed its last solvency check.
func (p *Predator) Sick() bool { return p.sick }

// BeginDay resets today's intake.
func (p *Predator) BeginDay() {
	p.consumedToday = 0
}

// Hunt kills at most one prey from population and returns the population
// without it. The heaviest eligible prey is chosen, ties broken at random.
// Whatever exceeds today's remaining target is banked into the reserve.
func (p *Predator) Hunt(population []Organism, rng *rand.Rand) ([]Organism, HuntResult) {
	var res HuntResult
	if p.consumedToday >= p.optReserve {
		return population, res
	}

	idx, tied := p.choosePrey(population, rng)
	if idx < 0 {
		return population, res
	}

	prey := population[idx]
	weight := prey.Weight()
	remaining := p.optReserve - p.consumedToday

	res.Killed = true
	res.Weight = weight
	res.Tied = tied
	res.Species, _ = prey.Species()
	if x, ok := prey.(*Prey); ok {
		res.PreyID = x.ID()
	}

	if weight <= remaining {
		p.consumedToday += weight
		res.Eaten = weight
	} else {
		p.consumedToday += remaining
		p.reserve += weight - remaining
		res.Eaten = remaining
		res.Banked = weight - remaining
	}

	copy(population[idx:], population[idx+1:])
	population[len(population)-1] = nil
	return population[:len(population)-1], res
}

// choosePrey returns the index of the selected candidate (or -1) and the size
// of the tied heaviest group.
func (p *Predator) choosePrey(population []Organism, rng *rand.Rand) (int, int) {
	maxWeight := math.Inf(-1)
	found := false
	for _, o := range population {
		if !p.huntable(o) {
			continue
		}
		found = true
		if w := o.Weight(); w > maxWeight {
			maxWeight = w
		}
	}
	if !found {
		return -1, 0
	}

	heaviest := make([]int, 0, 4)
	for i, o := range population {
		if p.huntable(o) && math.Abs(o.Weight()-maxWeight) < weightEpsilon {
			heaviest = append(heaviest, i)
		}
	}
	return heaviest[rng.Intn(len(heaviest))], len(heaviest)
}

func (p *Predator) huntable(o Organism) bool {
	if _, ok := o.Species(); !ok {
		return false
	}
	age, ok := o.Age()
	return ok && age >= p.sacrificeAgeDays
}

// EndDay checks today's intake against the minimum. A shortfall is drawn from
// the reserve when it suffices and the day counts as met at the minimum;
// otherwise the predator is sick. Meeting the requirement clears sickness.
func (p *Predator) EndDay() Solvency {
	s := Solvency{AlreadySick: p.sick}
	if p.consumedToday >= p.minReserve {
		p.sick = false
		s.Recovered = s.AlreadySick
		return s
	}

	shortfall := p.minReserve - p.consumedToday
	s.Shortfall = shortfall
	if p.reserve >= shortfall {
		p.reserve -= shortfall
		p.consumedToday = p.minReserve
		p.sick = false
		s.Drawn = shortfall
		s.Recovered = s.AlreadySick
		return s
	}

	s.WentDown = !p.sick
	p.sick = true
	return s
}

// AgeOneDay implements Organism; the predator does not age.
func (p *Predator) AgeOneDay() {}

// Offspring implements Organism; the predator never reproduces.
func (p *Predator) Offspring(*rand.Rand, []Organism, *IDSource) []Organism { return nil }

// Weight implements Organism.
func (p *Predator) Weight() float64 { return 0 }

// Alive implements Organism.
func (p *Predator) Alive() bool { return !p.sick }

// Name implements Organism.
func (p *Predator) Name() string { return "Predator" }

func (p *Predator) Species() (Species, bool)      { return 0, false }
func (p *Predator) IsMale() (bool, bool)          { return false, false }
func (p *Predator) DiseaseOnset() (float64, bool) { return 0, false }
func (p *Predator) DiseaseDeath() (float64, bool) { return 0, false }
func (p *Predator) Age() (int, bool)              { return 0, false }

// ResolveDisease implements Organism; the predator only sickens by starving.
func (p *Predator) ResolveDisease(*rand.Rand) bool { return false }

func (p *Predator) sealed() {}
