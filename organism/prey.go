package organism

import (
	"fmt"
	"math/rand"
)

// Reproduction constants
const (
	MaturityAgeDays = 180  // females must be strictly older than this to breed
	BreedChance     = 0.01 // daily probability that an eligible female gives birth
)

// PreyParams describes a prey individual at construction.
type PreyParams struct {
	ID           uint32
	Species      Species
	Sex          Sex
	DiseaseOnset float64 // daily probability of falling sick
	DiseaseDeath float64 // daily probability of dying while sick
	AgeDays      int
}

// Prey is a herbivore. Its weight is always derived from species and age.
type Prey struct {
	id           uint32
	species      Species
	sex          Sex
	ageDays      int
	diseaseOnset float64
	diseaseDeath float64
	sick         bool
}

// NewPrey validates p and builds a healthy individual.
func NewPrey(p PreyParams) (*Prey, error) {
	if !p.Species.valid() {
		return nil, fmt.Errorf("%w: species %d", ErrInvalidParameter, p.Species)
	}
	if p.Sex != Male && p.Sex != Female {
		return nil, fmt.Errorf("%w: sex %d", ErrInvalidParameter, p.Sex)
	}
	if !validProbability(p.DiseaseOnset) {
		return nil, fmt.Errorf("%w: disease onset probability %v not in [0,1]", ErrInvalidParameter, p.DiseaseOnset)
	}
	if !validProbability(p.DiseaseDeath) {
		return nil, fmt.Errorf("%w: disease death probability %v not in [0,1]", ErrInvalidParameter, p.DiseaseDeath)
	}
	if p.AgeDays < 0 {
		return nil, fmt.Errorf("%w: negative age %d", ErrInvalidParameter, p.AgeDays)
	}
	return &Prey{
		id:           p.ID,
		species:      p.Species,
		sex:          p.Sex,
		ageDays:      p.AgeDays,
		diseaseOnset: p.DiseaseOnset,
		diseaseDeath: p.DiseaseDeath,
	}, nil
}

// ID returns the individual's identifier.
func (p *Prey) ID() uint32 { return p.id }

// Sex returns the individual's sex.
func (p *Prey) Sex() Sex { return p.sex }

// Sick reports whether the individual is currently sick.
func (p *Prey) Sick() bool { return p.sick }

// AgeOneDay implements Organism.
func (p *Prey) AgeOneDay() {
	p.ageDays++
}

// Weight implements Organism.
func (p *Prey) Weight() float64 {
	return Weight(p.species, p.ageDays)
}

// Alive implements Organism. Sickness alone never kills: a sick individual
// stays alive until its disease trial fails, even past its maximum age.
func (p *Prey) Alive() bool {
	if p.sick {
		return true
	}
	return p.ageDays < MaxAgeDays(p.species)
}

// Name implements Organism.
func (p *Prey) Name() string { return p.species.String() }

// Species implements Organism.
func (p *Prey) Species() (Species, bool) { return p.species, true }

// IsMale implements Organism.
func (p *Prey) IsMale() (bool, bool) { return p.sex == Male, true }

// DiseaseOnset implements Organism.
func (p *Prey) DiseaseOnset() (float64, bool) { return p.diseaseOnset, true }

// DiseaseDeath implements Organism.
func (p *Prey) DiseaseDeath() (float64, bool) { return p.diseaseDeath, true }

// Age implements Organism.
func (p *Prey) Age() (int, bool) { return p.ageDays, true }

// ResolveDisease implements Organism. A sick individual rolls for death;
// a healthy one rolls for onset and cannot die on the day it falls sick.
func (p *Prey) ResolveDisease(rng *rand.Rand) bool {
	if p.sick {
		return bernoulli(rng, p.diseaseDeath)
	}
	if bernoulli(rng, p.diseaseOnset) {
		p.sick = true
	}
	return false
}

// Offspring implements Organism.
func (p *Prey) Offspring(rng *rand.Rand, population []Organism, ids *IDSource) []Organism {
	if !hasMateFor(p.species, population) {
		return nil
	}
	if p.sex != Female || p.ageDays <= MaturityAgeDays || !bernoulli(rng, BreedChance) {
		return nil
	}

	lo, hi := LitterRange(p.species)
	n := lo
	if hi > lo {
		n = uniformInt(rng, lo, hi)
	}

	litter := make([]Organism, 0, n)
	for i := 0; i < n; i++ {
		sex := Female
		if rng.Intn(2) == 0 {
			sex = Male
		}
		litter = append(litter, &Prey{
			id:           ids.Next(),
			species:      p.species,
			sex:          sex,
			diseaseOnset: p.diseaseOnset,
			diseaseDeath: p.diseaseDeath,
		})
	}
	return litter
}

func (p *Prey) sealed() {}

// hasMateFor reports whether a live male of species s is present.
func hasMateFor(s Species, population []Organism) bool {
	for _, o := range population {
		sp, ok := o.Species()
		if !ok || sp != s {
			continue
		}
		if male, ok := o.IsMale(); ok && male && o.Alive() {
			return true
		}
	}
	return false
}
