// Package organism defines the population members of the simulation: prey of three
// species and the single predator, behind one shared per-day lifecycle contract.
package organism

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

var (
	// ErrInvalidParameter is returned when a constructor receives a value outside its domain.
	ErrInvalidParameter = errors.New("organism: invalid parameter")
	// ErrUnknownSpecies is returned by ParseSpecies for names it does not recognise.
	ErrUnknownSpecies = errors.New("organism: unknown species")
	// ErrUnknownSex is returned by ParseSex for names it does not recognise.
	ErrUnknownSex = errors.New("organism: unknown sex")
)

// Species identifies a prey species.
type Species uint8

const (
	Cow Species = iota
	Goat
	Rabbit
)

// AllSpecies lists every prey species in display order.
func AllSpecies() []Species {
	return []Species{Cow, Goat, Rabbit}
}

// String returns the display name for a species.
func (s Species) String() string {
	switch s {
	case Cow:
		return "Cow"
	case Goat:
		return "Goat"
	case Rabbit:
		return "Rabbit"
	default:
		return "Unknown"
	}
}

func (s Species) valid() bool {
	return s <= Rabbit
}

// ParseSpecies converts a case-insensitive species name.
func ParseSpecies(name string) (Species, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cow":
		return Cow, nil
	case "goat":
		return Goat, nil
	case "rabbit":
		return Rabbit, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSpecies, name)
}

// Sex of a prey individual.
type Sex uint8

const (
	Male Sex = iota
	Female
)

// String returns the display name for a sex.
func (s Sex) String() string {
	switch s {
	case Male:
		return "Male"
	case Female:
		return "Female"
	default:
		return "Unknown"
	}
}

// ParseSex converts a case-insensitive sex name ("male"/"m", "female"/"f").
func ParseSex(name string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "male", "m":
		return Male, nil
	case "female", "f":
		return Female, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSex, name)
}

// Organism is the lifecycle contract shared by every population member.
// The only implementations are *Prey and *Predator.
//
// The optional accessors return ok == false when the variant has no such
// attribute; the predator has none of them.
type Organism interface {
	// AgeOneDay advances the organism's age by exactly one day.
	AgeOneDay()
	// Offspring proposes newborns given a read-only view of the population.
	// It must not mutate the receiver or the population.
	Offspring(rng *rand.Rand, population []Organism, ids *IDSource) []Organism
	Weight() float64
	Alive() bool
	Name() string

	Species() (Species, bool)
	IsMale() (bool, bool)
	DiseaseOnset() (float64, bool)
	DiseaseDeath() (float64, bool)
	Age() (int, bool)

	// ResolveDisease runs the daily disease step and reports whether the organism died.
	ResolveDisease(rng *rand.Rand) bool

	sealed()
}

// View is a read-only description of an organism for rendering and reporting.
type View struct {
	ID   uint32
	Name string

	Species    Species
	HasSpecies bool
	Male       bool
	HasSex     bool
	AgeDays    int
	HasAge     bool

	Weight float64
	Sick   bool
}

// Describe builds a View of o.
func Describe(o Organism) View {
	v := View{
		Name:   o.Name(),
		Weight: o.Weight(),
	}
	v.Species, v.HasSpecies = o.Species()
	v.Male, v.HasSex = o.IsMale()
	v.AgeDays, v.HasAge = o.Age()

	switch x := o.(type) {
	case *Prey:
		v.ID = x.ID()
		v.Sick = x.Sick()
	case *Predator:
		v.Sick = x.Sick()
	}
	return v
}

// IDSource hands out monotonically increasing identifiers for newborns.
type IDSource struct {
	next uint32
}

// NewIDSource returns a source whose first identifier is first.
func NewIDSource(first uint32) *IDSource {
	return &IDSource{next: first}
}

// Next returns a fresh identifier.
func (s *IDSource) Next() uint32 {
	id := s.next
	s.next++
	return id
}

// Peek returns the identifier Next would return without consuming it.
func (s *IDSource) Peek() uint32 {
	return s.next
}

// bernoulli draws a trial with success probability p.
func bernoulli(rng *rand.Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return rng.Float64() < p
}

// uniformInt draws an integer uniformly from [lo, hi].
func uniformInt(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func validProbability(p float64) bool {
	return p >= 0 && p <= 1
}
