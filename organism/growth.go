package organism

import "math"

// GrowthParams are the Gompertz constants for one species:
// weight(t) = A * exp(-B * exp(-K * t)).
type GrowthParams struct {
	A float64 // asymptotic adult weight, kg
	B float64 // displacement
	K float64 // growth rate per day
}

// speciesTraits groups the fixed per-species constants.
type speciesTraits struct {
	growth     GrowthParams
	maxAgeDays int
	litterMin  int
	litterMax  int
}

var traitsBySpecies = [...]speciesTraits{
	Cow:    {growth: GrowthParams{A: 700.0, B: 3.0, K: 0.008}, maxAgeDays: 25 * 365, litterMin: 1, litterMax: 1},
	Goat:   {growth: GrowthParams{A: 75.0, B: 2.8, K: 0.01}, maxAgeDays: 15 * 365, litterMin: 1, litterMax: 3},
	Rabbit: {growth: GrowthParams{A: 5.0, B: 2.5, K: 0.05}, maxAgeDays: 8 * 365, litterMin: 3, litterMax: 8},
}

// Growth returns the growth curve constants for a species.
func Growth(s Species) GrowthParams {
	return traitsBySpecies[s].growth
}

// MaxAgeDays returns the age at which a healthy individual of s dies of old age.
func MaxAgeDays(s Species) int {
	return traitsBySpecies[s].maxAgeDays
}

// LitterRange returns the inclusive litter size bounds for s.
func LitterRange(s Species) (lo, hi int) {
	t := traitsBySpecies[s]
	return t.litterMin, t.litterMax
}

// Weight evaluates the species growth curve at ageDays.
func Weight(s Species, ageDays int) float64 {
	return Growth(s).At(ageDays)
}

// BirthWeight is the weight of a newborn of s.
func BirthWeight(s Species) float64 {
	return Weight(s, 0)
}

// At evaluates the curve at ageDays.
func (g GrowthParams) At(ageDays int) float64 {
	t := float64(ageDays)
	return g.A * math.Exp(-g.B*math.Exp(-g.K*t))
}
