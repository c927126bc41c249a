// Package dice precomputes exact turn-outcome distributions for every
// (die sides, number of rolls) pair the game can produce. The solver treats
// the resulting Set as read-only shared data.
package dice

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"

	"github.com/domino14/hog/rules"
)

// massTolerance is how far a distribution's total probability may stray
// from 1.
const massTolerance = 1e-9

// Outcome is one possible turn score and its exact probability.
type Outcome struct {
	Value int
	Prob  float64
}

// Distribution is the exact probability mass function over turn scores for
// a fixed number of rolls of a fixed die. Outcomes are sorted ascending by
// value, so iterating them sums probabilities in a deterministic order. The
// aggregated bust outcome, when present, is the first entry.
type Distribution struct {
	Sides    int
	Rolls    int
	Outcomes []Outcome
}

// TotalMass sums the outcome probabilities; it should be 1 for any
// well-formed distribution.
func (d *Distribution) TotalMass() float64 {
	ps := make([]float64, len(d.Outcomes))
	for i, out := range d.Outcomes {
		ps[i] = out.Prob
	}
	return floats.Sum(ps)
}

// Mean is the exact expected turn score.
func (d *Distribution) Mean() float64 {
	m := 0.0
	for _, out := range d.Outcomes {
		m += float64(out.Value) * out.Prob
	}
	return m
}

// Set is an immutable lookup table of distributions, indexed by
// (sides, rolls). The key space is tiny and fully known up front, so it is
// laid out as a two-dimensional slice rather than a keyed map.
type Set struct {
	maxRolls int
	sidesIdx map[int]int
	dists    [][]*Distribution // [sidesIndex][rolls]; rolls entry 0 is unused
}

// Precompute builds the full distribution set for a rule set. Each
// distribution's total mass is verified to be 1 within tolerance; a
// violation aborts construction.
func Precompute(r *rules.GameRules) (*Set, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	sides := r.Sides()
	s := &Set{
		maxRolls: r.MaxRolls,
		sidesIdx: make(map[int]int, len(sides)),
		dists:    make([][]*Distribution, len(sides)),
	}
	for i, d := range sides {
		s.sidesIdx[d] = i
		s.dists[i] = make([]*Distribution, r.MaxRolls+1)
		for k := 1; k <= r.MaxRolls; k++ {
			dist := convolve(r, d, k)
			if mass := dist.TotalMass(); math.Abs(mass-1) > massTolerance {
				return nil, fmt.Errorf(
					"distribution for d%d x%d has total mass %v", d, k, mass)
			}
			s.dists[i][k] = dist
		}
	}
	return s, nil
}

// convolve computes the exact distribution for k rolls of a d-sided die.
// Any roll containing the bust face scores BustScore, so that probability
// mass is aggregated into a single outcome up front; the remaining outcomes
// are the sums of k independent uniform draws from the non-bust faces,
// built by iterative convolution over integer counts.
func convolve(r *rules.GameRules, d, k int) *Distribution {
	total := ipow(int64(d), k)
	noBust := ipow(int64(d-1), k)

	ways := map[int]int64{0: 1}
	for i := 0; i < k; i++ {
		next := make(map[int]int64, len(ways)*(d-1))
		for sum, count := range ways {
			for face := r.BustFace + 1; face <= d; face++ {
				next[sum+face] += count
			}
		}
		ways = next
	}

	outcomes := make([]Outcome, 0, len(ways)+1)
	if bustProb := float64(total-noBust) / float64(total); bustProb > 0 {
		outcomes = append(outcomes, Outcome{Value: r.BustScore, Prob: bustProb})
	}
	sums := lo.Keys(ways)
	sort.Ints(sums)
	for _, sum := range sums {
		outcomes = append(outcomes, Outcome{
			Value: sum,
			Prob:  float64(ways[sum]) / float64(total),
		})
	}
	return &Distribution{Sides: d, Rolls: k, Outcomes: outcomes}
}

// Lookup returns the distribution for rolling `rolls` dice with `sides`
// sides.
func (s *Set) Lookup(sides, rolls int) (*Distribution, error) {
	i, ok := s.sidesIdx[sides]
	if !ok {
		return nil, fmt.Errorf("no distributions for %d-sided dice", sides)
	}
	if rolls < 1 || rolls > s.maxRolls {
		return nil, fmt.Errorf("roll count %d out of range [1, %d]", rolls, s.maxRolls)
	}
	return s.dists[i][rolls], nil
}

// MaxRolls is the largest roll count in the set.
func (s *Set) MaxRolls() int {
	return s.maxRolls
}

func ipow(base int64, exp int) int64 {
	p := int64(1)
	for i := 0; i < exp; i++ {
		p *= base
	}
	return p
}
