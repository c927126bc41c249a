package dice

import (
	"math"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/hog/rules"
)

func mustPrecompute(t *testing.T) *Set {
	t.Helper()
	s, err := Precompute(rules.DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSingleD6(t *testing.T) {
	is := is.New(t)
	s := mustPrecompute(t)
	d, err := s.Lookup(6, 1)
	is.NoErr(err)
	// One d6 is uniform; the bust entry just covers the 1 face.
	is.Equal(len(d.Outcomes), 6)
	for i, out := range d.Outcomes {
		is.Equal(out.Value, i+1)
		is.True(math.Abs(out.Prob-1.0/6.0) < 1e-12)
	}
}

func TestTwoD4(t *testing.T) {
	is := is.New(t)
	s := mustPrecompute(t)
	d, err := s.Lookup(4, 2)
	is.NoErr(err)
	want := []Outcome{
		{1, 7.0 / 16.0}, // any of the 16 - 9 rolls containing a 1
		{4, 1.0 / 16.0},
		{5, 2.0 / 16.0},
		{6, 3.0 / 16.0},
		{7, 2.0 / 16.0},
		{8, 1.0 / 16.0},
	}
	is.Equal(len(d.Outcomes), len(want))
	for i, w := range want {
		is.Equal(d.Outcomes[i].Value, w.Value)
		is.True(math.Abs(d.Outcomes[i].Prob-w.Prob) < 1e-12)
	}
}

func TestNormalization(t *testing.T) {
	is := is.New(t)
	r := rules.DefaultRules()
	s := mustPrecompute(t)
	for _, sides := range r.Sides() {
		for k := 1; k <= r.MaxRolls; k++ {
			d, err := s.Lookup(sides, k)
			is.NoErr(err)
			is.True(math.Abs(d.TotalMass()-1) < 1e-9)
			for _, out := range d.Outcomes {
				is.True(out.Prob >= 0)
				is.True(out.Value >= 1)
			}
		}
	}
}

func TestMean(t *testing.T) {
	is := is.New(t)
	s := mustPrecompute(t)
	// Exact expected turn scores: bust probability times the bust score,
	// plus the non-bust sums. For 3d6 that is (91 + 1500)/216 = 7.36574.
	type tc struct {
		sides, rolls int
		mean         float64
	}
	cases := []tc{
		{6, 1, 3.5},
		{6, 2, 211.0 / 36.0},
		{6, 3, 1591.0 / 216.0},
		{4, 1, 2.5},
		{4, 2, 61.0 / 16.0},
	}
	for _, c := range cases {
		d, err := s.Lookup(c.sides, c.rolls)
		is.NoErr(err)
		is.True(math.Abs(d.Mean()-c.mean) < 1e-9)
	}
}

func TestBustProbabilityGrows(t *testing.T) {
	is := is.New(t)
	r := rules.DefaultRules()
	s := mustPrecompute(t)
	for _, sides := range r.Sides() {
		prev := 0.0
		for k := 1; k <= r.MaxRolls; k++ {
			d, _ := s.Lookup(sides, k)
			is.Equal(d.Outcomes[0].Value, r.BustScore)
			is.True(d.Outcomes[0].Prob > prev)
			prev = d.Outcomes[0].Prob
		}
	}
}

func TestLookupErrors(t *testing.T) {
	is := is.New(t)
	s := mustPrecompute(t)
	_, err := s.Lookup(8, 1)
	is.True(err != nil)
	_, err = s.Lookup(6, 0)
	is.True(err != nil)
	_, err = s.Lookup(6, 11)
	is.True(err != nil)
}
