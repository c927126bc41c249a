// Package rules defines the Hog rule set as a single value object. Both the
// distribution precomputer and the solver take their constants from here
// rather than hard-coding them, so alternate rule sets can be tested in
// isolation.
package rules

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// GameRules holds every constant the game depends on. The zero value is not
// usable; start from DefaultRules or Load.
type GameRules struct {
	// Goal is the score a player must reach to win the race.
	Goal int `yaml:"goal"`
	// MaxRolls is the largest number of dice a player may roll in one turn.
	MaxRolls int `yaml:"max_rolls"`
	// BustFace is the die face that collapses the turn (Pig Out). It must be
	// the lowest face, since the non-bust faces are taken to be the
	// contiguous range above it.
	BustFace int `yaml:"bust_face"`
	// BustScore is the score awarded for a turn containing a bust face.
	BustScore int `yaml:"bust_score"`
	// SwapFactor triggers the Swine Swap: scores are exchanged after a turn
	// when one is exactly SwapFactor times the other.
	SwapFactor int `yaml:"swap_factor"`
	// WildModulus selects the wild die: when the combined score is a
	// multiple of this, the turn is rolled with WildSides-sided dice
	// (Hog Wild), otherwise with StandardSides-sided dice.
	WildModulus   int `yaml:"wild_modulus"`
	WildSides     int `yaml:"wild_sides"`
	StandardSides int `yaml:"standard_sides"`
}

// DefaultRules returns the canonical race-to-100 rule set.
func DefaultRules() *GameRules {
	return &GameRules{
		Goal:          100,
		MaxRolls:      10,
		BustFace:      1,
		BustScore:     1,
		SwapFactor:    2,
		WildModulus:   7,
		WildSides:     4,
		StandardSides: 6,
	}
}

// Load reads a YAML rules file. Fields absent from the file keep their
// default values.
func Load(filename string) (*GameRules, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	r := DefaultRules()
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parsing rules file %v: %w", filename, err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("rules file %v: %w", filename, err)
	}
	return r, nil
}

func (r *GameRules) Validate() error {
	if r.Goal < 2 {
		return errors.New("goal must be at least 2")
	}
	if r.MaxRolls < 1 {
		return errors.New("max_rolls must be at least 1")
	}
	if r.WildSides < 2 || r.StandardSides < 2 {
		return errors.New("dice must have at least 2 sides")
	}
	if r.BustFace != 1 {
		return errors.New("bust_face must be the lowest face (1)")
	}
	if r.BustScore < 1 || r.BustScore > r.BustFace {
		// keeps the aggregated bust outcome below every non-bust sum
		return errors.New("bust_score must be between 1 and bust_face")
	}
	if r.SwapFactor < 2 {
		return errors.New("swap_factor must be at least 2")
	}
	if r.WildModulus < 2 {
		return errors.New("wild_modulus must be at least 2")
	}
	return nil
}

// SelectSides picks the die for a turn from the pre-turn combined score of
// both players.
func (r *GameRules) SelectSides(combined int) int {
	if combined%r.WildModulus == 0 {
		return r.WildSides
	}
	return r.StandardSides
}

// FreeGain is the deterministic score for rolling zero dice (Free Bacon):
// one more than the larger digit of the opponent's score.
func (r *GameRules) FreeGain(oppScore int) int {
	ones := oppScore % 10
	tens := oppScore / 10
	if tens > ones {
		return tens + 1
	}
	return ones + 1
}

// ApplySwap exchanges the two scores when one is exactly SwapFactor times
// the other (Swine Swap). At (0, 0) both conditions hold and the exchange is
// a no-op.
func (r *GameRules) ApplySwap(score, oppScore int) (int, int) {
	if score == r.SwapFactor*oppScore || oppScore == r.SwapFactor*score {
		return oppScore, score
	}
	return score, oppScore
}

// Sides returns the distinct die side-counts in ascending order.
func (r *GameRules) Sides() []int {
	if r.WildSides == r.StandardSides {
		return []int{r.StandardSides}
	}
	s := []int{r.WildSides, r.StandardSides}
	sort.Ints(s)
	return s
}
