// Package policy holds the solved strategy tables and their persistence
// format. The tables are written exactly once by the solver and read-only
// afterward; downstream consumers query them through the accessors here.
package policy

import "fmt"

// Tables are the two dense goal x goal tables the solver produces, indexed
// by (current mover's score, opponent's score).
type Tables struct {
	Goal     int
	WinProb  [][]float64
	BestRoll [][]int
}

// New allocates zeroed tables for a race to `goal`.
func New(goal int) *Tables {
	t := &Tables{
		Goal:     goal,
		WinProb:  make([][]float64, goal),
		BestRoll: make([][]int, goal),
	}
	for i := 0; i < goal; i++ {
		t.WinProb[i] = make([]float64, goal)
		t.BestRoll[i] = make([]int, goal)
	}
	return t
}

func (t *Tables) checkState(score, oppScore int) error {
	if score < 0 || score >= t.Goal || oppScore < 0 || oppScore >= t.Goal {
		return fmt.Errorf("state (%d, %d) outside [0, %d]; terminal states are not stored",
			score, oppScore, t.Goal-1)
	}
	return nil
}

// BestRollAt returns the optimal number of dice to roll from the given
// state. Querying a terminal or out-of-range state is a caller error.
func (t *Tables) BestRollAt(score, oppScore int) (int, error) {
	if err := t.checkState(score, oppScore); err != nil {
		return 0, err
	}
	return t.BestRoll[score][oppScore], nil
}

// WinProbAt returns the probability that the player to move wins from the
// given state under optimal play by both sides.
func (t *Tables) WinProbAt(score, oppScore int) (float64, error) {
	if err := t.checkState(score, oppScore); err != nil {
		return 0, err
	}
	return t.WinProb[score][oppScore], nil
}
