// Package solver computes the optimal Hog policy by exact backward
// induction. No simulation and no randomness anywhere: every state's win
// probability is derived from the precomputed outcome distributions and the
// already-solved states it can reach.
package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/hog/dice"
	"github.com/domino14/hog/policy"
	"github.com/domino14/hog/rules"
)

// Solver fills the policy tables for a rule set from a precomputed
// distribution set. The distribution set is treated as read-only shared
// data, so one solver per goroutine is not required; one Solve call uses
// up to `threads` workers internally.
type Solver struct {
	rules   *rules.GameRules
	dists   *dice.Set
	threads int
}

func New(r *rules.GameRules, ds *dice.Set) *Solver {
	return &Solver{rules: r, dists: ds, threads: 1}
}

// SetThreads sets the number of workers used within each combined-score
// level. The solved tables are identical for any thread count; states in
// the same level have no dependency on one another.
func (s *Solver) SetThreads(threads int) {
	if threads < 1 {
		threads = 1
	}
	s.threads = threads
}

// Solve runs the full backward sweep and returns the solved tables.
//
// States are processed in strictly decreasing order of combined score.
// Every outcome awards at least a point and a swap only exchanges the two
// sides, so every successor has a strictly higher combined score than the
// state that reached it. By the time a state is evaluated everything it can
// reach is already solved; the solved bitmap turns that claim into a
// checked invariant instead of loop-order trust.
func (s *Solver) Solve(ctx context.Context) (*policy.Tables, error) {
	start := time.Now()
	goal := s.rules.Goal
	tables := policy.New(goal)
	solved := make([]bool, goal*goal)

	for total := 2 * (goal - 1); total >= 0; total-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		first := max(0, total-(goal-1))
		last := min(goal-1, total)

		g := errgroup.Group{}
		g.SetLimit(s.threads)
		for score := first; score <= last; score++ {
			score := score
			g.Go(func() error {
				return s.evaluate(tables, solved, score, total-score)
			})
		}
		// barrier: the next level down reads this level's entries
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	log.Info().
		Int("goal", goal).
		Int("threads", s.threads).
		Dur("elapsed", time.Since(start)).
		Msg("solved full state space")
	return tables, nil
}

// evaluate solves a single state: it scores all legal actions and stores
// the best. Actions are scanned in increasing roll-count order with a
// strictly-greater comparison, so exact ties keep the earliest action; in
// particular the free action beats any roll that does no better. Downstream
// tables depend on this exact tie-break.
func (s *Solver) evaluate(t *policy.Tables, solved []bool, score, oppScore int) error {
	sides := s.rules.SelectSides(score + oppScore)

	bestProb := -1.0
	bestRoll := 0
	for roll := 0; roll <= s.dists.MaxRolls(); roll++ {
		var prob float64
		var err error
		if roll == 0 {
			prob, err = s.freeActionValue(t, solved, score, oppScore)
		} else {
			prob, err = s.rollActionValue(t, solved, score, oppScore, sides, roll)
		}
		if err != nil {
			return err
		}
		// Summation noise can push an action whose every outcome wins a few
		// ulps past 1 (or an always-losing one below 0), which would let it
		// edge out the free action's exact 1.0. Probabilities stay
		// probabilities.
		prob = clamp01(prob)
		if prob > bestProb {
			bestProb = prob
			bestRoll = roll
		}
	}

	t.WinProb[score][oppScore] = bestProb
	t.BestRoll[score][oppScore] = bestRoll
	solved[score*t.Goal+oppScore] = true
	return nil
}

// freeActionValue resolves the deterministic zero-dice action.
func (s *Solver) freeActionValue(t *policy.Tables, solved []bool, score, oppScore int) (float64, error) {
	newScore, newOpp := s.rules.ApplySwap(score+s.rules.FreeGain(oppScore), oppScore)
	return s.successorValue(t, solved, newScore, newOpp)
}

// rollActionValue computes the expected win probability of rolling `roll`
// dice: the outcome-probability-weighted value of each resulting state.
func (s *Solver) rollActionValue(t *policy.Tables, solved []bool, score, oppScore, sides, roll int) (float64, error) {
	dist, err := s.dists.Lookup(sides, roll)
	if err != nil {
		return 0, err
	}
	expected := 0.0
	for _, out := range dist.Outcomes {
		newScore, newOpp := s.rules.ApplySwap(score+out.Value, oppScore)
		v, err := s.successorValue(t, solved, newScore, newOpp)
		if err != nil {
			return 0, err
		}
		expected += out.Prob * v
	}
	return expected, nil
}

// successorValue is the mover's win probability after landing on
// (newScore, newOpp), swap already applied. The mover's own goal is checked
// first: a swap can push the opponent past the goal in the same action.
// Non-terminal successors hand the turn over, so the stored entry is looked
// up from the next mover's perspective and inverted.
func (s *Solver) successorValue(t *policy.Tables, solved []bool, newScore, newOpp int) (float64, error) {
	if newScore >= s.rules.Goal {
		return 1.0, nil
	}
	if newOpp >= s.rules.Goal {
		return 0.0, nil
	}
	if !solved[newOpp*t.Goal+newScore] {
		return 0, fmt.Errorf("state (%d, %d) read before being solved; sweep order is broken",
			newOpp, newScore)
	}
	return 1.0 - t.WinProb[newOpp][newScore], nil
}

func clamp01(x float64) float64 {
	if x < 0.0 {
		return 0.0
	}
	if x > 1.0 {
		return 1.0
	}
	return x
}
