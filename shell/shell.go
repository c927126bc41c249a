// Package shell is a small interactive front end over the solver: solve the
// state space, query states, save and load policy tables.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/hog/config"
	"github.com/domino14/hog/dice"
	"github.com/domino14/hog/policy"
	"github.com/domino14/hog/rules"
	"github.com/domino14/hog/solver"
)

var errNoTables = errors.New("no solved tables; run `solve` or `load` first")

type Controller struct {
	cfg    *config.Config
	rules  *rules.GameRules
	dists  *dice.Set
	tables *policy.Tables
}

func NewController(cfg *config.Config, r *rules.GameRules) (*Controller, error) {
	ds, err := dice.Precompute(r)
	if err != nil {
		return nil, err
	}
	return &Controller{cfg: cfg, rules: r, dists: ds}, nil
}

// Tables exposes the current solved tables (nil until solve/load).
func (c *Controller) Tables() *policy.Tables {
	return c.tables
}

// Solve fills the tables and returns how long the sweep took.
func (c *Controller) Solve(ctx context.Context) (time.Duration, error) {
	s := solver.New(c.rules, c.dists)
	s.SetThreads(c.cfg.Threads)
	start := time.Now()
	tables, err := s.Solve(ctx)
	if err != nil {
		return 0, err
	}
	c.tables = tables
	return time.Since(start), nil
}

// Execute runs a single command line and returns its output.
func (c *Controller) Execute(ctx context.Context, line string) (string, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return "", err
	}
	if len(fields) == 0 {
		return "", nil
	}
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "solve":
		elapsed, err := c.Solve(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("solved %d states in %v", c.rules.Goal*c.rules.Goal, elapsed), nil
	case "best":
		return c.queryState(args, func(s, o int) (string, error) {
			roll, err := c.tables.BestRollAt(s, o)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("best roll at (%d, %d): %d", s, o, roll), nil
		})
	case "winprob":
		return c.queryState(args, func(s, o int) (string, error) {
			wp, err := c.tables.WinProbAt(s, o)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("win probability at (%d, %d): %.6f", s, o, wp), nil
		})
	case "show":
		return c.queryState(args, func(s, o int) (string, error) {
			roll, err := c.tables.BestRollAt(s, o)
			if err != nil {
				return "", err
			}
			wp, err := c.tables.WinProbAt(s, o)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("(%d, %d): d%d, roll %d, win probability %.6f",
				s, o, c.rules.SelectSides(s+o), roll, wp), nil
		})
	case "summary":
		return c.summary()
	case "means":
		return c.means()
	case "save":
		return c.save(args)
	case "load":
		return c.load(args)
	case "rules":
		out, err := yaml.Marshal(c.rules)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case "help":
		var sb strings.Builder
		usage(&sb)
		return sb.String(), nil
	default:
		return "", fmt.Errorf("unknown command %q; try `help`", cmd)
	}
}

func (c *Controller) queryState(args []string, f func(s, o int) (string, error)) (string, error) {
	if c.tables == nil {
		return "", errNoTables
	}
	if len(args) != 2 {
		return "", errors.New("expected: <score> <opponent_score>")
	}
	s, err := strconv.Atoi(args[0])
	if err != nil {
		return "", err
	}
	o, err := strconv.Atoi(args[1])
	if err != nil {
		return "", err
	}
	return f(s, o)
}

// summary prints the same key states the reference solver reported.
func (c *Controller) summary() (string, error) {
	if c.tables == nil {
		return "", errNoTables
	}
	states := [][2]int{
		{0, 0}, {10, 10}, {25, 25}, {50, 50}, {75, 75},
		{90, 90}, {20, 40}, {40, 60}, {60, 80}, {80, 95},
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "first-mover win probability: %.6f\n\n", c.tables.WinProb[0][0])
	fmt.Fprintf(&sb, "%-14s %-6s %s\n", "state", "roll", "win prob")
	for _, st := range states {
		s, o := st[0], st[1]
		fmt.Fprintf(&sb, "(%2d, %2d)       %-6d %.6f\n",
			s, o, c.tables.BestRoll[s][o], c.tables.WinProb[s][o])
	}
	return sb.String(), nil
}

// means prints the exact expected turn score per roll count for each die.
func (c *Controller) means() (string, error) {
	var sb strings.Builder
	for _, sides := range c.rules.Sides() {
		fmt.Fprintf(&sb, "d%d:", sides)
		for k := 1; k <= c.rules.MaxRolls; k++ {
			d, err := c.dists.Lookup(sides, k)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&sb, " %.3f", d.Mean())
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (c *Controller) save(args []string) (string, error) {
	if c.tables == nil {
		return "", errNoTables
	}
	fn := c.cfg.TablePath
	if len(args) > 0 {
		fn = args[0]
	}
	f, err := os.Create(fn)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := c.tables.Write(f); err != nil {
		return "", err
	}
	return "saved to " + fn, nil
}

func (c *Controller) load(args []string) (string, error) {
	fn := c.cfg.TablePath
	if len(args) > 0 {
		fn = args[0]
	}
	f, err := os.Open(fn)
	if err != nil {
		return "", err
	}
	defer f.Close()
	tables, err := policy.Read(f, c.rules.Goal, c.rules.MaxRolls)
	if err != nil {
		return "", err
	}
	c.tables = tables
	return "loaded " + fn, nil
}

func usage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "solve - solve the full state space\n")
	io.WriteString(w, "best <s> <o> - optimal roll count at a state\n")
	io.WriteString(w, "winprob <s> <o> - win probability at a state\n")
	io.WriteString(w, "show <s> <o> - die, roll and win probability at a state\n")
	io.WriteString(w, "summary - key states of the solved tables\n")
	io.WriteString(w, "means - exact expected turn score per roll count\n")
	io.WriteString(w, "save [file] - write tables as CSV\n")
	io.WriteString(w, "load [file] - read tables from CSV\n")
	io.WriteString(w, "rules - show the active rule set\n")
	io.WriteString(w, "exit - leave the shell\n")
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// Loop runs the readline loop until exit/EOF.
func (c *Controller) Loop(ctx context.Context) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mhog>\033[0m ",
		HistoryFile:     "/tmp/hog_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	defer l.Close()

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			break
		}
		out, err := c.Execute(ctx, line)
		if err != nil {
			showMessage("Error: "+err.Error(), l.Stderr())
			continue
		}
		if out != "" {
			showMessage(out, l.Stderr())
		}
	}
	log.Debug().Msg("leaving shell loop")
	return nil
}
