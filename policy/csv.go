package policy

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var columns = []string{"score", "opponent_score", "best_roll", "win_prob"}

// Write serializes the tables as CSV, one row per state, win probabilities
// with six digits after the point. Rows go out in descending combined-score
// order, mirroring the order the solver filled them in; readers must not
// rely on it.
func (t *Tables) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for total := 2 * (t.Goal - 1); total >= 0; total-- {
		lo := max(0, total-(t.Goal-1))
		hi := min(t.Goal-1, total)
		for s := lo; s <= hi; s++ {
			o := total - s
			row := []string{
				strconv.Itoa(s),
				strconv.Itoa(o),
				strconv.Itoa(t.BestRoll[s][o]),
				strconv.FormatFloat(t.WinProb[s][o], 'f', 6, 64),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read deserializes tables written by Write. Rows are accepted in any
// order. Any malformed row (missing column, bad number, state outside
// [0, goal), roll outside [0, maxRoll], probability outside [0, 1]) fails
// the whole load; no partial table is returned.
func Read(r io.Reader, goal, maxRoll int) (*Tables, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(columns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, col := range columns {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected header column %q, want %q", header[i], col)
		}
	}

	t := New(goal)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		s, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("bad score %q: %w", row[0], err)
		}
		o, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("bad opponent_score %q: %w", row[1], err)
		}
		if s < 0 || s >= goal || o < 0 || o >= goal {
			return nil, fmt.Errorf("state (%d, %d) outside [0, %d]", s, o, goal-1)
		}
		roll, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("bad best_roll %q: %w", row[2], err)
		}
		if roll < 0 || roll > maxRoll {
			return nil, fmt.Errorf("best_roll %d outside [0, %d]", roll, maxRoll)
		}
		wp, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("bad win_prob %q: %w", row[3], err)
		}
		if wp < 0 || wp > 1 {
			return nil, fmt.Errorf("win_prob %v outside [0, 1]", wp)
		}
		t.BestRoll[s][o] = roll
		t.WinProb[s][o] = wp
	}
	return t, nil
}
