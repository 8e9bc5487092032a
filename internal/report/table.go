// Package report builds the difficulty × skill probability table and writes it
// as delimited text.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/poolprob/internal/config"
	"github.com/cory-johannsen/poolprob/internal/sim"
)

// Corner is the label of the top-left header cell.
const Corner = `DIFF\SKILL`

// Grid is the inclusive range of skills (step 1) and difficulties (step 0.5)
// covered by a table.
type Grid struct {
	SkillMin      int
	SkillMax      int
	DifficultyMin float64
	DifficultyMax float64
}

// GridFrom derives the grid from the simulation settings.
func GridFrom(s config.SimulationConfig) Grid {
	return Grid{
		SkillMin:      s.SkillMin,
		SkillMax:      s.SkillMax,
		DifficultyMin: s.DifficultyMin,
		DifficultyMax: s.DifficultyMax,
	}
}

// Skills returns the column keys in ascending order.
func (g Grid) Skills() []int {
	var out []int
	for s := g.SkillMin; s <= g.SkillMax; s++ {
		out = append(out, s)
	}
	return out
}

// Difficulties returns the row keys in ascending half-point steps.
func (g Grid) Difficulties() []float64 {
	lo := int(math.Round(g.DifficultyMin * 2))
	hi := int(math.Round(g.DifficultyMax * 2))
	var out []float64
	for h := lo; h <= hi; h++ {
		out = append(out, float64(h)/2)
	}
	return out
}

// Table holds percentages indexed [row][column], rows by difficulty and
// columns by skill.
//
// Invariant: len(Percent) == len(Difficulties) and every row has len(Skills) cells.
type Table struct {
	Skills       []int
	Difficulties []float64
	Percent      [][]float64
}

// Percentage converts a probability to a percentage truncated to two decimals.
//
// Postcondition: 0 <= result <= 100 for 0 <= p <= 1.
func Percentage(p float64) float64 {
	return math.Floor(p*100*100) / 100
}

// Build fills the grid cell by cell from est, logging each estimate.
//
// Precondition: est and logger must be non-nil; every skill in g is >= 1.
// Postcondition: the returned Table satisfies its shape invariant.
func Build(g Grid, est sim.Estimator, logger *zap.Logger) Table {
	start := time.Now()
	t := Table{Skills: g.Skills(), Difficulties: g.Difficulties()}
	t.Percent = make([][]float64, len(t.Difficulties))
	for row, difficulty := range t.Difficulties {
		t.Percent[row] = make([]float64, len(t.Skills))
		for col, skill := range t.Skills {
			p := est.Probability(skill, difficulty)
			t.Percent[row][col] = Percentage(p)
			logger.Info("probability estimated",
				zap.Int("skill", skill),
				zap.Float64("difficulty", difficulty),
				zap.String("percent", strconv.FormatFloat(p*100, 'f', 3, 64)),
			)
		}
	}
	logger.Info("table complete",
		zap.Int("rows", len(t.Difficulties)),
		zap.Int("columns", len(t.Skills)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return t
}

// Write encodes t as delimited text: a header row of skills followed by one
// row per difficulty.
//
// Precondition: comma is a valid csv field delimiter.
// Postcondition: exactly len(t.Difficulties)+1 records are written, or an error is returned.
func (t Table) Write(w io.Writer, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	header := make([]string, 0, len(t.Skills)+1)
	header = append(header, Corner)
	for _, s := range t.Skills {
		header = append(header, strconv.Itoa(s))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for row, difficulty := range t.Difficulties {
		record := make([]string, 0, len(t.Skills)+1)
		record = append(record, formatNumber(difficulty))
		for _, pct := range t.Percent[row] {
			record = append(record, formatNumber(pct))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing difficulty %s: %w", formatNumber(difficulty), err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}

// formatNumber renders the shortest decimal form: 5, 5.5, 12.34.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FileName returns the table file name for the simulation settings.
func FileName(s config.SimulationConfig) string {
	if s.Mode == config.ModeExact {
		return "probs-exact.csv"
	}
	return fmt.Sprintf("probs-%d.csv", s.Attempts)
}

// WriteFile replaces the file at path with t, creating parent directories.
//
// Postcondition: path holds exactly the encoded table, or a non-nil error is returned.
func WriteFile(path string, t Table, comma rune) (err error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing stale table %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating table %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing table %s: %w", path, cerr)
		}
	}()
	if err := t.Write(f, comma); err != nil {
		return fmt.Errorf("writing table %s: %w", path, err)
	}
	return nil
}
