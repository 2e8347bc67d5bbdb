package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/okian/brainmatch/internal/domain/ranking"
)

const topSuffix = "_top"

// FormatScore rounds v to precision decimal places, half to even, and prints
// the shortest form that keeps a decimal point, e.g. 0.71, 0.6 or 1.0.
func FormatScore(v float64, precision int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	scale := math.Pow10(precision)
	rounded := math.RoundToEven(v*scale) / scale
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	s := strconv.FormatFloat(rounded, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// WriteMatchTable writes t as CSV: a header row, then one row per contributor.
func WriteMatchTable(w io.Writer, t ranking.MatchTable, precision int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("write match header: %w", err)
	}

	record := make([]string, 1+len(t.ProjectIDs))
	for _, row := range t.Rows {
		record[0] = row.ContributorID
		for i, s := range row.Scores {
			record[i+1] = FormatScore(s, precision)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write match row %q: %w", row.ContributorID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTopNTable writes t as CSV with id_top{i}, score_top{i} column pairs.
func WriteTopNTable(w io.Writer, t ranking.TopNTable, precision int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("write top header: %w", err)
	}

	record := make([]string, 1+2*t.N)
	for _, row := range t.Rows {
		record[0] = row.ContributorID
		for i, p := range row.Picks {
			record[1+2*i] = p.ProjectID
			record[2+2*i] = FormatScore(p.Score, precision)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write top row %q: %w", row.ContributorID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// TopPath derives the top-N output path from the match output path:
// "out/scores.csv" becomes "out/scores_top.csv".
func TopPath(matchPath string) string {
	dir, base := filepath.Split(matchPath)
	ext := filepath.Ext(base)
	root := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, root+topSuffix+ext)
}
