// Package ranking builds the contributor by project score table and ranks
// each contributor's best projects.
package ranking

import (
	"slices"
	"strconv"
)

// MatchRow holds one contributor's scores, one per project column.
type MatchRow struct {
	ContributorID string
	Scores        []float64
}

// MatchTable is the full score table: rows in contributor input order and
// columns in project order.
type MatchTable struct {
	IdentityHeader string
	ProjectIDs     []string
	Rows           []MatchRow
}

// Header returns the identity column name followed by the project ids.
func (t MatchTable) Header() []string {
	h := make([]string, 0, 1+len(t.ProjectIDs))
	h = append(h, t.IdentityHeader)
	return append(h, t.ProjectIDs...)
}

// Pick is one ranked project for a contributor.
type Pick struct {
	ProjectID string
	Score     float64
}

// TopNRow holds a contributor's picks, best first.
type TopNRow struct {
	ContributorID string
	Picks         []Pick
}

// TopNTable keeps the N best projects per contributor.
type TopNTable struct {
	IdentityHeader string
	N              int
	Rows           []TopNRow
}

// Header returns the identity column name followed by id_top{i}, score_top{i}
// pairs for i in 1..N.
func (t TopNTable) Header() []string {
	h := make([]string, 0, 1+2*t.N)
	h = append(h, t.IdentityHeader)
	for i := 1; i <= t.N; i++ {
		suffix := strconv.Itoa(i)
		h = append(h, "id_top"+suffix, "score_top"+suffix)
	}
	return h
}

// TopN ranks each row of t by descending score and keeps the first n. n is
// clamped to [0, number of projects]. Equal scores keep project column order.
func TopN(t MatchTable, n int) TopNTable {
	n = max(0, min(n, len(t.ProjectIDs)))

	out := TopNTable{
		IdentityHeader: t.IdentityHeader,
		N:              n,
		Rows:           make([]TopNRow, len(t.Rows)),
	}

	for r, row := range t.Rows {
		picks := make([]Pick, len(t.ProjectIDs))
		for c, id := range t.ProjectIDs {
			picks[c] = Pick{ProjectID: id, Score: row.Scores[c]}
		}
		slices.SortStableFunc(picks, func(a, b Pick) int {
			switch {
			case a.Score > b.Score:
				return -1
			case a.Score < b.Score:
				return 1
			default:
				return 0
			}
		})
		out.Rows[r] = TopNRow{ContributorID: row.ContributorID, Picks: picks[:n]}
	}

	return out
}
