// Package tabular reads project and contributor tables and writes score
// tables as delimited text.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/brainmatch/internal/domain/model"
)

const utf8BOM = "\ufeff"

// Delimiter returns the single rune in s.
func Delimiter(s string) (rune, error) {
	r := []rune(s)
	if len(r) != 1 || r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, s)
	}
	return r[0], nil
}

func newReader(r io.Reader, delim rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// ReadProjects reads a project board. The first line is a header and is
// skipped; the first two columns of every other row are the project id and its
// label string.
func ReadProjects(r io.Reader, delim rune) ([]model.Project, error) {
	cr := newReader(r, delim)

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyTable
		}
		return nil, fmt.Errorf("read project header: %w", err)
	}

	var projects []model.Project
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read projects: %w", err)
		}
		if len(rec) < 2 {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: project line %d has %d column(s), want id and labels", ErrMalformedRow, line, len(rec))
		}
		projects = append(projects, model.Project{
			ID:     strings.TrimSpace(rec[0]),
			Labels: rec[1],
		})
	}

	return projects, nil
}

// Table is a header row plus data rows as read from a delimited file.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Records keys every row by header. Short rows read as empty values and
// extra cells are dropped.
func (t Table) Records() []model.Record {
	records := make([]model.Record, len(t.Rows))
	for r, row := range t.Rows {
		rec := make(model.Record, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		records[r] = rec
	}
	return records
}

// ReadContributors reads a contributor table with a header row.
func ReadContributors(r io.Reader, delim rune) (Table, error) {
	cr := newReader(r, delim)

	headers, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, ErrEmptyTable
		}
		return Table{}, fmt.Errorf("read contributor header: %w", err)
	}
	headers = append([]string(nil), headers...)
	headers[0] = strings.TrimPrefix(headers[0], utf8BOM)

	t := Table{Headers: headers}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read contributors: %w", err)
		}
		t.Rows = append(t.Rows, rec)
	}

	return t, nil
}
