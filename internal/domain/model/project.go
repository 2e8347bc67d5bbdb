// Package model contains the project and contributor records passed between layers.
package model

import "strings"

// Project is one row of the project board.
type Project struct {
	ID     string // project identifier, used as a match table column
	Labels string // raw label string, e.g. "tools:ANTs, bhg:boston_usa_1"
}

// FilterByEvent keeps the projects whose label string contains event, in
// input order. An empty result is an error carrying every label observed.
func FilterByEvent(event string, projects []Project) ([]Project, error) {
	kept := make([]Project, 0, len(projects))
	for _, p := range projects {
		if strings.Contains(p.Labels, event) {
			kept = append(kept, p)
		}
	}

	if len(kept) == 0 {
		labels := make([]string, len(projects))
		for i, p := range projects {
			labels[i] = p.Labels
		}
		return nil, &NoEventProjectsError{Event: event, Labels: labels}
	}

	return kept, nil
}
