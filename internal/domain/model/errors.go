package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds for input validation.
var (
	ErrMissingFields   = errors.New("contributor data is missing required fields")
	ErrNoEventProjects = errors.New("no project has been assigned to the event")
)

// MissingFieldsError reports the contributor headers that were found, the
// ones required, and the difference.
type MissingFieldsError struct {
	Found    []string
	Required []string
	Missing  []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: found [%s]; required [%s]; missing [%s]",
		ErrMissingFields,
		strings.Join(e.Found, ", "),
		strings.Join(e.Required, ", "),
		strings.Join(e.Missing, ", "))
}

func (e *MissingFieldsError) Unwrap() error {
	return ErrMissingFields
}

// NoEventProjectsError reports the event tag and every label string that was
// searched, which usually exposes a typo in the tag.
type NoEventProjectsError struct {
	Event  string
	Labels []string
}

func (e *NoEventProjectsError) Error() string {
	return fmt.Sprintf("%s: event %q; no project label contains %q; projects' labels: [%s]",
		ErrNoEventProjects, e.Event, e.Event, strings.Join(e.Labels, " | "))
}

func (e *NoEventProjectsError) Unwrap() error {
	return ErrNoEventProjects
}
