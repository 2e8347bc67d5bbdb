package service

import "errors"

// ErrInvalidRequest reports a run request with missing arguments.
var ErrInvalidRequest = errors.New("invalid run request")

// Validation failure kinds recorded in metrics.
const (
	failureNoEventProjects = "no_event_projects"
	failureMissingFields   = "missing_fields"
	failureMalformedInput  = "malformed_input"
)
