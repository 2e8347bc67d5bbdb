package ranking

import "fmt"

// PairError locates a scoring failure in the match table.
type PairError struct {
	ContributorID string
	ProjectID     string
	Err           error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("score contributor %q for project %q: %v", e.ContributorID, e.ProjectID, e.Err)
}

func (e *PairError) Unwrap() error {
	return e.Err
}
