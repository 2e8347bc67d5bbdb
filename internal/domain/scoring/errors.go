package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for unscorable input.
var (
	ErrMalformedGitSkill = errors.New("malformed git skill")
	ErrNoRequirements    = errors.New("project declares no requirements")
)

// Sources of a git skill value.
const (
	SourceContributor = "contributor"
	SourceProject     = "project"
)

// Error kinds reported by Kind.
const (
	KindGitSkill       = "git_skill"
	KindNoRequirements = "no_requirements"
	KindUnknown        = "unknown"
)

// GitSkillError reports git skill text that has no usable level.
type GitSkillError struct {
	Source string // SourceContributor or SourceProject
	Text   string
}

func (e *GitSkillError) Error() string {
	if e.Source == SourceProject {
		return fmt.Sprintf("%s: project tier %q does not start with a number", ErrMalformedGitSkill, e.Text)
	}
	return fmt.Sprintf("%s: no numeric token in contributor text %q", ErrMalformedGitSkill, e.Text)
}

func (e *GitSkillError) Unwrap() error {
	return ErrMalformedGitSkill
}

// EmptyRequirementsError reports a project whose labels carry no value in any
// category, which leaves nothing to normalize by.
type EmptyRequirementsError struct {
	Categories []string
}

func (e *EmptyRequirementsError) Error() string {
	return fmt.Sprintf("%s: no values in categories [%s]; check the project labels",
		ErrNoRequirements, strings.Join(e.Categories, ", "))
}

func (e *EmptyRequirementsError) Unwrap() error {
	return ErrNoRequirements
}

// Kind classifies err for metrics labels.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrMalformedGitSkill):
		return KindGitSkill
	case errors.Is(err, ErrNoRequirements):
		return KindNoRequirements
	default:
		return KindUnknown
	}
}
