// Package scoring computes how well a contributor fits a project.
//
// A score is the git skill check plus the overlap of the project's required
// values with the contributor's experience and desired values in each matched
// category, divided by the number of values the project declares.
package scoring

import (
	"slices"
	"strconv"
	"strings"

	"github.com/okian/brainmatch/internal/domain/features"
	"github.com/okian/brainmatch/internal/domain/model"
)

// NoGitRequirement is the project level used when a project lists no git tier.
const NoGitRequirement = -1

const defaultGitCategory = "git_skills"

var defaultMatchedCategories = []string{"modality", "programming", "tools", "topic"}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithGitCategory sets the feature category holding the project git tier.
func WithGitCategory(category string) Option {
	return func(s *Scorer) {
		if category != "" {
			s.gitCategory = category
		}
	}
}

// WithMatchedCategories sets the categories compared against contributor
// experience and desired values.
func WithMatchedCategories(categories []string) Option {
	return func(s *Scorer) {
		if len(categories) > 0 {
			s.matched = append([]string(nil), categories...)
		}
	}
}

// Scorer computes match scores. It holds no mutable state and is safe for
// concurrent use.
type Scorer struct {
	gitCategory string
	matched     []string
}

// NewScorer creates a scorer for the Brainhack categories unless overridden.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		gitCategory: defaultGitCategory,
		matched:     append([]string(nil), defaultMatchedCategories...),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score returns the match score of contributor c for a project with features
// f. Typical scores fall in [0, 1]; a project whose every value is both known
// and desired by c can exceed 1 since each matched value counts twice.
func (s *Scorer) Score(f features.Features, c model.Contributor) (float64, error) {
	contribLevel, err := ContributorGitLevel(c.GitSkills)
	if err != nil {
		return 0, err
	}
	projLevel, err := ProjectGitLevel(f, s.gitCategory)
	if err != nil {
		return 0, err
	}

	var raw float64
	if projLevel > 0 && contribLevel >= projLevel {
		raw++
	}
	for _, cat := range s.matched {
		raw += FeatureScore(f.Get(cat), c.Experience[cat])
	}
	for _, cat := range s.matched {
		raw += FeatureScore(f.Get(cat), c.Desired[cat])
	}

	total := f.Count()
	if total == 0 {
		categories := make([]string, 0, len(f))
		for cat := range f {
			categories = append(categories, cat)
		}
		slices.Sort(categories)
		return 0, &EmptyRequirementsError{Categories: categories}
	}

	return raw / float64(total), nil
}

// FeatureScore returns the share of distinct required values found in held.
// An empty requirement scores 0.
func FeatureScore(required, held []string) float64 {
	if len(required) == 0 {
		return 0
	}

	want := make(map[string]struct{}, len(required))
	for _, v := range required {
		want[v] = struct{}{}
	}
	have := make(map[string]struct{}, len(held))
	for _, v := range held {
		have[v] = struct{}{}
	}

	matched := 0
	for v := range want {
		if _, ok := have[v]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(want))
}

// ContributorGitLevel returns the first whitespace separated token of text
// made only of digits, e.g. 3 for "3 Continuous Integration".
func ContributorGitLevel(text string) (int, error) {
	for _, tok := range strings.Fields(text) {
		if !isDigits(tok) {
			continue
		}
		level, err := strconv.Atoi(tok)
		if err != nil {
			break
		}
		return level, nil
	}
	return 0, &GitSkillError{Source: SourceContributor, Text: text}
}

// ProjectGitLevel returns the leading number of the greatest git tier value in
// category, e.g. 2 for "2_branches_PRs". Values compare as strings. A project
// without a tier gets NoGitRequirement.
func ProjectGitLevel(f features.Features, category string) (int, error) {
	tier, ok := f.Max(category)
	if !ok {
		return NoGitRequirement, nil
	}

	end := 0
	for end < len(tier) && tier[end] >= '0' && tier[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, &GitSkillError{Source: SourceProject, Text: tier}
	}

	level, err := strconv.Atoi(tier[:end])
	if err != nil {
		return 0, &GitSkillError{Source: SourceProject, Text: tier}
	}
	return level, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
