package model

import (
	"slices"
	"strings"
)

// listDelimiter separates values inside one contributor field.
const listDelimiter = ","

// Record is one contributor row keyed by canonical field name.
type Record map[string]string

// Contributor is a registration row reduced to the fields used for matching.
type Contributor struct {
	ID         string              // identity, usually an email address
	GitSkills  string              // free text, e.g. "3 Continuous Integration"
	Experience map[string][]string // category -> values the contributor knows
	Desired    map[string][]string // category -> values the contributor wants
}

// FieldNaming describes how canonical contributor field names are spelled.
type FieldNaming struct {
	IdentityField    string
	GitSkillsField   string
	ExperiencePrefix string
	DesiredPrefix    string
	FieldSuffix      string
}

// Schema knows which contributor fields feed which feature category.
type Schema struct {
	identity   string
	gitSkills  string
	categories []string
	experience map[string]string // category -> field
	desired    map[string]string // category -> field
}

// NewSchema derives field names for the matched categories from naming.
func NewSchema(naming FieldNaming, categories []string) Schema {
	s := Schema{
		identity:   naming.IdentityField,
		gitSkills:  naming.GitSkillsField,
		categories: append([]string(nil), categories...),
		experience: make(map[string]string, len(categories)),
		desired:    make(map[string]string, len(categories)),
	}
	for _, c := range categories {
		s.experience[c] = naming.ExperiencePrefix + c + naming.FieldSuffix
		s.desired[c] = naming.DesiredPrefix + c + naming.FieldSuffix
	}
	return s
}

// IdentityField returns the name of the contributor identity column.
func (s Schema) IdentityField() string { return s.identity }

// Categories returns the matched categories in configured order.
func (s Schema) Categories() []string { return append([]string(nil), s.categories...) }

// ExperienceField returns the field holding experience values for category.
func (s Schema) ExperienceField(category string) string { return s.experience[category] }

// DesiredField returns the field holding desired values for category.
func (s Schema) DesiredField(category string) string { return s.desired[category] }

// RequiredFields lists every field a contributor table must carry: identity,
// experience per category, git skills, then desired per category.
func (s Schema) RequiredFields() []string {
	fields := make([]string, 0, 2+2*len(s.categories))
	fields = append(fields, s.identity)
	for _, c := range s.categories {
		fields = append(fields, s.experience[c])
	}
	fields = append(fields, s.gitSkills)
	for _, c := range s.categories {
		fields = append(fields, s.desired[c])
	}
	return fields
}

// Validate checks that headers contain every required field.
func (s Schema) Validate(headers []string) error {
	required := s.RequiredFields()
	var missing []string
	for _, f := range required {
		if !slices.Contains(headers, f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{
			Found:    append([]string(nil), headers...),
			Required: required,
			Missing:  missing,
		}
	}
	return nil
}

// Contributor reduces a record to the fields used for matching. Call Validate
// on the table headers first; absent fields read as empty.
func (s Schema) Contributor(r Record) Contributor {
	c := Contributor{
		ID:         strings.TrimSpace(r[s.identity]),
		GitSkills:  r[s.gitSkills],
		Experience: make(map[string][]string, len(s.categories)),
		Desired:    make(map[string][]string, len(s.categories)),
	}
	for _, cat := range s.categories {
		c.Experience[cat] = SplitList(r[s.experience[cat]])
		c.Desired[cat] = SplitList(r[s.desired[cat]])
	}
	return c
}

// SplitList splits a comma separated field into trimmed, non-empty values.
func SplitList(s string) []string {
	parts := strings.Split(s, listDelimiter)
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
