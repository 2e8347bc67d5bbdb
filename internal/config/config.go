// Package config defines run configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers defaults, an optional file and environment variables.
// - Validation errors wrap ErrInvalidConfig; loading errors wrap ErrLoadConfig.
package config

// Default label vocabulary used by Brainhack project boards.
var (
	defaultCategories = []string{
		"git_skills",
		"modality",
		"programming",
		"project_type",
		"project_tools_skills",
		"tools",
		"topic",
	}
	defaultMatched = []string{"modality", "programming", "tools", "topic"}
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// TopN is the default number of ranked projects kept per contributor.
	TopN int `koanf:"top_n" validate:"min=1"`

	// Precision is the number of decimal places written for scores.
	Precision int `koanf:"precision" validate:"min=0,max=12"`

	// Workers bounds how many contributor rows are scored concurrently.
	Workers int `koanf:"workers" validate:"min=1"`

	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string `koanf:"metrics_file"`

	// ProjectDelimiter separates columns in the project table (TSV by default).
	ProjectDelimiter string `koanf:"project_delimiter" validate:"len=1"`

	// ContributorDelimiter separates columns in the contributor table.
	ContributorDelimiter string `koanf:"contributor_delimiter" validate:"len=1"`

	Labels      Labels      `koanf:"labels"`
	Contributor Contributor `koanf:"contributor"`
}

// Labels describes how project label strings are tokenized and classified.
type Labels struct {
	// TokenDelimiter splits a label string into tokens.
	TokenDelimiter string `koanf:"token_delimiter" validate:"required"`

	// Separator joins a category name to its value, e.g. "tools:ANTs".
	Separator string `koanf:"separator" validate:"required"`

	// Categories lists every feature category a project may declare.
	Categories []string `koanf:"categories" validate:"min=1,unique,dive,required"`

	// GitSkills names the category holding the git skill tier.
	GitSkills string `koanf:"git_skills" validate:"required"`

	// Matched lists categories compared against contributor lists.
	Matched []string `koanf:"matched" validate:"min=1,unique,dive,required"`
}

// Contributor describes the canonical contributor field names.
//
// Experience and desired fields are built as prefix + category + suffix, e.g.
// "experience_" + "tools" + "_field".
type Contributor struct {
	IdentityField    string `koanf:"identity_field" validate:"required"`
	GitSkillsField   string `koanf:"git_skills_field" validate:"required"`
	ExperiencePrefix string `koanf:"experience_prefix" validate:"required"`
	DesiredPrefix    string `koanf:"desired_prefix" validate:"required,nefield=ExperiencePrefix"`
	FieldSuffix      string `koanf:"field_suffix"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		TopN:                 5,
		Precision:            2,
		Workers:              1,
		ProjectDelimiter:     "\t",
		ContributorDelimiter: ",",
		Labels: Labels{
			TokenDelimiter: ",",
			Separator:      ":",
			Categories:     append([]string(nil), defaultCategories...),
			GitSkills:      "git_skills",
			Matched:        append([]string(nil), defaultMatched...),
		},
		Contributor: Contributor{
			IdentityField:    "email_address_field",
			GitSkillsField:   "experience_git_skills_field",
			ExperiencePrefix: "experience_",
			DesiredPrefix:    "desired_",
			FieldSuffix:      "_field",
		},
	}
}
