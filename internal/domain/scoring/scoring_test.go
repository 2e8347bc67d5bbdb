package scoring_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/brainmatch/internal/domain/features"
	"github.com/okian/brainmatch/internal/domain/model"
	"github.com/okian/brainmatch/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

const tolerance = 1e-9

func projectFeatures() features.Features {
	return features.Features{
		"git_skills":           {"2_branches_PRs"},
		"modality":             {"DWI"},
		"programming":          {"Python", "Julia", "R"},
		"project_type":         {},
		"project_tools_skills": {},
		"tools":                {"DIPY", "ANTs"},
		"topic":                {},
	}
}

func participant() model.Contributor {
	return model.Contributor{
		ID:        "participant1@bhg.org",
		GitSkills: "3 Continuous Integration",
		Experience: map[string][]string{
			"programming": {"Python", "Matlab", "R", "Unix Command Line", "Shell Scripting", "Containerization"},
			"modality":    {"DWI", "EEG", "fMRI", "MRI"},
			"tools":       {"SPM", "FSL", "Freesurfer", "AFNI", "ANTs", "Nipype", "BIDS"},
			"topic": {
				"Bayesian Approaches", "Connectome", "Data Visualisation", "Diffusion",
				"Hypothesis Testing", "ICA", "MR Methodologies", "PCA", "Physiology", "Tractography",
			},
		},
		Desired: map[string][]string{
			"programming": {"Julia", "C++"},
			"modality":    {"DWI", "fMRI", "MRI"},
			"tools":       {"ANTs", "Nipype", "MRtrix"},
			"topic": {
				"Bayesian Approaches", "Granger Causality", "Information Theory",
				"Reproducible Scientific Methods", "Tractography",
			},
		},
	}
}

func TestFeatureScore(t *testing.T) {
	Convey("Given required and held values", t, func() {
		Convey("When nothing is required", func() {
			So(scoring.FeatureScore(nil, []string{"DWI"}), ShouldEqual, 0)
			So(scoring.FeatureScore([]string{}, nil), ShouldEqual, 0)
		})

		Convey("When every required value is held", func() {
			So(scoring.FeatureScore([]string{"DWI"}, []string{"DWI", "EEG", "fMRI", "MRI"}), ShouldEqual, 1.0)
		})

		Convey("When part of the requirement is held", func() {
			got := scoring.FeatureScore([]string{"Python", "Julia", "R"}, []string{"Python", "Matlab", "R"})
			So(got, ShouldAlmostEqual, 2.0/3.0, tolerance)
		})

		Convey("When the requirement repeats a value", func() {
			got := scoring.FeatureScore([]string{"ANTs", "ANTs", "FSL"}, []string{"ANTs"})
			So(got, ShouldEqual, 0.5)
		})

		Convey("When nothing is held", func() {
			So(scoring.FeatureScore([]string{"ANTs"}, nil), ShouldEqual, 0)
		})

		Convey("Then a score is 1 exactly when held covers required", func() {
			cases := []struct {
				required, held []string
				covers         bool
			}{
				{[]string{"a", "b"}, []string{"b", "a", "c"}, true},
				{[]string{"a", "a"}, []string{"a"}, true},
				{[]string{"a", "b"}, []string{"a"}, false},
				{[]string{"a"}, []string{"A"}, false},
			}
			for _, tc := range cases {
				got := scoring.FeatureScore(tc.required, tc.held)
				So(got, ShouldBeBetweenOrEqual, 0, 1)
				So(got == 1, ShouldEqual, tc.covers)
			}
		})
	})
}

func TestContributorGitLevel(t *testing.T) {
	Convey("Given contributor git skill text", t, func() {
		Convey("When a numeric token leads", func() {
			level, err := scoring.ContributorGitLevel("3 Continuous Integration")
			So(err, ShouldBeNil)
			So(level, ShouldEqual, 3)
		})

		Convey("When the numeric token comes later", func() {
			level, err := scoring.ContributorGitLevel("level 2 branches 4")
			So(err, ShouldBeNil)
			So(level, ShouldEqual, 2)
		})

		Convey("When digits are glued to text", func() {
			_, err := scoring.ContributorGitLevel("2_branches_PRs")

			Convey("Then it should fail with the text attached", func() {
				So(errors.Is(err, scoring.ErrMalformedGitSkill), ShouldBeTrue)
				var gse *scoring.GitSkillError
				So(errors.As(err, &gse), ShouldBeTrue)
				So(gse.Source, ShouldEqual, scoring.SourceContributor)
				So(gse.Text, ShouldEqual, "2_branches_PRs")
			})
		})

		Convey("When the text is empty", func() {
			_, err := scoring.ContributorGitLevel("")
			So(errors.Is(err, scoring.ErrMalformedGitSkill), ShouldBeTrue)
		})
	})
}

func TestProjectGitLevel(t *testing.T) {
	Convey("Given project features", t, func() {
		f := projectFeatures()

		Convey("When one tier is declared", func() {
			level, err := scoring.ProjectGitLevel(f, "git_skills")
			So(err, ShouldBeNil)
			So(level, ShouldEqual, 2)
		})

		Convey("When several tiers are declared", func() {
			f["git_skills"] = []string{"1_commit_push", "3_continuous_integration"}
			level, err := scoring.ProjectGitLevel(f, "git_skills")
			So(err, ShouldBeNil)
			So(level, ShouldEqual, 3)
		})

		Convey("When tiers only compare as strings", func() {
			f["git_skills"] = []string{"10_advanced", "9_expert"}
			level, err := scoring.ProjectGitLevel(f, "git_skills")
			So(err, ShouldBeNil)
			So(level, ShouldEqual, 9)
		})

		Convey("When no tier is declared", func() {
			f["git_skills"] = []string{}
			level, err := scoring.ProjectGitLevel(f, "git_skills")
			So(err, ShouldBeNil)
			So(level, ShouldEqual, scoring.NoGitRequirement)
		})

		Convey("When the tier has no leading number", func() {
			f["git_skills"] = []string{"branches_PRs"}
			_, err := scoring.ProjectGitLevel(f, "git_skills")
			So(errors.Is(err, scoring.ErrMalformedGitSkill), ShouldBeTrue)
			So(scoring.Kind(err), ShouldEqual, scoring.KindGitSkill)
		})
	})
}

func TestScorer_Score(t *testing.T) {
	Convey("Given the default scorer", t, func() {
		s := scoring.NewScorer()

		Convey("When scoring the reference participant against the reference project", func() {
			got, err := s.Score(projectFeatures(), participant())

			Convey("Then the score should be 5/7", func() {
				So(err, ShouldBeNil)
				So(got, ShouldAlmostEqual, 0.7142857142857142, tolerance)
			})
		})

		Convey("When the contributor's lists are reordered", func() {
			c := participant()
			for _, m := range []map[string][]string{c.Experience, c.Desired} {
				for k, v := range m {
					reversed := append([]string(nil), v...)
					for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
						reversed[i], reversed[j] = reversed[j], reversed[i]
					}
					m[k] = reversed
				}
			}
			got, err := s.Score(projectFeatures(), c)

			Convey("Then the score should not change", func() {
				So(err, ShouldBeNil)
				So(got, ShouldAlmostEqual, 0.7142857142857142, tolerance)
			})
		})

		Convey("When the contributor's git level is below the project tier", func() {
			c := participant()
			c.GitSkills = "1 Commit and push"
			got, err := s.Score(projectFeatures(), c)

			Convey("Then the git point should be withheld", func() {
				So(err, ShouldBeNil)
				So(got, ShouldAlmostEqual, 4.0/7.0, tolerance)
			})
		})

		Convey("When the project has no git tier", func() {
			f := projectFeatures()
			f["git_skills"] = []string{}
			got, err := s.Score(f, participant())

			Convey("Then only the feature overlap should count", func() {
				So(err, ShouldBeNil)
				So(got, ShouldAlmostEqual, 4.0/6.0, tolerance)
			})
		})

		Convey("When the contributor's git text is malformed", func() {
			c := participant()
			c.GitSkills = "none"
			_, err := s.Score(projectFeatures(), c)

			Convey("Then scoring should fail", func() {
				So(errors.Is(err, scoring.ErrMalformedGitSkill), ShouldBeTrue)
			})
		})

		Convey("When the project declares nothing", func() {
			f := features.Features{"git_skills": {}, "tools": {}}
			_, err := s.Score(f, participant())

			Convey("Then scoring should fail instead of dividing by zero", func() {
				So(errors.Is(err, scoring.ErrNoRequirements), ShouldBeTrue)
				So(scoring.Kind(err), ShouldEqual, scoring.KindNoRequirements)
				var ere *scoring.EmptyRequirementsError
				So(errors.As(err, &ere), ShouldBeTrue)
				So(ere.Categories, ShouldResemble, []string{"git_skills", "tools"})
			})
		})

		Convey("When a small project is covered by experience and desire alike", func() {
			got, err := s.Score(features.Features{"tools": {"ANTs"}, "git_skills": {"1_x"}}, participant())

			Convey("Then both overlaps should count against the raw value total", func() {
				So(err, ShouldBeNil)
				So(math.IsNaN(got), ShouldBeFalse)
				So(got, ShouldAlmostEqual, 1.5, tolerance)
			})
		})
	})
}

func TestScorer_Options(t *testing.T) {
	Convey("Given a scorer for custom categories", t, func() {
		s := scoring.NewScorer(
			scoring.WithGitCategory("vcs"),
			scoring.WithMatchedCategories([]string{"tools"}),
		)
		f := features.Features{"vcs": {"2_prs"}, "tools": {"ANTs"}, "modality": {"DWI"}}
		c := model.Contributor{
			GitSkills:  "2",
			Experience: map[string][]string{"tools": {"ANTs"}, "modality": {"DWI"}},
			Desired:    map[string][]string{},
		}

		Convey("Then only the configured categories should count", func() {
			got, err := s.Score(f, c)
			So(err, ShouldBeNil)
			So(got, ShouldAlmostEqual, 2.0/3.0, tolerance)
		})
	})

	Convey("Given an error from elsewhere", t, func() {
		So(scoring.Kind(errors.New("boom")), ShouldEqual, scoring.KindUnknown)
	})
}
