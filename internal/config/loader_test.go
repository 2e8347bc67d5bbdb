package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/brainmatch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.TopN, convey.ShouldEqual, 5)
				convey.So(cfg.Precision, convey.ShouldEqual, 2)
				convey.So(cfg.Labels.Separator, convey.ShouldEqual, ":")
				convey.So(cfg.Labels.Categories, convey.ShouldHaveLength, 7)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("BRAINMATCH_TOP_N", "3")
			_ = os.Setenv("BRAINMATCH_WORKERS", "4")
			_ = os.Setenv("BRAINMATCH_LOG_LEVEL", "debug")
			_ = os.Setenv("BRAINMATCH_CONTRIBUTOR__IDENTITY_FIELD", "email")
			_ = os.Setenv("BRAINMATCH_LABELS__MATCHED", "modality,tools")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.TopN, convey.ShouldEqual, 3)
				convey.So(cfg.Workers, convey.ShouldEqual, 4)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Contributor.IdentityField, convey.ShouldEqual, "email")
				convey.So(cfg.Labels.Matched, convey.ShouldResemble, []string{"modality", "tools"})
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
top_n: 2
precision: 4
labels:
  categories: [git_skills, modality, tools]
  matched: [modality, tools]
`
			tmpFile := createTempConfigFile(t, yamlContent)

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then file lists should replace the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.TopN, convey.ShouldEqual, 2)
				convey.So(cfg.Precision, convey.ShouldEqual, 4)
				convey.So(cfg.Labels.Categories, convey.ShouldResemble, []string{"git_skills", "modality", "tools"})
				convey.So(cfg.Labels.Matched, convey.ShouldResemble, []string{"modality", "tools"})
			})

			convey.Convey("Then unset nested keys should keep their defaults", func() {
				convey.So(cfg.Labels.Separator, convey.ShouldEqual, ":")
				convey.So(cfg.Labels.GitSkills, convey.ShouldEqual, "git_skills")
				convey.So(cfg.Contributor.GitSkillsField, convey.ShouldEqual, "experience_git_skills_field")
			})
		})

		convey.Convey("When the file path comes from BRAINMATCH_CONFIG", func() {
			tmpFile := createTempConfigFile(t, `{"top_n": 7, "metrics_file": "/tmp/brainmatch.prom"}`)
			_ = os.Setenv("BRAINMATCH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then JSON content should parse", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.TopN, convey.ShouldEqual, 7)
				convey.So(cfg.MetricsFile, convey.ShouldEqual, "/tmp/brainmatch.prom")
			})
		})

		convey.Convey("When the config file is tab-indented JSON", func() {
			path := filepath.Join(t.TempDir(), "brainmatch.json")
			content := "{\n\t\"top_n\": 3,\n\t\"labels\": {\n\t\t\"separator\": \";\"\n\t}\n}\n"
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				t.Fatal(err)
			}

			cfg, err := config.Load(ctx, path)

			convey.Convey("Then it should be decoded as JSON", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.TopN, convey.ShouldEqual, 3)
				convey.So(cfg.Labels.Separator, convey.ShouldEqual, ";")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, "top_n: 2\nworkers: 8\n")
			_ = os.Setenv("BRAINMATCH_TOP_N", "9")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.TopN, convey.ShouldEqual, 9)
				convey.So(cfg.Workers, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.Load(ctx, "/non/existent/file.yaml")

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "/non/existent/file.yaml")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("BRAINMATCH_TOP_N", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config that fails validation", func() {
			_ = os.Setenv("BRAINMATCH_LABELS__SEPARATOR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"BRAINMATCH_CONFIG",
		"BRAINMATCH_TOP_N",
		"BRAINMATCH_WORKERS",
		"BRAINMATCH_LOG_LEVEL",
		"BRAINMATCH_CONTRIBUTOR__IDENTITY_FIELD",
		"BRAINMATCH_LABELS__MATCHED",
		"BRAINMATCH_LABELS__SEPARATOR",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "brainmatch-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}

	if err := tmpFile.Close(); err != nil {
		t.Fatal(err)
	}

	return tmpFile.Name()
}
