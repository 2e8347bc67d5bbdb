// Package service runs one scoring pass: read the project board and the
// contributor registrations, score every pair and write the match and top-N
// tables.
package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/okian/brainmatch/internal/adapters/tabular"
	"github.com/okian/brainmatch/internal/adapters/worker"
	"github.com/okian/brainmatch/internal/config"
	"github.com/okian/brainmatch/internal/domain/features"
	"github.com/okian/brainmatch/internal/domain/model"
	"github.com/okian/brainmatch/internal/domain/ranking"
	"github.com/okian/brainmatch/internal/domain/scoring"
	"github.com/okian/brainmatch/pkg/logger"
	"github.com/okian/brainmatch/pkg/metrics"
)

const (
	outputDirPerm  = 0o755
	outputFilePerm = 0o644
)

// Request names the inputs and outputs of one run.
type Request struct {
	Event            string `validate:"required"`
	ProjectsPath     string `validate:"required"`
	ContributorsPath string `validate:"required"`
	FieldsPath       string `validate:"required"`
	MatchPath        string `validate:"required"`
	// TopN overrides the configured number of ranked projects when positive.
	TopN int `validate:"min=0"`
}

// Result summarizes a finished run.
type Result struct {
	RunID        string
	Projects     int
	Contributors int
	Pairs        int
	MatchPath    string
	TopPath      string
	Duration     time.Duration
}

// Service wires the extractor, scorer and table I/O together.
type Service struct {
	extractor *features.Extractor
	scorer    *scoring.Scorer
	schema    model.Schema

	// Configuration
	workers          int
	topN             int
	precision        int
	metricsFile      string
	projectDelim     rune
	contributorDelim rune

	validate *validator.Validate
	metrics  *metrics.Manager
	logger   logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithWorkers sets how many contributor rows are scored concurrently.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithTopN sets the default number of ranked projects per contributor.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithPrecision sets the decimal places written for scores.
func WithPrecision(p int) Option {
	return func(s *Service) {
		if p >= 0 {
			s.precision = p
		}
	}
}

// WithMetricsFile sets the Prometheus textfile written after every run.
func WithMetricsFile(path string) Option {
	return func(s *Service) {
		s.metricsFile = path
	}
}

// NewFromConfig builds a service from a validated configuration.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Service, error) {
	projectDelim, err := tabular.Delimiter(cfg.ProjectDelimiter)
	if err != nil {
		return nil, fmt.Errorf("project delimiter: %w", err)
	}
	contributorDelim, err := tabular.Delimiter(cfg.ContributorDelimiter)
	if err != nil {
		return nil, fmt.Errorf("contributor delimiter: %w", err)
	}

	labels := cfg.Labels
	s := &Service{
		extractor: features.NewExtractor(labels.Categories,
			features.WithTokenizer(features.DelimitedTokenizer{Delimiter: labels.TokenDelimiter}),
			features.WithClassifier(features.NewPrefixClassifier(labels.Categories, labels.Separator)),
		),
		scorer: scoring.NewScorer(
			scoring.WithGitCategory(labels.GitSkills),
			scoring.WithMatchedCategories(labels.Matched),
		),
		schema: model.NewSchema(model.FieldNaming{
			IdentityField:    cfg.Contributor.IdentityField,
			GitSkillsField:   cfg.Contributor.GitSkillsField,
			ExperiencePrefix: cfg.Contributor.ExperiencePrefix,
			DesiredPrefix:    cfg.Contributor.DesiredPrefix,
			FieldSuffix:      cfg.Contributor.FieldSuffix,
		}, labels.Matched),
		workers:          cfg.Workers,
		topN:             cfg.TopN,
		precision:        cfg.Precision,
		metricsFile:      cfg.MetricsFile,
		projectDelim:     projectDelim,
		contributorDelim: contributorDelim,
		validate:         validator.New(),
		logger:           logger.Get().Named("service"),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil {
		s.metrics = metrics.NewManager()
	}

	return s, nil
}

// Metrics returns the manager the service records into.
func (s *Service) Metrics() *metrics.Manager {
	return s.metrics
}

// Run performs one scoring pass. Nothing is written unless every pair scores.
func (s *Service) Run(ctx context.Context, req Request) (res Result, err error) {
	start := time.Now()
	res.RunID = uuid.NewString()
	log := s.logger.With(logger.String("run_id", res.RunID))

	defer func() {
		res.Duration = time.Since(start)
		status := metrics.StatusSuccess
		if err != nil {
			status = metrics.StatusFailure
			log.Error(ctx, "run failed", logger.Error(err), logger.Duration("duration", res.Duration))
		}
		s.metrics.RecordRun(status, res.Duration)
		s.flushMetrics(ctx, log)
	}()

	if err := s.validate.Struct(req); err != nil {
		return res, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	topN := s.topN
	if req.TopN > 0 {
		topN = req.TopN
	}

	log.Info(ctx, "run started",
		logger.String("event", req.Event),
		logger.String("projects", req.ProjectsPath),
		logger.String("contributors", req.ContributorsPath),
		logger.Int("top_n", topN),
		logger.Int("workers", s.workers),
	)

	contributors, err := s.loadContributors(req.ContributorsPath, req.FieldsPath)
	if err != nil {
		return res, err
	}

	projects, err := s.loadProjects(req.ProjectsPath, req.Event)
	if err != nil {
		return res, err
	}

	res.Projects, res.Contributors = len(projects), len(contributors)
	res.Pairs = res.Projects * res.Contributors
	s.metrics.SetInputSize(res.Projects, res.Contributors)
	log.Info(ctx, "inputs loaded",
		logger.Int("projects", res.Projects),
		logger.Int("contributors", res.Contributors),
	)

	pool := worker.NewPool(s.workers,
		worker.WithName("rows"),
		worker.WithLogger(log),
		worker.WithGauge(s.metrics),
	)
	builder := ranking.NewBuilder(s.extractor, s.scorer,
		ranking.WithRunner(pool),
		ranking.WithRecorder(s.metrics),
		ranking.WithLogger(log),
		ranking.WithIdentityHeader(s.schema.IdentityField()),
	)

	match, err := builder.Build(ctx, projects, contributors)
	if err != nil {
		return res, err
	}
	top := ranking.TopN(match, topN)

	res.MatchPath = req.MatchPath
	res.TopPath = tabular.TopPath(req.MatchPath)
	if err := writeFiles(
		output{path: res.MatchPath, write: func(w io.Writer) error {
			return tabular.WriteMatchTable(w, match, s.precision)
		}},
		output{path: res.TopPath, write: func(w io.Writer) error {
			return tabular.WriteTopNTable(w, top, s.precision)
		}},
	); err != nil {
		return res, err
	}

	log.Info(ctx, "run finished",
		logger.Int("pairs", res.Pairs),
		logger.String("match", res.MatchPath),
		logger.String("top", res.TopPath),
		logger.Duration("duration", time.Since(start)),
	)

	return res, nil
}

func (s *Service) loadContributors(path, fieldsPath string) ([]model.Contributor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open contributors: %w", err)
	}
	defer f.Close()

	table, err := tabular.ReadContributors(f, s.contributorDelim)
	if err != nil {
		s.metrics.RecordValidationFailure(failureMalformedInput)
		return nil, fmt.Errorf("read contributors %s: %w", path, err)
	}

	mapping, err := tabular.LoadFieldMapping(fieldsPath)
	if err != nil {
		return nil, fmt.Errorf("load field mapping: %w", err)
	}
	table = table.Normalize(mapping)

	if err := s.schema.Validate(table.Headers); err != nil {
		s.metrics.RecordValidationFailure(failureMissingFields)
		return nil, fmt.Errorf("contributors %s: %w", path, err)
	}

	records := table.Records()
	contributors := make([]model.Contributor, len(records))
	for i, r := range records {
		contributors[i] = s.schema.Contributor(r)
	}
	return contributors, nil
}

func (s *Service) loadProjects(path, event string) ([]model.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open projects: %w", err)
	}
	defer f.Close()

	all, err := tabular.ReadProjects(f, s.projectDelim)
	if err != nil {
		s.metrics.RecordValidationFailure(failureMalformedInput)
		return nil, fmt.Errorf("read projects %s: %w", path, err)
	}

	projects, err := model.FilterByEvent(event, all)
	if err != nil {
		s.metrics.RecordValidationFailure(failureNoEventProjects)
		return nil, err
	}
	return projects, nil
}

func (s *Service) flushMetrics(ctx context.Context, log logger.Logger) {
	if s.metricsFile == "" {
		return
	}
	if err := s.metrics.WriteTextfile(s.metricsFile); err != nil {
		log.Warn(ctx, "metrics textfile not written", logger.Error(err))
	}
}

// output is one file produced by a run.
type output struct {
	path  string
	write func(io.Writer) error
}

// writeFiles stages every output in a temp file next to its target and
// renames them into place only once all were written. On failure no target
// is left holding new content.
func writeFiles(outputs ...output) (err error) {
	staged := make([]string, 0, len(outputs))
	var committed []string
	defer func() {
		if err == nil {
			return
		}
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
		for _, path := range committed {
			_ = os.Remove(path)
		}
	}()

	for _, o := range outputs {
		tmp, err := stageFile(o.path, o.write)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}

	// The first output is committed last so readers polling for it see a
	// complete set.
	for i := len(outputs) - 1; i >= 0; i-- {
		if err := os.Rename(staged[i], outputs[i].path); err != nil {
			return fmt.Errorf("move %s into place: %w", outputs[i].path, err)
		}
		committed = append(committed, outputs[i].path)
	}
	return nil
}

// stageFile writes fn's output to a temp file in path's directory, creating
// the directory if needed, and returns the temp file name.
func stageFile(path string, fn func(io.Writer) error) (_ string, err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, outputDirPerm); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	tmp := f.Name()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if err := fn(f); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Chmod(outputFilePerm); err != nil {
		return "", fmt.Errorf("chmod %s: %w", path, err)
	}
	return tmp, nil
}
