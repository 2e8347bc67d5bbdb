package ranking

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/brainmatch/internal/domain/features"
	"github.com/okian/brainmatch/internal/domain/model"
	"github.com/okian/brainmatch/internal/domain/scoring"
	"github.com/okian/brainmatch/pkg/logger"
)

const defaultIdentityHeader = "email_address_field"

// Runner executes fn for every index in [0, n). Implementations may run
// indices concurrently but must return the first error.
type Runner interface {
	Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error
}

// SequentialRunner runs indices one after another in order.
type SequentialRunner struct{}

// Run implements Runner.
func (SequentialRunner) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// Recorder receives per pair and per row measurements.
type Recorder interface {
	RecordPairScored(score float64)
	RecordScoringError(kind string)
	RecordRowLatency(d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordPairScored(float64)       {}
func (nopRecorder) RecordScoringError(string)      {}
func (nopRecorder) RecordRowLatency(time.Duration) {}

// Extractor turns a project label string into features.
type Extractor interface {
	Extract(label string) features.Features
}

// Scorer scores one contributor against one project's features.
type Scorer interface {
	Score(f features.Features, c model.Contributor) (float64, error)
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithRunner sets how contributor rows are scheduled.
func WithRunner(r Runner) Option {
	return func(b *Builder) {
		if r != nil {
			b.runner = r
		}
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithLogger sets a custom logger for the builder.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithIdentityHeader sets the name of the contributor id column.
func WithIdentityHeader(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.identityHeader = name
		}
	}
}

// Builder scores every contributor against every project.
type Builder struct {
	extractor      Extractor
	scorer         Scorer
	runner         Runner
	recorder       Recorder
	logger         logger.Logger
	identityHeader string
}

// NewBuilder creates a builder using extractor and scorer.
func NewBuilder(extractor Extractor, scorer Scorer, opts ...Option) *Builder {
	b := &Builder{
		extractor:      extractor,
		scorer:         scorer,
		runner:         SequentialRunner{},
		recorder:       nopRecorder{},
		logger:         logger.Get().Named("ranking"),
		identityHeader: defaultIdentityHeader,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build returns the match table for contributors x projects. Any scoring
// failure aborts the build and no table is returned.
func (b *Builder) Build(ctx context.Context, projects []model.Project, contributors []model.Contributor) (MatchTable, error) {
	ids := make([]string, len(projects))
	projFeatures := make([]features.Features, len(projects))
	for j, p := range projects {
		ids[j] = p.ID
		projFeatures[j] = b.extractor.Extract(p.Labels)
	}

	rows := make([]MatchRow, len(contributors))
	err := b.runner.Run(ctx, len(contributors), func(_ context.Context, i int) error {
		start := time.Now()
		c := contributors[i]
		scores := make([]float64, len(projects))
		for j := range projects {
			s, err := b.scorer.Score(projFeatures[j], c)
			if err != nil {
				b.recorder.RecordScoringError(scoring.Kind(err))
				return &PairError{ContributorID: c.ID, ProjectID: ids[j], Err: err}
			}
			b.recorder.RecordPairScored(s)
			scores[j] = s
		}
		rows[i] = MatchRow{ContributorID: c.ID, Scores: scores}
		b.recorder.RecordRowLatency(time.Since(start))
		return nil
	})
	if err != nil {
		b.logger.Error(ctx, "match table build failed", logger.Error(err))
		return MatchTable{}, fmt.Errorf("build match table: %w", err)
	}

	b.logger.Debug(ctx, "match table built",
		logger.Int("contributors", len(contributors)),
		logger.Int("projects", len(projects)),
	)

	return MatchTable{IdentityHeader: b.identityHeader, ProjectIDs: ids, Rows: rows}, nil
}
