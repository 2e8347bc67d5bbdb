// Package main provides the brainmatch command: score every contributor of a
// Brainhack event against the event's projects.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	service "github.com/okian/brainmatch/internal/app"
	"github.com/okian/brainmatch/internal/config"
	"github.com/okian/brainmatch/pkg/logger"
	"github.com/okian/brainmatch/pkg/metrics"
)

type options struct {
	topN       int
	precision  int
	workers    int
	configPath string
}

func newRootCmd() *cobra.Command {
	defaults := config.New()
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "brainmatch <event> <projects.tsv> <contributors.csv> <fields.json> <out_match.csv>",
		Short: "Project-contributor matching",
		Long: "Scores how well each registered contributor fits each project of a Brainhack event " +
			"(e.g. bhg:donostia_esp_1), writes the full score table to <out_match.csv> and the " +
			"top-n projects per contributor to <out_match>_top.csv.",
		Args:          cobra.ExactArgs(5),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	cmd.Flags().IntVar(&opts.topN, "n", defaults.TopN, "Top n projects kept per contributor")
	cmd.Flags().IntVar(&opts.precision, "precision", defaults.Precision, "Decimal places written for scores")
	cmd.Flags().IntVar(&opts.workers, "workers", defaults.Workers, "Contributor rows scored concurrently")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file (default $BRAINMATCH_CONFIG)")

	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("n") {
		cfg.TopN = opts.topN
	}
	if flags.Changed("precision") {
		cfg.Precision = opts.precision
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := service.NewFromConfig(cfg,
		service.WithLogger(log),
		service.WithMetrics(metrics.Default()),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	res, err := svc.Run(ctx, service.Request{
		Event:            args[0],
		ProjectsPath:     args[1],
		ContributorsPath: args[2],
		FieldsPath:       args[3],
		MatchPath:        args[4],
	})
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), res)
	return nil
}

func printSummary(w io.Writer, res service.Result) {
	fmt.Fprintf(w, "run %s: %d contributors x %d projects in %s\n",
		res.RunID, res.Contributors, res.Projects, res.Duration.Round(time.Microsecond))
	fmt.Fprintf(w, "match table: %s\n", res.MatchPath)
	fmt.Fprintf(w, "top table:   %s\n", res.TopPath)
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
