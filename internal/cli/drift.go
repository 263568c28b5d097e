package cli

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/beltworks/camber/internal/calc"
	"github.com/beltworks/camber/internal/recipe"
	"github.com/beltworks/camber/internal/store"
)

// DriftOptions holds flags for the drift command.
type DriftOptions struct {
	*RootOptions
	Database     string
	Mode         string
	Top          int
	Parallelism  int
	FixturesOnly bool
	SavePrevious bool
}

// DriftOutput is the JSON shape for a drift sweep.
type DriftOutput struct {
	Summary recipe.SweepSummary `json:"summary"`
	Results []recipe.RunResult  `json:"results,omitempty"`
}

// NewDriftCommand creates the drift command.
func NewDriftCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DriftOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "drift",
		Short: "Sweep the recipe corpus and rank calculation drift",
		Long: `Run every stored recipe through the current engine and compare outputs
against the selected snapshot. Numeric fields rank by relative delta;
any nonzero drift fails the recipe.

Modes: expected, baseline, legacy, previous, expected+fallback.
A recipe without the requested snapshot is skipped, never silently
compared against a different snapshot.

Exit codes:
  0 - No drift
  1 - At least one recipe drifted
  2 - Command error

Examples:
  camber drift --db corpus.db
  camber drift --db corpus.db --mode legacy --top 20
  camber drift --db corpus.db --fixtures --save-previous`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrift(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite corpus (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Mode, "mode", string(recipe.ModeExpected), "comparison mode")
	cmd.Flags().IntVar(&opts.Top, "top", 10, "number of drift entries to report")
	cmd.Flags().IntVar(&opts.Parallelism, "parallelism", runtime.NumCPU(), "concurrent recipe runs")
	cmd.Flags().BoolVar(&opts.FixturesOnly, "fixtures", false, "sweep only promoted fixtures")
	cmd.Flags().BoolVar(&opts.SavePrevious, "save-previous", false, "record this run's outputs as each recipe's prior-run snapshot")

	return cmd
}

func runDrift(opts *DriftOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	mode := recipe.ComparisonMode(opts.Mode)
	switch mode {
	case recipe.ModeExpected, recipe.ModeBaseline, recipe.ModeLegacy,
		recipe.ModePrevious, recipe.ModeExpectedWithFallback:
	default:
		return NewExitError(ExitCommandError, "unknown comparison mode "+opts.Mode)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	corpus, err := st.ListRecipes(ctx, opts.FixturesOnly)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load corpus", err)
	}
	slog.Debug("corpus loaded", "recipes", len(corpus), "mode", mode)

	results, summary := recipe.Sweep(ctx, corpus, mode, calc.Calculate, opts.Top, opts.Parallelism)

	if opts.SavePrevious {
		if err := savePreviousSnapshots(ctx, st, corpus); err != nil {
			return WrapExitError(ExitCommandError, "failed to save prior-run snapshots", err)
		}
	}

	if opts.Format == "json" {
		out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		resp := DriftOutput{Summary: summary}
		if opts.Verbose {
			resp.Results = results
		}
		if err := out.Success(resp); err != nil {
			return err
		}
	} else {
		recipe.WriteSummary(cmd.OutOrStdout(), summary)
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, "drift detected")
	}
	return nil
}

// savePreviousSnapshots reruns each recipe once and stores the outputs as
// the rolling prior-run snapshot. Failed or rejected runs store nothing, so
// a bad engine build cannot clobber the last good snapshot.
func savePreviousSnapshots(ctx context.Context, st *store.Store, corpus []*recipe.Recipe) error {
	for _, rec := range corpus {
		result := calc.Calculate(rec.Inputs)
		if !result.Success {
			slog.Warn("skipping prior-run snapshot for failed recipe", "recipe", rec.ID)
			continue
		}
		if err := st.SavePrevious(ctx, rec.ID, result.Outputs); err != nil {
			return err
		}
	}
	return nil
}
