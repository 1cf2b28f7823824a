// Package cmd - analyze command
package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"reservation-analysis/core/output"
	"reservation-analysis/core/ui"
	"reservation-analysis/internal/config"
)

var analyzeFlags struct {
	subscription string
	format       string
	out          string
	source       string
	snapshot     string
	timeout      time.Duration
	sequential   bool
	unsorted     bool
	noColor      bool
	quiet        bool
}

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Reconcile a subscription's VMs against its reservations",
	Long: `Retrieve every virtual machine in the subscription and every reservation
that applies to it, then report coverage per (VM size, location).

Only reservations in the Succeeded state whose scope is Single or lists the
subscription are counted. Shared reservations are not attributed.

Examples:
  reservation-analysis analyze -s 00000000-0000-0000-0000-000000000000
  reservation-analysis analyze --format markdown --out report.md
  reservation-analysis analyze --source snapshot --snapshot snapshot.yaml`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeFlags.subscription, "subscription", "s", "", "subscription ID (default from AZURE_SUBSCRIPTION_ID)")
	f.StringVarP(&analyzeFlags.format, "format", "f", "", "output format (table, json, yaml, markdown)")
	f.StringVarP(&analyzeFlags.out, "out", "o", "", "write output to a file instead of stdout")
	f.StringVar(&analyzeFlags.source, "source", "", "feed source (azure, snapshot)")
	f.StringVar(&analyzeFlags.snapshot, "snapshot", "", "snapshot file; implies --source snapshot")
	f.DurationVar(&analyzeFlags.timeout, "timeout", 0, "per-feed retrieval timeout (e.g. 90s)")
	f.BoolVar(&analyzeFlags.sequential, "sequential", false, "retrieve feeds one after the other")
	f.BoolVar(&analyzeFlags.unsorted, "unsorted", false, "keep rows in reconciliation order")
	f.BoolVar(&analyzeFlags.noColor, "no-color", false, "disable colored output")
	f.BoolVarP(&analyzeFlags.quiet, "quiet", "q", false, "suppress progress output")
}

// applyAnalyzeFlags overlays explicitly set flags on the configuration
func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("subscription") {
		cfg.Azure.SubscriptionID = analyzeFlags.subscription
	}
	if flags.Changed("format") {
		cfg.Output.DefaultFormat = analyzeFlags.format
	}
	if flags.Changed("source") {
		cfg.Analysis.Source = analyzeFlags.source
	}
	if flags.Changed("snapshot") {
		cfg.Analysis.SnapshotPath = analyzeFlags.snapshot
		if !flags.Changed("source") {
			cfg.Analysis.Source = "snapshot"
		}
	}
	if flags.Changed("timeout") {
		cfg.Analysis.SetFeedTimeout(analyzeFlags.timeout)
	}
	if flags.Changed("sequential") {
		cfg.Analysis.Sequential = analyzeFlags.sequential
	}
	if flags.Changed("unsorted") {
		cfg.Analysis.Unsorted = analyzeFlags.unsorted
	}
	if flags.Changed("no-color") {
		cfg.Output.NoColor = analyzeFlags.noColor
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	applyAnalyzeFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	formatter, err := output.New(output.Format(cfg.Output.DefaultFormat), output.Options{NoColor: cfg.Output.NoColor})
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Progress goes to stderr so machine formats stay clean on stdout
	progress := ui.NewWriter(cmd.ErrOrStderr(), cfg.Output.NoColor)
	if verbose {
		progress.SetVerbosity(2)
	}
	showSpinner := !analyzeFlags.quiet && formatter.Format() == output.FormatTable && analyzeFlags.out == ""
	if analyzeFlags.quiet {
		progress.SetVerbosity(0)
	}

	analysis, err := ui.NewRunner(progress, showSpinner).Run(ctx, eng, cfg.Azure.SubscriptionID)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if analyzeFlags.out != "" {
		file, err := os.Create(analyzeFlags.out)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}

	if err := formatter.Render(w, analysis); err != nil {
		return err
	}
	if analyzeFlags.out != "" && !analyzeFlags.quiet {
		progress.Success("Wrote %s (%d rows)", analyzeFlags.out, len(analysis.Rows))
	}
	return nil
}
