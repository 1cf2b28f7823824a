// Package cmd - snapshot command
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"reservation-analysis/clouds/azure"
	"reservation-analysis/clouds/snapshot"
	"reservation-analysis/core/ui"
	"reservation-analysis/internal/config"
	"reservation-analysis/internal/logging"
)

var (
	snapshotOut          string
	snapshotSubscription string
)

// snapshotCmd groups snapshot subcommands
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture and replay frozen feeds",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// snapshotCaptureCmd drains the live feeds into a file
var snapshotCaptureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Write the live VM and reservation feeds to a snapshot file",
	Long: `Retrieve the subscription's virtual machines and every visible reservation
and store them unfiltered. Replay with:

  reservation-analysis analyze --snapshot <file>`,
	Args: cobra.NoArgs,
	RunE: runSnapshotCapture,
}

func init() {
	snapshotCaptureCmd.Flags().StringVarP(&snapshotOut, "out", "o", "snapshot.yaml", "output file (.yaml or .json)")
	snapshotCaptureCmd.Flags().StringVarP(&snapshotSubscription, "subscription", "s", "", "subscription ID (default from AZURE_SUBSCRIPTION_ID)")
	snapshotCmd.AddCommand(snapshotCaptureCmd)
}

func runSnapshotCapture(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if cmd.Flags().Changed("subscription") {
		cfg.Azure.SubscriptionID = snapshotSubscription
	}
	// Capture always reads the live source
	cfg.Analysis.Source = azure.Name
	if err := cfg.Validate(); err != nil {
		return err
	}

	source, err := azure.NewSource(cfg.Azure, logging.Logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := withFeedTimeout(ctx, cfg)
	defer cancel()

	inventory, commitments, err := source.Open(ctx, cfg.Azure.SubscriptionID)
	if err != nil {
		return err
	}

	progress := ui.NewWriter(cmd.ErrOrStderr(), cfg.Output.NoColor)
	spinner := progress.NewSpinner("Capturing inventory and reservations...")
	spinner.Start()
	captured, err := snapshot.Capture(ctx, cfg.Azure.SubscriptionID, inventory, commitments)
	spinner.Stop(err == nil)
	if err != nil {
		return err
	}

	if err := snapshot.Write(snapshotOut, captured); err != nil {
		return err
	}
	progress.Success("Wrote %s (%d resources, %d reservations)", snapshotOut, len(captured.Resources), len(captured.Commitments))
	return nil
}

func withFeedTimeout(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if d := cfg.Analysis.FeedTimeout(); d > 0 {
		// both feeds are drained in turn
		return context.WithTimeout(ctx, 2*d)
	}
	return context.WithCancel(ctx)
}
