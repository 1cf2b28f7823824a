// Package ui - Interactive analysis runner with live progress
package ui

import (
	"context"
	"time"

	"reservation-analysis/core/engine"
)

// Analyzer computes an analysis for a subscription
type Analyzer interface {
	ComputeAnalysis(ctx context.Context, subscriptionID string) (*engine.Analysis, error)
}

// Runner runs an analysis with live UI feedback
type Runner struct {
	w           *Writer
	showSpinner bool
}

// NewRunner creates a runner. Feedback goes to w, which is normally stderr so
// that stdout stays parseable.
func NewRunner(w *Writer, showSpinner bool) *Runner {
	return &Runner{w: w, showSpinner: showSpinner}
}

// Run executes the analysis and reports progress and diagnostics
func (r *Runner) Run(ctx context.Context, analyzer Analyzer, subscriptionID string) (*engine.Analysis, error) {
	start := time.Now()

	var spinner *Spinner
	if r.showSpinner {
		spinner = r.w.NewSpinner("Retrieving inventory and reservations...")
		spinner.Start()
	}

	analysis, err := analyzer.ComputeAnalysis(ctx, subscriptionID)
	if spinner != nil {
		spinner.Stop(err == nil)
	}
	if err != nil {
		return nil, err
	}

	d := analysis.Diagnostics
	if d.ResourcesExcluded > 0 {
		r.w.Warning("%d of %d resources could not be normalized", d.ResourcesExcluded, d.ResourcesSeen)
	}
	if d.CommitmentsExcluded > 0 {
		r.w.Warning("%d of %d eligible reservations could not be normalized", d.CommitmentsExcluded, d.CommitmentsSeen)
	}
	for _, failure := range d.NormalizationFailures {
		r.w.Debug("%s", failure)
	}
	for reason, n := range d.IneligibleCommitments {
		r.w.Debug("%d reservations skipped: %s", n, reason)
	}

	r.w.Debug("completed in %s", time.Since(start).Round(time.Millisecond))
	return analysis, nil
}
