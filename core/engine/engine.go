// Package engine provides the reservation analysis entry point.
// CLI and HTTP are thin wrappers around this engine.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"reservation-analysis/core/aggregate"
	"reservation-analysis/core/feed"
	"reservation-analysis/core/normalize"
	"reservation-analysis/core/reconcile"
	"reservation-analysis/core/report"
	"reservation-analysis/core/types"
	"reservation-analysis/internal/config"
	"reservation-analysis/internal/errors"
	"reservation-analysis/internal/logging"
)

// Opener opens the two feeds of one subscription
type Opener interface {
	Open(ctx context.Context, subscriptionID string) (feed.InventoryFeed, feed.CommitmentSource, error)
}

// Config configures the engine
type Config struct {
	// FeedTimeout bounds the retrieval of each feed; zero means no limit
	FeedTimeout time.Duration

	// Sequential drains the feeds one after the other instead of concurrently
	Sequential bool

	// Unsorted leaves rows in reconciliation order
	Unsorted bool

	// ResourceTypes restricts commitments to these reserved resource types
	ResourceTypes []string
}

// ConfigFromAnalysis maps the analysis section of the application config
func ConfigFromAnalysis(a config.AnalysisConfig) Config {
	return Config{
		FeedTimeout:   a.FeedTimeout(),
		Sequential:    a.Sequential,
		Unsorted:      a.Unsorted,
		ResourceTypes: a.ResourceTypes,
	}
}

// Engine computes analyses. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	opener Opener
	config Config
	logger *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewEngine creates a new engine
func NewEngine(opener Opener, config Config, logger *zap.Logger) *Engine {
	return &Engine{
		opener: opener,
		config: config,
		logger: logging.Named(logger, "engine"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Analysis is the result of one reconciliation pass
type Analysis struct {
	ID             string              `json:"id" yaml:"id"`
	SubscriptionID string              `json:"subscriptionId" yaml:"subscriptionId"`
	GeneratedAt    time.Time           `json:"generatedAt" yaml:"generatedAt"`
	Rows           []types.AnalysisRow `json:"rows" yaml:"rows"`
	Summary        report.Summary      `json:"summary" yaml:"summary"`
	Diagnostics    Diagnostics         `json:"diagnostics" yaml:"diagnostics"`
}

// Diagnostics explains which records did not reach a bucket
type Diagnostics struct {
	ResourcesSeen         int                          `json:"resourcesSeen" yaml:"resourcesSeen"`
	ResourcesExcluded     int                          `json:"resourcesExcluded" yaml:"resourcesExcluded"`
	CommitmentsSeen       int                          `json:"commitmentsSeen" yaml:"commitmentsSeen"`
	CommitmentsExcluded   int                          `json:"commitmentsExcluded" yaml:"commitmentsExcluded"`
	IneligibleCommitments map[feed.ExclusionReason]int `json:"ineligibleCommitments,omitempty" yaml:"ineligibleCommitments,omitempty"`
	NormalizationFailures []string                     `json:"normalizationFailures,omitempty" yaml:"normalizationFailures,omitempty"`
}

// ComputeAnalysis reconciles the subscription's live inventory against its
// eligible commitments. Either feed failing aborts the whole pass; there is
// no partial result.
func (e *Engine) ComputeAnalysis(ctx context.Context, subscriptionID string) (*Analysis, error) {
	subscriptionID = strings.TrimSpace(subscriptionID)
	if subscriptionID == "" {
		return nil, errors.Config("subscription ID is required")
	}

	start := e.now()
	logger := e.logger.With(zap.String("subscription", subscriptionID))

	inventory, source, err := e.opener.Open(ctx, subscriptionID)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.Wrap(errors.TypeSourceUnavailable, "could not open feeds", err)
	}

	commitments := feed.Eligible(source, feed.Eligibility{
		SubscriptionID: subscriptionID,
		ResourceTypes:  e.config.ResourceTypes,
	}, logger)

	var (
		actual, reserved aggregate.Counts
		invDiag, comDiag normalize.Diagnostics
	)

	drainInventory := func(ctx context.Context) error {
		ctx, cancel := e.withTimeout(ctx)
		defer cancel()

		counts, err := aggregate.Resources(inventory.Resources(ctx), &invDiag)
		if err != nil {
			return errors.SourceUnavailable(errors.SourceInventory, err)
		}
		actual = counts
		logger.Debug("inventory drained", zap.Int("records", invDiag.Seen), zap.Int("buckets", len(counts)))
		return nil
	}

	drainCommitments := func(ctx context.Context) error {
		ctx, cancel := e.withTimeout(ctx)
		defer cancel()

		counts, err := aggregate.Commitments(commitments.Commitments(ctx), &comDiag)
		if err != nil {
			return errors.SourceUnavailable(errors.SourceCommitments, err)
		}
		reserved = counts
		logger.Debug("commitments drained", zap.Int("records", comDiag.Seen), zap.Int("buckets", len(counts)))
		return nil
	}

	if e.config.Sequential {
		err = drainInventory(ctx)
		if err == nil {
			err = drainCommitments(ctx)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return drainInventory(gctx) })
		g.Go(func() error { return drainCommitments(gctx) })
		err = g.Wait()
	}
	if err != nil {
		logger.Error("analysis aborted", zap.Error(err))
		return nil, err
	}

	assembled := report.Assemble(reconcile.Reconcile(actual, reserved), report.Options{Sort: !e.config.Unsorted})

	diag := Diagnostics{
		ResourcesSeen:         invDiag.Seen,
		ResourcesExcluded:     invDiag.Excluded,
		CommitmentsSeen:       comDiag.Seen,
		CommitmentsExcluded:   comDiag.Excluded,
		IneligibleCommitments: commitments.Excluded(),
	}
	for _, d := range []*normalize.Diagnostics{&invDiag, &comDiag} {
		for _, failure := range d.Errors() {
			diag.NormalizationFailures = append(diag.NormalizationFailures, failure.Error())
		}
	}
	if n := invDiag.Excluded + comDiag.Excluded; n > 0 {
		logger.Warn("records excluded during normalization",
			zap.Int("resources", invDiag.Excluded),
			zap.Int("commitments", comDiag.Excluded),
		)
	}

	analysis := &Analysis{
		ID:             e.newID(),
		SubscriptionID: subscriptionID,
		GeneratedAt:    start.UTC(),
		Rows:           assembled.Rows,
		Summary:        assembled.Summary,
		Diagnostics:    diag,
	}

	logger.Info("analysis complete",
		zap.String("analysis", analysis.ID),
		zap.Int("buckets", len(analysis.Rows)),
		zap.Int("actual", analysis.Summary.TotalActual),
		zap.Int("reserved", analysis.Summary.TotalReserved),
		zap.Duration("duration", e.now().Sub(start)),
	)
	return analysis, nil
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.config.FeedTimeout > 0 {
		return context.WithTimeout(ctx, e.config.FeedTimeout)
	}
	return context.WithCancel(ctx)
}
