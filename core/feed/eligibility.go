package feed

import (
	"context"
	"iter"
	"strings"

	"go.uber.org/zap"

	"reservation-analysis/core/types"
	"reservation-analysis/internal/logging"
)

// ExclusionReason says why a commitment was left out of the analysis
type ExclusionReason string

const (
	ReasonState        ExclusionReason = "state"
	ReasonScope        ExclusionReason = "scope"
	ReasonResourceType ExclusionReason = "resource_type"
)

// Eligibility decides whether a commitment applies to the analyzed subscription
type Eligibility struct {
	// SubscriptionID is the subscription under analysis
	SubscriptionID string

	// ResourceTypes optionally restricts reserved resource types
	// (case-insensitive). Empty means every type is accepted.
	ResourceTypes []string
}

// Check returns ("", true) for an eligible commitment, or the first failed rule
func (e Eligibility) Check(c types.CommitmentRecord) (ExclusionReason, bool) {
	if c.State != types.StateSucceeded {
		return ReasonState, false
	}
	if c.ScopeKind != types.ScopeSingle && !e.targets(c.TargetScopes) {
		return ReasonScope, false
	}
	if len(e.ResourceTypes) > 0 && c.ResourceType != "" && !containsFold(e.ResourceTypes, c.ResourceType) {
		return ReasonResourceType, false
	}
	return "", true
}

func (e Eligibility) targets(scopes []string) bool {
	for _, scope := range scopes {
		if ScopeIncludes(scope, e.SubscriptionID) {
			return true
		}
	}
	return false
}

// ScopeIncludes reports whether scope covers usage in subscriptionID.
// A scope matches as a bare subscription ID, as /subscriptions/<id>, or as
// any resource-group scope below it. Comparison is case-insensitive.
func ScopeIncludes(scope, subscriptionID string) bool {
	sub := strings.ToLower(strings.TrimSpace(subscriptionID))
	if sub == "" {
		return false
	}
	s := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(scope)), "/")
	prefix := "/subscriptions/" + sub
	return s == sub || s == prefix || strings.HasPrefix(s, prefix+"/")
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}

// EligibleFeed filters a CommitmentSource down to the commitments that apply
// to one subscription. Exclusions from the most recent pass are kept for
// diagnostics.
type EligibleFeed struct {
	source   CommitmentSource
	rules    Eligibility
	logger   *zap.Logger
	excluded map[ExclusionReason]int
}

// Eligible wraps source with the eligibility rules
func Eligible(source CommitmentSource, rules Eligibility, logger *zap.Logger) *EligibleFeed {
	return &EligibleFeed{
		source:   source,
		rules:    rules,
		logger:   logging.OrGlobal(logger),
		excluded: make(map[ExclusionReason]int),
	}
}

// Commitments yields only eligible commitments
func (f *EligibleFeed) Commitments(ctx context.Context) iter.Seq2[types.CommitmentRecord, error] {
	return func(yield func(types.CommitmentRecord, error) bool) {
		f.excluded = make(map[ExclusionReason]int)
		for c, err := range f.source.Commitments(ctx) {
			if err != nil {
				yield(c, err)
				return
			}
			if reason, ok := f.rules.Check(c); !ok {
				f.excluded[reason]++
				f.logger.Debug("commitment excluded",
					zap.String("id", c.ID),
					zap.String("reason", string(reason)),
					zap.String("scope_type", string(c.ScopeKind)),
					zap.String("state", string(c.State)),
				)
				continue
			}
			if !yield(c, nil) {
				return
			}
		}
	}
}

// Excluded returns the per-reason exclusion counts of the last pass
func (f *EligibleFeed) Excluded() map[ExclusionReason]int {
	out := make(map[ExclusionReason]int, len(f.excluded))
	for k, v := range f.excluded {
		out[k] = v
	}
	return out
}
