// Package reconcile merges actual and reserved counts into analysis rows.
package reconcile

import (
	"github.com/shopspring/decimal"

	"reservation-analysis/core/aggregate"
	"reservation-analysis/core/types"
)

var hundred = decimal.NewFromInt(100)

// Reconcile returns one row per bucket present in either map.
// Rows follow the (location, size) order of the merged key set.
func Reconcile(actual, reserved aggregate.Counts) []types.AnalysisRow {
	union := make(aggregate.Counts, len(actual)+len(reserved))
	for k := range actual {
		union[k] = 0
	}
	for k := range reserved {
		union[k] = 0
	}

	rows := make([]types.AnalysisRow, 0, len(union))
	for _, key := range union.Keys() {
		rows = append(rows, Row(key, actual[key], reserved[key]))
	}
	return rows
}

// Row computes the metrics of a single bucket
func Row(key types.GroupKey, actual, reserved int) types.AnalysisRow {
	return types.AnalysisRow{
		SizeClass: key.SizeClass,
		Location:  key.Location,
		Actual:    actual,
		Reserved:  reserved,
		Gap:       actual - reserved,
		Coverage:  Coverage(actual, reserved),
		Status:    Classify(actual, reserved),
	}
}

// Coverage returns reserved as a percentage of actual, rounded half up.
// With no actual usage it is 100 when anything is reserved and 0 otherwise.
func Coverage(actual, reserved int) int {
	if actual > 0 {
		pct := decimal.NewFromInt(int64(reserved)).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(actual))).
			Round(0)
		return int(pct.IntPart())
	}
	if reserved > 0 {
		return 100
	}
	return 0
}

// Classify assigns a status from the gap between actual and reserved.
// Rules are evaluated in order; the first match wins.
func Classify(actual, reserved int) types.Status {
	gap := actual - reserved
	switch {
	case actual == 0 && reserved > 0:
		return types.StatusOverReserved
	case gap == 0 && actual > 0:
		return types.StatusPerfectMatch
	case gap > 0:
		return types.StatusUnderReserved
	case gap < 0:
		return types.StatusOverReserved
	default:
		return types.StatusNeedsInvestigation
	}
}
