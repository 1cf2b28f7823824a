// Package report assembles reconciled rows into the list handed to callers.
package report

import (
	"slices"

	"reservation-analysis/core/reconcile"
	"reservation-analysis/core/types"
)

// Options controls assembly
type Options struct {
	// Sort orders rows by (location, size) for stable display
	Sort bool
}

// Report is the assembled output
type Report struct {
	Rows    []types.AnalysisRow `json:"rows" yaml:"rows"`
	Summary Summary             `json:"summary" yaml:"summary"`
}

// Summary totals the rows
type Summary struct {
	Buckets       int                  `json:"buckets" yaml:"buckets"`
	TotalActual   int                  `json:"totalActual" yaml:"totalActual"`
	TotalReserved int                  `json:"totalReserved" yaml:"totalReserved"`
	TotalGap      int                  `json:"totalGap" yaml:"totalGap"`
	Coverage      int                  `json:"coverage" yaml:"coverage"`
	ByStatus      map[types.Status]int `json:"byStatus" yaml:"byStatus"`
}

// Assemble copies rows, sorts them if asked and computes the summary.
// Row values are never modified.
func Assemble(rows []types.AnalysisRow, opts Options) *Report {
	out := slices.Clone(rows)
	if out == nil {
		out = []types.AnalysisRow{}
	}
	if opts.Sort {
		slices.SortStableFunc(out, func(a, b types.AnalysisRow) int {
			switch {
			case a.Key().Less(b.Key()):
				return -1
			case b.Key().Less(a.Key()):
				return 1
			}
			return 0
		})
	}
	return &Report{Rows: out, Summary: Summarize(out)}
}

// Summarize totals a row list
func Summarize(rows []types.AnalysisRow) Summary {
	s := Summary{
		Buckets:  len(rows),
		ByStatus: make(map[types.Status]int),
	}
	for _, row := range rows {
		s.TotalActual += row.Actual
		s.TotalReserved += row.Reserved
		s.ByStatus[row.Status]++
	}
	s.TotalGap = s.TotalActual - s.TotalReserved
	s.Coverage = reconcile.Coverage(s.TotalActual, s.TotalReserved)
	return s
}
