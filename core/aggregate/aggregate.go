// Package aggregate folds record sequences into per-bucket quantities.
package aggregate

import (
	"iter"
	"slices"

	"reservation-analysis/core/normalize"
	"reservation-analysis/core/types"
)

// Counts maps each bucket to its total quantity
type Counts map[types.GroupKey]int

// Keys returns the buckets in (location, size) order
func (c Counts) Keys() []types.GroupKey {
	keys := make([]types.GroupKey, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b types.GroupKey) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return keys
}

// Total returns the sum over all buckets
func (c Counts) Total() int {
	total := 0
	for _, v := range c {
		total += v
	}
	return total
}

// KeyFunc maps a record to its bucket and the quantity it contributes
type KeyFunc[T any] func(T) (types.GroupKey, int, error)

// Fold sums seq into Counts. Records keyOf rejects are recorded in diag and
// skipped. A sequence error aborts the fold and nothing is returned, so a
// partially retrieved feed can never be mistaken for a complete one.
//
// The result is a plain sum and does not depend on the order of seq.
func Fold[T any](seq iter.Seq2[T, error], keyOf KeyFunc[T], diag *normalize.Diagnostics) (Counts, error) {
	if diag == nil {
		diag = &normalize.Diagnostics{}
	}
	counts := make(Counts)
	for record, err := range seq {
		if err != nil {
			return nil, err
		}
		key, qty, err := keyOf(record)
		if err != nil {
			diag.Reject(err)
			continue
		}
		diag.Accept()
		counts[key] += qty
	}
	return counts, nil
}

// Resources counts live resources, one per record
func Resources(seq iter.Seq2[types.ResourceRecord, error], diag *normalize.Diagnostics) (Counts, error) {
	return Fold(seq, func(r types.ResourceRecord) (types.GroupKey, int, error) {
		key, err := normalize.ResourceKey(r)
		return key, 1, err
	}, diag)
}

// Commitments sums commitment quantities
func Commitments(seq iter.Seq2[types.CommitmentRecord, error], diag *normalize.Diagnostics) (Counts, error) {
	return Fold(seq, normalize.CommitmentKey, diag)
}
