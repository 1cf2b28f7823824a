// Package feed defines the contracts between inventory sources and the
// reconciliation core.
//
// Feeds are lazy: records are pulled page by page as the sequence is ranged
// over. A sequence reports a retrieval failure by yielding a non-nil error,
// after which it stops. Consumers must treat everything they saw before the
// error as incomplete.
package feed

import (
	"context"
	"iter"

	"reservation-analysis/core/types"
)

// InventoryFeed produces the live resources of one subscription
type InventoryFeed interface {
	Resources(ctx context.Context) iter.Seq2[types.ResourceRecord, error]
}

// CommitmentSource produces every commitment record visible to the caller,
// before any eligibility filtering
type CommitmentSource interface {
	Commitments(ctx context.Context) iter.Seq2[types.CommitmentRecord, error]
}

// CommitmentFeed produces commitments already filtered for eligibility.
// It has the same shape as CommitmentSource; the separate name marks which
// side of the filter a value sits on.
type CommitmentFeed interface {
	CommitmentSource
}

// Items adapts a slice to a sequence that never fails
func Items[T any](items []T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}

// Fail yields the items, then err
func Fail[T any](items []T, err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
		var zero T
		yield(zero, err)
	}
}

// Collect drains seq into a slice. It returns the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Pager is the paging contract shared by the provider SDK clients
type Pager[T any] interface {
	More() bool
	NextPage(ctx context.Context) (T, error)
}

// Paginate flattens a pager into a record sequence. extract converts one page
// into records; it may return nil for empty pages.
func Paginate[P, T any](ctx context.Context, pager Pager[P], extract func(P) []T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				yield(zero, err)
				return
			}
			for _, item := range extract(page) {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}
