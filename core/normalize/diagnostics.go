package normalize

import (
	"github.com/hashicorp/go-multierror"

	"reservation-analysis/internal/errors"
)

// maxKeptErrors bounds how many individual failures are retained per pass.
// Counts are always exact.
const maxKeptErrors = 50

// Diagnostics records what happened to each record during one pass.
// Not safe for concurrent use; give each feed its own instance.
type Diagnostics struct {
	Seen     int `json:"seen"`
	Excluded int `json:"excluded"`

	errs *multierror.Error
}

// Accept counts a record that made it into a bucket
func (d *Diagnostics) Accept() {
	d.Seen++
}

// Reject counts a record that could not be keyed
func (d *Diagnostics) Reject(err error) {
	d.Seen++
	d.Excluded++
	if d.errs == nil || len(d.errs.Errors) < maxKeptErrors {
		d.errs = multierror.Append(d.errs, err)
	}
}

// Err returns the retained normalization failures, or nil
func (d *Diagnostics) Err() error {
	return d.errs.ErrorOrNil()
}

// Errors returns the retained failures as domain errors
func (d *Diagnostics) Errors() []*errors.Error {
	if d.errs == nil {
		return nil
	}
	out := make([]*errors.Error, 0, len(d.errs.Errors))
	for _, err := range d.errs.Errors {
		if e, ok := errors.As(err); ok {
			out = append(out, e)
			continue
		}
		out = append(out, errors.Wrap(errors.TypeNormalization, "record rejected", err))
	}
	return out
}
