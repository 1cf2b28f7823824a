// Package types - Reconciliation keys and output rows
package types

// GroupKey is the bucket both inventories are aggregated under
type GroupKey struct {
	SizeClass string
	Location  string
}

// String returns "size|location"
func (k GroupKey) String() string {
	return k.SizeClass + "|" + k.Location
}

// Less orders keys by location, then size class
func (k GroupKey) Less(other GroupKey) bool {
	if k.Location != other.Location {
		return k.Location < other.Location
	}
	return k.SizeClass < other.SizeClass
}

// Status classifies a bucket
type Status string

const (
	StatusOverReserved       Status = "Over-reserved"
	StatusPerfectMatch       Status = "Perfect Match"
	StatusUnderReserved      Status = "Under-reserved"
	StatusNeedsInvestigation Status = "Needs Investigation"
)

// AllStatuses lists every status in display order
func AllStatuses() []Status {
	return []Status{
		StatusUnderReserved,
		StatusOverReserved,
		StatusPerfectMatch,
		StatusNeedsInvestigation,
	}
}

// AnalysisRow is the reconciled view of one bucket
type AnalysisRow struct {
	SizeClass string `json:"vmSize" yaml:"vmSize"`
	Location  string `json:"location" yaml:"location"`
	Actual    int    `json:"actual" yaml:"actual"`
	Reserved  int    `json:"reserved" yaml:"reserved"`

	// Gap is Actual - Reserved; negative means excess commitments
	Gap int `json:"gap" yaml:"gap"`

	// Coverage is Reserved as a rounded percentage of Actual
	Coverage int `json:"coverage" yaml:"coverage"`

	Status Status `json:"status" yaml:"status"`
}

// Key returns the row's group key
func (r AnalysisRow) Key() GroupKey {
	return GroupKey{SizeClass: r.SizeClass, Location: r.Location}
}
