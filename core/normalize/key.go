// Package normalize derives group keys from inventory and commitment records.
//
// Both sides must key off the same attribute family: resources use their
// hardware size, commitments use their purchased SKU name. The reserved
// resource type is never part of the key.
package normalize

import (
	"strings"

	"reservation-analysis/core/types"
	"reservation-analysis/internal/errors"
)

// Location canonicalises a region identifier so that "East US", "eastus"
// and " EastUS " land in the same bucket
func Location(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), ""))
}

// SizeClass canonicalises an instance size or SKU name
func SizeClass(raw string) string {
	return strings.TrimSpace(raw)
}

// ResourceKey returns the bucket of a live resource
func ResourceKey(r types.ResourceRecord) (types.GroupKey, error) {
	key := types.GroupKey{SizeClass: SizeClass(r.SizeClass), Location: Location(r.Location)}
	if err := validate(errors.SourceInventory, r.ID, key); err != nil {
		return types.GroupKey{}, err
	}
	return key, nil
}

// CommitmentKey returns the bucket of a commitment and the quantity it adds
func CommitmentKey(c types.CommitmentRecord) (types.GroupKey, int, error) {
	key := types.GroupKey{SizeClass: SizeClass(c.SizeClass), Location: Location(c.Location)}
	if err := validate(errors.SourceCommitments, c.ID, key); err != nil {
		return types.GroupKey{}, 0, err
	}
	if c.Quantity <= 0 {
		return types.GroupKey{}, 0, errors.Normalization(errors.SourceCommitments, c.ID, "quantity must be positive").
			WithContext("quantity", c.Quantity)
	}
	return key, c.Quantity, nil
}

func validate(source errors.Source, id string, key types.GroupKey) error {
	switch {
	case key.SizeClass == "" && key.Location == "":
		return errors.Normalization(source, id, "missing size and location")
	case key.SizeClass == "":
		return errors.Normalization(source, id, "missing size")
	case key.Location == "":
		return errors.Normalization(source, id, "missing location")
	}
	return nil
}
