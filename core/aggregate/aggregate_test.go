package aggregate

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservation-analysis/core/feed"
	"reservation-analysis/core/normalize"
	"reservation-analysis/core/types"
)

func vm(id, size, loc string) types.ResourceRecord {
	return types.ResourceRecord{ID: id, SizeClass: size, Location: loc}
}

func TestResourcesCountsOnePerRecord(t *testing.T) {
	var diag normalize.Diagnostics
	counts, err := Resources(feed.Items([]types.ResourceRecord{
		vm("1", "Standard_D2s_v3", "eastus"),
		vm("2", "Standard_D2s_v3", "East US"),
		vm("3", "Standard_B2s", "eastus"),
		vm("4", "", "eastus"),
	}), &diag)
	require.NoError(t, err)

	assert.Equal(t, Counts{
		{SizeClass: "Standard_D2s_v3", Location: "eastus"}: 2,
		{SizeClass: "Standard_B2s", Location: "eastus"}:    1,
	}, counts)
	assert.Equal(t, 4, diag.Seen)
	assert.Equal(t, 1, diag.Excluded)
}

func TestCommitmentsSumQuantity(t *testing.T) {
	var diag normalize.Diagnostics
	counts, err := Commitments(feed.Items([]types.CommitmentRecord{
		{ID: "a", SizeClass: "Standard_D2s_v3", Location: "eastus", Quantity: 3},
		{ID: "b", SizeClass: "Standard_D2s_v3", Location: "eastus", Quantity: 2},
		{ID: "c", SizeClass: "Standard_D2s_v3", Location: "eastus", Quantity: 0},
	}), &diag)
	require.NoError(t, err)

	assert.Equal(t, 5, counts[types.GroupKey{SizeClass: "Standard_D2s_v3", Location: "eastus"}])
	assert.Equal(t, 1, diag.Excluded)
	assert.Equal(t, 5, counts.Total())
}

func TestFoldIsOrderIndependent(t *testing.T) {
	sizes := []string{"Standard_B2s", "Standard_D2s_v3", "Standard_E4s_v5"}
	locs := []string{"eastus", "westeurope"}

	var records []types.CommitmentRecord
	for i := 0; i < 60; i++ {
		records = append(records, types.CommitmentRecord{
			ID:        string(rune('a' + i%26)),
			SizeClass: sizes[i%len(sizes)],
			Location:  locs[i%len(locs)],
			Quantity:  i%4 + 1,
		})
	}

	want, err := Commitments(feed.Items(records), nil)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		shuffled := append([]types.CommitmentRecord(nil), records...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got, err := Commitments(feed.Items(shuffled), nil)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestFoldDiscardsPartialResultOnError(t *testing.T) {
	boom := errors.New("page 2 failed")
	counts, err := Resources(feed.Fail([]types.ResourceRecord{vm("1", "Standard_B2s", "eastus")}, boom), nil)

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, counts)
}

func TestKeysAreOrderedByLocationThenSize(t *testing.T) {
	counts := Counts{
		{SizeClass: "Standard_D2s_v3", Location: "westeurope"}: 1,
		{SizeClass: "Standard_B2s", Location: "westeurope"}:    1,
		{SizeClass: "Standard_E4s_v5", Location: "eastus"}:     1,
	}

	assert.Equal(t, []types.GroupKey{
		{SizeClass: "Standard_E4s_v5", Location: "eastus"},
		{SizeClass: "Standard_B2s", Location: "westeurope"},
		{SizeClass: "Standard_D2s_v3", Location: "westeurope"},
	}, counts.Keys())
}
