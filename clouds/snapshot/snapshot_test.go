package snapshot

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"reservation-analysis/core/feed"
	"reservation-analysis/core/types"
	"reservation-analysis/internal/errors"
)

const sub = "00000000-0000-0000-0000-000000000001"

const document = `
subscription_id: 00000000-0000-0000-0000-000000000001
resources:
  - id: vm-1
    size: Standard_D2s_v3
    location: eastus
  - id: vm-2
    size: Standard_D2s_v3
    location: East US
commitments:
  - id: r-1
    sku: Standard_D2s_v3
    resource_type: VirtualMachines
    location: eastus
    quantity: 3
    scope_type: Single
    state: Succeeded
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestOpenReplaysRecords(t *testing.T) {
	src := NewSource(writeFile(t, "snap.yaml", document), zaptest.NewLogger(t))

	inv, com, err := src.Open(context.Background(), sub)
	require.NoError(t, err)

	resources, err := feed.Collect(inv.Resources(context.Background()))
	require.NoError(t, err)
	assert.Len(t, resources, 2)
	assert.Equal(t, "East US", resources[1].Location, "records are replayed raw")

	commitments, err := feed.Collect(com.Commitments(context.Background()))
	require.NoError(t, err)
	require.Len(t, commitments, 1)
	assert.Equal(t, 3, commitments[0].Quantity)
	assert.Equal(t, types.ScopeSingle, commitments[0].ScopeKind)
}

func TestOpenRejectsOtherSubscription(t *testing.T) {
	src := NewSource(writeFile(t, "snap.yaml", document), zaptest.NewLogger(t))

	_, _, err := src.Open(context.Background(), "ffffffff-0000-0000-0000-000000000000")
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestOpenMissingOrMalformed(t *testing.T) {
	_, _, err := NewSource(filepath.Join(t.TempDir(), "none.yaml"), nil).Open(context.Background(), sub)
	assert.True(t, errors.IsType(err, errors.TypeInput))

	_, _, err = NewSource(writeFile(t, "bad.yaml", "resources: 12\n"), nil).Open(context.Background(), sub)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestCaptureAndWriteRoundTrip(t *testing.T) {
	inv := []types.ResourceRecord{{ID: "vm-1", SizeClass: "Standard_B2s", Location: "westeurope"}}
	com := []types.CommitmentRecord{{
		ID: "r-1", SizeClass: "Standard_B2s", Location: "westeurope", Quantity: 1,
		ScopeKind: types.ScopeShared, State: types.StateSucceeded,
	}}
	captured, err := Capture(context.Background(), sub, replay{&File{Resources: inv}}, replay{&File{Commitments: com}})
	require.NoError(t, err)
	assert.Equal(t, sub, captured.SubscriptionID)
	captured.CapturedAt = captured.CapturedAt.Truncate(time.Second)

	for _, name := range []string{"out/snap.yaml", "out/snap.json"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, Write(path, captured))

		loaded, err := Read(path)
		require.NoError(t, err, name)
		assert.Equal(t, captured.Resources, loaded.Resources, name)
		assert.Equal(t, captured.Commitments, loaded.Commitments, name)
		assert.True(t, captured.CapturedAt.Equal(loaded.CapturedAt), name)
	}
}

func TestCaptureFailsWithSource(t *testing.T) {
	failing := failingInventory{}
	_, err := Capture(context.Background(), sub, failing, replay{&File{}})

	e, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.TypeSourceUnavailable, e.Type)
	assert.Equal(t, errors.SourceInventory, e.Source)
}

type failingInventory struct{}

func (failingInventory) Resources(context.Context) iter.Seq2[types.ResourceRecord, error] {
	return feed.Fail[types.ResourceRecord](nil, assert.AnError)
}

func TestWriteFailureIsInternal(t *testing.T) {
	// parent path is a regular file, so the directory cannot be created
	parent := writeFile(t, "not-a-dir", "x")

	err := Write(filepath.Join(parent, "snap.yaml"), &File{SubscriptionID: sub})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInternal))
}
