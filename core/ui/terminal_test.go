package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservation-analysis/core/engine"
)

func TestTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	table := w.NewTable("Size", "Count").AlignRight(1)
	table.AddRow("Standard_D2s_v3", "5")
	table.AddColoredRow(Red, "B2s", "12")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Size            │ Count", lines[0])
	assert.Equal(t, "Standard_D2s_v3 │     5", lines[2])
	assert.Equal(t, "B2s             │    12", lines[3])
}

func TestColorDisabled(t *testing.T) {
	assert.Equal(t, "x", NewWriter(nil, true).Color(Red, "x"))
	assert.Equal(t, Red+"x"+Reset, NewWriter(nil, false).Color(Red, "x"))
}

func TestVerbosity(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)
	w.SetVerbosity(0)
	w.Info("hidden")
	w.Debug("hidden")
	w.Warning("shown")
	assert.Equal(t, "⚠ shown\n", buf.String())
}

type analyzerFunc func(ctx context.Context, sub string) (*engine.Analysis, error)

func (f analyzerFunc) ComputeAnalysis(ctx context.Context, sub string) (*engine.Analysis, error) {
	return f(ctx, sub)
}

func TestRunnerReportsExclusions(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(NewWriter(&buf, true), false)

	a, err := r.Run(context.Background(), analyzerFunc(func(_ context.Context, sub string) (*engine.Analysis, error) {
		return &engine.Analysis{
			SubscriptionID: sub,
			Diagnostics:    engine.Diagnostics{ResourcesSeen: 4, ResourcesExcluded: 1},
		}, nil
	}), "sub")
	require.NoError(t, err)
	assert.Equal(t, "sub", a.SubscriptionID)
	assert.Contains(t, buf.String(), "1 of 4 resources could not be normalized")
}

func TestRunnerPropagatesError(t *testing.T) {
	r := NewRunner(NewWriter(&bytes.Buffer{}, true), false)
	_, err := r.Run(context.Background(), analyzerFunc(func(context.Context, string) (*engine.Analysis, error) {
		return nil, assert.AnError
	}), "sub")
	assert.ErrorIs(t, err, assert.AnError)
}
