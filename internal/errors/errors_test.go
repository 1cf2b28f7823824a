package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceUnavailableMessage(t *testing.T) {
	err := SourceUnavailable(SourceInventory, context.DeadlineExceeded)

	assert.Equal(t, TypeSourceUnavailable, err.Type)
	assert.Equal(t, SourceInventory, err.Source)
	assert.Equal(t, "[SOURCE_UNAVAILABLE/inventory] inventory feed could not be retrieved: context deadline exceeded", err.Error())
	assert.Equal(t, "context deadline exceeded", err.Detail())
	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
}

func TestIsTypeThroughWrapping(t *testing.T) {
	base := Config("subscription ID is required")
	wrapped := fmt.Errorf("analyze: %w", base)

	assert.True(t, IsType(wrapped, TypeConfig))
	assert.False(t, IsType(wrapped, TypeSourceUnavailable))
	assert.True(t, stderrors.Is(wrapped, New(TypeConfig, "")))

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Same(t, base, got)
}

func TestNormalizationCarriesRecord(t *testing.T) {
	err := Normalization(SourceCommitments, "res-1", "missing sku")

	assert.Equal(t, "res-1", err.Context["record"])
	assert.Equal(t, "missing sku", err.Detail())
	assert.Equal(t, "[NORMALIZATION_ERROR/commitments] missing sku", err.Error())
}

func TestWithContextInitialisesMap(t *testing.T) {
	err := Input("bad format").WithContext("format", "xml")
	assert.Equal(t, "xml", err.Context["format"])
	assert.False(t, IsType(stderrors.New("plain"), TypeInput))
}

func TestInternalWithSource(t *testing.T) {
	err := Internal("encode snapshot", assert.AnError).WithSource(SourceCommitments)

	assert.True(t, IsType(err, TypeInternal))
	assert.Equal(t, SourceCommitments, err.Source)
	assert.True(t, stderrors.Is(err, assert.AnError))
	assert.Equal(t, "[INTERNAL_ERROR/commitments] encode snapshot: "+assert.AnError.Error(), err.Error())
}
