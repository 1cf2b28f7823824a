package cmd

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservation-analysis/internal/config"
)

func TestApplyAnalyzeFlagsKeepsSubSecondTimeout(t *testing.T) {
	t.Cleanup(func() { analyzeFlags.timeout = 0 })

	cmd := &cobra.Command{}
	cmd.Flags().DurationVar(&analyzeFlags.timeout, "timeout", 0, "")
	require.NoError(t, cmd.Flags().Set("timeout", "500ms"))

	cfg := config.Default()
	applyAnalyzeFlags(cmd, cfg)

	assert.Equal(t, 500*time.Millisecond, cfg.Analysis.FeedTimeout())
	assert.Equal(t, 1, cfg.Analysis.FeedTimeoutSeconds)
}

func TestApplyAnalyzeFlagsLeavesUnsetTimeout(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().DurationVar(&analyzeFlags.timeout, "timeout", 0, "")

	cfg := config.Default()
	applyAnalyzeFlags(cmd, cfg)

	assert.Equal(t, 120*time.Second, cfg.Analysis.FeedTimeout())
}
