package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservation-analysis/internal/errors"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadMissingFileIsConfigError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
	assert.Contains(t, err.Error(), "absent.json")
}

func TestLoadJSON(t *testing.T) {
	path := write(t, "config.json", `{
		"azure": {"subscription_id": "sub-json", "max_retries": 5},
		"analysis": {"sequential": true}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sub-json", cfg.Azure.SubscriptionID)
	assert.Equal(t, 5, cfg.Azure.MaxRetries)
	assert.True(t, cfg.Analysis.Sequential)
	assert.Equal(t, "public", cfg.Azure.Cloud, "unset keys keep defaults")
}

func TestLoadYAML(t *testing.T) {
	path := write(t, "config.yaml", `
azure:
  subscription_id: sub-yaml
analysis:
  source: snapshot
  snapshot_path: ./snap.yaml
  resource_types: [VirtualMachines]
output:
  default_format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sub-yaml", cfg.Azure.SubscriptionID)
	assert.Equal(t, "snapshot", cfg.Analysis.Source)
	assert.Equal(t, []string{"VirtualMachines"}, cfg.Analysis.ResourceTypes)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	assert.Equal(t, 120, cfg.Analysis.FeedTimeoutSeconds)
}

func TestLoadHCL(t *testing.T) {
	path := write(t, "config.hcl", `
azure {
  subscription_id = "sub-hcl"
  cloud           = "usgov"
}

analysis {
  feed_timeout_seconds = 30
  unsorted             = true
  resource_types       = ["VirtualMachines"]
}

logging {
  level = "debug"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sub-hcl", cfg.Azure.SubscriptionID)
	assert.Equal(t, "usgov", cfg.Azure.Cloud)
	assert.Equal(t, 3, cfg.Azure.MaxRetries)
	assert.Equal(t, 30, cfg.Analysis.FeedTimeoutSeconds)
	assert.True(t, cfg.Analysis.Unsorted)
	assert.Equal(t, []string{"VirtualMachines"}, cfg.Analysis.ResourceTypes)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadMalformedIsConfigError(t *testing.T) {
	path := write(t, "config.json", `{"azure": `)
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("AZURE_SUBSCRIPTION_ID", " sub-env ")
	t.Setenv("RA_FEED_TIMEOUT_SECONDS", "45")
	t.Setenv("RA_SEQUENTIAL", "true")
	t.Setenv("RA_RESOURCE_TYPES", "VirtualMachines, ,SqlDatabases")

	cfg := Default()
	cfg.Azure.TenantID = "from-file"
	require.NoError(t, ApplyEnv(cfg))

	assert.Equal(t, "sub-env", cfg.Azure.SubscriptionID)
	assert.Equal(t, 45, cfg.Analysis.FeedTimeoutSeconds)
	assert.True(t, cfg.Analysis.Sequential)
	assert.Equal(t, []string{"VirtualMachines", "SqlDatabases"}, cfg.Analysis.ResourceTypes)
	assert.Equal(t, "from-file", cfg.Azure.TenantID)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	cfg.Azure.SubscriptionID = "sub"
	assert.NoError(t, cfg.Validate())

	cfg.Analysis.Source = "snapshot"
	assert.Error(t, cfg.Validate())
	cfg.Analysis.SnapshotPath = "snap.yaml"
	assert.NoError(t, cfg.Validate())

	cfg.Analysis.Source = "gcp"
	assert.Error(t, cfg.ValidateSource())
}

func TestSetFeedTimeout(t *testing.T) {
	tests := []struct {
		name    string
		in      time.Duration
		seconds int
	}{
		{"sub-second", 500 * time.Millisecond, 1},
		{"whole", 90 * time.Second, 90},
		{"fractional", 1500 * time.Millisecond, 2},
		{"disabled", 0, 0},
		{"negative", -200 * time.Millisecond, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var a AnalysisConfig
			a.SetFeedTimeout(tc.in)
			assert.Equal(t, tc.in, a.FeedTimeout())
			assert.Equal(t, tc.seconds, a.FeedTimeoutSeconds)
		})
	}

	cfg := Default()
	cfg.Azure.SubscriptionID = "sub"
	cfg.Analysis.SetFeedTimeout(-time.Second)
	assert.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Default()
	cfg.Azure.SubscriptionID = "sub-saved"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
