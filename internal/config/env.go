package config

import (
	"strings"

	"github.com/spf13/viper"
)

// envBindings maps config keys to the environment variables that override them.
// The AZURE_* names match the ones the Azure SDK credential chain reads.
var envBindings = map[string][]string{
	"azure.subscription_id":         {"AZURE_SUBSCRIPTION_ID", "RA_SUBSCRIPTION_ID"},
	"azure.tenant_id":               {"AZURE_TENANT_ID"},
	"azure.client_id":               {"AZURE_CLIENT_ID"},
	"azure.cloud":                   {"AZURE_CLOUD", "RA_AZURE_CLOUD"},
	"azure.max_retries":             {"RA_MAX_RETRIES"},
	"analysis.source":               {"RA_SOURCE"},
	"analysis.snapshot_path":        {"RA_SNAPSHOT_PATH"},
	"analysis.feed_timeout_seconds": {"RA_FEED_TIMEOUT_SECONDS"},
	"analysis.sequential":           {"RA_SEQUENTIAL"},
	"analysis.resource_types":       {"RA_RESOURCE_TYPES"},
	"server.addr":                   {"RA_ADDR"},
	"logging.level":                 {"RA_LOG_LEVEL", "LOG_LEVEL"},
	"logging.format":                {"RA_LOG_FORMAT"},
}

// ApplyEnv overlays environment variables onto c. Unset variables leave the
// current value in place.
func ApplyEnv(c *Config) error {
	v := viper.New()
	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return err
		}
	}

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = strings.TrimSpace(v.GetString(key))
		}
	}
	num := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	str("azure.subscription_id", &c.Azure.SubscriptionID)
	str("azure.tenant_id", &c.Azure.TenantID)
	str("azure.client_id", &c.Azure.ClientID)
	str("azure.cloud", &c.Azure.Cloud)
	num("azure.max_retries", &c.Azure.MaxRetries)
	str("analysis.source", &c.Analysis.Source)
	str("analysis.snapshot_path", &c.Analysis.SnapshotPath)
	num("analysis.feed_timeout_seconds", &c.Analysis.FeedTimeoutSeconds)
	if v.IsSet("analysis.sequential") {
		c.Analysis.Sequential = v.GetBool("analysis.sequential")
	}
	if v.IsSet("analysis.resource_types") {
		c.Analysis.ResourceTypes = splitList(v.GetString("analysis.resource_types"))
	}
	str("server.addr", &c.Server.Addr)
	str("logging.level", &c.Logging.Level)
	str("logging.format", &c.Logging.Format)
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
