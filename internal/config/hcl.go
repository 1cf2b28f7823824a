package config

import (
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// hclFile mirrors Config for HCL files. Every field is optional so that an
// absent attribute keeps its default.
type hclFile struct {
	Version  *string      `hcl:"version,optional"`
	Azure    *hclAzure    `hcl:"azure,block"`
	Analysis *hclAnalysis `hcl:"analysis,block"`
	Output   *hclOutput   `hcl:"output,block"`
	Server   *hclServer   `hcl:"server,block"`
	Logging  *hclLogging  `hcl:"logging,block"`
}

type hclAzure struct {
	SubscriptionID *string `hcl:"subscription_id,optional"`
	TenantID       *string `hcl:"tenant_id,optional"`
	ClientID       *string `hcl:"client_id,optional"`
	Cloud          *string `hcl:"cloud,optional"`
	MaxRetries     *int    `hcl:"max_retries,optional"`
}

type hclAnalysis struct {
	Source             *string  `hcl:"source,optional"`
	SnapshotPath       *string  `hcl:"snapshot_path,optional"`
	FeedTimeoutSeconds *int     `hcl:"feed_timeout_seconds,optional"`
	Sequential         *bool    `hcl:"sequential,optional"`
	Unsorted           *bool    `hcl:"unsorted,optional"`
	ResourceTypes      []string `hcl:"resource_types,optional"`
}

type hclOutput struct {
	DefaultFormat *string `hcl:"default_format,optional"`
	NoColor       *bool   `hcl:"no_color,optional"`
}

type hclServer struct {
	Addr                  *string `hcl:"addr,optional"`
	RequestTimeoutSeconds *int    `hcl:"request_timeout_seconds,optional"`
}

type hclLogging struct {
	Level       *string `hcl:"level,optional"`
	Format      *string `hcl:"format,optional"`
	Output      *string `hcl:"output,optional"`
	Development *bool   `hcl:"development,optional"`
}

func decodeHCL(filename string, data []byte, c *Config) error {
	var f hclFile
	if err := hclsimple.Decode(filename, data, nil, &f); err != nil {
		return err
	}

	set(&c.Version, f.Version)
	if a := f.Azure; a != nil {
		set(&c.Azure.SubscriptionID, a.SubscriptionID)
		set(&c.Azure.TenantID, a.TenantID)
		set(&c.Azure.ClientID, a.ClientID)
		set(&c.Azure.Cloud, a.Cloud)
		set(&c.Azure.MaxRetries, a.MaxRetries)
	}
	if a := f.Analysis; a != nil {
		set(&c.Analysis.Source, a.Source)
		set(&c.Analysis.SnapshotPath, a.SnapshotPath)
		set(&c.Analysis.FeedTimeoutSeconds, a.FeedTimeoutSeconds)
		set(&c.Analysis.Sequential, a.Sequential)
		set(&c.Analysis.Unsorted, a.Unsorted)
		if a.ResourceTypes != nil {
			c.Analysis.ResourceTypes = a.ResourceTypes
		}
	}
	if o := f.Output; o != nil {
		set(&c.Output.DefaultFormat, o.DefaultFormat)
		set(&c.Output.NoColor, o.NoColor)
	}
	if s := f.Server; s != nil {
		set(&c.Server.Addr, s.Addr)
		set(&c.Server.RequestTimeoutSeconds, s.RequestTimeoutSeconds)
	}
	if l := f.Logging; l != nil {
		set(&c.Logging.Level, l.Level)
		set(&c.Logging.Format, l.Format)
		set(&c.Logging.Output, l.Output)
		set(&c.Logging.Development, l.Development)
	}
	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
