// Package azure - Azure feed source
// Builds the credential and ARM client options once and opens the VM
// inventory and reservation feeds per subscription.
package azure

import (
	"context"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"go.uber.org/zap"

	"reservation-analysis/clouds/azure/compute"
	"reservation-analysis/clouds/azure/reservations"
	"reservation-analysis/core/feed"
	"reservation-analysis/internal/config"
	"reservation-analysis/internal/errors"
	"reservation-analysis/internal/logging"
)

// Name is the registry name of this source
const Name = "azure"

// Source opens live Azure feeds
type Source struct {
	cred    azcore.TokenCredential
	options *arm.ClientOptions
	logger  *zap.Logger
}

// NewSource creates the credential described by cfg. No network call is made
// until a feed is ranged over.
func NewSource(cfg config.AzureConfig, logger *zap.Logger) (*Source, error) {
	options, err := ClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	cred, err := Credential(cfg, options.ClientOptions)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "could not create Azure credential", err)
	}
	return &Source{
		cred:    cred,
		options: options,
		logger:  logging.Named(logger, "azure"),
	}, nil
}

// Name implements clouds.Source
func (s *Source) Name() string { return Name }

// Open implements engine.Opener
func (s *Source) Open(_ context.Context, subscriptionID string) (feed.InventoryFeed, feed.CommitmentSource, error) {
	inventory, err := compute.NewInventory(subscriptionID, s.cred, s.options, s.logger)
	if err != nil {
		return nil, nil, errors.SourceUnavailable(errors.SourceInventory, err)
	}
	commitments, err := reservations.NewSource(s.cred, s.options, s.logger)
	if err != nil {
		return nil, nil, errors.SourceUnavailable(errors.SourceCommitments, err)
	}
	return inventory, commitments, nil
}

// ClientOptions maps the configured cloud and retry budget onto ARM options
func ClientOptions(cfg config.AzureConfig) (*arm.ClientOptions, error) {
	c, err := Cloud(cfg.Cloud)
	if err != nil {
		return nil, err
	}
	opts := &arm.ClientOptions{}
	opts.Cloud = c
	if cfg.MaxRetries > 0 {
		opts.Retry = policy.RetryOptions{MaxRetries: int32(cfg.MaxRetries)}
	}
	return opts, nil
}

// Cloud resolves a cloud name
func Cloud(name string) (cloud.Configuration, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "public", "azurepublic", "azurecloud":
		return cloud.AzurePublic, nil
	case "china", "azurechina", "azurechinacloud":
		return cloud.AzureChina, nil
	case "usgov", "usgovernment", "azuregovernment", "azureusgovernment":
		return cloud.AzureGovernment, nil
	}
	return cloud.Configuration{}, errors.Newf(errors.TypeConfig, "unknown Azure cloud %q", name)
}

// Credential returns the default credential chain. With a client ID the
// user-assigned managed identity is tried first.
func Credential(cfg config.AzureConfig, client policy.ClientOptions) (azcore.TokenCredential, error) {
	def, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
		ClientOptions: client,
		TenantID:      cfg.TenantID,
	})
	if err != nil {
		return nil, err
	}
	if cfg.ClientID == "" {
		return def, nil
	}

	mi, err := azidentity.NewManagedIdentityCredential(&azidentity.ManagedIdentityCredentialOptions{
		ClientOptions: client,
		ID:            azidentity.ClientID(cfg.ClientID),
	})
	if err != nil {
		return nil, err
	}
	return azidentity.NewChainedTokenCredential([]azcore.TokenCredential{mi, def}, nil)
}
