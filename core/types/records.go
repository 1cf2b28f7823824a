// Package types - Inventory and commitment records shared by feeds and the core
package types

// ResourceRecord is one live compute instance observed in the subscription
type ResourceRecord struct {
	// ID is the provider resource ID
	ID string `json:"id" yaml:"id"`

	// Name is the resource name
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// SizeClass is the instance shape (e.g. "Standard_D2s_v3")
	SizeClass string `json:"size" yaml:"size"`

	// Location is the region identifier (e.g. "eastus")
	Location string `json:"location" yaml:"location"`
}

// ScopeKind describes how a commitment's benefit is applied
type ScopeKind string

const (
	// ScopeShared pools the benefit across every subscription in the billing context
	ScopeShared ScopeKind = "Shared"

	// ScopeSingle dedicates the benefit to one scope
	ScopeSingle ScopeKind = "Single"

	// ScopeManagementGroup applies the benefit to an explicit list of scopes
	ScopeManagementGroup ScopeKind = "ManagementGroup"
)

// ProvisioningState is the lifecycle state of a commitment
type ProvisioningState string

const (
	StateSucceeded ProvisioningState = "Succeeded"
	StateCreating  ProvisioningState = "Creating"
	StateFailed    ProvisioningState = "Failed"
	StateCancelled ProvisioningState = "Cancelled"
	StateExpired   ProvisioningState = "Expired"
)

// CommitmentRecord is one purchased capacity reservation
type CommitmentRecord struct {
	// ID is the provider reservation ID
	ID string `json:"id" yaml:"id"`

	// OrderID is the reservation order the record belongs to
	OrderID string `json:"order_id,omitempty" yaml:"order_id,omitempty"`

	// DisplayName is the user-facing name
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`

	// SizeClass is the purchased SKU name, comparable with ResourceRecord.SizeClass
	SizeClass string `json:"sku" yaml:"sku"`

	// ResourceType is the reserved resource type (e.g. "VirtualMachines").
	// It never participates in the group key.
	ResourceType string `json:"resource_type,omitempty" yaml:"resource_type,omitempty"`

	// Location is the region identifier
	Location string `json:"location" yaml:"location"`

	// Quantity is the number of reserved instances
	Quantity int `json:"quantity" yaml:"quantity"`

	// ScopeKind is the applied scope type
	ScopeKind ScopeKind `json:"scope_type" yaml:"scope_type"`

	// TargetScopes are the explicit scopes the benefit applies to
	TargetScopes []string `json:"applied_scopes,omitempty" yaml:"applied_scopes,omitempty"`

	// State is the provisioning state
	State ProvisioningState `json:"state" yaml:"state"`
}
