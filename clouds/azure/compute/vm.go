// Package compute - Azure virtual machine inventory feed
// Lists every VM in the subscription and exposes its size and region.
package compute

import (
	"context"
	"iter"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v5"
	"go.uber.org/zap"

	"reservation-analysis/core/feed"
	"reservation-analysis/core/types"
	"reservation-analysis/internal/logging"
)

// VMPager pages through VirtualMachines.ListAll
type VMPager = feed.Pager[armcompute.VirtualMachinesClientListAllResponse]

// Inventory is the live VM feed of one subscription
type Inventory struct {
	newPager func() VMPager
	logger   *zap.Logger
}

// NewInventory creates a VM feed for subscriptionID
func NewInventory(subscriptionID string, cred azcore.TokenCredential, opts *arm.ClientOptions, logger *zap.Logger) (*Inventory, error) {
	client, err := armcompute.NewVirtualMachinesClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, err
	}
	return NewInventoryFromPager(func() VMPager {
		return client.NewListAllPager(nil)
	}, logger), nil
}

// NewInventoryFromPager creates a VM feed over an arbitrary pager factory.
// A new pager is requested for every pass.
func NewInventoryFromPager(newPager func() VMPager, logger *zap.Logger) *Inventory {
	return &Inventory{
		newPager: newPager,
		logger:   logging.Named(logger, "azure.compute"),
	}
}

// Resources implements feed.InventoryFeed
func (i *Inventory) Resources(ctx context.Context) iter.Seq2[types.ResourceRecord, error] {
	pages := 0
	return feed.Paginate(ctx, i.newPager(), func(page armcompute.VirtualMachinesClientListAllResponse) []types.ResourceRecord {
		pages++
		records := make([]types.ResourceRecord, 0, len(page.Value))
		for _, vm := range page.Value {
			if vm == nil {
				continue
			}
			records = append(records, ToResourceRecord(vm))
		}
		i.logger.Debug("vm page", zap.Int("page", pages), zap.Int("records", len(records)))
		return records
	})
}

// ToResourceRecord converts an SDK VM. Missing attributes are left empty and
// rejected later by the normalizer so they are counted, not dropped.
func ToResourceRecord(vm *armcompute.VirtualMachine) types.ResourceRecord {
	r := types.ResourceRecord{
		ID:       deref(vm.ID),
		Name:     deref(vm.Name),
		Location: deref(vm.Location),
	}
	if p := vm.Properties; p != nil && p.HardwareProfile != nil && p.HardwareProfile.VMSize != nil {
		r.SizeClass = string(*p.HardwareProfile.VMSize)
	}
	return r
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
