// Package reservations - Azure reservation commitment source
// Walks every reservation order visible to the credential and flattens the
// reservations inside them. No eligibility filtering happens here.
package reservations

import (
	"context"
	"iter"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/reservations/armreservations/v3"
	"go.uber.org/zap"

	"reservation-analysis/core/feed"
	"reservation-analysis/core/types"
	"reservation-analysis/internal/logging"
)

// OrderPager pages through reservation orders
type OrderPager = feed.Pager[armreservations.ReservationOrderClientListResponse]

// ReservationPager pages through the reservations of one order
type ReservationPager = feed.Pager[armreservations.ReservationClientListResponse]

// Source is the live commitment source
type Source struct {
	orders       func() OrderPager
	reservations func(orderID string) ReservationPager
	logger       *zap.Logger
}

// NewSource creates a commitment source backed by the reservations API
func NewSource(cred azcore.TokenCredential, opts *arm.ClientOptions, logger *zap.Logger) (*Source, error) {
	orderClient, err := armreservations.NewReservationOrderClient(cred, opts)
	if err != nil {
		return nil, err
	}
	reservationClient, err := armreservations.NewReservationClient(cred, opts)
	if err != nil {
		return nil, err
	}
	return NewSourceFromPagers(
		func() OrderPager { return orderClient.NewListPager(nil) },
		func(orderID string) ReservationPager { return reservationClient.NewListPager(orderID, nil) },
		logger,
	), nil
}

// NewSourceFromPagers creates a source over arbitrary pager factories
func NewSourceFromPagers(orders func() OrderPager, reservations func(orderID string) ReservationPager, logger *zap.Logger) *Source {
	return &Source{
		orders:       orders,
		reservations: reservations,
		logger:       logging.Named(logger, "azure.reservations"),
	}
}

// Commitments implements feed.CommitmentSource
func (s *Source) Commitments(ctx context.Context) iter.Seq2[types.CommitmentRecord, error] {
	return func(yield func(types.CommitmentRecord, error) bool) {
		orders := feed.Paginate(ctx, s.orders(), func(page armreservations.ReservationOrderClientListResponse) []string {
			ids := make([]string, 0, len(page.Value))
			for _, order := range page.Value {
				if id := OrderID(order); id != "" {
					ids = append(ids, id)
				}
			}
			return ids
		})

		for orderID, err := range orders {
			if err != nil {
				yield(types.CommitmentRecord{}, err)
				return
			}
			s.logger.Debug("listing reservations", zap.String("order", orderID))

			records := feed.Paginate(ctx, s.reservations(orderID), func(page armreservations.ReservationClientListResponse) []types.CommitmentRecord {
				out := make([]types.CommitmentRecord, 0, len(page.Value))
				for _, r := range page.Value {
					if r != nil {
						out = append(out, ToCommitmentRecord(orderID, r))
					}
				}
				return out
			})
			for record, err := range records {
				if !yield(record, err) || err != nil {
					return
				}
			}
		}
	}
}

// OrderID returns the order identifier accepted by the reservations list call.
// Name carries the bare GUID; ID is the full path
// "/providers/Microsoft.Capacity/reservationOrders/<guid>".
func OrderID(order *armreservations.ReservationOrderResponse) string {
	if order == nil {
		return ""
	}
	if order.Name != nil && *order.Name != "" {
		return *order.Name
	}
	if order.ID != nil {
		parts := strings.Split(strings.Trim(*order.ID, "/"), "/")
		for i := 0; i+1 < len(parts); i++ {
			if strings.EqualFold(parts[i], "reservationOrders") {
				return parts[i+1]
			}
		}
	}
	return ""
}

// ToCommitmentRecord converts an SDK reservation. The SKU name becomes the
// size class; the reserved resource type is carried for filtering only.
func ToCommitmentRecord(orderID string, r *armreservations.ReservationResponse) types.CommitmentRecord {
	c := types.CommitmentRecord{
		ID:       deref(r.ID),
		OrderID:  orderID,
		Location: deref(r.Location),
	}
	if r.SKU != nil {
		c.SizeClass = deref(r.SKU.Name)
	}

	p := r.Properties
	if p == nil {
		return c
	}
	c.DisplayName = deref(p.DisplayName)
	if p.Quantity != nil {
		c.Quantity = int(*p.Quantity)
	}
	if p.ProvisioningState != nil {
		c.State = types.ProvisioningState(*p.ProvisioningState)
	}
	if p.ReservedResourceType != nil {
		c.ResourceType = string(*p.ReservedResourceType)
	}
	if p.AppliedScopeType != nil {
		c.ScopeKind = types.ScopeKind(*p.AppliedScopeType)
	}
	for _, scope := range p.AppliedScopes {
		if scope != nil && *scope != "" {
			c.TargetScopes = append(c.TargetScopes, *scope)
		}
	}
	if sp := p.AppliedScopeProperties; sp != nil {
		for _, scope := range []*string{sp.SubscriptionID, sp.ResourceGroupID} {
			if scope != nil && *scope != "" {
				c.TargetScopes = append(c.TargetScopes, *scope)
			}
		}
	}
	return c
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
