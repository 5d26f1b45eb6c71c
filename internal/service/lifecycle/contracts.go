//go:generate mockgen -source=contracts.go -destination=lifecycle_mocks_test.go -package=lifecycle_test

package lifecycle

import (
	"context"

	"parcelbee-client/internal/domain"
)

// Gateway is the subset of the API client the controller drives.
type Gateway interface {
	ListDeliveries(ctx context.Context, filter domain.ListFilter) ([]domain.Delivery, error)
	CreateDelivery(ctx context.Context, in domain.NewDelivery) (domain.Delivery, error)
	AcceptDelivery(ctx context.Context, id int64) (domain.Delivery, error)
	UpdateDeliveryStatus(ctx context.Context, id int64, status domain.Status) (domain.Delivery, error)
}

// EstimateSource hands out the quote the user calculated last. Reset is
// called once that quote has been attached to a delivery.
type EstimateSource interface {
	Latest() (domain.Estimate, bool)
	Reset()
}
