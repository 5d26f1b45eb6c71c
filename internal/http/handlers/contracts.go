package handlers

import (
	"context"

	"parcelbee-client/internal/domain"
	"parcelbee-client/internal/service/lifecycle"
	"parcelbee-client/internal/service/pricing"
)

type deliveryController interface {
	Snapshot() lifecycle.View
	Refresh(ctx context.Context) (lifecycle.View, error)
	Create(ctx context.Context, in lifecycle.CreateInput) (domain.Delivery, error)
	Accept(ctx context.Context, id int64) (domain.Delivery, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (domain.Delivery, error)
}

// NewDeliveryController wires a lifecycle.Controller into a deliveryController.
func NewDeliveryController(c *lifecycle.Controller) deliveryController {
	return c
}

type priceEstimator interface {
	Estimate(ctx context.Context, req pricing.Request) (domain.Estimate, error)
	Latest() (domain.Estimate, bool)
}

// NewPriceEstimator wires a pricing.Estimator into a priceEstimator.
func NewPriceEstimator(e *pricing.Estimator) priceEstimator {
	return e
}
