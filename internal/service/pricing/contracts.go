package pricing

import (
	"context"

	"parcelbee-client/internal/domain"
)

// RouteProvider returns the driving distance between two addresses in km.
type RouteProvider interface {
	RouteDistance(ctx context.Context, pickup, drop string) (float64, error)
}

// Prompter asks a human for the distance in km.
type Prompter interface {
	PromptDistance(ctx context.Context, pickup, drop string) (float64, error)
}

// remoteEstimator is the backend price endpoint.
type remoteEstimator interface {
	EstimatePrice(ctx context.Context, pickup, drop string, weight float64) (domain.Estimate, error)
}
