package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"parcelbee-client/internal/apperr"
	"parcelbee-client/internal/domain"
)

// Request describes what to price.
type Request struct {
	PickupAddress string
	DropAddress   string
	Weight        float64
	Pickup        *domain.Coordinates
	Drop          *domain.Coordinates
}

// DistanceResolver is one strategy for finding the trip distance.
type DistanceResolver interface {
	Name() string
	Resolve(ctx context.Context, req Request) (float64, error)
}

var errSkipped = errors.New("resolver not applicable")

// ResolveDistance tries resolvers in order and returns the first finite,
// non-negative distance. Zero is valid for identical addresses. When all fail the error wraps ErrDistanceUnavailable together with
// each resolver's failure.
func ResolveDistance(ctx context.Context, req Request, resolvers ...DistanceResolver) (float64, error) {
	errs := []error{apperr.ErrDistanceUnavailable}
	for _, r := range resolvers {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		km, err := r.Resolve(ctx, req)
		if err == nil && validDistance(km) {
			return km, nil
		}
		if err == nil {
			err = fmt.Errorf("invalid distance %v", km)
		}
		errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
	}
	return 0, errors.Join(errs...)
}

func validDistance(km float64) bool {
	return !math.IsNaN(km) && !math.IsInf(km, 0) && km >= 0
}

// RouteResolver asks a routing service for the driving distance.
type RouteResolver struct {
	Provider RouteProvider
}

func (RouteResolver) Name() string { return "route" }

func (r RouteResolver) Resolve(ctx context.Context, req Request) (float64, error) {
	if r.Provider == nil {
		return 0, errSkipped
	}
	if req.PickupAddress == "" || req.DropAddress == "" {
		return 0, errSkipped
	}
	return r.Provider.RouteDistance(ctx, req.PickupAddress, req.DropAddress)
}

// GreatCircleResolver uses known coordinates of both ends.
type GreatCircleResolver struct{}

func (GreatCircleResolver) Name() string { return "great_circle" }

func (GreatCircleResolver) Resolve(_ context.Context, req Request) (float64, error) {
	if req.Pickup == nil || req.Drop == nil {
		return 0, errSkipped
	}
	return Haversine(*req.Pickup, *req.Drop), nil
}

// ManualResolver asks the user. Only positive numbers are accepted.
type ManualResolver struct {
	Prompter Prompter
}

func (ManualResolver) Name() string { return "manual" }

func (m ManualResolver) Resolve(ctx context.Context, req Request) (float64, error) {
	if m.Prompter == nil {
		return 0, errSkipped
	}
	km, err := m.Prompter.PromptDistance(ctx, req.PickupAddress, req.DropAddress)
	if err != nil {
		return 0, err
	}
	if !(km > 0) || math.IsInf(km, 0) {
		return 0, fmt.Errorf("distance must be a positive number, got %v", km)
	}
	return km, nil
}
