package pricing_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"parcelbee-client/internal/apperr"
	"parcelbee-client/internal/domain"
	"parcelbee-client/internal/metrics"
	"parcelbee-client/internal/service/pricing"
)

func TestEstimateLocal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                      string
		km, kg                    float64
		distFee, weightFee        float64
		total, minRange, maxRange int64
	}{
		{"ten km two kg", 10, 2, 100, 10, 140, 126, 154},
		{"zero", 0, 0, 0, 0, 30, 27, 33},
		{"fractional", 3.26, 1.4, 33, 7, 70, 63, 77},
		// Each fee rounds up to 3 but the total comes from 30+2.5+2.5.
		{"total from unrounded subtotal", 0.25, 0.5, 3, 3, 35, 32, 39},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := pricing.EstimateLocal(tt.km, tt.kg)
			require.Equal(t, float64(30), e.BaseFee)
			require.Equal(t, tt.distFee, e.DistanceFee)
			require.Equal(t, tt.weightFee, e.WeightFee)
			require.Equal(t, tt.total, e.Total)
			require.Equal(t, tt.minRange, e.MinRange)
			require.Equal(t, tt.maxRange, e.MaxRange)
			require.Equal(t, domain.SourceLocal, e.Source)
			require.LessOrEqual(t, e.MinRange, e.Total)
			require.LessOrEqual(t, e.Total, e.MaxRange)
		})
	}
}

func TestHaversine(t *testing.T) {
	t.Parallel()

	p := domain.Coordinates{Lat: 12.9716, Lng: 77.5946}
	q := domain.Coordinates{Lat: 13.0827, Lng: 80.2707}

	require.Zero(t, pricing.Haversine(p, p))
	require.InDelta(t, pricing.Haversine(p, q), pricing.Haversine(q, p), 1e-9)
	// Bengaluru to Chennai is roughly 290 km as the crow flies.
	require.InDelta(t, 290, pricing.Haversine(p, q), 10)

	// one degree of latitude
	d := pricing.Haversine(domain.Coordinates{}, domain.Coordinates{Lat: 1})
	require.InDelta(t, 6371*math.Pi/180, d, 1e-6)
}

type resolverFunc struct {
	name string
	fn   func() (float64, error)
}

func (r resolverFunc) Name() string { return r.name }
func (r resolverFunc) Resolve(context.Context, pricing.Request) (float64, error) {
	return r.fn()
}

func TestResolveDistance_FirstSuccessWins(t *testing.T) {
	t.Parallel()

	var calls []string
	mk := func(name string, km float64, err error) pricing.DistanceResolver {
		return resolverFunc{name: name, fn: func() (float64, error) {
			calls = append(calls, name)
			return km, err
		}}
	}

	km, err := pricing.ResolveDistance(context.Background(), pricing.Request{},
		mk("a", 0, errors.New("down")),
		mk("b", 12.5, nil),
		mk("c", 99, nil),
	)
	require.NoError(t, err)
	require.Equal(t, 12.5, km)
	require.Equal(t, []string{"a", "b"}, calls)
}

func TestResolveDistance_AllFail(t *testing.T) {
	t.Parallel()

	boom := errors.New("geocoder down")
	_, err := pricing.ResolveDistance(context.Background(), pricing.Request{PickupAddress: "A", DropAddress: "B"},
		pricing.RouteResolver{Provider: routeStub{err: boom}},
		pricing.GreatCircleResolver{},
		pricing.ManualResolver{},
	)
	require.ErrorIs(t, err, apperr.ErrDistanceUnavailable)
	require.ErrorIs(t, err, boom)
}

func TestResolveDistance_NoResolvers(t *testing.T) {
	t.Parallel()

	_, err := pricing.ResolveDistance(context.Background(), pricing.Request{})
	require.ErrorIs(t, err, apperr.ErrDistanceUnavailable)
}

type routeStub struct {
	km  float64
	err error
}

func (r routeStub) RouteDistance(context.Context, string, string) (float64, error) {
	return r.km, r.err
}

type promptStub struct {
	km    float64
	err   error
	calls int
}

func (p *promptStub) PromptDistance(context.Context, string, string) (float64, error) {
	p.calls++
	return p.km, p.err
}

func TestResolvers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := &domain.Coordinates{Lat: 0, Lng: 0}
	b := &domain.Coordinates{Lat: 1, Lng: 0}

	km, err := pricing.GreatCircleResolver{}.Resolve(ctx, pricing.Request{Pickup: a, Drop: b})
	require.NoError(t, err)
	require.InDelta(t, 111.19, km, 0.01)

	_, err = pricing.GreatCircleResolver{}.Resolve(ctx, pricing.Request{Pickup: a})
	require.Error(t, err)

	km, err = pricing.RouteResolver{Provider: routeStub{km: 7}}.Resolve(ctx, pricing.Request{PickupAddress: "A", DropAddress: "B"})
	require.NoError(t, err)
	require.Equal(t, float64(7), km)

	_, err = pricing.RouteResolver{}.Resolve(ctx, pricing.Request{PickupAddress: "A", DropAddress: "B"})
	require.Error(t, err)

	_, err = pricing.ManualResolver{Prompter: &promptStub{km: -3}}.Resolve(ctx, pricing.Request{})
	require.Error(t, err)
	_, err = pricing.ManualResolver{Prompter: &promptStub{km: 0}}.Resolve(ctx, pricing.Request{})
	require.Error(t, err)
	km, err = pricing.ManualResolver{Prompter: &promptStub{km: 4.2}}.Resolve(ctx, pricing.Request{})
	require.NoError(t, err)
	require.Equal(t, 4.2, km)
}

type remoteStub struct {
	est   domain.Estimate
	err   error
	calls int
}

func (r *remoteStub) EstimatePrice(context.Context, string, string, float64) (domain.Estimate, error) {
	r.calls++
	return r.est, r.err
}

func TestEstimator_RemoteFirst(t *testing.T) {
	t.Parallel()

	remote := &remoteStub{est: domain.Estimate{Total: 150, DistanceKm: 12, Source: domain.SourceRemote}}
	prompt := &promptStub{km: 1}
	m := metrics.NewUnregistered()
	e := pricing.NewEstimator(remote, []pricing.DistanceResolver{pricing.ManualResolver{Prompter: prompt}}, nil, m)

	_, ok := e.Latest()
	require.False(t, ok)

	est, err := e.Estimate(context.Background(), pricing.Request{PickupAddress: "A", DropAddress: "B", Weight: 2})
	require.NoError(t, err)
	require.Equal(t, int64(150), est.Total)
	require.Zero(t, prompt.calls)

	latest, ok := e.Latest()
	require.True(t, ok)
	require.Equal(t, est, latest)
	require.Equal(t, float64(1), testutil.ToFloat64(m.Estimates.WithLabelValues("remote")))

	e.Reset()
	_, ok = e.Latest()
	require.False(t, ok)
}

func TestEstimator_FallsBackOnNetworkError(t *testing.T) {
	t.Parallel()

	remote := &remoteStub{err: &apperr.NetworkError{Cause: errors.New("refused")}}
	e := pricing.NewEstimator(remote, []pricing.DistanceResolver{
		pricing.RouteResolver{Provider: routeStub{km: 10}},
	}, nil, nil)

	est, err := e.Estimate(context.Background(), pricing.Request{PickupAddress: "A", DropAddress: "B", Weight: 2})
	require.NoError(t, err)
	require.Equal(t, domain.SourceLocal, est.Source)
	require.Equal(t, int64(140), est.Total)
	require.Equal(t, 1, remote.calls)
}

func TestEstimator_ValidationRejectionIsReturned(t *testing.T) {
	t.Parallel()

	rejection := &apperr.APIError{Kind: apperr.ErrValidation, Status: 400, Message: "Unknown address"}
	e := pricing.NewEstimator(&remoteStub{err: rejection}, []pricing.DistanceResolver{
		pricing.RouteResolver{Provider: routeStub{km: 10}},
	}, nil, nil)

	_, err := e.Estimate(context.Background(), pricing.Request{PickupAddress: "A", DropAddress: "B", Weight: 2})
	require.ErrorIs(t, err, apperr.ErrValidation)
	require.Equal(t, "Unknown address", apperr.Message(err))
	_, ok := e.Latest()
	require.False(t, ok)
}

func TestEstimator_InvalidInputNoCalls(t *testing.T) {
	t.Parallel()

	remote := &remoteStub{}
	e := pricing.NewEstimator(remote, nil, nil, nil)

	for _, req := range []pricing.Request{
		{PickupAddress: "", DropAddress: "B", Weight: 1},
		{PickupAddress: "A", DropAddress: "  ", Weight: 1},
		{PickupAddress: "A", DropAddress: "B", Weight: 0},
		{PickupAddress: "A", DropAddress: "B", Weight: math.NaN()},
	} {
		_, err := e.Estimate(context.Background(), req)
		require.ErrorIs(t, err, apperr.ErrInvalid)
	}
	require.Zero(t, remote.calls)
}

func TestEstimator_OfflineUsesCoordinates(t *testing.T) {
	t.Parallel()

	e := pricing.NewEstimator(nil, []pricing.DistanceResolver{
		pricing.RouteResolver{},
		pricing.GreatCircleResolver{},
	}, nil, nil)

	p := &domain.Coordinates{Lat: 0, Lng: 0}
	est, err := e.Estimate(context.Background(), pricing.Request{
		PickupAddress: "A", DropAddress: "B", Weight: 1, Pickup: p, Drop: p,
	})
	require.NoError(t, err)
	require.Equal(t, int64(35), est.Total)
	require.Equal(t, p, est.Pickup)
}
