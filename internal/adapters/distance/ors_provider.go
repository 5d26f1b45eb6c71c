package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"parcelbee-client/internal/domain"
	"parcelbee-client/internal/logx"
)

// ErrNoAPIKey is returned by NewORSProvider when no key is configured.
var ErrNoAPIKey = errors.New("ors api key is empty")

// ORSProvider resolves driving distances with OpenRouteService: both addresses
// are geocoded, then a single matrix row gives the road distance.
// Geocoding results are cached in memory. Safe for concurrent use.
type ORSProvider struct {
	http        *http.Client
	apiKey      string
	baseURL     string
	profile     string
	maxAttempts int
	backoff     time.Duration
	logger      logx.Logger

	mu     sync.Mutex
	coords map[string]domain.Coordinates
}

// NewORSProvider creates an ORSProvider.
func NewORSProvider(apiKey, baseURL string, logger logx.Logger) (*ORSProvider, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &ORSProvider{
		http:        &http.Client{Timeout: 10 * time.Second},
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		profile:     "driving-car",
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
		logger:      logger,
		coords:      make(map[string]domain.Coordinates),
	}, nil
}

// normalize collapses whitespace so cache keys are stable.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// RouteDistance returns the driving distance between two addresses in km.
func (o *ORSProvider) RouteDistance(ctx context.Context, pickup, drop string) (float64, error) {
	from, to := normalize(pickup), normalize(drop)
	if from == "" || to == "" {
		return 0, errors.New("ors: pickup and drop must be non-empty")
	}
	if from == to {
		return 0, nil
	}

	a, err := o.Geocode(ctx, from)
	if err != nil {
		return 0, fmt.Errorf("geocode pickup: %w", err)
	}
	b, err := o.Geocode(ctx, to)
	if err != nil {
		return 0, fmt.Errorf("geocode drop: %w", err)
	}

	meters, err := o.matrixDistance(ctx, a, b)
	if err != nil {
		return 0, err
	}
	km := math.Round(meters/10) / 100
	o.logger.Debug("ors route resolved",
		logx.String("pickup", from),
		logx.String("drop", to),
		logx.Float64("km", km),
	)
	return km, nil
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves an address to coordinates.
func (o *ORSProvider) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	key := normalize(address)
	o.mu.Lock()
	c, ok := o.coords[key]
	o.mu.Unlock()
	if ok {
		return c, nil
	}

	endpoint := o.baseURL + "/geocode/search?" + url.Values{"text": {key}, "size": {"1"}}.Encode()
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", key)
	}
	xy := decoded.Features[0].Geometry.Coordinates
	if len(xy) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", key)
	}

	// ORS answers [lon, lat].
	c = domain.Coordinates{Lat: xy[1], Lng: xy[0]}
	o.mu.Lock()
	o.coords[key] = c
	o.mu.Unlock()
	return c, nil
}

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Sources      []int       `json:"sources"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
}

func (o *ORSProvider) matrixDistance(ctx context.Context, from, to domain.Coordinates) (float64, error) {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)
	payload, err := json.Marshal(matrixRequest{
		Locations:    [][]float64{{from.Lng, from.Lat}, {to.Lng, to.Lat}},
		Sources:      []int{0},
		Destinations: []int{1},
		Metrics:      []string{"distance"},
	})
	if err != nil {
		return 0, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return 0, fmt.Errorf("matrix request: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return 0, fmt.Errorf("decode matrix response: %w", err)
	}
	if len(mr.Distances) != 1 || len(mr.Distances[0]) != 1 || mr.Distances[0][0] == nil {
		return 0, errors.New("matrix returned no distance")
	}
	return *mr.Distances[0][0], nil
}
