package pricing

import (
	"math"

	"parcelbee-client/internal/domain"
)

// Rates are the tariff constants of the local formula.
type Rates struct {
	BaseFee float64
	PerKm   float64
	PerKg   float64
	// Spread is the half-width of the displayed price range, as a fraction.
	Spread float64
}

// DefaultRates returns the published tariff: 30 base, 10 per km, 5 per kg, ±10%.
func DefaultRates() Rates {
	return Rates{BaseFee: 30, PerKm: 10, PerKg: 5, Spread: 0.10}
}

// Estimate applies the tariff. Fees are rounded individually; total and range
// are rounded from the unrounded subtotal.
func (r Rates) Estimate(distanceKm, weightKg float64) domain.Estimate {
	distanceFee := distanceKm * r.PerKm
	weightFee := weightKg * r.PerKg
	subtotal := r.BaseFee + distanceFee + weightFee
	return domain.Estimate{
		BaseFee:     r.BaseFee,
		DistanceFee: math.Round(distanceFee),
		WeightFee:   math.Round(weightFee),
		Total:       int64(math.Round(subtotal)),
		MinRange:    int64(math.Round(subtotal * (1 - r.Spread))),
		MaxRange:    int64(math.Round(subtotal * (1 + r.Spread))),
		DistanceKm:  distanceKm,
		Source:      domain.SourceLocal,
	}
}

// EstimateLocal prices a delivery with DefaultRates.
func EstimateLocal(distanceKm, weightKg float64) domain.Estimate {
	return DefaultRates().Estimate(distanceKm, weightKg)
}

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance between a and b in km.
func Haversine(a, b domain.Coordinates) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
