package domain

// Coordinates is a geographic point in degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

// PriceBreakdown is the itemised price attached to a delivery.
type PriceBreakdown struct {
	BaseFee     float64
	DistanceFee float64
	WeightFee   float64
	DistanceKm  float64
}

// EstimateSource tells where an estimate was computed.
type EstimateSource string

// Estimate sources
const (
	SourceLocal  EstimateSource = "local"
	SourceRemote EstimateSource = "remote"
)

// Estimate is a price quote for a pickup/drop pair and a weight.
type Estimate struct {
	BaseFee     float64
	DistanceFee float64
	WeightFee   float64
	Total       int64
	MinRange    int64
	MaxRange    int64
	DistanceKm  float64
	Pickup      *Coordinates
	Drop        *Coordinates
	Source      EstimateSource
}

// Breakdown returns the itemised part of the estimate.
func (e Estimate) Breakdown() PriceBreakdown {
	return PriceBreakdown{
		BaseFee:     e.BaseFee,
		DistanceFee: e.DistanceFee,
		WeightFee:   e.WeightFee,
		DistanceKm:  e.DistanceKm,
	}
}
