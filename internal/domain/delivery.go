package domain

import "time"

// Delivery is a single parcel transport request.
type Delivery struct {
	ID             int64
	Status         Status
	PickupAddress  string
	DropAddress    string
	Pickup         *Coordinates
	Drop           *Coordinates
	Weight         float64
	Description    string
	EstimatedPrice *int64
	Breakdown      *PriceBreakdown
	CustomerName   string
	PartnerName    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AcceptedAt     time.Time
	DeliveredAt    time.Time
}

// Bucket returns the active/past partition of the delivery.
func (d Delivery) Bucket() Bucket { return Classify(d.Status) }

// CanStartTransit reports whether a partner may move the delivery to in_transit.
func (d Delivery) CanStartTransit() bool {
	return d.Status == StatusAccepted
}

// CanMarkDelivered reports whether a partner may mark the delivery delivered.
func (d Delivery) CanMarkDelivered() bool {
	return d.Status == StatusAccepted || d.Status == StatusInTransit
}

// CompletedAt returns delivered_at when known, falling back to updated_at.
func (d Delivery) CompletedAt() time.Time {
	if !d.DeliveredAt.IsZero() {
		return d.DeliveredAt
	}
	return d.UpdatedAt
}

// NewDelivery - input for creating a delivery request.
type NewDelivery struct {
	PickupAddress string
	DropAddress   string
	Description   string
	Weight        float64
	Estimate      *Estimate
}

// ListFilter selects which deliveries the backend returns.
type ListFilter string

// List filters
const (
	FilterAll       ListFilter = "all"
	FilterAvailable ListFilter = "available"
	FilterMine      ListFilter = "mine"
)

// Valid checks if the filter is known.
func (f ListFilter) Valid() bool {
	return f == FilterAll || f == FilterAvailable || f == FilterMine
}
