package handlers

import (
	"time"

	"parcelbee-client/internal/domain"
	"parcelbee-client/internal/service/lifecycle"
)

type breakdownDTO struct {
	BaseFee     float64 `json:"base_fee"`
	DistanceFee float64 `json:"distance_fee"`
	WeightFee   float64 `json:"weight_fee"`
	DistanceKm  float64 `json:"distance_km"`
}

type deliveryDTO struct {
	ID               int64         `json:"id"`
	Status           domain.Status `json:"status"`
	StatusLabel      string        `json:"status_label"`
	Bucket           domain.Bucket `json:"bucket"`
	PickupAddress    string        `json:"pickup_address"`
	DropAddress      string        `json:"drop_address"`
	Description      string        `json:"description"`
	Weight           float64       `json:"weight"`
	EstimatedPrice   *int64        `json:"estimated_price"`
	PriceBreakdown   *breakdownDTO `json:"price_breakdown,omitempty"`
	CustomerName     string        `json:"customer_name,omitempty"`
	PartnerName      string        `json:"partner_name,omitempty"`
	CanStartTransit  bool          `json:"can_start_transit"`
	CanMarkDelivered bool          `json:"can_mark_delivered"`
	CreatedAt        *time.Time    `json:"created_at,omitempty"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`
}

type viewResponse struct {
	Role        domain.Role   `json:"role"`
	Available   []deliveryDTO `json:"available"`
	Active      []deliveryDTO `json:"active"`
	Past        []deliveryDTO `json:"past"`
	RefreshedAt *time.Time    `json:"refreshed_at"`
}

type createDeliveryRequest struct {
	PickupAddress string `json:"pickup_address"`
	DropAddress   string `json:"drop_address"`
	Description   string `json:"description"`
	// Weight is kept as typed so validation messages match the CLI.
	Weight string `json:"weight"`
}

type updateStatusRequest struct {
	Status domain.Status `json:"status"`
}

type estimateRequest struct {
	PickupAddress string   `json:"pickup_address"`
	DropAddress   string   `json:"drop_address"`
	Weight        float64  `json:"weight"`
	PickupLat     *float64 `json:"pickup_lat,omitempty"`
	PickupLng     *float64 `json:"pickup_lng,omitempty"`
	DropLat       *float64 `json:"drop_lat,omitempty"`
	DropLng       *float64 `json:"drop_lng,omitempty"`
}

type estimateResponse struct {
	DistanceKm     float64      `json:"distance_km"`
	EstimatedPrice int64        `json:"estimated_price"`
	MinRange       int64        `json:"min_range"`
	MaxRange       int64        `json:"max_range"`
	Breakdown      breakdownDTO `json:"breakdown"`
	Source         string       `json:"source"`
}

func optTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func deliveryToResponse(d domain.Delivery) deliveryDTO {
	out := deliveryDTO{
		ID:               d.ID,
		Status:           d.Status,
		StatusLabel:      d.Status.Label(),
		Bucket:           d.Bucket(),
		PickupAddress:    d.PickupAddress,
		DropAddress:      d.DropAddress,
		Description:      d.Description,
		Weight:           d.Weight,
		EstimatedPrice:   d.EstimatedPrice,
		CustomerName:     d.CustomerName,
		PartnerName:      d.PartnerName,
		CanStartTransit:  d.CanStartTransit(),
		CanMarkDelivered: d.CanMarkDelivered(),
		CreatedAt:        optTime(d.CreatedAt),
		CompletedAt:      optTime(d.CompletedAt()),
	}
	if d.Bucket() != domain.BucketPast {
		out.CompletedAt = nil
	}
	if b := d.Breakdown; b != nil {
		out.PriceBreakdown = &breakdownDTO{BaseFee: b.BaseFee, DistanceFee: b.DistanceFee, WeightFee: b.WeightFee, DistanceKm: b.DistanceKm}
	}
	return out
}

func deliveriesToResponse(list []domain.Delivery) []deliveryDTO {
	out := make([]deliveryDTO, 0, len(list))
	for _, d := range list {
		out = append(out, deliveryToResponse(d))
	}
	return out
}

func viewToResponse(v lifecycle.View) viewResponse {
	return viewResponse{
		Role:        v.Role,
		Available:   deliveriesToResponse(v.Available),
		Active:      deliveriesToResponse(v.Active),
		Past:        deliveriesToResponse(v.Past),
		RefreshedAt: optTime(v.RefreshedAt),
	}
}

func (r createDeliveryRequest) toInput() lifecycle.CreateInput {
	return lifecycle.CreateInput{
		PickupAddress: r.PickupAddress,
		DropAddress:   r.DropAddress,
		Description:   r.Description,
		Weight:        r.Weight,
	}
}

func coords(lat, lng *float64) *domain.Coordinates {
	if lat == nil || lng == nil {
		return nil
	}
	return &domain.Coordinates{Lat: *lat, Lng: *lng}
}

func estimateToResponse(e domain.Estimate) estimateResponse {
	b := e.Breakdown()
	return estimateResponse{
		DistanceKm:     e.DistanceKm,
		EstimatedPrice: e.Total,
		MinRange:       e.MinRange,
		MaxRange:       e.MaxRange,
		Breakdown:      breakdownDTO{BaseFee: b.BaseFee, DistanceFee: b.DistanceFee, WeightFee: b.WeightFee, DistanceKm: b.DistanceKm},
		Source:         string(e.Source),
	}
}
