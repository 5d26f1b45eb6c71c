package api

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"parcelbee-client/internal/domain"
)

type breakdownDTO struct {
	BaseFee     float64  `json:"base_fee"`
	DistanceFee float64  `json:"distance_fee"`
	WeightFee   float64  `json:"weight_fee"`
	DistanceKm  *float64 `json:"distance_km,omitempty"`
}

type deliveryDTO struct {
	ID             int64         `json:"id"`
	Status         string        `json:"status"`
	CustomerName   *string       `json:"customer_name"`
	PartnerName    *string       `json:"partner_name"`
	PickupAddress  string        `json:"pickup_address"`
	DropAddress    string        `json:"drop_address"`
	PickupLat      *float64      `json:"pickup_lat"`
	PickupLng      *float64      `json:"pickup_lng"`
	DropLat        *float64      `json:"drop_lat"`
	DropLng        *float64      `json:"drop_lng"`
	Description    string        `json:"description"`
	Weight         float64       `json:"weight"`
	EstimatedPrice *float64      `json:"estimated_price"`
	PriceBreakdown *breakdownDTO `json:"price_breakdown"`
	CreatedAt      string        `json:"created_at"`
	UpdatedAt      string        `json:"updated_at"`
	AcceptedAt     string        `json:"accepted_at"`
	DeliveredAt    string        `json:"delivered_at"`
}

type listResponse struct {
	Count      int           `json:"count"`
	Deliveries []deliveryDTO `json:"deliveries"`
}

type deliveryEnvelope struct {
	Message  string          `json:"message"`
	Delivery json.RawMessage `json:"delivery"`
}

type createDeliveryRequest struct {
	PickupAddress  string        `json:"pickup_address"`
	DropAddress    string        `json:"drop_address"`
	Description    string        `json:"description"`
	Weight         float64       `json:"weight"`
	PickupLat      *float64      `json:"pickup_lat,omitempty"`
	PickupLng      *float64      `json:"pickup_lng,omitempty"`
	DropLat        *float64      `json:"drop_lat,omitempty"`
	DropLng        *float64      `json:"drop_lng,omitempty"`
	EstimatedPrice *int64        `json:"estimated_price,omitempty"`
	DistanceKm     *float64      `json:"distance_km,omitempty"`
	PriceBreakdown *breakdownDTO `json:"price_breakdown,omitempty"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type userDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authResponse struct {
	Message string  `json:"message"`
	Token   string  `json:"token"`
	User    userDTO `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

type forgotRequest struct {
	Email string `json:"email"`
}

type forgotResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"reset_token"`
}

type resetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type estimateRequest struct {
	PickupAddress string  `json:"pickup_address"`
	DropAddress   string  `json:"drop_address"`
	Weight        float64 `json:"weight"`
}

type estimateResponse struct {
	DistanceKm     float64      `json:"distance_km"`
	EstimatedPrice float64      `json:"estimated_price"`
	Breakdown      breakdownDTO `json:"breakdown"`
	PickupLat      *float64     `json:"pickup_lat"`
	PickupLng      *float64     `json:"pickup_lng"`
	DropLat        *float64     `json:"drop_lat"`
	DropLng        *float64     `json:"drop_lng"`
	GeocodingUsed  bool         `json:"geocoding_used"`
}

func (d deliveryDTO) toDomain() domain.Delivery {
	out := domain.Delivery{
		ID:            d.ID,
		Status:        domain.Status(d.Status),
		PickupAddress: d.PickupAddress,
		DropAddress:   d.DropAddress,
		Pickup:        coords(d.PickupLat, d.PickupLng),
		Drop:          coords(d.DropLat, d.DropLng),
		Weight:        d.Weight,
		Description:   d.Description,
		CreatedAt:     parseTime(d.CreatedAt),
		UpdatedAt:     parseTime(d.UpdatedAt),
		AcceptedAt:    parseTime(d.AcceptedAt),
		DeliveredAt:   parseTime(d.DeliveredAt),
	}
	if d.CustomerName != nil {
		out.CustomerName = *d.CustomerName
	}
	if d.PartnerName != nil {
		out.PartnerName = *d.PartnerName
	}
	if d.EstimatedPrice != nil {
		p := int64(math.Round(*d.EstimatedPrice))
		out.EstimatedPrice = &p
	}
	if b := d.PriceBreakdown; b != nil {
		pb := domain.PriceBreakdown{BaseFee: b.BaseFee, DistanceFee: b.DistanceFee, WeightFee: b.WeightFee}
		if b.DistanceKm != nil {
			pb.DistanceKm = *b.DistanceKm
		}
		out.Breakdown = &pb
	}
	return out
}

func newCreateRequest(in domain.NewDelivery) createDeliveryRequest {
	req := createDeliveryRequest{
		PickupAddress: in.PickupAddress,
		DropAddress:   in.DropAddress,
		Description:   in.Description,
		Weight:        in.Weight,
	}
	e := in.Estimate
	if e == nil {
		return req
	}
	total := e.Total
	km := e.DistanceKm
	req.EstimatedPrice = &total
	req.DistanceKm = &km
	req.PriceBreakdown = &breakdownDTO{
		BaseFee:     e.BaseFee,
		DistanceFee: e.DistanceFee,
		WeightFee:   e.WeightFee,
		DistanceKm:  &km,
	}
	if e.Pickup != nil {
		req.PickupLat, req.PickupLng = &e.Pickup.Lat, &e.Pickup.Lng
	}
	if e.Drop != nil {
		req.DropLat, req.DropLng = &e.Drop.Lat, &e.Drop.Lng
	}
	return req
}

func (r estimateResponse) toDomain() domain.Estimate {
	return domain.Estimate{
		BaseFee:     r.Breakdown.BaseFee,
		DistanceFee: r.Breakdown.DistanceFee,
		WeightFee:   r.Breakdown.WeightFee,
		Total:       int64(math.Round(r.EstimatedPrice)),
		MinRange:    int64(math.Round(r.EstimatedPrice * 0.9)),
		MaxRange:    int64(math.Round(r.EstimatedPrice * 1.1)),
		DistanceKm:  r.DistanceKm,
		Pickup:      coords(r.PickupLat, r.PickupLng),
		Drop:        coords(r.DropLat, r.DropLng),
		Source:      domain.SourceRemote,
	}
}

func (u userDTO) toDomain() domain.User {
	return domain.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: domain.Role(u.Role)}
}

func coords(lat, lng *float64) *domain.Coordinates {
	if lat == nil || lng == nil {
		return nil
	}
	return &domain.Coordinates{Lat: *lat, Lng: *lng}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07:00",
}

// parseTime accepts the ISO-8601 variants the backend emits; anything else is zero.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
