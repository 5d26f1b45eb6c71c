package lifecycle

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"parcelbee-client/internal/apperr"
	"parcelbee-client/internal/domain"
	"parcelbee-client/internal/logx"
)

// Validation messages shown before anything is sent.
const (
	msgFillAllFields = "Please fill in all fields"
	msgInvalidWeight = "Please enter a valid weight (greater than 0)"
)

// View is the published state of the delivery lists.
type View struct {
	Role        domain.Role
	Available   []domain.Delivery
	Active      []domain.Delivery
	Past        []domain.Delivery
	RefreshedAt time.Time
}

// CreateInput is a delivery request as typed by the user.
type CreateInput struct {
	PickupAddress string
	DropAddress   string
	Description   string
	Weight        string
	Estimate      *domain.Estimate
}

// Controller keeps the delivery lists of one role in sync with the server.
// Every mutation is followed by a full refresh; nothing is updated locally.
type Controller struct {
	gw        Gateway
	strategy  Strategy
	estimates EstimateSource
	logger    logx.Logger
	now       func() time.Time

	mu   sync.RWMutex
	view View
}

// NewController creates a Controller for role.
func NewController(gw Gateway, role domain.Role, logger logx.Logger) (*Controller, error) {
	s, err := StrategyFor(role)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Controller{
		gw:       gw,
		strategy: s,
		logger:   logger.With(logx.String("role", string(role))),
		now:      time.Now,
		view:     View{Role: role},
	}, nil
}

// WithEstimates makes Create attach the latest estimate when the input has none.
func (c *Controller) WithEstimates(src EstimateSource) *Controller {
	c.estimates = src
	return c
}

// Strategy returns the role strategy in use.
func (c *Controller) Strategy() Strategy { return c.strategy }

// Snapshot returns the last published view.
func (c *Controller) Snapshot() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// List fetches a single list without touching the view.
func (c *Controller) List(ctx context.Context, filter domain.ListFilter) ([]domain.Delivery, error) {
	if !filter.Valid() {
		return nil, apperr.Invalidf("unknown list filter %q", filter)
	}
	return c.gw.ListDeliveries(ctx, filter)
}

// Refresh refetches every list of the role and publishes a new view.
// On any failure the previous view stays in place.
func (c *Controller) Refresh(ctx context.Context) (View, error) {
	next := View{Role: c.strategy.Role}
	for _, f := range c.strategy.Lists {
		list, err := c.gw.ListDeliveries(ctx, f)
		if err != nil {
			return c.Snapshot(), fmt.Errorf("refresh %s deliveries: %w", f, err)
		}
		switch f {
		case domain.FilterAvailable:
			next.Available = list
		default:
			next.Active, next.Past = domain.Split(list)
		}
	}
	next.RefreshedAt = c.now()

	c.mu.Lock()
	c.view = next
	c.mu.Unlock()
	return next, nil
}

// Create validates and submits a new delivery request.
func (c *Controller) Create(ctx context.Context, in CreateInput) (domain.Delivery, error) {
	if !c.strategy.CanCreate {
		return domain.Delivery{}, fmt.Errorf("create delivery: %w", apperr.ErrForbiddenRole)
	}
	nd, err := validateCreate(in)
	if err != nil {
		return domain.Delivery{}, err
	}
	fromSource := false
	if nd.Estimate == nil && c.estimates != nil {
		if est, ok := c.estimates.Latest(); ok {
			nd.Estimate = &est
			fromSource = true
		}
	}

	d, err := c.gw.CreateDelivery(ctx, nd)
	if err != nil {
		return domain.Delivery{}, err
	}
	if fromSource {
		c.estimates.Reset()
	}
	c.logger.Info("delivery created", logx.Int64("delivery_id", d.ID))
	c.refreshAfter(ctx, "create")
	return d, nil
}

// Accept claims a pending delivery.
func (c *Controller) Accept(ctx context.Context, id int64) (domain.Delivery, error) {
	if !c.strategy.Allows(TransitionAccept) {
		return domain.Delivery{}, fmt.Errorf("accept delivery: %w", apperr.ErrForbiddenRole)
	}
	d, err := c.gw.AcceptDelivery(ctx, id)
	if err != nil {
		return domain.Delivery{}, err
	}
	c.logger.Info("delivery accepted", logx.Int64("delivery_id", id))
	c.refreshAfter(ctx, "accept")
	return d, nil
}

// UpdateStatus moves a delivery to in_transit or delivered. The current
// status is not checked here; the server decides.
func (c *Controller) UpdateStatus(ctx context.Context, id int64, status domain.Status) (domain.Delivery, error) {
	var t Transition
	switch status {
	case domain.StatusInTransit:
		t = TransitionStartTransit
	case domain.StatusDelivered:
		t = TransitionDeliver
	default:
		return domain.Delivery{}, apperr.Invalidf("status must be %s or %s", domain.StatusInTransit, domain.StatusDelivered)
	}
	if !c.strategy.Allows(t) {
		return domain.Delivery{}, fmt.Errorf("update delivery status: %w", apperr.ErrForbiddenRole)
	}

	d, err := c.gw.UpdateDeliveryStatus(ctx, id, status)
	if err != nil {
		return domain.Delivery{}, err
	}
	c.logger.Info("delivery status updated",
		logx.Int64("delivery_id", id),
		logx.String("status", string(status)),
	)
	c.refreshAfter(ctx, "update_status")
	return d, nil
}

// refreshAfter refetches after a successful mutation. The mutation already
// happened, so a failed refresh is only logged; the poller will catch up.
func (c *Controller) refreshAfter(ctx context.Context, op string) {
	if _, err := c.Refresh(ctx); err != nil {
		c.logger.Warn("refresh after mutation failed", logx.String("op", op), logx.Err(err))
	}
}

func validateCreate(in CreateInput) (domain.NewDelivery, error) {
	pickup := strings.TrimSpace(in.PickupAddress)
	drop := strings.TrimSpace(in.DropAddress)
	desc := strings.TrimSpace(in.Description)
	weight := strings.TrimSpace(in.Weight)
	if pickup == "" || drop == "" || desc == "" || weight == "" {
		return domain.NewDelivery{}, apperr.Invalidf(msgFillAllFields)
	}

	w, err := strconv.ParseFloat(weight, 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return domain.NewDelivery{}, apperr.Invalidf(msgInvalidWeight)
	}

	return domain.NewDelivery{
		PickupAddress: pickup,
		DropAddress:   drop,
		Description:   desc,
		Weight:        w,
		Estimate:      in.Estimate,
	}, nil
}
