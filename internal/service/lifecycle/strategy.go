package lifecycle

import (
	"fmt"

	"parcelbee-client/internal/apperr"
	"parcelbee-client/internal/domain"
)

// Transition is a status change a role may request.
type Transition string

// Transitions
const (
	TransitionAccept       Transition = "accept"
	TransitionStartTransit Transition = "in_transit"
	TransitionDeliver      Transition = "delivered"
)

// Strategy is what a role sees and what it may do.
type Strategy struct {
	Role        domain.Role
	Lists       []domain.ListFilter
	Transitions []Transition
	CanCreate   bool
}

var strategies = map[domain.Role]Strategy{
	domain.RoleCustomer: {
		Role:      domain.RoleCustomer,
		Lists:     []domain.ListFilter{domain.FilterAll},
		CanCreate: true,
	},
	domain.RolePartner: {
		Role:        domain.RolePartner,
		Lists:       []domain.ListFilter{domain.FilterAvailable, domain.FilterMine},
		Transitions: []Transition{TransitionAccept, TransitionStartTransit, TransitionDeliver},
	},
	domain.RoleAdmin: {
		Role:  domain.RoleAdmin,
		Lists: []domain.ListFilter{domain.FilterAll},
	},
}

// StrategyFor returns the strategy of role.
func StrategyFor(role domain.Role) (Strategy, error) {
	s, ok := strategies[role]
	if !ok {
		return Strategy{}, fmt.Errorf("%w: %q", apperr.ErrUnknownRole, role)
	}
	return s, nil
}

// Allows reports whether the role may request t.
func (s Strategy) Allows(t Transition) bool {
	for _, v := range s.Transitions {
		if v == t {
			return true
		}
	}
	return false
}
