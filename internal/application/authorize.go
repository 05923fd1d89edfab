package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/markethub/user-card-service/internal/domain"
)

const RoleAdmin = "ADMIN"

// Principal is the authenticated caller, resolved by the transport layer
// before any service operation runs.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

func (p Principal) isAdmin() bool {
	return strings.EqualFold(p.Role, RoleAdmin)
}

// requireSelf allows only the user the operation targets.
func requireSelf(p Principal, userID uuid.UUID) error {
	if p.UserID == userID {
		return nil
	}
	return fmt.Errorf("%w: operation is restricted to the account owner", domain.ErrForbidden)
}

// requireAdmin allows only administrative callers.
func requireAdmin(p Principal) error {
	if p.isAdmin() {
		return nil
	}
	return fmt.Errorf("%w: admin role required", domain.ErrForbidden)
}

// requireCardOwnerOrAdmin resolves ownership by loading the card and
// comparing its owning user id to the caller. A missing card surfaces as
// not-found rather than forbidden, matching the fetch the operation itself
// would perform.
func (s *Service) requireCardOwnerOrAdmin(ctx context.Context, p Principal, cardID uuid.UUID) (domain.CardInfo, error) {
	card, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		return domain.CardInfo{}, err
	}
	if p.isAdmin() || card.UserID == p.UserID {
		return card, nil
	}
	return domain.CardInfo{}, fmt.Errorf("%w: caller does not own card %s", domain.ErrForbidden, cardID)
}
