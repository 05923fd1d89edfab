package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/markethub/user-card-service/internal/domain"
	"github.com/markethub/user-card-service/internal/ports"
)

// CreateCardForUser binds a new card to an existing user. A card number
// already held by a different user is a conflict; re-submitting a number
// the user already owns returns the existing card unchanged. The owner's
// cached user entry embeds the card list, so it is evicted.
func (s *Service) CreateCardForUser(ctx context.Context, p Principal, userID uuid.UUID, req NewCardRequest) (CardResponse, error) {
	if err := requireSelf(p, userID); err != nil {
		return CardResponse{}, err
	}
	in, err := req.toInput()
	if err != nil {
		return CardResponse{}, err
	}
	if err := domain.ValidateNewCard(in, s.today(), s.cfg.RequireFutureExpiration); err != nil {
		return CardResponse{}, err
	}
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return CardResponse{}, err
	}
	if !exists {
		return CardResponse{}, fmt.Errorf("%w: user with id %s not found", domain.ErrNotFound, userID)
	}

	number := strings.TrimSpace(in.Number)
	if existing, found, lookupErr := s.cards.FindByNumber(ctx, number); lookupErr != nil {
		return CardResponse{}, lookupErr
	} else if found {
		if existing.UserID != userID {
			return CardResponse{}, fmt.Errorf("%w: card with number %s already exists", domain.ErrConflict, number)
		}
		return toCardResponse(existing), nil
	}

	created, err := s.cards.Create(ctx, ports.CreateCardParams{
		UserID:         userID,
		Number:         number,
		Holder:         strings.TrimSpace(in.Holder),
		ExpirationDate: in.ExpirationDate,
	})
	if err != nil {
		return CardResponse{}, err
	}
	s.enqueueCardEvent(ctx, eventCardCreated, created)
	_ = s.cache.Delete(ctx, cacheKeyUser(userID))
	return toCardResponse(created), nil
}

// DeleteCard removes a card after the ownership check. The owner's cached
// user entry is evicted so its embedded card list does not go stale.
func (s *Service) DeleteCard(ctx context.Context, p Principal, cardID uuid.UUID) error {
	card, err := s.requireCardOwnerOrAdmin(ctx, p, cardID)
	if err != nil {
		return err
	}
	if err := s.cards.DeleteByID(ctx, cardID); err != nil {
		return err
	}
	s.enqueueCardEvent(ctx, eventCardDeleted, card)
	_ = s.cache.Delete(ctx, cacheKeyUser(card.UserID))
	return nil
}

func (s *Service) GetCardByID(ctx context.Context, p Principal, cardID uuid.UUID) (CardResponse, error) {
	card, err := s.requireCardOwnerOrAdmin(ctx, p, cardID)
	if err != nil {
		return CardResponse{}, err
	}
	return toCardResponse(card), nil
}

// GetCardByNumber is a lookup: absence is reported as found=false, not an
// error.
func (s *Service) GetCardByNumber(ctx context.Context, p Principal, number string) (CardResponse, bool, error) {
	if err := requireAdmin(p); err != nil {
		return CardResponse{}, false, err
	}
	card, found, err := s.cards.FindByNumber(ctx, strings.TrimSpace(number))
	if err != nil || !found {
		return CardResponse{}, false, err
	}
	return toCardResponse(card), true, nil
}

// GetCardsByUserID is a pure filter over card storage; it does not check
// that the user exists and returns an empty list either way.
func (s *Service) GetCardsByUserID(ctx context.Context, p Principal, userID uuid.UUID) ([]CardResponse, error) {
	if err := requireSelf(p, userID); err != nil {
		return nil, err
	}
	cards, err := s.cards.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, toCardResponse(c))
	}
	return out, nil
}

// GetExpiredCards returns cards expiring strictly before today. The shared
// cache entry is only bounded by its TTL; nothing re-evaluates it when the
// date rolls over.
func (s *Service) GetExpiredCards(ctx context.Context, p Principal) ([]CardResponse, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if raw, err := s.cache.Get(ctx, cacheKeyExpiredCards); err == nil && raw != "" {
		var cached []CardResponse
		if json.Unmarshal([]byte(raw), &cached) == nil {
			return cached, nil
		}
	}

	cards, err := s.cards.FindExpired(ctx, s.today())
	if err != nil {
		return nil, err
	}
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, toCardResponse(c))
	}
	if raw, err := json.Marshal(out); err == nil {
		_ = s.cache.Set(ctx, cacheKeyExpiredCards, string(raw), s.cfg.CacheTTL)
	}
	return out, nil
}
