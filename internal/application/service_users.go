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

// CreateUser persists a new user after enforcing email uniqueness. Public:
// no principal is required. A new user may join today's birthday set, so
// the shared birthday cache entry is evicted.
func (s *Service) CreateUser(ctx context.Context, req NewUserRequest) (UserResponse, error) {
	in, err := req.toInput()
	if err != nil {
		return UserResponse{}, err
	}
	if err := domain.ValidateNewUser(in, s.today()); err != nil {
		return UserResponse{}, err
	}
	email := domain.NormalizeEmail(in.Email)
	if _, found, err := s.users.FindByEmail(ctx, email); err != nil {
		return UserResponse{}, err
	} else if found {
		return UserResponse{}, fmt.Errorf("%w: user with email %s already exists", domain.ErrConflict, email)
	}

	created, err := s.users.Create(ctx, ports.CreateUserParams{
		Name:      strings.TrimSpace(in.Name),
		Surname:   in.Surname,
		BirthDate: in.BirthDate,
		Email:     email,
	})
	if err != nil {
		return UserResponse{}, err
	}
	s.enqueueUserEvent(ctx, eventUserCreated, created)
	_ = s.cache.Delete(ctx, cacheKeyBirthdays)
	return toUserResponse(created), nil
}

// UpdateUser applies every field from the request onto the existing record.
// The id never changes. Email uniqueness is re-checked only when the email
// actually moves to a different owner.
func (s *Service) UpdateUser(ctx context.Context, p Principal, id uuid.UUID, req NewUserRequest) (UserResponse, error) {
	if err := requireSelf(p, id); err != nil {
		return UserResponse{}, err
	}
	in, err := req.toInput()
	if err != nil {
		return UserResponse{}, err
	}
	if err := domain.ValidateNewUser(in, s.today()); err != nil {
		return UserResponse{}, err
	}
	existing, err := s.users.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	email := domain.NormalizeEmail(in.Email)
	if email != existing.Email {
		if other, found, lookupErr := s.users.FindByEmail(ctx, email); lookupErr != nil {
			return UserResponse{}, lookupErr
		} else if found && other.ID != id {
			return UserResponse{}, fmt.Errorf("%w: email %s is already in use by another user", domain.ErrConflict, email)
		}
	}

	updated, err := s.users.Update(ctx, ports.UpdateUserParams{
		ID:        id,
		Name:      strings.TrimSpace(in.Name),
		Surname:   in.Surname,
		BirthDate: in.BirthDate,
		Email:     email,
	})
	if err != nil {
		return UserResponse{}, err
	}
	s.enqueueUserEvent(ctx, eventUserUpdated, updated)
	_ = s.cache.Delete(ctx, cacheKeyUser(id), cacheKeyBirthdays)
	return toUserResponse(updated), nil
}

// DeleteUser removes the user record. Cards are not cascade-deleted; they
// keep referencing the removed owner until deleted on their own.
func (s *Service) DeleteUser(ctx context.Context, p Principal, id uuid.UUID) error {
	if err := requireSelf(p, id); err != nil {
		return err
	}
	existing, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.enqueueUserEvent(ctx, eventUserDeleted, existing)
	_ = s.cache.Delete(ctx, cacheKeyUser(id), cacheKeyBirthdays)
	return nil
}

// GetUserByID returns the user with its cards, served from cache when a
// fresh entry exists.
func (s *Service) GetUserByID(ctx context.Context, p Principal, id uuid.UUID) (UserWithCardsResponse, error) {
	if err := requireSelf(p, id); err != nil {
		return UserWithCardsResponse{}, err
	}
	key := cacheKeyUser(id)
	if raw, err := s.cache.Get(ctx, key); err == nil && raw != "" {
		var cached UserWithCardsResponse
		if json.Unmarshal([]byte(raw), &cached) == nil {
			return cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return UserWithCardsResponse{}, err
	}
	cards, err := s.cards.FindByUserID(ctx, id)
	if err != nil {
		return UserWithCardsResponse{}, err
	}
	resp := toUserWithCardsResponse(user, cards)
	if raw, err := json.Marshal(resp); err == nil {
		_ = s.cache.Set(ctx, key, string(raw), s.cfg.CacheTTL)
	}
	return resp, nil
}

// GetUserByEmail is a lookup, not a fetch by identity: absence is a normal
// outcome reported as found=false.
func (s *Service) GetUserByEmail(ctx context.Context, p Principal, email string) (UserWithCardsResponse, bool, error) {
	if err := requireAdmin(p); err != nil {
		return UserWithCardsResponse{}, false, err
	}
	user, found, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil || !found {
		return UserWithCardsResponse{}, false, err
	}
	cards, err := s.cards.FindByUserID(ctx, user.ID)
	if err != nil {
		return UserWithCardsResponse{}, false, err
	}
	return toUserWithCardsResponse(user, cards), true, nil
}

func (s *Service) ListUsers(ctx context.Context, p Principal, page ports.PageRequest) (UserPage, error) {
	if err := requireAdmin(p); err != nil {
		return UserPage{}, err
	}
	users, total, err := s.users.FindAll(ctx, page)
	if err != nil {
		return UserPage{}, err
	}
	return toUserPage(users, total, page.Page, page.Size), nil
}

func (s *Service) SearchUsers(ctx context.Context, p Principal, term string, page ports.PageRequest) (UserPage, error) {
	if err := requireAdmin(p); err != nil {
		return UserPage{}, err
	}
	users, total, err := s.users.FindBySearchTerm(ctx, strings.TrimSpace(term), page)
	if err != nil {
		return UserPage{}, err
	}
	return toUserPage(users, total, page.Page, page.Size), nil
}

// GetUsersWithBirthdayToday matches on month and day of the injected
// clock's date, ignoring the birth year. The result lives under one shared
// cache key and is evicted by every user mutation.
func (s *Service) GetUsersWithBirthdayToday(ctx context.Context, p Principal) ([]UserResponse, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if raw, err := s.cache.Get(ctx, cacheKeyBirthdays); err == nil && raw != "" {
		var cached []UserResponse
		if json.Unmarshal([]byte(raw), &cached) == nil {
			return cached, nil
		}
	}

	users, err := s.users.FindWithBirthdayOn(ctx, s.today())
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	if raw, err := json.Marshal(out); err == nil {
		_ = s.cache.Set(ctx, cacheKeyBirthdays, string(raw), s.cfg.CacheTTL)
	}
	return out, nil
}
