package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/markethub/user-card-service/internal/domain"
)

// RegisterUser creates the local user record and then asks the external
// auth service to mint credentials for it. There is no distributed
// transaction across the two steps: when the remote call fails, the local
// record is compensating-deleted so a retried registration does not hit a
// spurious email conflict.
func (s *Service) RegisterUser(ctx context.Context, req RegistrationRequest) (UserResponse, error) {
	if err := validateCredentials(req.Login, req.Password); err != nil {
		return UserResponse{}, err
	}
	created, err := s.CreateUser(ctx, NewUserRequest{
		Name:      req.Name,
		Surname:   req.Surname,
		BirthDate: req.BirthDate,
		Email:     req.Email,
	})
	if err != nil {
		return UserResponse{}, err
	}
	userID, err := uuid.Parse(created.ID)
	if err != nil {
		return UserResponse{}, err
	}

	if _, err := s.creds.CreateCredentials(ctx, domain.Credentials{
		UserID:   userID,
		Login:    strings.TrimSpace(req.Login),
		Password: req.Password,
	}); err != nil {
		if deleteErr := s.users.DeleteByID(ctx, userID); deleteErr == nil {
			s.enqueueUserEvent(ctx, eventUserDeleted, domain.User{ID: userID, Email: created.Email})
			_ = s.cache.Delete(ctx, cacheKeyUser(userID), cacheKeyBirthdays)
		}
		return UserResponse{}, err
	}
	return created, nil
}

func validateCredentials(login, password string) error {
	errs := domain.FieldErrors{}
	if strings.TrimSpace(login) == "" {
		errs["login"] = "must not be blank"
	}
	if password == "" {
		errs["password"] = "must not be blank"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
