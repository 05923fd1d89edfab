package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/markethub/user-card-service/internal/domain"
)

type CredentialResult struct {
	ExternalUserID uuid.UUID
}

// CredentialClient mints login credentials at the external auth service.
// A rejected login maps to domain.ErrConflict; transport or server failures
// map to domain.ErrDependencyUnavailable.
type CredentialClient interface {
	CreateCredentials(ctx context.Context, creds domain.Credentials) (CredentialResult, error)
}
