package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/user-card-service/internal/domain"
)

// PageRequest is 0-based. A nil-equivalent request (Size <= 0) means
// unpaged: return everything.
type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) Paged() bool { return p.Size > 0 }

func (p PageRequest) Offset() int {
	if !p.Paged() {
		return 0
	}
	return p.Page * p.Size
}

type CreateUserParams struct {
	Name      string
	Surname   *string
	BirthDate *time.Time
	Email     string
}

type UpdateUserParams struct {
	ID        uuid.UUID
	Name      string
	Surname   *string
	BirthDate *time.Time
	Email     string
}

type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (domain.User, error)
	Update(ctx context.Context, params UpdateUserParams) (domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	// FindByEmail reports found=false on absence instead of an error;
	// lookups by email are not fetches by identity.
	FindByEmail(ctx context.Context, email string) (domain.User, bool, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, page PageRequest) ([]domain.User, int64, error)
	// FindBySearchTerm matches the term case-insensitively as a substring
	// of name, surname or email.
	FindBySearchTerm(ctx context.Context, term string, page PageRequest) ([]domain.User, int64, error)
	// FindWithBirthdayOn matches users whose birth-date month and day equal
	// the given date's, ignoring the year.
	FindWithBirthdayOn(ctx context.Context, date time.Time) ([]domain.User, error)
}

type CreateCardParams struct {
	UserID         uuid.UUID
	Number         string
	Holder         string
	ExpirationDate time.Time
}

type CardRepository interface {
	Create(ctx context.Context, params CreateCardParams) (domain.CardInfo, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.CardInfo, error)
	FindByNumber(ctx context.Context, number string) (domain.CardInfo, bool, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]domain.CardInfo, error)
	// FindExpired returns cards whose expiration date is strictly before asOf.
	FindExpired(ctx context.Context, asOf time.Time) ([]domain.CardInfo, error)
}

type OutboxEvent struct {
	EventID      uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
}

type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	PublishedAt  *time.Time
	LastError    *string
	CreatedAt    time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error
}
