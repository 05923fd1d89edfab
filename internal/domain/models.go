package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a marketplace account holder. Email is unique across all users;
// surname and birth date are optional.
type User struct {
	ID        uuid.UUID
	Name      string
	Surname   *string
	BirthDate *time.Time
	Email     string
}

// CardInfo is a payment card bound to exactly one user. The binding is set
// at creation and never changes; cards have no update operation.
type CardInfo struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Number         string
	Holder         string
	ExpirationDate time.Time
}

// Credentials is the payload handed to the external auth service during
// registration. It is never persisted locally.
type Credentials struct {
	UserID   uuid.UUID
	Login    string
	Password string
}
