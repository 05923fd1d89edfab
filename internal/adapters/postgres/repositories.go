package postgres

import (
	"github.com/markethub/user-card-service/internal/ports"
	"gorm.io/gorm"
)

// Repositories bundles the postgres-backed implementations sharing one
// connection pool.
type Repositories struct {
	Users  ports.UserRepository
	Cards  ports.CardRepository
	Outbox ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:  &userRepository{db: db},
		Cards:  &cardRepository{db: db},
		Outbox: &outboxRepository{db: db},
	}
}
