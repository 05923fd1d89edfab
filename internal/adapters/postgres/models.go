package postgres

import (
	"time"

	"github.com/google/uuid"
)

type userModel struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string     `gorm:"column:name"`
	Surname   *string    `gorm:"column:surname"`
	BirthDate *time.Time `gorm:"column:birth_date"`
	Email     string     `gorm:"column:email"`
}

func (userModel) TableName() string { return "users" }

type cardInfoModel struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID `gorm:"column:user_id"`
	Number         string    `gorm:"column:number"`
	Holder         string    `gorm:"column:holder"`
	ExpirationDate time.Time `gorm:"column:expiration_date"`
}

func (cardInfoModel) TableName() string { return "card_info" }

type outboxModel struct {
	OutboxID     uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      string     `gorm:"column:payload"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
	RetryCount   int        `gorm:"column:retry_count"`
	LastError    *string    `gorm:"column:last_error"`
	LastErrorAt  *time.Time `gorm:"column:last_error_at"`
}

func (outboxModel) TableName() string { return "user_card_outbox" }
