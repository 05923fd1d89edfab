package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/markethub/user-card-service/internal/ports"
)

type Service struct {
	cfg    Config
	users  ports.UserRepository
	cards  ports.CardRepository
	outbox ports.OutboxRepository
	creds  ports.CredentialClient
	cache  ports.Cache
	nowFn  func() time.Time
}

type Dependencies struct {
	Config      Config
	Users       ports.UserRepository
	Cards       ports.CardRepository
	Outbox      ports.OutboxRepository
	Credentials ports.CredentialClient
	Cache       ports.Cache
	// Now overrides the clock; nil means wall time in UTC.
	Now func() time.Time
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "user-card-service"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	nowFn := deps.Now
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		cfg:    cfg,
		users:  deps.Users,
		cards:  deps.Cards,
		outbox: deps.Outbox,
		creds:  deps.Credentials,
		cache:  deps.Cache,
		nowFn:  nowFn,
	}
}

// today collapses the injected clock to a date; all birthday and expiration
// comparisons work on whole dates.
func (s *Service) today() time.Time {
	now := s.nowFn()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func cacheKeyUser(id uuid.UUID) string {
	return "users:" + id.String()
}

const (
	cacheKeyBirthdays    = "usersWithBirthdayToday"
	cacheKeyExpiredCards = "expiredCards"
)
