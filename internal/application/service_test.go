package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/user-card-service/internal/domain"
	"github.com/markethub/user-card-service/internal/ports"
)

// fixedNow keeps date-sensitive assertions stable.
var fixedNow = time.Date(2025, time.May, 15, 10, 30, 0, 0, time.UTC)

type memUserRepo struct {
	mu          sync.Mutex
	users       map[uuid.UUID]domain.User
	findByIDGot int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]domain.User{}}
}

func (m *memUserRepo) Create(_ context.Context, params ports.CreateUserParams) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == params.Email {
			return domain.User{}, fmt.Errorf("%w: user with email %s already exists", domain.ErrConflict, params.Email)
		}
	}
	u := domain.User{
		ID:        uuid.New(),
		Name:      params.Name,
		Surname:   params.Surname,
		BirthDate: params.BirthDate,
		Email:     params.Email,
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *memUserRepo) Update(_ context.Context, params ports.UpdateUserParams) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[params.ID]; !ok {
		return domain.User{}, fmt.Errorf("%w: user with id %s not found", domain.ErrNotFound, params.ID)
	}
	u := domain.User{
		ID:        params.ID,
		Name:      params.Name,
		Surname:   params.Surname,
		BirthDate: params.BirthDate,
		Email:     params.Email,
	}
	m.users[params.ID] = u
	return u, nil
}

func (m *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findByIDGot++
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("%w: user with id %s not found", domain.ErrNotFound, id)
	}
	return u, nil
}

func (m *memUserRepo) FindByEmail(_ context.Context, email string) (domain.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

func (m *memUserRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[id]
	return ok, nil
}

func (m *memUserRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("%w: user with id %s not found", domain.ErrNotFound, id)
	}
	delete(m.users, id)
	return nil
}

func (m *memUserRepo) FindAll(_ context.Context, page ports.PageRequest) ([]domain.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sortedLocked()
	return pageSlice(all, page), int64(len(all)), nil
}

func (m *memUserRepo) FindBySearchTerm(_ context.Context, term string, page ports.PageRequest) ([]domain.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []domain.User
	for _, u := range m.sortedLocked() {
		if containsFold(u.Name, term) || containsFold(u.Email, term) ||
			(u.Surname != nil && containsFold(*u.Surname, term)) {
			matched = append(matched, u)
		}
	}
	return pageSlice(matched, page), int64(len(matched)), nil
}

func (m *memUserRepo) FindWithBirthdayOn(_ context.Context, date time.Time) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.sortedLocked() {
		if u.BirthDate != nil && u.BirthDate.Month() == date.Month() && u.BirthDate.Day() == date.Day() {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUserRepo) sortedLocked() []domain.User {
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

func pageSlice(all []domain.User, page ports.PageRequest) []domain.User {
	if !page.Paged() {
		return all
	}
	start := page.Offset()
	if start >= len(all) {
		return nil
	}
	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

type memCardRepo struct {
	mu    sync.Mutex
	cards map[uuid.UUID]domain.CardInfo
}

func newMemCardRepo() *memCardRepo {
	return &memCardRepo{cards: map[uuid.UUID]domain.CardInfo{}}
}

func (m *memCardRepo) Create(_ context.Context, params ports.CreateCardParams) (domain.CardInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cards {
		if c.Number == params.Number {
			return domain.CardInfo{}, fmt.Errorf("%w: card number is already registered", domain.ErrConflict)
		}
	}
	c := domain.CardInfo{
		ID:             uuid.New(),
		UserID:         params.UserID,
		Number:         params.Number,
		Holder:         params.Holder,
		ExpirationDate: params.ExpirationDate,
	}
	m.cards[c.ID] = c
	return c, nil
}

func (m *memCardRepo) FindByID(_ context.Context, id uuid.UUID) (domain.CardInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return domain.CardInfo{}, fmt.Errorf("%w: card with id %s not found", domain.ErrNotFound, id)
	}
	return c, nil
}

func (m *memCardRepo) FindByNumber(_ context.Context, number string) (domain.CardInfo, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cards {
		if c.Number == number {
			return c, true, nil
		}
	}
	return domain.CardInfo{}, false, nil
}

func (m *memCardRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.cards[id]
	return ok, nil
}

func (m *memCardRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[id]; !ok {
		return fmt.Errorf("%w: card with id %s not found", domain.ErrNotFound, id)
	}
	delete(m.cards, id)
	return nil
}

func (m *memCardRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]domain.CardInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CardInfo
	for _, c := range m.cards {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *memCardRepo) FindExpired(_ context.Context, asOf time.Time) ([]domain.CardInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CardInfo
	for _, c := range m.cards {
		if c.ExpirationDate.Before(asOf) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]string
	sets    int
	gets    int
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]string{}}
}

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	return m.entries[key], nil
}

func (m *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.entries[key] = value
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func (m *memCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

type memOutboxRepo struct {
	mu     sync.Mutex
	events []ports.OutboxEvent
}

func (m *memOutboxRepo) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *memOutboxRepo) FetchUnpublished(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	return nil, nil
}

func (m *memOutboxRepo) MarkPublished(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}

func (m *memOutboxRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string, _ time.Time) error {
	return nil
}

func (m *memOutboxRepo) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.EventType)
	}
	return out
}

type fakeCredClient struct {
	mu    sync.Mutex
	err   error
	calls []domain.Credentials
}

func (f *fakeCredClient) CreateCredentials(_ context.Context, creds domain.Credentials) (ports.CredentialResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, creds)
	if f.err != nil {
		return ports.CredentialResult{}, f.err
	}
	return ports.CredentialResult{ExternalUserID: creds.UserID}, nil
}

type fixture struct {
	service *Service
	users   *memUserRepo
	cards   *memCardRepo
	cache   *memCache
	outbox  *memOutboxRepo
	creds   *fakeCredClient
}

func newFixture() *fixture {
	users := newMemUserRepo()
	cards := newMemCardRepo()
	cacheStore := newMemCache()
	outbox := &memOutboxRepo{}
	creds := &fakeCredClient{}
	service := NewService(Dependencies{
		Config: Config{
			CacheTTL:                5 * time.Minute,
			RequireFutureExpiration: true,
		},
		Users:       users,
		Cards:       cards,
		Outbox:      outbox,
		Credentials: creds,
		Cache:       cacheStore,
		Now:         func() time.Time { return fixedNow },
	})
	return &fixture{
		service: service,
		users:   users,
		cards:   cards,
		cache:   cacheStore,
		outbox:  outbox,
		creds:   creds,
	}
}

func (f *fixture) seedUser(email string, birthDate *time.Time) domain.User {
	u, err := f.users.Create(context.Background(), ports.CreateUserParams{
		Name:      "Seed",
		BirthDate: birthDate,
		Email:     email,
	})
	if err != nil {
		panic(err)
	}
	return u
}

func (f *fixture) seedCard(userID uuid.UUID, number string, expiration time.Time) domain.CardInfo {
	c, err := f.cards.Create(context.Background(), ports.CreateCardParams{
		UserID:         userID,
		Number:         number,
		Holder:         "SEED HOLDER",
		ExpirationDate: expiration,
	})
	if err != nil {
		panic(err)
	}
	return c
}

func selfPrincipal(id uuid.UUID) Principal {
	return Principal{UserID: id, Role: "USER"}
}

func adminPrincipal() Principal {
	return Principal{UserID: uuid.New(), Role: RoleAdmin}
}

func strPtr(v string) *string { return &v }

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
