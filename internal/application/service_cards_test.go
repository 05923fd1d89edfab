package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/user-card-service/internal/domain"
)

func TestCreateCardSuccess(t *testing.T) {
	t.Parallel()

	f := newFixture()
	u := f.seedUser("owner@example.com", nil)
	resp, err := f.service.CreateCardForUser(context.Background(), selfPrincipal(u.ID), u.ID, NewCardRequest{
		CardNumber:     "4111111111111111",
		CardHolderName: "OWNER NAME",
		ExpirationDate: "2030-01-01",
	})
	if err != nil {
		t.Fatalf("CreateCardForUser: %v", err)
	}
	if resp.UserID != u.ID.String() {
		t.Fatalf("unexpected owner on response: %+v", resp)
	}
	if got := f.outbox.eventTypes(); len(got) != 1 || got[0] != eventCardCreated {
		t.Fatalf("expected card.created event, got %v", got)
	}
}

func TestCreateCardUnknownUser(t *testing.T) {
	t.Parallel()

	f := newFixture()
	id := uuid.New()
	_, err := f.service.CreateCardForUser(context.Background(), selfPrincipal(id), id, NewCardRequest{
		CardNumber:     "4111111111111111",
		CardHolderName: "NOBODY",
		ExpirationDate: "2030-01-01",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateCardPastExpiration(t *testing.T) {
	t.Parallel()

	f := newFixture()
	u := f.seedUser("expired@example.com", nil)
	_, err := f.service.CreateCardForUser(context.Background(), selfPrincipal(u.ID), u.ID, NewCardRequest{
		CardNumber:     "4111111111111111",
		CardHolderName: "EXPIRED",
		ExpirationDate: "2020-01-01",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateCardNumberHeldByOtherUser(t *testing.T) {
	t.Parallel()

	f := newFixture()
	holder := f.seedUser("holder@example.com", nil)
	f.seedCard(holder.ID, "4111111111111111", fixedNow.AddDate(1, 0, 0))
	other := f.seedUser("other@example.com", nil)

	_, err := f.service.CreateCardForUser(context.Background(), selfPrincipal(other.ID), other.ID, NewCardRequest{
		CardNumber:     "4111111111111111",
		CardHolderName: "OTHER",
		ExpirationDate: "2030-01-01",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateCardIdempotentForOwnNumber(t *testing.T) {
	t.Parallel()

	f := newFixture()
	u := f.seedUser("repeat@example.com", nil)
	existing := f.seedCard(u.ID, "4111111111111111", fixedNow.AddDate(1, 0, 0))

	resp, err := f.service.CreateCardForUser(context.Background(), selfPrincipal(u.ID), u.ID, NewCardRequest{
		CardNumber:     "4111111111111111",
		CardHolderName: "REPEAT",
		ExpirationDate: "2030-01-01",
	})
	if err != nil {
		t.Fatalf("expected idempotent success, got %v", err)
	}
	if resp.ID != existing.ID.String() {
		t.Fatalf("expected the existing card back, got %+v", resp)
	}
	if got := f.outbox.eventTypes(); len(got) != 0 {
		t.Fatalf("expected no event for idempotent re-submission, got %v", got)
	}
}

func TestCreateCardEvictsOwnerCache(t *testing.T) {
	t.Parallel()

	f := newFixture()
	u := f.seedUser("cached@example.com", nil)
	ctx := context.Background()
	p := selfPrincipal(u.ID)

	if _, err := f.service.GetUserByID(ctx, p, u.ID); err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if _, err := f.service.CreateCardForUser(ctx, p, u.ID, NewCardRequest{
		CardNumber:     "4111111111111111",
		CardHolderName: "CACHED",
		ExpirationDate: "2030-01-01",
	}); err != nil {
		t.Fatalf("CreateCardForUser: %v", err)
	}
	if f.cache.has(cacheKeyUser(u.ID)) {
		t.Fatalf("expected owner cache eviction after card create")
	}

	resp, err := f.service.GetUserByID(ctx, p, u.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if len(resp.Cards) != 1 {
		t.Fatalf("expected fresh read to embed new card, got %d", len(resp.Cards))
	}
}

func TestDeleteCardOwnershipRules(t *testing.T) {
	t.Parallel()

	f := newFixture()
	owner := f.seedUser("cardowner@example.com", nil)
	card := f.seedCard(owner.ID, "4111111111111111", fixedNow.AddDate(1, 0, 0))
	ctx := context.Background()

	if err := f.service.DeleteCard(ctx, selfPrincipal(uuid.New()), card.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}
	if err := f.service.DeleteCard(ctx, adminPrincipal(), card.ID); err != nil {
		t.Fatalf("expected admin delete to succeed, got %v", err)
	}
	if err := f.service.DeleteCard(ctx, adminPrincipal(), card.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestGetCardByIDOwnerAndAdmin(t *testing.T) {
	t.Parallel()

	f := newFixture()
	owner := f.seedUser("viewer@example.com", nil)
	card := f.seedCard(owner.ID, "4111111111111111", fixedNow.AddDate(1, 0, 0))
	ctx := context.Background()

	if _, err := f.service.GetCardByID(ctx, selfPrincipal(owner.ID), card.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := f.service.GetCardByID(ctx, adminPrincipal(), card.ID); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if _, err := f.service.GetCardByID(ctx, selfPrincipal(uuid.New()), card.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}
}

func TestGetCardByNumberOptional(t *testing.T) {
	t.Parallel()

	f := newFixture()
	owner := f.seedUser("numbered@example.com", nil)
	f.seedCard(owner.ID, "4111111111111111", fixedNow.AddDate(1, 0, 0))
	ctx := context.Background()

	_, found, err := f.service.GetCardByNumber(ctx, adminPrincipal(), "4111111111111111")
	if err != nil || !found {
		t.Fatalf("expected found, got found=%v err=%v", found, err)
	}
	_, found, err = f.service.GetCardByNumber(ctx, adminPrincipal(), "0000000000000000")
	if err != nil || found {
		t.Fatalf("expected absence as found=false, got found=%v err=%v", found, err)
	}
}

func TestGetCardsByUserIDIsPureFilter(t *testing.T) {
	t.Parallel()

	f := newFixture()
	id := uuid.New()
	out, err := f.service.GetCardsByUserID(context.Background(), selfPrincipal(id), id)
	if err != nil {
		t.Fatalf("expected empty list for unknown user, got %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty list, got %d", len(out))
	}
}

func TestGetExpiredCardsStrictlyBeforeToday(t *testing.T) {
	t.Parallel()

	f := newFixture()
	u := f.seedUser("mixed@example.com", nil)
	today := time.Date(fixedNow.Year(), fixedNow.Month(), fixedNow.Day(), 0, 0, 0, 0, time.UTC)
	f.seedCard(u.ID, "1111", today.AddDate(0, 0, -1))
	f.seedCard(u.ID, "2222", today)
	f.seedCard(u.ID, "3333", today.AddDate(0, 0, 1))

	out, err := f.service.GetExpiredCards(context.Background(), adminPrincipal())
	if err != nil {
		t.Fatalf("GetExpiredCards: %v", err)
	}
	if len(out) != 1 || out[0].CardNumber != "1111" {
		t.Fatalf("expected only the strictly past card, got %+v", out)
	}
}
