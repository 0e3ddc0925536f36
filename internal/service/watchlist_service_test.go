package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/model"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/repository"

	"go.uber.org/zap"
)

type watchlistFixture struct {
	svc       *WatchlistService
	repo      *repository.WatchlistRepository
	users     *repository.UserRepository
	publisher *recordingPublisher
	finnhub   *fakeFinnhub
}

func newWatchlistFixture(t *testing.T) *watchlistFixture {
	t.Helper()
	db := newTestDB(t)
	users := repository.NewUserRepository(db, zap.NewNop())
	repo := repository.NewWatchlistRepository(db, zap.NewNop())
	f := newFakeFinnhub()
	pub := &recordingPublisher{}

	svc := NewWatchlistService(repo, users, newTestStockService(t, f, "key"), pub, "watchlist-events", zap.NewNop())

	return &watchlistFixture{svc: svc, repo: repo, users: users, publisher: pub, finnhub: f}
}

func (fx *watchlistFixture) signIn(t *testing.T, id, email string) context.Context {
	t.Helper()
	err := fx.users.Create(context.Background(), &model.User{
		ID: id, Email: email, Name: "Test", PasswordHash: "x", CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return WithUser(context.Background(), &model.SessionUser{ID: id, Email: email, Name: "Test"})
}

func TestAddToWatchlist_Unauthorized(t *testing.T) {
	fx := newWatchlistFixture(t)

	got := fx.svc.AddToWatchlist(context.Background(), "AAPL", "")

	if got.Success || got.Error != "Unauthorized" {
		t.Errorf("expected Unauthorized, got %+v", got)
	}
}

func TestRemoveFromWatchlist_Unauthorized(t *testing.T) {
	fx := newWatchlistFixture(t)

	got := fx.svc.RemoveFromWatchlist(context.Background(), "AAPL")

	if got.Success || got.Error != "Unauthorized" {
		t.Errorf("expected Unauthorized, got %+v", got)
	}
}

func TestAddToWatchlist_IdempotentKeepsFirstAddedAt(t *testing.T) {
	fx := newWatchlistFixture(t)
	ctx := fx.signIn(t, "u1", "ada@example.com")

	first := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	fx.svc.now = func() time.Time { return first }
	if got := fx.svc.AddToWatchlist(ctx, "aapl", ""); !got.Success {
		t.Fatalf("first add failed: %+v", got)
	}

	fx.svc.now = func() time.Time { return first.Add(time.Hour) }
	if got := fx.svc.AddToWatchlist(ctx, "AAPL", "Apple"); !got.Success {
		t.Fatalf("second add failed: %+v", got)
	}

	entries, err := fx.repo.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one entry, got %d", len(entries))
	}
	if entries[0].Symbol != "AAPL" || entries[0].Company != "AAPL" {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
	if !entries[0].AddedAt.Equal(first) {
		t.Errorf("expected addedAt %v, got %v", first, entries[0].AddedAt)
	}

	msgs := fx.publisher.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected one event for one insert, got %d", len(msgs))
	}
	event := msgs[0].msg.Value.(model.WatchlistEvent)
	if msgs[0].topic != "watchlist-events" || event.Type != model.WatchlistEventAdded || event.Symbol != "AAPL" {
		t.Errorf("unexpected event: %s %+v", msgs[0].topic, event)
	}
}

func TestAddToWatchlist_EmptySymbol(t *testing.T) {
	fx := newWatchlistFixture(t)
	ctx := fx.signIn(t, "u1", "ada@example.com")

	got := fx.svc.AddToWatchlist(ctx, "  ", "")

	if got.Success || got.Error == "" {
		t.Errorf("expected failure for empty symbol, got %+v", got)
	}
}

func TestAddToWatchlist_PublishFailureStillSucceeds(t *testing.T) {
	fx := newWatchlistFixture(t)
	fx.publisher.err = errors.New("broker down")
	ctx := fx.signIn(t, "u1", "ada@example.com")

	if got := fx.svc.AddToWatchlist(ctx, "MSFT", "Microsoft"); !got.Success {
		t.Errorf("expected success despite publish failure, got %+v", got)
	}
}

func TestRemoveFromWatchlist_NeverAddedIsSuccess(t *testing.T) {
	fx := newWatchlistFixture(t)
	ctx := fx.signIn(t, "u1", "ada@example.com")

	got := fx.svc.RemoveFromWatchlist(ctx, "NFLX")

	if !got.Success || got.Error != "" {
		t.Errorf("expected success, got %+v", got)
	}
	if len(fx.publisher.messages()) != 0 {
		t.Error("expected no event for a no-op remove")
	}
}

func TestOnWatchlistChange(t *testing.T) {
	fx := newWatchlistFixture(t)
	ctx := fx.signIn(t, "u1", "ada@example.com")

	if got := fx.svc.OnWatchlistChange(ctx, "tsla", true); !got.Success {
		t.Fatalf("add failed: %+v", got)
	}
	if symbols := fx.svc.GetWatchlistSymbolsByEmail(ctx, "ada@example.com"); len(symbols) != 1 || symbols[0] != "TSLA" {
		t.Fatalf("expected [TSLA], got %v", symbols)
	}

	if got := fx.svc.OnWatchlistChange(ctx, "tsla", false); !got.Success {
		t.Fatalf("remove failed: %+v", got)
	}
	if symbols := fx.svc.GetWatchlistSymbolsByEmail(ctx, "ada@example.com"); len(symbols) != 0 {
		t.Errorf("expected empty watchlist, got %v", symbols)
	}

	msgs := fx.publisher.messages()
	if len(msgs) != 2 || msgs[1].msg.Value.(model.WatchlistEvent).Type != model.WatchlistEventRemoved {
		t.Errorf("expected add then remove events, got %+v", msgs)
	}
}

func TestGetWatchlistSymbolsByEmail_UnknownEmail(t *testing.T) {
	fx := newWatchlistFixture(t)

	got := fx.svc.GetWatchlistSymbolsByEmail(context.Background(), "unknown@x.com")

	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}

func TestGetWatchlistSymbolsByEmail_CaseInsensitiveEmail(t *testing.T) {
	fx := newWatchlistFixture(t)
	ctx := fx.signIn(t, "u1", "ada@example.com")
	fx.svc.AddToWatchlist(ctx, "nvda", "")

	got := fx.svc.GetWatchlistSymbolsByEmail(context.Background(), " ADA@example.com ")

	if len(got) != 1 || got[0] != "NVDA" {
		t.Errorf("expected [NVDA], got %v", got)
	}
}

func TestGetWatchlistOverview(t *testing.T) {
	fx := newWatchlistFixture(t)
	seedApple(fx.finnhub)
	ctx := fx.signIn(t, "u1", "ada@example.com")
	fx.svc.AddToWatchlist(ctx, "AAPL", "Apple")

	overview, err := fx.svc.GetWatchlistOverview(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overview.Total != 1 || len(overview.Stocks) != 1 {
		t.Fatalf("unexpected overview: %+v", overview)
	}
	if overview.Stocks[0].Data == nil || overview.Stocks[0].Data.CurrentPrice != 187.5 {
		t.Errorf("expected live data, got %+v", overview.Stocks[0])
	}
}

func TestGetWatchlistOverview_SignedOut(t *testing.T) {
	fx := newWatchlistFixture(t)

	if _, err := fx.svc.GetWatchlistOverview(context.Background()); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCurrentUserEmail(t *testing.T) {
	if got := CurrentUserEmail(context.Background()); got != "" {
		t.Errorf("expected empty email when signed out, got %q", got)
	}

	ctx := WithUser(context.Background(), &model.SessionUser{ID: "u1", Email: "ada@example.com"})
	if got := CurrentUserEmail(ctx); got != "ada@example.com" {
		t.Errorf("unexpected email: %q", got)
	}

	anon := WithUser(context.Background(), &model.SessionUser{Email: "no-id@example.com"})
	if CurrentUser(anon) != nil {
		t.Error("expected a session without an id to count as signed out")
	}
}
