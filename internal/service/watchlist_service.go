package service

import (
	"context"
	"strings"
	"time"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/events"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/model"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActionResult error messages
const (
	MsgUnauthorized  = "Unauthorized"
	MsgInvalidSymbol = "Invalid symbol"
	MsgAddFailed     = "Failed to add to watchlist"
	MsgRemoveFailed  = "Failed to remove from watchlist"
)

// WatchlistService manages the signed-in user's watchlist
type WatchlistService struct {
	watchlistRepo *repository.WatchlistRepository
	userRepo      *repository.UserRepository
	stocks        *StockService
	publisher     events.Publisher
	topic         string
	logger        *zap.Logger
	now           func() time.Time
}

// NewWatchlistService creates a new watchlist service. Successful writes
// are published to topic.
func NewWatchlistService(
	watchlistRepo *repository.WatchlistRepository,
	userRepo *repository.UserRepository,
	stocks *StockService,
	publisher events.Publisher,
	topic string,
	logger *zap.Logger,
) *WatchlistService {
	return &WatchlistService{
		watchlistRepo: watchlistRepo,
		userRepo:      userRepo,
		stocks:        stocks,
		publisher:     publisher,
		topic:         topic,
		logger:        logger,
		now:           time.Now,
	}
}

// GetWatchlistSymbolsByEmail lists the watchlist symbols of the user with
// this email. Unknown emails and store errors yield an empty list.
func (s *WatchlistService) GetWatchlistSymbolsByEmail(ctx context.Context, email string) []string {
	email = normalizeEmail(email)
	if email == "" {
		return []string{}
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("getWatchlistSymbolsByEmail failed", zap.Error(err))
		return []string{}
	}
	if user == nil {
		return []string{}
	}

	symbols, err := s.watchlistRepo.ListSymbols(ctx, user.ID)
	if err != nil {
		s.logger.Error("getWatchlistSymbolsByEmail failed", zap.Error(err), zap.String("userID", user.ID))
		return []string{}
	}
	return model.NormalizeSymbols(symbols)
}

// AddToWatchlist adds symbol for the signed-in user. Adding an existing
// symbol succeeds without changing the stored entry.
func (s *WatchlistService) AddToWatchlist(ctx context.Context, symbol, company string) model.ActionResult {
	user := CurrentUser(ctx)
	if user == nil {
		return model.ActionResult{Success: false, Error: MsgUnauthorized}
	}

	sym := model.NormalizeSymbol(symbol)
	if sym == "" {
		return model.ActionResult{Success: false, Error: MsgInvalidSymbol}
	}

	entry := &model.WatchlistEntry{
		UserID:  user.ID,
		Symbol:  sym,
		Company: firstNonEmpty(company, sym),
		AddedAt: s.now().UTC(),
	}

	inserted, err := s.watchlistRepo.Add(ctx, entry)
	if err != nil {
		s.logger.Error("addToWatchlist failed", zap.Error(err), zap.String("symbol", sym))
		return model.ActionResult{Success: false, Error: MsgAddFailed}
	}

	if inserted {
		s.publish(ctx, model.WatchlistEventAdded, user.ID, sym)
	}
	return model.ActionResult{Success: true}
}

// RemoveFromWatchlist removes symbol for the signed-in user. Removing a
// symbol that is not on the watchlist succeeds.
func (s *WatchlistService) RemoveFromWatchlist(ctx context.Context, symbol string) model.ActionResult {
	user := CurrentUser(ctx)
	if user == nil {
		return model.ActionResult{Success: false, Error: MsgUnauthorized}
	}

	sym := model.NormalizeSymbol(symbol)
	if sym == "" {
		return model.ActionResult{Success: false, Error: MsgInvalidSymbol}
	}

	removed, err := s.watchlistRepo.Remove(ctx, user.ID, sym)
	if err != nil {
		s.logger.Error("removeFromWatchlist failed", zap.Error(err), zap.String("symbol", sym))
		return model.ActionResult{Success: false, Error: MsgRemoveFailed}
	}

	if removed {
		s.publish(ctx, model.WatchlistEventRemoved, user.ID, sym)
	}
	return model.ActionResult{Success: true}
}

// OnWatchlistChange adds or removes symbol depending on added
func (s *WatchlistService) OnWatchlistChange(ctx context.Context, symbol string, added bool) model.ActionResult {
	if added {
		return s.AddToWatchlist(ctx, symbol, "")
	}
	return s.RemoveFromWatchlist(ctx, symbol)
}

// GetWatchlistOverview returns the signed-in user's symbols with detailed data
func (s *WatchlistService) GetWatchlistOverview(ctx context.Context) (*model.WatchlistOverview, error) {
	email := CurrentUserEmail(ctx)
	if email == "" {
		return nil, ErrUnauthorized
	}

	symbols := s.GetWatchlistSymbolsByEmail(ctx, email)
	overview := &model.WatchlistOverview{
		Symbols: symbols,
		Stocks:  []model.StockDataResult{},
		Total:   len(symbols),
	}
	if len(symbols) == 0 {
		return overview, nil
	}

	overview.Stocks = s.stocks.GetDetailedStockDatas(ctx, symbols)
	return overview, nil
}

// publish emits a watchlist event; failures are logged only
func (s *WatchlistService) publish(ctx context.Context, eventType, userID, symbol string) {
	event := model.WatchlistEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		Symbol:     symbol,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, s.topic, events.Message{Key: userID, Value: event}); err != nil {
		s.logger.Warn("failed to publish watchlist event",
			zap.String("type", eventType),
			zap.String("symbol", symbol),
			zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
