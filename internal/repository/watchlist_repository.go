package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// WatchlistRepository handles database operations for watchlist entries
type WatchlistRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewWatchlistRepository creates a new watchlist repository
func NewWatchlistRepository(db *sqlx.DB, logger *zap.Logger) *WatchlistRepository {
	return &WatchlistRepository{
		db:     db,
		logger: logger,
	}
}

// Add inserts the entry unless (user_id, symbol) already exists, in which
// case the stored row is left untouched. Reports whether a row was inserted.
func (r *WatchlistRepository) Add(ctx context.Context, entry *model.WatchlistEntry) (bool, error) {
	query := r.db.Rebind(`INSERT INTO watchlist (user_id, symbol, company, added_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, symbol) DO NOTHING`)

	res, err := r.db.ExecContext(ctx, query, entry.UserID, entry.Symbol, entry.Company, entry.AddedAt)
	if err != nil {
		r.logger.Error("failed to add watchlist entry", zap.Error(err),
			zap.String("userID", entry.UserID), zap.String("symbol", entry.Symbol))
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Remove deletes the entry; a missing entry is not an error.
// Reports whether a row was deleted.
func (r *WatchlistRepository) Remove(ctx context.Context, userID, symbol string) (bool, error) {
	query := r.db.Rebind(`DELETE FROM watchlist WHERE user_id = ? AND symbol = ?`)

	res, err := r.db.ExecContext(ctx, query, userID, symbol)
	if err != nil {
		r.logger.Error("failed to remove watchlist entry", zap.Error(err),
			zap.String("userID", userID), zap.String("symbol", symbol))
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Get retrieves one entry, nil if absent
func (r *WatchlistRepository) Get(ctx context.Context, userID, symbol string) (*model.WatchlistEntry, error) {
	query := r.db.Rebind(`SELECT user_id, symbol, company, added_at FROM watchlist WHERE user_id = ? AND symbol = ?`)

	var entry model.WatchlistEntry
	if err := r.db.GetContext(ctx, &entry, query, userID, symbol); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get watchlist entry", zap.Error(err),
			zap.String("userID", userID), zap.String("symbol", symbol))
		return nil, err
	}

	return &entry, nil
}

// ListByUser lists a user's entries, oldest first
func (r *WatchlistRepository) ListByUser(ctx context.Context, userID string) ([]model.WatchlistEntry, error) {
	query := r.db.Rebind(`SELECT user_id, symbol, company, added_at FROM watchlist
		WHERE user_id = ? ORDER BY added_at, symbol`)

	entries := []model.WatchlistEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		r.logger.Error("failed to list watchlist", zap.Error(err), zap.String("userID", userID))
		return nil, err
	}

	return entries, nil
}

// ListSymbols lists only the symbols of a user's entries, oldest first
func (r *WatchlistRepository) ListSymbols(ctx context.Context, userID string) ([]string, error) {
	query := r.db.Rebind(`SELECT symbol FROM watchlist WHERE user_id = ? ORDER BY added_at, symbol`)

	symbols := []string{}
	if err := r.db.SelectContext(ctx, &symbols, query, userID); err != nil {
		r.logger.Error("failed to list watchlist symbols", zap.Error(err), zap.String("userID", userID))
		return nil, err
	}

	return symbols, nil
}
