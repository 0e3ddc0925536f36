package model

import "time"

// WatchlistEntry is one stored watchlist row, unique per (UserID, Symbol)
type WatchlistEntry struct {
	UserID  string    `json:"user_id" db:"user_id"`
	Symbol  string    `json:"symbol" db:"symbol"`
	Company string    `json:"company" db:"company"`
	AddedAt time.Time `json:"added_at" db:"added_at"`
}

// ActionResult reports the outcome of a watchlist write
type ActionResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// WatchlistAddRequest is the body of an add request
type WatchlistAddRequest struct {
	Symbol  string `json:"symbol" binding:"required,max=20"`
	Company string `json:"company" binding:"max=200"`
}

// WatchlistToggleRequest is the body of a toggle request
type WatchlistToggleRequest struct {
	Symbol string `json:"symbol" binding:"required,max=20"`
	Added  *bool  `json:"added" binding:"required"`
}

// WatchlistOverview is the signed-in user's watchlist with live data
type WatchlistOverview struct {
	Symbols []string          `json:"symbols"`
	Stocks  []StockDataResult `json:"stocks"`
	Total   int               `json:"total"`
}

// Watchlist event types
const (
	WatchlistEventAdded   = "watchlist.added"
	WatchlistEventRemoved = "watchlist.removed"
)

// WatchlistEvent is published after a successful watchlist write
type WatchlistEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Symbol     string    `json:"symbol"`
	OccurredAt time.Time `json:"occurred_at"`
}
