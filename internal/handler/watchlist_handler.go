package handler

import (
	"errors"
	"net/http"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/model"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/service"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WatchlistHandler handles watchlist requests for the signed-in user
type WatchlistHandler struct {
	watchlistService *service.WatchlistService
	logger           *zap.Logger
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(watchlistService *service.WatchlistService, logger *zap.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		watchlistService: watchlistService,
		logger:           logger,
	}
}

// GetWatchlist returns the watchlist with detailed data per symbol
// GET /api/v1/watchlist
func (h *WatchlistHandler) GetWatchlist(c *gin.Context) {
	overview, err := h.watchlistService.GetWatchlistOverview(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h.logger.Error("failed to get watchlist", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to get watchlist")
		return
	}

	c.JSON(http.StatusOK, overview)
}

// Add adds a symbol to the watchlist
// POST /api/v1/watchlist
func (h *WatchlistHandler) Add(c *gin.Context) {
	var request model.WatchlistAddRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, model.ActionResult{Success: false, Error: err.Error()})
		return
	}

	result := h.watchlistService.AddToWatchlist(c.Request.Context(), request.Symbol, request.Company)
	c.JSON(actionStatus(result), result)
}

// Remove removes a symbol from the watchlist
// DELETE /api/v1/watchlist/:symbol
func (h *WatchlistHandler) Remove(c *gin.Context) {
	result := h.watchlistService.RemoveFromWatchlist(c.Request.Context(), c.Param("symbol"))
	c.JSON(actionStatus(result), result)
}

// Toggle adds or removes a symbol
// POST /api/v1/watchlist/toggle
func (h *WatchlistHandler) Toggle(c *gin.Context) {
	var request model.WatchlistToggleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, model.ActionResult{Success: false, Error: err.Error()})
		return
	}

	result := h.watchlistService.OnWatchlistChange(c.Request.Context(), request.Symbol, *request.Added)
	c.JSON(actionStatus(result), result)
}

// actionStatus maps a write outcome to an HTTP status; the body is always the ActionResult
func actionStatus(result model.ActionResult) int {
	switch {
	case result.Success:
		return http.StatusOK
	case result.Error == service.MsgUnauthorized:
		return http.StatusUnauthorized
	case result.Error == service.MsgInvalidSymbol:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
