package handler

import (
	"errors"
	"net/http"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/service"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StockHandler serves stock search and detailed stock data
type StockHandler struct {
	stockService     *service.StockService
	searchService    *service.SearchService
	watchlistService *service.WatchlistService
	logger           *zap.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(
	stockService *service.StockService,
	searchService *service.SearchService,
	watchlistService *service.WatchlistService,
	logger *zap.Logger,
) *StockHandler {
	return &StockHandler{
		stockService:     stockService,
		searchService:    searchService,
		watchlistService: watchlistService,
		logger:           logger,
	}
}

// Search returns matching stocks, flagged against the signed-in user's watchlist
// GET /api/v1/stocks/search?q=
func (h *StockHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	results := h.searchService.SearchStocks(ctx, c.Query("q"))

	if email := service.CurrentUserEmail(ctx); email != "" {
		results = service.MarkWatchlisted(results, h.watchlistService.GetWatchlistSymbolsByEmail(ctx, email))
	}

	c.JSON(http.StatusOK, gin.H{"data": results})
}

// GetStock returns detailed data for one symbol
// GET /api/v1/stocks/:symbol
func (h *StockHandler) GetStock(c *gin.Context) {
	data, err := h.stockService.GetDetailedStockData(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

// GetStocks returns detailed data for a comma separated symbol list
// GET /api/v1/stocks?symbols=AAPL,MSFT
func (h *StockHandler) GetStocks(c *gin.Context) {
	symbols := utils.SplitSymbols(c.Query("symbols"))
	if len(symbols) == 0 {
		utils.SendErrorResponse(c, http.StatusBadRequest, "symbols query parameter is required")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": h.stockService.GetDetailedStockDatas(c.Request.Context(), symbols)})
}

func (h *StockHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrMissingAPIKey) {
		h.logger.Error("market data is not configured", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusServiceUnavailable, "Market data is not configured")
		return
	}
	h.logger.Error("failed to get stock data", zap.Error(err))
	utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to get stock data")
}
