package handler

import (
	"errors"
	"net/http"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/service"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewsHandler serves aggregated market news
type NewsHandler struct {
	newsService *service.NewsService
	logger      *zap.Logger
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(newsService *service.NewsService, logger *zap.Logger) *NewsHandler {
	return &NewsHandler{
		newsService: newsService,
		logger:      logger,
	}
}

// GetNews returns news for the given symbols, or general news without any
// GET /api/v1/news?symbols=AAPL,MSFT
func (h *NewsHandler) GetNews(c *gin.Context) {
	articles, err := h.newsService.GetNews(c.Request.Context(), utils.SplitSymbols(c.Query("symbols")))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingAPIKey):
			h.logger.Error("market data is not configured", zap.Error(err))
			utils.SendErrorResponse(c, http.StatusServiceUnavailable, "Market data is not configured")
		case errors.Is(err, service.ErrNewsUnavailable):
			utils.SendErrorResponse(c, http.StatusBadGateway, "Failed to fetch news")
		default:
			h.logger.Error("failed to get news", zap.Error(err))
			utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to fetch news")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": articles})
}
