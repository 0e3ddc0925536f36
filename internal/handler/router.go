package handler

import (
	"net/http"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/middleware"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services groups what the HTTP layer depends on
type Services struct {
	Auth      *service.AuthService
	Stocks    *service.StockService
	Search    *service.SearchService
	News      *service.NewsService
	Watchlist *service.WatchlistService
}

// SetupRouter wires middleware and routes
func SetupRouter(svc Services, memoEntries int, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RequestScope(memoEntries))
	router.Use(middleware.Session(svc.Auth, logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := router.Group("/api/v1")
	{
		// ==================== AUTH ROUTES ====================
		auth := v1.Group("/auth")
		{
			authHandler := NewAuthHandler(svc.Auth, logger)

			auth.POST("/sign-up", authHandler.SignUp)
			auth.POST("/sign-in", authHandler.SignIn)
			auth.GET("/me", middleware.RequireAuth(), authHandler.Me)
		}

		// ==================== STOCK ROUTES ====================
		stocks := v1.Group("/stocks")
		{
			stockHandler := NewStockHandler(svc.Stocks, svc.Search, svc.Watchlist, logger)

			stocks.GET("", stockHandler.GetStocks)
			stocks.GET("/search", stockHandler.Search)
			stocks.GET("/:symbol", stockHandler.GetStock)
		}

		// ==================== NEWS ROUTES ====================
		newsHandler := NewNewsHandler(svc.News, logger)
		v1.GET("/news", newsHandler.GetNews)

		// ==================== WATCHLIST ROUTES ====================
		// Writes report Unauthorized through ActionResult rather than RequireAuth
		watchlist := v1.Group("/watchlist")
		{
			watchlistHandler := NewWatchlistHandler(svc.Watchlist, logger)

			watchlist.GET("", watchlistHandler.GetWatchlist)
			watchlist.POST("", watchlistHandler.Add)
			watchlist.POST("/toggle", watchlistHandler.Toggle)
			watchlist.DELETE("/:symbol", watchlistHandler.Remove)
		}
	}

	return router
}
