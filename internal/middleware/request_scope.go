package middleware

import (
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/cache"

	"github.com/gin-gonic/gin"
)

// RequestScope gives each request its own bounded memo, discarded when the
// request ends
func RequestScope(memoEntries int) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := cache.WithMemo(c.Request.Context(), cache.NewMemo(memoEntries))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
