package middleware

import (
	"net/http"
	"strings"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/model"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/service"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenValidator resolves a bearer token to a session user
type TokenValidator interface {
	ValidateToken(token string) (*model.SessionUser, error)
}

// Session attaches the user for a valid bearer token to the request
// context. Requests without a valid token continue signed out.
func Session(validator TokenValidator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		user, err := validator.ValidateToken(token)
		if err != nil {
			logger.Debug("token validation failed", zap.Error(err))
			c.Next()
			return
		}

		c.Set("userID", user.ID)
		c.Request = c.Request.WithContext(service.WithUser(c.Request.Context(), user))
		c.Next()
	}
}

// RequireAuth aborts with 401 unless Session attached a user
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if service.CurrentUser(c.Request.Context()) == nil {
			utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
