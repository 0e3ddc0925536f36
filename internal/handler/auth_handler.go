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

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// SignUp handles account creation
// POST /api/v1/auth/sign-up
func (h *AuthHandler) SignUp(c *gin.Context) {
	var request model.SignUpRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	response, err := h.authService.SignUp(c.Request.Context(), &request)
	if err != nil {
		if errors.Is(err, service.ErrEmailInUse) {
			utils.SendErrorResponse(c, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("sign up failed", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// SignIn handles sign in
// POST /api/v1/auth/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var request model.SignInRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	response, err := h.authService.SignIn(c.Request.Context(), &request)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			utils.SendErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("sign in failed", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	c.JSON(http.StatusOK, response)
}

// Me returns the signed-in user
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, service.CurrentUser(c.Request.Context()))
}
