package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/config"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/model"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenType = "access"

// AuthService handles sign up, sign in and session tokens
type AuthService struct {
	userRepo *repository.UserRepository
	cfg      config.AuthConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo *repository.UserRepository, cfg config.AuthConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// SignUp creates a new user account and returns a session token
func (s *AuthService) SignUp(ctx context.Context, req *model.SignUpRequest) (*model.TokenResponse, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         req.Name,
		Country:      req.Country,
		PasswordHash: string(hashedPassword),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

// SignIn checks credentials and returns a session token
func (s *AuthService) SignIn(ctx context.Context, req *model.SignInRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Debug("password verification failed", zap.Error(err))
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// ValidateToken parses an access token and returns the session user
func (s *AuthService) ValidateToken(tokenString string) (*model.SessionUser, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	if tokenType, ok := claims["type"].(string); !ok || tokenType != accessTokenType {
		return nil, errors.New("invalid token type")
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return nil, errors.New("invalid user ID in token")
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return &model.SessionUser{ID: userID, Email: email, Name: name}, nil
}

func (s *AuthService) issueToken(user *model.User) (*model.TokenResponse, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.AccessTokenDuration)

	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"name":  user.Name,
		"exp":   expiresAt.Unix(),
		"iat":   now.Unix(),
		"type":  accessTokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("failed to sign access token", zap.Error(err))
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		User: model.SessionUser{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
	}, nil
}
