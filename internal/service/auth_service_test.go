package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/config"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/model"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/repository"

	"go.uber.org/zap"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenDuration: time.Hour}
	return NewAuthService(repository.NewUserRepository(db, zap.NewNop()), cfg, zap.NewNop())
}

func TestSignUp_IssuesValidToken(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.SignUp(context.Background(), &model.SignUpRequest{
		Name: "Ada", Email: "Ada@Example.com", Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if resp.User.Email != "ada@example.com" {
		t.Errorf("expected normalized email, got %q", resp.User.Email)
	}

	user, err := svc.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if user.ID != resp.User.ID || user.Email != "ada@example.com" || user.Name != "Ada" {
		t.Errorf("unexpected session user: %+v", user)
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)
	req := &model.SignUpRequest{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"}

	if _, err := svc.SignUp(context.Background(), req); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	if _, err := svc.SignUp(context.Background(), req); !errors.Is(err, ErrEmailInUse) {
		t.Errorf("expected ErrEmailInUse, got %v", err)
	}
}

func TestSignIn(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, &model.SignUpRequest{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if _, err := svc.SignIn(ctx, &model.SignInRequest{Email: "ada@example.com", Password: "correct-horse"}); err != nil {
		t.Errorf("expected sign in to succeed, got %v", err)
	}
	if _, err := svc.SignIn(ctx, &model.SignInRequest{Email: "ada@example.com", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.SignIn(ctx, &model.SignInRequest{Email: "nobody@example.com", Password: "correct-horse"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := newTestAuthService(t)
	resp, err := svc.SignUp(context.Background(), &model.SignUpRequest{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	other := &AuthService{cfg: config.AuthConfig{JWTSecret: "other-secret"}, logger: zap.NewNop(), now: time.Now}
	if _, err := other.ValidateToken(resp.AccessToken); err == nil {
		t.Error("expected token signed with another secret to be rejected")
	}

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := svc.issueToken(&model.User{ID: "u1", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.ValidateToken(expired.AccessToken); err == nil {
		t.Error("expected expired token to be rejected")
	}

	if _, err := svc.ValidateToken("not-a-token"); err == nil {
		t.Error("expected garbage token to be rejected")
	}
}
