package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create adds a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := r.db.Rebind(`INSERT INTO users (id, email, name, country, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Country,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create user", zap.Error(err), zap.String("email", user.Email))
		return err
	}

	return nil
}

// GetByID retrieves a user by ID, nil if absent
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := r.db.Rebind(`SELECT id, email, name, country, password_hash, created_at FROM users WHERE id = ?`)

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get user by ID", zap.Error(err), zap.String("id", id))
		return nil, err
	}

	return &user, nil
}

// GetByEmail retrieves a user by email, nil if absent
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := r.db.Rebind(`SELECT id, email, name, country, password_hash, created_at FROM users WHERE email = ?`)

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get user by email", zap.Error(err), zap.String("email", email))
		return nil, err
	}

	return &user, nil
}

// ListForNewsEmail lists users that have both an email and a name
func (r *UserRepository) ListForNewsEmail(ctx context.Context) ([]model.UserForNewsEmail, error) {
	query := `SELECT id, email, name, country FROM users
		WHERE email <> '' AND name <> ''
		ORDER BY created_at, id`

	users := []model.UserForNewsEmail{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		r.logger.Error("failed to list users for news email", zap.Error(err))
		return nil, err
	}

	return users, nil
}
