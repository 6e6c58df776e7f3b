// Package user persists accounts in the users table.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/imagemodify/imagemodify/internal/auth"
	"github.com/imagemodify/imagemodify/internal/models"
	"github.com/uptrace/bun"
)

var (
	// ErrDuplicateEmail indicates an account with the email already exists.
	ErrDuplicateEmail = errors.New("user already exists")
	// ErrNotFound indicates no account matched the lookup.
	ErrNotFound = errors.New("user not found")
)

type Repository interface {
	InitializeDatabase(ctx context.Context) error
	Create(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*models.User, error)
	GetOrCreateByEmail(ctx context.Context, email string) (*models.User, error)
	RegenerateAPIKey(ctx context.Context, email string) (string, error)
	IncrementUsage(ctx context.Context, email string, edits int) error
}

type UserRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.UserDB)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.UserDB)(nil)).
		Index("idx_users_email").
		Column("email").
		Unique().
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.UserDB)(nil)).
		Index("idx_users_api_key").
		Column("api_key").
		Unique().
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create api_key index: %w", err)
	}

	return nil
}

// uniqueAPIKey generates keys until one does not collide with an existing
// row. Collisions are resolved here and never surfaced to callers.
func (r *UserRepository) uniqueAPIKey(ctx context.Context) (string, error) {
	for {
		key, err := auth.NewAPIKey()
		if err != nil {
			return "", err
		}

		exists, err := r.db.NewSelect().
			Model((*models.UserDB)(nil)).
			Where("api_key = ?", key).
			Exists(ctx)
		if err != nil {
			return "", fmt.Errorf("check api key uniqueness: %w", err)
		}
		if !exists {
			return key, nil
		}
	}
}

func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (*models.User, error) {
	existing, err := r.db.NewSelect().
		Model((*models.UserDB)(nil)).
		Where("email = ?", email).
		Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check email uniqueness: %w", err)
	}
	if existing {
		return nil, ErrDuplicateEmail
	}

	apiKey, err := r.uniqueAPIKey(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userDB := &models.UserDB{
		Email:        email,
		PasswordHash: passwordHash,
		APIKey:       apiKey,
		PlanName:     "Free",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := r.db.NewInsert().Model(userDB).Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return userDB.ToUser(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	userDB := new(models.UserDB)
	err := r.db.NewSelect().
		Model(userDB).
		Where("email = ?", email).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return userDB.ToUser(), nil
}

func (r *UserRepository) GetByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	userDB := new(models.UserDB)
	err := r.db.NewSelect().
		Model(userDB).
		Where("api_key = ?", apiKey).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return userDB.ToUser(), nil
}

// GetOrCreateByEmail provisions an account on first Google sign-in. The
// password is random; such accounts log in through OAuth only.
func (r *UserRepository) GetOrCreateByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	randomSecret, err := auth.NewAPIKey()
	if err != nil {
		return nil, err
	}
	passwordHash, err := auth.HashPassword(randomSecret)
	if err != nil {
		return nil, err
	}

	return r.Create(ctx, email, passwordHash)
}

func (r *UserRepository) RegenerateAPIKey(ctx context.Context, email string) (string, error) {
	newKey, err := r.uniqueAPIKey(ctx)
	if err != nil {
		return "", err
	}

	res, err := r.db.NewUpdate().
		Model((*models.UserDB)(nil)).
		Set("api_key = ?", newKey).
		Set("updated_at = ?", time.Now()).
		Where("email = ?", email).
		Exec(ctx)
	if err != nil {
		return "", fmt.Errorf("update api key: %w", err)
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return "", ErrNotFound
	}

	return newKey, nil
}

func (r *UserRepository) IncrementUsage(ctx context.Context, email string, edits int) error {
	_, err := r.db.NewUpdate().
		Model((*models.UserDB)(nil)).
		Set("monthly_edits = monthly_edits + ?", edits).
		Set("total_edits = total_edits + ?", edits).
		Set("updated_at = ?", time.Now()).
		Where("email = ?", email).
		Exec(ctx)
	return err
}
