// Package repository holds the persistence adapters behind the user and
// refresh-token stores. MongoDB is the production adapter for users; refresh
// tokens can also live in Redis. The in-memory adapters back tests and local
// runs without a database.
package repository

import (
	"context"
	"time"

	"github.com/AnshRaj112/crypto-dca-backend/internal/models"
)

// UserUpdate carries the profile fields to overwrite. Nil fields are left
// untouched.
type UserUpdate struct {
	Firstname *string
	Lastname  *string
	Email     *string
	Settings  *map[string]interface{}
	UpdatedAt time.Time
}

// UserStore persists users and their embedded transactions. Missing users are
// reported as apperrors.ErrUserNotFound, email collisions as
// apperrors.ErrDuplicateEmail.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, userID string, update UserUpdate) (*models.User, error)
	SetWatchPairs(ctx context.Context, userID string, pairs []string) error

	// PushTransaction appends tx in a single atomic update.
	PushTransaction(ctx context.Context, userID string, tx models.Transaction) error
	// ReplaceTransaction overwrites the element whose id equals tx.ID and
	// returns the updated user. Fails with apperrors.ErrTransactionNotFound
	// when no element matches.
	ReplaceTransaction(ctx context.Context, userID string, tx models.Transaction) (*models.User, error)
	// PullTransaction removes every element with the given id. Removing an
	// id that is not present is not an error.
	PullTransaction(ctx context.Context, userID, transactionID string) error
}

// RefreshTokenRetention is how long a refresh token record outlives the
// token's own expiry. While the record exists, presenting the token is
// reported as expired rather than unknown.
const RefreshTokenRetention = 24 * time.Hour

// RefreshTokenStore tracks issued refresh tokens so they can be revoked.
// Records are purged RefreshTokenRetention after the token expires.
type RefreshTokenStore interface {
	Save(ctx context.Context, token models.RefreshToken) error
	Exists(ctx context.Context, token string) (bool, error)
	// Delete removes the token and reports whether it was present.
	Delete(ctx context.Context, token string) (bool, error)
}
