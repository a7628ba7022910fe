// Package users provides persistence for vault accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// Repository is the storage contract for user accounts.
//
// Create returns common.ErrorConflict when email or username is already
// taken; GetByIdentifier returns common.ErrorNotFound when no user matches;
// UpdatePassword and Delete return common.ErrorNotFound when the user row
// is gone.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	Delete(ctx context.Context, userID int64) error
}
