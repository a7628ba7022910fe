// Package entries provides persistence for password entries. Every query is
// scoped by the owner's user id; an entry is never addressable by its id
// alone.
package entries

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// Repository is the storage contract for password entries. Lookups that
// match no row owned by the given user return common.ErrorNotFound, whether
// the row is absent or belongs to someone else.
type Repository interface {
	Create(ctx context.Context, entry *models.PasswordEntry) (*models.PasswordEntry, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.PasswordEntry, error)
	GetByName(ctx context.Context, userID int64, website, accountUsername string) (*models.PasswordEntry, error)
	UpdatePassword(ctx context.Context, entryID, userID int64, encryptedPassword string) (*models.PasswordEntry, error)
	Delete(ctx context.Context, entryID, userID int64) error
	DeleteAllForUser(ctx context.Context, userID int64) error
}
