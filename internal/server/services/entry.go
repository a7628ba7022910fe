package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/cryptox"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/repomanager"
)

// EntryService implements the password-entry lifecycle. Every operation takes
// the caller's userID resolved from the verified token; plaintext secrets
// exist only transiently between the cipher and the response.
type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      *cryptox.Cipher
}

// NewEntryService constructs an EntryService bound to the process cipher.
func NewEntryService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.Cipher) *EntryService {
	return &EntryService{
		db:          db,
		repomanager: m,
		cipher:      cipher,
	}
}

// Create encrypts the password and stores a new entry for the caller.
// Category and tags are optional.
func (s *EntryService) Create(ctx context.Context, userID int64, website, accountUsername, password, category, tags string) (*models.PasswordEntry, error) {
	if website == "" || accountUsername == "" || password == "" {
		return nil, fmt.Errorf("%w: website, username and password are required", common.ErrorValidation)
	}

	ciphertext, err := s.cipher.EncryptString(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	entry := &models.PasswordEntry{
		UserID:            userID,
		Website:           website,
		AccountUsername:   accountUsername,
		EncryptedPassword: ciphertext,
		Category:          category,
		Tags:              tags,
	}

	repo := s.repomanager.Entries(s.db)
	e, err := repo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("error creating entry: %v", err)
	}
	return e, nil
}

// List returns the caller's entries ordered by (website, accountUsername).
// The ciphertext stays opaque; nothing is decrypted in bulk.
func (s *EntryService) List(ctx context.Context, userID int64) ([]*models.PasswordEntry, error) {
	repo := s.repomanager.Entries(s.db)
	result, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %v", err)
	}
	return result, nil
}

// GetDecrypted looks up the caller's entry by (website, accountUsername) and
// returns the decrypted secret. A row owned by another user is reported as
// absent. Cipher failures are a data-integrity fault, not a user error.
func (s *EntryService) GetDecrypted(ctx context.Context, userID int64, website, accountUsername string) (string, error) {
	if website == "" || accountUsername == "" {
		return "", fmt.Errorf("%w: website and username are required", common.ErrorValidation)
	}

	repo := s.repomanager.Entries(s.db)
	entry, err := repo.GetByName(ctx, userID, website, accountUsername)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", err
		}
		return "", fmt.Errorf("error getting entry: %v", err)
	}

	plaintext, err := s.cipher.DecryptString(entry.EncryptedPassword)
	if err != nil {
		return "", err
	}
	return plaintext, nil
}

// UpdatePassword re-encrypts and overwrites the secret of the caller's entry.
func (s *EntryService) UpdatePassword(ctx context.Context, entryID, userID int64, newPassword string) (*models.PasswordEntry, error) {
	if newPassword == "" {
		return nil, fmt.Errorf("%w: password is required", common.ErrorValidation)
	}

	ciphertext, err := s.cipher.EncryptString(newPassword)
	if err != nil {
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Entries(s.db)
	entry, err := repo.UpdatePassword(ctx, entryID, userID, ciphertext)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating entry: %v", err)
	}
	return entry, nil
}

// Delete removes the caller's entry. A second delete of the same id returns
// common.ErrorNotFound, same as an id that never existed.
func (s *EntryService) Delete(ctx context.Context, entryID, userID int64) error {
	repo := s.repomanager.Entries(s.db)
	if err := repo.Delete(ctx, entryID, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting entry: %v", err)
	}
	return nil
}
