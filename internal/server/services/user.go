// Package services contains server-side business logic. This file implements
// UserService, which handles registration, sign-in with JWT minting, password
// reset, and account deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/dmitrijs2005/passvault/internal/server/config"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/repomanager"
)

// AuthResult bundles the minted bearer token with the public profile of the
// signed-in user.
type AuthResult struct {
	Token string
	User  *models.User
}

// UserService provides authentication-related operations:
// - SignUp: create users
// - SignIn: verify credentials and mint a bearer token
// - ResetPassword: replace the caller's credential hash
// - DeleteAccount: remove the caller and every owned entry
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// SignUp validates the registration fields, hashes the password, and creates
// the user. A taken email or username surfaces as common.ErrorConflict from
// the repository. The returned user carries the hash; callers must not
// serialize it.
func (s *UserService) SignUp(ctx context.Context, email, username, password string) (*models.User, error) {
	if err := validateSignUp(email, username, password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{Email: email, Username: username, PasswordHash: hash}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %v", err)
	}
	return u, nil
}

// SignIn resolves identifier against email or username in a single lookup,
// verifies the password, and mints a bearer token. An unknown identifier and
// a wrong password are indistinguishable to the caller: both return
// common.ErrorUnauthorized.
func (s *UserService) SignIn(ctx context.Context, identifier, password string) (*AuthResult, error) {
	if identifier == "" || password == "" {
		return nil, fmt.Errorf("%w: identifier and password are required", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Username, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &AuthResult{Token: token, User: user}, nil
}

// ResetPassword replaces the caller's credential hash. Previously minted
// tokens stay valid until they expire; only the stored hash changes.
func (s *UserService) ResetPassword(ctx context.Context, userID int64, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error updating password: %v", err)
	}
	return nil
}

// DeleteAccount removes every entry owned by the caller and then the user
// row, inside a single transaction. Irreversible.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Entries(tx).DeleteAllForUser(ctx, userID); err != nil {
			return fmt.Errorf("error deleting entries: %v", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, userID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return err
			}
			return fmt.Errorf("error deleting user: %v", err)
		}
		return nil
	})
}

// EnsureDemoUser provisions the demo account through the normal SignUp path.
// An already-existing account is not an error.
func (s *UserService) EnsureDemoUser(ctx context.Context, email, username, password string) error {
	_, err := s.SignUp(ctx, email, username, password)
	if errors.Is(err, common.ErrorConflict) {
		return nil
	}
	return err
}

// --- helpers below ---

// validateSignUp requires the three fields to be non-empty; no format policy
// beyond that is enforced.
func validateSignUp(email, username, password string) error {
	if email == "" || username == "" || password == "" {
		return fmt.Errorf("%w: email, username and password are required", common.ErrorValidation)
	}
	return validatePassword(password)
}

func validatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	return nil
}
