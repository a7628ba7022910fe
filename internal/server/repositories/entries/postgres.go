package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an entry for its owner and fills in the generated id and
// timestamps.
func (r *PostgresRepository) Create(ctx context.Context, entry *models.PasswordEntry) (*models.PasswordEntry, error) {
	query :=
		`INSERT INTO password_entries (user_id, website, account_username, encrypted_password, category, tags)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.Website, entry.AccountUsername, entry.EncryptedPassword, entry.Category, entry.Tags).
		Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

// ListByUser returns all entries owned by userID ordered by
// (website asc, account_username asc). Ciphertext is returned opaque.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.PasswordEntry, error) {
	query :=
		`SELECT id, user_id, website, account_username, encrypted_password, category, tags, created_at, updated_at
		 FROM password_entries
		 WHERE user_id = $1
		 ORDER BY website ASC, account_username ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.PasswordEntry
	for rows.Next() {
		var item models.PasswordEntry
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Website, &item.AccountUsername,
			&item.EncryptedPassword, &item.Category, &item.Tags,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByName finds the caller's entry for (website, accountUsername).
func (r *PostgresRepository) GetByName(ctx context.Context, userID int64, website, accountUsername string) (*models.PasswordEntry, error) {
	query :=
		`SELECT id, user_id, website, account_username, encrypted_password, category, tags, created_at, updated_at
		 FROM password_entries
		 WHERE user_id = $1 AND website = $2 AND account_username = $3
		 LIMIT 1
		 `

	entry := &models.PasswordEntry{}
	err := r.db.QueryRowContext(ctx, query, userID, website, accountUsername).Scan(
		&entry.ID, &entry.UserID, &entry.Website, &entry.AccountUsername,
		&entry.EncryptedPassword, &entry.Category, &entry.Tags,
		&entry.CreatedAt, &entry.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

// UpdatePassword overwrites the ciphertext of the caller's entry and bumps
// updated_at. A row owned by another user is indistinguishable from an
// absent one.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, entryID, userID int64, encryptedPassword string) (*models.PasswordEntry, error) {
	query :=
		`UPDATE password_entries
		 SET encrypted_password = $3, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, website, account_username, encrypted_password, category, tags, created_at, updated_at
		 `

	entry := &models.PasswordEntry{}
	err := r.db.QueryRowContext(ctx, query, entryID, userID, encryptedPassword).Scan(
		&entry.ID, &entry.UserID, &entry.Website, &entry.AccountUsername,
		&entry.EncryptedPassword, &entry.Category, &entry.Tags,
		&entry.CreatedAt, &entry.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

// Delete removes the caller's entry. Deleting an id that is absent or not
// owned returns common.ErrorNotFound, so repeated deletes are harmless.
func (r *PostgresRepository) Delete(ctx context.Context, entryID, userID int64) error {
	query := `DELETE FROM password_entries WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, entryID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// DeleteAllForUser removes every entry owned by userID. Used by account
// deletion before the user row goes away.
func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM password_entries WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
