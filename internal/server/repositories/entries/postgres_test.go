package entries

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

var entryColumns = []string{
	"id", "user_id", "website", "account_username",
	"encrypted_password", "category", "tags", "created_at", "updated_at",
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+password_entries\s*\(user_id,\s*website,\s*account_username,\s*encrypted_password,\s*category,\s*tags\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now)
	mock.ExpectQuery(q).
		WithArgs(int64(1), "example.com", "alice", "ciphertext", "work", "").
		WillReturnRows(rows)

	e := &models.PasswordEntry{
		UserID: 1, Website: "example.com", AccountUsername: "alice",
		EncryptedPassword: "ciphertext", Category: "work",
	}
	got, err := repo.Create(context.Background(), e)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 7 || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+password_entries`

	mock.ExpectQuery(q).
		WithArgs(int64(1), "example.com", "alice", "ciphertext", "", "").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.PasswordEntry{
		UserID: 1, Website: "example.com", AccountUsername: "alice", EncryptedPassword: "ciphertext",
	})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestListByUser_ReturnsOwnedRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+password_entries\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+website\s+ASC,\s*account_username\s+ASC\s*$`

	now := time.Now()
	rows := sqlmock.NewRows(entryColumns).
		AddRow(int64(1), int64(5), "a.com", "alice", "ct1", "", "", now, now).
		AddRow(int64(2), int64(5), "b.com", "bob", "ct2", "mail", "x,y", now, now)
	mock.ExpectQuery(q).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(got) != 2 || got[0].Website != "a.com" || got[1].Tags != "x,y" {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestListByUser_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+password_entries\s+WHERE\s+user_id\s*=\s*\$1`

	mock.ExpectQuery(q).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(entryColumns))

	got, err := repo.ListByUser(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no entries, got %+v", got)
	}
}

func TestGetByName_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+password_entries\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+website\s*=\s*\$2\s+AND\s+account_username\s*=\s*\$3\s+LIMIT\s+1\s*$`

	now := time.Now()
	rows := sqlmock.NewRows(entryColumns).
		AddRow(int64(3), int64(5), "example.com", "alice", "ct", "", "", now, now)
	mock.ExpectQuery(q).
		WithArgs(int64(5), "example.com", "alice").
		WillReturnRows(rows)

	got, err := repo.GetByName(context.Background(), 5, "example.com", "alice")
	if err != nil {
		t.Fatalf("GetByName error: %v", err)
	}
	if got.ID != 3 || got.EncryptedPassword != "ct" {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestGetByName_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+password_entries\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+website\s*=\s*\$2`

	mock.ExpectQuery(q).
		WithArgs(int64(5), "nowhere.com", "ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByName(context.Background(), 5, "nowhere.com", "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdatePassword_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+password_entries\s+SET\s+encrypted_password\s*=\s*\$3,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s+RETURNING\s+`

	now := time.Now()
	rows := sqlmock.NewRows(entryColumns).
		AddRow(int64(3), int64(5), "example.com", "alice", "newct", "", "", now, now)
	mock.ExpectQuery(q).
		WithArgs(int64(3), int64(5), "newct").
		WillReturnRows(rows)

	got, err := repo.UpdatePassword(context.Background(), 3, 5, "newct")
	if err != nil {
		t.Fatalf("UpdatePassword error: %v", err)
	}
	if got.EncryptedPassword != "newct" {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestUpdatePassword_OtherOwnerLooksAbsent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+password_entries\s+SET\s+encrypted_password\s*=\s*\$3`

	mock.ExpectQuery(q).
		WithArgs(int64(3), int64(999), "newct").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdatePassword(context.Background(), 3, 999, "newct")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+password_entries\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`

	mock.ExpectExec(q).
		WithArgs(int64(3), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 3, 5); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+password_entries\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`

	mock.ExpectExec(q).
		WithArgs(int64(3), int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 3, 999)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDeleteAllForUser_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+password_entries\s+WHERE\s+user_id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.DeleteAllForUser(context.Background(), 5); err != nil {
		t.Fatalf("DeleteAllForUser error: %v", err)
	}
}
