package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreateOrReplace_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+refresh_tokens\b.*ON\s+CONFLICT\s*\(user_id\)\s+DO\s+UPDATE\b.*RETURNING\b`

	expires := time.Now().Add(time.Hour)
	created := time.Now()
	rows := sqlmock.NewRows([]string{"token", "user_id", "expires_at", "created_at"}).
		AddRow("tok123", int64(7), expires, created)

	mock.ExpectQuery(q).
		WithArgs("tok123", int64(7), sqlmock.AnyArg()). // expires_at = time.Now().Add(validity)
		WillReturnRows(rows)

	got, err := repo.CreateOrReplace(context.Background(), 7, "tok123", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Token != "tok123" || got.UserID != 7 || !got.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected row: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateOrReplace_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+refresh_tokens\b`

	mock.ExpectQuery(q).
		WithArgs("tok123", int64(7), sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	_, err := repo.CreateOrReplace(context.Background(), 7, "tok123", time.Hour)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByToken_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+token,\s*user_id,\s*expires_at,\s*created_at\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1`

	expires := time.Now().Add(10 * time.Minute)
	rows := sqlmock.NewRows([]string{"token", "user_id", "expires_at", "created_at"}).
		AddRow("tok123", int64(7), expires, time.Now())

	mock.ExpectQuery(q).
		WithArgs("tok123").
		WillReturnRows(rows)

	got, err := repo.FindByToken(context.Background(), "tok123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != 7 || !got.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestFindByToken_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+token,\s*user_id,\s*expires_at,\s*created_at\s+FROM\s+refresh_tokens\b`

	mock.ExpectQuery(q).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByToken(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDeleteByUserID_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+user_id\s*=\s*\$1`

	mock.ExpectExec(q).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteByUserID(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteByUserID_NoTokenIsNotAnError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+user_id\s*=\s*\$1`

	mock.ExpectExec(q).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteByUserID(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteByUserID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*DELETE\s+FROM\s+refresh_tokens\b`

	mock.ExpectExec(q).
		WithArgs(int64(7)).
		WillReturnError(errors.New("db err"))

	err := repo.DeleteByUserID(context.Background(), 7)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
