package tasks

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func taskRow(id int64, comments, attachments string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "status", "priority",
		"author_id", "assignee_id", "comments", "attachments", "created_at", "updated_at"}).
		AddRow(id, "write report", "yearly numbers", "PENDING", "HIGH",
			int64(1), int64(2), comments, attachments, time.Now(), time.Now())
}

func TestCreate_AssignsID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+tasks\b.*RETURNING\s+id,\s*created_at,\s*updated_at`

	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
		AddRow(int64(5), time.Now(), time.Now())

	mock.ExpectQuery(q).
		WithArgs("write report", "yearly numbers", "PENDING", "HIGH", int64(1), int64(2)).
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), &models.Task{
		Title:       "write report",
		Description: "yearly numbers",
		Status:      models.TaskStatusPending,
		Priority:    models.PriorityHigh,
		AuthorID:    1,
		AssigneeID:  2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 5 {
		t.Fatalf("id not assigned: %+v", got)
	}
}

func TestGetByID_DecodesArrays(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*title\b.*FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1`

	mock.ExpectQuery(q).
		WithArgs(int64(5)).
		WillReturnRows(taskRow(5, `["first","second"]`, `["tasks/5/a","tasks/5/b"]`))

	got, err := repo.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Comments) != 2 || got.Comments[1] != "second" {
		t.Fatalf("comments not decoded: %v", got.Comments)
	}
	if len(got.Attachments) != 2 || got.Attachments[0] != "tasks/5/a" {
		t.Fatalf("attachments not decoded: %v", got.Attachments)
	}
}

func TestGetByID_CommentKeepsNewlines(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\b.*FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1`

	// one stored comment whose body spans two lines
	mock.ExpectQuery(q).
		WithArgs(int64(5)).
		WillReturnRows(taskRow(5, `["line1\nline2"]`, `[]`))

	got, err := repo.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Comments) != 1 {
		t.Fatalf("one stored comment came back as %d: %q", len(got.Comments), got.Comments)
	}
	if got.Comments[0] != "line1\nline2" {
		t.Fatalf("comment body altered: %q", got.Comments[0])
	}
}

func TestGetByID_EmptyArrays(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\b.*FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1`

	mock.ExpectQuery(q).
		WithArgs(int64(5)).
		WillReturnRows(taskRow(5, `[]`, `[]`))

	got, err := repo.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Comments != nil || got.Attachments != nil {
		t.Fatalf("empty columns must scan to nil slices: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\b.*FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1`

	mock.ExpectQuery(q).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFilter_PassesPaging(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\b.*FROM\s+tasks\s+WHERE\b.*LIMIT\s+\$3\s+OFFSET\s+\$4`

	authorID := int64(1)
	mock.ExpectQuery(q).
		WithArgs(authorID, nil, 10, 20). // page 2 of size 10
		WillReturnRows(taskRow(5, `[]`, `[]`))

	got, err := repo.Filter(context.Background(), models.TaskFilter{
		AuthorID:   &authorID,
		PageSize:   10,
		PageNumber: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 5 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+tasks\s+SET\s+title\b.*RETURNING\s+updated_at`

	mock.ExpectQuery(q).
		WithArgs(int64(404), "t", "", "PENDING", "LOW", int64(1), int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), &models.Task{
		ID: 404, Title: "t", Status: models.TaskStatusPending, Priority: models.PriorityLow,
		AuthorID: 1, AssigneeID: 2,
	})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestAddComment_Appends(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+tasks\s+SET\s+comments\s*=\s*array_append\(comments,\s*\$2\)`

	mock.ExpectExec(q).
		WithArgs(int64(5), "looks good").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.AddComment(context.Background(), 5, "looks good"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetStatus_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+tasks\s+SET\s+status\s*=\s*\$2`

	mock.ExpectExec(q).
		WithArgs(int64(404), "COMPLETED").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetStatus(context.Background(), 404, models.TaskStatusCompleted)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Flows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1`

	mock.ExpectExec(q).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec(q).
		WithArgs(int64(5)).
		WillReturnError(errors.New("db err"))
	err := repo.Delete(context.Background(), 5)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
