package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Comments and attachments are text[] columns. They cross the driver
// boundary as JSON so element values survive intact regardless of content;
// a delimiter join would corrupt a comment containing the delimiter.
const taskColumns = `id, title, description, status, priority, author_id, assignee_id,
		to_json(comments)::text, to_json(attachments)::text, created_at, updated_at`

// PostgresRepository implements the task store over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `
		INSERT INTO tasks (title, description, status, priority, author_id, assignee_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, string(task.Status), string(task.Priority),
		task.AuthorID, task.AssigneeID,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *PostgresRepository) Filter(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE ($1::bigint IS NULL OR author_id = $1)
		  AND ($2::bigint IS NULL OR assignee_id = $2)
		ORDER BY id
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.QueryContext(ctx, query,
		filter.AuthorID, filter.AssigneeID,
		filter.PageSize, filter.PageNumber*filter.PageSize)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, priority = $5,
		    author_id = $6, assignee_id = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.Title, task.Description, string(task.Status), string(task.Priority),
		task.AuthorID, task.AssigneeID,
	).Scan(&task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) AddComment(ctx context.Context, id int64, comment string) error {
	query := `
		UPDATE tasks
		SET comments = array_append(comments, $2), updated_at = now()
		WHERE id = $1
	`
	return r.exec(ctx, query, id, comment)
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id int64, status models.TaskStatus) error {
	query := `
		UPDATE tasks
		SET status = $2, updated_at = now()
		WHERE id = $1
	`
	return r.exec(ctx, query, id, string(status))
}

func (r *PostgresRepository) AddAttachment(ctx context.Context, id int64, key string) error {
	query := `
		UPDATE tasks
		SET attachments = array_append(attachments, $2), updated_at = now()
		WHERE id = $1
	`
	return r.exec(ctx, query, id, key)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM tasks WHERE id = $1`
	return r.exec(ctx, query, id)
}

// exec runs a statement expected to touch exactly one task and maps a
// zero-row result to common.ErrorNotFound.
func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var comments, attachments string

	err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Status, &task.Priority,
		&task.AuthorID, &task.AssigneeID, &comments, &attachments, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if task.Comments, err = decodeList(comments); err != nil {
		return nil, fmt.Errorf("corrupt comments column for task %d: %w", task.ID, err)
	}
	if task.Attachments, err = decodeList(attachments); err != nil {
		return nil, fmt.Errorf("corrupt attachments column for task %d: %w", task.ID, err)
	}
	return task, nil
}

func scanTasks(rows *sql.Rows) ([]*models.Task, error) {
	var result []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func decodeList(s string) ([]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}
