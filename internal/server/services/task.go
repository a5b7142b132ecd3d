package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
)

const (
	defaultPageSize   = 10
	defaultPageNumber = 0
)

// TaskService implements task CRUD, filtering, comments, and status changes.
// Role gating happens in the HTTP layer; this service assumes the caller is
// already authorized.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewTaskService constructs a TaskService using repositories.
func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// FindAll returns all tasks.
func (s *TaskService) FindAll(ctx context.Context) ([]*models.Task, error) {
	return s.repomanager.Tasks(s.db).List(ctx)
}

// FindByID returns a single task or common.ErrorNotFound.
func (s *TaskService) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	return s.repomanager.Tasks(s.db).GetByID(ctx, id)
}

// FilterBy returns tasks narrowed by author/assignee with paging defaults
// applied (page size 10, page number 0).
func (s *TaskService) FilterBy(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageNumber < 0 {
		filter.PageNumber = defaultPageNumber
	}
	return s.repomanager.Tasks(s.db).Filter(ctx, filter)
}

// Create validates the referenced users and persists the task.
func (s *TaskService) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.validateRefs(ctx, tx, task); err != nil {
			return err
		}
		created, err := s.repomanager.Tasks(tx).Create(ctx, task)
		if err != nil {
			return err
		}
		task = created
		return nil
	}); err != nil {
		return nil, err
	}
	return task, nil
}

// Update validates the referenced users and overwrites an existing task.
func (s *TaskService) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.validateRefs(ctx, tx, task); err != nil {
			return err
		}
		updated, err := s.repomanager.Tasks(tx).Update(ctx, task)
		if err != nil {
			return err
		}
		task = updated
		return nil
	}); err != nil {
		return nil, err
	}
	return task, nil
}

// AddComment appends a comment and returns the updated task.
func (s *TaskService) AddComment(ctx context.Context, id int64, comment string) (*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)
	if err := repo.AddComment(ctx, id, comment); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, id)
}

// ChangeStatus parses and applies a new workflow status, returning the
// updated task. An unknown status value is a validation error.
func (s *TaskService) ChangeStatus(ctx context.Context, id int64, status string) (*models.Task, error) {
	parsed, err := models.ParseTaskStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	repo := s.repomanager.Tasks(s.db)
	if err := repo.SetStatus(ctx, id, parsed); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, id)
}

// Delete removes a task by id.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.Tasks(s.db).Delete(ctx, id)
}

// validateRefs checks that the task's author and assignee exist; a missing
// reference is a validation error, not a not-found, because the ids came
// from the request body.
func (s *TaskService) validateRefs(ctx context.Context, tx dbx.DBTX, task *models.Task) error {
	repo := s.repomanager.Users(tx)
	if _, err := repo.GetByID(ctx, task.AuthorID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: author %d does not exist", common.ErrorValidation, task.AuthorID)
		}
		return err
	}
	if _, err := repo.GetByID(ctx, task.AssigneeID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: assignee %d does not exist", common.ErrorValidation, task.AssigneeID)
		}
		return err
	}
	return nil
}
