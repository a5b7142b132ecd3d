// Package tasks declares the server-side repository contract for task
// records.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository defines persistence operations for tasks.
type Repository interface {
	// Create persists a new task and returns it with the assigned id.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)

	// GetByID returns the task or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Task, error)

	// List returns all tasks ordered by id.
	List(ctx context.Context) ([]*models.Task, error)

	// Filter returns tasks narrowed by the filter's author/assignee, paged
	// by its page size and number.
	Filter(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error)

	// Update overwrites the mutable fields of an existing task.
	// Returns common.ErrorNotFound when the task is absent.
	Update(ctx context.Context, task *models.Task) (*models.Task, error)

	// AddComment appends a comment to the task's comment list.
	AddComment(ctx context.Context, id int64, comment string) error

	// SetStatus changes the task's workflow status.
	SetStatus(ctx context.Context, id int64, status models.TaskStatus) error

	// AddAttachment records an object-storage key on the task.
	AddAttachment(ctx context.Context, id int64, key string) error

	// Delete removes the task. Returns common.ErrorNotFound when absent.
	Delete(ctx context.Context, id int64) error
}
