// Package users declares the server-side repository contract for the
// credential store.
package users

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository defines persistence operations for user records.
type Repository interface {
	// Create persists a new user and returns it with the assigned id.
	// A duplicate email or username yields common.ErrorAlreadyExists:
	// uniqueness is enforced by the store itself, not only by callers.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks up a user by the login key.
	// Returns common.ErrorNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks up a user by id.
	// Returns common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
