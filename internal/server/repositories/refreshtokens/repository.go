// Package refreshtokens declares the server-side repository contract for the
// refresh token store. The store guarantees at most one active token per
// user: replacing is atomic with respect to concurrent calls for the same
// user, so exactly one token survives a race.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking
// refresh tokens.
type Repository interface {
	// CreateOrReplace stores token for userID with an expiry of now+validity,
	// atomically superseding any previously stored token for that user.
	CreateOrReplace(ctx context.Context, userID int64, token string, validity time.Duration) (*models.RefreshToken, error)

	// FindByToken looks up a refresh token by its opaque token string.
	// Returns common.ErrorNotFound when the token is absent.
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)

	// DeleteByUserID removes the user's refresh token, if any. Deleting when
	// none exists is not an error.
	DeleteByUserID(ctx context.Context, userID int64) error
}
