package auth

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Principal is the resolved identity of the caller for one request. It is
// carried in the request context and never shared across requests.
type Principal struct {
	UserID   int64
	Username string
	Roles    []models.Role
}

// HasAnyRole reports whether the principal holds at least one of the roles.
func (p Principal) HasAnyRole(roles ...models.Role) bool {
	for _, required := range roles {
		for _, r := range p.Roles {
			if r == required {
				return true
			}
		}
	}
	return false
}

// PrincipalFromClaims builds a Principal from verified token claims. Claims
// carrying a role outside the enum are rejected as an invalid token.
func PrincipalFromClaims(claims *Claims) (Principal, error) {
	roles, err := models.RolesFromStrings(claims.Roles)
	if err != nil {
		return Principal{}, common.ErrInvalidToken
	}
	return Principal{UserID: claims.UserID, Username: claims.Username, Roles: roles}, nil
}

type ctxKey string

const principalKey ctxKey = "principal"

// WithPrincipal returns a child context carrying the principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext extracts the principal set by the authorization gate.
// The second return value is false for unauthenticated requests.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
