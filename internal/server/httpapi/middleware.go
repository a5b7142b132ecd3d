package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// authenticate resolves the caller's identity from the Bearer access token
// and attaches the principal to the request context. Requests without a
// valid token are rejected with 401 before any handler runs.
func (s *Server) authenticate(c *gin.Context) {
	header := c.GetHeader(common.AuthorizationHeaderName)
	if !strings.HasPrefix(header, common.BearerPrefix) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": common.ErrorUnauthorized.Error()})
		return
	}

	claims, err := auth.ParseToken(strings.TrimPrefix(header, common.BearerPrefix), s.jwtSecret)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": common.ErrorUnauthorized.Error()})
		return
	}

	principal, err := auth.PrincipalFromClaims(claims)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": common.ErrorUnauthorized.Error()})
		return
	}

	c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), principal))
	c.Next()
}

// requireRoles denies the request with 403 unless the authenticated
// principal holds at least one of the given roles. It must run after
// authenticate.
func (s *Server) requireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.PrincipalFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": common.ErrorUnauthorized.Error()})
			return
		}
		if !principal.HasAnyRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": common.ErrorForbidden.Error()})
			return
		}
		c.Next()
	}
}

// requestLogger emits one structured log line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
