package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewServer(":0", logger, nil, nil, nil, testSecret)
}

func tokenFor(t *testing.T, roles ...models.Role) string {
	t.Helper()
	user := &models.User{ID: 1, Username: "alice", Roles: roles}
	token, err := auth.GenerateToken(user, []byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	return token
}

// probeRouter wires the auth middleware in front of a trivial handler so the
// gate can be tested without real services.
func probeRouter(s *Server, roles ...models.Role) http.Handler {
	router := s.Router()
	router.GET("/probe", s.authenticate, s.requireRoles(roles...), func(c *gin.Context) {
		principal, _ := auth.PrincipalFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"user": principal.Username})
	})
	return router
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	s := newTestServer(t)
	router := probeRouter(s, models.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestAuthenticate_MalformedToken(t *testing.T) {
	s := newTestServer(t)
	router := probeRouter(s, models.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	s := newTestServer(t)
	router := probeRouter(s, models.RoleUser)

	user := &models.User{ID: 1, Username: "alice", Roles: []models.Role{models.RoleUser}}
	token, err := auth.GenerateToken(user, []byte(testSecret), -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestRequireRoles_Forbidden(t *testing.T) {
	s := newTestServer(t)
	router := probeRouter(s, models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RoleUser))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("valid identity without the role: want 403, got %d", w.Code)
	}
}

func TestRequireRoles_AnyOfSuffices(t *testing.T) {
	s := newTestServer(t)
	router := probeRouter(s, models.RoleAdmin, models.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RoleUser))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHealth_NeedsNoAuth(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
}
