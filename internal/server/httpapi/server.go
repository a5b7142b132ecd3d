// Package httpapi exposes the authentication and task operations over HTTP.
// Every gated route declares its required roles at registration time; the
// middleware in this package evaluates the declaration before any handler
// runs.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

type Server struct {
	address     string
	logger      logging.Logger
	users       *services.UserService
	tasks       *services.TaskService
	attachments *services.AttachmentService
	jwtSecret   []byte
}

func NewServer(address string, l logging.Logger, us *services.UserService, ts *services.TaskService, as *services.AttachmentService, secretKey string) *Server {
	return &Server{
		address:     address,
		logger:      l.With("module", "http_server"),
		users:       us,
		tasks:       ts,
		attachments: as,
		jwtSecret:   []byte(secretKey),
	}
}

// Router builds the gin engine with all routes and their role requirements.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", s.register)
		authGroup.POST("/login", s.login)
		authGroup.POST("/refresh", s.refresh)
		authGroup.POST("/logout", s.authenticate, s.requireRoles(models.RoleAdmin, models.RoleUser), s.logout)
	}

	taskGroup := api.Group("/tasks", s.authenticate)
	{
		taskGroup.GET("", s.requireRoles(models.RoleAdmin), s.listTasks)
		taskGroup.GET("/filter", s.requireRoles(models.RoleAdmin), s.filterTasks)
		taskGroup.GET("/:id", s.requireRoles(models.RoleAdmin), s.getTask)
		taskGroup.POST("", s.requireRoles(models.RoleAdmin), s.createTask)
		taskGroup.PUT("/:id", s.requireRoles(models.RoleAdmin), s.updateTask)
		taskGroup.DELETE("/:id", s.requireRoles(models.RoleAdmin), s.deleteTask)

		taskGroup.PUT("/:id/comments", s.requireRoles(models.RoleAdmin, models.RoleUser), s.addComment)
		taskGroup.PUT("/:id/status", s.requireRoles(models.RoleAdmin, models.RoleUser), s.changeStatus)

		taskGroup.POST("/:id/attachments", s.requireRoles(models.RoleAdmin, models.RoleUser), s.createAttachment)
		// Storage keys contain slashes, so the key is a wildcard segment.
		taskGroup.GET("/:id/attachments/*key", s.requireRoles(models.RoleAdmin, models.RoleUser), s.getAttachment)
	}

	return router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
