// Package httpapi exposes the authoring API over HTTP.
package httpapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"course-authoring/internal/api"
	"course-authoring/internal/config"
	"course-authoring/internal/domain"
)

// NewRouter builds the gin engine with every route registered:
//
//	POST /user/new
//	GET  /user/all
//	POST /course/new
//	GET  /course/all
//	GET  /course/:id
//	GET  /course/:id/tasks
//	POST /course/:id/publish
//	POST /task/new/opentext
//	POST /task/new/singlechoice
//	POST /task/new/multiplechoice
//	GET  /instructor/:id/courses
//	GET  /healthz
//	GET  /metrics (when enabled)
func NewRouter(h *Handlers, cfg config.ServerConfig, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(logger))

	user := router.Group("/user")
	{
		user.POST("/new", h.HandleCreateUser)
		user.GET("/all", h.HandleListUsers)
	}

	course := router.Group("/course")
	{
		course.POST("/new", h.HandleCreateCourse)
		course.GET("/all", h.HandleListCourses)
		course.GET("/:id", h.HandleGetCourse)
		course.GET("/:id/tasks", h.HandleListTasks)
		course.POST("/:id/publish", h.HandlePublishCourse)
	}

	task := router.Group("/task/new")
	{
		task.POST("/opentext", h.HandleCreateTask(domain.TaskTypeOpenText))
		task.POST("/singlechoice", h.HandleCreateTask(domain.TaskTypeSingleChoice))
		task.POST("/multiplechoice", h.HandleCreateTask(domain.TaskTypeMultipleChoice))
	}

	router.GET("/instructor/:id/courses", h.HandleInstructorReport)
	router.GET("/healthz", h.HandleHealth)

	if cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return router
}

// Server runs the HTTP API until its context is cancelled
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// NewServer creates a server for the given API
func NewServer(a api.API, pinger Pinger, cfg config.ServerConfig, logger *slog.Logger) *Server {
	router := NewRouter(NewHandlers(a, pinger), cfg, logger)
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Address,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
}

// Handler returns the underlying HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", slog.String("address", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
