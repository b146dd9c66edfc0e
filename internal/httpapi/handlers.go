package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"course-authoring/internal/api"
	"course-authoring/internal/domain"
	"course-authoring/internal/validation"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers adapts HTTP requests to the API
type Handlers struct {
	api    api.API
	pinger Pinger
}

// NewHandlers creates the HTTP handlers. pinger may be nil.
func NewHandlers(a api.API, pinger Pinger) *Handlers {
	return &Handlers{api: a, pinger: pinger}
}

// bindJSON decodes the body, answering 400 on malformed JSON
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return false
	}
	return true
}

// pathID parses a positive integer path parameter
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ve := validation.NewValidationError()
		ve.AddInvalidFormatError(name, c.Param(name), "positive integer")
		abortWithError(c, ve)
		return 0, false
	}
	return id, true
}

// HandleCreateUser handles POST /user/new
func (h *Handlers) HandleCreateUser(c *gin.Context) {
	var req api.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.api.CreateUser(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// HandleListUsers handles GET /user/all
func (h *Handlers) HandleListUsers(c *gin.Context) {
	users, err := h.api.ListUsers(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// HandleCreateCourse handles POST /course/new
func (h *Handlers) HandleCreateCourse(c *gin.Context) {
	var req api.CreateCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.api.CreateCourse(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// HandleListCourses handles GET /course/all
func (h *Handlers) HandleListCourses(c *gin.Context) {
	courses, err := h.api.ListCourses(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// HandleGetCourse handles GET /course/:id
func (h *Handlers) HandleGetCourse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	course, err := h.api.GetCourse(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// HandleListTasks handles GET /course/:id/tasks
func (h *Handlers) HandleListTasks(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	tasks, err := h.api.ListTasks(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// HandlePublishCourse handles POST /course/:id/publish
func (h *Handlers) HandlePublishCourse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	course, err := h.api.PublishCourse(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// HandleInstructorReport handles GET /instructor/:id/courses
func (h *Handlers) HandleInstructorReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	report, err := h.api.InstructorReport(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// HandleCreateTask returns the handler for POST /task/new/<type>
func (h *Handlers) HandleCreateTask(taskType domain.TaskType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req api.CreateTaskRequest
		if !bindJSON(c, &req) {
			return
		}

		task, err := h.api.CreateTask(c.Request.Context(), taskType, req)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, task)
	}
}

// HandleHealth handles GET /healthz
func (h *Handlers) HandleHealth(c *gin.Context) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
