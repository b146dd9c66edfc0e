package services

import (
	"context"
	"log/slog"

	"course-authoring/internal/config"
	"course-authoring/internal/domain"
	"course-authoring/internal/repository/sqlstore"
)

// NewTask describes a task to create. Order is the requested 1-based position.
type NewTask struct {
	CourseID  int64  `json:"course_id"`
	Statement string `json:"statement"`
	Order     int    `json:"order"`
}

// NewCourse describes a course to create
type NewCourse struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	InstructorID int64  `json:"instructor_id"`
}

// NewUser describes a user to register
type NewUser struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// CourseOverview is a course together with the number of tasks it holds
type CourseOverview struct {
	Course    domain.Course `json:"course"`
	TaskCount int           `json:"task_count"`
}

// InstructorReport summarizes the courses owned by an instructor
type InstructorReport struct {
	Instructor     domain.User       `json:"instructor"`
	Courses        []*CourseOverview `json:"courses"`
	TotalCourses   int               `json:"total_courses"`
	PublishedCount int               `json:"published_count"`
	TotalTasks     int               `json:"total_tasks"`
}

// TaskService creates tasks. Every call runs as one transaction: course
// preconditions, option rules, position check and shift, then the insert.
type TaskService interface {
	CreateOpenTextTask(ctx context.Context, task NewTask) (*domain.Task, error)
	CreateSingleChoiceTask(ctx context.Context, task NewTask, options []domain.Option) (*domain.Task, error)
	CreateMultipleChoiceTask(ctx context.Context, task NewTask, options []domain.Option) (*domain.Task, error)
}

// CourseService handles the course lifecycle
type CourseService interface {
	CreateCourse(ctx context.Context, course NewCourse) (*domain.Course, error)
	GetCourse(ctx context.Context, id int64) (*domain.Course, error)
	ListCourses(ctx context.Context) ([]*domain.Course, error)
	ListTasks(ctx context.Context, courseID int64) ([]*domain.Task, error)
	PublishCourse(ctx context.Context, id int64) (*domain.Course, error)
}

// UserService registers and lists users
type UserService interface {
	CreateUser(ctx context.Context, user NewUser) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// ReportingService builds read-only summaries
type ReportingService interface {
	InstructorReport(ctx context.Context, instructorID int64) (*InstructorReport, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TaskService      TaskService
	CourseService    CourseService
	UserService      UserService
	ReportingService ReportingService
}

// NewServiceContainer wires every service against the same database
func NewServiceContainer(db sqlstore.Database, cfg *config.Config, logger *slog.Logger) *ServiceContainer {
	return &ServiceContainer{
		TaskService:      NewTaskService(db, cfg, logger),
		CourseService:    NewCourseService(db, cfg, logger),
		UserService:      NewUserService(db, cfg, logger),
		ReportingService: NewReportingService(db, cfg),
	}
}
