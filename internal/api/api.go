package api

import (
	"context"
	"strings"

	"course-authoring/internal/config"
	"course-authoring/internal/domain"
	"course-authoring/internal/services"
	"course-authoring/internal/validation"
)

// API is the entry point used by the HTTP and CLI adapters. It checks request
// syntax and hands well-formed requests to the services.
type API interface {
	// Users
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserView, error)
	ListUsers(ctx context.Context) ([]*UserView, error)

	// Courses
	CreateCourse(ctx context.Context, req CreateCourseRequest) (*CourseView, error)
	GetCourse(ctx context.Context, id int64) (*CourseView, error)
	ListCourses(ctx context.Context) ([]*CourseView, error)
	ListTasks(ctx context.Context, courseID int64) ([]*TaskView, error)
	PublishCourse(ctx context.Context, courseID int64) (*CourseView, error)
	InstructorReport(ctx context.Context, instructorID int64) (*InstructorReportView, error)

	// Tasks
	CreateTask(ctx context.Context, taskType domain.TaskType, req CreateTaskRequest) (*TaskView, error)
}

type apiImpl struct {
	services  *services.ServiceContainer
	validator *validation.Validator
}

// New creates a new API instance.
func New(svc *services.ServiceContainer, cfg *config.Config) API {
	return &apiImpl{
		services:  svc,
		validator: validation.NewValidatorWithConfig(cfg),
	}
}

func (a *apiImpl) CreateUser(ctx context.Context, req CreateUserRequest) (*UserView, error) {
	if err := a.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := a.services.UserService.CreateUser(ctx, services.NewUser{
		Name:  req.Name,
		Email: req.Email,
		Role:  domain.Role(strings.ToUpper(req.Role)),
	})
	if err != nil {
		return nil, err
	}
	return NewUserView(user), nil
}

func (a *apiImpl) ListUsers(ctx context.Context) ([]*UserView, error) {
	users, err := a.services.UserService.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return mapViews(users, NewUserView), nil
}

func (a *apiImpl) CreateCourse(ctx context.Context, req CreateCourseRequest) (*CourseView, error) {
	if err := a.validator.Struct(req); err != nil {
		return nil, err
	}

	course, err := a.services.CourseService.CreateCourse(ctx, services.NewCourse{
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: req.InstructorID,
	})
	if err != nil {
		return nil, err
	}
	return NewCourseView(course), nil
}

func (a *apiImpl) GetCourse(ctx context.Context, id int64) (*CourseView, error) {
	if err := a.checkID("id", id); err != nil {
		return nil, err
	}

	course, err := a.services.CourseService.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewCourseView(course), nil
}

func (a *apiImpl) ListCourses(ctx context.Context) ([]*CourseView, error) {
	courses, err := a.services.CourseService.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	return mapViews(courses, NewCourseView), nil
}

func (a *apiImpl) ListTasks(ctx context.Context, courseID int64) ([]*TaskView, error) {
	if err := a.checkID("courseId", courseID); err != nil {
		return nil, err
	}

	tasks, err := a.services.CourseService.ListTasks(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return mapViews(tasks, NewTaskView), nil
}

func (a *apiImpl) PublishCourse(ctx context.Context, courseID int64) (*CourseView, error) {
	if err := a.checkID("courseId", courseID); err != nil {
		return nil, err
	}

	course, err := a.services.CourseService.PublishCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return NewCourseView(course), nil
}

func (a *apiImpl) InstructorReport(ctx context.Context, instructorID int64) (*InstructorReportView, error) {
	if err := a.checkID("instructorId", instructorID); err != nil {
		return nil, err
	}

	report, err := a.services.ReportingService.InstructorReport(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	return NewInstructorReportView(report), nil
}

func (a *apiImpl) CreateTask(ctx context.Context, taskType domain.TaskType, req CreateTaskRequest) (*TaskView, error) {
	if err := a.validateTaskRequest(taskType, req); err != nil {
		return nil, err
	}

	var (
		task *domain.Task
		err  error
	)
	switch taskType {
	case domain.TaskTypeOpenText:
		task, err = a.services.TaskService.CreateOpenTextTask(ctx, req.toNewTask())
	case domain.TaskTypeSingleChoice:
		task, err = a.services.TaskService.CreateSingleChoiceTask(ctx, req.toNewTask(), req.toOptions())
	case domain.TaskTypeMultipleChoice:
		task, err = a.services.TaskService.CreateMultipleChoiceTask(ctx, req.toNewTask(), req.toOptions())
	}
	if err != nil {
		return nil, err
	}
	return NewTaskView(task), nil
}

// validateTaskRequest checks the request shape: tags first, then the
// configured statement length. Option content is left to the task validator.
func (a *apiImpl) validateTaskRequest(taskType domain.TaskType, req CreateTaskRequest) error {
	ve := validation.NewValidationError()

	if _, ok := domain.ParseTaskType(string(taskType)); !ok {
		ve.AddInvalidValueError("type", string(taskType), "must be OPEN_TEXT, SINGLE_CHOICE or MULTIPLE_CHOICE")
		return ve
	}

	if err := a.validator.Struct(req); err != nil {
		tagErrs, ok := err.(*validation.ValidationError)
		if !ok {
			return err
		}
		ve.Merge(tagErrs)
	}

	limits := a.validator.ValidationConfig()
	if a.validator.IsNonEmptyString(req.Statement) &&
		!a.validator.IsValidStringLength(req.Statement, limits.StatementMinLength, limits.StatementMaxLength) {
		ve.AddInvalidLengthError("statement", req.Statement, limits.StatementMinLength, limits.StatementMaxLength)
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

func (a *apiImpl) checkID(field string, id int64) error {
	if a.validator.IsValidID(id) {
		return nil
	}
	ve := validation.NewValidationError()
	ve.AddInvalidRangeError(field, id, "must be greater than 0")
	return ve
}
