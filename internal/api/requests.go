package api

import (
	"course-authoring/internal/domain"
	"course-authoring/internal/services"
)

// CreateUserRequest registers a user
type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,notblank,max=100"`
	Email string `json:"email" validate:"required,email,max=255"`
	Role  string `json:"role" validate:"required,oneof=STUDENT INSTRUCTOR student instructor"`
}

// CreateCourseRequest creates a BUILDING course
type CreateCourseRequest struct {
	Title        string `json:"title" validate:"required,notblank,max=255"`
	Description  string `json:"description" validate:"max=2000"`
	InstructorID int64  `json:"instructorId" validate:"required,gt=0"`
}

// OptionRequest is one answer of a choice task. Its text is checked by the
// task validator.
type OptionRequest struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// CreateTaskRequest creates a task of any type. Options are ignored for
// open text tasks.
type CreateTaskRequest struct {
	CourseID  int64           `json:"courseId" validate:"required,gt=0"`
	Statement string          `json:"statement" validate:"required,notblank"`
	Order     int             `json:"order" validate:"required,gt=0"`
	Options   []OptionRequest `json:"options"`
}

func (r CreateTaskRequest) toNewTask() services.NewTask {
	return services.NewTask{
		CourseID:  r.CourseID,
		Statement: r.Statement,
		Order:     r.Order,
	}
}

func (r CreateTaskRequest) toOptions() []domain.Option {
	if len(r.Options) == 0 {
		return nil
	}
	options := make([]domain.Option, len(r.Options))
	for i, o := range r.Options {
		options[i] = domain.Option{Text: o.Text, Correct: o.Correct}
	}
	return options
}
