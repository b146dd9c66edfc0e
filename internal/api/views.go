package api

import (
	"time"

	"course-authoring/internal/domain"
	"course-authoring/internal/services"
)

// UserView is the wire form of a user
type UserView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// CourseView is the wire form of a course
type CourseView struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	InstructorID int64      `json:"instructorId"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
}

// TaskView is the wire form of a task
type TaskView struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"courseId"`
	Statement string    `json:"statement"`
	Type      string    `json:"type"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

// InstructorCourseView is one course line of an instructor report
type InstructorCourseView struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"publishedAt"`
	TaskCount   int        `json:"taskCount"`
}

// InstructorReportView lists an instructor's courses
type InstructorReportView struct {
	InstructorID          int64                   `json:"instructorId"`
	InstructorName        string                  `json:"instructorName"`
	Courses               []*InstructorCourseView `json:"courses"`
	TotalPublishedCourses int                     `json:"totalPublishedCourses"`
	TotalTasks            int                     `json:"totalTasks"`
}

// NewUserView converts a domain user
func NewUserView(u *domain.User) *UserView {
	return &UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// NewCourseView converts a domain course
func NewCourseView(c *domain.Course) *CourseView {
	return &CourseView{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		InstructorID: c.InstructorID,
		Status:       string(c.Status),
		CreatedAt:    c.CreatedAt,
		PublishedAt:  c.PublishedAt,
	}
}

// NewTaskView converts a domain task
func NewTaskView(t *domain.Task) *TaskView {
	return &TaskView{
		ID:        t.ID,
		CourseID:  t.CourseID,
		Statement: t.Statement,
		Type:      string(t.Type),
		Order:     t.Order,
		CreatedAt: t.CreatedAt,
	}
}

// NewInstructorReportView converts a service report
func NewInstructorReportView(r *services.InstructorReport) *InstructorReportView {
	view := &InstructorReportView{
		InstructorID:          r.Instructor.ID,
		InstructorName:        r.Instructor.Name,
		Courses:               make([]*InstructorCourseView, len(r.Courses)),
		TotalPublishedCourses: r.PublishedCount,
		TotalTasks:            r.TotalTasks,
	}
	for i, c := range r.Courses {
		view.Courses[i] = &InstructorCourseView{
			ID:          c.Course.ID,
			Title:       c.Course.Title,
			Status:      string(c.Course.Status),
			PublishedAt: c.Course.PublishedAt,
			TaskCount:   c.TaskCount,
		}
	}
	return view
}

func mapViews[T any, V any](items []*T, convert func(*T) *V) []*V {
	views := make([]*V, len(items))
	for i, item := range items {
		views[i] = convert(item)
	}
	return views
}
