package domain

import (
	"course-authoring/internal/repository/sqlstore"
)

// CourseMapper handles conversion between domain and database Course models.
type CourseMapper struct{}

// NewCourseMapper creates a new CourseMapper instance.
func NewCourseMapper() *CourseMapper {
	return &CourseMapper{}
}

// ToDatabase converts a domain Course to a database Course.
func (m *CourseMapper) ToDatabase(c Course) sqlstore.Course {
	return sqlstore.Course{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		InstructorID: c.InstructorID,
		Status:       string(c.Status),
		CreatedAt:    c.CreatedAt,
		PublishedAt:  c.PublishedAt,
	}
}

// FromDatabase converts a database Course to a domain Course.
func (m *CourseMapper) FromDatabase(c sqlstore.Course) Course {
	return Course{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		InstructorID: c.InstructorID,
		Status:       CourseStatus(c.Status),
		CreatedAt:    c.CreatedAt,
		PublishedAt:  c.PublishedAt,
	}
}

// FromDatabaseSlice converts database Courses to domain Courses.
func (m *CourseMapper) FromDatabaseSlice(dbCourses []*sqlstore.Course) []Course {
	courses := make([]Course, len(dbCourses))
	for i, c := range dbCourses {
		courses[i] = m.FromDatabase(*c)
	}
	return courses
}

// TaskMapper handles conversion between domain and database Task models.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToDatabase converts a domain Task to a database Task.
func (m *TaskMapper) ToDatabase(t Task) sqlstore.Task {
	return sqlstore.Task{
		ID:          t.ID,
		CourseID:    t.CourseID,
		Statement:   t.Statement,
		Type:        string(t.Type),
		OrderNumber: t.Order,
		CreatedAt:   t.CreatedAt,
	}
}

// FromDatabase converts a database Task to a domain Task.
func (m *TaskMapper) FromDatabase(t sqlstore.Task) Task {
	return Task{
		ID:        t.ID,
		CourseID:  t.CourseID,
		Statement: t.Statement,
		Type:      TaskType(t.Type),
		Order:     t.OrderNumber,
		CreatedAt: t.CreatedAt,
	}
}

// FromDatabaseSlice converts database Tasks to domain Tasks.
func (m *TaskMapper) FromDatabaseSlice(dbTasks []*sqlstore.Task) []Task {
	tasks := make([]Task, len(dbTasks))
	for i, t := range dbTasks {
		tasks[i] = m.FromDatabase(*t)
	}
	return tasks
}

// UserMapper handles conversion between domain and database User models.
type UserMapper struct{}

// NewUserMapper creates a new UserMapper instance.
func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

// ToDatabase converts a domain User to a database User.
func (m *UserMapper) ToDatabase(u User) sqlstore.User {
	return sqlstore.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// FromDatabase converts a database User to a domain User.
func (m *UserMapper) FromDatabase(u sqlstore.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      Role(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// FromDatabaseSlice converts database Users to domain Users.
func (m *UserMapper) FromDatabaseSlice(dbUsers []*sqlstore.User) []User {
	users := make([]User, len(dbUsers))
	for i, u := range dbUsers {
		users[i] = m.FromDatabase(*u)
	}
	return users
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Course *CourseMapper
	Task   *TaskMapper
	User   *UserMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Course: NewCourseMapper(),
		Task:   NewTaskMapper(),
		User:   NewUserMapper(),
	}
}
