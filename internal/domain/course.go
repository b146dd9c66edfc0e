package domain

import (
	"time"
)

// CourseStatus is the lifecycle state of a course.
type CourseStatus string

const (
	CourseStatusBuilding  CourseStatus = "BUILDING"
	CourseStatusPublished CourseStatus = "PUBLISHED"
)

// Course represents a course in the domain model.
// A course starts in BUILDING and moves to PUBLISHED exactly once.
type Course struct {
	ID           int64
	Title        string
	Description  string
	InstructorID int64
	Status       CourseStatus
	CreatedAt    time.Time
	PublishedAt  *time.Time
}

// NewCourse creates a new Course in BUILDING status.
func NewCourse(title, description string, instructorID int64) Course {
	return Course{
		Title:        title,
		Description:  description,
		InstructorID: instructorID,
		Status:       CourseStatusBuilding,
	}
}

// IsBuilding returns true if tasks may still be added to the course.
func (c Course) IsBuilding() bool {
	return c.Status == CourseStatusBuilding
}

// IsPublished returns true if the course has been published.
func (c Course) IsPublished() bool {
	return c.Status == CourseStatusPublished
}

// Publish returns a copy of the course in PUBLISHED status stamped with at.
func (c Course) Publish(at time.Time) Course {
	c.Status = CourseStatusPublished
	c.PublishedAt = &at
	return c
}

// IsValid checks that the publication timestamp agrees with the status.
func (c Course) IsValid() bool {
	switch c.Status {
	case CourseStatusBuilding:
		return c.PublishedAt == nil
	case CourseStatusPublished:
		return c.PublishedAt != nil
	default:
		return false
	}
}
