// Package publication decides when a BUILDING course may become PUBLISHED.
package publication

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"course-authoring/internal/domain"
	"course-authoring/internal/errors"
	"course-authoring/internal/repository/sqlstore"
)

// Store is the part of the repository the gate needs
type Store interface {
	FindCourseByID(ctx context.Context, id int64) (*sqlstore.Course, error)
	FindTasksByCourseOrdered(ctx context.Context, courseID int64) ([]*sqlstore.Task, error)
	SaveCourse(ctx context.Context, course *sqlstore.Course) error
}

// Gate runs the publication checks and performs the transition
type Gate struct {
	mapper *domain.Mapper
	now    func() time.Time
}

// NewGate creates a gate stamping publications with the wall clock
func NewGate() *Gate {
	return NewGateWithClock(time.Now)
}

// NewGateWithClock creates a gate with an injected clock
func NewGateWithClock(now func() time.Time) *Gate {
	return &Gate{mapper: domain.NewMapper(), now: now}
}

// Check reports the first rule the course fails, in this order: status,
// non-empty task set, one task of each type, positions exactly 1..N.
// tasks must be sorted by position.
func (g *Gate) Check(course domain.Course, tasks []domain.Task) error {
	if !course.IsBuilding() {
		return errors.NewInvalidStateError("course", string(course.Status),
			"already published or otherwise not in BUILDING")
	}

	if len(tasks) == 0 {
		return errors.NewInvalidInputError("tasks", 0, "course must contain at least one task")
	}

	present := make(map[domain.TaskType]bool, len(domain.RequiredTaskTypes))
	for _, task := range tasks {
		present[task.Type] = true
	}
	for _, required := range domain.RequiredTaskTypes {
		if !present[required] {
			return errors.NewInvalidInputError("tasks", string(required),
				fmt.Sprintf("course must contain at least one %s task", required))
		}
	}

	for i, task := range tasks {
		if expected := i + 1; task.Order != expected {
			return errors.NewInvalidInputError("order", task.Order,
				fmt.Sprintf("expected order %d, found %d", expected, task.Order))
		}
	}

	return nil
}

// Publish loads the course and its tasks, runs Check and saves the course as
// PUBLISHED. store should be bound to a transaction.
func (g *Gate) Publish(ctx context.Context, store Store, courseID int64) (domain.Course, error) {
	row, err := store.FindCourseByID(ctx, courseID)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return domain.Course{}, errors.NewNotFoundError("course", strconv.FormatInt(courseID, 10))
		}
		return domain.Course{}, err
	}
	course := g.mapper.Course.FromDatabase(*row)

	// Status first: a published course is rejected before its content is read.
	if !course.IsBuilding() {
		return domain.Course{}, g.Check(course, nil)
	}

	taskRows, err := store.FindTasksByCourseOrdered(ctx, courseID)
	if err != nil {
		return domain.Course{}, err
	}

	if err := g.Check(course, g.mapper.Task.FromDatabaseSlice(taskRows)); err != nil {
		return domain.Course{}, err
	}

	published := course.Publish(g.now().UTC().Truncate(time.Microsecond))
	dbCourse := g.mapper.Course.ToDatabase(published)
	if err := store.SaveCourse(ctx, &dbCourse); err != nil {
		return domain.Course{}, err
	}

	return published, nil
}
