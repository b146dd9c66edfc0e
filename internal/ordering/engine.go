// Package ordering keeps the tasks of a course in a gapless 1..N sequence.
package ordering

import (
	"context"
	"fmt"

	"course-authoring/internal/errors"
	"course-authoring/internal/repository/sqlstore"
)

// Store is the part of the repository the engine needs. It must be bound to
// the transaction that will also insert the new task.
type Store interface {
	FindMaxOrderForCourse(ctx context.Context, courseID int64) (int, bool, error)
	ExistsTaskAtOrder(ctx context.Context, courseID int64, order int) (bool, error)
	FindTasksAtOrGreaterThan(ctx context.Context, courseID int64, order int) ([]*sqlstore.Task, error)
	SaveTask(ctx context.Context, task *sqlstore.Task) error
}

// Engine validates requested positions and makes room for new tasks
type Engine struct{}

// NewEngine creates a new ordering engine
func NewEngine() *Engine {
	return &Engine{}
}

// Place checks that requested is a valid position for a new task in the
// course and, when the position is taken, moves every task at or after it
// one step down. It returns the number of tasks moved. The caller inserts
// the new task at requested afterwards, in the same transaction.
func (e *Engine) Place(ctx context.Context, store Store, courseID int64, requested int) (int, error) {
	maxOrder, hasTasks, err := store.FindMaxOrderForCourse(ctx, courseID)
	if err != nil {
		return 0, err
	}

	if !hasTasks {
		if requested != 1 {
			return 0, errors.NewInvalidInputError("order", requested, "first task must have order 1")
		}
		return 0, nil
	}

	if requested < 1 || requested > maxOrder+1 {
		return 0, errors.NewInvalidInputError("order", requested,
			fmt.Sprintf("order must be between 1 and %d", maxOrder+1))
	}

	occupied, err := store.ExistsTaskAtOrder(ctx, courseID, requested)
	if err != nil {
		return 0, err
	}
	if !occupied {
		return 0, nil
	}

	tasks, err := store.FindTasksAtOrGreaterThan(ctx, courseID, requested)
	if err != nil {
		return 0, err
	}

	// Highest first so the (course_id, order_number) constraint never sees
	// two rows at the same position.
	for i := len(tasks) - 1; i >= 0; i-- {
		task := tasks[i]
		task.OrderNumber++
		if err := store.SaveTask(ctx, task); err != nil {
			return 0, err
		}
	}

	return len(tasks), nil
}
