package publication

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-authoring/internal/domain"
	"course-authoring/internal/errors"
	"course-authoring/internal/repository/sqlstore"
)

func task(taskType domain.TaskType, order int) domain.Task {
	return domain.Task{CourseID: 1, Statement: string(taskType), Type: taskType, Order: order}
}

func TestGate_Check(t *testing.T) {
	gate := NewGate()
	building := domain.NewCourse("Go", "", 1)
	now := time.Now()
	published := building.Publish(now)

	complete := []domain.Task{
		task(domain.TaskTypeOpenText, 1),
		task(domain.TaskTypeSingleChoice, 2),
		task(domain.TaskTypeMultipleChoice, 3),
	}

	tests := []struct {
		name           string
		course         domain.Course
		tasks          []domain.Task
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:   "complete course passes",
			course: building,
			tasks:  complete,
			errorAssertion: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:   "already published is rejected before content",
			course: published,
			tasks:  nil,
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidState))
			},
		},
		{
			name:   "empty course",
			course: building,
			tasks:  nil,
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
				assert.Contains(t, err.Error(), "at least one task")
			},
		},
		{
			name:   "missing open text named first",
			course: building,
			tasks:  []domain.Task{task(domain.TaskTypeMultipleChoice, 1)},
			errorAssertion: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "OPEN_TEXT")
			},
		},
		{
			name:   "missing single choice",
			course: building,
			tasks:  []domain.Task{task(domain.TaskTypeOpenText, 1), task(domain.TaskTypeMultipleChoice, 2)},
			errorAssertion: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "SINGLE_CHOICE")
			},
		},
		{
			name:   "missing multiple choice",
			course: building,
			tasks:  []domain.Task{task(domain.TaskTypeOpenText, 1), task(domain.TaskTypeSingleChoice, 2)},
			errorAssertion: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "MULTIPLE_CHOICE")
			},
		},
		{
			name:   "gap in positions",
			course: building,
			tasks: []domain.Task{
				task(domain.TaskTypeOpenText, 1),
				task(domain.TaskTypeSingleChoice, 2),
				task(domain.TaskTypeMultipleChoice, 4),
			},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
				assert.Contains(t, err.Error(), "expected order 3, found 4")
			},
		},
		{
			name:   "positions not starting at one",
			course: building,
			tasks: []domain.Task{
				task(domain.TaskTypeOpenText, 2),
				task(domain.TaskTypeSingleChoice, 3),
				task(domain.TaskTypeMultipleChoice, 4),
			},
			errorAssertion: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "expected order 1, found 2")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.errorAssertion(t, gate.Check(tt.course, tt.tasks))
		})
	}
}

func setupStore(t *testing.T) (*sqlstore.Store, int64) {
	t.Helper()
	ctx := context.Background()

	store, err := sqlstore.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	user := &sqlstore.User{Name: "Ada", Email: "ada@example.com", Role: "INSTRUCTOR", CreatedAt: time.Now()}
	require.NoError(t, store.CreateUser(ctx, user))
	course := &sqlstore.Course{Title: "Go", InstructorID: user.ID, Status: "BUILDING", CreatedAt: time.Now()}
	require.NoError(t, store.SaveCourse(ctx, course))
	return store, course.ID
}

func addTasks(t *testing.T, store *sqlstore.Store, courseID int64, orders map[int]string) {
	t.Helper()
	for order, taskType := range orders {
		require.NoError(t, store.SaveTask(context.Background(), &sqlstore.Task{
			CourseID:    courseID,
			Statement:   "Task " + taskType,
			Type:        taskType,
			OrderNumber: order,
			CreatedAt:   time.Now(),
		}))
	}
}

func TestGate_Publish(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 9, 1, 8, 30, 0, 0, time.UTC)
	gate := NewGateWithClock(func() time.Time { return fixed })

	store, courseID := setupStore(t)
	addTasks(t, store, courseID, map[int]string{1: "OPEN_TEXT", 2: "SINGLE_CHOICE", 3: "MULTIPLE_CHOICE"})

	var published domain.Course
	err := store.WithinTx(ctx, func(tx sqlstore.Repository) error {
		var err error
		published, err = gate.Publish(ctx, tx, courseID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CourseStatusPublished, published.Status)

	stored, err := store.FindCourseByID(ctx, courseID)
	require.NoError(t, err)
	assert.Equal(t, "PUBLISHED", stored.Status)
	require.NotNil(t, stored.PublishedAt)
	assert.True(t, fixed.Equal(*stored.PublishedAt))

	// A second attempt fails on status and leaves the timestamp untouched.
	_, err = gate.Publish(ctx, store, courseID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidState))

	again, err := store.FindCourseByID(ctx, courseID)
	require.NoError(t, err)
	assert.True(t, fixed.Equal(*again.PublishedAt))
}

func TestGate_Publish_GapLeavesCourseBuilding(t *testing.T) {
	ctx := context.Background()
	gate := NewGate()

	store, courseID := setupStore(t)
	addTasks(t, store, courseID, map[int]string{1: "OPEN_TEXT", 2: "SINGLE_CHOICE", 4: "MULTIPLE_CHOICE"})

	_, err := gate.Publish(ctx, store, courseID)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	assert.Contains(t, err.Error(), "expected order 3, found 4")

	stored, err := store.FindCourseByID(ctx, courseID)
	require.NoError(t, err)
	assert.Equal(t, "BUILDING", stored.Status)
	assert.Nil(t, stored.PublishedAt)
}

func TestGate_Publish_UnknownCourse(t *testing.T) {
	store, _ := setupStore(t)

	_, err := NewGate().Publish(context.Background(), store, 404)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	assert.Contains(t, err.Error(), "course not found: 404")
}
