package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "course-authoring/internal/errors"
)

func setupTestDB(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedCourse(t *testing.T, store *Store) *Course {
	t.Helper()
	ctx := context.Background()

	user := &User{Name: "Ada", Email: "ada@example.com", Role: "INSTRUCTOR", CreatedAt: time.Now()}
	require.NoError(t, store.CreateUser(ctx, user))

	course := &Course{Title: "Go", Description: "Learn Go", InstructorID: user.ID, Status: "BUILDING", CreatedAt: time.Now()}
	require.NoError(t, store.SaveCourse(ctx, course))
	return course
}

func seedTask(t *testing.T, store *Store, courseID int64, statement string, order int) *Task {
	t.Helper()
	task := &Task{CourseID: courseID, Statement: statement, Type: "OPEN_TEXT", OrderNumber: order, CreatedAt: time.Now()}
	require.NoError(t, store.SaveTask(context.Background(), task))
	return task
}

func TestSaveCourse_InsertAndFind(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	course := seedCourse(t, store)
	assert.Greater(t, course.ID, int64(0))

	found, err := store.FindCourseByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", found.Title)
	assert.Equal(t, "BUILDING", found.Status)
	assert.Nil(t, found.PublishedAt)
	assert.Equal(t, course.CreatedAt.Unix(), found.CreatedAt.Unix())
}

func TestFindCourseByID_NotFound(t *testing.T) {
	store := setupTestDB(t)

	_, err := store.FindCourseByID(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
	assert.Contains(t, err.Error(), "course not found: 999")
}

func TestSaveCourse_UpdatePublishes(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	course := seedCourse(t, store)

	now := time.Now()
	course.Status = "PUBLISHED"
	course.PublishedAt = &now
	require.NoError(t, store.SaveCourse(ctx, course))

	found, err := store.FindCourseByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "PUBLISHED", found.Status)
	require.NotNil(t, found.PublishedAt)
	assert.Equal(t, now.Unix(), found.PublishedAt.Unix())

	count, err := store.CountCoursesByInstructorAndStatus(ctx, course.InstructorID, "PUBLISHED")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSaveCourse_UpdateMissing(t *testing.T) {
	store := setupTestDB(t)

	err := store.SaveCourse(context.Background(), &Course{ID: 42, Title: "x", Status: "BUILDING"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestFindMaxOrderForCourse(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	course := seedCourse(t, store)

	_, ok, err := store.FindMaxOrderForCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.False(t, ok, "empty course has no max order")

	seedTask(t, store, course.ID, "First", 1)
	seedTask(t, store, course.ID, "Second", 2)

	maxOrder, ok, err := store.FindMaxOrderForCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, maxOrder)
}

func TestTaskExistenceQueries(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	course := seedCourse(t, store)
	seedTask(t, store, course.ID, "What is Go?", 1)

	exists, err := store.ExistsTaskWithStatement(ctx, course.ID, "What is Go?")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.ExistsTaskWithStatement(ctx, course.ID, "what is go?")
	require.NoError(t, err)
	assert.False(t, exists, "statement comparison is case-sensitive")

	exists, err = store.ExistsTaskAtOrder(ctx, course.ID, 1)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.ExistsTaskAtOrder(ctx, course.ID, 2)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFindTasksAtOrGreaterThan(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	course := seedCourse(t, store)
	seedTask(t, store, course.ID, "A", 1)
	seedTask(t, store, course.ID, "B", 2)
	seedTask(t, store, course.ID, "C", 3)

	tasks, err := store.FindTasksAtOrGreaterThan(ctx, course.ID, 2)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "B", tasks[0].Statement)
	assert.Equal(t, "C", tasks[1].Statement)

	tasks, err = store.FindTasksAtOrGreaterThan(ctx, course.ID, 4)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestSaveTask_UpdateMovesOrder(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	course := seedCourse(t, store)
	task := seedTask(t, store, course.ID, "A", 1)

	task.OrderNumber = 2
	require.NoError(t, store.SaveTask(ctx, task))

	tasks, err := store.FindTasksByCourseOrdered(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 2, tasks[0].OrderNumber)

	count, err := store.CountTasksByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSaveTask_DuplicateOrderIsRetryableConflict(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	course := seedCourse(t, store)
	seedTask(t, store, course.ID, "A", 1)

	err := store.SaveTask(ctx, &Task{CourseID: course.ID, Statement: "B", Type: "OPEN_TEXT", OrderNumber: 1, CreatedAt: time.Now()})
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))
	assert.True(t, apperrors.IsRetryable(err))
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	course := seedCourse(t, store)
	seedTask(t, store, course.ID, "A", 1)

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(tx Repository) error {
		tasks, err := tx.FindTasksAtOrGreaterThan(ctx, course.ID, 1)
		if err != nil {
			return err
		}
		tasks[0].OrderNumber = 2
		if err := tx.SaveTask(ctx, tasks[0]); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	tasks, err := store.FindTasksByCourseOrdered(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 1, tasks[0].OrderNumber, "rolled back shift must not persist")
}

func TestWithinTx_Commits(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	course := seedCourse(t, store)

	err := store.WithinTx(ctx, func(tx Repository) error {
		return tx.SaveTask(ctx, &Task{CourseID: course.ID, Statement: "A", Type: "SINGLE_CHOICE", OrderNumber: 1, CreatedAt: time.Now()})
	})
	require.NoError(t, err)

	count, err := store.CountTasksByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUsers(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	user := &User{Name: "Bob", Email: "bob@example.com", Role: "STUDENT", CreatedAt: time.Now()}
	require.NoError(t, store.CreateUser(ctx, user))

	found, err := store.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", found.Name)
	assert.Equal(t, "STUDENT", found.Role)

	exists, err := store.ExistsUserWithEmail(ctx, "BOB@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	err = store.CreateUser(ctx, &User{Name: "Bob 2", Email: "bob@example.com", Role: "STUDENT", CreatedAt: time.Now()})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = store.FindUserByID(ctx, 404)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestCoursesByInstructor(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	course := seedCourse(t, store)

	other := &Course{Title: "Rust", InstructorID: course.InstructorID, Status: "BUILDING", CreatedAt: time.Now()}
	require.NoError(t, store.SaveCourse(ctx, other))

	courses, err := store.FindCoursesByInstructor(ctx, course.InstructorID)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Go", courses[0].Title)

	courses, err = store.FindCoursesByInstructor(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, courses)

	all, err := store.ListCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSaveCourse_UnknownInstructorRejected(t *testing.T) {
	store := setupTestDB(t)

	err := store.SaveCourse(context.Background(), &Course{Title: "Orphan", InstructorID: 77, Status: "BUILDING", CreatedAt: time.Now()})
	assert.Error(t, err, "foreign keys are enforced")
}
