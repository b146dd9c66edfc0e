package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"course-authoring/internal/config"
	"course-authoring/internal/domain"
	"course-authoring/internal/logging"
	"course-authoring/internal/repository/sqlstore"
)

func setupStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	store, err := config.CreateTestRepository()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func setupServices(t *testing.T) (*ServiceContainer, *sqlstore.Store) {
	t.Helper()
	store := setupStore(t)
	return NewServiceContainer(store, config.NewConfig(), logging.Discard()), store
}

func seedInstructor(t *testing.T, svc *ServiceContainer, email string) *domain.User {
	t.Helper()
	user, err := svc.UserService.CreateUser(context.Background(), NewUser{
		Name:  "Instructor " + email,
		Email: email,
		Role:  domain.RoleInstructor,
	})
	require.NoError(t, err)
	return user
}

func seedBuildingCourse(t *testing.T, svc *ServiceContainer, instructorID int64, title string) *domain.Course {
	t.Helper()
	course, err := svc.CourseService.CreateCourse(context.Background(), NewCourse{
		Title:        title,
		Description:  "description of " + title,
		InstructorID: instructorID,
	})
	require.NoError(t, err)
	return course
}

// seedOpenTextTasks appends count open text tasks named "<prefix> N"
func seedOpenTextTasks(t *testing.T, svc *ServiceContainer, courseID int64, prefix string, count int) {
	t.Helper()
	for i := 1; i <= count; i++ {
		_, err := svc.TaskService.CreateOpenTextTask(context.Background(), NewTask{
			CourseID:  courseID,
			Statement: fmt.Sprintf("%s %d", prefix, i),
			Order:     i,
		})
		require.NoError(t, err)
	}
}

func singleChoiceOptions() []domain.Option {
	return []domain.Option{
		{Text: "Java", Correct: true},
		{Text: "Python", Correct: false},
	}
}

func multipleChoiceOptions() []domain.Option {
	return []domain.Option{
		{Text: "Java", Correct: true},
		{Text: "Python", Correct: true},
		{Text: "Ruby on Rails", Correct: false},
	}
}

// snapshot captures every course and task row so rejected calls can be
// compared against the state before them
type snapshot struct {
	courses []*sqlstore.Course
	tasks   map[int64][]*sqlstore.Task
}

func takeSnapshot(t *testing.T, store *sqlstore.Store) snapshot {
	t.Helper()
	ctx := context.Background()

	courses, err := store.ListCourses(ctx)
	require.NoError(t, err)

	snap := snapshot{courses: courses, tasks: make(map[int64][]*sqlstore.Task, len(courses))}
	for _, c := range courses {
		tasks, err := store.FindTasksByCourseOrdered(ctx, c.ID)
		require.NoError(t, err)
		snap.tasks[c.ID] = tasks
	}
	return snap
}

func orderedStatements(t *testing.T, store *sqlstore.Store, courseID int64) []string {
	t.Helper()
	tasks, err := store.FindTasksByCourseOrdered(context.Background(), courseID)
	require.NoError(t, err)

	statements := make([]string, len(tasks))
	for i, task := range tasks {
		statements[i] = task.Statement
	}
	return statements
}

func orders(t *testing.T, store *sqlstore.Store, courseID int64) []int {
	t.Helper()
	tasks, err := store.FindTasksByCourseOrdered(context.Background(), courseID)
	require.NoError(t, err)

	out := make([]int, len(tasks))
	for i, task := range tasks {
		out[i] = task.OrderNumber
	}
	return out
}
