package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-authoring/internal/config"
	"course-authoring/internal/domain"
	"course-authoring/internal/errors"
	"course-authoring/internal/logging"
)

// createPublishableContent adds one task of each type at orders 1..3
func createPublishableContent(t *testing.T, svc *ServiceContainer, courseID int64) {
	t.Helper()
	ctx := context.Background()

	_, err := svc.TaskService.CreateOpenTextTask(ctx, NewTask{CourseID: courseID, Statement: "Explain goroutines", Order: 1})
	require.NoError(t, err)
	_, err = svc.TaskService.CreateSingleChoiceTask(ctx, NewTask{CourseID: courseID, Statement: "Pick the compiled language", Order: 2}, singleChoiceOptions())
	require.NoError(t, err)
	_, err = svc.TaskService.CreateMultipleChoiceTask(ctx, NewTask{CourseID: courseID, Statement: "Pick the JVM languages", Order: 3}, multipleChoiceOptions())
	require.NoError(t, err)
}

func TestCourseService_CreateCourse(t *testing.T) {
	tests := []struct {
		name           string
		role           domain.Role
		instructorID   func(userID int64) int64
		title          string
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:         "should create a BUILDING course for an instructor",
			role:         domain.RoleInstructor,
			instructorID: func(id int64) int64 { return id },
			title:        "Go Basics",
		},
		{
			name:         "should reject a student as owner",
			role:         domain.RoleStudent,
			instructorID: func(id int64) int64 { return id },
			title:        "Go Basics",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
				assert.Contains(t, err.Error(), "is not an instructor")
			},
		},
		{
			name:         "should return not found for an unknown owner",
			role:         domain.RoleInstructor,
			instructorID: func(int64) int64 { return 404 },
			title:        "Go Basics",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
				assert.Contains(t, err.Error(), "user")
			},
		},
		{
			name:         "should reject a blank title",
			role:         domain.RoleInstructor,
			instructorID: func(id int64) int64 { return id },
			title:        "   ",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
				assert.Contains(t, err.Error(), "title is required")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupServices(t)
			ctx := context.Background()
			user, err := svc.UserService.CreateUser(ctx, NewUser{Name: "Ada", Email: "ada@example.com", Role: tt.role})
			require.NoError(t, err)

			course, err := svc.CourseService.CreateCourse(ctx, NewCourse{
				Title:        tt.title,
				Description:  "An introduction",
				InstructorID: tt.instructorID(user.ID),
			})

			if tt.errorAssertion != nil {
				require.Error(t, err)
				tt.errorAssertion(t, err)
				assert.Nil(t, course)
				return
			}

			require.NoError(t, err)
			assert.Greater(t, course.ID, int64(0))
			assert.Equal(t, domain.CourseStatusBuilding, course.Status)
			assert.Nil(t, course.PublishedAt)
			assert.True(t, course.IsValid())
		})
	}
}

func TestCourseService_PublishCourse(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(t *testing.T, svc *ServiceContainer, courseID int64)
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:  "should publish a course with every task type in order",
			setup: createPublishableContent,
		},
		{
			name: "should reject an empty course",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
				assert.Contains(t, err.Error(), "at least one task")
			},
		},
		{
			name: "should name the first missing task type",
			setup: func(t *testing.T, svc *ServiceContainer, courseID int64) {
				seedOpenTextTasks(t, svc, courseID, "Essay", 2)
			},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
				assert.Contains(t, err.Error(), "at least one SINGLE_CHOICE task")
			},
		},
		{
			name: "should reject a course that is already published",
			setup: func(t *testing.T, svc *ServiceContainer, courseID int64) {
				createPublishableContent(t, svc, courseID)
				_, err := svc.CourseService.PublishCourse(context.Background(), courseID)
				require.NoError(t, err)
			},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidState))
				assert.Contains(t, err.Error(), "not in BUILDING")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := setupServices(t)
			instructor := seedInstructor(t, svc, "paulo@alura.com.br")
			course := seedBuildingCourse(t, svc, instructor.ID, "Go Basics")
			if tt.setup != nil {
				tt.setup(t, svc, course.ID)
			}
			before := takeSnapshot(t, store)

			published, err := svc.CourseService.PublishCourse(context.Background(), course.ID)

			if tt.errorAssertion != nil {
				require.Error(t, err)
				tt.errorAssertion(t, err)
				assert.Nil(t, published)
				assert.Equal(t, before, takeSnapshot(t, store))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, domain.CourseStatusPublished, published.Status)
			require.NotNil(t, published.PublishedAt)

			stored, err := svc.CourseService.GetCourse(context.Background(), course.ID)
			require.NoError(t, err)
			assert.True(t, stored.IsPublished())
			assert.True(t, stored.IsValid())
		})
	}
}

func TestCourseService_PublishCourse_UnknownCourse(t *testing.T) {
	svc, _ := setupServices(t)

	_, err := svc.CourseService.PublishCourse(context.Background(), 12345)

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestCourseService_PublishCourse_UsesClock(t *testing.T) {
	store := setupStore(t)
	svc := NewServiceContainer(store, config.NewConfig(), logging.Discard())
	fixed := time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)
	courses := newCourseService(store, config.NewConfig(), logging.Discard(), func() time.Time { return fixed })

	instructor := seedInstructor(t, svc, "paulo@alura.com.br")
	course := seedBuildingCourse(t, svc, instructor.ID, "Go Basics")
	createPublishableContent(t, svc, course.ID)

	published, err := courses.PublishCourse(context.Background(), course.ID)

	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	assert.True(t, fixed.Equal(*published.PublishedAt))

	stored, err := courses.GetCourse(context.Background(), course.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PublishedAt)
	assert.True(t, fixed.Equal(*stored.PublishedAt))
}

func TestCourseService_ListTasks(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()
	instructor := seedInstructor(t, svc, "paulo@alura.com.br")
	course := seedBuildingCourse(t, svc, instructor.ID, "Go Basics")
	seedOpenTextTasks(t, svc, course.ID, "Lesson", 3)
	_, err := svc.TaskService.CreateOpenTextTask(ctx, NewTask{CourseID: course.ID, Statement: "Warm up", Order: 1})
	require.NoError(t, err)

	tasks, err := svc.CourseService.ListTasks(ctx, course.ID)

	require.NoError(t, err)
	require.Len(t, tasks, 4)
	assert.Equal(t, "Warm up", tasks[0].Statement)
	for i, task := range tasks {
		assert.Equal(t, i+1, task.Order)
	}

	_, err = svc.CourseService.ListTasks(ctx, 999)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestCourseService_ListCourses(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	courses, err := svc.CourseService.ListCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)

	instructor := seedInstructor(t, svc, "paulo@alura.com.br")
	seedBuildingCourse(t, svc, instructor.ID, "Go Basics")
	seedBuildingCourse(t, svc, instructor.ID, "Advanced Go")

	courses, err = svc.CourseService.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Go Basics", courses[0].Title)
	assert.Equal(t, "Advanced Go", courses[1].Title)
}
