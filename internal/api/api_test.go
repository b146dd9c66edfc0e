package api

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-authoring/internal/config"
	"course-authoring/internal/domain"
	"course-authoring/internal/errors"
	"course-authoring/internal/logging"
	"course-authoring/internal/services"
	"course-authoring/internal/validation"
)

func setupTestAPI(t *testing.T) API {
	t.Helper()
	store, err := config.CreateTestRepository()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := config.NewConfig()
	return New(services.NewServiceContainer(store, cfg, logging.Discard()), cfg)
}

func seedCourse(t *testing.T, a API) (*UserView, *CourseView) {
	t.Helper()
	ctx := context.Background()

	instructor, err := a.CreateUser(ctx, CreateUserRequest{Name: "Paulo", Email: "paulo@example.com", Role: "INSTRUCTOR"})
	require.NoError(t, err)
	course, err := a.CreateCourse(ctx, CreateCourseRequest{Title: "Java", Description: "Learn Java", InstructorID: instructor.ID})
	require.NoError(t, err)
	return instructor, course
}

func assertFieldError(t *testing.T, err error, field string, errType validation.ValidationErrorType) {
	t.Helper()
	var ve *validation.ValidationError
	require.ErrorAs(t, err, &ve)
	fieldErrs := ve.GetFieldErrors(field)
	require.NotEmpty(t, fieldErrs, "expected an error for %s, got %v", field, ve.Errors)
	assert.Equal(t, errType, fieldErrs[0].Type)
}

func TestAPI_CreateUser(t *testing.T) {
	tests := []struct {
		name           string
		req            CreateUserRequest
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name: "should create a user with a lowercase role",
			req:  CreateUserRequest{Name: "Caio", Email: "caio@example.com", Role: "student"},
		},
		{
			name: "should reject a malformed email",
			req:  CreateUserRequest{Name: "Caio", Email: "not-an-email", Role: "STUDENT"},
			errorAssertion: func(t *testing.T, err error) {
				assertFieldError(t, err, "email", validation.ErrorTypeInvalidFormat)
			},
		},
		{
			name: "should reject an unknown role",
			req:  CreateUserRequest{Name: "Caio", Email: "caio@example.com", Role: "ADMIN"},
			errorAssertion: func(t *testing.T, err error) {
				assertFieldError(t, err, "role", validation.ErrorTypeInvalidValue)
			},
		},
		{
			name: "should reject a blank name",
			req:  CreateUserRequest{Name: "  ", Email: "caio@example.com", Role: "STUDENT"},
			errorAssertion: func(t *testing.T, err error) {
				assertFieldError(t, err, "name", validation.ErrorTypeRequired)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := setupTestAPI(t)

			user, err := a.CreateUser(context.Background(), tt.req)

			if tt.errorAssertion != nil {
				require.Error(t, err)
				tt.errorAssertion(t, err)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.ToUpper(tt.req.Role), user.Role)
		})
	}
}

func TestAPI_CreateTask(t *testing.T) {
	tests := []struct {
		name           string
		taskType       domain.TaskType
		req            func(courseID int64) CreateTaskRequest
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:     "should create an open text task",
			taskType: domain.TaskTypeOpenText,
			req: func(id int64) CreateTaskRequest {
				return CreateTaskRequest{CourseID: id, Statement: "What did you learn?", Order: 1}
			},
		},
		{
			name:     "should create a single choice task",
			taskType: domain.TaskTypeSingleChoice,
			req: func(id int64) CreateTaskRequest {
				return CreateTaskRequest{CourseID: id, Statement: "Which is a JVM language?", Order: 1, Options: []OptionRequest{
					{Text: "Kotlin", Correct: true},
					{Text: "Ruby", Correct: false},
				}}
			},
		},
		{
			name:     "should reject a missing course id before reaching the core",
			taskType: domain.TaskTypeOpenText,
			req: func(int64) CreateTaskRequest {
				return CreateTaskRequest{Statement: "What did you learn?", Order: 1}
			},
			errorAssertion: func(t *testing.T, err error) {
				assertFieldError(t, err, "courseId", validation.ErrorTypeRequired)
			},
		},
		{
			name:     "should reject a short statement",
			taskType: domain.TaskTypeOpenText,
			req: func(id int64) CreateTaskRequest {
				return CreateTaskRequest{CourseID: id, Statement: "Why", Order: 1}
			},
			errorAssertion: func(t *testing.T, err error) {
				assertFieldError(t, err, "statement", validation.ErrorTypeInvalidLength)
			},
		},
		{
			name:     "should reject a negative order",
			taskType: domain.TaskTypeOpenText,
			req: func(id int64) CreateTaskRequest {
				return CreateTaskRequest{CourseID: id, Statement: "What did you learn?", Order: -3}
			},
			errorAssertion: func(t *testing.T, err error) {
				assertFieldError(t, err, "order", validation.ErrorTypeInvalidRange)
			},
		},
		{
			name:     "should reject an unknown task type",
			taskType: domain.TaskType("ESSAY"),
			req: func(id int64) CreateTaskRequest {
				return CreateTaskRequest{CourseID: id, Statement: "What did you learn?", Order: 1}
			},
			errorAssertion: func(t *testing.T, err error) {
				assertFieldError(t, err, "type", validation.ErrorTypeInvalidValue)
			},
		},
		{
			name:     "should pass core rule failures through",
			taskType: domain.TaskTypeSingleChoice,
			req: func(id int64) CreateTaskRequest {
				return CreateTaskRequest{CourseID: id, Statement: "Which is a JVM language?", Order: 1, Options: []OptionRequest{
					{Text: "Kotlin", Correct: true},
					{Text: "Scala", Correct: true},
				}}
			},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
				assert.Contains(t, err.Error(), "must have exactly one correct option")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := setupTestAPI(t)
			_, course := seedCourse(t, a)

			task, err := a.CreateTask(context.Background(), tt.taskType, tt.req(course.ID))

			if tt.errorAssertion != nil {
				require.Error(t, err)
				tt.errorAssertion(t, err)
				assert.Nil(t, task)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(tt.taskType), task.Type)
			assert.Equal(t, course.ID, task.CourseID)
		})
	}
}

func TestAPI_PublishAndReport(t *testing.T) {
	a := setupTestAPI(t)
	ctx := context.Background()
	instructor, course := seedCourse(t, a)

	_, err := a.CreateTask(ctx, domain.TaskTypeOpenText, CreateTaskRequest{CourseID: course.ID, Statement: "Describe the JVM", Order: 1})
	require.NoError(t, err)
	_, err = a.CreateTask(ctx, domain.TaskTypeSingleChoice, CreateTaskRequest{CourseID: course.ID, Statement: "Pick the JVM language", Order: 2,
		Options: []OptionRequest{{Text: "Kotlin", Correct: true}, {Text: "Ruby", Correct: false}}})
	require.NoError(t, err)
	_, err = a.CreateTask(ctx, domain.TaskTypeMultipleChoice, CreateTaskRequest{CourseID: course.ID, Statement: "Pick the JVM languages", Order: 3,
		Options: []OptionRequest{{Text: "Kotlin", Correct: true}, {Text: "Scala", Correct: true}, {Text: "Ruby", Correct: false}}})
	require.NoError(t, err)

	published, err := a.PublishCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "PUBLISHED", published.Status)
	assert.NotNil(t, published.PublishedAt)

	tasks, err := a.ListTasks(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "OPEN_TEXT", tasks[0].Type)

	report, err := a.InstructorReport(ctx, instructor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalPublishedCourses)
	require.Len(t, report.Courses, 1)
	assert.Equal(t, 3, report.Courses[0].TaskCount)
	assert.NotNil(t, report.Courses[0].PublishedAt)
}

func TestAPI_RejectsNonPositiveIDs(t *testing.T) {
	a := setupTestAPI(t)
	ctx := context.Background()

	_, err := a.GetCourse(ctx, 0)
	assertFieldError(t, err, "id", validation.ErrorTypeInvalidRange)

	_, err = a.PublishCourse(ctx, -1)
	assertFieldError(t, err, "courseId", validation.ErrorTypeInvalidRange)

	_, err = a.InstructorReport(ctx, 0)
	assertFieldError(t, err, "instructorId", validation.ErrorTypeInvalidRange)
}

func TestAPI_ListEmpty(t *testing.T) {
	a := setupTestAPI(t)
	ctx := context.Background()

	users, err := a.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	courses, err := a.ListCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)
}
