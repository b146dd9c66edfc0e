package domain

import (
	"time"
)

// TaskType identifies the kind of learning task.
type TaskType string

const (
	TaskTypeOpenText       TaskType = "OPEN_TEXT"
	TaskTypeSingleChoice   TaskType = "SINGLE_CHOICE"
	TaskTypeMultipleChoice TaskType = "MULTIPLE_CHOICE"
)

// RequiredTaskTypes lists the types a course needs before it can be
// published, in the order they are checked.
var RequiredTaskTypes = []TaskType{
	TaskTypeOpenText,
	TaskTypeSingleChoice,
	TaskTypeMultipleChoice,
}

// ParseTaskType converts a stored or user supplied name into a TaskType.
func ParseTaskType(s string) (TaskType, bool) {
	switch TaskType(s) {
	case TaskTypeOpenText, TaskTypeSingleChoice, TaskTypeMultipleChoice:
		return TaskType(s), true
	default:
		return "", false
	}
}

// IsChoice returns true for task types answered by picking options.
func (tt TaskType) IsChoice() bool {
	return tt == TaskTypeSingleChoice || tt == TaskTypeMultipleChoice
}

// Task represents a learning task in the domain model.
// CourseID and Type never change after creation; Order only changes when
// a later insertion shifts the task.
type Task struct {
	ID        int64
	CourseID  int64
	Statement string
	Type      TaskType
	Order     int
	CreatedAt time.Time
}

// NewTask creates a new Task for the given course.
func NewTask(courseID int64, statement string, taskType TaskType, order int) Task {
	return Task{
		CourseID:  courseID,
		Statement: statement,
		Type:      taskType,
		Order:     order,
	}
}

// IsValid checks if the task has valid data.
func (t Task) IsValid() bool {
	if t.CourseID <= 0 || t.Statement == "" || t.Order < 1 {
		return false
	}
	_, ok := ParseTaskType(string(t.Type))
	return ok
}

// String returns the statement for display purposes.
func (t Task) String() string {
	return t.Statement
}

// Option is a candidate answer of a choice task. Options are validated when
// the task is created and are not stored.
type Option struct {
	Text    string
	Correct bool
}
