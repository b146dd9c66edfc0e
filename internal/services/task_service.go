package services

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"course-authoring/internal/config"
	"course-authoring/internal/domain"
	"course-authoring/internal/errors"
	"course-authoring/internal/metrics"
	"course-authoring/internal/ordering"
	"course-authoring/internal/repository/sqlstore"
	"course-authoring/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	runner    runner
	mapper    *domain.Mapper
	validator *validation.TaskValidator
	engine    *ordering.Engine
	logger    *slog.Logger
	now       func() time.Time
}

// NewTaskService creates a new TaskService instance
func NewTaskService(db sqlstore.Database, cfg *config.Config, logger *slog.Logger) TaskService {
	return &taskServiceImpl{
		runner:    newRunner(db, cfg),
		mapper:    domain.NewMapper(),
		validator: validation.NewTaskValidatorWithConfig(cfg),
		engine:    ordering.NewEngine(),
		logger:    loggerOrDiscard(logger),
		now:       time.Now,
	}
}

func (s *taskServiceImpl) CreateOpenTextTask(ctx context.Context, task NewTask) (*domain.Task, error) {
	return s.create(ctx, domain.TaskTypeOpenText, task, nil)
}

func (s *taskServiceImpl) CreateSingleChoiceTask(ctx context.Context, task NewTask, options []domain.Option) (*domain.Task, error) {
	return s.create(ctx, domain.TaskTypeSingleChoice, task, options)
}

func (s *taskServiceImpl) CreateMultipleChoiceTask(ctx context.Context, task NewTask, options []domain.Option) (*domain.Task, error) {
	return s.create(ctx, domain.TaskTypeMultipleChoice, task, options)
}

// create runs every rule and the insert in one transaction. A rejection at
// any step rolls back the shift as well.
func (s *taskServiceImpl) create(ctx context.Context, taskType domain.TaskType, in NewTask, options []domain.Option) (*domain.Task, error) {
	var (
		created domain.Task
		shifted int
	)

	err := s.runner.write(ctx, func(repo sqlstore.Repository) error {
		if err := s.checkPreconditions(ctx, repo, in); err != nil {
			return err
		}

		if err := s.validator.ValidateOptions(taskType, in.Statement, options); err != nil {
			return err
		}

		n, err := s.engine.Place(ctx, repo, in.CourseID, in.Order)
		if err != nil {
			return err
		}
		shifted = n

		task := domain.NewTask(in.CourseID, in.Statement, taskType, in.Order)
		task.CreatedAt = s.now().UTC().Truncate(time.Microsecond)
		dbTask := s.mapper.Task.ToDatabase(task)
		if err := repo.SaveTask(ctx, &dbTask); err != nil {
			return err
		}
		created = s.mapper.Task.FromDatabase(dbTask)
		return nil
	})

	metrics.TasksCreated.WithLabelValues(string(taskType), metrics.Outcome(err)).Inc()
	logOutcome(ctx, s.logger, "create task", err,
		slog.Int64("course_id", in.CourseID),
		slog.String("type", string(taskType)),
		slog.Int("order", in.Order),
		slog.Int("options", len(options)))
	if err != nil {
		return nil, err
	}

	if shifted > 0 {
		metrics.TasksShifted.Add(float64(shifted))
		s.logger.DebugContext(ctx, "shifted tasks",
			slog.Int64("course_id", in.CourseID), slog.Int("from_order", in.Order), slog.Int("count", shifted))
	}

	return &created, nil
}

// checkPreconditions applies the rules shared by every task type: the course
// exists, is still BUILDING, and has no task with the same statement.
func (s *taskServiceImpl) checkPreconditions(ctx context.Context, repo sqlstore.Repository, in NewTask) error {
	dbCourse, err := repo.FindCourseByID(ctx, in.CourseID)
	if err != nil {
		return err
	}

	course := s.mapper.Course.FromDatabase(*dbCourse)
	if !course.IsBuilding() {
		return errors.NewInvalidStateError("course", string(course.Status),
			"tasks can only be added while the course is BUILDING")
	}

	exists, err := repo.ExistsTaskWithStatement(ctx, in.CourseID, in.Statement)
	if err != nil {
		return err
	}
	if exists {
		return errors.NewConflictError("task",
			"course "+strconv.FormatInt(in.CourseID, 10)+" already has a task with this statement", nil)
	}

	return nil
}
