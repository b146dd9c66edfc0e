package services

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"course-authoring/internal/config"
	"course-authoring/internal/domain"
	"course-authoring/internal/errors"
	"course-authoring/internal/metrics"
	"course-authoring/internal/publication"
	"course-authoring/internal/repository/sqlstore"
)

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	runner runner
	mapper *domain.Mapper
	gate   *publication.Gate
	logger *slog.Logger
	now    func() time.Time
}

// NewCourseService creates a new CourseService instance
func NewCourseService(db sqlstore.Database, cfg *config.Config, logger *slog.Logger) CourseService {
	return newCourseService(db, cfg, logger, time.Now)
}

func newCourseService(db sqlstore.Database, cfg *config.Config, logger *slog.Logger, now func() time.Time) *courseServiceImpl {
	return &courseServiceImpl{
		runner: newRunner(db, cfg),
		mapper: domain.NewMapper(),
		gate:   publication.NewGateWithClock(now),
		logger: loggerOrDiscard(logger),
		now:    now,
	}
}

// CreateCourse creates a BUILDING course owned by an existing instructor
func (s *courseServiceImpl) CreateCourse(ctx context.Context, in NewCourse) (*domain.Course, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errors.NewInvalidInputError("title", in.Title, "title is required")
	}

	var created domain.Course
	err := s.runner.write(ctx, func(repo sqlstore.Repository) error {
		dbUser, err := repo.FindUserByID(ctx, in.InstructorID)
		if err != nil {
			return err
		}
		if !s.mapper.User.FromDatabase(*dbUser).IsInstructor() {
			return errors.NewInvalidInputError("instructor_id", in.InstructorID,
				"user "+strconv.FormatInt(in.InstructorID, 10)+" is not an instructor")
		}

		course := domain.NewCourse(title, strings.TrimSpace(in.Description), in.InstructorID)
		course.CreatedAt = s.now().UTC().Truncate(time.Microsecond)
		dbCourse := s.mapper.Course.ToDatabase(course)
		if err := repo.SaveCourse(ctx, &dbCourse); err != nil {
			return err
		}
		created = s.mapper.Course.FromDatabase(dbCourse)
		return nil
	})

	logOutcome(ctx, s.logger, "create course", err,
		slog.Int64("instructor_id", in.InstructorID), slog.String("title", title))
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetCourse retrieves a course by its ID
func (s *courseServiceImpl) GetCourse(ctx context.Context, id int64) (*domain.Course, error) {
	ctx, cancel := s.runner.read(ctx)
	defer cancel()

	dbCourse, err := s.runner.db.FindCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	course := s.mapper.Course.FromDatabase(*dbCourse)
	return &course, nil
}

// ListCourses returns every course ordered by ID
func (s *courseServiceImpl) ListCourses(ctx context.Context) ([]*domain.Course, error) {
	ctx, cancel := s.runner.read(ctx)
	defer cancel()

	dbCourses, err := s.runner.db.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	return toPointers(s.mapper.Course.FromDatabaseSlice(dbCourses)), nil
}

// ListTasks returns the tasks of a course by ascending position
func (s *courseServiceImpl) ListTasks(ctx context.Context, courseID int64) ([]*domain.Task, error) {
	ctx, cancel := s.runner.read(ctx)
	defer cancel()

	if _, err := s.runner.db.FindCourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	dbTasks, err := s.runner.db.FindTasksByCourseOrdered(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return toPointers(s.mapper.Task.FromDatabaseSlice(dbTasks)), nil
}

// PublishCourse moves a course from BUILDING to PUBLISHED when the
// publication checks pass
func (s *courseServiceImpl) PublishCourse(ctx context.Context, id int64) (*domain.Course, error) {
	var published domain.Course
	err := s.runner.write(ctx, func(repo sqlstore.Repository) error {
		course, err := s.gate.Publish(ctx, repo, id)
		if err != nil {
			return err
		}
		published = course
		return nil
	})

	metrics.PublishAttempts.WithLabelValues(metrics.Outcome(err)).Inc()
	logOutcome(ctx, s.logger, "publish course", err, slog.Int64("course_id", id))
	if err != nil {
		return nil, err
	}
	return &published, nil
}

func toPointers[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}
