package services

import (
	"context"
	"strconv"

	"course-authoring/internal/config"
	"course-authoring/internal/domain"
	"course-authoring/internal/errors"
	"course-authoring/internal/repository/sqlstore"
)

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	runner runner
	mapper *domain.Mapper
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(db sqlstore.Database, cfg *config.Config) ReportingService {
	return &reportingServiceImpl{
		runner: newRunner(db, cfg),
		mapper: domain.NewMapper(),
	}
}

// InstructorReport lists an instructor's courses with their task counts
func (s *reportingServiceImpl) InstructorReport(ctx context.Context, instructorID int64) (*InstructorReport, error) {
	ctx, cancel := s.runner.read(ctx)
	defer cancel()

	db := s.runner.db

	dbUser, err := db.FindUserByID(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	instructor := s.mapper.User.FromDatabase(*dbUser)
	if !instructor.IsInstructor() {
		return nil, errors.NewInvalidInputError("instructor_id", instructorID,
			"user "+strconv.FormatInt(instructorID, 10)+" is not an instructor")
	}

	dbCourses, err := db.FindCoursesByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	published, err := db.CountCoursesByInstructorAndStatus(ctx, instructorID, string(domain.CourseStatusPublished))
	if err != nil {
		return nil, err
	}

	report := &InstructorReport{
		Instructor:     instructor,
		Courses:        make([]*CourseOverview, 0, len(dbCourses)),
		TotalCourses:   len(dbCourses),
		PublishedCount: published,
	}

	for _, dbCourse := range dbCourses {
		count, err := db.CountTasksByCourse(ctx, dbCourse.ID)
		if err != nil {
			return nil, err
		}
		report.Courses = append(report.Courses, &CourseOverview{
			Course:    s.mapper.Course.FromDatabase(*dbCourse),
			TaskCount: count,
		})
		report.TotalTasks += count
	}

	return report, nil
}
