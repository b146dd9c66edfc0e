package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"course-authoring/internal/config"
	"course-authoring/internal/domain"
	"course-authoring/internal/errors"
	"course-authoring/internal/repository/sqlstore"
)

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	runner runner
	mapper *domain.Mapper
	logger *slog.Logger
	now    func() time.Time
}

// NewUserService creates a new UserService instance
func NewUserService(db sqlstore.Database, cfg *config.Config, logger *slog.Logger) UserService {
	return &userServiceImpl{
		runner: newRunner(db, cfg),
		mapper: domain.NewMapper(),
		logger: loggerOrDiscard(logger),
		now:    time.Now,
	}
}

// CreateUser registers a user. Emails are stored lower-cased and must be
// unique.
func (s *userServiceImpl) CreateUser(ctx context.Context, in NewUser) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.NewInvalidInputError("name", in.Name, "name is required")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, errors.NewInvalidInputError("email", in.Email, "email is required")
	}
	role, ok := domain.ParseRole(strings.ToUpper(strings.TrimSpace(string(in.Role))))
	if !ok {
		return nil, errors.NewInvalidInputError("role", in.Role, "role must be STUDENT or INSTRUCTOR")
	}

	var created domain.User
	err := s.runner.write(ctx, func(repo sqlstore.Repository) error {
		exists, err := repo.ExistsUserWithEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return errors.NewConflictError("user", "email "+email+" is already registered", nil)
		}

		user := domain.NewUser(name, email, role)
		user.CreatedAt = s.now().UTC().Truncate(time.Microsecond)
		dbUser := s.mapper.User.ToDatabase(user)
		if err := repo.CreateUser(ctx, &dbUser); err != nil {
			return err
		}
		created = s.mapper.User.FromDatabase(dbUser)
		return nil
	})

	logOutcome(ctx, s.logger, "create user", err, slog.String("email", email), slog.String("role", string(role)))
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetUser retrieves a user by ID
func (s *userServiceImpl) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := s.runner.read(ctx)
	defer cancel()

	dbUser, err := s.runner.db.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user := s.mapper.User.FromDatabase(*dbUser)
	return &user, nil
}

// ListUsers returns every user ordered by ID
func (s *userServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := s.runner.read(ctx)
	defer cancel()

	dbUsers, err := s.runner.db.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return toPointers(s.mapper.User.FromDatabaseSlice(dbUsers)), nil
}
