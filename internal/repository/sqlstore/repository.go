package sqlstore

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"course-authoring/internal/errors"
	"course-authoring/internal/repository/sqlstore/migrations"
)

// Repository defines the persistence operations used by the authoring core.
// A Repository obtained through Database.WithinTx is bound to one transaction.
type Repository interface {
	// Courses
	FindCourseByID(ctx context.Context, id int64) (*Course, error)
	SaveCourse(ctx context.Context, course *Course) error
	ListCourses(ctx context.Context) ([]*Course, error)
	FindCoursesByInstructor(ctx context.Context, instructorID int64) ([]*Course, error)
	CountCoursesByInstructorAndStatus(ctx context.Context, instructorID int64, status string) (int, error)

	// Tasks
	FindMaxOrderForCourse(ctx context.Context, courseID int64) (int, bool, error)
	ExistsTaskWithStatement(ctx context.Context, courseID int64, statement string) (bool, error)
	ExistsTaskAtOrder(ctx context.Context, courseID int64, order int) (bool, error)
	FindTasksAtOrGreaterThan(ctx context.Context, courseID int64, order int) ([]*Task, error)
	FindTasksByCourseOrdered(ctx context.Context, courseID int64) ([]*Task, error)
	CountTasksByCourse(ctx context.Context, courseID int64) (int, error)
	SaveTask(ctx context.Context, task *Task) error

	// Users
	CreateUser(ctx context.Context, user *User) error
	FindUserByID(ctx context.Context, id int64) (*User, error)
	ExistsUserWithEmail(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context) ([]*User, error)
}

// Database is a Repository that can also open transactions
type Database interface {
	Repository

	// WithinTx runs fn against a transaction-bound Repository. The
	// transaction commits only when fn returns nil.
	WithinTx(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}

// Options configures Open
type Options struct {
	Dialect         Dialect
	DSN             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	Logger          *slog.Logger
}

// Store implements Database on top of sqlx
type Store struct {
	*repo
	db      *sqlx.DB
	dialect Dialect
	logger  *slog.Logger
}

// New opens a SQLite store at dbPath and applies migrations
func New(dbPath string) (*Store, error) {
	return Open(context.Background(), Options{Dialect: DialectSQLite, DSN: dbPath})
}

// Open connects to the configured backend and applies pending migrations
func Open(ctx context.Context, opts Options) (*Store, error) {
	dialect := opts.Dialect
	if dialect == "" {
		dialect = DialectSQLite
	}

	dsn := opts.DSN
	if dialect == DialectSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sqlx.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	if dialect == DialectSQLite {
		// One connection serializes writers and keeps :memory: databases alive.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		if opts.MaxOpenConns > 0 {
			db.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(opts.ConnMaxLifetime)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, HandleDatabaseError("connect", err)
	}

	if err := migrations.NewMigrator(db, dialect.MigrationsDir(), opts.Logger).Up(ctx); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &Store{repo: &repo{q: db}, db: db, dialect: dialect, logger: opts.Logger}, nil
}

// Dialect reports the backend the store is connected to
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// WithinTx runs fn inside a transaction
func (s *Store) WithinTx(ctx context.Context, fn func(Repository) error) error {
	var txOpts *sql.TxOptions
	if s.dialect == DialectPostgres {
		txOpts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead}
	}

	tx, err := s.db.BeginTxx(ctx, txOpts)
	if err != nil {
		return HandleDatabaseError("begin transaction", err)
	}

	if err := fn(&repo{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit transaction", err)
	}
	return nil
}

// MigrationVersions lists the applied schema versions in ascending order
func (s *Store) MigrationVersions(ctx context.Context) ([]int, error) {
	versions, err := migrations.NewMigrator(s.db, s.dialect.MigrationsDir(), s.logger).Applied(ctx)
	if err != nil {
		return nil, HandleDatabaseError("read migrations", err)
	}
	return versions, nil
}

// RevertLastMigration undoes the newest applied migration and returns its
// version, or 0 when the schema is empty
func (s *Store) RevertLastMigration(ctx context.Context) (int, error) {
	version, err := migrations.NewMigrator(s.db, s.dialect.MigrationsDir(), s.logger).Down(ctx)
	if err != nil {
		return 0, HandleDatabaseError("revert migration", err)
	}
	return version, nil
}

// Ping verifies the database connection
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return HandleDatabaseError("ping", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// repo runs queries against either the pool or a transaction
type repo struct {
	q sqlx.ExtContext
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (r *repo) rebind(query string) string {
	return r.q.Rebind(query)
}

// FindCourseByID retrieves a course by ID
func (r *repo) FindCourseByID(ctx context.Context, id int64) (*Course, error) {
	query := `
	SELECT id, title, description, instructor_id, status, created_at, published_at
	FROM courses
	WHERE id = ?`

	return QuerySingle[Course](ctx, r.q, r.rebind(query), "course", idString(id), id)
}

// SaveCourse inserts a course when its ID is zero, otherwise updates it
func (r *repo) SaveCourse(ctx context.Context, course *Course) error {
	if course.ID == 0 {
		query := `
		INSERT INTO courses (title, description, instructor_id, status, created_at, published_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`

		id, err := InsertReturningID(ctx, r.q, "insert course", r.rebind(query),
			course.Title, course.Description, course.InstructorID, course.Status,
			FormatTimeForDB(course.CreatedAt), FormatTimePtrForDB(course.PublishedAt))
		if err != nil {
			return err
		}
		course.ID = id
		return nil
	}

	query := `
	UPDATE courses
	SET title = ?, description = ?, status = ?, published_at = ?
	WHERE id = ?`

	return ExecuteWithRowsAffected(ctx, r.q, r.rebind(query), "course", idString(course.ID),
		course.Title, course.Description, course.Status, FormatTimePtrForDB(course.PublishedAt), course.ID)
}

// ListCourses retrieves all courses
func (r *repo) ListCourses(ctx context.Context) ([]*Course, error) {
	query := `
	SELECT id, title, description, instructor_id, status, created_at, published_at
	FROM courses
	ORDER BY id ASC`

	return QueryMultiple[Course](ctx, r.q, query, "courses")
}

// FindCoursesByInstructor retrieves the courses owned by an instructor
func (r *repo) FindCoursesByInstructor(ctx context.Context, instructorID int64) ([]*Course, error) {
	query := `
	SELECT id, title, description, instructor_id, status, created_at, published_at
	FROM courses
	WHERE instructor_id = ?
	ORDER BY id ASC`

	return QueryMultiple[Course](ctx, r.q, r.rebind(query), "courses", instructorID)
}

func (r *repo) CountCoursesByInstructorAndStatus(ctx context.Context, instructorID int64, status string) (int, error) {
	query := `SELECT COUNT(*) FROM courses WHERE instructor_id = ? AND status = ?`
	return QueryScalar[int](ctx, r.q, r.rebind(query), "count courses", instructorID, status)
}

// FindMaxOrderForCourse returns the highest task order in a course. The
// boolean is false when the course has no tasks.
func (r *repo) FindMaxOrderForCourse(ctx context.Context, courseID int64) (int, bool, error) {
	query := `SELECT MAX(order_number) FROM tasks WHERE course_id = ?`
	maxOrder, err := QueryScalar[sql.NullInt64](ctx, r.q, r.rebind(query), "find max order", courseID)
	if err != nil {
		return 0, false, err
	}
	if !maxOrder.Valid {
		return 0, false, nil
	}
	return int(maxOrder.Int64), true, nil
}

func (r *repo) ExistsTaskWithStatement(ctx context.Context, courseID int64, statement string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tasks WHERE course_id = ? AND statement = ?)`
	return QueryScalar[bool](ctx, r.q, r.rebind(query), "check task statement", courseID, statement)
}

func (r *repo) ExistsTaskAtOrder(ctx context.Context, courseID int64, order int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tasks WHERE course_id = ? AND order_number = ?)`
	return QueryScalar[bool](ctx, r.q, r.rebind(query), "check task order", courseID, order)
}

// FindTasksAtOrGreaterThan retrieves tasks whose order is >= order, ascending
func (r *repo) FindTasksAtOrGreaterThan(ctx context.Context, courseID int64, order int) ([]*Task, error) {
	query := `
	SELECT id, course_id, statement, type, order_number, created_at
	FROM tasks
	WHERE course_id = ? AND order_number >= ?
	ORDER BY order_number ASC`

	return QueryMultiple[Task](ctx, r.q, r.rebind(query), "tasks", courseID, order)
}

// FindTasksByCourseOrdered retrieves all tasks of a course by ascending order
func (r *repo) FindTasksByCourseOrdered(ctx context.Context, courseID int64) ([]*Task, error) {
	query := `
	SELECT id, course_id, statement, type, order_number, created_at
	FROM tasks
	WHERE course_id = ?
	ORDER BY order_number ASC`

	return QueryMultiple[Task](ctx, r.q, r.rebind(query), "tasks", courseID)
}

func (r *repo) CountTasksByCourse(ctx context.Context, courseID int64) (int, error) {
	query := `SELECT COUNT(*) FROM tasks WHERE course_id = ?`
	return QueryScalar[int](ctx, r.q, r.rebind(query), "count tasks", courseID)
}

// SaveTask inserts a task when its ID is zero. Existing tasks only ever
// change position, so updates touch order_number alone.
func (r *repo) SaveTask(ctx context.Context, task *Task) error {
	if task.ID == 0 {
		query := `
		INSERT INTO tasks (course_id, statement, type, order_number, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`

		id, err := InsertReturningID(ctx, r.q, "insert task", r.rebind(query),
			task.CourseID, task.Statement, task.Type, task.OrderNumber, FormatTimeForDB(task.CreatedAt))
		if err != nil {
			return err
		}
		task.ID = id
		return nil
	}

	query := `UPDATE tasks SET order_number = ? WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.q, r.rebind(query), "task", idString(task.ID), task.OrderNumber, task.ID)
}

// CreateUser inserts a new user
func (r *repo) CreateUser(ctx context.Context, user *User) error {
	query := `
	INSERT INTO users (name, email, role, created_at)
	VALUES (?, ?, ?, ?)
	RETURNING id`

	id, err := InsertReturningID(ctx, r.q, "insert user", r.rebind(query), user.Name, user.Email, user.Role, FormatTimeForDB(user.CreatedAt))
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

// FindUserByID retrieves a user by ID
func (r *repo) FindUserByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT id, name, email, role, created_at FROM users WHERE id = ?`
	return QuerySingle[User](ctx, r.q, r.rebind(query), "user", idString(id), id)
}

func (r *repo) ExistsUserWithEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER(?))`
	return QueryScalar[bool](ctx, r.q, r.rebind(query), "check user email", email)
}

// ListUsers retrieves all users
func (r *repo) ListUsers(ctx context.Context) ([]*User, error) {
	query := `SELECT id, name, email, role, created_at FROM users ORDER BY id ASC`
	return QueryMultiple[User](ctx, r.q, query, "users")
}

var _ Database = (*Store)(nil)
