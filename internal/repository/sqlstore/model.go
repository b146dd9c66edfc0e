package sqlstore

import "time"

// User is a row of the users table.
type User struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

// Course is a row of the courses table.
type Course struct {
	ID           int64      `db:"id"`
	Title        string     `db:"title"`
	Description  string     `db:"description"`
	InstructorID int64      `db:"instructor_id"`
	Status       string     `db:"status"`
	CreatedAt    time.Time  `db:"created_at"`
	PublishedAt  *time.Time `db:"published_at"` // NULL until published
}

// Task is a row of the tasks table.
// (course_id, order_number) and (course_id, statement) are unique.
type Task struct {
	ID          int64     `db:"id"`
	CourseID    int64     `db:"course_id"`
	Statement   string    `db:"statement"`
	Type        string    `db:"type"`
	OrderNumber int       `db:"order_number"`
	CreatedAt   time.Time `db:"created_at"`
}
