package domain

import "time"

// Role of a platform user.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
)

// User is a course author or learner. Credentials live outside this system.
type User struct {
	ID        int64
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}

// NewUser creates a new User with the given role.
func NewUser(name, email string, role Role) User {
	return User{
		Name:  name,
		Email: email,
		Role:  role,
	}
}

// IsInstructor returns true if the user may own courses.
func (u User) IsInstructor() bool {
	return u.Role == RoleInstructor
}

// ParseRole converts a stored or user supplied name into a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleInstructor:
		return Role(s), true
	default:
		return "", false
	}
}
