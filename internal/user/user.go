// Package user contains the user domain: accounts, roles and the bootstrap seeding of default accounts.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrUserNotFound is returned when no user matches a lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidUser is returned when a user is missing required fields.
	ErrInvalidUser = errors.New("invalid user")
)

// Role is the role of a user.
type Role string

const (
	// RoleAdmin may create and delete quizzes.
	RoleAdmin Role = "admin"
	// RoleStudent may read quizzes.
	RoleStudent Role = "student"
)

// User represents an account. Passwords are stored and compared in cleartext.
type User struct {
	ID        string
	Username  string `validate:"required"`
	Password  string `validate:"required"`
	Role      Role   `validate:"oneof=admin student"`
	CreatedAt time.Time
}

//nolint:gochecknoglobals // validator caches struct metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Valid checks if the user is valid. It returns a map of field name to problem, empty when the user is valid.
func (u *User) Valid(_ context.Context) map[string]string {
	problems := make(map[string]string)

	err := validate.Struct(u)
	if err == nil {
		return problems
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		problems["user"] = err.Error()

		return problems
	}
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			problems[fe.Field()] = fe.Field() + " is required"
		case "oneof":
			problems[fe.Field()] = fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
		default:
			problems[fe.Field()] = fe.Error()
		}
	}

	return problems
}

// Store represents a store for users.
type Store interface {
	// CreateUser stores a new user and sets its ID and CreatedAt. Usernames are not required to be unique.
	CreateUser(ctx context.Context, u *User) error
	// FindUserByCredentials returns the first user whose username and password match exactly.
	// It returns ErrUserNotFound when there is no match.
	FindUserByCredentials(ctx context.Context, username, password string) (*User, error)
	// CountUsers returns the number of stored users.
	CountUsers(ctx context.Context) (int64, error)
}
