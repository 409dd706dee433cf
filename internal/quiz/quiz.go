// Package quiz contains the quiz domain: quizzes, their multiple-choice questions and the store contract.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
)

var (
	// ErrQuizNotFound is returned when a quiz is not found.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidID is returned when an identifier is not a valid quiz ID.
	ErrInvalidID = errors.New("invalid quiz id")
)

// Quiz represents a quiz.
type Quiz struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
	Questions   []*Question
}

// Question represents a multiple-choice question. Correct is the index of the right answer in Options and is not
// checked against the number of options.
type Question struct {
	Text    string
	Options []string
	Correct int
}

// Store represents a store for quizzes.
// This can be implemented for different databases.
type Store interface {
	// Ping checks that the underlying storage is reachable.
	Ping(ctx context.Context) error
	// ListQuizzes returns all quizzes with their questions, in insertion order.
	ListQuizzes(ctx context.Context) ([]*Quiz, error)
	// GetQuiz returns a quiz with its questions. It returns ErrInvalidID when id is malformed and ErrQuizNotFound
	// when no quiz has that id.
	GetQuiz(ctx context.Context, id string) (*Quiz, error)
	// CreateQuiz stores a quiz and sets its ID and CreatedAt.
	CreateQuiz(ctx context.Context, qz *Quiz) error
	// DeleteQuiz removes a quiz. Deleting a quiz that does not exist is not an error.
	DeleteQuiz(ctx context.Context, id string) error
}

// NewID returns a new quiz identifier.
func NewID() string {
	return xid.New().String()
}

// ParseID checks that s is a syntactically valid quiz identifier and returns it in canonical form.
func ParseID(s string) (string, error) {
	id, err := xid.FromString(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, s)
	}

	return id.String(), nil
}
