package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"github.com/starquake/quizdesk/internal/db"
	"github.com/starquake/quizdesk/internal/user"
)

// UserStore provides methods for managing user accounts in a database.
type UserStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewUserStore initializes and returns a UserStore instance with the provided database connection and logger.
func NewUserStore(conn *sql.DB, logger *slog.Logger) *UserStore {
	return &UserStore{db: conn, logger: logger}
}

// CreateUser stores a new user, defaulting its role to student, and sets its ID and CreatedAt.
// Returns user.ErrInvalidUser if required fields are missing.
func (s *UserStore) CreateUser(ctx context.Context, u *user.User) error {
	if u.Role == "" {
		u.Role = user.RoleStudent
	}
	if problems := u.Valid(ctx); len(problems) > 0 {
		return fmt.Errorf("%w: %v", user.ErrInvalidUser, problems)
	}

	id := xid.New().String()
	createdAt := db.Now()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO users (id, username, password, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, u.Username, u.Password, string(u.Role), db.Timestamp(createdAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = id
	u.CreatedAt = createdAt

	return nil
}

// FindUserByCredentials returns the first user, in insertion order, with exactly this username and password.
// Returns user.ErrUserNotFound if there is no such user.
func (s *UserStore) FindUserByCredentials(ctx context.Context, username, password string) (*user.User, error) {
	var role string
	var createdAt db.Timestamp
	u := &user.User{}
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, username, password, role, created_at FROM users
		WHERE username = ? AND password = ?
		ORDER BY rowid
		LIMIT 1`,
		username, password,
	).Scan(&u.ID, &u.Username, &u.Password, &role, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	u.Role = user.Role(role)
	u.CreatedAt = time.Time(createdAt)

	return u, nil
}

// CountUsers returns the number of users.
func (s *UserStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}
