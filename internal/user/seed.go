package user

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultPassword is the password of the seeded accounts.
const DefaultPassword = "123"

// DefaultUsers returns the accounts created on first start.
func DefaultUsers() []*User {
	return []*User{
		{Username: "admin", Password: DefaultPassword, Role: RoleAdmin},
		{Username: "student", Password: DefaultPassword, Role: RoleStudent},
	}
}

// Seed creates the default accounts when the store holds no users yet. It reports whether anything was created.
// Two processes seeding the same empty store at once may both insert the accounts.
func Seed(ctx context.Context, logger *slog.Logger, store Store) (bool, error) {
	count, err := store.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("error counting users: %w", err)
	}
	if count > 0 {
		logger.DebugContext(ctx, "users present, skipping seed", slog.Int64("count", count))

		return false, nil
	}

	for _, u := range DefaultUsers() {
		if err = store.CreateUser(ctx, u); err != nil {
			return false, fmt.Errorf("error creating user %q: %w", u.Username, err)
		}
	}
	logger.InfoContext(ctx, "created default users", slog.String("users", "admin/"+DefaultPassword+", student/"+DefaultPassword))

	return true, nil
}
