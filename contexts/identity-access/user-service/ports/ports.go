package ports

import (
	"context"
	"time"

	"rutanagenda/contexts/identity-access/user-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for new users.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// UserRepository is the read/write boundary for user accounts.
// Lookups by email expect the normalized (lower case) form.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]entities.User, error)
	ListUsersByRole(ctx context.Context, role entities.Role) ([]entities.User, error)
	GetUser(ctx context.Context, userID string) (entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (entities.User, error)
	CountUsersByRole(ctx context.Context, role entities.Role) (int, error)
	CreateUser(ctx context.Context, user entities.User) error
	UpdateUser(ctx context.Context, user entities.User) error
	// DeleteUser reports ErrUserHasRelatedData when agendas or responses
	// still reference the user.
	DeleteUser(ctx context.Context, userID string) error
}
