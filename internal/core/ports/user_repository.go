package ports

import (
	"context"

	"github.com/identikit/identity-server/internal/core/domain"
)

// UserRepository is the persistence boundary for identity records.
//
// Lookups return (nil, nil) when no row matches; only store-level failures
// produce an error, wrapped as *domain.RepositoryError.
type UserRepository interface {
	// CreateUser inserts a user with the given password hash and returns the
	// stored row, including the store-assigned id and creation timestamp.
	CreateUser(ctx context.Context, user *domain.User, passwordHash string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int) (*domain.User, error)
	// UpdateUser persists the mutable fields (email, phone number) and
	// returns the row as stored afterwards.
	UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	DeleteUser(ctx context.Context, id int) (bool, error)
	// GetUsers returns all users with their role names resolved; users whose
	// role assignment dangles (role deleted) simply carry fewer names.
	GetUsers(ctx context.Context) ([]*domain.User, error)
	ResetPassword(ctx context.Context, id int, passwordHash string) (bool, error)
}
