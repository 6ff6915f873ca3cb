package ports

import (
	"context"

	"github.com/identikit/identity-server/internal/core/domain"
)

// RoleRepository is the persistence boundary for roles and user-role
// assignments.
type RoleRepository interface {
	GetRoles(ctx context.Context) ([]*domain.Role, error)
	// AddUserToRole replaces any existing assignment for the user: the
	// previous rows are deleted and the new one inserted in a single
	// transaction. Assignment, not accumulation.
	AddUserToRole(ctx context.Context, userID, roleID int) (bool, error)
	// GetUserRoles returns the role names held by the user, an empty
	// non-nil slice when none.
	GetUserRoles(ctx context.Context, userID int) ([]string, error)
	CreateRole(ctx context.Context, name, description string) (bool, error)
	// FindRoleByID returns (nil, nil) when the role does not exist.
	FindRoleByID(ctx context.Context, roleID int) (*domain.Role, error)
	// UpdateRole overwrites name and/or description; empty strings leave the
	// stored value untouched. Resubmitting the stored values is still true;
	// only a missing role reports false.
	UpdateRole(ctx context.Context, id int, name, description string) (bool, error)
	DeleteRole(ctx context.Context, id int) (bool, error)
}
