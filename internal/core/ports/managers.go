package ports

import (
	"context"

	"github.com/identikit/identity-server/internal/core/domain"
)

// UserManager adapts the user repository into uniform result envelopes with
// structured outcome logging. Absent rows and store failures surface as
// failed results; only programmer errors escalate past this boundary.
type UserManager interface {
	FindByEmail(ctx context.Context, email string) domain.Result[*domain.User]
	// Create rejects (zero-value result, translated to a failure) when
	// another user already holds the candidate email, compared
	// case-insensitively. The plaintext password is hashed before the store
	// is touched.
	Create(ctx context.Context, user *domain.User) domain.Result[*domain.User]
	// ValidateUser resolves the user by email and verifies the password
	// hash. Not-found and mismatch collapse into one undifferentiated
	// failure so callers cannot learn which half of the pair was wrong.
	ValidateUser(ctx context.Context, email, password string) domain.Result[*domain.User]
	FindByID(ctx context.Context, userID int) domain.Result[*domain.User]
	Update(ctx context.Context, user *domain.User) domain.Result[*domain.User]
	Delete(ctx context.Context, userID int) domain.Result[bool]
	GetAllUsers(ctx context.Context) domain.Result[[]*domain.User]
	// ResetPassword always re-hashes; plaintext never reaches the store.
	ResetPassword(ctx context.Context, userID int, newPassword string) domain.Result[bool]
}

// RoleManager adapts the role repository into result envelopes.
type RoleManager interface {
	// AddToRole assigns the role to the user, replacing any previous
	// assignment.
	AddToRole(ctx context.Context, userID, roleID int) domain.Result[bool]
	GetRoles(ctx context.Context, userID int) domain.Result[[]string]
	GetAllRoles(ctx context.Context) domain.Result[[]*domain.Role]
	CreateRole(ctx context.Context, name, description string) domain.Result[bool]
	GetRoleByID(ctx context.Context, roleID int) domain.Result[*domain.Role]
	UpdateRole(ctx context.Context, id int, name, description string) domain.Result[bool]
	DeleteRole(ctx context.Context, id int) domain.Result[bool]
}
