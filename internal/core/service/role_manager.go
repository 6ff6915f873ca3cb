package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/identikit/identity-server/internal/core/domain"
	"github.com/identikit/identity-server/internal/core/ports"
)

// RoleManager orchestrates the role repository behind uniform result
// envelopes.
type RoleManager struct {
	repo ports.RoleRepository
	log  zerolog.Logger
}

func NewRoleManager(repo ports.RoleRepository, log zerolog.Logger) *RoleManager {
	return &RoleManager{repo: repo, log: log}
}

// AddToRole assigns the role to the user. The repository replaces any
// previous assignment in the same transaction.
func (m *RoleManager) AddToRole(ctx context.Context, userID, roleID int) domain.Result[bool] {
	return execute(ctx, m.log.With().Int("user_id", userID).Int("role_id", roleID).Logger(),
		"user added to role",
		"Error occurred while adding user to role.",
		func() (bool, error) {
			return m.repo.AddUserToRole(ctx, userID, roleID)
		})
}

func (m *RoleManager) GetRoles(ctx context.Context, userID int) domain.Result[[]string] {
	return execute(ctx, m.log.With().Int("user_id", userID).Logger(),
		"fetched user roles",
		"Error occurred while fetching roles for user.",
		func() ([]string, error) {
			return m.repo.GetUserRoles(ctx, userID)
		})
}

func (m *RoleManager) GetAllRoles(ctx context.Context) domain.Result[[]*domain.Role] {
	return execute(ctx, m.log,
		"fetched all roles",
		"Error occurred while fetching roles.",
		func() ([]*domain.Role, error) {
			return m.repo.GetRoles(ctx)
		})
}

func (m *RoleManager) CreateRole(ctx context.Context, name, description string) domain.Result[bool] {
	return execute(ctx, m.log.With().Str("role", name).Logger(),
		"role created",
		"Failed to create role.",
		func() (bool, error) {
			return m.repo.CreateRole(ctx, name, description)
		})
}

func (m *RoleManager) GetRoleByID(ctx context.Context, roleID int) domain.Result[*domain.Role] {
	return execute(ctx, m.log.With().Int("role_id", roleID).Logger(),
		"role found",
		"Role not found.",
		func() (*domain.Role, error) {
			return m.repo.FindRoleByID(ctx, roleID)
		})
}

func (m *RoleManager) UpdateRole(ctx context.Context, id int, name, description string) domain.Result[bool] {
	return execute(ctx, m.log.With().Int("role_id", id).Logger(),
		"role updated",
		"Failed to update role.",
		func() (bool, error) {
			return m.repo.UpdateRole(ctx, id, name, description)
		})
}

func (m *RoleManager) DeleteRole(ctx context.Context, id int) domain.Result[bool] {
	return execute(ctx, m.log.With().Int("role_id", id).Logger(),
		"role deleted",
		"Failed to delete role.",
		func() (bool, error) {
			return m.repo.DeleteRole(ctx, id)
		})
}
