package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"github.com/identikit/identity-server/internal/core/domain"
)

const mysqlDuplicateEntry = 1062

// RoleRepository persists roles and user-role assignments.
type RoleRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewRoleRepository(db *sql.DB, log zerolog.Logger) *RoleRepository {
	return &RoleRepository{db: db, log: log}
}

func (r *RoleRepository) GetRoles(ctx context.Context) ([]*domain.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, description, date_created FROM roles ORDER BY id")
	if err != nil {
		r.log.Error().Err(err).Msg("fetch roles failed")
		return nil, domain.NewRepositoryError("Error occurred while fetching roles.", err)
	}
	defer rows.Close()

	// Non-nil even when the table is empty: an empty store lists
	// successfully, only a missing result is a failure upstream.
	roles := make([]*domain.Role, 0)
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.DateCreated); err != nil {
			return nil, domain.NewRepositoryError("Error occurred while fetching roles.", err)
		}
		roles = append(roles, &role)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewRepositoryError("Error occurred while fetching roles.", err)
	}
	return roles, nil
}

// AddUserToRole replaces the user's assignment: previous rows are deleted
// and the new one inserted inside a single transaction, committed on
// success and rolled back on any failure.
func (r *RoleRepository) AddUserToRole(ctx context.Context, userID, roleID int) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, domain.NewRepositoryError("Error occurred while updating user role.", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM user_roles WHERE user_id = ?", userID); err != nil {
		_ = tx.Rollback()
		r.log.Error().Err(err).Int("user_id", userID).Msg("clear previous role failed")
		return false, domain.NewRepositoryError("Error occurred while updating user role.", err)
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)", userID, roleID)
	if err != nil {
		_ = tx.Rollback()
		r.log.Error().Err(err).Int("user_id", userID).Int("role_id", roleID).Msg("assign role failed")
		return false, domain.NewRepositoryError("Error occurred while updating user role.", err)
	}

	if err := tx.Commit(); err != nil {
		return false, domain.NewRepositoryError("Error occurred while updating user role.", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, domain.NewRepositoryError("Error occurred while updating user role.", err)
	}
	return inserted > 0, nil
}

// GetUserRoles returns the role names held by the user. The inner join
// silently drops assignments whose role has been deleted.
func (r *RoleRepository) GetUserRoles(ctx context.Context, userID int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.name FROM roles r
		JOIN user_roles ur ON r.id = ur.role_id
		WHERE ur.user_id = ?`, userID)
	if err != nil {
		r.log.Error().Err(err).Int("user_id", userID).Msg("fetch user roles failed")
		return nil, domain.NewRepositoryError("Error occurred while fetching roles.", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, domain.NewRepositoryError("Error occurred while fetching roles.", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewRepositoryError("Error occurred while fetching roles.", err)
	}
	return names, nil
}

func (r *RoleRepository) CreateRole(ctx context.Context, name, description string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO roles (name, description) VALUES (?, ?)", name, description)
	if err != nil {
		if isDuplicate(err) {
			return false, domain.NewConflictError("Role already exists.")
		}
		r.log.Error().Err(err).Str("role", name).Msg("create role failed")
		return false, domain.NewRepositoryError("Error occurred while creating role.", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, domain.NewRepositoryError("Error occurred while creating role.", err)
	}
	return affected > 0, nil
}

func (r *RoleRepository) FindRoleByID(ctx context.Context, roleID int) (*domain.Role, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, description, date_created FROM roles WHERE id = ? LIMIT 1", roleID)

	var role domain.Role
	err := row.Scan(&role.ID, &role.Name, &role.Description, &role.DateCreated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error().Err(err).Int("role_id", roleID).Msg("fetch role by id failed")
		return nil, domain.NewRepositoryError("Error occurred while fetching role.", err)
	}
	return &role, nil
}

// UpdateRole overwrites name and/or description; empty arguments keep the
// stored value.
func (r *RoleRepository) UpdateRole(ctx context.Context, id int, name, description string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE roles
		SET name = COALESCE(NULLIF(?, ''), name),
		    description = COALESCE(NULLIF(?, ''), description)
		WHERE id = ?`, name, description, id)
	if err != nil {
		if isDuplicate(err) {
			return false, domain.NewConflictError("Role already exists.")
		}
		r.log.Error().Err(err).Int("role_id", id).Msg("update role failed")
		return false, domain.NewRepositoryError("Error occurred while updating role.", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, domain.NewRepositoryError("Error occurred while updating role.", err)
	}
	if affected > 0 {
		return true, nil
	}

	// MySQL reports zero affected rows when the submitted values match the
	// stored ones; only a missing row is an actual failure.
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM roles WHERE id = ?)", id).Scan(&exists); err != nil {
		return false, domain.NewRepositoryError("Error occurred while updating role.", err)
	}
	return exists, nil
}

// DeleteRole removes the role row only. Assignments pointing at it are left
// dangling on purpose and filtered out at read time.
func (r *RoleRepository) DeleteRole(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM roles WHERE id = ?", id)
	if err != nil {
		r.log.Error().Err(err).Int("role_id", id).Msg("delete role failed")
		return false, domain.NewRepositoryError("Error occurred while deleting role.", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, domain.NewRepositoryError("Error occurred while deleting role.", err)
	}
	return affected > 0, nil
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
