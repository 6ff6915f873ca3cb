package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/identikit/identity-server/internal/core/domain"
)

// UserRepository persists identity records in the users table. Lookups
// return (nil, nil) when no row matches; store failures come back as
// *domain.RepositoryError with the cause attached for logging.
type UserRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewUserRepository(db *sql.DB, log zerolog.Logger) *UserRepository {
	return &UserRepository{db: db, log: log}
}

const userColumns = "id, user_name, email, phone_number, date_created"

func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User, passwordHash string) (*domain.User, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (user_name, email, phone_number, password_hash) VALUES (?, ?, ?, ?)",
		user.UserName, normalizeEmail(user.Email), user.PhoneNumber, passwordHash)
	if err != nil {
		r.log.Error().Err(err).Msg("insert user failed")
		return nil, domain.NewRepositoryError("Error creating user from the database.", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, domain.NewRepositoryError("Error creating user from the database.", err)
	}

	// Fetch the row back so the caller sees the store-assigned id and
	// creation timestamp.
	created, err := r.GetUserByID(ctx, int(id))
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, domain.NewRepositoryError("User creation failed.", nil)
	}
	return created, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+", password_hash FROM users WHERE email = ? LIMIT 1",
		normalizeEmail(email))

	var u domain.User
	err := row.Scan(&u.ID, &u.UserName, &u.Email, &u.PhoneNumber, &u.DateCreated, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error().Err(err).Msg("fetch user by email failed")
		return nil, domain.NewRepositoryError("Error fetching user by email.", err)
	}
	return &u, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id)

	var u domain.User
	err := row.Scan(&u.ID, &u.UserName, &u.Email, &u.PhoneNumber, &u.DateCreated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error().Err(err).Msg("fetch user by id failed")
		return nil, domain.NewRepositoryError("Error fetching user by ID.", err)
	}
	return &u, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET phone_number = ?, email = ? WHERE id = ?",
		user.PhoneNumber, normalizeEmail(user.Email), user.ID)
	if err != nil {
		r.log.Error().Err(err).Msg("update user failed")
		return nil, domain.NewRepositoryError("Error occurred while updating user.", err)
	}
	return r.GetUserByID(ctx, user.ID)
}

func (r *UserRepository) DeleteUser(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		r.log.Error().Err(err).Msg("delete user failed")
		return false, domain.NewRepositoryError("An error occurred while deleting the user.", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, domain.NewRepositoryError("An error occurred while deleting the user.", err)
	}
	return affected > 0, nil
}

// GetUsers lists every user with role names resolved through the join;
// assignments whose role has been deleted drop out of the join and are
// therefore filtered at read time.
func (r *UserRepository) GetUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.user_name, u.email, u.phone_number, u.date_created, r.name
		FROM users u
		LEFT JOIN user_roles ur ON u.id = ur.user_id
		LEFT JOIN roles r ON ur.role_id = r.id
		ORDER BY u.id`)
	if err != nil {
		r.log.Error().Err(err).Msg("fetch users with roles failed")
		return nil, domain.NewRepositoryError("Error occurred while fetching users with roles.", err)
	}
	defer rows.Close()

	byID := make(map[int]*domain.User)
	ordered := make([]*domain.User, 0)
	for rows.Next() {
		var u domain.User
		var roleName sql.NullString
		if err := rows.Scan(&u.ID, &u.UserName, &u.Email, &u.PhoneNumber, &u.DateCreated, &roleName); err != nil {
			return nil, domain.NewRepositoryError("Error occurred while fetching users with roles.", err)
		}

		existing, ok := byID[u.ID]
		if !ok {
			u.Roles = []string{}
			existing = &u
			byID[u.ID] = existing
			ordered = append(ordered, existing)
		}
		if roleName.Valid && roleName.String != "" {
			existing.Roles = append(existing.Roles, roleName.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewRepositoryError("Error occurred while fetching users with roles.", err)
	}
	return ordered, nil
}

func (r *UserRepository) ResetPassword(ctx context.Context, id int, passwordHash string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, id)
	if err != nil {
		r.log.Error().Err(err).Msg("reset password failed")
		return false, domain.NewRepositoryError("Error occurred while resetting the password.", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, domain.NewRepositoryError("Error occurred while resetting the password.", err)
	}
	return affected > 0, nil
}

// normalizeEmail keeps the email uniqueness check case-insensitive: rows
// are stored and compared lowercased.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
