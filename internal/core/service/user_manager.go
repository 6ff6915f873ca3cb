package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/identikit/identity-server/internal/core/domain"
	"github.com/identikit/identity-server/internal/core/ports"
)

// UserManager orchestrates the user repository and password hasher behind
// uniform result envelopes.
type UserManager struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewUserManager(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *UserManager {
	return &UserManager{repo: repo, hasher: hasher, log: log}
}

func (m *UserManager) FindByEmail(ctx context.Context, email string) domain.Result[*domain.User] {
	return execute(ctx, m.log.With().Str("email", email).Logger(),
		"email check completed",
		"Error occurred while checking email.",
		func() (*domain.User, error) {
			return m.repo.GetUserByEmail(ctx, email)
		})
}

// Create hashes the candidate's password and inserts the record. A user
// already holding the email (case-insensitive) makes the whole operation
// come back absent, which execute turns into a failure.
func (m *UserManager) Create(ctx context.Context, user *domain.User) domain.Result[*domain.User] {
	return execute(ctx, m.log.With().Str("email", user.Email).Logger(),
		"user created",
		"An error occurred while creating the user.",
		func() (*domain.User, error) {
			existing, err := m.repo.GetUserByEmail(ctx, user.Email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, nil
			}

			hashed, err := m.hasher.HashPassword(user.Password)
			if err != nil {
				return nil, err
			}
			return m.repo.CreateUser(ctx, user, hashed)
		})
}

// ValidateUser checks the credential pair. An unknown email and a wrong
// password are indistinguishable in the returned result.
func (m *UserManager) ValidateUser(ctx context.Context, email, password string) domain.Result[*domain.User] {
	return execute(ctx, m.log.With().Str("email", email).Logger(),
		"user validated",
		"Invalid credentials.",
		func() (*domain.User, error) {
			user, err := m.repo.GetUserByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if user == nil {
				return nil, nil
			}
			if !m.hasher.VerifyPassword(user.PasswordHash, password) {
				return nil, nil
			}
			return user, nil
		})
}

func (m *UserManager) FindByID(ctx context.Context, userID int) domain.Result[*domain.User] {
	return execute(ctx, m.log.With().Int("user_id", userID).Logger(),
		"user found",
		"Error occurred while finding the user.",
		func() (*domain.User, error) {
			return m.repo.GetUserByID(ctx, userID)
		})
}

func (m *UserManager) Update(ctx context.Context, user *domain.User) domain.Result[*domain.User] {
	return execute(ctx, m.log.With().Int("user_id", user.ID).Logger(),
		"user updated",
		"Failed to update user.",
		func() (*domain.User, error) {
			return m.repo.UpdateUser(ctx, user)
		})
}

func (m *UserManager) Delete(ctx context.Context, userID int) domain.Result[bool] {
	return execute(ctx, m.log.With().Int("user_id", userID).Logger(),
		"user deleted",
		"Failed to delete the user.",
		func() (bool, error) {
			return m.repo.DeleteUser(ctx, userID)
		})
}

func (m *UserManager) GetAllUsers(ctx context.Context) domain.Result[[]*domain.User] {
	return execute(ctx, m.log,
		"fetched all users",
		"Error occurred while fetching users.",
		func() ([]*domain.User, error) {
			return m.repo.GetUsers(ctx)
		})
}

// ResetPassword re-hashes before persisting; plaintext never reaches the
// repository.
func (m *UserManager) ResetPassword(ctx context.Context, userID int, newPassword string) domain.Result[bool] {
	return execute(ctx, m.log.With().Int("user_id", userID).Logger(),
		"password reset",
		"Error occurred while resetting the password.",
		func() (bool, error) {
			hashed, err := m.hasher.HashPassword(newPassword)
			if err != nil {
				return false, err
			}
			return m.repo.ResetPassword(ctx, userID, hashed)
		})
}
