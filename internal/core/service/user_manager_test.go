package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/identikit/identity-server/internal/core/domain"
)

// stubUserRepo is a hand-rolled in-memory UserRepository for manager tests.
type stubUserRepo struct {
	users  map[string]*domain.User // keyed by lowercase email
	nextID int
	err    error
	calls  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]*domain.User{}, nextID: 1}
}

func (s *stubUserRepo) CreateUser(_ context.Context, user *domain.User, passwordHash string) (*domain.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	stored := *user
	stored.ID = s.nextID
	stored.PasswordHash = passwordHash
	s.nextID++
	s.users[strings.ToLower(user.Email)] = &stored
	return &stored, nil
}

func (s *stubUserRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.users[strings.ToLower(email)], nil
}

func (s *stubUserRepo) GetUserByID(_ context.Context, id int) (*domain.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUserRepo) UpdateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return user, nil
}

func (s *stubUserRepo) DeleteUser(_ context.Context, id int) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	for email, u := range s.users {
		if u.ID == id {
			delete(s.users, email)
			return true, nil
		}
	}
	return false, nil
}

func (s *stubUserRepo) GetUsers(_ context.Context) ([]*domain.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	all := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	return all, nil
}

func (s *stubUserRepo) ResetPassword(_ context.Context, id int, passwordHash string) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	for _, u := range s.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			return true, nil
		}
	}
	return false, nil
}

func TestUserManager_Create(t *testing.T) {
	repo := newStubUserRepo()
	m := NewUserManager(repo, NewPasswordHasher(), zerolog.Nop())

	result := m.Create(context.Background(), &domain.User{
		UserName: "Maria",
		Email:    "mimi@gmail.com",
		Password: "Secret1!",
	})

	if !result.IsSuccess {
		t.Fatalf("expected success, got %q", result.Error)
	}
	if result.Data.ID != 1 {
		t.Fatalf("expected assigned id 1, got %d", result.Data.ID)
	}
	if result.Data.PasswordHash == "" || result.Data.PasswordHash == "Secret1!" {
		t.Fatalf("password was not hashed before storage")
	}
}

func TestUserManager_CreateDuplicateEmailFails(t *testing.T) {
	repo := newStubUserRepo()
	m := NewUserManager(repo, NewPasswordHasher(), zerolog.Nop())

	first := m.Create(context.Background(), &domain.User{UserName: "Maria", Email: "mimi@gmail.com", Password: "Secret1!"})
	if !first.IsSuccess {
		t.Fatalf("first create failed: %q", first.Error)
	}

	// Same address, different casing.
	second := m.Create(context.Background(), &domain.User{UserName: "Other", Email: "MIMI@gmail.com", Password: "Secret1!"})
	if second.IsSuccess {
		t.Fatalf("duplicate email should not create a second account")
	}
	if second.Error != "An error occurred while creating the user." {
		t.Fatalf("unexpected error %q", second.Error)
	}
}

func TestUserManager_ValidateUser(t *testing.T) {
	repo := newStubUserRepo()
	m := NewUserManager(repo, NewPasswordHasher(), zerolog.Nop())
	m.Create(context.Background(), &domain.User{UserName: "Maria", Email: "mimi@gmail.com", Password: "Secret1!"})

	good := m.ValidateUser(context.Background(), "mimi@gmail.com", "Secret1!")
	if !good.IsSuccess {
		t.Fatalf("valid credentials rejected: %q", good.Error)
	}
	if good.Data.UserName != "Maria" {
		t.Fatalf("unexpected user %q", good.Data.UserName)
	}

	// Unknown email and wrong password must be indistinguishable.
	wrongPassword := m.ValidateUser(context.Background(), "mimi@gmail.com", "nope")
	unknownEmail := m.ValidateUser(context.Background(), "ghost@gmail.com", "Secret1!")
	for _, r := range []domain.Result[*domain.User]{wrongPassword, unknownEmail} {
		if r.IsSuccess {
			t.Fatalf("invalid credentials accepted")
		}
		if r.Error != "Invalid credentials." {
			t.Fatalf("unexpected error %q", r.Error)
		}
	}
}

func TestUserManager_RepositoryErrorHidesDetail(t *testing.T) {
	repo := newStubUserRepo()
	repo.err = domain.NewRepositoryError("select user", errors.New("connection refused"))
	m := NewUserManager(repo, NewPasswordHasher(), zerolog.Nop())

	result := m.FindByEmail(context.Background(), "mimi@gmail.com")
	if result.IsSuccess {
		t.Fatalf("expected failure")
	}
	if result.Error != "Error occurred while checking email." {
		t.Fatalf("store detail leaked: %q", result.Error)
	}
}

func TestUserManager_UnexpectedErrorSurfacesGenerically(t *testing.T) {
	repo := newStubUserRepo()
	repo.err = errors.New("boom")
	m := NewUserManager(repo, NewPasswordHasher(), zerolog.Nop())

	result := m.Delete(context.Background(), 1)
	if result.IsSuccess {
		t.Fatalf("expected failure")
	}
	if result.Error != "Unexpected error occurred while executing the operation." {
		t.Fatalf("unexpected error %q", result.Error)
	}
}

func TestUserManager_CancelledContextSkipsRepository(t *testing.T) {
	repo := newStubUserRepo()
	m := NewUserManager(repo, NewPasswordHasher(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := m.GetAllUsers(ctx)
	if result.IsSuccess {
		t.Fatalf("expected cancellation failure")
	}
	if result.Error != "Request cancelled." || result.StatusCode != domain.StatusCancelled {
		t.Fatalf("unexpected result %+v", result)
	}
	if repo.calls != 0 {
		t.Fatalf("repository was called %d times after cancellation", repo.calls)
	}
}

func TestUserManager_ResetPasswordRehashes(t *testing.T) {
	repo := newStubUserRepo()
	hasher := NewPasswordHasher()
	m := NewUserManager(repo, hasher, zerolog.Nop())
	m.Create(context.Background(), &domain.User{UserName: "Maria", Email: "mimi@gmail.com", Password: "Old1!pass"})

	result := m.ResetPassword(context.Background(), 1, "New1!pass")
	if !result.IsSuccess || !result.Data {
		t.Fatalf("reset failed: %+v", result)
	}

	stored := repo.users["mimi@gmail.com"]
	if stored.PasswordHash == "New1!pass" {
		t.Fatalf("plaintext reached the repository")
	}
	if !hasher.VerifyPassword(stored.PasswordHash, "New1!pass") {
		t.Fatalf("stored hash does not verify the new password")
	}
	if hasher.VerifyPassword(stored.PasswordHash, "Old1!pass") {
		t.Fatalf("old password still verifies")
	}
}

func TestUserManager_GetAllUsersEmptyStore(t *testing.T) {
	m := NewUserManager(newStubUserRepo(), NewPasswordHasher(), zerolog.Nop())

	result := m.GetAllUsers(context.Background())
	if !result.IsSuccess {
		t.Fatalf("an empty store must list successfully, got %q", result.Error)
	}
	if result.Data == nil || len(result.Data) != 0 {
		t.Fatalf("expected empty list, got %v", result.Data)
	}
}

func TestUserManager_DeleteUnknownUserFails(t *testing.T) {
	repo := newStubUserRepo()
	m := NewUserManager(repo, NewPasswordHasher(), zerolog.Nop())

	result := m.Delete(context.Background(), 42)
	if result.IsSuccess {
		t.Fatalf("expected failure for unknown user")
	}
	if result.Error != "Failed to delete the user." {
		t.Fatalf("unexpected error %q", result.Error)
	}
}
