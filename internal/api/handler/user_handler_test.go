package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/identikit/identity-server/internal/core/domain"
)

// Function-field stubs keep each scenario's wiring next to its assertions.

type stubUserManager struct {
	findByEmail  func(email string) domain.Result[*domain.User]
	create       func(user *domain.User) domain.Result[*domain.User]
	validateUser func(email, password string) domain.Result[*domain.User]
	findByID     func(userID int) domain.Result[*domain.User]
	update       func(user *domain.User) domain.Result[*domain.User]
	delete       func(userID int) domain.Result[bool]
	getAllUsers  func() domain.Result[[]*domain.User]
	reset        func(userID int, newPassword string) domain.Result[bool]
}

func (s *stubUserManager) FindByEmail(_ context.Context, email string) domain.Result[*domain.User] {
	return s.findByEmail(email)
}
func (s *stubUserManager) Create(_ context.Context, user *domain.User) domain.Result[*domain.User] {
	return s.create(user)
}
func (s *stubUserManager) ValidateUser(_ context.Context, email, password string) domain.Result[*domain.User] {
	return s.validateUser(email, password)
}
func (s *stubUserManager) FindByID(_ context.Context, userID int) domain.Result[*domain.User] {
	return s.findByID(userID)
}
func (s *stubUserManager) Update(_ context.Context, user *domain.User) domain.Result[*domain.User] {
	return s.update(user)
}
func (s *stubUserManager) Delete(_ context.Context, userID int) domain.Result[bool] {
	return s.delete(userID)
}
func (s *stubUserManager) GetAllUsers(_ context.Context) domain.Result[[]*domain.User] {
	return s.getAllUsers()
}
func (s *stubUserManager) ResetPassword(_ context.Context, userID int, newPassword string) domain.Result[bool] {
	return s.reset(userID, newPassword)
}

type stubRoleManager struct {
	addToRole   func(userID, roleID int) domain.Result[bool]
	getRoles    func(userID int) domain.Result[[]string]
	getAllRoles func() domain.Result[[]*domain.Role]
	createRole  func(name, description string) domain.Result[bool]
	getRoleByID func(roleID int) domain.Result[*domain.Role]
	updateRole  func(id int, name, description string) domain.Result[bool]
	deleteRole  func(id int) domain.Result[bool]
}

func (s *stubRoleManager) AddToRole(_ context.Context, userID, roleID int) domain.Result[bool] {
	return s.addToRole(userID, roleID)
}
func (s *stubRoleManager) GetRoles(_ context.Context, userID int) domain.Result[[]string] {
	return s.getRoles(userID)
}
func (s *stubRoleManager) GetAllRoles(_ context.Context) domain.Result[[]*domain.Role] {
	return s.getAllRoles()
}
func (s *stubRoleManager) CreateRole(_ context.Context, name, description string) domain.Result[bool] {
	return s.createRole(name, description)
}
func (s *stubRoleManager) GetRoleByID(_ context.Context, roleID int) domain.Result[*domain.Role] {
	return s.getRoleByID(roleID)
}
func (s *stubRoleManager) UpdateRole(_ context.Context, id int, name, description string) domain.Result[bool] {
	return s.updateRole(id, name, description)
}
func (s *stubRoleManager) DeleteRole(_ context.Context, id int) domain.Result[bool] {
	return s.deleteRole(id)
}

type stubTokenService struct {
	generate func(subjectID string, user *domain.User, roles []string) domain.Result[string]
}

func (s *stubTokenService) GenerateToken(subjectID string, user *domain.User, roles []string) domain.Result[string] {
	return s.generate(subjectID, user, roles)
}

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) domain.Result[T] {
	t.Helper()
	var out domain.Result[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return out
}

func TestUserHandler_SignUp(t *testing.T) {
	users := &stubUserManager{
		findByEmail: func(string) domain.Result[*domain.User] {
			return domain.Failure[*domain.User]("Error occurred while checking email.")
		},
		create: func(u *domain.User) domain.Result[*domain.User] {
			stored := *u
			stored.ID = 1
			return domain.Success(&stored)
		},
	}
	roles := &stubRoleManager{
		addToRole: func(userID, roleID int) domain.Result[bool] {
			if userID != 1 || roleID != 3 {
				t.Fatalf("default role assignment got user=%d role=%d", userID, roleID)
			}
			return domain.Success(true)
		},
	}
	h := NewUserHandler(users, roles, &stubTokenService{}, nil, 3)

	c, rec := newJSONContext(t, http.MethodPost, "/signup",
		`{"userName":"Maria","email":"mimi@gmail.com","password":"Str0ng!Pass","phoneNumber":"5512345678"}`)
	if err := h.SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	out := decodeEnvelope[userResponse](t, rec)
	if !out.IsSuccess {
		t.Fatalf("expected success, got %q", out.Error)
	}
	if out.Data.ID != 1 || out.Data.UserName != "Maria" || out.Data.Email != "mimi@gmail.com" {
		t.Fatalf("unexpected projection %+v", out.Data)
	}
}

func TestUserHandler_SignUpEmailAlreadyInUse(t *testing.T) {
	users := &stubUserManager{
		findByEmail: func(string) domain.Result[*domain.User] {
			return domain.Success(&domain.User{ID: 9, Email: "mimi@gmail.com"})
		},
	}
	h := NewUserHandler(users, &stubRoleManager{}, &stubTokenService{}, nil, 3)

	c, rec := newJSONContext(t, http.MethodPost, "/signup",
		`{"userName":"Maria","email":"mimi@gmail.com","password":"Str0ng!Pass","phoneNumber":"5512345678"}`)
	if err := h.SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	out := decodeEnvelope[userResponse](t, rec)
	if out.Error != "Email already in use." {
		t.Fatalf("unexpected error %q", out.Error)
	}
}

func TestUserHandler_SignUpValidationAccumulates(t *testing.T) {
	h := NewUserHandler(&stubUserManager{}, &stubRoleManager{}, &stubTokenService{}, nil, 3)

	c, rec := newJSONContext(t, http.MethodPost, "/signup",
		`{"userName":"M","email":"not-an-email","password":"short","phoneNumber":"abc"}`)
	if err := h.SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	out := decodeEnvelope[userResponse](t, rec)
	for _, want := range []string{
		"Username must be at least 2 characters long.",
		"A valid email address is required.",
		"Password must be at least 8 characters long.",
		"Password must contain at least one uppercase letter.",
		"Phone number must be numeric",
	} {
		if !strings.Contains(out.Error, want) {
			t.Fatalf("error %q missing %q", out.Error, want)
		}
	}
}

func TestUserHandler_SignUpRoleAssignmentFailureKeepsUser(t *testing.T) {
	created := false
	users := &stubUserManager{
		findByEmail: func(string) domain.Result[*domain.User] {
			return domain.Failure[*domain.User]("Error occurred while checking email.")
		},
		create: func(u *domain.User) domain.Result[*domain.User] {
			created = true
			stored := *u
			stored.ID = 1
			return domain.Success(&stored)
		},
		delete: func(int) domain.Result[bool] {
			t.Fatalf("failed role assignment must not delete the created user")
			return domain.Failure[bool]("")
		},
	}
	roles := &stubRoleManager{
		addToRole: func(int, int) domain.Result[bool] {
			return domain.Failure[bool]("Error occurred while adding user to role.")
		},
	}
	h := NewUserHandler(users, roles, &stubTokenService{}, nil, 3)

	c, rec := newJSONContext(t, http.MethodPost, "/signup",
		`{"userName":"Maria","email":"mimi@gmail.com","password":"Str0ng!Pass","phoneNumber":"5512345678"}`)
	if err := h.SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if !created {
		t.Fatalf("user was not created")
	}
	out := decodeEnvelope[userResponse](t, rec)
	if out.Error != "Failed to assign role to user." {
		t.Fatalf("unexpected error %q", out.Error)
	}
}

func TestUserHandler_SignIn(t *testing.T) {
	user := &domain.User{ID: 1, UserName: "Maria", Email: "mimi@gmail.com"}
	users := &stubUserManager{
		validateUser: func(email, password string) domain.Result[*domain.User] {
			if email != "mimi@gmail.com" || password != "Str0ng!Pass" {
				return domain.Failure[*domain.User]("Invalid credentials.")
			}
			return domain.Success(user)
		},
	}
	roles := &stubRoleManager{
		getRoles: func(int) domain.Result[[]string] {
			return domain.Success([]string{"User"})
		},
	}
	tokens := &stubTokenService{
		generate: func(subjectID string, u *domain.User, roleList []string) domain.Result[string] {
			if subjectID != "1" {
				t.Fatalf("subject = %q", subjectID)
			}
			return domain.Success("signed-token")
		},
	}
	h := NewUserHandler(users, roles, tokens, nil, 3)

	c, rec := newJSONContext(t, http.MethodPost, "/signin",
		`{"email":"mimi@gmail.com","password":"Str0ng!Pass"}`)
	if err := h.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	out := decodeEnvelope[signInResponse](t, rec)
	if !out.IsSuccess || out.Data.Token != "signed-token" {
		t.Fatalf("unexpected result %+v", out)
	}
	if out.Data.User.Roles == nil || out.Data.User.Roles[0] != "User" {
		t.Fatalf("roles not projected: %+v", out.Data.User)
	}
}

func TestUserHandler_SignInInvalidCredentials(t *testing.T) {
	users := &stubUserManager{
		validateUser: func(string, string) domain.Result[*domain.User] {
			return domain.Failure[*domain.User]("Invalid credentials.")
		},
	}
	h := NewUserHandler(users, &stubRoleManager{}, &stubTokenService{}, nil, 3)

	c, rec := newJSONContext(t, http.MethodPost, "/signin",
		`{"email":"mimi@gmail.com","password":"WrongPass1!"}`)
	if err := h.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	out := decodeEnvelope[signInResponse](t, rec)
	if out.Error != "Invalid credentials" {
		t.Fatalf("unexpected error %q", out.Error)
	}
}

func TestUserHandler_SignInWithoutRolesStillIssuesToken(t *testing.T) {
	users := &stubUserManager{
		validateUser: func(string, string) domain.Result[*domain.User] {
			return domain.Success(&domain.User{ID: 2, UserName: "Maria", Email: "mimi@gmail.com"})
		},
	}
	roles := &stubRoleManager{
		getRoles: func(int) domain.Result[[]string] {
			return domain.Failure[[]string]("Error occurred while fetching roles for user.")
		},
	}
	tokens := &stubTokenService{
		generate: func(_ string, _ *domain.User, roleList []string) domain.Result[string] {
			if roleList == nil {
				t.Fatalf("roles must be an empty slice, not nil")
			}
			return domain.Success("signed-token")
		},
	}
	h := NewUserHandler(users, roles, tokens, nil, 3)

	c, rec := newJSONContext(t, http.MethodPost, "/signin",
		`{"email":"mimi@gmail.com","password":"Str0ng!Pass"}`)
	if err := h.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	out := decodeEnvelope[signInResponse](t, rec)
	if !out.IsSuccess {
		t.Fatalf("expected success, got %q", out.Error)
	}
	if len(out.Data.User.Roles) != 0 {
		t.Fatalf("expected empty roles, got %v", out.Data.User.Roles)
	}
}

func TestUserHandler_UpdateUserNotFound(t *testing.T) {
	users := &stubUserManager{
		findByID: func(int) domain.Result[*domain.User] {
			return domain.Failure[*domain.User]("Error occurred while finding the user.")
		},
	}
	h := NewUserHandler(users, &stubRoleManager{}, &stubTokenService{}, nil, 3)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/update-user/5", strings.NewReader(`{"email":"new@mail.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5")

	if err := h.UpdateUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	out := decodeEnvelope[userResponse](t, rec)
	if out.Error != "User not found." {
		t.Fatalf("unexpected error %q", out.Error)
	}
}

func TestUserHandler_UpdateUserPatchesOnlyProvidedFields(t *testing.T) {
	stored := &domain.User{ID: 5, UserName: "Maria", Email: "old@mail.com", PhoneNumber: "5512345678"}
	users := &stubUserManager{
		findByID: func(int) domain.Result[*domain.User] { return domain.Success(stored) },
		update: func(u *domain.User) domain.Result[*domain.User] {
			if u.Email != "new@mail.com" {
				t.Fatalf("email not patched: %q", u.Email)
			}
			if u.PhoneNumber != "5512345678" {
				t.Fatalf("absent phone number overwritten: %q", u.PhoneNumber)
			}
			return domain.Success(u)
		},
	}
	h := NewUserHandler(users, &stubRoleManager{}, &stubTokenService{}, nil, 3)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/update-user/5", strings.NewReader(`{"email":"new@mail.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5")

	if err := h.UpdateUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUserHandler_GetUserInfoInvalidID(t *testing.T) {
	h := NewUserHandler(&stubUserManager{}, &stubRoleManager{}, &stubTokenService{}, nil, 3)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/me/info/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("abc")

	if err := h.GetUserInfo(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	out := decodeEnvelope[userResponse](t, rec)
	if !strings.Contains(out.Error, "User Id is required.") {
		t.Fatalf("unexpected error %q", out.Error)
	}
}

func TestUserHandler_GetAllUsersEmptyStore(t *testing.T) {
	users := &stubUserManager{
		getAllUsers: func() domain.Result[[]*domain.User] {
			return domain.Success([]*domain.User{})
		},
	}
	h := NewUserHandler(users, &stubRoleManager{}, &stubTokenService{}, nil, 3)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/all-users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetAllUsers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("empty store must list as 200, got %d: %s", rec.Code, rec.Body.String())
	}

	out := decodeEnvelope[[]userWithRolesResponse](t, rec)
	if !out.IsSuccess || len(out.Data) != 0 {
		t.Fatalf("expected success with empty list, got %+v", out)
	}
}

func TestUserHandler_CancelledRequestShortCircuits(t *testing.T) {
	users := &stubUserManager{
		getAllUsers: func() domain.Result[[]*domain.User] {
			t.Fatalf("manager must not run for a cancelled request")
			return domain.Result[[]*domain.User]{}
		},
	}
	h := NewUserHandler(users, &stubRoleManager{}, &stubTokenService{}, nil, 3)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/all-users", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetAllUsers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != domain.StatusCancelled {
		t.Fatalf("expected %d, got %d", domain.StatusCancelled, rec.Code)
	}

	out := decodeEnvelope[[]userWithRolesResponse](t, rec)
	if out.Error != "Request cancelled." {
		t.Fatalf("unexpected error %q", out.Error)
	}
}
