package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/identikit/identity-server/internal/api/metrics"
	"github.com/identikit/identity-server/internal/core/domain"
	"github.com/identikit/identity-server/internal/core/ports"
)

// UserHandler hosts the user-facing pipelines: registration with default
// role assignment, sign-in with token issuance, and user CRUD.
type UserHandler struct {
	users         ports.UserManager
	roles         ports.RoleManager
	tokens        ports.TokenService
	audit         ports.AuditRecorder
	defaultRoleID int
}

func NewUserHandler(users ports.UserManager, roles ports.RoleManager, tokens ports.TokenService, audit ports.AuditRecorder, defaultRoleID int) *UserHandler {
	return &UserHandler{users: users, roles: roles, tokens: tokens, audit: audit, defaultRoleID: defaultRoleID}
}

func (h *UserHandler) record(event domain.AuditEvent) {
	if h.audit == nil {
		return
	}
	event.OccurredAt = time.Now().UTC()
	h.audit.Record(event)
}

// SignUp registers a user and assigns the default role.
//
// The created user row is deliberately NOT deleted when the role assignment
// step fails: the account persists role-less and the caller sees the
// assignment failure.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "User registration details"
// @Success      200   {object}  domain.Result[userResponse]
// @Failure      400   {object}  domain.Result[userResponse]
// @Router       /signup [post]
func (h *UserHandler) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	if ctx.Err() != nil {
		return respond(c, domain.Cancelled[userResponse]())
	}

	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, domain.Failure[userResponse]("Invalid request payload."))
	}
	if errs := req.validate(); len(errs) > 0 {
		return respond(c, domain.Failure[userResponse](errs.Join()))
	}

	existing := h.users.FindByEmail(ctx, req.Email)
	if existing.IsSuccess && existing.Data != nil {
		return respond(c, domain.Failure[userResponse]("Email already in use."))
	}

	created := h.users.Create(ctx, &domain.User{
		UserName:    req.UserName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if !created.IsSuccess {
		return respond(c, domain.Failure[userResponse]("Failed to create user."))
	}

	assigned := h.roles.AddToRole(ctx, created.Data.ID, h.defaultRoleID)
	if !assigned.IsSuccess {
		// The user row persists without a role.
		return respond(c, domain.Failure[userResponse]("Failed to assign role to user."))
	}

	metrics.UsersCreatedTotal.Inc()
	h.record(domain.AuditEvent{Action: domain.AuditSignUp, SubjectID: created.Data.ID, Email: created.Data.Email, Success: true})

	return respond(c, domain.Success(projectUser(created.Data)))
}

// SignIn authenticates a credential pair and issues a bearer token.
//
// @Summary      Authenticate and obtain a token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  domain.Result[signInResponse]
// @Failure      400   {object}  domain.Result[signInResponse]
// @Router       /signin [post]
func (h *UserHandler) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	if ctx.Err() != nil {
		return respond(c, domain.Cancelled[signInResponse]())
	}

	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, domain.Failure[signInResponse]("Invalid request payload."))
	}
	if errs := req.validate(); len(errs) > 0 {
		return respond(c, domain.Failure[signInResponse](errs.Join()))
	}

	// Unknown email and wrong password collapse into one message; the
	// caller must not learn which half of the pair failed.
	user := h.users.ValidateUser(ctx, req.Email, req.Password)
	if !user.IsSuccess {
		metrics.SignInsTotal.WithLabelValues("failure").Inc()
		h.record(domain.AuditEvent{Action: domain.AuditSignIn, Email: req.Email, Success: false, Detail: "invalid credentials"})
		return respond(c, domain.Failure[signInResponse]("Invalid credentials"))
	}

	// Having no roles is not a sign-in failure.
	roles := h.roles.GetRoles(ctx, user.Data.ID)
	roleList := roles.Data
	if roleList == nil {
		roleList = []string{}
	}

	token := h.tokens.GenerateToken(strconv.Itoa(user.Data.ID), user.Data, roleList)
	if !token.IsSuccess {
		metrics.TokenIssueFailures.Inc()
		msg := token.Error
		if msg == "" {
			msg = "Token generation failed"
		}
		return respond(c, domain.Failure[signInResponse](msg))
	}

	metrics.SignInsTotal.WithLabelValues("success").Inc()
	h.record(domain.AuditEvent{Action: domain.AuditSignIn, SubjectID: user.Data.ID, Email: user.Data.Email, Success: true})

	return respond(c, domain.Success(signInResponse{
		Token: token.Data,
		User:  projectUserWithRoles(user.Data, roleList),
	}))
}

// UpdateUser patches email and/or phone number of an existing user.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  domain.Result[userResponse]
// @Router       /update-user/{id} [patch]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	if ctx.Err() != nil {
		return respond(c, domain.Cancelled[userResponse]())
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, domain.Failure[userResponse]("Invalid request payload."))
	}
	req.ID, _ = strconv.Atoi(c.Param("id"))
	if errs := req.validate(); len(errs) > 0 {
		return respond(c, domain.Failure[userResponse](errs.Join()))
	}

	found := h.users.FindByID(ctx, req.ID)
	if !found.IsSuccess {
		return respond(c, domain.Failure[userResponse]("User not found."))
	}

	user := found.Data
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}

	updated := h.users.Update(ctx, user)
	return respond(c, domain.Map(updated, projectUser))
}

// DeleteUser removes a user by id.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        userId  path      int  true  "User id"
// @Success      200     {object}  domain.Result[bool]
// @Router       /delete-user/{userId} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	if ctx.Err() != nil {
		return respond(c, domain.Cancelled[bool]())
	}

	userID, _ := strconv.Atoi(c.Param("userId"))
	if errs := validateUserID(userID); len(errs) > 0 {
		return respond(c, domain.Failure[bool](errs.Join()))
	}

	found := h.users.FindByID(ctx, userID)
	if !found.IsSuccess {
		return respond(c, domain.Failure[bool]("User not found."))
	}

	deleted := h.users.Delete(ctx, userID)
	if deleted.IsSuccess {
		h.record(domain.AuditEvent{Action: domain.AuditUserDeleted, SubjectID: userID, Success: true})
	}
	return respond(c, deleted)
}

// GetUserInfo returns the profile projection for one user.
//
// @Summary      Get a user's profile
// @Tags         users
// @Produce      json
// @Param        userId  path      int  true  "User id"
// @Success      200     {object}  domain.Result[userResponse]
// @Router       /me/info/{userId} [get]
func (h *UserHandler) GetUserInfo(c echo.Context) error {
	ctx := c.Request().Context()
	if ctx.Err() != nil {
		return respond(c, domain.Cancelled[userResponse]())
	}

	userID, _ := strconv.Atoi(c.Param("userId"))
	if errs := validateUserID(userID); len(errs) > 0 {
		return respond(c, domain.Failure[userResponse](errs.Join()))
	}

	found := h.users.FindByID(ctx, userID)
	if !found.IsSuccess {
		return respond(c, domain.Failure[userResponse]("User not found"))
	}

	return respond(c, domain.Map(found, projectUser))
}

// GetAllUsers lists every user with resolved role names.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.Result[[]userWithRolesResponse]
// @Router       /all-users [get]
func (h *UserHandler) GetAllUsers(c echo.Context) error {
	ctx := c.Request().Context()
	if ctx.Err() != nil {
		return respond(c, domain.Cancelled[[]userWithRolesResponse]())
	}

	result := h.users.GetAllUsers(ctx)
	return respond(c, domain.Map(result, func(users []*domain.User) []userWithRolesResponse {
		out := make([]userWithRolesResponse, 0, len(users))
		for _, u := range users {
			if u == nil {
				continue
			}
			out = append(out, projectUserWithRoles(u, u.Roles))
		}
		return out
	}))
}

// ResetPassword re-hashes and stores a new password for a user.
//
// @Summary      Reset a user's password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "User id and new password"
// @Success      200   {object}  domain.Result[bool]
// @Router       /reset-password [post]
func (h *UserHandler) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	if ctx.Err() != nil {
		return respond(c, domain.Cancelled[bool]())
	}

	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, domain.Failure[bool]("Invalid request payload."))
	}
	if errs := req.validate(); len(errs) > 0 {
		return respond(c, domain.Failure[bool](errs.Join()))
	}

	found := h.users.FindByID(ctx, req.ID)
	if !found.IsSuccess {
		return respond(c, domain.Failure[bool]("User not found."))
	}

	return respond(c, h.users.ResetPassword(ctx, found.Data.ID, req.NewPassword))
}
