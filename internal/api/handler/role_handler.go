package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/identikit/identity-server/internal/api/metrics"
	"github.com/identikit/identity-server/internal/core/domain"
	"github.com/identikit/identity-server/internal/core/ports"
)

// RoleHandler hosts the role administration pipelines.
type RoleHandler struct {
	roles ports.RoleManager
	users ports.UserManager
	audit ports.AuditRecorder
}

func NewRoleHandler(roles ports.RoleManager, users ports.UserManager, audit ports.AuditRecorder) *RoleHandler {
	return &RoleHandler{roles: roles, users: users, audit: audit}
}

func (h *RoleHandler) record(event domain.AuditEvent) {
	if h.audit == nil {
		return
	}
	event.OccurredAt = time.Now().UTC()
	h.audit.Record(event)
}

// CreateRole registers a new role.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        body  body      createRoleRequest  true  "Role name and description"
// @Success      200   {object}  domain.Result[bool]
// @Failure      409   {object}  domain.Result[bool]
// @Router       /create-role [post]
func (h *RoleHandler) CreateRole(c echo.Context) error {
	ctx := c.Request().Context()
	if ctx.Err() != nil {
		return respond(c, domain.Cancelled[bool]())
	}

	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, domain.Failure[bool]("Invalid request payload."))
	}
	if errs := req.validate(); len(errs) > 0 {
		return respond(c, domain.Failure[bool](errs.Join()))
	}

	created := h.roles.CreateRole(ctx, req.Name, req.Description)
	if created.IsSuccess {
		h.record(domain.AuditEvent{Action: domain.AuditRoleCreated, Detail: req.Name, Success: true})
	}
	return respond(c, created)
}

// UpdateRole overwrites a role's name and description.
//
// @Summary      Update a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Role id"
// @Param        body  body      updateRoleRequest  true  "New name and description"
// @Success      200   {object}  domain.Result[bool]
// @Router       /update-role/{id} [patch]
func (h *RoleHandler) UpdateRole(c echo.Context) error {
	ctx := c.Request().Context()
	if ctx.Err() != nil {
		return respond(c, domain.Cancelled[bool]())
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, domain.Failure[bool]("Invalid request payload."))
	}
	req.ID, _ = strconv.Atoi(c.Param("id"))
	if errs := req.validate(); len(errs) > 0 {
		return respond(c, domain.Failure[bool](errs.Join()))
	}

	role := h.roles.GetRoleByID(ctx, req.ID)
	if !role.IsSuccess {
		return respond(c, domain.Failure[bool]("Failed to update role."))
	}

	updated := h.roles.UpdateRole(ctx, req.ID, req.Name, req.Description)
	if !updated.IsSuccess {
		return respond(c, domain.Failure[bool]("Failed to update role."))
	}
	return respond(c, domain.Success(true))
}

// DeleteRole removes a role by id. Users still holding the role keep a
// dangling assignment row; reads filter the unresolved name out.
//
// @Summary      Delete a role
// @Tags         roles
// @Produce      json
// @Param        id   path      int  true  "Role id"
// @Success      200  {object}  domain.Result[bool]
// @Failure      404  {object}  domain.Result[bool]
// @Router       /delete-role/{id} [delete]
func (h *RoleHandler) DeleteRole(c echo.Context) error {
	ctx := c.Request().Context()
	if ctx.Err() != nil {
		return respond(c, domain.Cancelled[bool]())
	}

	roleID, _ := strconv.Atoi(c.Param("id"))
	if errs := validateRoleID(roleID); len(errs) > 0 {
		return respond(c, domain.Failure[bool](errs.Join()))
	}

	role := h.roles.GetRoleByID(ctx, roleID)
	if !role.IsSuccess {
		return respond(c, domain.Failure[bool]("Role not found."))
	}

	deleted := h.roles.DeleteRole(ctx, role.Data.ID)
	if deleted.IsSuccess {
		h.record(domain.AuditEvent{Action: domain.AuditRoleDeleted, Detail: role.Data.Name, Success: true})
	}
	return respond(c, deleted)
}

// AssignRole assigns a role to a user, replacing any previous assignment.
//
// @Summary      Assign a role to a user
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        body  body      assignRoleRequest  true  "User id and role id"
// @Success      200   {object}  domain.Result[bool]
// @Router       /assign-role [post]
func (h *RoleHandler) AssignRole(c echo.Context) error {
	ctx := c.Request().Context()
	if ctx.Err() != nil {
		return respond(c, domain.Cancelled[bool]())
	}

	var req assignRoleRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, domain.Failure[bool]("Invalid request payload."))
	}
	if errs := req.validate(); len(errs) > 0 {
		return respond(c, domain.Failure[bool](errs.Join()))
	}

	user := h.users.FindByID(ctx, req.UserID)
	if !user.IsSuccess {
		return respond(c, domain.Failure[bool]("User not found."))
	}

	assigned := h.roles.AddToRole(ctx, user.Data.ID, req.RoleID)
	if assigned.IsSuccess {
		metrics.RolesAssignedTotal.Inc()
		h.record(domain.AuditEvent{Action: domain.AuditRoleAssigned, SubjectID: req.UserID, Detail: strconv.Itoa(req.RoleID), Success: true})
	}
	return respond(c, assigned)
}

// GetAllRoles lists every role.
//
// @Summary      List all roles
// @Tags         roles
// @Produce      json
// @Success      200  {object}  domain.Result[[]roleResponse]
// @Router       /all-roles [get]
func (h *RoleHandler) GetAllRoles(c echo.Context) error {
	ctx := c.Request().Context()
	if ctx.Err() != nil {
		return respond(c, domain.Cancelled[[]roleResponse]())
	}

	result := h.roles.GetAllRoles(ctx)
	return respond(c, domain.Map(result, func(roles []*domain.Role) []roleResponse {
		out := make([]roleResponse, 0, len(roles))
		for _, r := range roles {
			if r == nil {
				continue
			}
			out = append(out, roleResponse{ID: r.ID, Name: r.Name, Description: r.Description, DateCreated: r.DateCreated})
		}
		return out
	}))
}
