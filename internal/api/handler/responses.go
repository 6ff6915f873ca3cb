package handler

import (
	"time"

	"github.com/identikit/identity-server/internal/core/domain"
)

// Read projections. Each exposes a subset of the entity and is built
// transiently per response; none is persisted.

type userResponse struct {
	ID          int       `json:"id"`
	UserName    string    `json:"userName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	DateCreated time.Time `json:"dateCreated"`
}

func projectUser(u *domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		UserName:    u.UserName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		DateCreated: u.DateCreated,
	}
}

type userWithRolesResponse struct {
	ID          int       `json:"id"`
	UserName    string    `json:"userName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	DateCreated time.Time `json:"dateCreated"`
	Roles       []string  `json:"roles"`
}

func projectUserWithRoles(u *domain.User, roles []string) userWithRolesResponse {
	if roles == nil {
		roles = []string{}
	}
	return userWithRolesResponse{
		ID:          u.ID,
		UserName:    u.UserName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		DateCreated: u.DateCreated,
		Roles:       roles,
	}
}

type signInResponse struct {
	Token string                `json:"token"`
	User  userWithRolesResponse `json:"user"`
}

type roleResponse struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DateCreated time.Time `json:"dateCreated"`
}
