package domain

import "time"

// RoleAdmin is the role name required by role-administration endpoints.
const RoleAdmin = "Admin"

// User models an identity record. PasswordHash is opaque to everything except
// the password hasher; Password only carries the plaintext from a signup
// request into the manager and is never persisted or serialized.
type User struct {
	ID           int       `json:"id"`
	UserName     string    `json:"userName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Password     string    `json:"-"`
	PhoneNumber  string    `json:"phoneNumber"`
	DateCreated  time.Time `json:"dateCreated"`
	Roles        []string  `json:"roles"`
}
