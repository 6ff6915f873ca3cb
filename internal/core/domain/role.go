package domain

import "time"

// Role is a named grant. Name uniqueness is enforced by the store at creation.
type Role struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DateCreated time.Time `json:"dateCreated"`
}
