package models

import "time"

type UserRole string

const (
	RoleDonor     UserRole = "DONOR"
	RoleVolunteer UserRole = "VOLUNTEER"
	RoleAdmin     UserRole = "ADMIN"
)

type UserProfile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       UserRole  `json:"role"`
	IsLoggedIn bool      `json:"is_logged_in"`
	CreatedAt  time.Time `json:"created_at"`
}
