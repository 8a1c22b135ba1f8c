package models

import "time"

// User is an account provisioned by the identity provider
type User struct {
	ID          string    `json:"id" db:"id"`
	FullName    string    `json:"full_name" db:"full_name"`
	PhoneNumber string    `json:"phone_number,omitempty" db:"phone_number"`
	Email       string    `json:"email,omitempty" db:"email"`
	Role        string    `json:"role" db:"role"` // searcher, coordinator, admin
	Active      bool      `json:"active" db:"active"`
	Language    string    `json:"language" db:"language"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// UserUpdateRequest is the body of an admin user update
type UserUpdateRequest struct {
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	Role        *string `json:"role"`
	Active      *bool   `json:"active"`
}

// LanguageRequest is the body of a language preference change
type LanguageRequest struct {
	Language string `json:"language" binding:"required"`
}
