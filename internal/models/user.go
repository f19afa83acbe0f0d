package models

import "time"

// UserPreferences holds display settings chosen by the user.
type UserPreferences struct {
	Currency             string `json:"currency"`
	Theme                string `json:"theme"`
	DateFormat           string `json:"date_format"`
	Language             string `json:"language"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

// DefaultUserPreferences returns the preferences assigned at registration.
func DefaultUserPreferences() UserPreferences {
	return UserPreferences{
		Currency:             "BRL",
		Theme:                "light",
		DateFormat:           "DD/MM/YYYY",
		Language:             "pt-BR",
		NotificationsEnabled: true,
	}
}

// User is an account holder. PasswordHash is persisted but must never be
// rendered to clients.
type User struct {
	ID           string          `json:"id,omitempty"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"password_hash"`
	Name         string          `json:"name"`
	ProfileImage string          `json:"profile_image"`
	Preferences  UserPreferences `json:"preferences"`
	LastLogin    *time.Time      `json:"last_login"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
