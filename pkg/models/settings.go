package models

import "time"

// AppSettings is the single-row application settings record (id = "app").
type AppSettings struct {
	ID                  string    `json:"id" db:"id"`
	RegistrationEnabled bool      `json:"registration_enabled" db:"registration_enabled"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}
