package entities

import (
	"taskdesk/pkg/types"

	"github.com/aarondl/null/v8"
)

type User struct {
	ID       string `json:"id" db:"id"`
	Email    string `json:"email" db:"email"`
	FullName string `json:"full_name" db:"full_name"`
	Role     string `json:"role" db:"role"`

	DepartmentID *string `json:"department_id" db:"department_id"`

	PasswordHash string `json:"-" db:"password_hash"`

	LastLogin null.Time `json:"last_login" db:"last_login"`

	// Filled by enrichment, never persisted on the user row.
	Department *Department `json:"department,omitempty" db:"-"`

	types.BaseEntity
}
