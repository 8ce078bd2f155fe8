// internal/domain/auth/entity.go
package auth

import (
	"database/sql"
	"time"
)

// Account is the authoritative identity record. Role, permissions and the
// active flag read from here always win over whatever a token embeds.
type Account struct {
	ID           int64          `json:"id" db:"id"`
	Email        string         `json:"email" db:"email"`
	PasswordHash string         `json:"-" db:"password_hash"`
	FirstName    string         `json:"first_name" db:"first_name"`
	LastName     string         `json:"last_name" db:"last_name"`
	Role         string         `json:"role" db:"role"`
	Permissions  []string       `json:"permissions" db:"permissions"`
	IsActive     bool           `json:"is_active" db:"is_active"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	LastLoginAt  sql.NullTime   `json:"last_login_at,omitempty" db:"last_login_at"`
	Designation  sql.NullString `json:"designation,omitempty" db:"designation"`
}
