// internal/domain/auth/dto.go
package auth

import "time"

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserPayload is the user object returned next to a freshly issued token.
type UserPayload struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	IsActive    bool      `json:"isActive"`
	LoginTime   time.Time `json:"loginTime"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  UserPayload `json:"user"`
}
