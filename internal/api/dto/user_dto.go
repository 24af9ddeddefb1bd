package dto

import (
	"time"

	"github.com/spec-kit/timesheet-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the signed token and user profile.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse describes an account.
type UserResponse struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	Phone       *string     `json:"phone,omitempty"`
	Role        domain.Role `json:"role"`
	SMSOptIn    bool        `json:"sms_opt_in"`
	CreatedAt   time.Time   `json:"created_at"`
}
