package model

import (
	"time"

	"github.com/google/uuid"
)

// User maps 1:1 to the users table.
type User struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Email string    `db:"email" json:"email"`

	// Never expose in JSON
	PasswordHash string `db:"password_hash" json:"-"`

	Name string `db:"name" json:"name"`
	Role Role   `db:"role" json:"role"`

	// Email verification
	IsEmailVerified  bool       `db:"is_email_verified" json:"is_email_verified"`
	EmailToken       *string    `db:"email_token" json:"-"`
	EmailTokenExpiry *time.Time `db:"email_token_expiry" json:"-"`

	// Password reset
	ResetToken       *string    `db:"reset_token" json:"-"`
	ResetTokenExpiry *time.Time `db:"reset_token_expiry" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// IsVerificationValid reports whether the pending email token is still usable.
func (u *User) IsVerificationValid() bool {
	if u.EmailToken == nil || u.EmailTokenExpiry == nil {
		return false
	}
	return time.Now().Before(*u.EmailTokenExpiry)
}

// IsResetValid reports whether the password reset token is still usable.
func (u *User) IsResetValid() bool {
	if u.ResetToken == nil || u.ResetTokenExpiry == nil {
		return false
	}
	return time.Now().Before(*u.ResetTokenExpiry)
}

// Sanitize removes sensitive data before sending to client
func (u *User) Sanitize() {
	u.PasswordHash = ""
	u.EmailToken = nil
	u.ResetToken = nil
}
