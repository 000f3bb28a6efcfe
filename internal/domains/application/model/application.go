package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Application maps 1:1 to the applications table.
type Application struct {
	ID     uuid.UUID `db:"id" json:"id"`
	UserID uuid.UUID `db:"user_id" json:"user_id"`

	// Contact details captured at intake; payment emails go to
	// contact_email, not the login email.
	FullName       string `db:"full_name" json:"full_name"`
	ContactEmail   string `db:"contact_email" json:"contact_email"`
	WhatsappNumber string `db:"whatsapp_number" json:"whatsapp_number"`

	Role     string          `db:"role" json:"role"`
	Domain   string          `db:"domain" json:"domain"`
	Duration int             `db:"duration" json:"duration"` // months
	Price    decimal.Decimal `db:"price" json:"price"`
	Currency string          `db:"currency" json:"currency"`

	Status Status `db:"status" json:"status"`
	IsPaid bool   `db:"is_paid" json:"is_paid"`

	HasProjectCertificate    bool `db:"has_project_certificate" json:"has_project_certificate"`
	HasInternshipCertificate bool `db:"has_internship_certificate" json:"has_internship_certificate"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsActive reports whether the application blocks creating a new one.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusInProgress
}

// CanDelete is only true before any payment or progress happened.
func (a *Application) CanDelete() bool {
	return a.Status == StatusPending
}
