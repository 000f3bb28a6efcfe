package model

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var whatsappPattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// ========================================
// INTAKE DTOs
// ========================================

type SubmitApplicationRequest struct {
	FullName       string          `json:"full_name" binding:"required"`
	ContactEmail   string          `json:"contact_email" binding:"required"`
	WhatsappNumber string          `json:"whatsapp_number" binding:"required"`
	Role           string          `json:"role" binding:"required"`
	Domain         string          `json:"domain" binding:"required"`
	Duration       int             `json:"duration" binding:"required"`
	Price          decimal.Decimal `json:"price" binding:"required"`
	Currency       string          `json:"currency" binding:"required"`
}

func (r SubmitApplicationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName,
			validation.Required.Error("full name is required"),
			validation.Length(2, 100),
		),
		validation.Field(&r.ContactEmail,
			validation.Required.Error("contact email is required"),
			is.Email.Error("invalid email format"),
		),
		validation.Field(&r.WhatsappNumber,
			validation.Required.Error("whatsapp number is required"),
			validation.Match(whatsappPattern).Error("invalid whatsapp number"),
		),
		validation.Field(&r.Role,
			validation.Required.Error("role is required"),
			validation.Length(2, 100),
		),
		validation.Field(&r.Domain,
			validation.Required.Error("domain is required"),
			validation.Length(2, 100),
		),
		validation.Field(&r.Duration,
			validation.Required.Error("duration is required"),
			validation.Min(1), validation.Max(12),
		),
		validation.Field(&r.Currency,
			validation.Required,
			is.CurrencyCode.Error("currency must be an ISO 4217 code"),
		),
	)
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status,
			validation.Required,
			validation.In(StatusPending, StatusInProgress, StatusCompleted, StatusCancelled),
		),
	)
}

type SubmitProjectRequest struct {
	SubmissionURL string `json:"submission_url" binding:"required"`
}

func (r SubmitProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SubmissionURL,
			validation.Required.Error("submission url is required"),
			is.URL.Error("submission url must be a valid URL"),
		),
	)
}

type ApproveProjectRequest struct {
	Approved bool `json:"approved"`
}

// ========================================
// RESPONSE DTOs
// ========================================

type ApplicationDTO struct {
	ID                       uuid.UUID       `json:"id"`
	FullName                 string          `json:"full_name"`
	ContactEmail             string          `json:"contact_email"`
	WhatsappNumber           string          `json:"whatsapp_number"`
	Role                     string          `json:"role"`
	Domain                   string          `json:"domain"`
	Duration                 int             `json:"duration"`
	Price                    decimal.Decimal `json:"price"`
	Currency                 string          `json:"currency"`
	Status                   Status          `json:"status"`
	IsPaid                   bool            `json:"is_paid"`
	HasProjectCertificate    bool            `json:"has_project_certificate"`
	HasInternshipCertificate bool            `json:"has_internship_certificate"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

func (a *Application) ToDTO() ApplicationDTO {
	return ApplicationDTO{
		ID:                       a.ID,
		FullName:                 a.FullName,
		ContactEmail:             a.ContactEmail,
		WhatsappNumber:           a.WhatsappNumber,
		Role:                     a.Role,
		Domain:                   a.Domain,
		Duration:                 a.Duration,
		Price:                    a.Price,
		Currency:                 a.Currency,
		Status:                   a.Status,
		IsPaid:                   a.IsPaid,
		HasProjectCertificate:    a.HasProjectCertificate,
		HasInternshipCertificate: a.HasInternshipCertificate,
		CreatedAt:                a.CreatedAt,
		UpdatedAt:                a.UpdatedAt,
	}
}

// ApplicationWithProjects is the dashboard detail view.
type ApplicationWithProjects struct {
	Application ApplicationDTO      `json:"application"`
	Projects    []ProjectAssignment `json:"projects"`
}

// ========================================
// PROJECT CATALOG DTOs (admin)
// ========================================

type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Domain      string     `json:"domain" binding:"required"`
	Role        string     `json:"role" binding:"required"`
	Difficulty  Difficulty `json:"difficulty" binding:"required"`
	ResourceURL *string    `json:"resource_url,omitempty"`
}

func (r CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Domain, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Role, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Difficulty,
			validation.Required,
			validation.In(DifficultyEasy, DifficultyNormal, DifficultyHard),
		),
		validation.Field(&r.ResourceURL,
			validation.When(r.ResourceURL != nil, is.URL),
		),
	)
}
