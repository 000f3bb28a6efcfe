package model

import (
	"time"

	"github.com/google/uuid"
)

// Project is a catalog entry assignable to applications.
type Project struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	Domain      string     `db:"domain" json:"domain"`
	Role        string     `db:"role" json:"role"`
	Difficulty  Difficulty `db:"difficulty" json:"difficulty"`
	ResourceURL *string    `db:"resource_url" json:"resource_url,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyNormal Difficulty = "NORMAL"
	DifficultyHard   Difficulty = "HARD"
)

// AllDifficulties in ascending order of points.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	}
	return false
}

func (d Difficulty) String() string {
	return string(d)
}

// ProjectAssignment links a project to an application and tracks the
// submission and review lifecycle.
type ProjectAssignment struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ApplicationID uuid.UUID `db:"application_id" json:"application_id"`
	ProjectID     uuid.UUID `db:"project_id" json:"project_id"`

	SubmissionURL *string    `db:"submission_url" json:"submission_url,omitempty"`
	SubmittedAt   *time.Time `db:"submitted_at" json:"submitted_at,omitempty"`

	Approved   bool       `db:"approved" json:"approved"`
	ApprovedAt *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	ApprovedBy *uuid.UUID `db:"approved_by" json:"approved_by,omitempty"`
	Points     int        `db:"points" json:"points"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Populated on reads that join the project catalog.
	Project *Project `db:"-" json:"project,omitempty"`
}

// IsSubmitted reports whether the intern has handed in a solution.
func (pa *ProjectAssignment) IsSubmitted() bool {
	return pa.SubmissionURL != nil
}
