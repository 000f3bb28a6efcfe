package model

import "errors"

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrAssignmentNotFound  = errors.New("project assignment not found")
	ErrProjectNotFound     = errors.New("project not found")

	// ErrActiveApplicationExists enforces the one-active-application rule.
	ErrActiveApplicationExists = errors.New("user already has an active application")

	// ErrNotDeletable covers both missing and already-progressed rows so
	// the API does not leak which it was.
	ErrNotDeletable = errors.New("application cannot be deleted")

	ErrInvalidStatus = errors.New("invalid application status")
	ErrPriceMismatch = errors.New("price does not match an active pricing plan")
)
