package model

import "errors"

var (
	ErrPlanNotFound      = errors.New("pricing plan not found")
	ErrNoPlanForDuration = errors.New("no active pricing plan for duration")
)
