package model

import "errors"

var (
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrActivePaymentExists   = errors.New("an active pending payment already exists for this gateway")
	ErrApplicationNotPending = errors.New("application is not awaiting payment")
	ErrAlreadyPaid           = errors.New("application is already paid")
	ErrInvalidSignature      = errors.New("webhook signature verification failed")
	ErrMalformedPayload      = errors.New("webhook payload is malformed")
	ErrGatewayUnavailable    = errors.New("payment gateway is not configured")
)
