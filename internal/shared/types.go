package shared

// Task type names, namespaced by the domain that owns the handler.
const (
	TypeSendVerificationEmail   = "email:verification"
	TypeSendPasswordResetEmail  = "email:password_reset"
	TypeSendPaymentSuccessEmail = "email:payment_success"
	TypeSendPaymentFailedEmail  = "email:payment_failed"
	TypeSendCertificateEmail    = "email:project_certificate"
	TypeExpireStalePayments     = "payment:expire_stale"
)

// Queue names map to asynq priority queues.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// ExpireStalePaymentsPayload is the (empty) payload for the periodic
// stale payment sweep.
type ExpireStalePaymentsPayload struct{}
