package email

// Payload structs double as asynq task payloads; keep them flat and
// JSON-serializable.

type VerificationEmailData struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	VerifyLink string `json:"verify_link"`
}

type PasswordResetData struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	ResetLink string `json:"reset_link"`
}

type PaymentSuccessData struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Domain     string `json:"domain"`
	Duration   string `json:"duration"`
	StartDate  string `json:"start_date"`
	UnlockDate string `json:"unlock_date"`
}

type PaymentFailedData struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

type ProjectCertificateData struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
}
