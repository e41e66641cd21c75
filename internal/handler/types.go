package handler

import "time"

// SubmissionRequest represents an inbound contact-form submission. No
// binding tags mark fields required: the validator inspects every field so
// a request with several bad fields reports all of them at once.
type SubmissionRequest struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Message string `form:"message" json:"message"`
	Token   string `form:"token" json:"token"`
}

// FormResponse is the AJAX envelope for form submissions. Data carries the
// confirmation string on success, and either a single message or a
// field-to-message mapping on failure.
type FormResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// SubmissionResponse represents one stored submission in the admin listing
type SubmissionResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// FormTokenResponse carries a freshly issued anti-forgery token
type FormTokenResponse struct {
	Token string `json:"token"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Metrics   map[string]string `json:"metrics,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
