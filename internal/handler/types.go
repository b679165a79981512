package handler

import "time"

// SubmitContactRequest is the body of a contact form submission.
// Message must be present but may be empty.
type SubmitContactRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   string  `json:"email" binding:"required,email"`
	Message *string `json:"message" binding:"required"`
}

// SubmitContactResponse is returned after a contact message is stored
type SubmitContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// SuccessResponse acknowledges a mutation
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// APIHealthResponse is the public liveness answer
type APIHealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthResponse represents the detailed health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Scheduler map[string]string `json:"scheduler,omitempty"`
}

// SchedulerStatusResponse describes the stats refresher
type SchedulerStatusResponse struct {
	Status  string     `json:"status"`
	NextRun *time.Time `json:"next_run"`
	LastRun *time.Time `json:"last_run"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
