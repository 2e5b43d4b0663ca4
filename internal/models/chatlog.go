package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatLog records the outcome of a single relay request. Entries are
// diagnostic only and never influence request handling.
type ChatLog struct {
	ID           uuid.UUID `json:"id"`
	ModelUsed    *string   `json:"model_used"`
	MessageCount int       `json:"message_count"`
	Status       string    `json:"status"` // "success" or "failed"
	ErrorCode    *string   `json:"error_code"`
	DurationMs   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

type ModelCount struct {
	Model string `json:"model"`
	Count int    `json:"count"`
}

// ChatStats aggregates chat log entries for the admin endpoint.
type ChatStats struct {
	TotalRequests int          `json:"total_requests"`
	Succeeded     int          `json:"succeeded"`
	Failed        int          `json:"failed"`
	AvgDurationMs float64      `json:"avg_duration_ms"`
	ByModel       []ModelCount `json:"by_model"`
}

// APIError is the error payload used by middleware and admin routes.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
