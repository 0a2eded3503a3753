package dto

import "github.com/SscSPs/statement_review_app/internal/apperrors"

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error  string                 `json:"error"`
	Code   string                 `json:"code"`
	Fields []apperrors.FieldError `json:"fields,omitempty"`
}

// BatchEnqueuedResponse is returned when a batch disposition is handed to the background worker.
type BatchEnqueuedResponse struct {
	TaskID  string `json:"taskId"`
	Queue   string `json:"queue"`
	BatchID string `json:"batchId"`
	Action  string `json:"action"`
}
