package models

import "fmt"

// Error codes used in ingest responses and internal error handling.
const (
	ErrCodeNoEntropy       = "NO_SECURE_RANDOM"
	ErrCodeMissingIdentity = "MISSING_IDENTITY"
	ErrCodeSendFailed      = "SEND_FAILED"
	ErrCodeBadStatus       = "BAD_STATUS"
	ErrCodeReadyTimeout    = "READINESS_TIMEOUT"
	ErrCodeNoSession       = "NO_SESSION"
	ErrCodeIncomplete      = "INCOMPLETE_RESULT"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in ingest responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TrackError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type TrackError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *TrackError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *TrackError) Unwrap() error {
	return e.Err
}

// NewTrackError creates a new TrackError.
func NewTrackError(code, message string, err error) *TrackError {
	return &TrackError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an ingest-facing ErrorDetail.
func (e *TrackError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// IngestResponse is the JSON body returned by the ingest endpoint.
type IngestResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error,omitempty"`
}
