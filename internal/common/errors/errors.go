package errors

import (
	"fmt"
	"time"
)

// ErrorCode is a stable, enumerable error class surfaced to API callers.
type ErrorCode string

const (
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"

	// Election configuration is malformed. Surfaced to the creator, never
	// silently defaulted (the regional-fallback case is handled and logged
	// by the fee calculator, not here).
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"

	// The voter cannot vote right now. Carries the ordered blocker codes
	// in Details["blockers"].
	ErrCodeNotEligible ErrorCode = "NOT_ELIGIBLE"

	// A store or gateway is unavailable. The caller may retry with backoff;
	// the engine itself never retries side-effecting operations.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"

	ErrCodeElectionNotFound ErrorCode = "ELECTION_NOT_FOUND"
	ErrCodeAlreadyVoted     ErrorCode = "ALREADY_VOTED"
	ErrCodeNotOwner         ErrorCode = "NOT_OWNER"
	ErrCodeDrawCompleted    ErrorCode = "DRAW_ALREADY_COMPLETED"
)

// AppError is the typed application error carried across layers.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound || e.Code == ErrCodeElectionNotFound
}

func (e *AppError) IsConflict() bool {
	return e.Code == ErrCodeConflict || e.Code == ErrCodeAlreadyVoted || e.Code == ErrCodeDrawCompleted
}

// WithDetail attaches structured detail to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

func NewConfigurationError(reason string) *AppError {
	return New(ErrCodeConfiguration, fmt.Sprintf("invalid election configuration: %s", reason)).
		WithDetail("reason", reason)
}

func NewElectionNotFoundError(electionID string) *AppError {
	return New(ErrCodeElectionNotFound, fmt.Sprintf("election not found: %s", electionID)).
		WithDetail("election_id", electionID)
}

func NewConflictError(resource, reason string) *AppError {
	return New(ErrCodeConflict, fmt.Sprintf("conflict with %s: %s", resource, reason)).
		WithDetail("resource", resource).
		WithDetail("reason", reason)
}

// NewNotEligibleError carries the ordered blocker codes. Eligibility is a
// query result, so callers usually render Details["blockers"] rather than
// treat this as a failure.
func NewNotEligibleError(blockers []string) *AppError {
	return New(ErrCodeNotEligible, "voter is not eligible to vote in this election").
		WithDetail("blockers", blockers)
}

func NewExternalServiceError(service string, err error) *AppError {
	return Wrap(err, ErrCodeExternalService, fmt.Sprintf("%s is unavailable", service)).
		WithDetail("service", service)
}

func NewUnauthorizedError(reason string) *AppError {
	return New(ErrCodeUnauthorized, fmt.Sprintf("unauthorized: %s", reason)).
		WithDetail("reason", reason)
}

func NewForbiddenError(reason string) *AppError {
	return New(ErrCodeForbidden, fmt.Sprintf("forbidden: %s", reason)).
		WithDetail("reason", reason)
}

// AsAppError casts err to AppError when possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}
